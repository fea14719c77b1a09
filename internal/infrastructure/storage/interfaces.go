package storage

import "context"

// Repository defines the complete catalog storage interface.
// This interface allows swapping implementations and makes testing with
// mocks straightforward.
type Repository interface {
	InventoryRepository
	LotRepository
	ScanHistoryRepository
	Close() error
}

// InventoryRepository handles the accepted-book cache.
type InventoryRepository interface {
	// InsertAcceptedBook adds a book to accepted inventory.
	InsertAcceptedBook(ctx context.Context, book *AcceptedBook) error

	// LookupAcceptedBook retrieves a book by normalized ISBN.
	// Returns (nil, nil) when the ISBN is not in inventory.
	LookupAcceptedBook(ctx context.Context, isbn string) (*AcceptedBook, error)

	// QueryAcceptedBooksBySeries returns accepted books whose series name
	// matches (case-insensitive, trimmed).
	QueryAcceptedBooksBySeries(ctx context.Context, seriesName string) ([]*AcceptedBook, error)
}

// LotRepository handles the active-lot-suggestion cache.
type LotRepository interface {
	// UpsertLotSuggestion inserts or replaces a lot suggestion by name.
	UpsertLotSuggestion(ctx context.Context, lot *LotSuggestion) error

	// QueryActiveLotsBySeries returns active lots whose canonical series
	// or series name matches (case-insensitive, trimmed).
	QueryActiveLotsBySeries(ctx context.Context, seriesName string) ([]*LotSuggestion, error)
}

// ScanHistoryRepository tracks scan events and decisions.
type ScanHistoryRepository interface {
	// RecordScanEvent appends a scan decision to history.
	RecordScanEvent(ctx context.Context, event *ScanEvent) error

	// QueryScanEventsBySeries returns past scans for a series, newest first.
	QueryScanEventsBySeries(ctx context.Context, seriesName string) ([]*ScanEvent, error)

	// RecentScanEvents returns the most recent scan events, newest first.
	RecentScanEvents(ctx context.Context, limit int) ([]*ScanEvent, error)
}
