// Package series resolves "is this book part of a collection I'm already
// building" from the locally cached catalog.
//
// The answer is assembled from two independent caches (accepted books and
// active lot suggestions) plus best-effort scan history. There is no single
// source of truth, so the result is an explicit lower bound, refreshed
// opportunistically — not a transactional join.
package series

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Decision records what happened to a previously scanned book.
type Decision string

const (
	DecisionAccepted Decision = "ACCEPTED"
	DecisionRejected Decision = "REJECTED"
)

// PriorScan is one earlier sighting of a book in the same series.
// Rejected scans matter: they drive "go back and get this" prompts.
type PriorScan struct {
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title,omitempty"`
	SeriesIndex  *float64  `json:"series_index,omitempty"`
	ScannedAt    time.Time `json:"scanned_at"`
	Decision     Decision  `json:"decision"`
	LocationName string    `json:"location_name,omitempty"`
}

// Context is the series picture for one scan. Derived from local caches,
// never authoritative.
type Context struct {
	IsPartOfSeries   bool        `json:"is_part_of_series"`
	SeriesName       string      `json:"series_name,omitempty"`
	BooksAlreadyHeld int         `json:"books_already_held"`
	PriorScans       []PriorScan `json:"prior_scans,omitempty"`
}

// OwnedBook is an accepted-inventory entry as the analyzer sees it.
type OwnedBook struct {
	ISBN        string
	Title       string
	SeriesIndex *float64
	AddedAt     time.Time
	Location    string
}

// Lot is an active lot suggestion matched by series name.
type Lot struct {
	Name      string
	BookCount int
}

// BookSource reads the accepted-book cache.
type BookSource interface {
	AcceptedBooksInSeries(ctx context.Context, seriesName string) ([]OwnedBook, error)
}

// LotSource reads the active-lot-suggestion cache.
type LotSource interface {
	ActiveLotsForSeries(ctx context.Context, seriesName string) ([]Lot, error)
}

// HistorySource reads prior scan events. It may be slow or unavailable;
// the analyzer treats it as strictly best-effort.
type HistorySource interface {
	ScanHistoryForSeries(ctx context.Context, seriesName string) ([]PriorScan, error)
}

// NormalizeName canonicalizes a series name for matching: trimmed and
// lowercased. Storage queries use the same rule so in-memory and SQL
// comparisons agree.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Analyzer correlates a scan against the local caches.
type Analyzer struct {
	books   BookSource
	lots    LotSource
	history HistorySource
	logger  *slog.Logger
}

// NewAnalyzer builds an analyzer. history may be nil when no scan-history
// source is available.
func NewAnalyzer(books BookSource, lots LotSource, history HistorySource, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{books: books, lots: lots, history: history, logger: logger}
}

// Analyze builds the series context for one scanned ISBN.
// A missing series name short-circuits to "not part of a series".
func (a *Analyzer) Analyze(ctx context.Context, isbn, seriesName string) (Context, error) {
	seriesName = strings.TrimSpace(seriesName)
	if seriesName == "" {
		return Context{}, nil
	}

	owned, err := a.books.AcceptedBooksInSeries(ctx, seriesName)
	if err != nil {
		return Context{}, err
	}

	result := Context{SeriesName: seriesName}
	seen := make(map[string]bool, len(owned)+1)
	seen[isbn] = true
	for _, b := range owned {
		if b.ISBN == isbn {
			// The scanned copy itself never counts toward the collection.
			continue
		}
		seen[b.ISBN] = true
		result.PriorScans = append(result.PriorScans, PriorScan{
			ISBN:         b.ISBN,
			Title:        b.Title,
			SeriesIndex:  b.SeriesIndex,
			ScannedAt:    b.AddedAt,
			Decision:     DecisionAccepted,
			LocationName: b.Location,
		})
	}

	lots, err := a.lots.ActiveLotsForSeries(ctx, seriesName)
	if err != nil {
		return Context{}, err
	}

	// A lot may bundle books that never made it into the accepted-book
	// cache individually, so its count is a floor, not a duplicate.
	held := len(result.PriorScans)
	for _, lot := range lots {
		if lot.BookCount > held {
			held = lot.BookCount
		}
	}

	result.BooksAlreadyHeld = held
	result.IsPartOfSeries = held > 0 || len(lots) > 0

	a.mergeHistory(ctx, seriesName, seen, &result)

	return result, nil
}

// mergeHistory folds prior scan events (including rejections) into the
// context. Failures are logged and swallowed: the caller already has a
// usable lower bound.
func (a *Analyzer) mergeHistory(ctx context.Context, seriesName string, seen map[string]bool, result *Context) {
	if a.history == nil {
		return
	}

	scans, err := a.history.ScanHistoryForSeries(ctx, seriesName)
	if err != nil {
		a.logger.Warn("scan history unavailable", "series", seriesName, "error", err)
		return
	}

	for _, s := range scans {
		if seen[s.ISBN] {
			continue
		}
		seen[s.ISBN] = true
		result.PriorScans = append(result.PriorScans, s)
	}
}
