package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	mu     sync.RWMutex
	books  map[string]*AcceptedBook
	lots   map[string]*LotSuggestion
	events []*ScanEvent
	nextID int64

	// Error injection for testing error paths
	InsertAcceptedBookErr error
	LookupErr             error
	QueryBooksErr         error
	QueryLotsErr          error
	RecordScanEventErr    error
	QueryEventsErr        error

	// Hooks for test assertions
	InsertAcceptedBookCalled bool
	RecordScanEventCalled    bool
	LastRecordedEvent        *ScanEvent
}

// Compile-time check that MockRepository implements Repository.
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		books:  make(map[string]*AcceptedBook),
		lots:   make(map[string]*LotSuggestion),
		nextID: 1,
	}
}

// Close does nothing for the mock.
func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) takeID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func sameSeries(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// InsertAcceptedBook stores the book keyed by ISBN.
func (m *MockRepository) InsertAcceptedBook(_ context.Context, book *AcceptedBook) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertAcceptedBookCalled = true
	if m.InsertAcceptedBookErr != nil {
		return m.InsertAcceptedBookErr
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}
	book.ID = m.takeID()
	copied := *book
	m.books[book.ISBN] = &copied
	return nil
}

// LookupAcceptedBook returns the stored book or (nil, nil).
func (m *MockRepository) LookupAcceptedBook(_ context.Context, isbn string) (*AcceptedBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	book, ok := m.books[isbn]
	if !ok {
		return nil, nil
	}
	copied := *book
	return &copied, nil
}

// QueryAcceptedBooksBySeries filters stored books by normalized series name.
func (m *MockRepository) QueryAcceptedBooksBySeries(_ context.Context, seriesName string) ([]*AcceptedBook, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QueryBooksErr != nil {
		return nil, m.QueryBooksErr
	}
	var out []*AcceptedBook
	for _, book := range m.books {
		if book.SeriesName != "" && sameSeries(book.SeriesName, seriesName) {
			copied := *book
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

// UpsertLotSuggestion stores the lot keyed by name.
func (m *MockRepository) UpsertLotSuggestion(_ context.Context, lot *LotSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lot.UpdatedAt.IsZero() {
		lot.UpdatedAt = time.Now().UTC()
	}
	lot.ID = m.takeID()
	copied := *lot
	m.lots[lot.Name] = &copied
	return nil
}

// QueryActiveLotsBySeries filters active lots by series or canonical series.
func (m *MockRepository) QueryActiveLotsBySeries(_ context.Context, seriesName string) ([]*LotSuggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QueryLotsErr != nil {
		return nil, m.QueryLotsErr
	}
	var out []*LotSuggestion
	for _, lot := range m.lots {
		if !lot.Active {
			continue
		}
		if (lot.SeriesName != "" && sameSeries(lot.SeriesName, seriesName)) ||
			(lot.CanonicalSeries != "" && sameSeries(lot.CanonicalSeries, seriesName)) {
			copied := *lot
			out = append(out, &copied)
		}
	}
	return out, nil
}

// RecordScanEvent appends to the in-memory history.
func (m *MockRepository) RecordScanEvent(_ context.Context, event *ScanEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordScanEventCalled = true
	if m.RecordScanEventErr != nil {
		return m.RecordScanEventErr
	}
	if event.ScannedAt.IsZero() {
		event.ScannedAt = time.Now().UTC()
	}
	event.ID = m.takeID()
	copied := *event
	m.events = append(m.events, &copied)
	m.LastRecordedEvent = &copied
	return nil
}

// QueryScanEventsBySeries filters history by normalized series name.
func (m *MockRepository) QueryScanEventsBySeries(_ context.Context, seriesName string) ([]*ScanEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QueryEventsErr != nil {
		return nil, m.QueryEventsErr
	}
	var out []*ScanEvent
	for _, event := range m.events {
		if event.SeriesName != "" && sameSeries(event.SeriesName, seriesName) {
			copied := *event
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScannedAt.After(out[j].ScannedAt) })
	return out, nil
}

// RecentScanEvents returns up to limit events, newest first.
func (m *MockRepository) RecentScanEvents(_ context.Context, limit int) ([]*ScanEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QueryEventsErr != nil {
		return nil, m.QueryEventsErr
	}
	out := make([]*ScanEvent, 0, len(m.events))
	for _, event := range m.events {
		copied := *event
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScannedAt.After(out[j].ScannedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
