package scan

import (
	"context"
	"time"

	"github.com/ncuskey/lothelper-engine/internal/domain/duplicate"
	"github.com/ncuskey/lothelper-engine/internal/domain/series"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/storage"
)

// catalog adapts the storage repository to the read-only source
// interfaces the domain analyzers accept.
type catalog struct {
	repo storage.Repository
}

var (
	_ series.BookSource         = catalog{}
	_ series.LotSource          = catalog{}
	_ series.HistorySource      = catalog{}
	_ duplicate.InventoryLookup = catalog{}
)

func (c catalog) AcceptedBooksInSeries(ctx context.Context, seriesName string) ([]series.OwnedBook, error) {
	books, err := c.repo.QueryAcceptedBooksBySeries(ctx, seriesName)
	if err != nil {
		return nil, err
	}
	out := make([]series.OwnedBook, 0, len(books))
	for _, b := range books {
		out = append(out, series.OwnedBook{
			ISBN:        b.ISBN,
			Title:       b.Title,
			SeriesIndex: b.SeriesIndex,
			AddedAt:     b.AddedAt,
			Location:    b.Location,
		})
	}
	return out, nil
}

func (c catalog) ActiveLotsForSeries(ctx context.Context, seriesName string) ([]series.Lot, error) {
	lots, err := c.repo.QueryActiveLotsBySeries(ctx, seriesName)
	if err != nil {
		return nil, err
	}
	out := make([]series.Lot, 0, len(lots))
	for _, l := range lots {
		out = append(out, series.Lot{Name: l.Name, BookCount: l.BookCount})
	}
	return out, nil
}

func (c catalog) ScanHistoryForSeries(ctx context.Context, seriesName string) ([]series.PriorScan, error) {
	events, err := c.repo.QueryScanEventsBySeries(ctx, seriesName)
	if err != nil {
		return nil, err
	}
	out := make([]series.PriorScan, 0, len(events))
	for _, e := range events {
		out = append(out, series.PriorScan{
			ISBN:         e.ISBN,
			Title:        e.Title,
			SeriesIndex:  e.SeriesIndex,
			ScannedAt:    e.ScannedAt,
			Decision:     series.Decision(e.Decision),
			LocationName: e.LocationName,
		})
	}
	return out, nil
}

func (c catalog) AcceptedBookAddedAt(ctx context.Context, isbn string) (time.Time, bool, error) {
	book, err := c.repo.LookupAcceptedBook(ctx, isbn)
	if err != nil {
		return time.Time{}, false, err
	}
	if book == nil {
		return time.Time{}, false, nil
	}
	return book.AddedAt, true, nil
}
