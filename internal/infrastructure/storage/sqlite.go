// Package storage persists the local catalog caches: accepted inventory,
// lot suggestions, and scan history.
//
// The engine only reads these caches while deciding; writes happen after
// the user accepts or rejects a book.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite access to the local catalog.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository.
var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the catalog database at dbPath and runs
// pending migrations. Use ":memory:" for throwaway databases in tests.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// InsertAcceptedBook adds a book to accepted inventory.
func (s *Storage) InsertAcceptedBook(ctx context.Context, book *AcceptedBook) error {
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO accepted_books
	(isbn, title, author, series_name, series_index, condition, location, added_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		book.ISBN,
		book.Title,
		book.Author,
		book.SeriesName,
		book.SeriesIndex,
		book.Condition,
		book.Location,
		book.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("insert accepted book: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		book.ID = id
	}
	return nil
}

// LookupAcceptedBook retrieves a book by ISBN; (nil, nil) when absent.
func (s *Storage) LookupAcceptedBook(ctx context.Context, isbn string) (*AcceptedBook, error) {
	query := `
	SELECT id, isbn, title, author, series_name, series_index, condition, location, added_at
	FROM accepted_books WHERE isbn = ?
	`

	book, err := scanAcceptedBook(s.db.QueryRowContext(ctx, query, isbn))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup accepted book: %w", err)
	}
	return book, nil
}

// QueryAcceptedBooksBySeries returns accepted books in a series,
// matching case-insensitively on the trimmed name.
func (s *Storage) QueryAcceptedBooksBySeries(ctx context.Context, seriesName string) ([]*AcceptedBook, error) {
	query := `
	SELECT id, isbn, title, author, series_name, series_index, condition, location, added_at
	FROM accepted_books
	WHERE LOWER(TRIM(series_name)) = LOWER(TRIM(?))
	ORDER BY added_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, seriesName)
	if err != nil {
		return nil, fmt.Errorf("query accepted books by series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []*AcceptedBook
	for rows.Next() {
		book, err := scanAcceptedBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// UpsertLotSuggestion inserts or replaces a lot suggestion by name.
func (s *Storage) UpsertLotSuggestion(ctx context.Context, lot *LotSuggestion) error {
	if lot.UpdatedAt.IsZero() {
		lot.UpdatedAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO lot_suggestions
	(name, series_name, canonical_series, book_count, strategy, estimated_value, active, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		lot.Name,
		lot.SeriesName,
		lot.CanonicalSeries,
		lot.BookCount,
		lot.Strategy,
		lot.EstimatedValue,
		lot.Active,
		lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert lot suggestion: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		lot.ID = id
	}
	return nil
}

// QueryActiveLotsBySeries returns active lots whose canonical series or
// series name matches, case-insensitively on the trimmed name.
func (s *Storage) QueryActiveLotsBySeries(ctx context.Context, seriesName string) ([]*LotSuggestion, error) {
	query := `
	SELECT id, name, series_name, canonical_series, book_count, strategy, estimated_value, active, updated_at
	FROM lot_suggestions
	WHERE active = 1
	  AND (LOWER(TRIM(series_name)) = LOWER(TRIM(?)) OR LOWER(TRIM(canonical_series)) = LOWER(TRIM(?)))
	ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, seriesName, seriesName)
	if err != nil {
		return nil, fmt.Errorf("query active lots by series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lots []*LotSuggestion
	for rows.Next() {
		lot := &LotSuggestion{}
		var series, canonical, strategy sql.NullString
		err := rows.Scan(
			&lot.ID,
			&lot.Name,
			&series,
			&canonical,
			&lot.BookCount,
			&strategy,
			&lot.EstimatedValue,
			&lot.Active,
			&lot.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lot.SeriesName = series.String
		lot.CanonicalSeries = canonical.String
		lot.Strategy = strategy.String
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// RecordScanEvent appends a scan decision to history.
func (s *Storage) RecordScanEvent(ctx context.Context, event *ScanEvent) error {
	if event.ScannedAt.IsZero() {
		event.ScannedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO scan_history
	(isbn, title, series_name, series_index, decision, location_name, scanned_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		event.ISBN,
		event.Title,
		event.SeriesName,
		event.SeriesIndex,
		event.Decision,
		event.LocationName,
		event.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("record scan event: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		event.ID = id
	}
	return nil
}

// QueryScanEventsBySeries returns past scans for a series, newest first.
func (s *Storage) QueryScanEventsBySeries(ctx context.Context, seriesName string) ([]*ScanEvent, error) {
	query := `
	SELECT id, isbn, title, series_name, series_index, decision, location_name, scanned_at
	FROM scan_history
	WHERE LOWER(TRIM(series_name)) = LOWER(TRIM(?))
	ORDER BY scanned_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, seriesName)
	if err != nil {
		return nil, fmt.Errorf("query scan events by series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectScanEvents(rows)
}

// RecentScanEvents returns the most recent scan events, newest first.
func (s *Storage) RecentScanEvents(ctx context.Context, limit int) ([]*ScanEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, isbn, title, series_name, series_index, decision, location_name, scanned_at
	FROM scan_history
	ORDER BY scanned_at DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent scan events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectScanEvents(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAcceptedBook(row rowScanner) (*AcceptedBook, error) {
	book := &AcceptedBook{}
	var title, author, series, condition, location sql.NullString
	err := row.Scan(
		&book.ID,
		&book.ISBN,
		&title,
		&author,
		&series,
		&book.SeriesIndex,
		&condition,
		&location,
		&book.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	book.Title = title.String
	book.Author = author.String
	book.SeriesName = series.String
	book.Condition = condition.String
	book.Location = location.String
	return book, nil
}

func collectScanEvents(rows *sql.Rows) ([]*ScanEvent, error) {
	var events []*ScanEvent
	for rows.Next() {
		event := &ScanEvent{}
		var title, series, location sql.NullString
		err := rows.Scan(
			&event.ID,
			&event.ISBN,
			&title,
			&series,
			&event.SeriesIndex,
			&event.Decision,
			&location,
			&event.ScannedAt,
		)
		if err != nil {
			return nil, err
		}
		event.Title = title.String
		event.SeriesName = series.String
		event.LocationName = location.String
		events = append(events, event)
	}
	return events, rows.Err()
}
