package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database schema migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order.
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_catalog",
		Up:      migration001InitialCatalog,
	},
	{
		Version: 2,
		Name:    "add_scan_history",
		Up:      migration002AddScanHistory,
	},
	{
		Version: 3,
		Name:    "add_series_indexes",
		Up:      migration003AddSeriesIndexes,
	},
}

// runMigrations executes all pending migrations.
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migration001InitialCatalog(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS accepted_books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		isbn TEXT UNIQUE NOT NULL,
		title TEXT,
		author TEXT,
		series_name TEXT,
		series_index REAL,
		condition TEXT,
		location TEXT,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS lot_suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		series_name TEXT,
		canonical_series TEXT,
		book_count INTEGER DEFAULT 0,
		strategy TEXT,
		estimated_value REAL DEFAULT 0,
		active BOOLEAN DEFAULT 1,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`)
	return err
}

func migration002AddScanHistory(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS scan_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		isbn TEXT NOT NULL,
		title TEXT,
		series_name TEXT,
		series_index REAL,
		decision TEXT NOT NULL,
		location_name TEXT,
		scanned_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`)
	return err
}

func migration003AddSeriesIndexes(tx *sql.Tx) error {
	// Series lookups run on every scan; match the normalized form the
	// queries use.
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_accepted_books_series ON accepted_books(LOWER(TRIM(series_name)));
	CREATE INDEX IF NOT EXISTS idx_lot_suggestions_series ON lot_suggestions(LOWER(TRIM(series_name)));
	CREATE INDEX IF NOT EXISTS idx_scan_history_series ON scan_history(LOWER(TRIM(series_name)));
	CREATE INDEX IF NOT EXISTS idx_scan_history_scanned_at ON scan_history(scanned_at);
	`)
	return err
}
