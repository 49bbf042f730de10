package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-cutter/domain/library"

	_ "modernc.org/sqlite"
)

// timeLayout sorts lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Index records saved exports in a SQLite database
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the SQLite index at path.
// Parent directories are created if they don't exist.
func OpenIndex(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Index{db: db}, nil
}

// migrate is idempotent
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating exports table: %w", err)
	}
	return nil
}

// Insert records an asset
func (i *Index) Insert(ctx context.Context, a library.Asset) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO exports (id, name, path, size, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Location, a.Size, a.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting export %s: %w", a.Name, err)
	}
	return nil
}

// List returns every recorded asset, newest first
func (i *Index) List(ctx context.Context) ([]library.Asset, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT id, name, path, size, created_at FROM exports ORDER BY created_at DESC, name DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	var assets []library.Asset
	for rows.Next() {
		var (
			a       library.Asset
			created string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Location, &a.Size, &created); err != nil {
			return nil, fmt.Errorf("scanning export: %w", err)
		}
		if a.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exports: %w", err)
	}

	return assets, nil
}

// Close closes the database
func (i *Index) Close() error {
	return i.db.Close()
}

// Ensure Index implements library.Lister
var _ library.Lister = (*Index)(nil)
