// Package history stores the entities a user has looked at.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmptyURI is returned when recording a visit without a URI.
var ErrEmptyURI = errors.New("visit URI is empty")

// Visit is the latest visit to one entity.
type Visit struct {
	URI       string    `json:"uri"`
	Label     string    `json:"label"`
	VisitedAt time.Time `json:"visited_at"`
	Count     int       `json:"count"` // total visits to URI
}

// DB wraps a SQLite database connection.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenDB opens or creates a SQLite database at the given path, creating its
// directory when needed. ":memory:" opens a private in-memory database.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uri TEXT NOT NULL,
			label TEXT NOT NULL,
			visited_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_uri ON visits(uri);
	`

	_, err := db.Exec(schema)
	return err
}

// Record appends a visit. An empty label is stored as the URI.
func (d *DB) Record(ctx context.Context, uri, label string) error {
	if uri == "" {
		return ErrEmptyURI
	}
	if label == "" {
		label = uri
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO visits (uri, label, visited_at) VALUES (?, ?, ?)`,
		uri, label, d.now().UnixNano())
	if err != nil {
		return fmt.Errorf("recording visit to %s: %w", uri, err)
	}
	return nil
}

// Recent returns one row per URI, most recently visited first, carrying the
// label and time of its latest visit. limit <= 0 means no limit.
func (d *DB) Recent(ctx context.Context, limit int) ([]Visit, error) {
	query := `
		SELECT v.uri, v.label, v.visited_at, latest.n
		FROM visits v
		JOIN (
			SELECT uri, MAX(id) AS last_id, COUNT(*) AS n
			FROM visits
			GROUP BY uri
		) latest ON v.id = latest.last_id
		ORDER BY v.id DESC`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.URI, &v.Label, &at, &v.Count); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.Unix(0, at)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Count returns the total number of recorded visits.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&count)
	return count, err
}

// Clear deletes all visits and returns how many were removed.
func (d *DB) Clear(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM visits")
	if err != nil {
		return 0, fmt.Errorf("clearing visits: %w", err)
	}
	return res.RowsAffected()
}
