// Package sqlite provides SQLite-based storage implementations for scddb services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/scddb"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// builder generates SQL with "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection, creates the schema if needed and
// seeds the set types.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"}
	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.seed(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to seed set types: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// referenceTables maps each lookup kind to its table.
var referenceTables = map[scddb.ReferenceKind]string{
	scddb.RefSetType:     "set_types",
	scddb.RefDanceType:   "dance_types",
	scddb.RefDanceFormat: "dance_formats",
}

// SeedSetTypes are the set types present in every new catalogue.
var SeedSetTypes = []string{
	scddb.LongwiseSet,
	scddb.SquareSet,
	scddb.TriangularSet,
	scddb.CircularSet,
	scddb.SetFormatName(2),
	scddb.SetFormatName(3),
	scddb.SetFormatName(4),
	scddb.SetFormatName(5),
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS set_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS dance_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS dance_formats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS dances (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			dance_type_id INTEGER REFERENCES dance_types(id),
			set_type_id INTEGER REFERENCES set_types(id),
			dance_format_id INTEGER REFERENCES dance_formats(id),
			meter TEXT NOT NULL DEFAULT '',
			bars_code TEXT NOT NULL DEFAULT '',
			bars_count INTEGER NOT NULL,
			repetitions INTEGER NOT NULL,
			couples_count INTEGER NOT NULL,
			set_format INTEGER NOT NULL,
			progression TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			crib TEXT NOT NULL DEFAULT '',
			steps TEXT NOT NULL DEFAULT '[]',
			published_in TEXT NOT NULL DEFAULT '[]',
			recommended_music TEXT NOT NULL DEFAULT '[]',
			formations_list TEXT NOT NULL DEFAULT '[]',
			extra_info TEXT NOT NULL DEFAULT '',
			intensity TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_dances_source_url ON dances(source_url) WHERE source_url != '';
		CREATE INDEX IF NOT EXISTS idx_dances_name ON dances(name);

		CREATE TABLE IF NOT EXISTS figures (
			dance_id TEXT NOT NULL REFERENCES dances(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			bars_label TEXT NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (dance_id, position)
		);

		CREATE TABLE IF NOT EXISTS images (
			dance_id TEXT NOT NULL REFERENCES dances(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			alt_text TEXT NOT NULL DEFAULT '',
			filename TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (dance_id, position)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}

func (db *DB) seed() error {
	for _, name := range SeedSetTypes {
		if _, err := db.db.Exec(`INSERT OR IGNORE INTO set_types (name) VALUES (?)`, name); err != nil {
			return err
		}
	}
	return nil
}
