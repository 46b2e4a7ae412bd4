// Package postgres provides PostgreSQL-based storage implementations for
// scddb services. The schema is managed by embedded goose migrations.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/scddb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var migrations embed.FS

// builder generates SQL with "$n" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool     *pgxpool.Pool
	dsn      string
	maxConns int32
}

// Option configures a DB.
type Option func(*DB)

// WithMaxConns caps the size of the connection pool.
func WithMaxConns(n int32) Option {
	return func(db *DB) {
		db.maxConns = n
	}
}

// NewDB creates a new DB for the given connection string.
func NewDB(dsn string, opts ...Option) *DB {
	db := &DB{dsn: dsn}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open connects, pings the server and applies pending migrations.
func (db *DB) Open(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return fmt.Errorf("parse database DSN: %w", err)
	}
	if db.maxConns > 0 {
		cfg.MaxConns = db.maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	db.pool = pool

	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return err
	}
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}

	conn := stdlib.OpenDBFromPool(db.pool)
	defer conn.Close()

	// Concurrent Open calls serialize on an advisory lock.
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, conn, dir, goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Pool exposes the underlying pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

var referenceTables = map[scddb.ReferenceKind]string{
	scddb.RefSetType:     "set_types",
	scddb.RefDanceType:   "dance_types",
	scddb.RefDanceFormat: "dance_formats",
}

// mapError converts pgx errors to application errors. Context errors pass
// through unchanged.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return scddb.Errorf(scddb.ENOTFOUND, "%s not found", entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return scddb.Errorf(scddb.ECONFLICT, "%s already exists", entity)
		case "23514": // check_violation
			return scddb.Errorf(scddb.EINVALID, "invalid %s", entity)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}
