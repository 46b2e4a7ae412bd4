package postgres

import (
	"context"
	"strings"

	"github.com/fwojciec/scddb"
)

// Compile-time interface verification.
var _ scddb.ReferenceService = (*ReferenceService)(nil)

// ReferenceService implements scddb.ReferenceService using PostgreSQL.
type ReferenceService struct {
	db *DB
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(db *DB) *ReferenceService {
	return &ReferenceService{db: db}
}

// FindOrCreateReference upserts the named row and returns its ID.
func (s *ReferenceService) FindOrCreateReference(ctx context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return 0, scddb.Errorf(scddb.EINVALID, "unknown reference kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, scddb.Errorf(scddb.EINVALID, "%s name required", kind)
	}

	// The no-op update makes RETURNING yield the existing row.
	query, args, err := builder.Insert(table).
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapError(err, string(kind))
	}
	return id, nil
}

// FindReferences lists the rows of a lookup table ordered by name.
func (s *ReferenceService) FindReferences(ctx context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return nil, scddb.Errorf(scddb.EINVALID, "unknown reference kind %q", kind)
	}

	query, args, err := builder.Select("id", "name").From(table).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, string(kind))
	}
	defer rows.Close()

	refs := []*scddb.Reference{}
	for rows.Next() {
		ref := &scddb.Reference{Kind: kind}
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
