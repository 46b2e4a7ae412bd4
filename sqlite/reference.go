package sqlite

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/scddb"
)

// Compile-time interface verification.
var _ scddb.ReferenceService = (*ReferenceService)(nil)

// ReferenceService implements scddb.ReferenceService using SQLite.
type ReferenceService struct {
	db *DB
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(db *DB) *ReferenceService {
	return &ReferenceService{db: db}
}

// FindOrCreateReference returns the ID of the named row, inserting it first
// when needed.
func (s *ReferenceService) FindOrCreateReference(ctx context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, scddb.Errorf(scddb.EINVALID, "%s name required", kind)
	}

	query, args, err := builder.Insert(table).
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}

	query, args, err = builder.Select("id").From(table).Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindReferences lists the rows of a lookup table ordered by name.
func (s *ReferenceService) FindReferences(ctx context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error) {
	table, err := referenceTable(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.Select("id", "name").From(table).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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

func referenceTable(kind scddb.ReferenceKind) (string, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return "", scddb.Errorf(scddb.EINVALID, "unknown reference kind %q", kind)
	}
	return table, nil
}
