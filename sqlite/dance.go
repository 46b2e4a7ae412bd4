package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/scddb"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ scddb.DanceService = (*DanceService)(nil)

// DanceService implements scddb.DanceService using SQLite.
type DanceService struct {
	db   *DB
	refs scddb.ReferenceService
}

// NewDanceService creates a new DanceService. Lookup names are resolved
// through refs, which may be a cache in front of this database's
// ReferenceService; nil uses the database directly.
func NewDanceService(db *DB, refs scddb.ReferenceService) *DanceService {
	if refs == nil {
		refs = NewReferenceService(db)
	}
	return &DanceService{db: db, refs: refs}
}

var danceColumns = []string{
	"d.id", "d.name",
	"COALESCE(dt.name, '')", "COALESCE(st.name, '')",
	"d.meter", "d.bars_code", "d.bars_count", "d.repetitions",
	"d.couples_count", "d.set_format", "d.progression", "d.author", "d.year",
	"d.description", "d.crib", "d.steps", "d.published_in",
	"d.recommended_music", "d.formations_list", "d.extra_info", "d.intensity",
	"d.source_url", "d.content_hash", "d.note", "d.created_at", "d.updated_at",
}

// CreateDance stores a new dance with its figures and images.
func (s *DanceService) CreateDance(ctx context.Context, dance *scddb.Dance) error {
	if err := dance.Validate(); err != nil {
		return err
	}
	// Lookups run before the transaction: the pool has a single connection.
	refs, err := scddb.ResolveDanceReferences(ctx, s.refs, dance)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkSourceURL(ctx, tx, dance.SourceURL, ""); err != nil {
		return err
	}

	id := uuid.New().String()
	ts := now()

	query, args, err := builder.Insert("dances").
		Columns(
			"id", "name", "dance_type_id", "set_type_id", "dance_format_id",
			"meter", "bars_code", "bars_count", "repetitions", "couples_count",
			"set_format", "progression", "author", "year", "description", "crib",
			"steps", "published_in", "recommended_music", "formations_list",
			"extra_info", "intensity", "source_url", "content_hash", "note",
			"created_at", "updated_at",
		).
		Values(
			id, dance.Name, nullID(refs.DanceType), nullID(refs.SetType), nullID(refs.DanceFormat),
			dance.Meter, dance.BarsCode, dance.BarsCount, dance.Repetitions, dance.CouplesCount,
			dance.SetFormat, dance.Progression, dance.Author, dance.Year, dance.Description, dance.Crib,
			encodeList(dance.Steps), encodeList(dance.PublishedIn), encodeList(dance.RecommendedMusic),
			encodeList(dance.FormationsList), dance.ExtraInfo, dance.Intensity, dance.SourceURL,
			dance.ContentHash, dance.Note, ts.Format(time.RFC3339), ts.Format(time.RFC3339),
		).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	if err := insertChildren(ctx, tx, id, dance); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	dance.ID = id
	dance.CreatedAt = ts
	dance.UpdatedAt = ts
	return nil
}

// FindDanceByID retrieves a dance by ID.
func (s *DanceService) FindDanceByID(ctx context.Context, id string) (*scddb.Dance, error) {
	dances, err := s.FindDances(ctx, scddb.DanceFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(dances) == 0 {
		return nil, scddb.Errorf(scddb.ENOTFOUND, "dance not found")
	}
	return dances[0], nil
}

// FindDances retrieves dances matching the filter, ordered by name.
func (s *DanceService) FindDances(ctx context.Context, filter scddb.DanceFilter) ([]*scddb.Dance, error) {
	q := builder.Select(danceColumns...).
		From("dances d").
		LeftJoin("dance_types dt ON dt.id = d.dance_type_id").
		LeftJoin("set_types st ON st.id = d.set_type_id")

	if filter.ID != nil {
		q = q.Where(sq.Eq{"d.id": *filter.ID})
	}
	if filter.SourceURL != nil {
		q = q.Where(sq.Eq{"d.source_url": *filter.SourceURL})
	}
	if cond := anyWord("d.name", filter.Name); cond != nil {
		q = q.Where(cond)
	}
	if cond := anyWord("d.author", filter.Author); cond != nil {
		q = q.Where(cond)
	}
	if cond := anyWord("d.published_in", filter.Published); cond != nil {
		q = q.Where(cond)
	}
	if filter.DanceType != nil {
		q = q.Where(sq.Eq{"dt.name": *filter.DanceType})
	}
	if filter.Formation != nil {
		q = q.Where(sq.Eq{"st.name": *filter.Formation})
	}
	if filter.MinRepetitions != nil {
		q = q.Where(sq.GtOrEq{"d.repetitions": *filter.MinRepetitions})
	}
	if filter.MaxRepetitions != nil {
		q = q.Where(sq.LtOrEq{"d.repetitions": *filter.MaxRepetitions})
	}

	q = q.OrderBy("d.name ASC", "d.id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		// SQLite only accepts OFFSET after LIMIT.
		if filter.Limit <= 0 {
			q = q.Limit(1<<63 - 1)
		}
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dances := []*scddb.Dance{}
	byID := make(map[string]*scddb.Dance)
	for rows.Next() {
		d, err := scanDance(rows)
		if err != nil {
			return nil, err
		}
		dances = append(dances, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(byID) == 0 {
		return dances, nil
	}
	if err := s.loadFigures(ctx, byID); err != nil {
		return nil, err
	}
	if err := s.loadImages(ctx, byID); err != nil {
		return nil, err
	}
	return dances, nil
}

// UpdateDance replaces the stored dance with id, including its figures and
// images. CreatedAt is preserved.
func (s *DanceService) UpdateDance(ctx context.Context, id string, dance *scddb.Dance) error {
	existing, err := s.FindDanceByID(ctx, id)
	if err != nil {
		return err
	}
	if err := dance.Validate(); err != nil {
		return err
	}
	refs, err := scddb.ResolveDanceReferences(ctx, s.refs, dance)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkSourceURL(ctx, tx, dance.SourceURL, id); err != nil {
		return err
	}

	ts := now()
	query, args, err := builder.Update("dances").
		SetMap(map[string]any{
			"name":              dance.Name,
			"dance_type_id":     nullID(refs.DanceType),
			"set_type_id":       nullID(refs.SetType),
			"dance_format_id":   nullID(refs.DanceFormat),
			"meter":             dance.Meter,
			"bars_code":         dance.BarsCode,
			"bars_count":        dance.BarsCount,
			"repetitions":       dance.Repetitions,
			"couples_count":     dance.CouplesCount,
			"set_format":        dance.SetFormat,
			"progression":       dance.Progression,
			"author":            dance.Author,
			"year":              dance.Year,
			"description":       dance.Description,
			"crib":              dance.Crib,
			"steps":             encodeList(dance.Steps),
			"published_in":      encodeList(dance.PublishedIn),
			"recommended_music": encodeList(dance.RecommendedMusic),
			"formations_list":   encodeList(dance.FormationsList),
			"extra_info":        dance.ExtraInfo,
			"intensity":         dance.Intensity,
			"source_url":        dance.SourceURL,
			"content_hash":      dance.ContentHash,
			"note":              dance.Note,
			"updated_at":        ts.Format(time.RFC3339),
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	for _, table := range []string{"figures", "images"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE dance_id = ?", id); err != nil {
			return err
		}
	}
	if err := insertChildren(ctx, tx, id, dance); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	dance.ID = id
	dance.CreatedAt = existing.CreatedAt
	dance.UpdatedAt = ts
	return nil
}

// DeleteDance permanently removes a dance. Figures and images go with it.
func (s *DanceService) DeleteDance(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM dances WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return scddb.Errorf(scddb.ENOTFOUND, "dance not found")
	}
	return nil
}

// anyWord matches column against each word of phrase, OR'ed. SQLite's LIKE
// is case-insensitive for ASCII.
func anyWord(column, phrase string) sq.Sqlizer {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(words))
	for _, w := range words {
		or = append(or, sq.Like{column: "%" + w + "%"})
	}
	return or
}

func checkSourceURL(ctx context.Context, tx *sql.Tx, sourceURL, selfID string) error {
	if sourceURL == "" {
		return nil
	}
	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM dances WHERE source_url = ?", sourceURL).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if id != selfID {
		return scddb.Errorf(scddb.ECONFLICT, "dance from %s already exists", sourceURL)
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, id string, dance *scddb.Dance) error {
	if len(dance.Figures) > 0 {
		q := builder.Insert("figures").Columns("dance_id", "position", "bars_label", "text")
		for i, f := range dance.Figures {
			q = q.Values(id, i, f.BarsLabel, f.Text)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(dance.Images) > 0 {
		q := builder.Insert("images").Columns("dance_id", "position", "url", "alt_text", "filename", "type", "location")
		for i, img := range dance.Images {
			q = q.Values(id, i, img.URL, img.AltText, img.Filename, string(img.Type), img.Location)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *DanceService) loadFigures(ctx context.Context, byID map[string]*scddb.Dance) error {
	query, args, err := builder.Select("dance_id", "bars_label", "text").
		From("figures").
		Where(sq.Eq{"dance_id": keys(byID)}).
		OrderBy("dance_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var danceID string
		var f scddb.Figure
		if err := rows.Scan(&danceID, &f.BarsLabel, &f.Text); err != nil {
			return err
		}
		d := byID[danceID]
		d.Figures = append(d.Figures, f)
	}
	return rows.Err()
}

func (s *DanceService) loadImages(ctx context.Context, byID map[string]*scddb.Dance) error {
	query, args, err := builder.Select("dance_id", "url", "alt_text", "filename", "type", "location").
		From("images").
		Where(sq.Eq{"dance_id": keys(byID)}).
		OrderBy("dance_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var danceID, typ string
		var img scddb.Image
		if err := rows.Scan(&danceID, &img.URL, &img.AltText, &img.Filename, &typ, &img.Location); err != nil {
			return err
		}
		img.Type = scddb.ImageType(typ)
		d := byID[danceID]
		d.Images = append(d.Images, img)
	}
	return rows.Err()
}

func scanDance(rows *sql.Rows) (*scddb.Dance, error) {
	var d scddb.Dance
	var steps, published, music, formations, createdAt, updatedAt string
	if err := rows.Scan(
		&d.ID, &d.Name, &d.DanceType, &d.Formation,
		&d.Meter, &d.BarsCode, &d.BarsCount, &d.Repetitions,
		&d.CouplesCount, &d.SetFormat, &d.Progression, &d.Author, &d.Year,
		&d.Description, &d.Crib, &steps, &published,
		&music, &formations, &d.ExtraInfo, &d.Intensity,
		&d.SourceURL, &d.ContentHash, &d.Note, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if d.Steps, err = decodeList(steps, "steps"); err != nil {
		return nil, err
	}
	if d.PublishedIn, err = decodeList(published, "published_in"); err != nil {
		return nil, err
	}
	if d.RecommendedMusic, err = decodeList(music, "recommended_music"); err != nil {
		return nil, err
	}
	if d.FormationsList, err = decodeList(formations, "formations_list"); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &d, nil
}

func keys(m map[string]*scddb.Dance) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// mapError converts constraint violations the pre-checks could not catch.
func mapError(err error) error {
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return scddb.Errorf(scddb.ECONFLICT, "dance already exists")
	}
	return err
}
