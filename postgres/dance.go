package postgres

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/scddb"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ scddb.DanceService = (*DanceService)(nil)

// DanceService implements scddb.DanceService using PostgreSQL.
type DanceService struct {
	db   *DB
	refs scddb.ReferenceService
}

// NewDanceService creates a new DanceService. refs resolves lookup names;
// nil uses this database's ReferenceService.
func NewDanceService(db *DB, refs scddb.ReferenceService) *DanceService {
	if refs == nil {
		refs = NewReferenceService(db)
	}
	return &DanceService{db: db, refs: refs}
}

var danceColumns = []string{
	"d.id::text", "d.name",
	"COALESCE(dt.name, '')", "COALESCE(st.name, '')",
	"d.meter", "d.bars_code", "d.bars_count", "d.repetitions",
	"d.couples_count", "d.set_format", "d.progression", "d.author", "d.year",
	"d.description", "d.crib", "d.steps", "d.published_in",
	"d.recommended_music", "d.formations_list", "d.extra_info", "d.intensity",
	"d.source_url", "d.content_hash", "d.note", "d.created_at", "d.updated_at",
}

func danceValues(d *scddb.Dance, refs scddb.DanceReferences) map[string]any {
	return map[string]any{
		"name":              d.Name,
		"dance_type_id":     nullID(refs.DanceType),
		"set_type_id":       nullID(refs.SetType),
		"dance_format_id":   nullID(refs.DanceFormat),
		"meter":             d.Meter,
		"bars_code":         d.BarsCode,
		"bars_count":        d.BarsCount,
		"repetitions":       d.Repetitions,
		"couples_count":     d.CouplesCount,
		"set_format":        d.SetFormat,
		"progression":       d.Progression,
		"author":            d.Author,
		"year":              d.Year,
		"description":       d.Description,
		"crib":              d.Crib,
		"steps":             list(d.Steps),
		"published_in":      list(d.PublishedIn),
		"recommended_music": list(d.RecommendedMusic),
		"formations_list":   list(d.FormationsList),
		"extra_info":        d.ExtraInfo,
		"intensity":         d.Intensity,
		"source_url":        d.SourceURL,
		"content_hash":      d.ContentHash,
		"note":              d.Note,
	}
}

// CreateDance stores a new dance with its figures and images.
func (s *DanceService) CreateDance(ctx context.Context, dance *scddb.Dance) error {
	if err := dance.Validate(); err != nil {
		return err
	}
	refs, err := scddb.ResolveDanceReferences(ctx, s.refs, dance)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	ts := now()
	values := danceValues(dance, refs)
	values["id"] = id
	values["created_at"] = ts
	values["updated_at"] = ts

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := builder.Insert("dances").SetMap(values).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return mapError(err, "dance")
		}
		return insertChildren(ctx, tx, id, dance)
	})
	if err != nil {
		return err
	}

	dance.ID = id
	dance.CreatedAt = ts
	dance.UpdatedAt = ts
	return nil
}

// FindDanceByID retrieves a dance by ID.
func (s *DanceService) FindDanceByID(ctx context.Context, id string) (*scddb.Dance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, scddb.Errorf(scddb.ENOTFOUND, "dance not found")
	}
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
		if _, err := uuid.Parse(*filter.ID); err != nil {
			return []*scddb.Dance{}, nil
		}
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
	if cond := anyWord("array_to_string(d.published_in, ' ')", filter.Published); cond != nil {
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
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "dance")
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

	if len(byID) == 0 {
		return dances, nil
	}
	if err := s.loadChildren(ctx, byID); err != nil {
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

	ts := now()
	values := danceValues(dance, refs)
	values["updated_at"] = ts

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := builder.Update("dances").SetMap(values).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return mapError(err, "dance")
		}
		for _, table := range []string{"figures", "images"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE dance_id = $1", id); err != nil {
				return err
			}
		}
		return insertChildren(ctx, tx, id, dance)
	})
	if err != nil {
		return err
	}

	dance.ID = id
	dance.CreatedAt = existing.CreatedAt
	dance.UpdatedAt = ts
	return nil
}

// DeleteDance permanently removes a dance. Figures and images go with it.
func (s *DanceService) DeleteDance(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return scddb.Errorf(scddb.ENOTFOUND, "dance not found")
	}
	tag, err := s.db.pool.Exec(ctx, "DELETE FROM dances WHERE id = $1", id)
	if err != nil {
		return mapError(err, "dance")
	}
	if tag.RowsAffected() == 0 {
		return scddb.Errorf(scddb.ENOTFOUND, "dance not found")
	}
	return nil
}

func (s *DanceService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertChildren(ctx context.Context, tx pgx.Tx, id string, dance *scddb.Dance) error {
	batch := &pgx.Batch{}
	for i, f := range dance.Figures {
		batch.Queue("INSERT INTO figures (dance_id, position, bars_label, text) VALUES ($1, $2, $3, $4)",
			id, i, f.BarsLabel, f.Text)
	}
	for i, img := range dance.Images {
		batch.Queue("INSERT INTO images (dance_id, position, url, alt_text, filename, type, location) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			id, i, img.URL, img.AltText, img.Filename, string(img.Type), img.Location)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *DanceService) loadChildren(ctx context.Context, byID map[string]*scddb.Dance) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := s.db.pool.Query(ctx,
		"SELECT dance_id::text, bars_label, text FROM figures WHERE dance_id = ANY($1::uuid[]) ORDER BY dance_id, position", ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var danceID string
		var f scddb.Figure
		if err := rows.Scan(&danceID, &f.BarsLabel, &f.Text); err != nil {
			rows.Close()
			return err
		}
		byID[danceID].Figures = append(byID[danceID].Figures, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.pool.Query(ctx,
		"SELECT dance_id::text, url, alt_text, filename, type, location FROM images WHERE dance_id = ANY($1::uuid[]) ORDER BY dance_id, position", ids)
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
		byID[danceID].Images = append(byID[danceID].Images, img)
	}
	return rows.Err()
}

func scanDance(rows pgx.Rows) (*scddb.Dance, error) {
	var d scddb.Dance
	if err := rows.Scan(
		&d.ID, &d.Name, &d.DanceType, &d.Formation,
		&d.Meter, &d.BarsCode, &d.BarsCount, &d.Repetitions,
		&d.CouplesCount, &d.SetFormat, &d.Progression, &d.Author, &d.Year,
		&d.Description, &d.Crib, &d.Steps, &d.PublishedIn,
		&d.RecommendedMusic, &d.FormationsList, &d.ExtraInfo, &d.Intensity,
		&d.SourceURL, &d.ContentHash, &d.Note, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Steps = unlist(d.Steps)
	d.PublishedIn = unlist(d.PublishedIn)
	d.RecommendedMusic = unlist(d.RecommendedMusic)
	d.FormationsList = unlist(d.FormationsList)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}

// anyWord matches column against each word of phrase, OR'ed, ignoring case.
func anyWord(column, phrase string) sq.Sqlizer {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(words))
	for _, w := range words {
		or = append(or, sq.ILike{column: "%" + w + "%"})
	}
	return or
}

// now returns the current time at the precision PostgreSQL stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// list keeps NOT NULL array columns from receiving NULL.
func list(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func unlist(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
