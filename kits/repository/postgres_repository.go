// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/gunplahub/api/internal/database/postgres"
	"github.com/gunplahub/api/internal/listquery"
	kiterrors "github.com/gunplahub/api/kits/errors"
	"github.com/gunplahub/api/kits/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// KitsTable declares the queryable surface of the kits relation. Filters
// and sorts are validated against this whitelist before any SQL runs.
var KitsTable = listquery.Table{
	Name:     "kits",
	IDColumn: "id",
	Columns: map[string]string{
		"id":           "id",
		"name":         "name",
		"name_en":      "name_en",
		"grade_id":     "grade_id",
		"series_id":    "series_id",
		"timeline_id":  "timeline_id",
		"price_krw":    "price_krw",
		"release_date": "release_date",
		"limited_type": "limited_type",
		"created_at":   "created_at",
	},
	SearchFields: []string{"name", "name_en"},
	DefaultSort:  "name",
}

var kitColumns = []string{
	"id", "name", "name_en", "grade_id", "series_id", "timeline_id",
	"mobile_suit_id", "price_krw", "release_date", "limited_type",
	"description", "created_at", "updated_at",
}

// postgresRepository implements KitRepository using raw SQL queries
type postgresRepository struct {
	client  *postgres.Client
	builder *listquery.Builder
}

// NewPostgresRepository creates a new PostgreSQL repository for the kit catalog
func NewPostgresRepository(client *postgres.Client) KitRepository {
	return &postgresRepository{
		client:  client,
		builder: listquery.NewBuilder(KitsTable),
	}
}

// FindKits runs the compiled list query and scans the base kit rows.
func (r *postgresRepository) FindKits(ctx context.Context, q listquery.ListQuery) ([]models.Kit, error) {
	builder, err := r.builder.Select(q, kitColumns...)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var kits []models.Kit
	if err := r.client.DB().SelectContext(ctx, &kits, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return kits, nil
}

// CountKits counts rows matching the query's predicates.
func (r *postgresRepository) CountKits(ctx context.Context, q listquery.ListQuery) (int64, error) {
	builder, err := r.builder.Count(q)
	if err != nil {
		return 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var count int64
	if err := r.client.DB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

// GetKit loads one kit by id.
func (r *postgresRepository) GetKit(ctx context.Context, id int64) (*models.Kit, error) {
	query, args, err := psql.Select(kitColumns...).
		From("kits").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var kit models.Kit
	if err := r.client.DB().GetContext(ctx, &kit, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", kiterrors.ErrKitNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return &kit, nil
}

// ListImages loads all images for the given kits. The ordering puts the
// flagged primary first, then arrival order, so the shaper can take the
// first image per kit.
func (r *postgresRepository) ListImages(ctx context.Context, kitIDs []int64) ([]models.KitImage, error) {
	if len(kitIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select("id", "kit_id", "url", "is_primary", "position").
		From("kit_images").
		Where(sq.Eq{"kit_id": kitIDs}).
		OrderBy("kit_id ASC", "is_primary DESC", "position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var images []models.KitImage
	if err := r.client.DB().SelectContext(ctx, &images, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return images, nil
}

// GradesByID loads grade summaries keyed by id.
func (r *postgresRepository) GradesByID(ctx context.Context, ids []int64) (map[int64]models.GradeSummary, error) {
	if len(ids) == 0 {
		return map[int64]models.GradeSummary{}, nil
	}

	query, args, err := psql.Select("id", "code", "name").
		From("grades").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var rows []models.GradeSummary
	if err := r.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	out := make(map[int64]models.GradeSummary, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// SeriesByID loads series summaries keyed by id.
func (r *postgresRepository) SeriesByID(ctx context.Context, ids []int64) (map[int64]models.SeriesSummary, error) {
	if len(ids) == 0 {
		return map[int64]models.SeriesSummary{}, nil
	}

	query, args, err := psql.Select("id", "name", "COALESCE(name_en, '') AS name_en").
		From("series").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var rows []models.SeriesSummary
	if err := r.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	out := make(map[int64]models.SeriesSummary, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// TimelinesByID loads timeline summaries keyed by id.
func (r *postgresRepository) TimelinesByID(ctx context.Context, ids []int64) (map[int64]models.TimelineSummary, error) {
	if len(ids) == 0 {
		return map[int64]models.TimelineSummary{}, nil
	}

	query, args, err := psql.Select("id", "code", "name").
		From("timelines").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var rows []models.TimelineSummary
	if err := r.client.DB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	out := make(map[int64]models.TimelineSummary, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// GetMobileSuit loads one mobile suit with its faction summary.
func (r *postgresRepository) GetMobileSuit(ctx context.Context, id int64) (*models.MobileSuitSummary, error) {
	query, args, err := psql.Select(
		"ms.id", "ms.name", "f.id AS faction_id", "f.name AS faction_name").
		From("mobile_suits ms").
		LeftJoin("factions f ON f.id = ms.faction_id").
		Where(sq.Eq{"ms.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var row struct {
		ID          int64          `db:"id"`
		Name        string         `db:"name"`
		FactionID   sql.NullInt64  `db:"faction_id"`
		FactionName sql.NullString `db:"faction_name"`
	}
	if err := r.client.DB().GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	suit := &models.MobileSuitSummary{ID: row.ID, Name: row.Name}
	if row.FactionID.Valid {
		suit.Faction = &models.FactionSummary{
			ID:   row.FactionID.Int64,
			Name: row.FactionName.String,
		}
	}
	return suit, nil
}

// ResolveGradeIDs maps grade codes to ids. Matching is case-insensitive;
// unknown codes are dropped.
func (r *postgresRepository) ResolveGradeIDs(ctx context.Context, codes []string) ([]int64, error) {
	return r.resolveCodes(ctx, "grades", codes)
}

// ResolveTimelineIDs maps timeline codes to ids.
func (r *postgresRepository) ResolveTimelineIDs(ctx context.Context, codes []string) ([]int64, error) {
	return r.resolveCodes(ctx, "timelines", codes)
}

func (r *postgresRepository) resolveCodes(ctx context.Context, table string, codes []string) ([]int64, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	lowered := make([]string, 0, len(codes))
	for _, code := range codes {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(code)))
	}

	query, args, err := psql.Select("id").
		From(table).
		Where(sq.Eq{"LOWER(code)": lowered}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}

	var ids []int64
	if err := r.client.DB().SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return ids, nil
}

// FilterOptions loads the selectable filter values in display order.
func (r *postgresRepository) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	options := &models.FilterOptions{
		Timelines:    []models.FilterOption{},
		Grades:       []models.FilterOption{},
		Series:       []models.FilterOption{},
		LimitedTypes: []string{},
	}

	db := r.client.DB()

	if err := db.SelectContext(ctx, &options.Timelines,
		`SELECT id, code, name FROM timelines ORDER BY sort_order ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	if err := db.SelectContext(ctx, &options.Grades,
		`SELECT id, code, name FROM grades ORDER BY display_order ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	if err := db.SelectContext(ctx, &options.Series,
		`SELECT id, '' AS code, name FROM series ORDER BY name ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	if err := db.SelectContext(ctx, &options.LimitedTypes,
		`SELECT DISTINCT limited_type FROM kits WHERE limited_type IS NOT NULL ORDER BY limited_type ASC`); err != nil {
		return nil, fmt.Errorf("%w: %v", kiterrors.ErrDatabaseOperation, err)
	}
	return options, nil
}
