// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gunplahub/api/internal/cache"
	"github.com/gunplahub/api/internal/listquery"
	"github.com/gunplahub/api/internal/pkg/log"
	"github.com/gunplahub/api/kits/models"
	"github.com/gunplahub/api/kits/repository"
)

const (
	filterOptionsCacheKey = "kits:filter-options"
	relatedGroupLimit     = 8
)

// kitService implements KitService on top of the kit repository and the
// shared cache.
type kitService struct {
	repo      repository.KitRepository
	cache     cache.Cache
	filterTTL time.Duration
}

// NewKitService creates the catalog service. The cache may be nil, in which
// case filter options are loaded fresh on every request.
func NewKitService(repo repository.KitRepository, c cache.Cache, filterTTL time.Duration) KitService {
	if filterTTL <= 0 {
		filterTTL = 5 * time.Minute
	}
	return &kitService{
		repo:      repo,
		cache:     c,
		filterTTL: filterTTL,
	}
}

// ListKits serves the public catalog listing.
func (s *kitService) ListKits(ctx context.Context, params models.ListKitsParams) (*models.KitListResponse, error) {
	pager := listquery.NewPager(params.Page, params.Limit)

	filters, empty, err := s.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	if empty {
		// A categorical filter resolved to no known reference rows:
		// nothing can match, skip the round trip.
		return &models.KitListResponse{
			Data: []models.KitRecord{},
			Pagination: models.Pagination{
				Page:       pager.Page,
				Limit:      pager.PageSize,
				Total:      0,
				TotalPages: 1,
			},
		}, nil
	}

	q := listquery.ListQuery{
		Table:          repository.KitsTable.Name,
		SearchTerm:     params.Search,
		Filters:        filters,
		SortField:      params.SortBy,
		SortDescending: params.SortOrder == "desc",
		Page:           pager.Page,
		PageSize:       pager.PageSize,
	}

	kits, err := s.repo.FindKits(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountKits(ctx, q)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, kits)
	if err != nil {
		return nil, err
	}

	return &models.KitListResponse{
		Data: shapeRecords(kits, refs),
		Pagination: models.Pagination{
			Page:       pager.Page,
			Limit:      pager.PageSize,
			Total:      total,
			TotalPages: listquery.TotalPages(total, pager.PageSize),
		},
	}, nil
}

// GetKit serves the full joined detail record.
func (s *kitService) GetKit(ctx context.Context, id int64) (*models.KitDetail, error) {
	kit, err := s.repo.GetKit(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadRefs(ctx, []models.Kit{*kit})
	if err != nil {
		return nil, err
	}

	detail := &models.KitDetail{
		KitRecord: shapeRecord(*kit, refs),
		Images:    refs.images[kit.ID],
		CreatedAt: kit.CreatedAt,
		UpdatedAt: kit.UpdatedAt,
	}
	if detail.Images == nil {
		detail.Images = []models.KitImage{}
	}
	if kit.Description.Valid {
		detail.Description = &kit.Description.String
	}
	if kit.MobileSuitID.Valid {
		suit, err := s.repo.GetMobileSuit(ctx, kit.MobileSuitID.Int64)
		if err != nil {
			return nil, err
		}
		detail.MobileSuit = suit
	}
	return detail, nil
}

// GetRelated serves related kits grouped by relation tag: variant shares
// the mobile suit, series shares the series, similar shares the grade
// within an overlapping price band.
func (s *kitService) GetRelated(ctx context.Context, id int64) (*models.RelatedKits, error) {
	kit, err := s.repo.GetKit(ctx, id)
	if err != nil {
		return nil, err
	}

	related := &models.RelatedKits{
		Variant: []models.KitRecord{},
		Series:  []models.KitRecord{},
		Similar: []models.KitRecord{},
	}

	if kit.MobileSuitID.Valid {
		rows, err := s.relatedGroup(ctx, kit.ID, listquery.Equals("mobile_suit_id", kit.MobileSuitID.Int64))
		if err != nil {
			return nil, err
		}
		related.Variant = rows
	}

	if kit.SeriesID.Valid {
		rows, err := s.relatedGroup(ctx, kit.ID, listquery.Equals("series_id", kit.SeriesID.Int64))
		if err != nil {
			return nil, err
		}
		related.Series = rows
	}

	if kit.GradeID.Valid {
		clauses := []listquery.Clause{listquery.Equals("grade_id", kit.GradeID.Int64)}
		if kit.PriceKRW.Valid {
			min := float64(kit.PriceKRW.Int64) * 0.7
			max := float64(kit.PriceKRW.Int64) * 1.3
			clauses = append(clauses, listquery.Between("price_krw", &min, &max))
		}
		rows, err := s.relatedGroup(ctx, kit.ID, clauses...)
		if err != nil {
			return nil, err
		}
		related.Similar = rows
	}

	return related, nil
}

// FilterOptions serves the filter sidebar values through the TTL cache.
func (s *kitService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, filterOptionsCacheKey); err == nil {
			var options models.FilterOptions
			if err := json.Unmarshal(payload, &options); err == nil {
				return &options, nil
			}
		}
	}

	options, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(options); err == nil {
			if err := s.cache.Set(ctx, filterOptionsCacheKey, payload, s.filterTTL); err != nil {
				log.Warn("filter options cache write failed: %v", err)
			}
		}
	}
	return options, nil
}

// buildFilters translates the decoded query params into filter clauses.
// Categorical params carry reference codes; they are resolved to ids once
// per request. A provided filter that resolves to zero known ids means the
// result set is empty (reported via the empty flag), which is different
// from the filter being absent.
func (s *kitService) buildFilters(ctx context.Context, params models.ListKitsParams) (clauses []listquery.Clause, empty bool, err error) {
	if len(params.Grades) > 0 {
		ids, err := s.repo.ResolveGradeIDs(ctx, params.Grades)
		if err != nil {
			return nil, false, err
		}
		if len(ids) == 0 {
			return nil, true, nil
		}
		clauses = append(clauses, listquery.In("grade_id", toAnySlice(ids)...))
	}

	if len(params.Timelines) > 0 {
		ids, err := s.repo.ResolveTimelineIDs(ctx, params.Timelines)
		if err != nil {
			return nil, false, err
		}
		if len(ids) == 0 {
			return nil, true, nil
		}
		clauses = append(clauses, listquery.In("timeline_id", toAnySlice(ids)...))
	}

	if len(params.Series) > 0 {
		clauses = append(clauses, listquery.In("series_id", toAnySlice(params.Series)...))
	}

	if params.PriceMin != nil || params.PriceMax != nil {
		clauses = append(clauses, listquery.Between("price_krw", params.PriceMin, params.PriceMax))
	}

	return clauses, false, nil
}

// relatedGroup fetches one related-kits group, excluding the kit itself.
func (s *kitService) relatedGroup(ctx context.Context, selfID int64, clauses ...listquery.Clause) ([]models.KitRecord, error) {
	q := listquery.ListQuery{
		Table:    repository.KitsTable.Name,
		Filters:  clauses,
		Page:     1,
		PageSize: relatedGroupLimit + 1,
	}

	kits, err := s.repo.FindKits(ctx, q)
	if err != nil {
		return nil, err
	}

	filtered := kits[:0]
	for _, kit := range kits {
		if kit.ID != selfID {
			filtered = append(filtered, kit)
		}
	}
	if len(filtered) > relatedGroupLimit {
		filtered = filtered[:relatedGroupLimit]
	}

	refs, err := s.loadRefs(ctx, filtered)
	if err != nil {
		return nil, err
	}
	return shapeRecords(filtered, refs), nil
}

// loadRefs batch-loads the reference data needed to shape a page.
func (s *kitService) loadRefs(ctx context.Context, kits []models.Kit) (refData, error) {
	var refs refData

	kitIDs, gradeIDs, seriesIDs, timelineIDs := collectRefIDs(kits)

	images, err := s.repo.ListImages(ctx, kitIDs)
	if err != nil {
		return refs, err
	}
	refs.images = groupImages(images)

	if refs.grades, err = s.repo.GradesByID(ctx, gradeIDs); err != nil {
		return refs, err
	}
	if refs.series, err = s.repo.SeriesByID(ctx, seriesIDs); err != nil {
		return refs, err
	}
	if refs.timelines, err = s.repo.TimelinesByID(ctx, timelineIDs); err != nil {
		return refs, err
	}
	return refs, nil
}

func toAnySlice[T any](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
