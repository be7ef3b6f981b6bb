// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/gunplahub/api/internal/listquery"
	"github.com/gunplahub/api/kits/models"
)

// KitRepository defines the data-access contract for the kit catalog.
type KitRepository interface {
	// FindKits runs a filtered, sorted, paginated query over the kits table.
	FindKits(ctx context.Context, q listquery.ListQuery) ([]models.Kit, error)
	// CountKits counts the rows matching the same predicates.
	CountKits(ctx context.Context, q listquery.ListQuery) (int64, error)
	// GetKit loads one kit by id.
	GetKit(ctx context.Context, id int64) (*models.Kit, error)

	// ListImages loads all images for the given kits, ordered by kit,
	// primary flag and position.
	ListImages(ctx context.Context, kitIDs []int64) ([]models.KitImage, error)

	// Reference lookups used by the result shaper.
	GradesByID(ctx context.Context, ids []int64) (map[int64]models.GradeSummary, error)
	SeriesByID(ctx context.Context, ids []int64) (map[int64]models.SeriesSummary, error)
	TimelinesByID(ctx context.Context, ids []int64) (map[int64]models.TimelineSummary, error)
	GetMobileSuit(ctx context.Context, id int64) (*models.MobileSuitSummary, error)

	// ResolveGradeIDs maps grade codes to grade ids. Unknown codes are
	// dropped; the caller decides what an empty resolution means.
	ResolveGradeIDs(ctx context.Context, codes []string) ([]int64, error)
	// ResolveTimelineIDs maps timeline codes to timeline ids.
	ResolveTimelineIDs(ctx context.Context, codes []string) ([]int64, error)

	// FilterOptions loads the selectable filter values.
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}
