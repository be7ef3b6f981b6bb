package services

import (
	"context"

	"github.com/gunplahub/api/kits/models"
)

// KitService defines the business-logic contract for the public catalog.
type KitService interface {
	// ListKits serves the filtered, sorted, paginated catalog listing.
	ListKits(ctx context.Context, params models.ListKitsParams) (*models.KitListResponse, error)
	// GetKit serves the full joined detail record.
	GetKit(ctx context.Context, id int64) (*models.KitDetail, error)
	// GetRelated serves related kits grouped by relation tag.
	GetRelated(ctx context.Context, id int64) (*models.RelatedKits, error)
	// FilterOptions serves the selectable filter values, cached with a TTL.
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
}
