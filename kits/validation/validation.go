package validation

import (
	"fmt"
	"strings"

	kiterrors "github.com/gunplahub/api/kits/errors"
	"github.com/gunplahub/api/kits/models"
)

// MaxPageSize caps the public list endpoint's page size.
const MaxPageSize = 100

// sortableFields is the public sort whitelist. It is narrower than the
// repository's filter whitelist on purpose: only display-relevant orderings
// are exposed.
var sortableFields = map[string]bool{
	"name":         true,
	"name_en":      true,
	"price_krw":    true,
	"release_date": true,
	"created_at":   true,
	"id":           true,
}

// NormalizeListParams validates and normalizes the decoded list query.
// An unknown sortBy or sortOrder is a client error.
func NormalizeListParams(params *models.ListKitsParams) error {
	if params.SortBy != "" && !sortableFields[params.SortBy] {
		return fmt.Errorf("%w: unknown sortBy %q", kiterrors.ErrInvalidListParams, params.SortBy)
	}

	params.SortOrder = strings.ToLower(params.SortOrder)
	switch params.SortOrder {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("%w: sortOrder must be asc or desc", kiterrors.ErrInvalidListParams)
	}

	if params.PriceMin != nil && params.PriceMax != nil && *params.PriceMin > *params.PriceMax {
		return fmt.Errorf("%w: priceMin exceeds priceMax", kiterrors.ErrInvalidListParams)
	}

	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	return nil
}
