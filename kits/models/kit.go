// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"database/sql"
	"time"
)

// Kit is the full catalog record as stored in the kits table.
type Kit struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	NameEn       sql.NullString `json:"-" db:"name_en"`
	GradeID      sql.NullInt64  `json:"-" db:"grade_id"`
	SeriesID     sql.NullInt64  `json:"-" db:"series_id"`
	TimelineID   sql.NullInt64  `json:"-" db:"timeline_id"`
	MobileSuitID sql.NullInt64  `json:"-" db:"mobile_suit_id"`
	PriceKRW     sql.NullInt64  `json:"-" db:"price_krw"`
	ReleaseDate  sql.NullTime   `json:"-" db:"release_date"`
	LimitedType  sql.NullString `json:"-" db:"limited_type"`
	Description  sql.NullString `json:"-" db:"description"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

// GradeSummary is the denormalized grade reference attached to a kit row.
type GradeSummary struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// SeriesSummary is the denormalized series reference attached to a kit row.
type SeriesSummary struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	NameEn string `json:"nameEn,omitempty" db:"name_en"`
}

// TimelineSummary is the denormalized timeline reference.
type TimelineSummary struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// FactionSummary is the denormalized faction reference.
type FactionSummary struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// MobileSuitSummary is the denormalized mobile-suit reference.
type MobileSuitSummary struct {
	ID      int64           `json:"id" db:"id"`
	Name    string          `json:"name" db:"name"`
	Faction *FactionSummary `json:"faction,omitempty"`
}

// KitImage is one image associated with a kit.
type KitImage struct {
	ID        int64  `json:"id" db:"id"`
	KitID     int64  `json:"-" db:"kit_id"`
	URL       string `json:"url" db:"url"`
	IsPrimary bool   `json:"isPrimary" db:"is_primary"`
	Position  int    `json:"position" db:"position"`
}

// KitRecord is the display-ready kit row: base columns plus joined
// reference summaries and the selected primary image. Missing references
// resolve to null, never to a dropped row.
type KitRecord struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	NameEn       *string          `json:"nameEn"`
	Grade        *GradeSummary    `json:"grade"`
	Series       *SeriesSummary   `json:"series"`
	Timeline     *TimelineSummary `json:"timeline"`
	PriceKRW     *int64           `json:"priceKrw"`
	ReleaseDate  *time.Time       `json:"releaseDate"`
	LimitedType  *string          `json:"limitedType"`
	PrimaryImage *KitImage        `json:"primaryImage"`
}

// KitDetail is the full joined record served by the detail endpoint.
type KitDetail struct {
	KitRecord
	Description *string            `json:"description"`
	MobileSuit  *MobileSuitSummary `json:"mobileSuit"`
	Images      []KitImage         `json:"images"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// RelatedKits groups related records by relation tag: variant (same mobile
// suit), series (same series), similar (same grade, overlapping price band).
type RelatedKits struct {
	Variant []KitRecord `json:"variant"`
	Series  []KitRecord `json:"series"`
	Similar []KitRecord `json:"similar"`
}

// FilterOption is one selectable value in the filter sidebar.
type FilterOption struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code,omitempty" db:"code"`
	Name string `json:"name" db:"name"`
}

// FilterOptions is the payload of the filter-options endpoint.
type FilterOptions struct {
	Timelines    []FilterOption `json:"timelines"`
	Grades       []FilterOption `json:"grades"`
	Series       []FilterOption `json:"series"`
	LimitedTypes []string       `json:"limitedTypes"`
}

// ListKitsParams is the decoded query string of the public list endpoint.
// CSV values are split before decoding; grade and timeline carry reference
// codes which are resolved to ids once per request.
type ListKitsParams struct {
	Grades    []string `schema:"grade"`
	Series    []int64  `schema:"series"`
	Timelines []string `schema:"timeline"`
	PriceMin  *float64 `schema:"priceMin"`
	PriceMax  *float64 `schema:"priceMax"`
	Search    string   `schema:"search"`
	SortBy    string   `schema:"sortBy"`
	SortOrder string   `schema:"sortOrder"`
	Page      int      `schema:"page"`
	Limit     int      `schema:"limit"`
}

// Pagination is the envelope block returned next to the rows.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// KitListResponse is the public list envelope.
type KitListResponse struct {
	Data       []KitRecord `json:"data"`
	Pagination Pagination  `json:"pagination"`
}
