// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package admin

import (
	"context"
	"fmt"

	adminerrors "github.com/gunplahub/api/admin/errors"
	"github.com/gunplahub/api/internal/listquery"
)

// ListParams is the decoded list request for one admin resource. Filters
// map exposed field names to one or more values; multiple values form a
// set-membership clause.
type ListParams struct {
	Search         string
	Filters        map[string][]string
	SortField      string
	SortDescending bool
	Page           int
	PageSize       int
}

// ListResult is the admin list envelope.
type ListResult struct {
	Data       []Row `json:"data"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

// Service drives every registered resource through the shared schema
// validation and the generic repository.
type Service struct {
	registry *Registry
	repo     Repository
}

// NewService creates the admin CRUD service.
func NewService(registry *Registry, repo Repository) *Service {
	return &Service{registry: registry, repo: repo}
}

// Resolve maps a URL resource name to its schema.
func (s *Service) Resolve(name string) (*Resource, error) {
	res, ok := s.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", adminerrors.ErrUnknownResource, name)
	}
	return res, nil
}

// List serves a filtered, paginated page of a resource.
func (s *Service) List(ctx context.Context, resource string, params ListParams) (*ListResult, error) {
	res, err := s.Resolve(resource)
	if err != nil {
		return nil, err
	}

	pager := listquery.NewPager(params.Page, params.PageSize)

	var clauses []listquery.Clause
	for field, values := range params.Filters {
		if _, ok := res.Field(field); !ok {
			return nil, fmt.Errorf("%w: %q is not filterable on %q", adminerrors.ErrUnknownField, field, resource)
		}
		if len(values) == 0 {
			continue
		}
		anyValues := make([]interface{}, len(values))
		for i, v := range values {
			anyValues[i] = v
		}
		clauses = append(clauses, listquery.In(field, anyValues...))
	}

	q := listquery.ListQuery{
		Table:          res.TableName,
		SearchTerm:     params.Search,
		Filters:        clauses,
		SortField:      params.SortField,
		SortDescending: params.SortDescending,
		Page:           pager.Page,
		PageSize:       pager.PageSize,
	}

	rows, err := s.repo.List(ctx, res, q)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, res, q)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Data: rows}
	result.Pagination.Page = pager.Page
	result.Pagination.Limit = pager.PageSize
	result.Pagination.Total = total
	result.Pagination.TotalPages = listquery.TotalPages(total, pager.PageSize)
	return result, nil
}

// Create validates a payload against the resource schema and inserts it.
// Unknown fields and missing required fields are client errors.
func (s *Service) Create(ctx context.Context, resource string, payload map[string]interface{}) (Row, error) {
	res, err := s.Resolve(resource)
	if err != nil {
		return nil, err
	}

	values, err := s.writableValues(res, payload)
	if err != nil {
		return nil, err
	}
	for _, required := range res.RequiredFields() {
		if _, ok := values[required]; !ok {
			return nil, fmt.Errorf("%w: %q", adminerrors.ErrMissingField, required)
		}
	}

	return s.repo.Create(ctx, res, values)
}

// Update validates a partial payload and applies it to one row.
func (s *Service) Update(ctx context.Context, resource string, id int64, payload map[string]interface{}) (Row, error) {
	res, err := s.Resolve(resource)
	if err != nil {
		return nil, err
	}

	values, err := s.writableValues(res, payload)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, adminerrors.ErrEmptyPayload
	}

	return s.repo.Update(ctx, res, id, values)
}

// Delete removes one row of a resource.
func (s *Service) Delete(ctx context.Context, resource string, id int64) error {
	res, err := s.Resolve(resource)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, res, id)
}

// writableValues filters the payload down to writable fields, rejecting
// anything outside the schema.
func (s *Service) writableValues(res *Resource, payload map[string]interface{}) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(payload))
	for name, value := range payload {
		if name == "id" {
			continue
		}
		if _, ok := res.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q", adminerrors.ErrUnknownField, name)
		}
		if !res.IsWritable(name) {
			return nil, fmt.Errorf("%w: %q is read-only", adminerrors.ErrUnknownField, name)
		}
		values[name] = value
	}
	return values, nil
}
