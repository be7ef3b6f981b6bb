// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listquery

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// psql is the statement builder for the Postgres placeholder format.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Builder compiles ListQuery values into squirrel statements for one table.
// It is a pure transform: the same query always yields the same SQL and
// argument list.
type Builder struct {
	table Table
}

// NewBuilder creates a Builder for the given table description.
func NewBuilder(table Table) *Builder {
	return &Builder{table: table}
}

// Predicates turns the query's filters and search term into a conjunction
// of squirrel predicates. Empty set filters and blank search terms emit
// nothing; an unknown field fails with ErrInvalidFilterField.
func (b *Builder) Predicates(q ListQuery) ([]sq.Sqlizer, error) {
	var preds []sq.Sqlizer

	for _, clause := range q.Filters {
		pred, err := b.compileClause(clause)
		if err != nil {
			return nil, err
		}
		if pred != nil {
			preds = append(preds, pred)
		}
	}

	if term := normalizedTerm(q.SearchTerm); term != "" {
		search, err := b.compileSearch(term, q.SearchFields)
		if err != nil {
			return nil, err
		}
		preds = append(preds, search)
	}

	return preds, nil
}

// Select builds the row query: predicates, deterministic ordering and the
// pagination window. The caller chooses the projection.
func (b *Builder) Select(q ListQuery, columns ...string) (sq.SelectBuilder, error) {
	preds, err := b.Predicates(q)
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	orderBy, err := b.orderBy(q)
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	pager := NewPager(q.Page, q.PageSize)

	builder := psql.Select(columns...).From(b.table.Name)
	for _, pred := range preds {
		builder = builder.Where(pred)
	}
	return builder.
		OrderBy(orderBy...).
		Limit(pager.Limit()).
		Offset(pager.Offset()), nil
}

// Count builds the matching COUNT(*) query: same predicates, no window.
func (b *Builder) Count(q ListQuery) (sq.SelectBuilder, error) {
	preds, err := b.Predicates(q)
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	builder := psql.Select("COUNT(*)").From(b.table.Name)
	for _, pred := range preds {
		builder = builder.Where(pred)
	}
	return builder, nil
}

func (b *Builder) compileClause(clause Clause) (sq.Sqlizer, error) {
	switch clause.Kind {
	case KindEquals:
		if clause.Value == nil {
			return nil, nil
		}
		col, err := b.table.Column(clause.Field)
		if err != nil {
			return nil, err
		}
		return sq.Eq{col: clause.Value}, nil

	case KindIn:
		// An empty multi-select means "no filter", never a zero-row clause.
		if len(clause.Values) == 0 {
			return nil, nil
		}
		col, err := b.table.Column(clause.Field)
		if err != nil {
			return nil, err
		}
		return sq.Eq{col: clause.Values}, nil

	case KindRange:
		if clause.Min == nil && clause.Max == nil {
			return nil, nil
		}
		col, err := b.table.Column(clause.Field)
		if err != nil {
			return nil, err
		}
		var conj sq.And
		if clause.Min != nil {
			conj = append(conj, sq.GtOrEq{col: *clause.Min})
		}
		if clause.Max != nil {
			conj = append(conj, sq.LtOrEq{col: *clause.Max})
		}
		return conj, nil

	case KindTextSearch:
		term := normalizedTerm(clause.Term)
		if term == "" {
			return nil, nil
		}
		return b.compileSearch(term, clause.Fields)

	default:
		return nil, fmt.Errorf("%w: unknown clause kind %d", ErrInvalidFilterField, clause.Kind)
	}
}

func (b *Builder) compileSearch(term string, fields []string) (sq.Sqlizer, error) {
	if len(fields) == 0 {
		fields = b.table.SearchFields
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: table %q", ErrNoSearchFields, b.table.Name)
	}

	pattern := "%" + escapeLike(term) + "%"
	var disj sq.Or
	for _, field := range fields {
		col, err := b.table.Column(field)
		if err != nil {
			return nil, err
		}
		disj = append(disj, sq.ILike{col: pattern})
	}
	return disj, nil
}

// orderBy resolves the sort into a deterministic ORDER BY list. The table
// id column is always appended as a tiebreaker so identical queries against
// unchanged data return rows in the same relative order.
func (b *Builder) orderBy(q ListQuery) ([]string, error) {
	field := q.SortField
	if field == "" {
		field = b.table.DefaultSort
	}

	idOrder := b.table.idColumn() + " ASC"
	if field == "" {
		return []string{idOrder}, nil
	}

	col, ok := b.table.Columns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not sortable on table %q", ErrInvalidSortField, field, b.table.Name)
	}

	direction := "ASC"
	if q.SortDescending {
		direction = "DESC"
	}
	if col == b.table.idColumn() {
		return []string{col + " " + direction}, nil
	}
	return []string{col + " " + direction, idOrder}, nil
}
