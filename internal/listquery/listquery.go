// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listquery

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned during query validation. A query referencing a field the
// table does not expose is a programming error and must fail fast rather
// than be silently ignored.
var (
	ErrInvalidFilterField = errors.New("invalid filter field")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrNoSearchFields     = errors.New("search term given but no searchable fields declared")
)

// ClauseKind identifies one of the supported predicate variants.
type ClauseKind int

const (
	KindEquals ClauseKind = iota
	KindIn
	KindRange
	KindTextSearch
)

// Clause is one atomic filter condition. All clauses of a query AND
// together; a TextSearch clause ORs its per-field sub-conditions internally.
type Clause struct {
	Kind   ClauseKind
	Field  string
	Fields []string
	Value  interface{}
	Values []interface{}
	Min    *float64
	Max    *float64
	Term   string
}

// Equals builds an equality clause.
func Equals(field string, value interface{}) Clause {
	return Clause{Kind: KindEquals, Field: field, Value: value}
}

// In builds a set-membership clause. An empty value set is legal and makes
// the clause a no-op (it is dropped during compilation), matching the rule
// that an empty multi-select behaves like no filter at all.
func In(field string, values ...interface{}) Clause {
	return Clause{Kind: KindIn, Field: field, Values: values}
}

// Between builds a numeric range clause. Either bound may be nil.
func Between(field string, min, max *float64) Clause {
	return Clause{Kind: KindRange, Field: field, Min: min, Max: max}
}

// TextSearch builds a case-insensitive partial-match clause ORed across the
// given fields. When fields is empty the table's declared search fields are
// used at compile time.
func TextSearch(term string, fields ...string) Clause {
	return Clause{Kind: KindTextSearch, Term: term, Fields: fields}
}

// ListQuery is the full description of one filtered, sorted, paginated
// list request against a named table.
type ListQuery struct {
	Table          string
	SearchTerm     string
	SearchFields   []string
	Filters        []Clause
	SortField      string
	SortDescending bool
	Page           int
	PageSize       int
}

// Table declares the queryable surface of one relation: which exposed field
// names exist, which SQL columns they map to, and which of them participate
// in free-text search. Filters and sorts are validated against this
// whitelist before any SQL is produced.
type Table struct {
	Name         string
	IDColumn     string
	Columns      map[string]string
	SearchFields []string
	DefaultSort  string
}

// Column resolves an exposed field name to its SQL column.
func (t Table) Column(field string) (string, error) {
	col, ok := t.Columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q is not filterable on table %q", ErrInvalidFilterField, field, t.Name)
	}
	return col, nil
}

// idColumn returns the ordering tiebreaker column.
func (t Table) idColumn() string {
	if t.IDColumn == "" {
		return "id"
	}
	return t.IDColumn
}

// normalizedTerm trims the search term; whitespace-only input means
// "no search filter" rather than a clause that accidentally matches
// nothing or everything.
func normalizedTerm(term string) string {
	return strings.TrimSpace(term)
}

// escapeLike escapes LIKE/ILIKE metacharacters in user-supplied search
// text so the term is always matched literally.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
