package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		Name:     "kits",
		IDColumn: "id",
		Columns: map[string]string{
			"name":     "name",
			"nameEn":   "name_en",
			"gradeId":  "grade_id",
			"seriesId": "series_id",
			"priceKrw": "price_krw",
			"limited":  "is_limited",
		},
		SearchFields: []string{"name", "nameEn"},
		DefaultSort:  "name",
	}
}

func TestPredicatesCombineWithAnd(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, args, err := mustSelect(t, builder, ListQuery{
		Table: "kits",
		Filters: []Clause{
			Equals("gradeId", 3),
			In("seriesId", 1, 2),
		},
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "grade_id = $1")
	assert.Contains(t, sql, "series_id IN ($2,$3)")
	assert.Equal(t, []interface{}{3, 1, 2}, args)
}

func TestEmptyMultiSelectIsOmitted(t *testing.T) {
	builder := NewBuilder(testTable())

	withEmpty, argsEmpty, err := mustSelect(t, builder, ListQuery{
		Filters:  []Clause{In("gradeId")},
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)

	without, argsNone, err := mustSelect(t, builder, ListQuery{
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)

	// grade=[] must behave identically to no grade parameter at all.
	assert.Equal(t, without, withEmpty)
	assert.Equal(t, argsNone, argsEmpty)
	assert.NotContains(t, withEmpty, "grade_id")
}

func TestBlankSearchTermIsNoFilter(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, _, err := mustSelect(t, builder, ListQuery{
		SearchTerm: "   \t ",
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, "ILIKE")
}

func TestSearchOrsAcrossFields(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, args, err := mustSelect(t, builder, ListQuery{
		SearchTerm: "Zaku",
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "(name ILIKE $1 OR name_en ILIKE $2)")
	assert.Equal(t, []interface{}{"%Zaku%", "%Zaku%"}, args)
}

func TestSearchEscapesLikeMetacharacters(t *testing.T) {
	builder := NewBuilder(testTable())

	_, args, err := mustSelect(t, builder, ListQuery{
		SearchTerm: "100%_ver\\1",
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, `%100\%\_ver\\1%`, args[0])
}

func TestRangeBounds(t *testing.T) {
	min := float64(10000)
	max := float64(55000)
	builder := NewBuilder(testTable())

	tests := []struct {
		name     string
		clause   Clause
		wantSQL  string
		wantArgs []interface{}
	}{
		{"both bounds", Between("priceKrw", &min, &max), "(price_krw >= $1 AND price_krw <= $2)", []interface{}{min, max}},
		{"min only", Between("priceKrw", &min, nil), "(price_krw >= $1)", []interface{}{min}},
		{"max only", Between("priceKrw", nil, &max), "(price_krw <= $1)", []interface{}{max}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := mustSelect(t, builder, ListQuery{
				Filters:  []Clause{tt.clause},
				Page:     1,
				PageSize: 20,
			})
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantSQL)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEmptyRangeIsOmitted(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, _, err := mustSelect(t, builder, ListQuery{
		Filters:  []Clause{Between("priceKrw", nil, nil)},
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, "price_krw")
}

func TestUnknownFilterFieldFailsFast(t *testing.T) {
	builder := NewBuilder(testTable())

	_, err := builder.Select(ListQuery{
		Filters:  []Clause{Equals("pilotCallsign", "Char")},
		Page:     1,
		PageSize: 20,
	}, "id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFilterField)
}

func TestUnknownSortFieldFailsFast(t *testing.T) {
	builder := NewBuilder(testTable())

	_, err := builder.Select(ListQuery{
		SortField: "releaseYear",
		Page:      1,
		PageSize:  20,
	}, "id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestStableOrderingWithTiebreaker(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, _, err := mustSelect(t, builder, ListQuery{
		SortField:      "priceKrw",
		SortDescending: true,
		Page:           1,
		PageSize:       20,
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY price_krw DESC, id ASC")
}

func TestPaginationWindow(t *testing.T) {
	builder := NewBuilder(testTable())

	sql, _, err := mustSelect(t, builder, ListQuery{
		Page:     3,
		PageSize: 40,
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 40")
	assert.Contains(t, sql, "OFFSET 80")
}

func TestDeterministicCompilation(t *testing.T) {
	builder := NewBuilder(testTable())
	query := ListQuery{
		SearchTerm:     "건담",
		Filters:        []Clause{In("gradeId", 1, 4), Equals("limited", false)},
		SortField:      "priceKrw",
		Page:           2,
		PageSize:       20,
	}

	first, argsA, err := mustSelect(t, builder, query)
	require.NoError(t, err)
	second, argsB, err := mustSelect(t, builder, query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, argsA, argsB)
}

func TestCountSharesPredicatesWithoutWindow(t *testing.T) {
	builder := NewBuilder(testTable())
	query := ListQuery{
		SearchTerm: "Gundam",
		Filters:    []Clause{Equals("gradeId", 2)},
		Page:       5,
		PageSize:   20,
	}

	countBuilder, err := builder.Count(query)
	require.NoError(t, err)
	sql, args, err := countBuilder.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT COUNT(*) FROM kits")
	assert.Contains(t, sql, "grade_id = $1")
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
	assert.NotContains(t, sql, "ORDER BY")
	assert.Len(t, args, 3)
}

func mustSelect(t *testing.T, b *Builder, q ListQuery) (string, []interface{}, error) {
	t.Helper()
	selectBuilder, err := b.Select(q, "id", "name")
	if err != nil {
		return "", nil, err
	}
	return selectBuilder.ToSql()
}
