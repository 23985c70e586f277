package products

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClauses_Defaults(t *testing.T) {
	clauses, args := whereClauses(42, Filter{})

	require.Len(t, clauses, 1)
	assert.Equal(t, "user_id = $1", clauses[0])
	assert.Equal(t, []any{int64(42)}, args)
}

func TestWhereClauses_AllSentinelsDisableClauses(t *testing.T) {
	f := Filter{
		Search:      "   ",
		Category:    FilterAll,
		Brand:       FilterAll,
		MinRating:   0,
		UsageStatus: FilterAll,
	}

	clauses, args := whereClauses(7, f)

	assert.Len(t, clauses, 1, "sentinel values must not produce predicates")
	assert.Len(t, args, 1)
}

func TestWhereClauses_SearchTrimsAndMatchesNameOrBrand(t *testing.T) {
	clauses, args := whereClauses(1, Filter{Search: "  niacinamide  "})

	require.Len(t, clauses, 2)
	assert.Equal(t, "(name ILIKE $2 OR brand ILIKE $2)", clauses[1])
	assert.Equal(t, "%niacinamide%", args[1])
}

func TestWhereClauses_AllFiltersCombined(t *testing.T) {
	f := Filter{
		Search:      "serum",
		Category:    "Skincare",
		Brand:       "The Ordinary",
		MinRating:   3,
		UsageStatus: "finished",
	}

	clauses, args := whereClauses(9, f)

	require.Len(t, clauses, 6)
	assert.Equal(t, "user_id = $1", clauses[0])
	assert.Equal(t, "(name ILIKE $2 OR brand ILIKE $2)", clauses[1])
	assert.Equal(t, "category = $3", clauses[2])
	assert.Equal(t, "brand = $4", clauses[3])
	assert.Equal(t, "rating >= $5", clauses[4])
	assert.Equal(t, "usage_status = $6", clauses[5])
	assert.Equal(t, []any{int64(9), "%serum%", "Skincare", "The Ordinary", 3, "finished"}, args)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want string
	}{
		{"default is newest first", Filter{}, "ORDER BY created_at DESC"},
		{"unknown key falls back", Filter{SortBy: "popularity", SortOrder: "asc"}, "ORDER BY created_at DESC"},
		{"date added asc", Filter{SortBy: SortDateAdded, SortOrder: "asc"}, "ORDER BY created_at ASC"},
		{"name desc", Filter{SortBy: SortName, SortOrder: "desc"}, "ORDER BY name DESC"},
		{"rating desc keeps nulls last", Filter{SortBy: SortRating, SortOrder: "desc"}, "ORDER BY rating DESC NULLS LAST"},
		{"rating asc keeps nulls last", Filter{SortBy: SortRating, SortOrder: "asc"}, "ORDER BY rating ASC NULLS LAST"},
		{"price desc keeps nulls last", Filter{SortBy: SortPrice, SortOrder: "desc"}, "ORDER BY price DESC NULLS LAST"},
		{"price asc keeps nulls last", Filter{SortBy: SortPrice, SortOrder: "asc"}, "ORDER BY price ASC NULLS LAST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.f))
		})
	}
}

func TestBuildListQuery_Pagination(t *testing.T) {
	query, args := buildListQuery(3, Filter{Limit: 20, Offset: 40})

	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{int64(3), 20, 40}, args)
}

func TestBuildListQuery_NoPaginationWithoutLimit(t *testing.T) {
	query, args := buildListQuery(3, Filter{Offset: 40})

	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "OFFSET")
	assert.Len(t, args, 1)
}

func TestBuildCountQuery_SharesPredicates(t *testing.T) {
	query, args := buildCountQuery(5, Filter{Category: "Makeup", MinRating: 4})

	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE user_id = $1 AND category = $2 AND rating >= $3;", query)
	assert.Equal(t, []any{int64(5), "Makeup", 4}, args)
}

func TestFilterParse(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/v1/products?search=oil&category=Haircare&brand=all&rating=4&usage_status=new&sort_by=price&sort_order=asc&limit=10&offset=20",
		nil)

	f, err := Filter{}.Parse(r)
	require.NoError(t, err)

	assert.Equal(t, "oil", f.Search)
	assert.Equal(t, "Haircare", f.Category)
	assert.Equal(t, FilterAll, f.Brand)
	assert.Equal(t, 4, f.MinRating)
	assert.Equal(t, "new", f.UsageStatus)
	assert.Equal(t, SortPrice, f.SortBy)
	assert.Equal(t, "asc", f.SortOrder)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
}

func TestFilterParse_RejectsBadValues(t *testing.T) {
	for _, target := range []string{
		"/v1/products?rating=five",
		"/v1/products?sort_order=sideways",
		"/v1/products?limit=ten",
		"/v1/products?offset=x",
	} {
		r := httptest.NewRequest("GET", target, nil)
		_, err := Filter{}.Parse(r)
		assert.Error(t, err, target)
	}
}
