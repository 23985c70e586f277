package products

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// FilterAll is the sentinel dropdown value that disables a clause. It is not
// a legal stored value.
const FilterAll = "all"

const (
	SortDateAdded = "date_added"
	SortRating    = "rating"
	SortName      = "name"
	SortPrice     = "price"
)

// Filter captures the inventory view's filter/sort state. The zero value
// means "everything, default sort".
type Filter struct {
	Search      string
	Category    string
	Brand       string
	MinRating   int    `validate:"gte=0,lte=5"`
	UsageStatus string
	SortBy      string
	SortOrder   string `validate:"omitempty,oneof=asc desc"`
	Limit       int    `validate:"gte=0"`
	Offset      int    `validate:"gte=0"`
}

// Parse extracts query parameters from the request URL and populates the Filter.
func (f Filter) Parse(r *http.Request) (Filter, error) {
	params := r.URL.Query()

	f.Search = params.Get("search")
	f.Category = params.Get("category")
	f.Brand = params.Get("brand")
	f.UsageStatus = params.Get("usage_status")

	if ratingStr := params.Get("rating"); ratingStr != "" {
		rating, err := strconv.Atoi(ratingStr)
		if err != nil {
			return f, fmt.Errorf("invalid rating: %w", err)
		}
		f.MinRating = rating
	}

	if sortBy := params.Get("sort_by"); sortBy != "" {
		f.SortBy = sortBy
	}

	if sortOrder := params.Get("sort_order"); sortOrder != "" {
		if sortOrder != "asc" && sortOrder != "desc" {
			return f, fmt.Errorf("invalid sort_order value: must be 'asc' or 'desc'")
		}
		f.SortOrder = sortOrder
	}

	if limitStr := params.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return f, fmt.Errorf("invalid limit: %w", err)
		}
		f.Limit = limit
	}

	if offsetStr := params.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return f, fmt.Errorf("invalid offset: %w", err)
		}
		f.Offset = offset
	}

	return f, nil
}

// whereClauses builds the AND-ed filter predicates. The owner predicate is
// always first; the search clause is the only internal OR. Argument
// placeholders start at $1.
func whereClauses(ownerID int64, f Filter) ([]string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{ownerID}

	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR brand ILIKE $%d)", n, n))
	}

	if f.Category != "" && f.Category != FilterAll {
		args = append(args, f.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}

	if f.Brand != "" && f.Brand != FilterAll {
		args = append(args, f.Brand)
		clauses = append(clauses, fmt.Sprintf("brand = $%d", len(args)))
	}

	if f.MinRating > 0 {
		args = append(args, f.MinRating)
		clauses = append(clauses, fmt.Sprintf("rating >= $%d", len(args)))
	}

	if f.UsageStatus != "" && f.UsageStatus != FilterAll {
		args = append(args, f.UsageStatus)
		clauses = append(clauses, fmt.Sprintf("usage_status = $%d", len(args)))
	}

	return clauses, args
}

// orderClause maps the sort key to SQL. Nullable sort columns (rating, price)
// place NULL rows last regardless of direction; an unrecognized key falls
// back to newest-first.
func orderClause(f Filter) string {
	dir := "DESC"
	if f.SortOrder == "asc" {
		dir = "ASC"
	}

	switch f.SortBy {
	case SortDateAdded:
		return "ORDER BY created_at " + dir
	case SortRating:
		return "ORDER BY rating " + dir + " NULLS LAST"
	case SortName:
		return "ORDER BY name " + dir
	case SortPrice:
		return "ORDER BY price " + dir + " NULLS LAST"
	default:
		return "ORDER BY created_at DESC"
	}
}

func buildListQuery(ownerID int64, f Filter) (string, []any) {
	clauses, args := whereClauses(ownerID, f)

	query := `
		SELECT id, user_id, name, brand, price, category, purchase_date,
		       photo_url, usage_status, rating, created_at,
		       COUNT(*) OVER() AS total_count
		FROM products
		WHERE ` + strings.Join(clauses, " AND ") + "\n\t\t" + orderClause(f)

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf("\n\t\tLIMIT $%d", len(args))
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query + ";", args
}

func buildCountQuery(ownerID int64, f Filter) (string, []any) {
	clauses, args := whereClauses(ownerID, f)
	return "SELECT COUNT(*) FROM products WHERE " + strings.Join(clauses, " AND ") + ";", args
}
