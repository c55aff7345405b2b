package search

import (
	"fmt"
	"slices"
	"strings"

	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

type SortMode string

const (
	SortRelevance     SortMode = "relevance"
	SortPriceAsc      SortMode = "price_asc"
	SortPriceDesc     SortMode = "price_desc"
	SortModelYearAsc  SortMode = "model_year_asc"
	SortModelYearDesc SortMode = "model_year_desc"
	SortUpdatedDesc   SortMode = "updated_desc"
)

// SortModes lists every mode.
var SortModes = []SortMode{
	SortRelevance, SortPriceAsc, SortPriceDesc, SortModelYearAsc, SortModelYearDesc, SortUpdatedDesc,
}

// ParseSortMode accepts a mode name; "" means relevance.
func ParseSortMode(s string) (SortMode, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return SortRelevance, nil
	}
	for _, m := range SortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Sort returns a newly ordered copy of vehicles. The sort is stable. Only
// relevance looks at the query: without one it keeps input order, with one
// it orders by score, then most recently updated, then cheapest.
func Sort(vehicles []vehicle.Vehicle, mode SortMode, query string) []vehicle.Vehicle {
	out := slices.Clone(vehicles)

	switch mode {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b vehicle.Vehicle) int { return compareFloat(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b vehicle.Vehicle) int { return compareFloat(b.Price, a.Price) })
	case SortModelYearAsc:
		slices.SortStableFunc(out, func(a, b vehicle.Vehicle) int { return a.ModelYear - b.ModelYear })
	case SortModelYearDesc:
		slices.SortStableFunc(out, func(a, b vehicle.Vehicle) int { return b.ModelYear - a.ModelYear })
	case SortUpdatedDesc:
		slices.SortStableFunc(out, compareUpdatedDesc)
	default:
		if strings.TrimSpace(query) == "" {
			return out
		}
		sortByRelevance(out, query)
	}
	return out
}

type scored struct {
	v     vehicle.Vehicle
	score float64
}

func sortByRelevance(vehicles []vehicle.Vehicle, query string) {
	signals := signal.Parse(query)
	items := make([]scored, len(vehicles))
	for i, v := range vehicles {
		items[i] = scored{v: v, score: Score(v, query, signals)}
	}

	slices.SortStableFunc(items, func(a, b scored) int {
		if c := compareFloat(b.score, a.score); c != 0 {
			return c
		}
		if c := compareUpdatedDesc(a.v, b.v); c != 0 {
			return c
		}
		return compareFloat(a.v.Price, b.v.Price)
	})

	for i, it := range items {
		vehicles[i] = it.v
	}
}

// compareUpdatedDesc orders the most recent first and zero times last.
func compareUpdatedDesc(a, b vehicle.Vehicle) int {
	switch {
	case a.UpdatedAt.IsZero() && b.UpdatedAt.IsZero():
		return 0
	case a.UpdatedAt.IsZero():
		return 1
	case b.UpdatedAt.IsZero():
		return -1
	}
	return b.UpdatedAt.Compare(a.UpdatedAt)
}

func compareFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Page is one page of an ordered result list.
type Page struct {
	Items []vehicle.Vehicle
	Total int
	Page  int
	Size  int
	Pages int
}

// Paginate returns page number page (1-based) of the given size. A size of
// zero or less puts everything on one page; pages past the end are empty.
func Paginate(vehicles []vehicle.Vehicle, page, size int) Page {
	total := len(vehicles)
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = total
	}

	p := Page{Total: total, Page: page, Size: size}
	if size == 0 {
		return p
	}
	p.Pages = (total + size - 1) / size
	if total == 0 || page-1 > (total-1)/size {
		return p
	}

	start := (page - 1) * size
	end := min(start+size, total)
	p.Items = vehicles[start:end]
	return p
}
