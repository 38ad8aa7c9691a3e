// Package view filters, sorts, paginates, and renders profile lists for the
// CLI. Filtering is pure and operates on an in-memory list, so the same
// query logic is shared by every output format.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/janisto/profilehub/internal/client/api"
)

// SortField selects the sort key for a profile listing.
type SortField string

const (
	SortName      SortField = "name"
	SortEmail     SortField = "email"
	SortAge       SortField = "age"
	SortCreatedAt SortField = "createdAt"
)

// PageSizeOptions are the selectable page sizes.
var PageSizeOptions = []int{5, 10, 25, 50}

// DefaultPageSize is used when a query does not set one.
const DefaultPageSize = 10

// Query describes one listing request. The zero value lists everything,
// newest first, with the default page size.
type Query struct {
	Search      string
	AgeMin      int
	AgeMax      int
	CreatedFrom time.Time
	CreatedTo   time.Time
	SortBy      SortField
	Ascending   bool
	Page        int // zero-based
	PageSize    int
}

// Result is one page of a filtered listing.
type Result struct {
	Profiles   []api.Profile
	Total      int // matches after filtering, before paging
	Page       int
	PageSize   int
	TotalPages int
}

// ValidSortField reports whether s names a supported sort key.
func ValidSortField(s string) bool {
	switch SortField(s) {
	case SortName, SortEmail, SortAge, SortCreatedAt:
		return true
	}
	return false
}

// ValidPageSize reports whether n is one of PageSizeOptions.
func ValidPageSize(n int) bool {
	for _, opt := range PageSizeOptions {
		if n == opt {
			return true
		}
	}
	return false
}

// Apply filters, sorts, and pages the given profiles. The input slice is
// not modified. Sorting is stable, so records comparing equal keep their
// incoming order.
func Apply(profiles []api.Profile, q Query) Result {
	if q.SortBy == "" {
		q.SortBy = SortCreatedAt
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 0 {
		q.Page = 0
	}

	filtered := make([]api.Profile, 0, len(profiles))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range profiles {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		if q.AgeMin > 0 && p.Age < q.AgeMin {
			continue
		}
		if q.AgeMax > 0 && p.Age > q.AgeMax {
			continue
		}
		if !q.CreatedFrom.IsZero() && p.CreatedAt.Before(q.CreatedFrom) {
			continue
		}
		if !q.CreatedTo.IsZero() && p.CreatedAt.After(q.CreatedTo) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		less := lessBy(q.SortBy, filtered[i], filtered[j])
		if q.Ascending {
			return less
		}
		return lessBy(q.SortBy, filtered[j], filtered[i])
	})

	total := len(filtered)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	start := q.Page * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return Result{
		Profiles:   filtered[start:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

func lessBy(field SortField, a, b api.Profile) bool {
	switch field {
	case SortName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case SortEmail:
		return strings.ToLower(a.Email) < strings.ToLower(b.Email)
	case SortAge:
		return a.Age < b.Age
	default:
		return a.CreatedAt.Before(b.CreatedAt.Time)
	}
}
