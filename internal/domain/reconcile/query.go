package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"golang.org/x/text/cases"
)

// DefaultPageSize is the number of customers shown per page.
const DefaultPageSize = 8

// minTopCustomers is the floor for the "top" filter.
const minTopCustomers = 5

// Filter narrows the customer list.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterOutstanding Filter = "outstanding"
	FilterTop         Filter = "top"
)

// ParseFilter parses a filter name case-insensitively. An empty name is
// FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterOutstanding, FilterTop:
		return f, nil
	}
	return "", entity.NewValidationError("filter", fmt.Sprintf("unknown filter %q", s))
}

// Query selects a page of customers. Page is 1-based.
type Query struct {
	Search   string
	Filter   Filter
	Page     int
	PageSize int
}

// Page is one page of a filtered customer list.
type Page struct {
	Customers  []entity.CustomerProfile `json:"customers"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// Apply searches, filters and paginates profiles. The input is not modified.
//
// Search matches the name and GST number case-insensitively and the mobile
// number as a substring. The top filter keeps the highest spenders: the
// larger of five customers or a fifth of the searched list.
func Apply(profiles []entity.CustomerProfile, q Query) Page {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}

	result := search(profiles, q.Search)

	switch q.Filter {
	case FilterOutstanding:
		kept := result[:0:0]
		for _, p := range result {
			if p.OutstandingBalance.IsPositive() {
				kept = append(kept, p)
			}
		}
		result = kept
	case FilterTop:
		ranked := make([]entity.CustomerProfile, len(result))
		copy(ranked, result)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].TotalPurchases > ranked[j].TotalPurchases
		})
		limit := max(minTopCustomers, len(ranked)/5)
		if limit < len(ranked) {
			ranked = ranked[:limit]
		}
		result = ranked
	}

	page := Page{
		Customers:  []entity.CustomerProfile{},
		Total:      len(result),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (len(result) + q.PageSize - 1) / q.PageSize,
	}
	start := (q.Page - 1) * q.PageSize
	if start < len(result) {
		end := min(start+q.PageSize, len(result))
		page.Customers = append(page.Customers, result[start:end]...)
	}
	return page
}

// Find returns the profile with the given id.
func Find(profiles []entity.CustomerProfile, id string) (*entity.CustomerProfile, bool) {
	for i := range profiles {
		if profiles[i].ID == id {
			return &profiles[i], true
		}
	}
	return nil, false
}

func search(profiles []entity.CustomerProfile, term string) []entity.CustomerProfile {
	term = strings.TrimSpace(term)
	if term == "" {
		return profiles
	}

	fold := cases.Fold()
	needle := fold.String(term)
	matched := make([]entity.CustomerProfile, 0, len(profiles))
	for _, p := range profiles {
		if strings.Contains(fold.String(p.FullName), needle) ||
			strings.Contains(p.MobileNumber, term) ||
			strings.Contains(fold.String(p.GSTNumber), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}
