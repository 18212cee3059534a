package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortBy enumerates the supported catalog sort orders.
type SortBy string

const (
	SortByName      SortBy = "name"
	SortByPrice     SortBy = "price"
	SortByPriceDesc SortBy = "price-desc"
)

// FilterBySearch returns the items whose name, description, or category
// contains the query, case-insensitively. An empty or whitespace-only
// query returns all items.
func FilterBySearch(items []Item, query string) []Item {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term) ||
			strings.Contains(strings.ToLower(item.Category), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterByCategory returns items matching the given category. An empty
// category or the literal "all" returns all items.
func FilterByCategory(items []Item, category string) []Item {
	if category == "" || category == "all" {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterByAvailability returns only available items when availableOnly
// is true, otherwise all items.
func FilterByAvailability(items []Item, availableOnly bool) []Item {
	if !availableOnly {
		return items
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Available {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Sort returns a sorted copy of items. Unknown criteria leave the order
// unchanged.
func Sort(items []Item, by SortBy) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)

	switch by {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})
	case SortByPrice:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.LessThan(sorted[j].Price)
		})
	case SortByPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[j].Price.LessThan(sorted[i].Price)
		})
	}
	return sorted
}

// SearchOptions combines the individual filters for AdvancedSearch.
// Zero-valued fields are skipped.
type SearchOptions struct {
	Query         string
	Category      string
	AvailableOnly bool
	SortBy        SortBy
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

// AdvancedSearch applies every configured filter in order, then sorts.
func AdvancedSearch(items []Item, opts SearchOptions) []Item {
	filtered := FilterBySearch(items, opts.Query)
	filtered = FilterByCategory(filtered, opts.Category)
	filtered = FilterByAvailability(filtered, opts.AvailableOnly)

	if opts.MinPrice != nil || opts.MaxPrice != nil {
		ranged := make([]Item, 0, len(filtered))
		for _, item := range filtered {
			if opts.MinPrice != nil && item.Price.LessThan(*opts.MinPrice) {
				continue
			}
			if opts.MaxPrice != nil && opts.MaxPrice.LessThan(item.Price) {
				continue
			}
			ranged = append(ranged, item)
		}
		filtered = ranged
	}

	if opts.SortBy != "" {
		filtered = Sort(filtered, opts.SortBy)
	}
	return filtered
}
