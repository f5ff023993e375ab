package model

import "strings"

// SortKey selects the ordering of a price listing.
type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortChangeAsc SortKey = "change-asc" // Biggest drops first
)

// SortKeys lists every sort key in menu order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortChangeAsc, SortPriceDesc, SortPriceAsc}

// ParseSortKey parses a sort key, falling back to name-asc.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k
		}
	}
	return SortNameAsc
}

// Split returns the backend sort_by and sort_order parameters.
// "price-desc" -> ("price", "desc").
func (k SortKey) Split() (by, order string) {
	by, order, _ = strings.Cut(string(ParseSortKey(string(k))), "-")
	return by, order
}

// FilterCriteria is the filter state of one screen session.
type FilterCriteria struct {
	StateID  *int     // nil = all states
	Category Category // CategoryAll = no category filter
	Sort     SortKey
	Search   string
}

// DefaultCriteria returns the criteria a new screen starts with.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category: CategoryAll,
		Sort:     SortNameAsc,
	}
}

// Normalized returns a copy with unknown enum values replaced by their defaults.
func (c FilterCriteria) Normalized() FilterCriteria {
	c.Category = ParseCategory(string(c.Category))
	c.Sort = ParseSortKey(string(c.Sort))
	return c
}

// NeedsRefetch reports whether c differs from other in a field the backend filters on.
// Search is applied locally and never triggers a re-fetch.
func (c FilterCriteria) NeedsRefetch(other FilterCriteria) bool {
	if (c.StateID == nil) != (other.StateID == nil) {
		return true
	}
	if c.StateID != nil && *c.StateID != *other.StateID {
		return true
	}
	return c.Category != other.Category || c.Sort != other.Sort
}
