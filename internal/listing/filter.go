// Package listing holds the query state of the catalogue list views: the
// selected facets, the current page and the last collection fetched for them.
package listing

import (
	"strings"
)

// All is the facet value that disables its predicate.
const All = "Все"

const (
	FormatOnline  = "Онлайн"
	FormatOffline = "Офлайн"
)

type Facets struct {
	City     string `form:"city" json:"city"`
	Category string `form:"category" json:"category"`
	Format   string `form:"format" json:"format"`
	Search   string `form:"search" json:"search"`
	Kind     string `form:"kind" json:"kind"`
	Date     string `form:"date" json:"date"`
}

// Normalize maps empty facets to All so that equal selections compare equal.
func (f Facets) Normalize() Facets {
	orAll := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return All
		}
		return s
	}

	return Facets{
		City:     orAll(f.City),
		Category: orAll(f.Category),
		Format:   orAll(f.Format),
		Search:   strings.TrimSpace(f.Search),
		Kind:     orAll(f.Kind),
		Date:     strings.TrimSpace(f.Date),
	}
}

// Fields is what the predicates look at on an item.
type Fields struct {
	City       string
	Categories []string
	// Online is nil for items without a format.
	Online *bool
	Kind   string
	Day    string
	Text   []string
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Match reports whether an item with the given fields passes every facet.
func (f Facets) Match(item Fields) bool {
	return f.matchCity(item) &&
		f.matchCategory(item) &&
		f.matchFormat(item) &&
		f.matchKind(item) &&
		f.matchDay(item) &&
		f.matchSearch(item)
}

// Items without a city, or marked for every city, are shown everywhere.
func (f Facets) matchCity(item Fields) bool {
	if isAll(f.City) {
		return true
	}

	return item.City == "" || item.City == All || strings.EqualFold(item.City, f.City)
}

func (f Facets) matchCategory(item Fields) bool {
	if isAll(f.Category) {
		return true
	}
	for _, c := range item.Categories {
		if c != "" && strings.EqualFold(c, f.Category) {
			return true
		}
	}

	return false
}

func (f Facets) matchFormat(item Fields) bool {
	switch f.Format {
	case FormatOnline:
		return item.Online != nil && *item.Online
	case FormatOffline:
		return item.Online != nil && !*item.Online
	default:
		return true
	}
}

func (f Facets) matchKind(item Fields) bool {
	if isAll(f.Kind) {
		return true
	}

	return strings.EqualFold(item.Kind, f.Kind)
}

func (f Facets) matchDay(item Fields) bool {
	if f.Date == "" {
		return true
	}

	return item.Day == f.Date
}

func (f Facets) matchSearch(item Fields) bool {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	for _, t := range item.Text {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}

	return false
}

// Filter returns the items matching facets in their original order. It never
// returns an item that is not in items.
func Filter[T any](items []T, facets Facets, fields func(T) Fields) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if facets.Match(fields(item)) {
			out = append(out, item)
		}
	}

	return out
}
