package services

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"property-search/models"
)

// SortKey names a listing order.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortSavedDate SortKey = "savedDate"
	SortRecent    SortKey = "recent"
	SortTitle     SortKey = "title"
)

// Pipeline filters and sorts the catalog for display. Apply is pure: it
// never mutates its inputs and returns the same order for the same inputs.
type Pipeline struct {
	locale language.Tag
}

// NewPipeline returns a Pipeline whose title sort follows locale (a BCP 47
// tag such as "pt" or "en-GB"). Unparseable tags fall back to Portuguese.
func NewPipeline(locale string) *Pipeline {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Portuguese
	}
	return &Pipeline{locale: tag}
}

// Apply returns the properties that match every selected category group
// and the free-text query, in sortKey order.
func (p *Pipeline) Apply(catalog []*models.Property, selections []models.SelectedFilter, sortKey SortKey, query string) []*models.Property {
	var locations, types []models.SelectedFilter
	var price *models.PriceRange
	for _, s := range selections {
		switch s.Category {
		case models.FilterLocation:
			locations = append(locations, s)
		case models.FilterPropertyType:
			types = append(types, s)
		case models.FilterPriceRange:
			if s.PriceRange != nil {
				r := *s.PriceRange
				price = &r
			}
		}
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]*models.Property, 0, len(catalog))
	for _, prop := range catalog {
		if len(locations) > 0 && !anyMatch(locations, prop, matchesLocation) {
			continue
		}
		if len(types) > 0 && !anyMatch(types, prop, matchesType) {
			continue
		}
		if price != nil && !price.Contains(prop.Price) {
			continue
		}
		if needle != "" && !containsFold(prop.Title, needle) && !containsFold(prop.Location, needle) {
			continue
		}
		out = append(out, prop)
	}

	p.sort(out, sortKey)
	return out
}

func (p *Pipeline) sort(props []*models.Property, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(props, func(i, j int) bool { return props[i].Price < props[j].Price })
	case SortPriceDesc:
		sort.SliceStable(props, func(i, j int) bool { return props[i].Price > props[j].Price })
	case SortSavedDate, SortRecent:
		sort.SliceStable(props, func(i, j int) bool {
			return savedTime(props[i]).After(savedTime(props[j]))
		})
	case SortTitle:
		c := collate.New(p.locale, collate.IgnoreCase)
		sort.SliceStable(props, func(i, j int) bool {
			return c.CompareString(props[i].Title, props[j].Title) < 0
		})
	default:
		// Unknown keys keep catalog order.
	}
}

func savedTime(p *models.Property) time.Time {
	if !p.SavedAt.IsZero() {
		return p.SavedAt
	}
	return p.ListedAt
}

func anyMatch(filters []models.SelectedFilter, p *models.Property, match func(models.SelectedFilter, *models.Property) bool) bool {
	for _, f := range filters {
		if match(f, p) {
			return true
		}
	}
	return false
}

// matchesLocation compares the filter with the island and with each
// comma-separated part of the location ("Santa Maria, Sal").
func matchesLocation(f models.SelectedFilter, p *models.Property) bool {
	if strings.EqualFold(p.Island, f.Label) {
		return true
	}
	for _, part := range strings.Split(p.Location, ",") {
		if strings.EqualFold(strings.TrimSpace(part), f.Label) {
			return true
		}
	}
	return false
}

func matchesType(f models.SelectedFilter, p *models.Property) bool {
	return strings.EqualFold(p.Type, f.Label) || strings.EqualFold(p.Type, f.ID)
}
