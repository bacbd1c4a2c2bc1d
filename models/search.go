package models

import "time"

// CandidateCategory groups search candidates in the results dropdown.
type CandidateCategory string

const (
	CandidateLocation     CandidateCategory = "location"
	CandidatePropertyType CandidateCategory = "property_type"
	CandidateRecent       CandidateCategory = "recent"
)

// FilterCategory is the kind of an active filter selection.
type FilterCategory string

const (
	FilterLocation     FilterCategory = "location"
	FilterPropertyType FilterCategory = "property_type"
	FilterPriceRange   FilterCategory = "price_range"
)

// HistoryKind tells plain text searches from searches that carried filters.
type HistoryKind string

const (
	HistoryLocation HistoryKind = "location"
	HistoryCombined HistoryKind = "combined"
)

// SearchCandidate is built fresh for every query and never persisted.
type SearchCandidate struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Category    CandidateCategory `json:"category"`
	Popularity  int               `json:"popularity"`
	Description string            `json:"description,omitempty"`
	Region      string            `json:"region,omitempty"`
	Popular     bool              `json:"popular,omitempty"`

	// HistoryID links a recent candidate back to its history entry.
	HistoryID string `json:"historyId,omitempty"`
}

// PriceRange bounds a price filter. A zero Max means no upper bound.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max <= 0 || price <= r.Max
}

// SelectedFilter is one active filter chip.
type SelectedFilter struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Category   FilterCategory `json:"category"`
	PriceRange *PriceRange    `json:"priceRange,omitempty"`
}

// Equal compares two selections field by field.
func (f SelectedFilter) Equal(o SelectedFilter) bool {
	if f.ID != o.ID || f.Label != o.Label || f.Category != o.Category {
		return false
	}
	if (f.PriceRange == nil) != (o.PriceRange == nil) {
		return false
	}
	return f.PriceRange == nil || *f.PriceRange == *o.PriceRange
}

// SearchHistoryEntry is one persisted prior search.
type SearchHistoryEntry struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	Selections []SelectedFilter `json:"selections"`
	Timestamp  time.Time        `json:"timestamp"`
	Kind       HistoryKind      `json:"kind"`
}

// SameSearch reports whether two entries carry the same query and the same
// selections in the same order.
func (e SearchHistoryEntry) SameSearch(query string, selections []SelectedFilter) bool {
	if e.Query != query || len(e.Selections) != len(selections) {
		return false
	}
	for i := range selections {
		if !e.Selections[i].Equal(selections[i]) {
			return false
		}
	}
	return true
}

// CategorizedResults is what the query matcher returns for one input.
type CategorizedResults struct {
	Query         string            `json:"query"`
	Locations     []SearchCandidate `json:"locations"`
	PropertyTypes []SearchCandidate `json:"propertyTypes"`
	Recent        []SearchCandidate `json:"recent"`

	// Searched is false when the input was too short to search at all.
	// NoResults marks a real search that found nothing.
	Searched    bool     `json:"searched"`
	NoResults   bool     `json:"noResults"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Total returns the number of candidates across all categories.
func (r *CategorizedResults) Total() int {
	return len(r.Locations) + len(r.PropertyTypes) + len(r.Recent)
}
