package services

import (
	"strings"

	"property-search/config"
	"property-search/models"
)

// SearchIndex holds the static location and property type candidates.
// Recent searches are merged in per query from the history snapshot.
type SearchIndex struct {
	locations     []models.SearchCandidate
	propertyTypes []models.SearchCandidate
}

// NewSearchIndex builds the static candidate lists from a taxonomy.
func NewSearchIndex(tax *config.Taxonomy) *SearchIndex {
	ix := &SearchIndex{
		locations:     make([]models.SearchCandidate, 0, len(tax.Locations)),
		propertyTypes: make([]models.SearchCandidate, 0, len(tax.PropertyTypes)),
	}
	for _, l := range tax.Locations {
		ix.locations = append(ix.locations, models.SearchCandidate{
			ID:          l.ID,
			Label:       l.Name,
			Category:    models.CandidateLocation,
			Popularity:  l.Popularity,
			Description: l.Description,
			Region:      l.Region,
		})
	}
	for _, pt := range tax.PropertyTypes {
		ix.propertyTypes = append(ix.propertyTypes, models.SearchCandidate{
			ID:          pt.ID,
			Label:       pt.Name,
			Category:    models.CandidatePropertyType,
			Popularity:  pt.Popularity,
			Description: pt.Description,
		})
	}
	return ix
}

// Locations returns a copy of the location candidates.
func (ix *SearchIndex) Locations() []models.SearchCandidate {
	return append([]models.SearchCandidate(nil), ix.locations...)
}

// PropertyTypes returns a copy of the property type candidates.
func (ix *SearchIndex) PropertyTypes() []models.SearchCandidate {
	return append([]models.SearchCandidate(nil), ix.propertyTypes...)
}

// Lookup finds a static candidate by id.
func (ix *SearchIndex) Lookup(id string) (models.SearchCandidate, bool) {
	for _, c := range ix.locations {
		if c.ID == id {
			return c, true
		}
	}
	for _, c := range ix.propertyTypes {
		if c.ID == id {
			return c, true
		}
	}
	return models.SearchCandidate{}, false
}

// RecentCandidates turns history entries into recent candidates, keeping
// the most-recent-first order of the history.
func RecentCandidates(history []models.SearchHistoryEntry) []models.SearchCandidate {
	out := make([]models.SearchCandidate, 0, len(history))
	for _, e := range history {
		out = append(out, models.SearchCandidate{
			ID:        "recent-" + e.ID,
			Label:     historyLabel(e),
			Category:  models.CandidateRecent,
			HistoryID: e.ID,
		})
	}
	return out
}

func historyLabel(e models.SearchHistoryEntry) string {
	if strings.TrimSpace(e.Query) != "" {
		return e.Query
	}
	labels := make([]string, 0, len(e.Selections))
	for _, s := range e.Selections {
		labels = append(labels, s.Label)
	}
	return strings.Join(labels, ", ")
}
