package services

import "property-search/models"

// Selection is the ordered list of active filter chips plus the free-text
// query that was active while they were chosen. It is not safe for
// concurrent use; Session serialises access.
type Selection struct {
	entries []models.SelectedFilter
	query   string
}

// Add inserts entry and reports whether the list changed. A price range
// replaces any previous price range. Other entries are deduplicated by id.
func (s *Selection) Add(entry models.SelectedFilter) bool {
	if entry.Category == models.FilterPriceRange {
		s.removeCategory(models.FilterPriceRange)
		s.entries = append(s.entries, entry)
		return true
	}
	for _, e := range s.entries {
		if e.ID == entry.ID {
			return false
		}
	}
	s.entries = append(s.entries, entry)
	return true
}

// Remove drops the entry with id and reports whether one was found.
func (s *Selection) Remove(id string) bool {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list and resets the query.
func (s *Selection) Clear() {
	s.entries = nil
	s.query = ""
}

// Entries returns a copy of the active entries in insertion order.
func (s *Selection) Entries() []models.SelectedFilter {
	return append([]models.SelectedFilter{}, s.entries...)
}

// PriceRange returns the active price range, if any.
func (s *Selection) PriceRange() (models.PriceRange, bool) {
	for _, e := range s.entries {
		if e.Category == models.FilterPriceRange && e.PriceRange != nil {
			return *e.PriceRange, true
		}
	}
	return models.PriceRange{}, false
}

func (s *Selection) Query() string     { return s.query }
func (s *Selection) SetQuery(q string) { s.query = q }

func (s *Selection) removeCategory(cat models.FilterCategory) {
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.Category != cat {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}
