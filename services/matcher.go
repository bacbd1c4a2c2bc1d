package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"property-search/models"
	"property-search/utils"
)

const (
	minQueryLength    = 2
	maxLocations      = 6
	maxPropertyTypes  = 4
	maxRecentMatches  = 3
	maxRecentOnEmpty  = 5
	maxSuggestions    = 3
	recentMaxQueryLen = 2

	// PopularCount is how many top selected ids get the popular flag.
	PopularCount = 5
)

// CategoryGeneral is the analytics category for free-text searches.
const CategoryGeneral = "general"

// SearchRecorder receives one call per evaluated free-text search.
type SearchRecorder interface {
	RecordSearch(text, category string) error
}

// HistorySnapshot is the persisted state the matcher reads for one query.
type HistorySnapshot struct {
	Entries    []models.SearchHistoryEntry
	PopularIDs []string
}

// Matcher ranks search candidates for free-text input.
type Matcher struct {
	index    *SearchIndex
	recorder SearchRecorder
	logger   *utils.Logger
}

// NewMatcher creates a Matcher. recorder may be nil.
func NewMatcher(index *SearchIndex, recorder SearchRecorder, logger *utils.Logger) *Matcher {
	return &Matcher{index: index, recorder: recorder, logger: logger}
}

// Match evaluates one query against the index and the history snapshot.
func (m *Matcher) Match(query string, snap HistorySnapshot) *models.CategorizedResults {
	text := strings.TrimSpace(query)
	res := &models.CategorizedResults{Query: text}
	length := utf8.RuneCountInString(text)

	switch {
	case length == 0:
		recent := RecentCandidates(snap.Entries)
		res.Recent = capCandidates(recent, maxRecentOnEmpty)
		return res
	case length < minQueryLength:
		return res
	}

	res.Searched = true
	needle := strings.ToLower(text)
	popular := make(map[string]struct{}, len(snap.PopularIDs))
	for _, id := range snap.PopularIDs {
		popular[id] = struct{}{}
	}

	res.Locations = rank(m.index.locations, popular, maxLocations, func(c models.SearchCandidate) bool {
		return containsFold(c.Label, needle) || containsFold(c.Region, needle)
	})
	res.PropertyTypes = rank(m.index.propertyTypes, popular, maxPropertyTypes, func(c models.SearchCandidate) bool {
		return containsFold(c.Label, needle) || containsFold(c.Description, needle)
	})
	if length <= recentMaxQueryLen {
		res.Recent = rank(RecentCandidates(snap.Entries), nil, maxRecentMatches, func(c models.SearchCandidate) bool {
			return containsFold(c.Label, needle)
		})
	}

	if res.Total() == 0 {
		res.NoResults = true
		res.Suggestions = m.suggest(text)
	}

	if m.recorder != nil {
		if err := m.recorder.RecordSearch(text, CategoryGeneral); err != nil {
			m.logger.Warn("[matcher] Could not record search %q: %v", text, err)
		}
	}

	m.logger.Debug("[matcher] %q: %d locations, %d types, %d recent",
		text, len(res.Locations), len(res.PropertyTypes), len(res.Recent))
	return res
}

// rank filters candidates, flags popular ones, and orders them by
// descending popularity weight keeping encounter order on ties.
func rank(candidates []models.SearchCandidate, popular map[string]struct{}, limit int, keep func(models.SearchCandidate) bool) []models.SearchCandidate {
	out := make([]models.SearchCandidate, 0, limit)
	for _, c := range candidates {
		if !keep(c) {
			continue
		}
		if _, ok := popular[c.ID]; ok {
			c.Popular = true
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity > out[j].Popularity
	})
	return capCandidates(out, limit)
}

func capCandidates(c []models.SearchCandidate, limit int) []models.SearchCandidate {
	if len(c) > limit {
		return c[:limit]
	}
	return c
}

// suggest returns the closest candidate labels for a query that matched nothing.
func (m *Matcher) suggest(text string) []string {
	labels := make([]string, 0, len(m.index.locations)+len(m.index.propertyTypes))
	for _, c := range m.index.locations {
		labels = append(labels, c.Label)
	}
	for _, c := range m.index.propertyTypes {
		labels = append(labels, c.Label)
	}

	matches := fuzzy.Find(text, labels)
	out := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, match.Str)
	}
	return out
}

// containsFold reports whether lowerNeedle occurs in s, ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerNeedle)
}
