package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/models"
	"property-search/storage"
)

type countingRecorder struct {
	calls []string
}

func (r *countingRecorder) RecordSearch(text, category string) error {
	r.calls = append(r.calls, category+":"+text)
	return nil
}

func labels(c []models.SearchCandidate) []string {
	out := make([]string, len(c))
	for i, x := range c {
		out[i] = x.Label
	}
	return out
}

func historyEntries(n int) []models.SearchHistoryEntry {
	out := make([]models.SearchHistoryEntry, n)
	for i := range out {
		out[i] = models.SearchHistoryEntry{ID: fmt.Sprint(i), Query: fmt.Sprintf("search %d", i)}
	}
	return out
}

func TestMatcherEmptyQueryShowsRecent(t *testing.T) {
	rec := &countingRecorder{}
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), rec, newTestLogger())

	res := m.Match("   ", HistorySnapshot{Entries: historyEntries(8)})

	assert.False(t, res.Searched)
	assert.False(t, res.NoResults)
	assert.Empty(t, res.Locations)
	require.Len(t, res.Recent, 5)
	assert.Equal(t, "search 0", res.Recent[0].Label)
	assert.Equal(t, models.CandidateRecent, res.Recent[0].Category)
	assert.Equal(t, "0", res.Recent[0].HistoryID)
	assert.Empty(t, rec.calls, "empty input is not a search")
}

func TestMatcherSingleCharacterReturnsNothing(t *testing.T) {
	rec := &countingRecorder{}
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), rec, newTestLogger())

	res := m.Match("s", HistorySnapshot{Entries: historyEntries(3)})

	assert.Zero(t, res.Total())
	assert.False(t, res.Searched)
	assert.False(t, res.NoResults)
	assert.Empty(t, rec.calls)

	res = m.Match("é", HistorySnapshot{})
	assert.False(t, res.Searched, "length is counted in characters, not bytes")
}

func TestMatcherRanksByPopularity(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())

	res := m.Match("sal", HistorySnapshot{})

	// Name or region contains "sal": Sal (98), Santa Maria (region Sal, 95), Sal Rei (80).
	assert.Equal(t, []string{"Sal", "Santa Maria", "Sal Rei"}, labels(res.Locations))
	assert.True(t, res.Searched)
	assert.False(t, res.NoResults)
}

func TestMatcherMatchesRegionAndDescription(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())

	res := m.Match("SANTIAGO", HistorySnapshot{})
	assert.Equal(t, []string{"Praia", "Santiago"}, labels(res.Locations))

	res = m.Match("flat", HistorySnapshot{})
	assert.Equal(t, []string{"Apartment"}, labels(res.PropertyTypes))

	res = m.Match("house", HistorySnapshot{})
	assert.Equal(t, []string{"Villa", "House"}, labels(res.PropertyTypes), "Villa's description mentions a house")
}

func TestMatcherCapsEachCategory(t *testing.T) {
	tax := testTaxonomy(t)
	for i := 0; i < 10; i++ {
		tax.Locations = append(tax.Locations, tax.Locations[0])
	}
	m := NewMatcher(NewSearchIndex(tax), nil, newTestLogger())

	res := m.Match("sa", HistorySnapshot{})
	assert.Len(t, res.Locations, 6)
}

func TestMatcherRecentOnlyForShortQueries(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())
	history := []models.SearchHistoryEntry{
		{ID: "1", Query: "praia"},
		{ID: "2", Query: "prainha"},
		{ID: "3", Query: "sal"},
		{ID: "4", Query: "praia villa"},
		{ID: "5", Query: "praia apartment"},
	}

	res := m.Match("pr", HistorySnapshot{Entries: history})
	assert.Equal(t, []string{"praia", "prainha", "praia villa"}, labels(res.Recent))

	res = m.Match("pra", HistorySnapshot{Entries: history})
	assert.Empty(t, res.Recent)
}

func TestMatcherRecentLabelFallsBackToSelections(t *testing.T) {
	entry := models.SearchHistoryEntry{ID: "x", Selections: []models.SelectedFilter{
		{ID: "sal", Label: "Sal"}, {ID: "villa", Label: "Villa"},
	}}
	c := RecentCandidates([]models.SearchHistoryEntry{entry})
	require.Len(t, c, 1)
	assert.Equal(t, "Sal, Villa", c[0].Label)
}

func TestMatcherRecordsEverySearch(t *testing.T) {
	rec := &countingRecorder{}
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), rec, newTestLogger())

	m.Match("  Praia ", HistorySnapshot{})
	m.Match("zzzz", HistorySnapshot{})

	assert.Equal(t, []string{"general:Praia", "general:zzzz"}, rec.calls)
}

func TestMatcherNoResultsIsExplicit(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())

	res := m.Match("qwxz", HistorySnapshot{})
	assert.True(t, res.Searched)
	assert.True(t, res.NoResults)
	assert.Zero(t, res.Total())
}

func TestMatcherSuggestsOnNoResults(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())

	res := m.Match("sntmria", HistorySnapshot{})
	require.True(t, res.NoResults)
	assert.Contains(t, res.Suggestions, "Santa Maria")
	assert.LessOrEqual(t, len(res.Suggestions), 3)
}

func TestMatcherFlagsPopularCandidates(t *testing.T) {
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), nil, newTestLogger())

	res := m.Match("sal", HistorySnapshot{PopularIDs: []string{"sal-rei"}})
	require.Len(t, res.Locations, 3)
	assert.False(t, res.Locations[0].Popular)
	assert.True(t, res.Locations[2].Popular)
	assert.Equal(t, "Sal Rei", res.Locations[2].Label, "the flag does not change the order")
}

func TestMatcherWithHistoryService(t *testing.T) {
	h := newTestHistory(storage.NewMemoryStore(), nil)
	m := NewMatcher(NewSearchIndex(testTaxonomy(t)), h, newTestLogger())

	m.Match("mindelo", HistorySnapshot{})
	m.Match("Mindelo", HistorySnapshot{})

	assert.Equal(t, 2, h.Counters()["general:mindelo"])
}

func TestSearchIndexLookup(t *testing.T) {
	ix := NewSearchIndex(testTaxonomy(t))

	c, ok := ix.Lookup("villa")
	require.True(t, ok)
	assert.Equal(t, models.CandidatePropertyType, c.Category)

	c, ok = ix.Lookup("praia")
	require.True(t, ok)
	assert.Equal(t, "Santiago", c.Region)

	_, ok = ix.Lookup("atlantis")
	assert.False(t, ok)

	assert.Len(t, ix.Locations(), 6)
	assert.Len(t, ix.PropertyTypes(), 3)
}
