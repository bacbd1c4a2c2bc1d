package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"property-search/models"
	"property-search/utils"
)

// ErrUnknownProperty is returned when a compare request names an id that
// is not in the catalog.
var ErrUnknownProperty = errors.New("session: unknown property")

// Session wires the matcher, selection state, history and pipeline behind
// the callback entry points a front-end calls. Listeners run while the
// session lock is held and must not call back into the session.
type Session struct {
	mu sync.Mutex

	catalog   []*models.Property
	index     *SearchIndex
	matcher   *Matcher
	history   *HistoryService
	pipeline  *Pipeline
	comparer  *Comparer
	debouncer *utils.Debouncer
	logger    *utils.Logger

	selection  Selection
	textFilter string
	sortKey    SortKey
	results    *models.CategorizedResults
	listing    []*models.Property

	onResults func(*models.CategorizedResults)
	onListing func([]*models.Property)
}

// SessionDeps are the collaborators of a Session.
type SessionDeps struct {
	Catalog   []*models.Property
	Index     *SearchIndex
	Matcher   *Matcher
	History   *HistoryService
	Pipeline  *Pipeline
	Comparer  *Comparer
	Debouncer *utils.Debouncer
	Logger    *utils.Logger
}

// NewSession creates a Session and computes the initial listing.
func NewSession(deps SessionDeps) *Session {
	s := &Session{
		catalog:   deps.Catalog,
		index:     deps.Index,
		matcher:   deps.Matcher,
		history:   deps.History,
		pipeline:  deps.Pipeline,
		comparer:  deps.Comparer,
		debouncer: deps.Debouncer,
		logger:    deps.Logger,
	}
	s.listing = s.pipeline.Apply(s.catalog, nil, s.sortKey, "")
	return s
}

// OnResults registers the listener for matcher results.
func (s *Session) OnResults(fn func(*models.CategorizedResults)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResults = fn
}

// OnListing registers the listener for the filtered property list.
func (s *Session) OnListing(fn func([]*models.Property)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onListing = fn
}

// OnQueryChange records the typed text and schedules a debounced match.
// Only the evaluation for the latest input is ever published.
func (s *Session) OnQueryChange(text string) {
	s.mu.Lock()
	s.selection.SetQuery(text)
	s.mu.Unlock()

	s.debouncer.Schedule(func(seq uint64) {
		s.evaluate(seq, text)
	})
}

// Evaluate matches text immediately, bypassing the debounce delay, and
// returns the results. Any pending debounced evaluation is cancelled. The
// results are published only if no newer input arrived while matching.
func (s *Session) Evaluate(text string) *models.CategorizedResults {
	s.mu.Lock()
	s.selection.SetQuery(text)
	s.mu.Unlock()

	seq := s.debouncer.Cancel()
	res := s.matcher.Match(text, s.snapshot())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.debouncer.IsLatest(seq) {
		s.logger.Debug("[session] Not publishing superseded results for %q", text)
		return res
	}
	s.publishResults(res)
	return res
}

func (s *Session) evaluate(seq uint64, text string) {
	res := s.matcher.Match(text, s.snapshot())

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.debouncer.IsLatest(seq) {
		s.logger.Debug("[session] Dropping stale results for %q", text)
		return
	}
	s.publishResults(res)
}

func (s *Session) snapshot() HistorySnapshot {
	return HistorySnapshot{
		Entries:    s.history.History(),
		PopularIDs: s.history.PopularIDs(PopularCount),
	}
}

func (s *Session) publishResults(res *models.CategorizedResults) {
	s.results = res
	if s.onResults != nil {
		s.onResults(res)
	}
}

// OnQuerySubmit applies text as a free-text filter on title and location.
func (s *Session) OnQuerySubmit(text string) []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textFilter = text
	return s.refresh()
}

// OnCandidateSelect applies a chosen search result. Location and property
// type candidates are counted, become filter chips and are appended to the
// history with the query active at the time. A recent candidate restores the
// query and selections of its history entry.
func (s *Session) OnCandidateSelect(c models.SearchCandidate) []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Category {
	case models.CandidateLocation, models.CandidatePropertyType:
		if err := s.history.RecordSelection(c); err != nil {
			s.logger.Warn("[session] Could not record selection %s: %v", c.ID, err)
		}
		entry := models.SelectedFilter{ID: c.ID, Label: c.Label, Category: filterCategory(c.Category)}
		if s.selection.Add(entry) {
			s.appendHistory()
		}
	case models.CandidateRecent:
		s.restore(c.HistoryID)
	default:
		s.logger.Warn("[session] Ignoring candidate %s with category %q", c.ID, c.Category)
		return s.listing
	}
	return s.refresh()
}

// SelectByID selects a location or property type candidate by taxonomy id.
func (s *Session) SelectByID(id string) ([]*models.Property, error) {
	c, ok := s.index.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("session: no location or property type %q", id)
	}
	return s.OnCandidateSelect(c), nil
}

func (s *Session) restore(historyID string) {
	for _, e := range s.history.History() {
		if e.ID != historyID {
			continue
		}
		s.selection.Clear()
		s.selection.SetQuery(e.Query)
		for _, sel := range e.Selections {
			s.selection.Add(sel)
		}
		s.appendHistory()
		return
	}
	s.logger.Warn("[session] Recent search %s is no longer in history", historyID)
}

func (s *Session) appendHistory() {
	if _, err := s.history.AddHistory(s.selection.Query(), s.selection.Entries()); err != nil {
		s.logger.Warn("[session] Could not save search history: %v", err)
	}
}

// OnPriceRangeChange sets the price chip. Slider changes are not written
// to the history.
func (s *Session) OnPriceRangeChange(minPrice, maxPrice float64) []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.PriceRange{Min: minPrice, Max: maxPrice}
	s.selection.Add(models.SelectedFilter{
		ID:         priceRangeID(r),
		Label:      priceRangeLabel(r),
		Category:   models.FilterPriceRange,
		PriceRange: &r,
	})
	return s.refresh()
}

// OnFilterRemove drops one chip by id.
func (s *Session) OnFilterRemove(id string) []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selection.Remove(id) {
		return s.listing
	}
	return s.refresh()
}

// OnSortChange changes the listing order.
func (s *Session) OnSortChange(key SortKey) []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
	return s.refresh()
}

// OnClear removes every chip, the query, the free-text filter and any
// pending evaluation.
func (s *Session) OnClear() []*models.Property {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
	s.textFilter = ""
	s.results = nil
	return s.refresh()
}

// OnCompareRequest compares the catalog entries with the given ids.
func (s *Session) OnCompareRequest(ids []string) (*models.Comparison, error) {
	s.mu.Lock()
	byID := make(map[string]*models.Property, len(s.catalog))
	for _, p := range s.catalog {
		byID[p.ID] = p
	}
	s.mu.Unlock()

	props := make([]*models.Property, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, id)
		}
		props = append(props, p)
	}
	return s.comparer.Compare(props)
}

// Selections returns the active chips.
func (s *Session) Selections() []models.SelectedFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Entries()
}

// Query returns the text currently in the search box.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Query()
}

// Results returns the last published matcher results, or nil.
func (s *Session) Results() *models.CategorizedResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Listing returns the current filtered and sorted properties.
func (s *Session) Listing() []*models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

func (s *Session) refresh() []*models.Property {
	s.listing = s.pipeline.Apply(s.catalog, s.selection.Entries(), s.sortKey, s.textFilter)
	if s.onListing != nil {
		s.onListing(s.listing)
	}
	return s.listing
}

func filterCategory(c models.CandidateCategory) models.FilterCategory {
	if c == models.CandidatePropertyType {
		return models.FilterPropertyType
	}
	return models.FilterLocation
}

func priceRangeID(r models.PriceRange) string {
	return "price-" + strconv.FormatFloat(r.Min, 'f', 0, 64) + "-" + strconv.FormatFloat(r.Max, 'f', 0, 64)
}

func priceRangeLabel(r models.PriceRange) string {
	if r.Max <= 0 {
		return fmt.Sprintf("from €%s", FormatEuro(r.Min))
	}
	return fmt.Sprintf("€%s – €%s", FormatEuro(r.Min), FormatEuro(r.Max))
}
