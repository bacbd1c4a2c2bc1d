package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"property-search/models"
	"property-search/storage"
	"property-search/utils"
)

const (
	// HistoryKey holds the JSON list of prior searches.
	HistoryKey   = "property_search_history"
	// AnalyticsKey holds the JSON map of usage counters.
	AnalyticsKey = "property_search_analytics"

	// DefaultHistoryLimit caps the persisted history.
	DefaultHistoryLimit = 10

	selectionCategory = "selected"
	maxSwapAttempts   = 5
)

// HistoryService persists search history and usage counters in a
// KeyValueStore. Reads never fail: a missing or unreadable blob is
// treated as empty.
//
// ClearHistory leaves the counters alone. The counters are usage
// statistics with no clear path of their own.
type HistoryService struct {
	mu     sync.Mutex
	store  storage.KeyValueStore
	limit  int
	clock  clock.Clock
	logger *utils.Logger
}

// HistoryOption configures a HistoryService.
type HistoryOption func(*HistoryService)

// WithClock sets the clock used for entry timestamps.
func WithClock(c clock.Clock) HistoryOption {
	return func(h *HistoryService) { h.clock = c }
}

// WithHistoryLimit caps the number of persisted history entries.
func WithHistoryLimit(n int) HistoryOption {
	return func(h *HistoryService) {
		if n > 0 {
			h.limit = n
		}
	}
}

// NewHistoryService creates a HistoryService over store.
func NewHistoryService(store storage.KeyValueStore, logger *utils.Logger, opts ...HistoryOption) *HistoryService {
	h := &HistoryService{
		store:  store,
		limit:  DefaultHistoryLimit,
		clock:  clock.New(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RecordSearch counts one free-text search under category.
func (h *HistoryService) RecordSearch(text, category string) error {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	return h.increment(category + ":" + text)
}

// RecordSelection counts one selection of a search candidate.
func (h *HistoryService) RecordSelection(c models.SearchCandidate) error {
	if c.ID == "" {
		return nil
	}
	return h.increment(SelectionCounterKey(c.ID))
}

// SelectionCounterKey is the analytics key counting selections of id.
func SelectionCounterKey(id string) string {
	return selectionCategory + ":" + id
}

func (h *HistoryService) increment(key string) error {
	return h.update(AnalyticsKey, func(raw string) (string, error) {
		counters := h.decodeCounters(raw)
		counters[key]++
		b, err := json.Marshal(counters)
		return string(b), err
	})
}

// Counters returns a copy of every usage counter.
func (h *HistoryService) Counters() map[string]int {
	return h.decodeCounters(h.read(AnalyticsKey))
}

// PopularIDs returns up to n candidate ids ranked by descending selection
// count. Equal counts order by id.
func (h *HistoryService) PopularIDs(n int) []string {
	prefix := selectionCategory + ":"
	selected := lo.PickBy(h.Counters(), func(k string, _ int) bool {
		return strings.HasPrefix(k, prefix)
	})

	entries := lo.Entries(selected)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return lo.Map(entries, func(e lo.Entry[string, int], _ int) string {
		return strings.TrimPrefix(e.Key, prefix)
	})
}

// History returns the persisted searches, most recent first.
func (h *HistoryService) History() []models.SearchHistoryEntry {
	return h.decodeHistory(h.read(HistoryKey))
}

// AddHistory records a search. An entry with the same query and selections
// is moved to the front instead of duplicated.
func (h *HistoryService) AddHistory(query string, selections []models.SelectedFilter) (models.SearchHistoryEntry, error) {
	entry := models.SearchHistoryEntry{
		ID:         uuid.NewString(),
		Query:      strings.TrimSpace(query),
		Selections: append([]models.SelectedFilter{}, selections...),
		Timestamp:  h.clock.Now().UTC(),
		Kind:       models.HistoryLocation,
	}
	if len(entry.Selections) > 0 {
		entry.Kind = models.HistoryCombined
	}

	err := h.update(HistoryKey, func(raw string) (string, error) {
		existing := h.decodeHistory(raw)
		next := make([]models.SearchHistoryEntry, 0, h.limit)
		next = append(next, entry)
		for _, e := range existing {
			if len(next) == h.limit {
				break
			}
			if e.SameSearch(entry.Query, entry.Selections) {
				continue
			}
			next = append(next, e)
		}
		b, err := json.Marshal(next)
		return string(b), err
	})
	if err != nil {
		return models.SearchHistoryEntry{}, err
	}
	return entry, nil
}

// ClearHistory wipes the history list. Counters are kept.
func (h *HistoryService) ClearHistory() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Remove(HistoryKey); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

// update runs a read-modify-write on key. Stores that implement
// storage.Swapper are written with compare-and-swap.
func (h *HistoryService) update(key string, fn func(raw string) (string, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	swapper, canSwap := h.store.(storage.Swapper)
	for attempt := 1; ; attempt++ {
		raw := h.read(key)
		next, err := fn(raw)
		if err != nil {
			return fmt.Errorf("history: encode %s: %w", key, err)
		}

		if !canSwap {
			if err := h.store.Set(key, next); err != nil {
				return fmt.Errorf("history: write %s: %w", key, err)
			}
			return nil
		}

		swapped, err := swapper.CompareAndSwap(key, raw, next)
		if err != nil {
			return fmt.Errorf("history: write %s: %w", key, err)
		}
		if swapped {
			return nil
		}
		if attempt == maxSwapAttempts {
			return fmt.Errorf("history: write %s: lost %d compare-and-swap races", key, attempt)
		}
		h.logger.Debug("[history] Concurrent write on %s, retrying", key)
	}
}

func (h *HistoryService) read(key string) string {
	raw, ok, err := h.store.Get(key)
	if err != nil {
		h.logger.Warn("[history] Could not read %s, treating as empty: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return raw
}

func (h *HistoryService) decodeHistory(raw string) []models.SearchHistoryEntry {
	if raw == "" {
		return []models.SearchHistoryEntry{}
	}
	var entries []models.SearchHistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		h.logger.Warn("[history] Stored history is corrupt, treating as empty: %v", err)
		return []models.SearchHistoryEntry{}
	}
	if entries == nil {
		entries = []models.SearchHistoryEntry{}
	}
	return entries
}

func (h *HistoryService) decodeCounters(raw string) map[string]int {
	counters := make(map[string]int)
	if raw == "" {
		return counters
	}
	if err := json.Unmarshal([]byte(raw), &counters); err != nil {
		h.logger.Warn("[history] Stored analytics are corrupt, treating as empty: %v", err)
		return make(map[string]int)
	}
	if counters == nil {
		counters = make(map[string]int)
	}
	return counters
}
