package listings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/config"
	"property-search/models"
	"property-search/utils"
)

func newTestScraper() *Scraper {
	cfg := &config.Config{MaxConcurrency: 1, MaxRetries: 1, PagesToScrape: 1, ListingsPerPage: 5}
	return New(cfg, utils.NewNopLogger())
}

func TestCollectSkipsEmptyAndDuplicateURLs(t *testing.T) {
	s := newTestScraper()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	first := s.collect([]card{
		{Title: "A", Price: "€ 100.000", URL: "https://example.cv/a"},
		{Title: "no link"},
		{Title: "A again", URL: " https://example.cv/a "},
		{Title: "B", URL: "https://example.cv/b"},
	}, at)
	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].Title)
	assert.Equal(t, "€ 100.000", first[0].RawPrice)
	assert.Equal(t, source, first[0].Source)
	assert.Equal(t, at, first[0].ScrapedAt)

	second := s.collect([]card{{Title: "B on page 2", URL: "https://example.cv/b"}}, at)
	assert.Empty(t, second, "URLs are remembered across pages")
}

func TestMergeDetailFillsMissingFields(t *testing.T) {
	p := &models.RawProperty{Title: "Villa", Type: "Villa", RawBedrooms: "T3"}
	mergeDetail(p, &detail{
		Island:      " Sal ",
		Type:        "Moradia",
		Bedrooms:    "4 quartos",
		Area:        "200 m²",
		Beach:       "150 m",
		Features:    []string{"Piscina", "Vista mar"},
		Description: "Close to the beach",
	})

	assert.Equal(t, "Sal", p.Island)
	assert.Equal(t, "Villa", p.Type, "card values win")
	assert.Equal(t, "T3", p.RawBedrooms)
	assert.Equal(t, "200 m²", p.RawArea)
	assert.Equal(t, "150 m", p.RawBeach)
	assert.Equal(t, []string{"Piscina", "Vista mar"}, p.Features)
	assert.Equal(t, "Close to the beach", p.Description)
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	assert.Equal(t, "/opt/chrome", findChromeBinary("/opt/chrome"))
}

func TestScrapeRequiresURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	_, err := newTestScraper().Scrape(ctx)
	assert.ErrorIs(t, err, ErrNoListingsURL)
}

func TestCardScriptEmbedsLimit(t *testing.T) {
	assert.Contains(t, cardScript(12), "var limit = 12;")
}
