package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "")
	t.Setenv("DEBOUNCE_DELAY", "")

	cfg := FromEnv()
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, "json", cfg.CatalogSource)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "25")
	t.Setenv("DEBOUNCE_DELAY", "150")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, 150*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 3, cfg.MaxRetries, "invalid ints fall back to the default")
	assert.Contains(t, cfg.DSN(), "host=db ")

	t.Setenv("DEBOUNCE_DELAY", "1s")
	assert.Equal(t, time.Second, FromEnv().DebounceDelay)
}

func TestDefaultTaxonomy(t *testing.T) {
	tax, err := LoadTaxonomy("")
	require.NoError(t, err)

	assert.NotEmpty(t, tax.Locations)
	assert.NotEmpty(t, tax.PropertyTypes)
	require.Len(t, tax.FeatureGroups, 6)
	assert.Equal(t, "Location", tax.FeatureGroups[0].Category)
}

func TestParseTaxonomyRejectsDuplicateIDs(t *testing.T) {
	doc := `
[[locations]]
id = "sal"
name = "Sal"

[[property_types]]
id = "sal"
name = "Salt flat"
`
	_, err := ParseTaxonomy([]byte(doc))
	assert.ErrorContains(t, err, `duplicate id "sal"`)
}

func TestLoadTaxonomyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.toml")
	doc := `
[[locations]]
id = "maio"
name = "Maio"
popularity = 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	require.Len(t, tax.Locations, 1)
	assert.Equal(t, 3, tax.Locations[0].Popularity)

	_, err = LoadTaxonomy(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
