package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-search/models"
)

func TestJSONCatalogLoadsAndDerivesPriceArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[
		{"id":"p1","title":"Villa Santa Maria","price":300000,"island":"Sal","type":"Villa","area":150,"beachDistance":120},
		{"id":"p2","title":"Apartamento Plateau","price":90000,"island":"Santiago","type":"Apartment","area":0,"pricePerArea":1500}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	props, err := NewJSONCatalog(path).Properties()
	require.NoError(t, err)
	require.Len(t, props, 2)

	assert.Equal(t, "p1", props[0].ID)
	assert.InDelta(t, 2000, props[0].PricePerArea, 0.001)
	require.NotNil(t, props[0].BeachDistance)
	assert.InDelta(t, 120, *props[0].BeachDistance, 0.001)

	assert.Nil(t, props[1].BeachDistance)
	assert.InDelta(t, 1500, props[1].PricePerArea, 0.001)
}

func TestJSONCatalogErrors(t *testing.T) {
	_, err := NewJSONCatalog(filepath.Join(t.TempDir(), "nope.json")).Properties()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = NewJSONCatalog(bad).Properties()
	assert.Error(t, err)
}

func TestCSVWriterWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := newCSVWriter(&buf, nil)
	require.NoError(t, err)

	beach := 80.0
	err = w.WriteProperties([]*models.Property{
		{ID: "p1", Title: "Villa", Price: 250000, Island: "Sal", Area: 100, BeachDistance: &beach,
			Features: []string{"Pool", "Ocean View"}, Status: models.StatusAvailable},
		{ID: "p2", Title: "Flat", Price: 80000, Island: "Santiago"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "p1", records[1][0])
	assert.Equal(t, "2500.00", records[1][9])
	assert.Equal(t, "80.00", records[1][10])
	assert.Equal(t, "Pool; Ocean View", records[1][12])
	assert.Equal(t, "", records[2][10], "absent beach distance is left blank")
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCSVWriterCloseReportsFileError(t *testing.T) {
	var buf bytes.Buffer
	diskFull := errors.New("disk full")
	w, err := newCSVWriter(&buf, failingCloser{err: diskFull})
	require.NoError(t, err)

	require.NoError(t, w.WriteProperties([]*models.Property{{ID: "p1", Title: "Villa"}}))
	assert.ErrorIs(t, w.Close(), diskFull)
}

func TestJSONCatalogWriteMergesByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	c := NewJSONCatalog(path)

	require.NoError(t, c.Write([]*models.Property{
		{ID: "a", Title: "First", Price: 100000},
		{ID: "b", Title: "Second", Price: 200000},
	}))
	require.NoError(t, c.Write([]*models.Property{
		{ID: "b", Title: "Second, reduced", Price: 180000},
		{ID: "c", Title: "Third", Price: 300000},
	}))
	require.NoError(t, c.Close())

	props, err := c.Properties()
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.Equal(t, "a", props[0].ID)
	assert.Equal(t, "Second, reduced", props[1].Title)
	assert.Equal(t, 180000.0, props[1].Price)
	assert.Equal(t, "c", props[2].ID)
}
