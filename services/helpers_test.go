package services

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"property-search/config"
	"property-search/models"
	"property-search/storage"
	"property-search/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func testTaxonomy(t *testing.T) *config.Taxonomy {
	t.Helper()
	tax, err := config.ParseTaxonomy([]byte(`
[[locations]]
id = "sal"
name = "Sal"
region = "Sal"
popularity = 98

[[locations]]
id = "santa-maria"
name = "Santa Maria"
region = "Sal"
popularity = 95

[[locations]]
id = "santiago"
name = "Santiago"
region = "Santiago"
popularity = 88

[[locations]]
id = "praia"
name = "Praia"
region = "Santiago"
popularity = 92

[[locations]]
id = "sal-rei"
name = "Sal Rei"
region = "Boa Vista"
popularity = 80

[[locations]]
id = "mindelo"
name = "Mindelo"
region = "São Vicente"
popularity = 87

[[property_types]]
id = "villa"
name = "Villa"
description = "Detached house with garden or pool"
popularity = 90

[[property_types]]
id = "apartment"
name = "Apartment"
description = "Flat in a residential or resort building"
popularity = 95

[[property_types]]
id = "house"
name = "House"
description = "Family home"
popularity = 80

[[feature_groups]]
category = "Location"
features = ["Ocean View", "Beach Access"]

[[feature_groups]]
category = "Exterior"
features = ["Pool", "Garden"]
`))
	require.NoError(t, err)
	return tax
}

func ptr(f float64) *float64 { return &f }

func sampleCatalog() []*models.Property {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*models.Property{
		{ID: "p1", Title: "Villa Ponta Preta", Price: 480000, Location: "Santa Maria, Sal", Island: "Sal", Type: "Villa",
			Bedrooms: 4, Bathrooms: 3, Area: 220, BeachDistance: ptr(150), Features: []string{"Ocean View", "Private pool"},
			Status: models.StatusAvailable, SavedAt: base.Add(2 * time.Hour)},
		{ID: "p2", Title: "Apartamento Leme Bedje", Price: 145000, Location: "Santa Maria, Sal", Island: "Sal", Type: "Apartment",
			Bedrooms: 2, Bathrooms: 1, Area: 75, BeachDistance: ptr(400), Features: []string{"Pool", "Air conditioning"},
			Status: models.StatusAvailable, SavedAt: base.Add(5 * time.Hour)},
		{ID: "p3", Title: "Villa Palmarejo", Price: 350000, Location: "Praia, Santiago", Island: "Santiago", Type: "Villa",
			Bedrooms: 5, Bathrooms: 4, Area: 300, Features: []string{"Garden", "Garage"},
			Status: models.StatusPending, SavedAt: base},
		{ID: "p4", Title: "Apartment Plateau", Price: 98000, Location: "Praia, Santiago", Island: "Santiago", Type: "Apartment",
			Bedrooms: 1, Bathrooms: 1, Area: 55, Features: []string{"City center"},
			Status: models.StatusAvailable, SavedAt: base.Add(time.Hour)},
		{ID: "p5", Title: "Casa Sal Rei", Price: 210000, Location: "Sal Rei", Island: "Boa Vista", Type: "House",
			Bedrooms: 3, Bathrooms: 2, Area: 140, BeachDistance: ptr(900),
			Status: models.StatusSold, SavedAt: base.Add(3 * time.Hour)},
	}
}

func ids(props []*models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func newTestHistory(store storage.KeyValueStore, clk clock.Clock) *HistoryService {
	if clk == nil {
		clk = clock.NewMock()
	}
	return NewHistoryService(store, newTestLogger(), WithClock(clk))
}
