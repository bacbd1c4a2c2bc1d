package models

// MarketReport holds the computed analytics over the catalog.
type MarketReport struct {
	TotalProperties    int
	AvailableCount     int
	AveragePrice       float64
	MinPrice           float64
	MaxPrice           float64
	AveragePriceArea   float64
	MostExpensive      *Property
	BestValue          []*Property
	PropertiesByIsland map[string]int
	PropertiesByType   map[string]int
}
