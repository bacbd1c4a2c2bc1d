package models

// InvestmentRating buckets a property by price.
type InvestmentRating string

const (
	RatingAPlus InvestmentRating = "A+"
	RatingA     InvestmentRating = "A"
	RatingBPlus InvestmentRating = "B+"
	RatingB     InvestmentRating = "B"
	RatingC     InvestmentRating = "C"
)

// LiquidityClass is how quickly a property is expected to resell.
type LiquidityClass string

const (
	LiquidityHigh   LiquidityClass = "High"
	LiquidityMedium LiquidityClass = "Medium"
)

// MaintenanceClass is the expected upkeep burden.
type MaintenanceClass string

const (
	MaintenanceLow    MaintenanceClass = "Low"
	MaintenanceMedium MaintenanceClass = "Medium"
	MaintenanceHigh   MaintenanceClass = "High"
)

// ComparisonRow holds the derived metrics for one compared property.
type ComparisonRow struct {
	Property         *Property
	PricePerArea     float64
	InvestmentRating InvestmentRating
	RentalYield      float64
	Appreciation     float64
	Liquidity        LiquidityClass
	Maintenance      MaintenanceClass
}

// AttributeResult is one numeric attribute row of the comparison table.
type AttributeResult struct {
	Name   string
	Label  string
	Values []float64
	// Winner is the index of the best row, or -1 when no row has a value.
	Winner int

	// Present is false where a property has no value for the attribute.
	Present []bool
}

// FeatureResult is one feature-presence row of the comparison table.
type FeatureResult struct {
	Category string
	Feature  string
	Has      []bool
}

// Comparison is the full comparison table for 2 or 3 properties.
type Comparison struct {
	Rows       []ComparisonRow
	Attributes []AttributeResult
	Features   []FeatureResult
}

// Winner returns the winning column for the named attribute, or -1.
func (c *Comparison) Winner(name string) int {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a.Winner
		}
	}
	return -1
}
