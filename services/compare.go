package services

import (
	"errors"
	"fmt"
	"strings"

	"property-search/config"
	"property-search/models"
)

// ErrInvalidComparisonSize is returned when fewer than 2 or more than 3
// properties are compared.
var ErrInvalidComparisonSize = errors.New("compare: need 2 or 3 properties")

const (
	minCompare = 2
	maxCompare = 3

	baseRentalYield  = 4.5
	oceanViewYield   = 2.0
	beachfrontYield  = 1.0
	beachfrontMeters = 200
	liquidMeters     = 500

	baseAppreciation = 3.0
	nearBeachPremium = 1.0
	oceanViewFeature = "Ocean View"
)

// islandGrowth is the appreciation premium for islands with strong
// tourism demand.
var islandGrowth = map[string]float64{
	"sal":         2.0,
	"boa vista":   2.0,
	"santiago":    1.0,
	"são vicente": 1.0,
	"sao vicente": 1.0,
}

type direction int

const (
	lowerIsBetter direction = iota
	higherIsBetter
)

// attribute is one numeric comparison row. value reports false when the
// property has no value, which never wins.
type attribute struct {
	name  string
	label string
	dir   direction
	value func(models.ComparisonRow) (float64, bool)
}

var comparisonAttributes = []attribute{
	{"price", "Price (EUR)", lowerIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return r.Property.Price, true
	}},
	{"pricePerArea", "Price per m²", lowerIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return r.Property.PriceArea()
	}},
	{"beachDistance", "Beach distance (m)", lowerIsBetter, func(r models.ComparisonRow) (float64, bool) {
		if r.Property.BeachDistance == nil {
			return 0, false
		}
		return *r.Property.BeachDistance, true
	}},
	{"area", "Area (m²)", higherIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return r.Property.Area, r.Property.Area > 0
	}},
	{"bedrooms", "Bedrooms", higherIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return float64(r.Property.Bedrooms), true
	}},
	{"bathrooms", "Bathrooms", higherIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return float64(r.Property.Bathrooms), true
	}},
	{"rentalYield", "Rental yield (%)", higherIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return r.RentalYield, true
	}},
	{"appreciation", "Appreciation (%/yr)", higherIsBetter, func(r models.ComparisonRow) (float64, bool) {
		return r.Appreciation, true
	}},
}

// Comparer builds side-by-side comparison tables.
type Comparer struct {
	groups []config.FeatureGroup
}

// NewComparer creates a Comparer with the feature taxonomy used for the
// feature-presence rows.
func NewComparer(groups []config.FeatureGroup) *Comparer {
	return &Comparer{groups: groups}
}

// Compare derives metrics for 2 or 3 properties and picks a winner for
// every numeric attribute.
func (c *Comparer) Compare(props []*models.Property) (*models.Comparison, error) {
	if len(props) < minCompare || len(props) > maxCompare {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidComparisonSize, len(props))
	}

	cmp := &models.Comparison{Rows: make([]models.ComparisonRow, len(props))}
	for i, p := range props {
		cmp.Rows[i] = DeriveRow(p)
	}

	for _, a := range comparisonAttributes {
		cmp.Attributes = append(cmp.Attributes, evaluate(a, cmp.Rows))
	}

	for _, g := range c.groups {
		for _, f := range g.Features {
			row := models.FeatureResult{Category: g.Category, Feature: f, Has: make([]bool, len(props))}
			for i, p := range props {
				row.Has[i] = HasFeature(p.Features, f)
			}
			cmp.Features = append(cmp.Features, row)
		}
	}
	return cmp, nil
}

// evaluate folds one attribute over the rows. Only present values can win
// and ties keep the earlier column. Winner stays -1 when no row has a value.
func evaluate(a attribute, rows []models.ComparisonRow) models.AttributeResult {
	res := models.AttributeResult{
		Name:    a.name,
		Label:   a.label,
		Values:  make([]float64, len(rows)),
		Present: make([]bool, len(rows)),
		Winner:  -1,
	}

	var best float64
	for i, r := range rows {
		v, ok := a.value(r)
		res.Values[i], res.Present[i] = v, ok
		if !ok {
			continue
		}
		if res.Winner < 0 || better(a.dir, v, best) {
			best = v
			res.Winner = i
		}
	}
	return res
}

func better(dir direction, v, best float64) bool {
	if dir == lowerIsBetter {
		return v < best
	}
	return v > best
}

// DeriveRow computes the heuristic investment metrics for one property.
func DeriveRow(p *models.Property) models.ComparisonRow {
	ppa, _ := p.PriceArea()
	return models.ComparisonRow{
		Property:         p,
		PricePerArea:     ppa,
		InvestmentRating: investmentRating(p),
		RentalYield:      rentalYield(p),
		Appreciation:     appreciation(p),
		Liquidity:        liquidity(p),
		Maintenance:      maintenance(p),
	}
}

func investmentRating(p *models.Property) models.InvestmentRating {
	switch {
	case p.Status == models.StatusSold:
		return models.RatingC
	case p.Price > 500_000:
		return models.RatingAPlus
	case p.Price > 300_000:
		return models.RatingA
	case p.Price > 150_000:
		return models.RatingBPlus
	default:
		return models.RatingB
	}
}

func rentalYield(p *models.Property) float64 {
	y := baseRentalYield
	if HasFeature(p.Features, oceanViewFeature) {
		y += oceanViewYield
	}
	if p.BeachDistance != nil && *p.BeachDistance < beachfrontMeters {
		y += beachfrontYield
	}
	return y
}

func appreciation(p *models.Property) float64 {
	a := baseAppreciation + islandGrowth[strings.ToLower(strings.TrimSpace(p.Island))]
	if p.BeachDistance != nil && *p.BeachDistance < liquidMeters {
		a += nearBeachPremium
	}
	return a
}

func liquidity(p *models.Property) models.LiquidityClass {
	if p.BeachDistance != nil && *p.BeachDistance < liquidMeters {
		return models.LiquidityHigh
	}
	return models.LiquidityMedium
}

func maintenance(p *models.Property) models.MaintenanceClass {
	t := strings.ToLower(p.Type)
	switch {
	case strings.Contains(t, "apartment"), strings.Contains(t, "apartamento"), strings.Contains(t, "penthouse"):
		return models.MaintenanceLow
	case strings.Contains(t, "house"), strings.Contains(t, "casa"):
		return models.MaintenanceMedium
	default:
		return models.MaintenanceHigh
	}
}
