package models

import "time"

// PropertyStatus is the sale state of a listing.
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusPending   PropertyStatus = "pending"
	StatusSold      PropertyStatus = "sold"
)

// RawProperty holds unprocessed listing data straight from the browser.
// It is cleaned into a Property before it reaches the catalog.
type RawProperty struct {
	Title        string
	RawPrice     string
	Location     string
	Island       string
	Type         string
	RawBedrooms  string
	RawBathrooms string
	RawArea      string
	RawBeach     string
	RawStatus    string
	Features     []string
	URL          string
	Description  string
	ScrapedAt    time.Time
	Source       string
}

// Property is a catalog record. The search core only ever reads it.
type Property struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Price         float64        `json:"price"`
	Location      string         `json:"location"`
	Island        string         `json:"island"`
	Type          string         `json:"type"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     int            `json:"bathrooms"`
	Area          float64        `json:"area"`
	PricePerArea  float64        `json:"pricePerArea"`
	Features      []string       `json:"features"`
	BeachDistance *float64       `json:"beachDistance,omitempty"`
	Status        PropertyStatus `json:"status"`
	URL           string         `json:"url,omitempty"`
	ListedAt      time.Time      `json:"listedAt"`
	SavedAt       time.Time      `json:"savedAt"`
}

// PriceArea returns the price per square metre. The stored value is used
// when the area is unknown; ok is false when neither is available.
func (p *Property) PriceArea() (float64, bool) {
	if p.Area > 0 {
		return p.Price / p.Area, true
	}
	if p.PricePerArea > 0 {
		return p.PricePerArea, true
	}
	return 0, false
}
