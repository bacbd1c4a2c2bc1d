package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"property-search/config"
	"property-search/models"
	"property-search/utils"
)

// escudosPerEuro is the fixed CVE/EUR peg.
const escudosPerEuro = 110.265

var (
	// numberRegexp captures a number with optional '.'/',' separators
	numberRegexp = regexp.MustCompile(`\d[\d.,]*`)
	// intRegexp captures the first whole number, as in "T3" or "3 bedrooms"
	intRegexp = regexp.MustCompile(`\d+`)
	// escudoRegexp detects prices quoted in Cape Verde escudos
	escudoRegexp = regexp.MustCompile(`(?i)\b(cve|ecv|esc)\b|\$00`)
	// kmRegexp detects a distance quoted in kilometres
	kmRegexp = regexp.MustCompile(`(?i)\d\s*km\b`)
)

// Cleaner transforms RawProperties into catalog Properties.
type Cleaner struct {
	logger    *utils.Logger
	locations []config.Location
}

// NewCleaner creates a Cleaner. The taxonomy, when given, is used to fill
// in the island from the location name.
func NewCleaner(logger *utils.Logger, tax *config.Taxonomy) *Cleaner {
	c := &Cleaner{logger: logger}
	if tax != nil {
		c.locations = tax.Locations
	}
	return c
}

// Clean processes raw listings and returns cleaned records.
func (c *Cleaner) Clean(raw []*models.RawProperty) []*models.Property {
	seen := utils.NewListingKeys()
	result := make([]*models.Property, 0, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			c.logger.Warn("[cleaner] Dropping listing with empty URL: %s", r.Title)
			continue
		}

		key, fresh := seen.Claim(url)
		if !fresh {
			c.logger.Debug("[cleaner] Duplicate URL skipped: %s", url)
			continue
		}

		p := &models.Property{
			ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
			Title:         normaliseText(r.Title),
			Price:         c.parsePrice(r.RawPrice),
			Location:      normaliseText(r.Location),
			Island:        normaliseText(r.Island),
			Type:          normaliseText(r.Type),
			Bedrooms:      parseCount(r.RawBedrooms),
			Bathrooms:     parseCount(r.RawBathrooms),
			Area:          parseDecimal(r.RawArea),
			Features:      normaliseFeatures(r.Features),
			BeachDistance: parseDistance(r.RawBeach),
			Status:        parseStatus(r.RawStatus),
			URL:           url,
			ListedAt:      r.ScrapedAt,
			SavedAt:       r.ScrapedAt,
		}
		if p.Island == "" {
			p.Island = c.inferIsland(p.Location)
		}
		if p.Area > 0 {
			p.PricePerArea = p.Price / p.Area
		}

		result = append(result, p)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts a euro price. Escudo prices are converted at the peg.
// Examples:
//
//	"€ 250.000"        → 250000
//	"185,000 EUR"      → 185000
//	"27.566.250 CVE"   → 250000
//	"12.500$00"        → 113.36
func (c *Cleaner) parsePrice(raw string) float64 {
	value := parseDecimal(raw)
	if value == 0 {
		return 0
	}
	if escudoRegexp.MatchString(raw) {
		eur := value / escudosPerEuro
		c.logger.Debug("[cleaner] Escudo price converted: %.0f CVE = €%.2f", value, eur)
		return float64(int64(eur*100+0.5)) / 100
	}
	return value
}

// parseDecimal reads the first number in raw, accepting both "1.234,5" and
// "1,234.5" styles. A lone separator followed by exactly three digits is a
// thousands separator.
func parseDecimal(raw string) float64 {
	match := numberRegexp.FindString(strings.ReplaceAll(raw, " ", ""))
	match = strings.TrimRight(match, ".,")
	if match == "" {
		return 0
	}

	lastDot := strings.LastIndex(match, ".")
	lastComma := strings.LastIndex(match, ",")
	var normalised string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal := "."
		thousands := ","
		if lastComma > lastDot {
			decimal, thousands = ",", "."
		}
		normalised = strings.ReplaceAll(match, thousands, "")
		normalised = strings.Replace(normalised, decimal, ".", 1)
	case lastDot >= 0:
		normalised = normaliseSingleSeparator(match, ".")
	case lastComma >= 0:
		normalised = normaliseSingleSeparator(match, ",")
	default:
		normalised = match
	}

	v, err := strconv.ParseFloat(normalised, 64)
	if err != nil {
		return 0
	}
	return v
}

func normaliseSingleSeparator(s, sep string) string {
	parts := strings.Split(s, sep)
	grouped := len(parts) > 2
	if !grouped && len(parts[1]) == 3 {
		grouped = true
	}
	if grouped {
		return strings.Join(parts, "")
	}
	return parts[0] + "." + parts[1]
}

// parseCount extracts a room count such as "3", "T3" or "3 quartos".
func parseCount(raw string) int {
	match := intRegexp.FindString(raw)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// parseDistance returns the distance in metres, or nil when unknown.
// "Beachfront" counts as zero metres.
func parseDistance(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "beachfront") || strings.Contains(lower, "frente mar") {
		zero := 0.0
		return &zero
	}
	if numberRegexp.FindString(raw) == "" {
		return nil
	}
	d := parseDecimal(raw)
	if kmRegexp.MatchString(raw) {
		d *= 1000
	}
	return &d
}

func parseStatus(raw string) models.PropertyStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "sold"), strings.Contains(s, "vendid"):
		return models.StatusSold
	case strings.Contains(s, "pending"), strings.Contains(s, "reserv"), strings.Contains(s, "under offer"):
		return models.StatusPending
	default:
		return models.StatusAvailable
	}
}

func (c *Cleaner) inferIsland(location string) string {
	for _, l := range c.locations {
		for _, part := range strings.Split(location, ",") {
			if strings.EqualFold(strings.TrimSpace(part), l.Name) {
				return l.Region
			}
		}
	}
	return ""
}

func normaliseFeatures(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		f = normaliseText(f)
		key := strings.ToLower(f)
		if f == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
