package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"property-search/models"
	"property-search/utils"
)

const bestValueCount = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(properties []*models.Property) *models.MarketReport {
	report := &models.MarketReport{
		PropertiesByIsland: make(map[string]int),
		PropertiesByType:   make(map[string]int),
	}

	if len(properties) == 0 {
		return report
	}

	report.TotalProperties = len(properties)

	var priced []*models.Property
	var withArea []*models.Property
	for _, p := range properties {
		if p.Status == models.StatusAvailable {
			report.AvailableCount++
		}
		if p.Price > 0 {
			priced = append(priced, p)
		}
		if _, ok := p.PriceArea(); ok && p.Price > 0 {
			withArea = append(withArea, p)
		}
		if p.Island != "" {
			report.PropertiesByIsland[p.Island]++
		}
		if p.Type != "" {
			report.PropertiesByType[p.Type]++
		}
	}

	// Price stats (only properties with price > 0)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		report.MostExpensive = priced[0]
		var total float64
		for _, p := range priced {
			total += p.Price
			if p.Price < report.MinPrice {
				report.MinPrice = p.Price
			}
			if p.Price > report.MaxPrice {
				report.MaxPrice = p.Price
				report.MostExpensive = p
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	if len(withArea) > 0 {
		var total float64
		for _, p := range withArea {
			ppa, _ := p.PriceArea()
			total += ppa
		}
		report.AveragePriceArea = round2(total / float64(len(withArea)))

		sort.SliceStable(withArea, func(i, j int) bool {
			a, _ := withArea[i].PriceArea()
			b, _ := withArea[j].PriceArea()
			return a < b
		})
		if len(withArea) > bestValueCount {
			withArea = withArea[:bestValueCount]
		}
		report.BestValue = withArea
	}

	s.logger.Debug("[insights] Report over %d properties", report.TotalProperties)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.MarketReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  CAPE VERDE MARKET INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total properties : \033[1m%d\033[0m\n", r.TotalProperties)
	fmt.Fprintf(w, "  Available        : \033[1m%d\033[0m\n", r.AvailableCount)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price   : \033[1;32m€%s\033[0m\n", FormatEuro(r.AveragePrice))
		fmt.Fprintf(w, "  Minimum price   : \033[1;32m€%s\033[0m\n", FormatEuro(r.MinPrice))
		fmt.Fprintf(w, "  Maximum price   : \033[1;32m€%s\033[0m\n", FormatEuro(r.MaxPrice))
		fmt.Fprintf(w, "  Average per m²  : \033[1;32m€%s\033[0m\n", FormatEuro(r.AveragePriceArea))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if len(r.BestValue) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Best Value per m²\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for i, p := range r.BestValue {
			ppa, _ := p.PriceArea()
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-38s \033[1;32m€%s/m²\033[0m\n",
				i+1, truncate(p.Title, 36), FormatEuro(ppa))
		}
		fmt.Fprintln(w)
	}

	printCounts(w, "Properties by Island", r.PropertiesByIsland, thin)
	printCounts(w, "Properties by Type", r.PropertiesByType, thin)

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(w io.Writer, title string, counts map[string]int, thin string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	for k, n := range counts {
		rows = append(rows, keyCount{k, n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	for _, kc := range rows {
		bar := strings.Repeat("█", kc.count)
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(kc.key, 28), bar, kc.count)
	}
	fmt.Fprintln(w)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
