package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"property-search/models"
	"property-search/services"
	"property-search/utils"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id]",
	Short: "Compare two or three properties side by side",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := current.openSession()
		if err != nil {
			return err
		}
		cmp, err := session.OnCompareRequest(args)
		if err != nil {
			return err
		}
		return printComparison(cmd.OutOrStdout(), cmp)
	},
}

func printComparison(w io.Writer, cmp *models.Comparison) error {
	headers := []string{""}
	for _, r := range cmp.Rows {
		headers = append(headers, r.Property.Title)
	}

	rows := make([][]string, 0, len(cmp.Attributes)+len(cmp.Features)+4)
	for _, a := range cmp.Attributes {
		row := []string{a.Label}
		for i, v := range a.Values {
			cell := "-"
			if a.Present[i] {
				cell = formatAttribute(a.Name, v)
			}
			if i == a.Winner {
				cell += " ★"
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	derived := []struct {
		label string
		value func(models.ComparisonRow) string
	}{
		{"Investment rating", func(r models.ComparisonRow) string { return string(r.InvestmentRating) }},
		{"Liquidity", func(r models.ComparisonRow) string { return string(r.Liquidity) }},
		{"Maintenance", func(r models.ComparisonRow) string { return string(r.Maintenance) }},
		{"Status", func(r models.ComparisonRow) string { return string(r.Property.Status) }},
	}
	for _, d := range derived {
		row := []string{d.label}
		for _, r := range cmp.Rows {
			row = append(row, d.value(r))
		}
		rows = append(rows, row)
	}

	for _, f := range cmp.Features {
		row := []string{f.Category + ": " + f.Feature}
		for _, has := range f.Has {
			if has {
				row = append(row, "✓")
			} else {
				row = append(row, "✗")
			}
		}
		rows = append(rows, row)
	}

	if err := utils.RenderTable(w, headers, rows); err != nil {
		return fmt.Errorf("compare: render: %w", err)
	}
	return nil
}

func formatAttribute(name string, v float64) string {
	switch name {
	case "price", "pricePerArea":
		return "€" + services.FormatEuro(v)
	case "rentalYield", "appreciation":
		return strconv.FormatFloat(v, 'f', 1, 64) + "%"
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}
