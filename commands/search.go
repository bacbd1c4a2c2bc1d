package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"property-search/models"
	"property-search/services"
	"property-search/utils"
)

var searchOpts struct {
	filters  []string
	text     string
	minPrice float64
	maxPrice float64
	sort     string
	csv      bool
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Show search suggestions for a query and the filtered listing",
	Long: `search evaluates the query against locations, property types and recent
searches, then applies the chosen filter chips and prints the listing.

Examples:
  property-search search sal
  property-search search --filter santa-maria --filter villa --sort price-asc
  property-search search --min-price 100000 --max-price 300000 --text praia`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVarP(&searchOpts.filters, "filter", "f", nil, "Location or property type id to select (repeatable)")
	f.StringVar(&searchOpts.text, "text", "", "Free-text filter on title and location")
	f.Float64Var(&searchOpts.minPrice, "min-price", 0, "Minimum price in euros")
	f.Float64Var(&searchOpts.maxPrice, "max-price", 0, "Maximum price in euros (0 = no limit)")
	f.StringVar(&searchOpts.sort, "sort", "", "Sort: price-asc, price-desc, savedDate, recent, title")
	f.BoolVar(&searchOpts.csv, "csv", false, "Also export the listing to CSV_OUTPUT_PATH")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := current
	session, _, err := a.openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	printResults(out, session.Evaluate(query))

	for _, id := range searchOpts.filters {
		if _, err := session.SelectByID(id); err != nil {
			return err
		}
	}
	if searchOpts.minPrice > 0 || searchOpts.maxPrice > 0 {
		session.OnPriceRangeChange(searchOpts.minPrice, searchOpts.maxPrice)
	}
	if searchOpts.text != "" {
		session.OnQuerySubmit(searchOpts.text)
	}
	listing := session.OnSortChange(services.SortKey(searchOpts.sort))

	if chips := session.Selections(); len(chips) > 0 {
		labels := make([]string, len(chips))
		for i, c := range chips {
			labels[i] = c.Label
		}
		fmt.Fprintf(out, "\nFilters: %s\n", strings.Join(labels, " · "))
	}
	fmt.Fprintf(out, "\n%d properties\n", len(listing))
	if err := printListing(out, listing); err != nil {
		return err
	}

	if searchOpts.csv {
		if err := exportCSV(a.cfg.CSVOutputPath, listing); err != nil {
			return err
		}
		a.logger.Info("[search] Listing exported to %s", a.cfg.CSVOutputPath)
	}
	return nil
}

func printResults(w io.Writer, res *models.CategorizedResults) {
	switch {
	case res.NoResults:
		fmt.Fprintf(w, "No results for %q.\n", res.Query)
		if len(res.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(res.Suggestions, ", "))
		}
		return
	case res.Total() == 0:
		return
	}

	section := func(title string, cands []models.SearchCandidate) {
		if len(cands) == 0 {
			return
		}
		fmt.Fprintf(w, "%s\n", title)
		for _, c := range cands {
			star := ""
			if c.Popular {
				star = " ★"
			}
			switch {
			case c.Category == models.CandidateRecent:
				fmt.Fprintf(w, "  %s\n", c.Label)
			case c.Region != "" && c.Region != c.Label:
				fmt.Fprintf(w, "  %-20s %s (%s)%s\n", c.ID, c.Label, c.Region, star)
			default:
				fmt.Fprintf(w, "  %-20s %s%s\n", c.ID, c.Label, star)
			}
		}
	}
	section("Locations", res.Locations)
	section("Property types", res.PropertyTypes)
	section("Recent searches", res.Recent)
}

func printListing(w io.Writer, props []*models.Property) error {
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		beach := "-"
		if p.BeachDistance != nil {
			beach = strconv.FormatFloat(*p.BeachDistance, 'f', 0, 64) + " m"
		}
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.Location,
			p.Type,
			"€" + services.FormatEuro(p.Price),
			strconv.Itoa(p.Bedrooms),
			strconv.FormatFloat(p.Area, 'f', 0, 64),
			beach,
			string(p.Status),
		})
	}
	return utils.RenderTable(w, []string{"ID", "Title", "Location", "Type", "Price", "Beds", "m²", "Beach", "Status"}, rows)
}
