package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"property-search/scraper/listings"
	"property-search/services"
)

var importCSV bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Scrape LISTINGS_URL in headless Chrome and load the results into the catalog",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importCSV, "csv", false, "Also export the cleaned listings to CSV_OUTPUT_PATH")
}

func runImport(cmd *cobra.Command, args []string) error {
	a := current
	a.logger.Info("=== Listing import starting ===")
	a.logger.Info("Config: pages %d | listings/page %d | concurrency %d | rate %dms",
		a.cfg.PagesToScrape, a.cfg.ListingsPerPage, a.cfg.MaxConcurrency, a.cfg.RateLimitMs)

	catalog, err := a.openCatalog()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw, err := listings.New(a.cfg, a.logger).Scrape(ctx)
	if err != nil {
		if errors.Is(err, listings.ErrNoListingsURL) || len(raw) == 0 {
			return err
		}
		a.logger.Warn("Import stopped early: %v", err)
	}
	if len(raw) == 0 {
		return errors.New("import: no listings were scraped")
	}

	cleaned := services.NewCleaner(a.logger, a.tax).Clean(raw)
	if len(cleaned) == 0 {
		return errors.New("import: all listings were dropped during cleaning")
	}

	if err := catalog.Write(cleaned); err != nil {
		return err
	}
	a.logger.Info("Stored %d properties in the %s catalog", len(cleaned), a.cfg.CatalogSource)

	if importCSV {
		if err := exportCSV(a.cfg.CSVOutputPath, cleaned); err != nil {
			return err
		}
		a.logger.Info("Cleaned listings saved to %s", a.cfg.CSVOutputPath)
	}
	return nil
}
