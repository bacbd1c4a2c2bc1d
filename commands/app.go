package commands

import (
	"fmt"

	"property-search/config"
	"property-search/models"
	"property-search/services"
	"property-search/storage"
	"property-search/utils"
)

// app holds what every subcommand needs. It is built once per invocation
// in the root command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	tax    *config.Taxonomy

	closers []func() error
}

func newApp() (*app, error) {
	logger := utils.NewLogger()
	cfg := config.Load()
	if taxonomyPath != "" {
		cfg.TaxonomyPath = taxonomyPath
	}
	if catalogSource != "" {
		cfg.CatalogSource = catalogSource
	}

	tax, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("[app] Taxonomy: %d locations, %d property types, %d feature groups",
		len(tax.Locations), len(tax.PropertyTypes), len(tax.FeatureGroups))

	return &app{cfg: cfg, logger: logger, tax: tax}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("[app] Close failed: %v", err)
		}
	}
	a.closers = nil
}

// catalogBackend opens the configured catalog. Both backends accept writes
// from the importer.
type catalogBackend interface {
	storage.Catalog
	storage.PropertyWriter
}

func (a *app) openCatalog() (catalogBackend, error) {
	switch a.cfg.CatalogSource {
	case "json", "":
		return storage.NewJSONCatalog(a.cfg.CatalogPath), nil
	case "postgres":
		pc, err := storage.NewPostgresCatalog(a.cfg.DSN(), a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pc.Close)
		return pc, nil
	default:
		return nil, fmt.Errorf("app: unknown catalog source %q (want json or postgres)", a.cfg.CatalogSource)
	}
}

func (a *app) loadCatalog() ([]*models.Property, error) {
	c, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	props, err := c.Properties()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("[app] Loaded %d properties from %s catalog", len(props), a.cfg.CatalogSource)
	return props, nil
}

func (a *app) openHistory() (*services.HistoryService, error) {
	store, err := storage.NewBuntStore(a.cfg.StorePath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return services.NewHistoryService(store, a.logger, services.WithHistoryLimit(a.cfg.HistoryLimit)), nil
}

// openSession wires a full search session over the catalog.
func (a *app) openSession() (*services.Session, *services.HistoryService, error) {
	catalog, err := a.loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	history, err := a.openHistory()
	if err != nil {
		return nil, nil, err
	}

	index := services.NewSearchIndex(a.tax)
	session := services.NewSession(services.SessionDeps{
		Catalog:   catalog,
		Index:     index,
		Matcher:   services.NewMatcher(index, history, a.logger),
		History:   history,
		Pipeline:  services.NewPipeline(a.cfg.SortLocale),
		Comparer:  services.NewComparer(a.tax.FeatureGroups),
		Debouncer: utils.NewDebouncer(a.cfg.DebounceDelay, nil),
		Logger:    a.logger,
	})
	return session, history, nil
}

// exportCSV writes properties to a fresh CSV file at path. A failure to
// flush or close the file is reported.
func exportCSV(path string, properties []*models.Property) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteProperties(properties); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("csv: close %s: %w", path, err)
	}
	return nil
}
