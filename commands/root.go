package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	taxonomyPath  string
	catalogSource string

	current *app
)

var rootCmd = &cobra.Command{
	Use:   "property-search",
	Short: "Search, filter and compare Cape Verde property listings",
	Long: `property-search runs the listing search pipeline from the command line:
categorized search suggestions, filter chips, sorting, side-by-side
comparison, persisted search history and the listing importer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	err := NewRootCmd().Execute()
	if current != nil {
		current.close()
	}
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd registers flags and subcommands on the root command.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().StringVar(&taxonomyPath, "taxonomy", "", "Path to a taxonomy TOML file (default: built-in Cape Verde taxonomy)")
	rootCmd.PersistentFlags().StringVar(&catalogSource, "catalog", "", "Catalog source: json or postgres (default: CATALOG_SOURCE)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(insightsCmd)

	return rootCmd
}
