package commands

import (
	"github.com/spf13/cobra"

	"property-search/services"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print a market summary over the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := current.loadCatalog()
		if err != nil {
			return err
		}
		svc := services.NewInsightService(current.logger)
		svc.Print(cmd.OutOrStdout(), svc.Generate(props))
		return nil
	},
}
