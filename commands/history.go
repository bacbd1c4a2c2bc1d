package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"property-search/services"
	"property-search/utils"
)

var (
	clearHistory bool
	popularLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := current.openHistory()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if clearHistory {
			if err := history.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Search history cleared. Analytics counters are kept.")
			return nil
		}

		entries := history.History()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No recent searches.")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			labels := make([]string, len(e.Selections))
			for i, s := range e.Selections {
				labels[i] = s.Label
			}
			rows = append(rows, []string{
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				string(e.Kind),
				e.Query,
				strings.Join(labels, ", "),
			})
		}
		return utils.RenderTable(out, []string{"When", "Kind", "Query", "Filters"}, rows)
	},
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most selected search candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := current.openHistory()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		ids := history.PopularIDs(popularLimit)
		if len(ids) == 0 {
			fmt.Fprintln(out, "No selections recorded yet.")
			return nil
		}

		counters := history.Counters()
		index := services.NewSearchIndex(current.tax)
		rows := make([][]string, 0, len(ids))
		for i, id := range ids {
			label := id
			if c, ok := index.Lookup(id); ok {
				label = c.Label
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				label,
				strconv.Itoa(counters[services.SelectionCounterKey(id)]),
			})
		}
		return utils.RenderTable(out, []string{"#", "Candidate", "Selected"}, rows)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete the search history")
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", services.PopularCount, "Number of candidates to show")
}
