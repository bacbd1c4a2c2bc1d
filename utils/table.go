package utils

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable writes headers and rows as an ASCII table.
func RenderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
