package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable draws rows under headers. Rows are cut or padded to the header
// width; columns without an alignment are left-aligned.
func renderTable(headers []string, rows [][]string, aligns []text.Align) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(tableRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(tableRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if i < len(aligns) {
			configs[i].Align = aligns[i]
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func tableRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}
