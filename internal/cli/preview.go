// internal/cli/preview.go
package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/law-makers/leadcrawl/internal/utils/output"
	"github.com/law-makers/leadcrawl/pkg/models"
)

// maxCellWidth keeps long profile links from blowing up the table
const maxCellWidth = 40

// renderPreview prints the first n records as a table
func renderPreview(w io.Writer, columns []string, records []models.Record, defaults map[string]models.Value, n int) {
	if n <= 0 || len(records) == 0 {
		return
	}
	if n > len(records) {
		n = len(records)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, 0, len(columns)+1)
	header = append(header, "#")
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		header = append(header, c)
		configs = append(configs, table.ColumnConfig{Number: i + 2, WidthMax: maxCellWidth})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for i, rec := range records[:n] {
		row := make(table.Row, 0, len(columns)+1)
		row = append(row, i+1)
		for _, v := range output.Row(rec, columns, defaults) {
			row = append(row, v.String())
		}
		t.AppendRow(row)
	}
	if n < len(records) {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(records)-n)})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
