package output

import (
	"encoding/csv"
	"io"

	"github.com/law-makers/leadcrawl/pkg/models"
)

// WriteCSV writes records as CSV with a header row. Columns come out in the
// given order and fields a record lacks are filled from defaults.
func WriteCSV(w io.Writer, columns []string, records []models.Record, defaults map[string]models.Value) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, rec := range records {
		cells := Row(rec, columns, defaults)
		row := make([]string, len(cells))
		for i, v := range cells {
			row[i] = v.String()
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Row projects rec onto columns, substituting the column default (or an
// empty string) for missing fields
func Row(rec models.Record, columns []string, defaults map[string]models.Value) []models.Value {
	row := make([]models.Value, len(columns))
	for i, col := range columns {
		if v, ok := rec.Get(col); ok {
			row[i] = v
			continue
		}
		if v, ok := defaults[col]; ok {
			row[i] = v
			continue
		}
		row[i] = models.String("")
	}
	return row
}
