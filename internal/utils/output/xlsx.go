package output

import (
	"fmt"
	"io"

	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used for exports
const DefaultSheet = "Sheet1"

// WriteXLSX writes records into a single worksheet with a header row
func WriteXLSX(w io.Writer, sheet string, columns []string, records []models.Record, defaults map[string]models.Value) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for n, rec := range records {
		cells := Row(rec, columns, defaults)
		row := make([]interface{}, len(cells))
		for i, v := range cells {
			row[i] = v.Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", n+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
