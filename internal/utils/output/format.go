// Package output writes extracted records to tabular export files.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/law-makers/leadcrawl/pkg/models"
)

// Format is an export file format
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
	FormatJSON
)

// ParseFormat accepts csv, xlsx (or excel) and json
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown format %q (must be csv, xlsx or json)", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatJSON:
		return "json"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format, without a dot
func (f Format) Extension() string {
	return f.String()
}

// Write encodes records in format f
func Write(w io.Writer, f Format, columns []string, records []models.Record, defaults map[string]models.Value) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, DefaultSheet, columns, records, defaults)
	case FormatJSON:
		return WriteJSON(w, columns, records, defaults)
	default:
		return WriteCSV(w, columns, records, defaults)
	}
}
