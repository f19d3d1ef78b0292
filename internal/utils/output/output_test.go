package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() ([]string, []models.Record, map[string]models.Value) {
	columns := []string{"name", "premium", "time_scraped"}
	records := []models.Record{
		{Fields: []models.Field{
			{Name: "name", Value: models.String("Jane, \"JD\" Doe")},
			{Name: "premium", Value: models.Bool(true)},
			{Name: "time_scraped", Value: models.Int(1700000000000)},
		}},
		{Fields: []models.Field{
			{Name: "name", Value: models.String("Ada")},
		}},
	}
	defaults := map[string]models.Value{"premium": models.Bool(false)}
	return columns, records, defaults
}

func TestWriteCSV(t *testing.T) {
	columns, records, defaults := sampleRecords()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, columns, records, defaults); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "name,premium,time_scraped\n" +
		"\"Jane, \"\"JD\"\" Doe\",true,1700000000000\n" +
		"Ada,false,\n"
	if buf.String() != want {
		t.Errorf("unexpected csv:\nwant=%q\ngot=%q", want, buf.String())
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"a", "b"}, nil, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.String() != "a,b\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	columns, records, defaults := sampleRecords()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, columns, records, defaults); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	want := []map[string]any{
		{"name": "Jane, \"JD\" Doe", "premium": true, "time_scraped": float64(1700000000000)},
		{"name": "Ada", "premium": false, "time_scraped": ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Keys follow column order rather than alphabetical order.
	out := buf.String()
	if bytes.Index([]byte(out), []byte(`"premium"`)) > bytes.Index([]byte(out), []byte(`"time_scraped"`)) {
		t.Errorf("column order not preserved:\n%s", out)
	}

	buf.Reset()
	if err := WriteJSON(&buf, columns, nil, nil); err != nil {
		t.Fatalf("WriteJSON empty: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty export = %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	columns, records, defaults := sampleRecords()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "", columns, records, defaults); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(DefaultSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], columns) {
		t.Errorf("header = %q", rows[0])
	}
	if rows[1][0] != "Jane, \"JD\" Doe" || rows[2][0] != "Ada" {
		t.Errorf("names = %q, %q", rows[1][0], rows[2][0])
	}

	ts, err := f.GetCellValue(DefaultSheet, "C2", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if ts != "1700000000000" {
		t.Errorf("time_scraped cell = %q", ts)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"csv": FormatCSV, "XLSX": FormatXLSX, "excel": FormatXLSX, " json ": FormatJSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("parquet"); err == nil {
		t.Error("expected error for parquet")
	}
}
