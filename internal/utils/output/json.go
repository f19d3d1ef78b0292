package output

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/law-makers/leadcrawl/pkg/models"
)

// WriteJSON writes records as an indented JSON array of objects whose keys
// follow the column order. Booleans and timestamps keep their JSON types.
func WriteJSON(w io.Writer, columns []string, records []models.Record, defaults map[string]models.Value) error {
	keys := make([][]byte, len(columns))
	for i, col := range columns {
		k, err := json.Marshal(col)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	var buf bytes.Buffer
	buf.WriteString("[")
	for n, rec := range records {
		if n > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for i, v := range Row(rec, columns, defaults) {
			if i > 0 {
				buf.WriteString(",")
			}
			val, err := json.Marshal(v.Interface())
			if err != nil {
				return err
			}
			buf.WriteString("\n    ")
			buf.Write(keys[i])
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("\n  }")
	}
	if len(records) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}
