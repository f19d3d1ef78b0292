package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/leadcrawl/internal/utils/output"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

func rec(name string) models.Record {
	return models.Record{Fields: []models.Field{{Name: "name", Value: models.String(name)}}}
}

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func newTestAccumulator(dir string) *Accumulator {
	return New(Options{
		Columns: []string{"name", "premium"},
		Defaults: map[string]models.Value{
			"name":    models.String(""),
			"premium": models.Bool(false),
		},
		Dir:    dir,
		Prefix: "lk_recruiter_search_export",
		Now:    fixedClock,
		Logger: zerolog.Nop(),
	})
}

func TestAppendPreservesOrder(t *testing.T) {
	a := newTestAccumulator("")
	a.Append([]models.Record{rec("a"), rec("b")})
	a.Append(nil)
	a.Append([]models.Record{rec("c")})

	got := a.Records()
	if len(got) != 3 || a.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if v, _ := got[i].Get("name"); v.Str != want {
			t.Errorf("record %d = %q, want %q", i, v.Str, want)
		}
	}

	got[0] = rec("mutated")
	if v, _ := a.Records()[0].Get("name"); v.Str != "a" {
		t.Error("Records() must return a copy")
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	a := newTestAccumulator(dir)
	a.Append([]models.Record{rec("a")})

	path, err := a.Snapshot(1, 3)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if want := filepath.Join(dir, "1700000000000_lk_recruiter_search_export_1_on_3.csv"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(b) != "name,premium\na,false\n" {
		t.Errorf("snapshot content = %q", b)
	}

	// A second snapshot with the same name must not overwrite the first.
	a.Append([]models.Record{rec("b")})
	second, err := a.Snapshot(1, 3)
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if second == path || !strings.HasSuffix(second, "_1_on_3-1.csv") {
		t.Errorf("second snapshot path = %q", second)
	}
	if b, _ := os.ReadFile(path); string(b) != "name,premium\na,false\n" {
		t.Errorf("first snapshot was modified: %q", b)
	}
}

func TestSnapshotDisabled(t *testing.T) {
	a := newTestAccumulator("")
	a.Append([]models.Record{rec("a")})

	path, err := a.Snapshot(1, 1)
	if err != nil || path != "" {
		t.Errorf("Snapshot() = %q, %v; want empty path and nil error", path, err)
	}
}

func TestSnapshotFailureKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The snapshot directory is a regular file, so it cannot be created.
	a := newTestAccumulator(filepath.Join(blocker, "backups"))
	a.Append([]models.Record{rec("a"), rec("b")})

	if _, err := a.Snapshot(1, 2); err == nil {
		t.Fatal("expected error")
	}
	if a.Len() != 2 {
		t.Errorf("records lost after failed snapshot: %d", a.Len())
	}
}

func TestFinalize(t *testing.T) {
	dir := t.TempDir()
	a := New(Options{
		Columns:      []string{"name"},
		Dir:          filepath.Join(dir, "backups"),
		ExportDir:    dir,
		Prefix:       "lk_salesnav_search_export",
		ExportPrefix: "lk_salesnav_export",
		Now:          fixedClock,
	})
	a.Append([]models.Record{rec("a")})

	path, err := a.Finalize(output.FormatJSON)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if want := filepath.Join(dir, "1700000000000_lk_salesnav_export.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), `"name": "a"`) {
		t.Errorf("export content = %s", b)
	}
}
