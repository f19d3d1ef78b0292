// Package sink accumulates the records of a run and protects them with a
// snapshot file after every page.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/law-makers/leadcrawl/internal/utils/output"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

// maxNameAttempts bounds the suffixes tried when a snapshot name is taken
const maxNameAttempts = 100

// Options configures an Accumulator
type Options struct {
	// Columns is the column order of snapshots and exports.
	Columns  []string
	Defaults map[string]models.Value
	// Dir receives snapshots. An empty Dir disables snapshots.
	Dir string
	// ExportDir receives the final export. It defaults to Dir.
	ExportDir      string
	Prefix         string
	ExportPrefix   string
	SnapshotFormat output.Format
	Now            func() time.Time
	Logger         zerolog.Logger
}

// Accumulator is the in-memory record set of a run
type Accumulator struct {
	opts    Options
	records []models.Record
}

// New creates an empty Accumulator
func New(opts Options) *Accumulator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = opts.Dir
	}
	if opts.ExportPrefix == "" {
		opts.ExportPrefix = opts.Prefix
	}
	return &Accumulator{opts: opts}
}

// Append adds records in order
func (a *Accumulator) Append(records []models.Record) {
	a.records = append(a.records, records...)
}

// Records returns a copy of everything accumulated so far
func (a *Accumulator) Records() []models.Record {
	out := make([]models.Record, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of accumulated records
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Snapshot writes the whole accumulated set after page pageIndex of
// pageCount (1-based). Existing files are never overwritten. With snapshots
// disabled it returns an empty path and no error.
func (a *Accumulator) Snapshot(pageIndex, pageCount int) (string, error) {
	if a.opts.Dir == "" {
		return "", nil
	}

	records := a.Records()
	name := fmt.Sprintf("%d_%s_%d_on_%d", a.opts.Now().UnixMilli(), a.opts.Prefix, pageIndex, pageCount)
	path, err := a.write(a.opts.Dir, name, a.opts.SnapshotFormat, records)
	if err != nil {
		return "", fmt.Errorf("snapshot after page %d/%d: %w", pageIndex, pageCount, err)
	}

	a.opts.Logger.Debug().
		Str("path", path).
		Int("records", len(records)).
		Msg("Wrote snapshot")
	return path, nil
}

// Finalize writes the final export in format f
func (a *Accumulator) Finalize(f output.Format) (string, error) {
	dir := a.opts.ExportDir
	if dir == "" {
		dir = "."
	}

	records := a.Records()
	name := fmt.Sprintf("%d_%s", a.opts.Now().UnixMilli(), a.opts.ExportPrefix)
	path, err := a.write(dir, name, f, records)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	a.opts.Logger.Info().
		Str("path", path).
		Int("records", len(records)).
		Msg("Saved export")
	return path, nil
}

func (a *Accumulator) write(dir, name string, f output.Format, records []models.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	file, path, err := createExclusive(dir, name, f.Extension())
	if err != nil {
		return "", err
	}

	if err := output.Write(file, f, a.opts.Columns, records, a.opts.Defaults); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// createExclusive creates dir/name.ext, trying name-1.ext, name-2.ext and so
// on while the name is taken
func createExclusive(dir, name, ext string) (*os.File, string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		base := name
		if i > 0 {
			base = fmt.Sprintf("%s-%d", name, i)
		}
		path := filepath.Join(dir, base+"."+ext)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free file name for %s.%s", name, ext)
}
