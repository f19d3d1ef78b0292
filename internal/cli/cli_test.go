package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/law-makers/leadcrawl/pkg/models"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{"recruiter", "salesnav", "visit", "extract", "login", "sessions"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}

	for _, flag := range []string{"search-url", "wait-between-pages", "save-format", "no-pause", "start", "end"} {
		if recruiterCmd.Flags().Lookup(flag) == nil {
			t.Errorf("recruiter is missing --%s", flag)
		}
	}
	for _, flag := range []string{"start-page", "end-page", "preview"} {
		if salesNavCmd.Flags().Lookup(flag) == nil {
			t.Errorf("salesnav is missing --%s", flag)
		}
	}
}

func TestWrapText(t *testing.T) {
	text := "one two three four five\n\n- a bullet that is long enough to wrap but must not"
	got := wrapText(text, 10)
	want := "one two\nthree four\nfive\n\n- a bullet that is long enough to wrap but must not"
	if got != want {
		t.Errorf("wrapText =\n%q\nwant\n%q", got, want)
	}
}

func TestPrintFlags(t *testing.T) {
	var buf bytes.Buffer
	printFlagsTo(&buf, "      --end int   Last page to export (default 1)\n")
	out := buf.String()
	if !strings.Contains(out, "--end int") || !strings.Contains(out, "Last page to export (default 1)") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderPreview(t *testing.T) {
	columns := []string{"name", "linkedin_url"}
	records := []models.Record{
		{Fields: []models.Field{{Name: "name", Value: models.String("Ada Lovelace")}, {Name: "linkedin_url", Value: models.String("https://www.linkedin.com/in/ada")}}},
		{Fields: []models.Field{{Name: "name", Value: models.String("Grace Hopper")}}},
		{Fields: []models.Field{{Name: "name", Value: models.String("Alan Turing")}}},
	}
	defaults := map[string]models.Value{"linkedin_url": models.String("")}

	var buf bytes.Buffer
	renderPreview(&buf, columns, records, defaults, 2)
	out := buf.String()
	if !strings.Contains(strings.ToLower(out), "1 more") {
		t.Errorf("preview is missing the remainder footer:\n%s", out)
	}
	for _, want := range []string{"Ada Lovelace", "Grace Hopper"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Alan Turing") {
		t.Errorf("preview shows more than 2 records:\n%s", out)
	}

	buf.Reset()
	renderPreview(&buf, columns, nil, defaults, 5)
	if buf.Len() != 0 {
		t.Errorf("empty preview rendered %q", buf.String())
	}
}

func TestWaitForEnter(t *testing.T) {
	old := stdin
	defer func() { stdin = old }()

	stdin = strings.NewReader("\n")
	if err := waitForEnter(context.Background(), "press Enter"); err != nil {
		t.Errorf("waitForEnter: %v", err)
	}

	stdin = blockingReader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitForEnter(ctx, "press Enter"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
