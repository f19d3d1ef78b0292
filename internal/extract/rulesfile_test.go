package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// TestLoadRulesFile verifies a rules file round trips into a working extractor.
func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "rules.json")
	doc := `{
		"fragment_selector": "ol > li",
		"rules": [
			{"name": "name", "selector": "a", "extract": "text"},
			{"name": "link", "selector": "a", "extract": "attr", "attr": "href",
			 "replace_old": "/talent/profile/", "replace_new": "/in/"},
			{"name": "tags", "selector": "p", "policy": "all", "extract": "join", "separator": "; "},
			{"name": "premium", "selector": "li-icon", "policy": "presence"}
		]
	}`
	if err := os.WriteFile(p, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	rf, err := LoadRulesFile(p)
	if err != nil {
		t.Fatalf("LoadRulesFile: %v", err)
	}
	if rf.Ruleset().Len() != 4 {
		t.Fatalf("expected 4 rules, got %d", rf.Ruleset().Len())
	}

	records, err := rf.PageExtractor(zerolog.Nop()).ExtractHTML(
		`<ol><li><a href="/talent/profile/42">Ada</a><p>x</p><p>y</p><li-icon></li-icon></li></ol>`)
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	want := map[string]string{"name": "Ada", "link": "/in/42", "tags": "x; y", "premium": "true"}
	for field, w := range want {
		v, ok := records[0].Get(field)
		if !ok || v.String() != w {
			t.Errorf("%s = %q, want %q", field, v.String(), w)
		}
	}
}

func TestParseRulesFileErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"invalid json":       `{`,
		"no fragment":        `{"rules":[{"name":"a"}]}`,
		"no rules":           `{"fragment_selector":"li","rules":[]}`,
		"unknown policy":     `{"fragment_selector":"li","rules":[{"name":"a","policy":"some"}]}`,
		"unknown extract":    `{"fragment_selector":"li","rules":[{"name":"a","extract":"xpath"}]}`,
		"attr without name":  `{"fragment_selector":"li","rules":[{"name":"a","extract":"attr"}]}`,
		"duplicate field":    `{"fragment_selector":"li","rules":[{"name":"a"},{"name":"a"}]}`,
		"malformed selector": `{"fragment_selector":"li","rules":[{"name":"a","selector":"a["}]}`,
		"malformed fragment": `{"fragment_selector":"li[","rules":[{"name":"n","selector":"a"}]}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRulesFile([]byte(doc)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
