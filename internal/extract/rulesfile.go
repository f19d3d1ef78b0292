package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog"
)

// RuleSpec is the JSON form of a Rule
type RuleSpec struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Policy   string `json:"policy"`
	Index    int    `json:"index"`
	// Extract is one of text, attr, first_content or join.
	Extract    string   `json:"extract"`
	Attr       string   `json:"attr"`
	ReplaceOld string   `json:"replace_old"`
	ReplaceNew string   `json:"replace_new"`
	Separator  string   `json:"separator"`
	SkipTags   []string `json:"skip_tags"`
}

// RulesFile describes a complete page layout: where the fragments are and
// which fields to pull out of each
type RulesFile struct {
	FragmentSelector string     `json:"fragment_selector"`
	Rules            []RuleSpec `json:"rules"`

	ruleset *Ruleset
}

// LoadRulesFile reads and validates a JSON rules file
func LoadRulesFile(path string) (*RulesFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRulesFile(b)
}

// ParseRulesFile validates a JSON rules document
func ParseRulesFile(b []byte) (*RulesFile, error) {
	var rf RulesFile
	if err := json.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("parse rules json: %w", err)
	}

	if rf.FragmentSelector == "" {
		return nil, errors.New("rules file has no fragment_selector")
	}
	if _, err := cascadia.Compile(rf.FragmentSelector); err != nil {
		return nil, fmt.Errorf("fragment_selector %q: %w", rf.FragmentSelector, err)
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("rules file has no rules")
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for _, spec := range rf.Rules {
		r, err := spec.rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	rs, err := NewRuleset(rules...)
	if err != nil {
		return nil, err
	}
	rf.ruleset = rs
	return &rf, nil
}

// Locator returns the fragment locator described by the file
func (rf *RulesFile) Locator() Locator {
	return Locator{Selector: rf.FragmentSelector}
}

// Ruleset returns the validated ruleset described by the file
func (rf *RulesFile) Ruleset() *Ruleset {
	return rf.ruleset
}

// PageExtractor builds an extractor for the layout described by the file
func (rf *RulesFile) PageExtractor(logger zerolog.Logger) *PageExtractor {
	return NewPageExtractor(rf.Locator(), rf.ruleset, logger)
}

func (s RuleSpec) rule() (Rule, error) {
	policy, err := ParsePolicy(s.Policy)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", s.Name, err)
	}

	r := Rule{
		Name:     s.Name,
		Selector: s.Selector,
		Policy:   policy,
		Index:    s.Index,
	}
	if policy == PolicyPresence {
		return r, nil
	}

	var fn ExtractFunc
	switch s.Extract {
	case "", "text":
		fn = Text
	case "first_content":
		fn = FirstContent
	case "attr":
		if s.Attr == "" {
			return Rule{}, fmt.Errorf("rule %q: attr extract needs an attr", s.Name)
		}
		fn = Attr(s.Attr)
	case "join":
		fn = JoinContents(s.Separator, s.SkipTags...)
	default:
		return Rule{}, fmt.Errorf("rule %q: unknown extract %q", s.Name, s.Extract)
	}

	if s.ReplaceOld != "" {
		fn = Replace(fn, s.ReplaceOld, s.ReplaceNew)
	}
	r.Extract = fn
	return r, nil
}
