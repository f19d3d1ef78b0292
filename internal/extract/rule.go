// Package extract turns rendered result pages into records.
//
// A Ruleset is an ordered list of Rules. Each Rule names one output column,
// addresses nodes inside a single result fragment with a CSS selector and
// converts the matched nodes into a Value. The interpreter is total: every
// rule yields a value for every fragment, falling back to the rule default
// when the selector misses or the extract function fails.
package extract

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/leadcrawl/pkg/models"
)

// Value and Record are the cell and row types produced by a Ruleset
type (
	Value  = models.Value
	Record = models.Record
)

// Policy controls how the matched nodes of a rule are handed to its ExtractFunc
type Policy int

const (
	// PolicyFirst extracts from the match at Rule.Index. An index past the
	// end of the matches behaves like no match at all.
	PolicyFirst Policy = iota
	// PolicyAll passes the whole (possibly empty) match set to the ExtractFunc.
	PolicyAll
	// PolicyPresence yields Bool(true) when the selector matches anything.
	// Its default is Bool(false) and it needs no ExtractFunc.
	PolicyPresence
)

func (p Policy) String() string {
	switch p {
	case PolicyFirst:
		return "first"
	case PolicyAll:
		return "all"
	case PolicyPresence:
		return "presence"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts the textual policy used in rules files
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "first":
		return PolicyFirst, nil
	case "all":
		return PolicyAll, nil
	case "presence":
		return PolicyPresence, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (must be first, all or presence)", s)
	}
}

// ExtractFunc converts matched nodes into a value. Returning an error makes
// the rule fall back to its default.
type ExtractFunc func(sel *goquery.Selection) (models.Value, error)

// Rule describes how to produce one field of a record
type Rule struct {
	// Name is the output column. It must be unique within a Ruleset.
	Name string
	// Selector is evaluated relative to the result fragment. An empty
	// selector addresses the fragment itself.
	Selector string
	Policy   Policy
	// Index is the match position used by PolicyFirst.
	Index   int
	Default models.Value
	Extract ExtractFunc
}

// DefaultValue returns the value used when the rule cannot produce one
func (r Rule) DefaultValue() models.Value {
	if r.Default != (models.Value{}) {
		return r.Default
	}
	if r.Policy == PolicyPresence {
		return models.Bool(false)
	}
	return models.String("")
}

// Ruleset is an immutable, ordered collection of rules. Declaration order is
// the column order of every record and export built from it.
type Ruleset struct {
	rules []Rule
	index map[string]int
}

// NewRuleset validates rules and builds a Ruleset from them
func NewRuleset(rules ...Rule) (*Ruleset, error) {
	if len(rules) == 0 {
		return nil, errors.New("ruleset has no rules")
	}

	rs := &Ruleset{
		rules: make([]Rule, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	copy(rs.rules, rules)

	for i, r := range rs.rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i)
		}
		if _, dup := rs.index[r.Name]; dup {
			return nil, fmt.Errorf("rule %q: duplicate field name", r.Name)
		}
		if r.Selector != "" {
			if _, err := cascadia.Compile(r.Selector); err != nil {
				return nil, fmt.Errorf("rule %q: invalid selector: %w", r.Name, err)
			}
		}
		switch r.Policy {
		case PolicyFirst:
			if r.Index < 0 {
				return nil, fmt.Errorf("rule %q: index must be >= 0", r.Name)
			}
			if r.Extract == nil {
				return nil, fmt.Errorf("rule %q: extract function is required", r.Name)
			}
		case PolicyAll:
			if r.Extract == nil {
				return nil, fmt.Errorf("rule %q: extract function is required", r.Name)
			}
		case PolicyPresence:
		default:
			return nil, fmt.Errorf("rule %q: unknown policy %d", r.Name, int(r.Policy))
		}
		rs.index[r.Name] = i
	}

	return rs, nil
}

// MustRuleset is NewRuleset for rules known at compile time
func MustRuleset(rules ...Rule) *Ruleset {
	rs, err := NewRuleset(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the number of rules
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}

// Names returns the field names in declaration order
func (rs *Ruleset) Names() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}

// Defaults maps every field name to the value used when it is missing
func (rs *Ruleset) Defaults() map[string]models.Value {
	defaults := make(map[string]models.Value, len(rs.rules))
	for _, r := range rs.rules {
		defaults[r.Name] = r.DefaultValue()
	}
	return defaults
}
