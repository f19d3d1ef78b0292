package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Apply evaluates a single rule against a result fragment. It never fails:
// a missing match, an out of range index, an extract error or a panic in
// the extract function all produce the rule default.
func Apply(fragment *goquery.Selection, rule Rule) models.Value {
	v, _ := apply(fragment, rule)
	return v
}

// apply is Apply that also reports why the default was used
func apply(fragment *goquery.Selection, rule Rule) (v models.Value, err error) {
	def := rule.DefaultValue()

	defer func() {
		if r := recover(); r != nil {
			v = def
			err = fmt.Errorf("extract %q panicked: %v", rule.Name, r)
		}
	}()

	matches := fragment
	if rule.Selector != "" {
		matches = fragment.Find(rule.Selector)
	}

	switch rule.Policy {
	case PolicyPresence:
		return models.Bool(matches.Length() > 0), nil

	case PolicyAll:
		out, err := rule.Extract(matches)
		if err != nil {
			return def, err
		}
		return out, nil

	default:
		if rule.Index >= matches.Length() {
			return def, nil
		}
		out, err := rule.Extract(matches.Eq(rule.Index))
		if err != nil {
			return def, err
		}
		return out, nil
	}
}

// Extract builds one record from a fragment, one field per rule in
// declaration order
func (rs *Ruleset) Extract(fragment *goquery.Selection) models.Record {
	return rs.extract(fragment, zerolog.Nop())
}

func (rs *Ruleset) extract(fragment *goquery.Selection, logger zerolog.Logger) models.Record {
	rec := models.Record{Fields: make([]models.Field, len(rs.rules))}
	for i, r := range rs.rules {
		v, err := apply(fragment, r)
		if err != nil {
			logger.Debug().Err(err).Str("field", r.Name).Msg("Using default value")
		}
		rec.Fields[i] = models.Field{Name: r.Name, Value: v}
	}
	return rec
}
