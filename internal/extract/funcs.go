package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/leadcrawl/pkg/models"
	"golang.org/x/net/html"
)

var (
	// ErrMissingAttr is returned when the matched node lacks the requested attribute
	ErrMissingAttr = errors.New("attribute not present")
	// ErrNoValue is returned when an extract function has nothing to produce
	ErrNoValue = errors.New("no value")
)

// CleanText replaces non-breaking spaces with plain spaces and trims the result
func CleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// Text yields the cleaned text content of the matched nodes
func Text(sel *goquery.Selection) (models.Value, error) {
	return models.String(CleanText(sel.Text())), nil
}

// FirstContent yields the cleaned text of the first child node (text or
// element) of the match
func FirstContent(sel *goquery.Selection) (models.Value, error) {
	contents := sel.Contents()
	if contents.Length() == 0 {
		return models.Value{}, ErrNoValue
	}
	return models.String(CleanText(contents.First().Text())), nil
}

// Attr yields the trimmed value of an attribute of the first match
func Attr(name string) ExtractFunc {
	return func(sel *goquery.Selection) (models.Value, error) {
		v, ok := sel.Attr(name)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %s", ErrMissingAttr, name)
		}
		return models.String(strings.TrimSpace(v)), nil
	}
}

// AttrReplace yields an attribute with every occurrence of old replaced by new
func AttrReplace(name, old, new string) ExtractFunc {
	return AttrMap(name, func(v string) (string, bool) {
		return strings.ReplaceAll(v, old, new), true
	})
}

// AttrMap yields fn applied to an attribute. When fn reports false the rule
// falls back to its default.
func AttrMap(name string, fn func(string) (string, bool)) ExtractFunc {
	attr := Attr(name)
	return func(sel *goquery.Selection) (models.Value, error) {
		v, err := attr(sel)
		if err != nil {
			return v, err
		}
		out, ok := fn(v.Str)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %s", ErrNoValue, name)
		}
		return models.String(out), nil
	}
}

// Map post-processes the string produced by another extract function
func Map(inner ExtractFunc, fn func(string) string) ExtractFunc {
	return func(sel *goquery.Selection) (models.Value, error) {
		v, err := inner(sel)
		if err != nil {
			return v, err
		}
		if v.Kind != models.KindString {
			return v, nil
		}
		return models.String(fn(v.Str)), nil
	}
}

// JoinContents joins the cleaned text of every child node of the matches
// with sep. Child elements whose markup contains an opening tag listed in
// skipTags are left out, as are pieces that are empty after cleaning.
func JoinContents(sep string, skipTags ...string) ExtractFunc {
	return func(sel *goquery.Selection) (models.Value, error) {
		var parts []string
		sel.Contents().Each(func(_ int, child *goquery.Selection) {
			if skipContent(child, skipTags) {
				return
			}
			if t := CleanText(child.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return models.String(strings.Join(parts, sep)), nil
	}
}

func skipContent(child *goquery.Selection, skipTags []string) bool {
	n := child.Get(0)
	switch n.Type {
	case html.TextNode:
		return false
	case html.ElementNode:
	default:
		return true
	}

	if len(skipTags) == 0 {
		return false
	}
	markup, err := goquery.OuterHtml(child)
	if err != nil {
		return true
	}
	for _, tag := range skipTags {
		if strings.Contains(markup, "<"+tag) {
			return true
		}
	}
	return false
}

// Const always yields v
func Const(v models.Value) ExtractFunc {
	return func(*goquery.Selection) (models.Value, error) {
		return v, nil
	}
}

// Clock yields the current time from now as epoch milliseconds. Injecting
// the clock keeps extraction repeatable in tests.
func Clock(now func() time.Time) ExtractFunc {
	if now == nil {
		now = time.Now
	}
	return func(*goquery.Selection) (models.Value, error) {
		return models.Int(now().UnixMilli()), nil
	}
}

// Replace substitutes old with new in the string produced by inner
func Replace(inner ExtractFunc, old, new string) ExtractFunc {
	return Map(inner, func(s string) string {
		return strings.ReplaceAll(s, old, new)
	})
}
