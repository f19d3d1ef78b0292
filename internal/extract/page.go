package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/leadcrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Locator finds the result fragments on a page
type Locator struct {
	Selector string
}

// Locate returns every fragment matching the locator in document order.
// A page without results yields an empty slice.
func (l Locator) Locate(doc *goquery.Document) []*goquery.Selection {
	matches := doc.Find(l.Selector)
	fragments := make([]*goquery.Selection, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		fragments = append(fragments, s)
	})
	return fragments
}

// Count returns the number of fragments present in html. Parse failures
// count as zero.
func (l Locator) Count(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	return doc.Find(l.Selector).Length()
}

// PageExtractor turns a rendered page into records, one per fragment
type PageExtractor struct {
	locator Locator
	rules   *Ruleset
	logger  zerolog.Logger
}

// NewPageExtractor combines a locator and a ruleset
func NewPageExtractor(locator Locator, rules *Ruleset, logger zerolog.Logger) *PageExtractor {
	return &PageExtractor{
		locator: locator,
		rules:   rules,
		logger:  logger,
	}
}

// Locator returns the fragment locator
func (p *PageExtractor) Locator() Locator {
	return p.locator
}

// Ruleset returns the ruleset applied to every fragment
func (p *PageExtractor) Ruleset() *Ruleset {
	return p.rules
}

// Columns returns the output columns in declaration order
func (p *PageExtractor) Columns() []string {
	return p.rules.Names()
}

// ExtractHTML parses html and extracts one record per fragment
func (p *PageExtractor) ExtractHTML(html string) ([]models.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return p.ExtractDocument(doc), nil
}

// ExtractDocument extracts one record per fragment of an already parsed document
func (p *PageExtractor) ExtractDocument(doc *goquery.Document) []models.Record {
	fragments := p.locator.Locate(doc)
	records := make([]models.Record, 0, len(fragments))
	for _, fragment := range fragments {
		records = append(records, p.rules.extract(fragment, p.logger))
	}

	p.logger.Debug().
		Str("selector", p.locator.Selector).
		Int("records", len(records)).
		Msg("Extracted page")

	return records
}
