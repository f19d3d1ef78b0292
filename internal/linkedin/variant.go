package linkedin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/law-makers/leadcrawl/internal/extract"
	urlutil "github.com/law-makers/leadcrawl/internal/utils/url"
)

// ResultsPerPage is the number of Recruiter results LinkedIn shows per page
const ResultsPerPage = 25

// Variant is one of the supported search products
type Variant int

const (
	Recruiter Variant = iota
	SalesNavigator
)

// ParseVariant accepts the names used on the command line
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "recruiter", "lkr":
		return Recruiter, nil
	case "salesnav", "sales-navigator", "lksn":
		return SalesNavigator, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (must be recruiter or salesnav)", s)
	}
}

func (v Variant) String() string {
	switch v {
	case Recruiter:
		return "recruiter"
	case SalesNavigator:
		return "salesnav"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// PageParam is the query parameter that selects a result page
func (v Variant) PageParam() string {
	if v == Recruiter {
		return "start"
	}
	return "page"
}

// Locator finds the result fragments of the variant
func (v Variant) Locator() extract.Locator {
	if v == Recruiter {
		return extract.Locator{Selector: RecruiterResultSelector}
	}
	return extract.Locator{Selector: SalesNavigatorResultSelector}
}

// Rules returns the extraction ruleset of the variant
func (v Variant) Rules(now func() time.Time) *extract.Ruleset {
	if v == Recruiter {
		return RecruiterRules()
	}
	return SalesNavigatorRules(now)
}

// ScrollScript is run on every page to trigger lazy loading
func (v Variant) ScrollScript() string {
	if v == Recruiter {
		return RecruiterScrollScript
	}
	return SalesNavigatorScrollScript
}

// Prefix names backup snapshots of the variant
func (v Variant) Prefix() string {
	if v == Recruiter {
		return "lk_recruiter_search_export"
	}
	return "lk_salesnav_search_export"
}

// ExportPrefix names the final export of the variant
func (v Variant) ExportPrefix() string {
	if v == Recruiter {
		return "lk_r_export"
	}
	return "lk_salesnav_export"
}

// Pages lists the page numbers first through last, inclusive
func (v Variant) Pages(first, last int) []int {
	if first < 1 {
		first = 1
	}
	if last < first {
		return nil
	}
	pages := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}

// BaseURL strips any page selection from a search URL
func (v Variant) BaseURL(searchURL string) (string, error) {
	return urlutil.RemoveParameter(searchURL, v.PageParam())
}

// PageURL builds the URL of page p (1-based) from a base search URL.
// Recruiter pages by result offset, Sales Navigator by page number. A page
// parameter left in base is replaced.
func (v Variant) PageURL(base string, p int) (string, error) {
	value := p
	if v == Recruiter {
		value = (p - 1) * ResultsPerPage
	}
	return urlutil.SetParameter(base, v.PageParam(), strconv.Itoa(value))
}

// AbsoluteURL turns a LinkedIn link from a page or an export into an
// absolute URL. Site-relative paths such as "/in/abc" resolve against
// SiteURL, anything else must already be a valid http(s) URL.
func AbsoluteURL(href string) (string, error) {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		href = urlutil.ResolveURL(SiteURL, href)
	}
	if err := urlutil.ValidateURL(href); err != nil {
		return "", err
	}
	return href, nil
}
