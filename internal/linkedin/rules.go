package linkedin

import (
	"regexp"
	"strings"
	"time"

	"github.com/law-makers/leadcrawl/internal/extract"
)

// RecruiterRules describes one Recruiter result card
func RecruiterRules() *extract.Ruleset {
	return extract.MustRuleset(
		extract.Rule{Name: "name", Selector: recruiterNameSelector, Extract: extract.Text},
		extract.Rule{Name: "recruiter_link", Selector: recruiterNameSelector, Extract: extract.Attr("href")},
		extract.Rule{Name: "linkedin_link", Selector: recruiterNameSelector, Extract: extract.AttrReplace("href", "/talent/profile/", "/in/")},
		extract.Rule{Name: "role", Selector: recruiterRoleSelector, Extract: extract.Text},
		extract.Rule{Name: "location", Selector: recruiterLocationSelector, Extract: extract.Text},
		extract.Rule{Name: "industry", Selector: recruiterIndustrySelector, Extract: extract.Text},
		extract.Rule{Name: "education", Selector: recruiterEducationSelector, Extract: extract.Text},
		extract.Rule{Name: "education_year", Selector: recruiterEducationYearSelector, Extract: extract.Text},
		extract.Rule{Name: "skill_match", Selector: recruiterSkillMatchSelector, Extract: extract.Text},
	)
}

// SalesNavigatorRules describes one Sales Navigator result. now stamps
// every record with the time it was scraped.
func SalesNavigatorRules(now func() time.Time) *extract.Ruleset {
	return extract.MustRuleset(
		extract.Rule{Name: "name", Selector: salesNameSelector, Extract: extract.FirstContent},
		extract.Rule{Name: "link_to_profile", Selector: salesNameSelector, Extract: extract.Attr("href")},
		extract.Rule{Name: "connection_level", Selector: salesDegreeSelector, Extract: extract.Map(extract.FirstContent, stripDegreeDot)},
		extract.Rule{Name: "has_linkedin_premium", Selector: salesPremiumSelector, Policy: extract.PolicyPresence},
		extract.Rule{Name: "role_name", Selector: salesRoleSelector, Extract: extract.FirstContent},
		extract.Rule{Name: "link_to_company", Selector: salesCompanySelector, Extract: extract.Attr("href")},
		extract.Rule{Name: "company_name", Selector: salesCompanySelector, Extract: extract.FirstContent},
		extract.Rule{Name: "time_in_company", Selector: salesMetadataSelector, Extract: extract.JoinContents(" | ", "span")},
		extract.Rule{Name: "additional_info", Selector: salesAdditionalSelector, Index: 1, Extract: extract.JoinContents(" | ", "span", "button")},
		extract.Rule{Name: "time_scraped", Extract: extract.Clock(now)},
		extract.Rule{Name: "linkedin_url", Selector: salesNameSelector, Extract: extract.AttrMap("href", ProfileURLFromLeadURL)},
	)
}

// stripDegreeDot turns "· 2nd" into "2nd"
func stripDegreeDot(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "·"))
}

var leadID = regexp.MustCompile(`(?i)/lead/(.*?),`)

// ProfileURLFromLeadURL converts a Sales Navigator lead permalink into the
// public profile URL. Permalinks without a /lead/ segment have none.
func ProfileURLFromLeadURL(permalink string) (string, bool) {
	m := leadID.FindStringSubmatch(permalink)
	if m == nil {
		return "", false
	}
	return "https://www.linkedin.com/in/" + m[1], true
}
