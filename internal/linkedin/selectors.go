// Package linkedin holds the LinkedIn specific page layouts: result
// locators, extraction rulesets, pagination parameters and the selectors
// used during sign in.
package linkedin

const (
	SiteURL  = "https://www.linkedin.com/"
	LoginURL = "https://www.linkedin.com/login/"

	UsernameSelector = "#username"
	PasswordSelector = "#password"
	SubmitSelector   = "#organic-div > form > div.login__form_action_container > button"

	// ChallengeMarker appears in the URL when LinkedIn asks for a second factor
	ChallengeMarker = "checkpoint/challenge"

	// ContractSelector picks the first Recruiter contract after sign in
	ContractSelector = "#main > div > div > div:nth-child(3) > form > div > ul > li:nth-child(1) > div > div.contract-list__item-buttons > button"

	// ShowActivitySelector is the "show all activity" link on a profile page
	ShowActivitySelector = "#main > section:nth-child(3) > div.pvs-list__outer-container > div > div > a"
)

// Recruiter search results
const (
	RecruiterResultSelector = "#results-container > span > div > form > ol > li > div > article > div > div > article > div > div.row__card"

	recruiterLockup = "div.row__top-card > section > div > div.artdeco-entity-lockup__content.lockup__content.ember-view"

	recruiterNameSelector          = recruiterLockup + " > span > span:nth-child(1) > div > a"
	recruiterRoleSelector          = recruiterLockup + " > div.artdeco-entity-lockup__subtitle.ember-view"
	recruiterLocationSelector      = recruiterLockup + " > div.lockup__details > div > div"
	recruiterIndustrySelector      = recruiterLockup + " > div.lockup__details > div > span:nth-child(2)"
	recruiterEducationSelector     = "div.history > div:nth-child(2) > ol > li > span:nth-child(1)"
	recruiterEducationYearSelector = "div.history > div:nth-child(2) > ol > li > span.row-description-entry__date-duration"
	recruiterSkillMatchSelector    = "div.row__card > div:nth-child(3) > dl > div:nth-child(1) > dd > div > button"

	RecruiterScrollScript = "window.scrollTo(0, document.body.scrollHeight);"
)

// Sales Navigator search results
const (
	SalesNavigatorResultSelector = "#search-results-container > div > ol > li"

	salesColumn = "div > div > div.flex.justify-space-between.full-width > div.flex.flex-column"
	salesLockup = salesColumn + " > div.mb3 > div > div.artdeco-entity-lockup__content.ember-view"

	salesNameSelector       = salesLockup + " > div.flex.flex-wrap.align-items-center > div.artdeco-entity-lockup__title.ember-view > a"
	salesDegreeSelector     = salesLockup + " > div.flex.flex-wrap.align-items-center > div.artdeco-entity-lockup__badge.ember-view.ml1 > span.artdeco-entity-lockup__degree"
	salesPremiumSelector    = salesLockup + " > div.inline-flex > div > li-icon"
	salesRoleSelector       = salesLockup + " > div.artdeco-entity-lockup__subtitle.ember-view.t-14 > span"
	salesCompanySelector    = salesLockup + " > div.artdeco-entity-lockup__subtitle.ember-view.t-14 > a"
	salesMetadataSelector   = salesLockup + " > div.artdeco-entity-lockup__metadata.ember-view"
	salesAdditionalSelector = salesColumn + " > div.ml8.pl1 > dl > div > dd > div > span"

	SalesNavigatorScrollScript = "document.getElementById('search-results-container').scrollTop+=100000;"
)
