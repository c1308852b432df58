package scoring

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"readiness-workers/internal/models"
)

// evaluation is the read-only view every rule works from.
type evaluation struct {
	profile      *models.BusinessProfile
	verification *models.VerificationRecord
	signals      *models.SiteSignals
	now          time.Time
	registration registrationStatus
	size         sizeBracket
}

// rule returns the points it awards and the factor explaining them. A nil factor
// means the rule did not apply; its points are then always zero.
type rule func(e *evaluation) (int, *Factor)

func newFactor(label string, points int, evidence string) *Factor {
	impact := ImpactNeutral
	switch {
	case points > 0:
		impact = ImpactPositive
	case points < 0:
		impact = ImpactNegative
	}
	return &Factor{Label: label, Points: points, Impact: impact, Evidence: evidence}
}

func neutralFactor(label string, points int, evidence string) *Factor {
	return &Factor{Label: label, Points: points, Impact: ImpactNeutral, Evidence: evidence}
}

func award(label string, points int, format string, args ...interface{}) (int, *Factor) {
	return points, newFactor(label, points, fmt.Sprintf(format, args...))
}

func skip() (int, *Factor) {
	return 0, nil
}

func parseSize(size string) sizeBracket {
	if models.IsAbsent(size) {
		return sizeUnknown
	}
	for _, s := range sizeKeywords {
		if _, ok := models.ContainsAny(size, s.keywords); ok {
			return s.bracket
		}
	}
	return sizeUnknown
}

func quoteList(items []string) string {
	return strings.Join(items, ", ")
}

// --- Product-Market Fit ---

func targetMarketRule(e *evaluation) (int, *Factor) {
	markets := models.PresentItems(e.profile.TargetMarkets)
	if len(markets) == 0 {
		return award("No Target Market", -10, "No target market has been defined")
	}
	return award("Target Market Defined", 20, "Target market: %s", quoteList(markets))
}

func productDescriptionRule(e *evaluation) (int, *Factor) {
	desc := strings.TrimSpace(e.profile.ProductDescription)
	if models.IsAbsent(desc) {
		desc = ""
	}
	n := len([]rune(desc))
	switch {
	case n > 200:
		return award("Detailed Product Description", 20, "Product description is %d characters long", n)
	case n > 50:
		return award("Basic Product Description", 10, "Product description is %d characters long", n)
	default:
		return award("Limited Product Description", 0, "Product description is %d characters long", n)
	}
}

func highGrowthIndustryRule(e *evaluation) (int, *Factor) {
	if kw, ok := models.ContainsAny(e.profile.Industry, HighGrowthIndustries); ok {
		return award("High-Growth Industry", 15, "Industry %q matches high-growth sector %q", e.profile.Industry, kw)
	}
	return skip()
}

func timelineRule(e *evaluation) (int, *Factor) {
	if models.IsAbsent(e.profile.Timeline) {
		return skip()
	}
	if mentionsTimeline(e.profile.Timeline, NearTermTimelines) {
		return award("Near-Term Market Entry", 10, "Timeline: %s", e.profile.Timeline)
	}
	if mentionsTimeline(e.profile.Timeline, MediumTermTimelines) {
		return award("Medium-Term Market Entry", 5, "Timeline: %s", e.profile.Timeline)
	}
	return skip()
}

// mentionsTimeline matches keywords as whole words and skips negated mentions.
func mentionsTimeline(timeline string, keywords []string) bool {
	words := models.Words(timeline)
	for _, k := range keywords {
		phrase := models.Words(k)
		for i := range words {
			if !models.PhraseAt(words, phrase, i) {
				continue
			}
			if i > 0 && slices.Contains(TimelineNegations, words[i-1]) {
				continue
			}
			return true
		}
	}
	return false
}

func competitiveAdvantageRule(e *evaluation) (int, *Factor) {
	if models.IsAbsent(e.profile.CompetitiveAdvantage) {
		return skip()
	}
	return award("Competitive Advantage", 15, "Competitive advantage stated: %s", e.profile.CompetitiveAdvantage)
}

// --- Regulatory Compatibility ---

type registrationStatus int

const (
	registrationUnknown registrationStatus = iota
	registrationNone
	registrationInProgress
	registrationSelfReported
	registrationVerified
)

func (s registrationStatus) registered() bool {
	return s == registrationVerified || s == registrationSelfReported
}

// IsRegistered reports whether the business counts as UK registered: a verified
// record, or a self-reported "yes". A nil verification reads the profile alone.
func IsRegistered(p *models.BusinessProfile, v *models.VerificationRecord) bool {
	if p == nil {
		p = &models.BusinessProfile{}
	}
	return resolveRegistration(p, v).registered()
}

func resolveRegistration(p *models.BusinessProfile, v *models.VerificationRecord) registrationStatus {
	if v.IsVerified() {
		return registrationVerified
	}
	if models.IsAbsent(p.UKRegistered) {
		return registrationUnknown
	}
	switch answer := models.Normalize(p.UKRegistered); {
	case strings.Contains(answer, "progress") || strings.Contains(answer, "pending"):
		return registrationInProgress
	case strings.HasPrefix(answer, "yes") || answer == "true" || answer == "registered":
		return registrationSelfReported
	default:
		return registrationNone
	}
}

func registrationRule(e *evaluation) (int, *Factor) {
	switch e.registration {
	case registrationVerified:
		age := e.verification.AgeYears
		switch {
		case age >= 2:
			return award("Verified UK Registration", 40, "Registration verified via %s, company age %.1f years", sourceOf(e.verification), age)
		case age >= 1:
			return award("Verified UK Registration", 35, "Registration verified via %s, company age %.1f years", sourceOf(e.verification), age)
		default:
			return award("Verified UK Registration", 30, "Registration verified via %s, company age %.1f years", sourceOf(e.verification), age)
		}
	case registrationSelfReported:
		return award("Self-Reported Registration", 20, "UK registration reported as %q but not independently verified", e.profile.UKRegistered)
	case registrationInProgress:
		return award("Registration In Progress", 5, "UK registration status: %s", e.profile.UKRegistered)
	case registrationNone:
		return award("No UK Registration", -20, "UK registration status: %s", e.profile.UKRegistered)
	default:
		return award("Registration Status Unknown", -10, "UK registration status was not provided")
	}
}

func sourceOf(v *models.VerificationRecord) string {
	if v == nil || models.IsAbsent(v.Source) {
		return "registry lookup"
	}
	return v.Source
}

func legalEntityRule(e *evaluation) (int, *Factor) {
	entity := e.profile.LegalEntityType
	if models.IsAbsent(entity) {
		return skip()
	}
	if _, ok := models.ContainsAny(entity, IncorporatedEntityTypes); ok {
		return award("Appropriate Legal Entity", 15, "Legal entity type: %s", entity)
	}
	if _, ok := models.ContainsAny(entity, UnincorporatedEntityTypes); ok {
		return award("Unincorporated Legal Entity", 8, "Legal entity type: %s", entity)
	}
	return award("Legal Entity Noted", 0, "Legal entity type %q is not a recognised UK structure", entity)
}

const (
	pointsPerComplianceItem = 8
	maxCompliancePoints     = 30
	pointsPerIPItem         = 5
	maxIPPoints             = 15
)

func complianceRule(e *evaluation) (int, *Factor) {
	items := models.PresentItems(e.profile.ComplianceCompleted)
	if len(items) == 0 {
		return award("No Compliance Progress", -10, "No compliance items have been completed")
	}
	points := len(items) * pointsPerComplianceItem
	if points > maxCompliancePoints {
		points = maxCompliancePoints
	}
	return award("Compliance Progress", points, "%d compliance items completed: %s", len(items), quoteList(items))
}

func ipProtectionRule(e *evaluation) (int, *Factor) {
	items := models.PresentItems(e.profile.IPProtection)
	if len(items) == 0 {
		return skip()
	}
	points := len(items) * pointsPerIPItem
	if points > maxIPPoints {
		points = maxIPPoints
	}
	return award("IP Protection", points, "%d IP protections held: %s", len(items), quoteList(items))
}

// --- Digital Readiness ---

func hasWebsite(e *evaluation) bool {
	return !models.IsAbsent(e.profile.WebsiteURL) || e.signals != nil
}

func websitePresenceRule(e *evaluation) (int, *Factor) {
	if !hasWebsite(e) {
		return award("No Website", -15, "No website URL or website analysis was provided")
	}
	url := e.profile.WebsiteURL
	if models.IsAbsent(url) {
		url = "website analysed without URL"
	}
	if e.signals == nil {
		return 10, neutralFactor("Website Present", 10, fmt.Sprintf("Website %s exists but has not been analysed", url))
	}
	return award("Website Present", 10, "Website %s analysed", url)
}

// siteSignalRules award small fixed amounts per extracted website fact. They skip when
// no signals were supplied.
var siteSignalRules = []rule{
	func(e *evaluation) (int, *Factor) {
		if e.signals == nil {
			return skip()
		}
		n := e.signals.ContentLength
		switch {
		case n >= 3000:
			return award("Substantial Website Content", 8, "Website has %d characters of content", n)
		case n >= 1000:
			return award("Moderate Website Content", 5, "Website has %d characters of content", n)
		case n > 0:
			return award("Minimal Website Content", 2, "Website has %d characters of content", n)
		}
		return skip()
	},
	signalRule(func(s *models.SiteSignals) bool { return s.HasNavigation }, "Clear Navigation", 4, "Website has structured navigation"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasContactForm }, "Contact Form", 5, "Website offers a contact form"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasSSL }, "SSL Secured", 6, "Website is served over HTTPS"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasShoppingCart }, "Shopping Cart", 6, "Website has a shopping cart"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasPricing }, "Published Pricing", 3, "Website publishes pricing"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasPaymentOptions }, "Payment Options", 4, "Website lists payment options"),
	signalRule(func(s *models.SiteSignals) bool { return s.HasPrivacyPolicy || s.HasTerms }, "Legal Pages", 3, "Website has a privacy policy or terms"),
	signalRule(func(s *models.SiteSignals) bool { return s.CurrencyMatchesMarket }, "Market Currency", 4, "Prices are shown in the target market currency"),
	signalRule(func(s *models.SiteSignals) bool { return s.AddressMatchesMarket }, "Local Address", 3, "Website lists an address in the target market"),
	signalRule(func(s *models.SiteSignals) bool { return s.PhoneMatchesMarket }, "Local Phone Number", 2, "Website lists a phone number in the target market"),
	func(e *evaluation) (int, *Factor) {
		if e.signals == nil {
			return skip()
		}
		langs := models.PresentItems(e.signals.Languages)
		if len(langs) >= 2 {
			return award("Multi-Language Content", 3, "Website available in %d languages: %s", len(langs), quoteList(langs))
		}
		return skip()
	},
}

func signalRule(has func(*models.SiteSignals) bool, label string, points int, evidence string) rule {
	return func(e *evaluation) (int, *Factor) {
		if e.signals != nil && has(e.signals) {
			return points, newFactor(label, points, evidence)
		}
		return skip()
	}
}

func ecommerceRule(e *evaluation) (int, *Factor) {
	if e.profile.HasEcommerce != nil && *e.profile.HasEcommerce {
		return award("E-commerce Capability", 10, "Business sells online")
	}
	return skip()
}

func socialPresenceRule(e *evaluation) (int, *Factor) {
	platforms := models.PresentItems(e.profile.SocialPlatforms)
	switch {
	case len(platforms) >= 3:
		return award("Strong Social Presence", 15, "Active on %d platforms: %s", len(platforms), quoteList(platforms))
	case len(platforms) >= 1:
		return award("Social Presence", 8, "Active on %d platforms: %s", len(platforms), quoteList(platforms))
	}
	return skip()
}

func websiteFeaturesRule(e *evaluation) (int, *Factor) {
	features := models.PresentItems(e.profile.WebsiteFeatures)
	switch {
	case len(features) >= 5:
		return award("Rich Website Features", 10, "%d website features: %s", len(features), quoteList(features))
	case len(features) >= 2:
		return award("Website Features", 6, "%d website features: %s", len(features), quoteList(features))
	case len(features) == 1:
		return award("Basic Website Features", 3, "Website feature: %s", features[0])
	}
	return skip()
}

func marketingBudgetRule(e *evaluation) (int, *Factor) {
	if models.IsAbsent(e.profile.MarketingBudget) {
		return skip()
	}
	return award("Marketing Budget Allocated", 8, "Marketing budget: %s", e.profile.MarketingBudget)
}

// --- Logistics Potential ---

func operationalBaseRule(_ *evaluation) (int, *Factor) {
	return 30, neutralFactor("Operational Business", 30, "Baseline for an operating business")
}

func logisticsInvestmentRule(e *evaluation) (int, *Factor) {
	if hits := models.MatchingItems(e.profile.PlannedInvestments, LogisticsKeywords); len(hits) > 0 {
		return award("Logistics Investment Planned", 20, "Planned investments include %s", quoteList(hits))
	}
	return skip()
}

func logisticsScaleRule(e *evaluation) (int, *Factor) {
	points := map[sizeBracket]int{sizeLarge: 30, sizeMedium: 20, sizeSmall: 12, sizeMicro: 5}[e.size]
	if e.size == sizeUnknown {
		return skip()
	}
	return award("Operational Scale", points, "Company size %q (%s)", e.profile.CompanySize, e.size)
}

func logisticsSupportRule(e *evaluation) (int, *Factor) {
	if hits := models.MatchingItems(e.profile.RequiredSupport, LogisticsKeywords); len(hits) > 0 {
		return 0, neutralFactor("Logistics Support Requested", 0, fmt.Sprintf("Support requested for %s", quoteList(hits)))
	}
	return skip()
}

// --- Scalability & Automation ---

func scalabilityBaseRule(_ *evaluation) (int, *Factor) {
	return 30, neutralFactor("Scalability Baseline", 30, "Baseline for an operating business")
}

func technologyIndustryRule(e *evaluation) (int, *Factor) {
	if kw, ok := models.ContainsAny(e.profile.Industry, TechnologyIndustryKeywords); ok {
		return award("Technology-Driven Industry", 25, "Industry %q matches %q", e.profile.Industry, kw)
	}
	return skip()
}

func automationFeaturesRule(e *evaluation) (int, *Factor) {
	if hits := models.MatchingItems(e.profile.WebsiteFeatures, AutomationFeatureKeywords); len(hits) > 0 {
		return award("Automation Features", 20, "Automated website features: %s", quoteList(hits))
	}
	return skip()
}

func technologyInvestmentRule(e *evaluation) (int, *Factor) {
	if hits := models.MatchingItems(e.profile.PlannedInvestments, TechnologyInvestmentKeywords); len(hits) > 0 {
		return award("Technology Investment Planned", 20, "Planned investments include %s", quoteList(hits))
	}
	return skip()
}

// --- Founder/Team Strength ---

func founderBaseRule(_ *evaluation) (int, *Factor) {
	return 30, neutralFactor("Operating Business", 30, "Baseline for founders running an operating business")
}

func yearsInBusinessRule(e *evaluation) (int, *Factor) {
	years, ok := e.profile.YearsInBusiness(e.now, e.verification)
	if !ok {
		return skip()
	}
	switch {
	case years >= 10:
		return award("Established Track Record", 30, "%.0f years in business", years)
	case years >= 5:
		return award("Proven Track Record", 25, "%.0f years in business", years)
	case years >= 2:
		return award("Developing Track Record", 15, "%.0f years in business", years)
	case years >= 1:
		return award("Early Track Record", 8, "%.0f year in business", years)
	default:
		return award("New Business", 3, "Less than a year in business")
	}
}

func teamSizeRule(e *evaluation) (int, *Factor) {
	points := map[sizeBracket]int{sizeLarge: 20, sizeMedium: 15, sizeSmall: 10, sizeMicro: 5}[e.size]
	if e.size == sizeUnknown {
		return skip()
	}
	return award("Team Size", points, "Company size %q (%s)", e.profile.CompanySize, e.size)
}

func strategicObjectiveRule(e *evaluation) (int, *Factor) {
	if models.IsAbsent(e.profile.StrategicObjective) {
		return skip()
	}
	return award("Strategic Objective Defined", 15, "Objective: %s", e.profile.StrategicObjective)
}

// --- Investment Readiness ---

func marketEntryInterestRule(_ *evaluation) (int, *Factor) {
	return 20, neutralFactor("Market Entry Interest", 20, "Baseline for expressed market-entry interest")
}

func investmentAreasRule(e *evaluation) (int, *Factor) {
	areas := models.PresentItems(e.profile.PlannedInvestments)
	switch {
	case len(areas) >= 4:
		return award("Broad Investment Plan", 25, "%d planned investment areas: %s", len(areas), quoteList(areas))
	case len(areas) >= 2:
		return award("Investment Plan", 18, "%d planned investment areas: %s", len(areas), quoteList(areas))
	case len(areas) == 1:
		return award("Initial Investment Plan", 10, "Planned investment: %s", areas[0])
	}
	return skip()
}

func successMetricsRule(e *evaluation) (int, *Factor) {
	metrics := models.PresentItems(e.profile.SuccessMetrics)
	switch {
	case len(metrics) >= 3:
		return award("Success Metrics Defined", 20, "%d success metrics: %s", len(metrics), quoteList(metrics))
	case len(metrics) >= 1:
		return award("Some Success Metrics", 10, "%d success metrics: %s", len(metrics), quoteList(metrics))
	}
	return skip()
}

func financialPlanningRule(e *evaluation) (int, *Factor) {
	projections := !models.IsAbsent(e.profile.FinancialProjections)
	revenue := !models.IsAbsent(e.profile.RevenueModel)
	switch {
	case projections && revenue:
		return award("Financial Planning", 25, "Financial projections and revenue model (%s) provided", e.profile.RevenueModel)
	case projections:
		return award("Financial Planning", 25, "Financial projections provided")
	case revenue:
		return award("Financial Planning", 25, "Revenue model: %s", e.profile.RevenueModel)
	case !models.IsAbsentList(e.profile.PlannedInvestments):
		return award("Investment Without Projections", 10, "Investment areas planned without financial projections")
	}
	return skip()
}
