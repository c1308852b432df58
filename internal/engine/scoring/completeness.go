package scoring

import (
	"math"

	"readiness-workers/internal/models"
)

const (
	criticalShare = 70.0
	optionalShare = 30.0

	highConfidenceCompleteness   = 80
	highConfidenceScore          = 30
	mediumConfidenceCompleteness = 60
	mediumConfidenceScore        = 50
)

type fieldCheck struct {
	name    string
	present func(e *evaluation) bool
}

func stringField(name string, get func(p *models.BusinessProfile) string) fieldCheck {
	return fieldCheck{name: name, present: func(e *evaluation) bool { return !models.IsAbsent(get(e.profile)) }}
}

func listField(name string, get func(p *models.BusinessProfile) []string) fieldCheck {
	return fieldCheck{name: name, present: func(e *evaluation) bool { return !models.IsAbsentList(get(e.profile)) }}
}

// criticalFields and optionalFields drive dataCompleteness.
var (
	criticalFields = []fieldCheck{
		{name: "ukRegistered", present: func(e *evaluation) bool {
			return e.verification.IsVerified() || !models.IsAbsent(e.profile.UKRegistered)
		}},
		stringField("industry", func(p *models.BusinessProfile) string { return p.Industry }),
		stringField("companySize", func(p *models.BusinessProfile) string { return p.CompanySize }),
		listField("targetMarkets", func(p *models.BusinessProfile) []string { return p.TargetMarkets }),
		stringField("productDescription", func(p *models.BusinessProfile) string { return p.ProductDescription }),
		{name: "websiteUrl", present: hasWebsite},
		{name: "foundingYear", present: func(e *evaluation) bool {
			_, ok := e.profile.YearsInBusiness(e.now, e.verification)
			return ok
		}},
		stringField("legalEntityType", func(p *models.BusinessProfile) string { return p.LegalEntityType }),
	}

	optionalFields = []fieldCheck{
		stringField("timeline", func(p *models.BusinessProfile) string { return p.Timeline }),
		stringField("competitiveAdvantage", func(p *models.BusinessProfile) string { return p.CompetitiveAdvantage }),
		{name: "hasEcommerce", present: func(e *evaluation) bool { return e.profile.HasEcommerce != nil }},
		listField("socialPlatforms", func(p *models.BusinessProfile) []string { return p.SocialPlatforms }),
		listField("websiteFeatures", func(p *models.BusinessProfile) []string { return p.WebsiteFeatures }),
		stringField("marketingBudget", func(p *models.BusinessProfile) string { return p.MarketingBudget }),
		listField("complianceCompleted", func(p *models.BusinessProfile) []string { return p.ComplianceCompleted }),
		listField("ipProtection", func(p *models.BusinessProfile) []string { return p.IPProtection }),
		listField("plannedInvestments", func(p *models.BusinessProfile) []string { return p.PlannedInvestments }),
		listField("successMetrics", func(p *models.BusinessProfile) []string { return p.SuccessMetrics }),
		listField("requiredSupport", func(p *models.BusinessProfile) []string { return p.RequiredSupport }),
		stringField("strategicObjective", func(p *models.BusinessProfile) string { return p.StrategicObjective }),
		stringField("financialProjections", func(p *models.BusinessProfile) string { return p.FinancialProjections }),
		stringField("revenueModel", func(p *models.BusinessProfile) string { return p.RevenueModel }),
	}
)

func countPresent(fields []fieldCheck, e *evaluation) int {
	n := 0
	for _, f := range fields {
		if f.present(e) {
			n++
		}
	}
	return n
}

func dataCompleteness(e *evaluation) int {
	critical := float64(countPresent(criticalFields, e)) / float64(len(criticalFields))
	optional := float64(countPresent(optionalFields, e)) / float64(len(optionalFields))
	return clamp(int(math.Round(criticalShare*critical+optionalShare*optional)), 0, 100)
}

// ConfidenceFor checks the high tier first so a strong score cannot lift sparse data
// above medium.
func ConfidenceFor(completeness, overall int) Confidence {
	switch {
	case completeness >= highConfidenceCompleteness && overall >= highConfidenceScore:
		return ConfidenceHigh
	case completeness >= mediumConfidenceCompleteness || overall >= mediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
