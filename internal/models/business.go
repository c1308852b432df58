// internal/models/business.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// BusinessProfile is the subject of a readiness analysis. Every field is optional;
// absence is decided by IsAbsent / IsAbsentList, never by zero-value checks.
type BusinessProfile struct {
	BusinessID           string   `json:"businessId,omitempty"`
	CompanyName          string   `json:"companyName,omitempty"`
	UKRegistered         string   `json:"ukRegistered,omitempty"`
	LegalEntityType      string   `json:"legalEntityType,omitempty"`
	Industry             string   `json:"industry,omitempty"`
	CompanySize          string   `json:"companySize,omitempty"`
	FoundingYear         *int     `json:"foundingYear,omitempty"`
	TargetMarkets        []string `json:"targetMarkets,omitempty"`
	ProductDescription   string   `json:"productDescription,omitempty"`
	Timeline             string   `json:"timeline,omitempty"`
	CompetitiveAdvantage string   `json:"competitiveAdvantage,omitempty"`
	WebsiteURL           string   `json:"websiteUrl,omitempty"`
	HasEcommerce         *bool    `json:"hasEcommerce,omitempty"`
	SocialPlatforms      []string `json:"socialPlatforms,omitempty"`
	WebsiteFeatures      []string `json:"websiteFeatures,omitempty"`
	MarketingBudget      string   `json:"marketingBudget,omitempty"`
	ComplianceCompleted  []string `json:"complianceCompleted,omitempty"`
	IPProtection         []string `json:"ipProtection,omitempty"`
	PlannedInvestments   []string `json:"plannedInvestments,omitempty"`
	SuccessMetrics       []string `json:"successMetrics,omitempty"`
	RequiredSupport      []string `json:"requiredSupport,omitempty"`
	StrategicObjective   string   `json:"strategicObjective,omitempty"`
	FinancialProjections string   `json:"financialProjections,omitempty"`
	RevenueModel         string   `json:"revenueModel,omitempty"`
}

// VerificationRecord is a third-party confirmation of company registration.
type VerificationRecord struct {
	Registered     bool    `json:"registered"`
	CompanyNumber  string  `json:"companyNumber,omitempty"`
	CompanyStatus  string  `json:"companyStatus,omitempty"`
	IncorporatedOn string  `json:"incorporatedOn,omitempty"`
	AgeYears       float64 `json:"ageYears"`
	Source         string  `json:"source,omitempty"`
}

// IsVerified reports whether the record confirms a live registration.
func (v *VerificationRecord) IsVerified() bool {
	if v == nil || !v.Registered {
		return false
	}
	status := strings.ToLower(strings.TrimSpace(v.CompanyStatus))
	return status != "dissolved" && status != "liquidation"
}

// SiteSignals are facts extracted from the business website.
type SiteSignals struct {
	HasSSL                bool     `json:"hasSSL"`
	HasNavigation         bool     `json:"hasNavigation"`
	HasContactForm        bool     `json:"hasContactForm"`
	HasShoppingCart       bool     `json:"hasShoppingCart"`
	HasPricing            bool     `json:"hasPricing"`
	HasPaymentOptions     bool     `json:"hasPaymentOptions"`
	HasPrivacyPolicy      bool     `json:"hasPrivacyPolicy"`
	HasTerms              bool     `json:"hasTerms"`
	ContentLength         int      `json:"contentLength"`
	CurrencyMatchesMarket bool     `json:"currencyMatchesMarket"`
	AddressMatchesMarket  bool     `json:"addressMatchesMarket"`
	PhoneMatchesMarket    bool     `json:"phoneMatchesMarket"`
	Languages             []string `json:"languages,omitempty"`
}

// ValidationError is returned when a profile is structurally unusable.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

const minFoundingYear = 1800

// Validate rejects the few values the engines cannot degrade gracefully.
func (p *BusinessProfile) Validate(now time.Time) error {
	if p == nil {
		return &ValidationError{Field: "businessProfile", Message: "profile is required"}
	}
	if p.FoundingYear != nil {
		year := *p.FoundingYear
		if year < minFoundingYear || year > now.Year() {
			return &ValidationError{
				Field:   "foundingYear",
				Message: fmt.Sprintf("must be between %d and %d, got %d", minFoundingYear, now.Year(), year),
			}
		}
	}
	return nil
}

// YearsInBusiness derives company age from the founding year, falling back to the
// verified registration age. The second return value is false when neither is known.
func (p *BusinessProfile) YearsInBusiness(now time.Time, v *VerificationRecord) (float64, bool) {
	if p != nil && p.FoundingYear != nil {
		years := now.Year() - *p.FoundingYear
		if years < 0 {
			years = 0
		}
		return float64(years), true
	}
	if v.IsVerified() && v.AgeYears > 0 {
		return v.AgeYears, true
	}
	return 0, false
}
