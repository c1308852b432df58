package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DecodeProfile reads a profile from loosely typed JSON. Fields holding a value of the
// wrong type are dropped and reported by name; they never cause an error.
func DecodeProfile(data map[string]interface{}) (*BusinessProfile, []string) {
	d := &decoder{data: data}
	p := &BusinessProfile{
		BusinessID:           d.str("businessId"),
		CompanyName:          d.str("companyName"),
		UKRegistered:         d.str("ukRegistered"),
		LegalEntityType:      d.str("legalEntityType"),
		Industry:             d.str("industry"),
		CompanySize:          d.str("companySize"),
		FoundingYear:         d.intPtr("foundingYear"),
		TargetMarkets:        d.list("targetMarkets"),
		ProductDescription:   d.str("productDescription"),
		Timeline:             d.str("timeline"),
		CompetitiveAdvantage: d.str("competitiveAdvantage"),
		WebsiteURL:           d.str("websiteUrl"),
		HasEcommerce:         d.boolPtr("hasEcommerce"),
		SocialPlatforms:      d.list("socialPlatforms"),
		WebsiteFeatures:      d.list("websiteFeatures"),
		MarketingBudget:      d.str("marketingBudget"),
		ComplianceCompleted:  d.list("complianceCompleted"),
		IPProtection:         d.list("ipProtection"),
		PlannedInvestments:   d.list("plannedInvestments"),
		SuccessMetrics:       d.list("successMetrics"),
		RequiredSupport:      d.list("requiredSupport"),
		StrategicObjective:   d.str("strategicObjective"),
		FinancialProjections: d.str("financialProjections"),
		RevenueModel:         d.str("revenueModel"),
	}
	return p, d.ignoredFields()
}

// DecodeVerification reads an optional verification record. A nil map yields nil.
func DecodeVerification(data map[string]interface{}) (*VerificationRecord, []string) {
	if data == nil {
		return nil, nil
	}
	d := &decoder{data: data, prefix: "verification."}
	v := &VerificationRecord{
		Registered:     d.boolean("registered"),
		CompanyNumber:  d.str("companyNumber"),
		CompanyStatus:  d.str("companyStatus"),
		IncorporatedOn: d.str("incorporatedOn"),
		AgeYears:       d.float("ageYears"),
		Source:         d.str("source"),
	}
	return v, d.ignoredFields()
}

// DecodeSiteSignals reads optional website signals. A nil map yields nil.
func DecodeSiteSignals(data map[string]interface{}) (*SiteSignals, []string) {
	if data == nil {
		return nil, nil
	}
	d := &decoder{data: data, prefix: "siteSignals."}
	s := &SiteSignals{
		HasSSL:                d.boolean("hasSSL"),
		HasNavigation:         d.boolean("hasNavigation"),
		HasContactForm:        d.boolean("hasContactForm"),
		HasShoppingCart:       d.boolean("hasShoppingCart"),
		HasPricing:            d.boolean("hasPricing"),
		HasPaymentOptions:     d.boolean("hasPaymentOptions"),
		HasPrivacyPolicy:      d.boolean("hasPrivacyPolicy"),
		HasTerms:              d.boolean("hasTerms"),
		ContentLength:         int(d.float("contentLength")),
		CurrencyMatchesMarket: d.boolean("currencyMatchesMarket"),
		AddressMatchesMarket:  d.boolean("addressMatchesMarket"),
		PhoneMatchesMarket:    d.boolean("phoneMatchesMarket"),
		Languages:             d.list("languages"),
	}
	return s, d.ignoredFields()
}

type decoder struct {
	data    map[string]interface{}
	prefix  string
	ignored map[string]struct{}
}

func (d *decoder) lookup(key string) (interface{}, bool) {
	if d.data == nil {
		return nil, false
	}
	raw, ok := d.data[key]
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

func (d *decoder) ignore(key string) {
	if d.ignored == nil {
		d.ignored = make(map[string]struct{})
	}
	d.ignored[d.prefix+key] = struct{}{}
}

func (d *decoder) ignoredFields() []string {
	if len(d.ignored) == 0 {
		return nil
	}
	out := make([]string, 0, len(d.ignored))
	for k := range d.ignored {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *decoder) str(key string) string {
	raw, ok := d.lookup(key)
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		d.ignore(key)
		return ""
	}
}

func (d *decoder) list(key string) []string {
	raw, ok := d.lookup(key)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				d.ignore(key)
				return nil
			}
			out = append(out, s)
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		d.ignore(key)
		return nil
	}
}

func (d *decoder) float(key string) float64 {
	raw, ok := d.lookup(key)
	if !ok {
		return 0
	}
	f, err := parseNumber(raw)
	if err != nil {
		d.ignore(key)
		return 0
	}
	return f
}

func (d *decoder) intPtr(key string) *int {
	raw, ok := d.lookup(key)
	if !ok {
		return nil
	}
	if s, isStr := raw.(string); isStr && IsAbsent(s) {
		return nil
	}
	f, err := parseNumber(raw)
	if err != nil || f != math.Trunc(f) {
		d.ignore(key)
		return nil
	}
	n := int(f)
	return &n
}

func (d *decoder) boolean(key string) bool {
	b := d.boolPtr(key)
	return b != nil && *b
}

func (d *decoder) boolPtr(key string) *bool {
	raw, ok := d.lookup(key)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case bool:
		return &v
	case string:
		switch Normalize(v) {
		case "yes", "true", "y":
			t := true
			return &t
		case "no", "false", "n":
			f := false
			return &f
		}
		if IsAbsent(v) {
			return nil
		}
	}
	d.ignore(key)
	return nil
}

func parseNumber(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}
