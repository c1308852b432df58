package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"
)

// Engine ranks partners. Like the scoring engine it is stateless and safe for
// concurrent use; the partner pool is only read.
type Engine struct {
	logger logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger; the engine only logs at debug level.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeCategory maps a partner category to one of ServiceCategories, returning
// false for anything unrecognised.
func NormalizeCategory(category string) (string, bool) {
	c := models.Normalize(category)
	for _, known := range ServiceCategories {
		if c == known {
			return known, true
		}
	}
	return "", false
}

// Match returns one recommendation per category that has at least one partner above
// the relevance floor. An empty pool or a nil result yields an empty list.
func (e *Engine) Match(partners []models.PartnerRecord, profile *models.BusinessProfile, result *scoring.Result) []CategoryRecommendation {
	recommendations := []CategoryRecommendation{}
	if len(partners) == 0 || result == nil {
		return recommendations
	}
	if profile == nil {
		profile = &models.BusinessProfile{}
	}
	b := newBusiness(profile, result)

	pools := make(map[string][]models.PartnerRecord)
	for _, p := range partners {
		if c, ok := NormalizeCategory(p.Category); ok {
			pools[c] = append(pools[c], p)
		}
	}

	for _, category := range ServiceCategories {
		pool := pools[category]
		if len(pool) == 0 {
			continue
		}
		if rec, ok := e.recommend(category, pool, b); ok {
			recommendations = append(recommendations, rec)
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		a, c := recommendations[i], recommendations[j]
		if a.Urgency.rank() != c.Urgency.rank() {
			return a.Urgency.rank() < c.Urgency.rank()
		}
		if a.AverageMatchScore != c.AverageMatchScore {
			return a.AverageMatchScore > c.AverageMatchScore
		}
		return a.Category < c.Category
	})

	e.logger.Debug("Partners matched", map[string]interface{}{
		"businessId":      profile.BusinessID,
		"poolSize":        len(partners),
		"recommendations": len(recommendations),
	})
	return recommendations
}

func (e *Engine) recommend(category string, pool []models.PartnerRecord, b *business) (CategoryRecommendation, bool) {
	candidates := make([]PartnerMatch, 0, len(pool))
	for _, p := range pool {
		m := scorePartner(category, b, p)
		if m.MatchScore <= relevanceFloor {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return CategoryRecommendation{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return candidates[i].Partner.Verified && !candidates[j].Partner.Verified
	})

	top := candidates
	if n := topN(category); len(top) > n {
		top = top[:n]
	}
	top[0].RelevantCaseStudy = selectCaseStudy(category, b.industry)

	total := 0
	for _, m := range top {
		total += m.MatchScore
	}
	average := int(math.Round(float64(total) / float64(len(top))))

	urgency, reason := urgencyFor(category, b)
	return CategoryRecommendation{
		Category:          category,
		Partners:          top,
		Reason:            reason,
		Urgency:           urgency,
		Insights:          insights(category, len(candidates), average, urgency, top[0]),
		AverageMatchScore: average,
	}, true
}

func scorePartner(category string, b *business, p models.PartnerRecord) PartnerMatch {
	factors := []MatchFactor{
		industryExpertise(b, p),
		needAlignment(category, b),
		stageMatch(b, p),
		geographicRelevance(b, p),
		serviceDepth(p),
	}

	weighted := 0.0
	best := factors[0]
	for _, f := range factors {
		weighted += float64(f.Score) * f.Weight
		if float64(f.Score)*f.Weight > float64(best.Score)*best.Weight {
			best = f
		}
	}
	score := int(math.Round(weighted))
	if score > 100 {
		score = 100
	}

	return PartnerMatch{
		Partner:              p,
		MatchScore:           score,
		MatchFactors:         factors,
		RecommendationReason: fmt.Sprintf("%s scores %d/100 for %s support. %s.", p.Name, score, category, best.Justification),
	}
}

func urgencyFor(category string, b *business) (Urgency, string) {
	reg := b.score(scoring.RegulatoryCompatibility)
	inv := b.score(scoring.InvestmentReadiness)
	dig := b.score(scoring.DigitalReadiness)
	logi := b.score(scoring.LogisticsPotential)
	overall := b.result.OverallScore

	switch category {
	case CategoryLegal:
		switch {
		case b.unregistered:
			return UrgencyHigh, "UK company registration is not confirmed. Legal setup is required before trading."
		case reg < 50:
			return UrgencyMedium, fmt.Sprintf("Regulatory compatibility is %d/100. A legal review will close the gaps.", reg)
		}
		return UrgencyLow, "Legal foundations are in place. Ongoing advice supports contracts and growth."
	case CategoryAccounting:
		switch {
		case inv < 40:
			return UrgencyHigh, fmt.Sprintf("Investment readiness is %d/100. Financial planning and tax setup are needed early.", inv)
		case inv < 60:
			return UrgencyMedium, fmt.Sprintf("Investment readiness is %d/100. Accountants can strengthen projections and reporting.", inv)
		}
		return UrgencyLow, "Financial planning is established. Accountants keep UK filings on track."
	case CategoryMarketing:
		switch {
		case dig < 40:
			return UrgencyHigh, fmt.Sprintf("Digital readiness is %d/100. UK customers will struggle to find the business online.", dig)
		case dig < 60:
			return UrgencyMedium, fmt.Sprintf("Digital readiness is %d/100. Localised marketing will improve reach.", dig)
		}
		return UrgencyLow, "Digital presence is strong. Marketing partners can accelerate UK growth."
	case CategoryLogistics:
		switch {
		case b.productBased && logi < 50:
			return UrgencyHigh, fmt.Sprintf("Physical products need UK distribution and logistics potential is %d/100.", logi)
		case b.productBased:
			return UrgencyMedium, "Physical products need reliable UK fulfilment and delivery."
		}
		return UrgencyLow, "Distribution needs are limited for this business model."
	case CategoryConsulting:
		switch {
		case overall < 40:
			return UrgencyHigh, fmt.Sprintf("Overall readiness is %d/100. A structured market-entry plan is recommended.", overall)
		case overall < 60:
			return UrgencyMedium, fmt.Sprintf("Overall readiness is %d/100. Strategic advice can close the remaining gaps.", overall)
		}
		return UrgencyLow, "The business is well prepared. Consultants can help optimise the launch."
	case CategoryCompliance:
		switch {
		case reg < 40:
			return UrgencyHigh, fmt.Sprintf("Regulatory compatibility is %d/100. Compliance gaps must be closed before launch.", reg)
		case reg < 70:
			return UrgencyMedium, fmt.Sprintf("Regulatory compatibility is %d/100. A compliance review is advisable.", reg)
		}
		return UrgencyLow, "Compliance is well advanced. Periodic reviews keep it current."
	}
	return UrgencyLow, "Specialist support is available."
}

func insights(category string, candidates, average int, urgency Urgency, top PartnerMatch) []string {
	timing := map[Urgency]string{
		UrgencyHigh:   "Priority: engage before UK market entry",
		UrgencyMedium: "Timing: engage within the first three months of UK operations",
		UrgencyLow:    "Timing: optional support to revisit as the business grows",
	}[urgency]

	noun := "partners"
	if candidates == 1 {
		noun = "partner"
	}
	return []string{
		fmt.Sprintf("%d %s %s evaluated with an average top match of %d/100", candidates, category, noun, average),
		timing,
		fmt.Sprintf("Top match: %s (%d/100)", top.Partner.Name, top.MatchScore),
	}
}

func selectCaseStudy(category, industry string) *CaseStudy {
	library := CaseStudies[category]
	if len(library) == 0 {
		return nil
	}
	chosen := library[0]
	if industry != "" {
		for _, cs := range library {
			tag := strings.ToLower(cs.Industry)
			if strings.Contains(industry, tag) || strings.Contains(tag, industry) {
				chosen = cs
				break
			}
		}
	}
	return &chosen
}
