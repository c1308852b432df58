package matching

import (
	"fmt"
	"strings"

	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"
)

// business is the per-call view of the profile and its scores shared by every partner.
type business struct {
	industry        string
	size            string
	targetMarkets   []string
	unregistered    bool
	complianceCount int
	productBased    bool
	sellsOnline     bool
	result          *scoring.Result
}

func newBusiness(p *models.BusinessProfile, r *scoring.Result) *business {
	b := &business{
		size:            scoring.CompanySizeBracket(p.CompanySize),
		targetMarkets:   models.PresentItems(p.TargetMarkets),
		complianceCount: len(models.PresentItems(p.ComplianceCompleted)),
		sellsOnline:     p.HasEcommerce != nil && *p.HasEcommerce,
		result:          r,
	}
	if r.Registered != nil {
		b.unregistered = !*r.Registered
	} else {
		b.unregistered = !scoring.IsRegistered(p, nil)
	}
	if !models.IsAbsent(p.Industry) {
		b.industry = models.Normalize(p.Industry)
	}
	_, b.productBased = models.ContainsAny(b.industry, ProductBasedIndustries)
	return b
}

func (b *business) score(c scoring.Category) int {
	return b.result.Score(c)
}

// justify picks the sentence matching the score tier so the text never contradicts
// the number.
func justify(score int, strong, moderate, weak string) string {
	switch {
	case score >= 80:
		return strong
	case score >= 50:
		return moderate
	default:
		return weak
	}
}

func partnerText(p models.PartnerRecord) []string {
	return models.PresentItems(p.Specialties)
}

func industryExpertise(b *business, p models.PartnerRecord) MatchFactor {
	f := MatchFactor{Name: "Industry Expertise", Weight: WeightIndustryExpertise, Score: industryBaseline}
	specialties := partnerText(p)

	if b.industry != "" {
		for _, s := range specialties {
			if strings.Contains(models.Normalize(s), b.industry) {
				f.Score = industryExact
				f.Justification = fmt.Sprintf("Specialises in %s (%s)", b.industry, s)
				return f
			}
		}
		for _, word := range strings.Fields(b.industry) {
			word = strings.Trim(word, ",.&/()")
			if len(word) < minKeywordLength {
				continue
			}
			if hits := models.MatchingItems(specialties, []string{word}); len(hits) > 0 {
				f.Score = industryPartial
				f.Justification = fmt.Sprintf("Related expertise: %s overlaps with %s", hits[0], b.industry)
				return f
			}
		}
	}

	industry := b.industry
	if industry == "" {
		industry = "the business's industry"
	}
	f.Justification = fmt.Sprintf("No listed specialism in %s; general practice", industry)
	return f
}

// needAlignment reads the scoring result through a per-category ladder.
func needAlignment(category string, b *business) MatchFactor {
	score, signal := needLadder(category, b)
	return MatchFactor{
		Name:   "Business Need Alignment",
		Score:  score,
		Weight: WeightNeedAlignment,
		Justification: justify(score,
			"Strong need: "+signal,
			"Moderate need: "+signal,
			"Limited need: "+signal),
	}
}

func needLadder(category string, b *business) (int, string) {
	reg := b.score(scoring.RegulatoryCompatibility)
	inv := b.score(scoring.InvestmentReadiness)
	dig := b.score(scoring.DigitalReadiness)
	logi := b.score(scoring.LogisticsPotential)

	switch category {
	case CategoryLegal:
		switch {
		case b.unregistered:
			return 95, "UK registration is not confirmed"
		case b.complianceCount < 2:
			return 75, fmt.Sprintf("only %d compliance items completed", b.complianceCount)
		case reg < 50:
			return 70, fmt.Sprintf("regulatory compatibility is %d/100", reg)
		}
		return 50, "legal foundations appear in place"
	case CategoryAccounting:
		switch {
		case inv < 40:
			return 85, fmt.Sprintf("investment readiness is %d/100", inv)
		case b.unregistered:
			return 80, "company registration and tax setup are outstanding"
		case inv < 60:
			return 70, fmt.Sprintf("investment readiness is %d/100", inv)
		}
		return 50, "financial planning appears in place"
	case CategoryMarketing:
		switch {
		case dig < 40:
			return 90, fmt.Sprintf("digital readiness is %d/100", dig)
		case !b.sellsOnline:
			return 75, "no online sales channel"
		case dig < 60:
			return 70, fmt.Sprintf("digital readiness is %d/100", dig)
		}
		return 50, "digital presence is established"
	case CategoryLogistics:
		switch {
		case b.productBased && logi < 50:
			return 90, fmt.Sprintf("product-based business with logistics potential of %d/100", logi)
		case b.productBased:
			return 75, "product-based business needs physical distribution"
		case logi < 50:
			return 60, fmt.Sprintf("logistics potential is %d/100", logi)
		}
		return 40, "service business with few distribution needs"
	case CategoryConsulting:
		overall := b.result.OverallScore
		pmf := b.score(scoring.ProductMarketFit)
		switch {
		case overall < 50:
			return 80, fmt.Sprintf("overall readiness is %d/100", overall)
		case pmf < 50:
			return 70, fmt.Sprintf("product-market fit is %d/100", pmf)
		}
		return 50, "overall readiness is solid"
	case CategoryCompliance:
		switch {
		case reg < 40:
			return 90, fmt.Sprintf("regulatory compatibility is %d/100", reg)
		case b.complianceCount == 0:
			return 80, "no compliance items completed"
		case reg < 70:
			return 65, fmt.Sprintf("regulatory compatibility is %d/100", reg)
		}
		return 45, "compliance programme is well advanced"
	}
	return 50, "general support"
}

func stageMatch(b *business, p models.PartnerRecord) MatchFactor {
	f := MatchFactor{Name: "Business Stage Match", Weight: WeightStageMatch, Score: stageDefault}
	keywords, known := StageKeywords[b.size]
	if !known {
		f.Justification = "Company size unknown; typical stage fit assumed"
		return f
	}
	text := append(partnerText(p), p.Description)
	for _, t := range text {
		if kw, ok := models.ContainsAny(t, keywords); ok {
			f.Score = stageHit
			f.Justification = fmt.Sprintf("Works with %s businesses (%s)", b.size, kw)
			return f
		}
	}
	f.Justification = fmt.Sprintf("No stated focus on %s businesses", b.size)
	return f
}

func geographicRelevance(b *business, p models.PartnerRecord) MatchFactor {
	f := MatchFactor{Name: "Geographic Relevance", Weight: WeightGeographic, Score: geoDefault}
	location := models.Normalize(p.Location)
	if models.IsAbsent(location) {
		f.Justification = "No location listed"
		return f
	}

	// Whole-word comparison in both directions: "London, UK" serves a "UK" market and
	// "London" serves "Greater London", but "UK" does not serve "Ukraine".
	locationWords := models.Words(location)
	for _, market := range b.targetMarkets {
		marketWords := models.Words(market)
		if len(marketWords) == 0 || len(locationWords) == 0 {
			continue
		}
		if models.HasPhrase(locationWords, marketWords) || models.HasPhrase(marketWords, locationWords) {
			f.Score = geoExact
			f.Justification = fmt.Sprintf("Located in %s, a target market", p.Location)
			return f
		}
	}
	if city, ok := models.ContainsAny(location, MajorCities); ok {
		f.Score = geoCity
		f.Justification = fmt.Sprintf("Based in %s, a major UK business hub (%s)", p.Location, city)
		return f
	}
	if _, ok := models.ContainsAny(location, GenericCoverage); ok {
		f.Score = geoGeneric
		f.Justification = fmt.Sprintf("Serves clients %s", p.Location)
		return f
	}
	f.Justification = fmt.Sprintf("Located in %s, outside the target markets", p.Location)
	return f
}

func serviceDepth(p models.PartnerRecord) MatchFactor {
	n := len(partnerText(p))
	f := MatchFactor{Name: "Service Depth", Weight: WeightServiceDepth}
	switch {
	case n >= 5:
		f.Score = depthBroad
	case n >= 3:
		f.Score = depthModerate
	default:
		f.Score = depthNarrow
	}
	f.Justification = justify(f.Score,
		fmt.Sprintf("Broad service range with %d specialties", n),
		fmt.Sprintf("Focused service range with %d specialties", n),
		fmt.Sprintf("Narrow service range with %d specialties", n))
	return f
}
