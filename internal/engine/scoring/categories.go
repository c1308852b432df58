package scoring

// categoryRules lists the rules that make up each category, in evidence order.
var categoryRules = map[Category][]rule{
	ProductMarketFit: {
		targetMarketRule,
		productDescriptionRule,
		highGrowthIndustryRule,
		timelineRule,
		competitiveAdvantageRule,
	},
	RegulatoryCompatibility: {
		registrationRule,
		legalEntityRule,
		complianceRule,
		ipProtectionRule,
	},
	DigitalReadiness: concatRules(
		[]rule{websitePresenceRule},
		siteSignalRules,
		[]rule{
			ecommerceRule,
			socialPresenceRule,
			websiteFeaturesRule,
			marketingBudgetRule,
		},
	),
	LogisticsPotential: {
		operationalBaseRule,
		logisticsInvestmentRule,
		logisticsScaleRule,
		logisticsSupportRule,
	},
	ScalabilityAutomation: {
		scalabilityBaseRule,
		technologyIndustryRule,
		automationFeaturesRule,
		technologyInvestmentRule,
	},
	FounderTeamStrength: {
		founderBaseRule,
		yearsInBusinessRule,
		teamSizeRule,
		strategicObjectiveRule,
	},
	InvestmentReadiness: {
		marketEntryInterestRule,
		investmentAreasRule,
		successMetricsRule,
		financialPlanningRule,
	},
}

func concatRules(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// scoreCategory sums the category rules and returns the unweighted clamped score
// together with the factors that produced it.
func scoreCategory(c Category, e *evaluation) (int, []Factor) {
	total := 0
	factors := []Factor{}
	for _, r := range categoryRules[c] {
		points, f := r(e)
		if f == nil {
			continue
		}
		total += points
		factors = append(factors, *f)
	}
	return clamp(total, 0, 100), factors
}
