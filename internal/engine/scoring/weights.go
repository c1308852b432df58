package scoring

import (
	"fmt"
	"math"
	"strings"
)

// OverallWeights is the convex combination used for the overall score.
var OverallWeights = map[Category]float64{
	ProductMarketFit:        0.20,
	RegulatoryCompatibility: 0.18,
	DigitalReadiness:        0.15,
	LogisticsPotential:      0.12,
	ScalabilityAutomation:   0.12,
	FounderTeamStrength:     0.13,
	InvestmentReadiness:     0.10,
}

// DefaultCategoryWeight applies when no industry override matches.
const DefaultCategoryWeight = 1.0

// IndustryWeighting scales selected categories for industries matching any keyword.
type IndustryWeighting struct {
	Name        string
	Keywords    []string
	Multipliers map[Category]float64
}

// IndustryWeightings is checked in order; the first keyword hit wins.
var IndustryWeightings = mustWeightings([]IndustryWeighting{
	{
		Name:     "technology",
		Keywords: []string{"technology", "software", "saas"},
		Multipliers: map[Category]float64{
			DigitalReadiness:      1.20,
			ScalabilityAutomation: 1.25,
		},
	},
	{
		Name:     "financial services",
		Keywords: []string{"fintech", "financial"},
		Multipliers: map[Category]float64{
			RegulatoryCompatibility: 1.20,
			InvestmentReadiness:     1.15,
		},
	},
	{
		Name:     "healthcare",
		Keywords: []string{"healthcare", "medical", "pharma"},
		Multipliers: map[Category]float64{
			RegulatoryCompatibility: 1.25,
		},
	},
	{
		Name:     "retail",
		Keywords: []string{"retail", "e-commerce", "ecommerce"},
		Multipliers: map[Category]float64{
			DigitalReadiness:   1.15,
			LogisticsPotential: 1.20,
		},
	},
	{
		Name:     "manufacturing",
		Keywords: []string{"manufacturing"},
		Multipliers: map[Category]float64{
			LogisticsPotential:      1.25,
			RegulatoryCompatibility: 1.10,
		},
	},
	{
		Name:     "food & hospitality",
		Keywords: []string{"food", "hospitality"},
		Multipliers: map[Category]float64{
			RegulatoryCompatibility: 1.15,
			LogisticsPotential:      1.15,
		},
	},
	{
		Name:     "professional services",
		Keywords: []string{"consulting", "professional services"},
		Multipliers: map[Category]float64{
			FounderTeamStrength: 1.15,
			ProductMarketFit:    1.10,
		},
	},
})

func mustWeightings(ws []IndustryWeighting) []IndustryWeighting {
	for _, w := range ws {
		for c, m := range w.Multipliers {
			if m < DefaultCategoryWeight {
				panic(fmt.Sprintf("industry weighting %q reduces %s (%.2f)", w.Name, c, m))
			}
		}
	}
	return ws
}

// ResolveWeights returns the per-category multipliers for an industry and the name of
// the matched override, empty when defaults apply.
func ResolveWeights(industry string) (map[Category]float64, string) {
	weights := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		weights[c] = DefaultCategoryWeight
	}

	normalized := strings.ToLower(strings.TrimSpace(industry))
	if normalized == "" {
		return weights, ""
	}
	for _, w := range IndustryWeightings {
		for _, k := range w.Keywords {
			if strings.Contains(normalized, k) {
				for c, m := range w.Multipliers {
					weights[c] = m
				}
				return weights, w.Name
			}
		}
	}
	return weights, ""
}

// applyWeight scales a clamped score and caps it at 100.
func applyWeight(score int, weight float64) int {
	return clamp(int(math.Round(float64(score)*weight)), 0, 100)
}

func overallScore(breakdown ScoreBreakdown) int {
	total := 0.0
	for _, c := range Categories {
		total += float64(breakdown[c]) * OverallWeights[c]
	}
	return clamp(int(math.Round(total)), 0, 100)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func fmtWeighting(industry string, weight float64, raw, weighted int) string {
	return fmt.Sprintf("%s industry multiplier %.2f applied: %d -> %d", industry, weight, raw, weighted)
}
