// Package scoring converts a business profile into seven weighted readiness scores,
// each backed by the list of factors that produced it.
package scoring

// Category is one of the fixed readiness dimensions.
type Category string

const (
	ProductMarketFit        Category = "productMarketFit"
	RegulatoryCompatibility Category = "regulatoryCompatibility"
	DigitalReadiness        Category = "digitalReadiness"
	LogisticsPotential      Category = "logisticsPotential"
	ScalabilityAutomation   Category = "scalabilityAutomation"
	FounderTeamStrength     Category = "founderTeamStrength"
	InvestmentReadiness     Category = "investmentReadiness"
)

// Categories lists every category in reporting order.
var Categories = []Category{
	ProductMarketFit,
	RegulatoryCompatibility,
	DigitalReadiness,
	LogisticsPotential,
	ScalabilityAutomation,
	FounderTeamStrength,
	InvestmentReadiness,
}

// DisplayName returns the human label for a category.
func (c Category) DisplayName() string {
	switch c {
	case ProductMarketFit:
		return "Product-Market Fit"
	case RegulatoryCompatibility:
		return "Regulatory Compatibility"
	case DigitalReadiness:
		return "Digital Readiness"
	case LogisticsPotential:
		return "Logistics Potential"
	case ScalabilityAutomation:
		return "Scalability & Automation"
	case FounderTeamStrength:
		return "Founder/Team Strength"
	case InvestmentReadiness:
		return "Investment Readiness"
	default:
		return string(c)
	}
}

// Impact is the polarity of a factor.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Factor is one evidence line behind a category score.
type Factor struct {
	Label    string `json:"factor"`
	Points   int    `json:"points"`
	Impact   Impact `json:"impact"`
	Evidence string `json:"evidence"`
}

// Confidence describes how far a score can be trusted given input completeness.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ScoreBreakdown maps each category to its final 0-100 score.
type ScoreBreakdown map[Category]int

// ScoreEvidence maps each category to the factors behind its score.
type ScoreEvidence map[Category][]Factor

// Result is the output of a scoring run.
type Result struct {
	OverallScore     int            `json:"overallScore"`
	ScoreBreakdown   ScoreBreakdown `json:"scoreBreakdown"`
	ScoreEvidence    ScoreEvidence  `json:"scoreEvidence"`
	ConfidenceLevel  Confidence     `json:"confidenceLevel"`
	DataCompleteness int            `json:"dataCompleteness"`
	// Registered is true when registration was verified or self-reported. Nil on
	// results produced elsewhere; callers then fall back to IsRegistered.
	Registered *bool `json:"registered,omitempty"`
}

// Score returns the breakdown score for a category, 0 when missing.
func (r *Result) Score(c Category) int {
	if r == nil || r.ScoreBreakdown == nil {
		return 0
	}
	return r.ScoreBreakdown[c]
}
