// Package matching ranks catalog partners against a scored business profile and
// groups them into per-category recommendations.
package matching

import "readiness-workers/internal/models"

// Service categories a partner can belong to.
const (
	CategoryLegal      = "legal"
	CategoryAccounting = "accounting"
	CategoryMarketing  = "marketing"
	CategoryLogistics  = "logistics"
	CategoryConsulting = "consulting"
	CategoryCompliance = "compliance"
)

// ServiceCategories lists every category the matcher recognises.
var ServiceCategories = []string{
	CategoryLegal,
	CategoryAccounting,
	CategoryMarketing,
	CategoryLogistics,
	CategoryConsulting,
	CategoryCompliance,
}

// Urgency says how time-critical a category of support is.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

func (u Urgency) rank() int {
	switch u {
	case UrgencyHigh:
		return 0
	case UrgencyMedium:
		return 1
	default:
		return 2
	}
}

// Sub-score weights. They sum to 1.0.
const (
	WeightIndustryExpertise = 0.30
	WeightNeedAlignment     = 0.35
	WeightStageMatch        = 0.15
	WeightGeographic        = 0.10
	WeightServiceDepth      = 0.10
)

// MatchFactor is one weighted sub-score behind a partner's match score.
type MatchFactor struct {
	Name          string  `json:"name"`
	Score         int     `json:"score"`
	Weight        float64 `json:"weight"`
	Justification string  `json:"justification"`
}

// CaseStudy is a short reference engagement shown alongside the top partner.
type CaseStudy struct {
	Title    string `json:"title"`
	Industry string `json:"industry"`
	Summary  string `json:"summary"`
	Outcome  string `json:"outcome"`
}

// PartnerMatch is one ranked partner within a category.
type PartnerMatch struct {
	Partner              models.PartnerRecord `json:"partner"`
	MatchScore           int                  `json:"matchScore"`
	MatchFactors         []MatchFactor        `json:"matchFactors"`
	RecommendationReason string               `json:"recommendationReason"`
	RelevantCaseStudy    *CaseStudy           `json:"relevantCaseStudy,omitempty"`
}

// CategoryRecommendation groups the best partners of one category.
type CategoryRecommendation struct {
	Category          string         `json:"category"`
	Partners          []PartnerMatch `json:"partners"`
	Reason            string         `json:"reason"`
	Urgency           Urgency        `json:"urgency"`
	Insights          []string       `json:"insights"`
	AverageMatchScore int            `json:"averageMatchScore"`
}
