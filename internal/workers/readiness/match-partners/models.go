// internal/workers/readiness/match-partners/models.go
package matchpartners

import (
	"readiness-workers/internal/engine/matching"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"
)

type Input struct {
	RequestID       string
	BusinessProfile *models.BusinessProfile
	ScoringResult   *scoring.Result
	// Categories is nil when every category is wanted.
	Categories []string
}

type Output struct {
	RequestID       string                            `json:"requestId"`
	Recommendations []matching.CategoryRecommendation `json:"recommendations"`
}

// MatchedEvent is the payload of the partners.matched event.
type MatchedEvent struct {
	PoolSize   int              `json:"poolSize"`
	Categories []MatchedSummary `json:"categories"`
}

type MatchedSummary struct {
	Category          string           `json:"category"`
	Urgency           matching.Urgency `json:"urgency"`
	AverageMatchScore int              `json:"averageMatchScore"`
	TopPartnerID      string           `json:"topPartnerId,omitempty"`
}
