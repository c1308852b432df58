// internal/workers/readiness/compute-readiness-score/models.go
package computereadinessscore

import "readiness-workers/internal/engine/scoring"

// Input is kept loosely typed so the profile can be decoded leniently.
type Input struct {
	RequestID       string
	BusinessProfile map[string]interface{}
	Verification    map[string]interface{}
	SiteSignals     map[string]interface{}
}

type Output struct {
	RequestID     string          `json:"requestId"`
	ScoringResult *scoring.Result `json:"scoringResult"`
	IgnoredFields []string        `json:"ignoredFields"`
	ResultID      string          `json:"resultId,omitempty"`
	FromCache     bool            `json:"fromCache"`
}

// ScoredEvent is the payload of the readiness.scored event.
type ScoredEvent struct {
	OverallScore     int                    `json:"overallScore"`
	ConfidenceLevel  scoring.Confidence     `json:"confidenceLevel"`
	DataCompleteness int                    `json:"dataCompleteness"`
	ScoreBreakdown   scoring.ScoreBreakdown `json:"scoreBreakdown"`
	ResultID         string                 `json:"resultId,omitempty"`
}
