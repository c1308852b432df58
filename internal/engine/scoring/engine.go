package scoring

import (
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"
)

// Engine scores business profiles. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	now    func() time.Time
	logger logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for years-in-business and validation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger attaches a logger; the engine only logs at debug level.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		logger: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's clock reading.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Score computes the readiness result. verification and signals may be nil. The only
// error is a *models.ValidationError for values that cannot be degraded.
func (e *Engine) Score(profile *models.BusinessProfile, verification *models.VerificationRecord, signals *models.SiteSignals) (*Result, error) {
	now := e.now()
	if err := profile.Validate(now); err != nil {
		return nil, err
	}

	ev := &evaluation{
		profile:      profile,
		verification: verification,
		signals:      signals,
		now:          now,
		registration: resolveRegistration(profile, verification),
		size:         parseSize(profile.CompanySize),
	}

	weights, weighting := ResolveWeights(profile.Industry)
	registered := ev.registration.registered()
	result := &Result{
		ScoreBreakdown: make(ScoreBreakdown, len(Categories)),
		ScoreEvidence:  make(ScoreEvidence, len(Categories)),
		Registered:     &registered,
	}

	for _, c := range Categories {
		raw, factors := scoreCategory(c, ev)
		weighted := applyWeight(raw, weights[c])
		if delta := weighted - raw; delta != 0 {
			factors = append(factors, *newFactor(
				"Industry Weighting",
				delta,
				fmtWeighting(weighting, weights[c], raw, weighted),
			))
		}
		result.ScoreBreakdown[c] = weighted
		result.ScoreEvidence[c] = factors
	}

	result.OverallScore = overallScore(result.ScoreBreakdown)
	result.DataCompleteness = dataCompleteness(ev)
	result.ConfidenceLevel = ConfidenceFor(result.DataCompleteness, result.OverallScore)

	e.logger.Debug("Profile scored", map[string]interface{}{
		"businessId":       profile.BusinessID,
		"overallScore":     result.OverallScore,
		"confidence":       result.ConfidenceLevel,
		"dataCompleteness": result.DataCompleteness,
		"industryWeights":  weighting,
	})
	return result, nil
}
