// internal/workers/readiness/match-partners/handler.go
package matchpartners

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"readiness-workers/internal/common/aws"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/common/observability"
	"readiness-workers/internal/common/validation"
	"readiness-workers/internal/engine/matching"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"
	"readiness-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "match-partners"

// EventPublisher publishes readiness events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, requestID, businessID string, payload interface{}) (string, error)
}

// Dependencies are the collaborators of the handler. Partners is required.
type Dependencies struct {
	Engine        *matching.Engine
	Partners      repository.PartnerStore
	Events        EventPublisher
	Validator     *validation.Validator
	Observability *observability.Observability
}

type Handler struct {
	config       *Config
	deps         Dependencies
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if deps.Engine == nil {
		deps.Engine = matching.NewEngine(matching.WithLogger(log))
	}
	if deps.Observability == nil {
		deps.Observability = observability.NewNoop()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		deps:         deps,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.deps.Observability.StartJobSpan(ctx, TaskType, job.Key, job.ProcessInstanceKey)
	defer span.End()

	logger.WithTrace(ctx, h.logger).Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	output, err := h.handleVariables(ctx, job)
	if err != nil {
		code := string(apperrors.Normalize(err).Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.deps.Observability.RecordJobProcessed(ctx, TaskType, "failed")
		h.deps.Observability.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	span.SetAttributes(attribute.Int("matching.categories", len(output.Recommendations)))
	h.completeJob(ctx, client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.deps.Observability.RecordJobProcessed(ctx, TaskType, "completed")
	h.deps.Observability.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) handleVariables(ctx context.Context, job entities.Job) (*Output, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	input, err := h.parseInput(ctx, variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func (h *Handler) parseInput(ctx context.Context, variables map[string]interface{}) (*Input, error) {
	if h.deps.Validator != nil {
		result, err := h.deps.Validator.ValidateInput(TaskType, variables)
		if err != nil {
			return nil, apperrors.NewParseError(err)
		}
		if !result.Valid {
			return nil, apperrors.NewProfileValidationError(strings.Join(result.GetErrorMessages(), "; ")).
				WithMetadata("validationErrors", result.Errors)
		}
	}

	result, err := decodeScoringResult(variables["scoringResult"])
	if err != nil {
		return nil, apperrors.NewScoringResultMissingError(err.Error())
	}

	input := &Input{ScoringResult: result}
	if id, ok := variables["requestId"].(string); ok {
		input.RequestID = id
	}

	if raw, ok := variables["businessProfile"].(map[string]interface{}); ok {
		profile, ignored := models.DecodeProfile(raw)
		if len(ignored) > 0 {
			logger.WithTrace(ctx, h.logger).Info("ignored malformed profile fields", map[string]interface{}{
				"requestId":     input.RequestID,
				"ignoredFields": ignored,
			})
		}
		input.BusinessProfile = profile
	}

	if raw, ok := variables["categories"]; ok && raw != nil {
		input.Categories = h.parseCategories(ctx, raw)
	}
	return input, nil
}

// decodeScoringResult accepts the scoringResult variable as produced by the scoring worker.
func decodeScoringResult(raw interface{}) (*scoring.Result, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return nil, fmt.Errorf("scoringResult variable is missing or not an object")
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var result scoring.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("scoringResult is malformed: %w", err)
	}
	if len(result.ScoreBreakdown) == 0 {
		return nil, fmt.Errorf("scoringResult has no score breakdown")
	}
	return &result, nil
}

// parseCategories keeps the recognised service categories. The result is non-nil, so a
// request naming only unknown categories yields no recommendations.
func (h *Handler) parseCategories(ctx context.Context, raw interface{}) []string {
	var names []string
	switch v := raw.(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	case string:
		names = strings.Split(v, ",")
	}

	categories := []string{}
	seen := map[string]bool{}
	for _, name := range names {
		c, ok := matching.NormalizeCategory(name)
		if !ok {
			logger.WithTrace(ctx, h.logger).Warn("ignoring unknown partner category", map[string]interface{}{"category": name})
			continue
		}
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	log := logger.WithTrace(ctx, h.logger)

	if input.ScoringResult == nil {
		return nil, apperrors.NewScoringResultMissingError("scoringResult is required")
	}

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	output := &Output{RequestID: requestID, Recommendations: []matching.CategoryRecommendation{}}

	if input.Categories != nil && len(input.Categories) == 0 {
		log.Info("no recognised categories requested", map[string]interface{}{"requestId": requestID})
		return output, nil
	}

	partners, err := h.deps.Partners.ListPartners(ctx, input.Categories)
	if err != nil {
		return nil, apperrors.NewPartnerCatalogUnavailableError(h.config.PartnerSource, err)
	}
	metrics.PartnerPoolSize.Observe(float64(len(partners)))

	recommendations := h.deps.Engine.Match(partners, input.BusinessProfile, input.ScoringResult)
	if input.Categories != nil {
		recommendations = keepCategories(recommendations, input.Categories)
	}
	output.Recommendations = recommendations

	for _, rec := range recommendations {
		metrics.PartnerRecommendations.WithLabelValues(rec.Category, string(rec.Urgency)).Inc()
	}

	businessID := ""
	if input.BusinessProfile != nil {
		businessID = input.BusinessProfile.BusinessID
	}

	if h.config.PublishEvents && h.deps.Events != nil {
		if _, err := h.deps.Events.Publish(ctx, aws.EventPartnersMatched, requestID, businessID, summarize(len(partners), recommendations)); err != nil {
			log.Warn("matching event not published", map[string]interface{}{
				"requestId": requestID,
				"error":     apperrors.NewEventPublishFailedError(aws.EventPartnersMatched, err).Details,
			})
		}
	}

	log.Info("partners matched", map[string]interface{}{
		"requestId":       requestID,
		"businessId":      businessID,
		"poolSize":        len(partners),
		"recommendations": len(recommendations),
	})
	return output, nil
}

func keepCategories(recs []matching.CategoryRecommendation, categories []string) []matching.CategoryRecommendation {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	kept := make([]matching.CategoryRecommendation, 0, len(recs))
	for _, rec := range recs {
		if wanted[rec.Category] {
			kept = append(kept, rec)
		}
	}
	return kept
}

func summarize(poolSize int, recs []matching.CategoryRecommendation) MatchedEvent {
	event := MatchedEvent{PoolSize: poolSize, Categories: make([]MatchedSummary, 0, len(recs))}
	for _, rec := range recs {
		summary := MatchedSummary{
			Category:          rec.Category,
			Urgency:           rec.Urgency,
			AverageMatchScore: rec.AverageMatchScore,
		}
		if len(rec.Partners) > 0 {
			summary.TopPartnerID = rec.Partners[0].Partner.ID
		}
		event.Categories = append(event.Categories, summary)
	}
	return event
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error":  err.Error(),
			"jobKey": job.Key,
		})
	}
}

// Execute runs matching on raw job variables. Exposed for tests and the CLI.
func (h *Handler) Execute(ctx context.Context, variables map[string]interface{}) (*Output, error) {
	input, err := h.parseInput(ctx, variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}
