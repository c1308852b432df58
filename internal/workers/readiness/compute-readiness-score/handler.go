// internal/workers/readiness/compute-readiness-score/handler.go
package computereadinessscore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"readiness-workers/internal/common/aws"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/common/observability"
	"readiness-workers/internal/common/validation"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const TaskType = "compute-readiness-score"

// ResultCache memoises scoring results.
type ResultCache interface {
	Key(now time.Time, profile *models.BusinessProfile, verification *models.VerificationRecord, signals *models.SiteSignals) (string, error)
	Get(ctx context.Context, key string) (*scoring.Result, bool, error)
	Set(ctx context.Context, key string, result *scoring.Result) error
}

// ResultStore persists scoring results.
type ResultStore interface {
	Save(ctx context.Context, requestID, businessID string, result *scoring.Result) (string, error)
}

// EventPublisher publishes readiness events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, requestID, businessID string, payload interface{}) (string, error)
}

// Dependencies are the collaborators of the handler. Only Engine is required.
type Dependencies struct {
	Engine        *scoring.Engine
	Cache         ResultCache
	Store         ResultStore
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
		deps.Engine = scoring.NewEngine(scoring.WithLogger(log))
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
	log := logger.WithTrace(ctx, h.logger)

	log.Info("processing job", map[string]interface{}{
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

	span.SetAttributes(
		attribute.Int("readiness.overall_score", output.ScoringResult.OverallScore),
		attribute.String("readiness.confidence", string(output.ScoringResult.ConfidenceLevel)),
		attribute.Bool("readiness.from_cache", output.FromCache),
	)
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
	input, err := h.parseInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

// parseInput validates the variables against the registry schema and splits out the
// three documents. Documents of the wrong shape are reported as ignored fields.
func (h *Handler) parseInput(variables map[string]interface{}) (*Input, error) {
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

	profile, ok := variables["businessProfile"].(map[string]interface{})
	if !ok {
		return nil, apperrors.NewProfileValidationError("businessProfile must be an object").
			WithMetadata("field", "businessProfile")
	}

	input := &Input{BusinessProfile: profile}
	if id, ok := variables["requestId"].(string); ok {
		input.RequestID = id
	}
	if v, ok := variables["verification"].(map[string]interface{}); ok {
		input.Verification = v
	}
	if s, ok := variables["siteSignals"].(map[string]interface{}); ok {
		input.SiteSignals = s
	}
	return input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	log := logger.WithTrace(ctx, h.logger)

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	profile, ignored := models.DecodeProfile(input.BusinessProfile)
	verification, ignoredVerification := models.DecodeVerification(input.Verification)
	signals, ignoredSignals := models.DecodeSiteSignals(input.SiteSignals)
	ignored = append(append(ignored, ignoredVerification...), ignoredSignals...)
	sort.Strings(ignored)
	if ignored == nil {
		ignored = []string{}
	}
	if len(ignored) > 0 {
		log.Info("ignored malformed profile fields", map[string]interface{}{
			"requestId":     requestID,
			"ignoredFields": ignored,
		})
	}

	output := &Output{RequestID: requestID, IgnoredFields: ignored}

	var cacheKey string
	if h.deps.Cache != nil {
		key, err := h.deps.Cache.Key(h.deps.Engine.Now(), profile, verification, signals)
		if err == nil {
			cacheKey = key
			cached, hit, err := h.deps.Cache.Get(ctx, cacheKey)
			switch {
			case err != nil:
				metrics.ScoringCacheLookups.WithLabelValues(metrics.CacheErr).Inc()
				log.Warn("result cache read failed", map[string]interface{}{
					"error": apperrors.NewCacheUnavailableError(err).Details,
				})
			case hit:
				metrics.ScoringCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
				output.ScoringResult = cached
				output.FromCache = true
			default:
				metrics.ScoringCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
			}
		}
	}

	if output.ScoringResult == nil {
		result, err := h.deps.Engine.Score(profile, verification, signals)
		if err != nil {
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				return nil, apperrors.NewProfileValidationError(ve.Error()).WithMetadata("field", ve.Field)
			}
			return nil, fmt.Errorf("scoring failed: %w", err)
		}
		output.ScoringResult = result

		if cacheKey != "" {
			if err := h.deps.Cache.Set(ctx, cacheKey, result); err != nil {
				log.Warn("result cache write failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	result := output.ScoringResult
	metrics.ReadinessOverallScore.Observe(float64(result.OverallScore))
	metrics.ReadinessConfidence.WithLabelValues(string(result.ConfidenceLevel)).Inc()

	if h.config.PersistResults && h.deps.Store != nil {
		id, err := h.deps.Store.Save(ctx, requestID, profile.BusinessID, result)
		if err != nil {
			log.Warn("scoring result not persisted", map[string]interface{}{
				"requestId": requestID,
				"error":     apperrors.NewResultStoreFailedError(err).Details,
			})
		} else {
			output.ResultID = id
		}
	}

	if h.config.PublishEvents && h.deps.Events != nil {
		event := ScoredEvent{
			OverallScore:     result.OverallScore,
			ConfidenceLevel:  result.ConfidenceLevel,
			DataCompleteness: result.DataCompleteness,
			ScoreBreakdown:   result.ScoreBreakdown,
			ResultID:         output.ResultID,
		}
		if _, err := h.deps.Events.Publish(ctx, aws.EventReadinessScored, requestID, profile.BusinessID, event); err != nil {
			log.Warn("readiness event not published", map[string]interface{}{
				"requestId": requestID,
				"error":     apperrors.NewEventPublishFailedError(aws.EventReadinessScored, err).Details,
			})
		}
	}

	log.Info("profile scored", map[string]interface{}{
		"requestId":        requestID,
		"businessId":       profile.BusinessID,
		"overallScore":     result.OverallScore,
		"confidenceLevel":  result.ConfidenceLevel,
		"dataCompleteness": result.DataCompleteness,
		"fromCache":        output.FromCache,
	})
	return output, nil
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

// Execute runs the scoring pipeline on raw job variables. Exposed for tests and the CLI.
func (h *Handler) Execute(ctx context.Context, variables map[string]interface{}) (*Output, error) {
	input, err := h.parseInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}
