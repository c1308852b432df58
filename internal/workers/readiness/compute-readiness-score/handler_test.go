// internal/workers/readiness/compute-readiness-score/handler_test.go
package computereadinessscore

import (
	"context"
	"errors"
	"testing"
	"time"

	"readiness-workers/internal/common/aws"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/validation"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"
	"readiness-workers/internal/repository"
	"readiness-workers/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeStore struct {
	saved []string
	err   error
}

func (f *fakeStore) Save(_ context.Context, requestID, businessID string, _ *scoring.Result) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, requestID+"/"+businessID)
	return "result-1", nil
}

type fakePublisher struct {
	events []string
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, eventType, requestID, _ string, payload interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, ok := payload.(ScoredEvent); !ok {
		return "", errors.New("unexpected payload type")
	}
	f.events = append(f.events, eventType+":"+requestID)
	return "event-1", nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		CacheTTL:       time.Hour,
		PersistResults: true,
		PublishEvents:  true,
	}
}

func testEngine() *scoring.Engine {
	return scoring.NewEngine(scoring.WithClock(func() time.Time { return fixedNow }))
}

func createTestHandler(t *testing.T, cfg *Config, deps Dependencies) *Handler {
	if cfg == nil {
		cfg = createTestConfig()
	}
	if deps.Engine == nil {
		deps.Engine = testEngine()
	}
	return NewHandler(cfg, deps, logger.NewTestLogger(t))
}

func newRedisCache(t *testing.T) (*repository.ResultCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewResultCache(client, time.Hour), mr
}

func testValidator(t *testing.T) *validation.Validator {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:       TaskType,
		TaskType: TaskType,
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"businessProfile"},
			"properties": map[string]interface{}{
				"requestId":       map[string]interface{}{"type": "string"},
				"businessProfile": map[string]interface{}{"type": "object"},
				"verification":    map[string]interface{}{"type": []interface{}{"object", "null"}},
				"siteSignals":     map[string]interface{}{"type": []interface{}{"object", "null"}},
			},
		},
	}}}
	v, err := validation.NewValidator(reg)
	require.NoError(t, err)
	return v
}

func retailerVariables() map[string]interface{} {
	return map[string]interface{}{
		"requestId": "req-42",
		"businessProfile": map[string]interface{}{
			"businessId":         "biz-7",
			"companyName":        "Northern Threads",
			"ukRegistered":       "No",
			"industry":           "Retail",
			"companySize":        "1-10 employees",
			"foundingYear":       float64(2021),
			"targetMarkets":      []interface{}{"UK"},
			"productDescription": "Sustainable clothing brand selling organic cotton basics to shoppers",
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ScoresProfile(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}
	handler := createTestHandler(t, nil, Dependencies{Store: store, Events: publisher, Validator: testValidator(t)})

	output, err := handler.Execute(context.Background(), retailerVariables())
	require.NoError(t, err)

	assert.Equal(t, "req-42", output.RequestID)
	require.NotNil(t, output.ScoringResult)
	assert.Len(t, output.ScoringResult.ScoreBreakdown, len(scoring.Categories))
	assert.Equal(t, 0, output.ScoringResult.Score(scoring.RegulatoryCompatibility))
	assert.NotNil(t, output.IgnoredFields)
	assert.Empty(t, output.IgnoredFields)
	assert.False(t, output.FromCache)

	assert.Equal(t, "result-1", output.ResultID)
	assert.Equal(t, []string{"req-42/biz-7"}, store.saved)
	assert.Equal(t, []string{aws.EventReadinessScored + ":req-42"}, publisher.events)
}

func TestHandler_Execute_MatchesEngineDirectly(t *testing.T) {
	handler := createTestHandler(t, nil, Dependencies{})
	output, err := handler.Execute(context.Background(), retailerVariables())
	require.NoError(t, err)

	profile, _ := models.DecodeProfile(retailerVariables()["businessProfile"].(map[string]interface{}))
	direct, err := testEngine().Score(profile, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, direct, output.ScoringResult)
}

func TestHandler_Execute_GeneratesRequestID(t *testing.T) {
	vars := retailerVariables()
	delete(vars, "requestId")

	handler := createTestHandler(t, nil, Dependencies{})
	output, err := handler.Execute(context.Background(), vars)
	require.NoError(t, err)
	assert.Len(t, output.RequestID, 36)
}

func TestHandler_Execute_ReportsIgnoredFields(t *testing.T) {
	vars := retailerVariables()
	profile := vars["businessProfile"].(map[string]interface{})
	profile["hasEcommerce"] = map[string]interface{}{"unexpected": true}
	vars["verification"] = map[string]interface{}{"registered": true, "ageYears": "not-a-number"}

	handler := createTestHandler(t, nil, Dependencies{})
	output, err := handler.Execute(context.Background(), vars)
	require.NoError(t, err)

	assert.Equal(t, []string{"hasEcommerce", "verification.ageYears"}, output.IgnoredFields)
}

// ==========================
// Cache Tests
// ==========================

func TestHandler_Execute_CachesResults(t *testing.T) {
	cache, mr := newRedisCache(t)
	handler := createTestHandler(t, nil, Dependencies{Cache: cache})
	ctx := context.Background()

	first, err := handler.Execute(ctx, retailerVariables())
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Len(t, mr.Keys(), 1)

	second, err := handler.Execute(ctx, retailerVariables())
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.ScoringResult, second.ScoringResult)
}

func TestHandler_Execute_CacheOutageDoesNotFailJob(t *testing.T) {
	cache, mr := newRedisCache(t)
	mr.Close()

	handler := createTestHandler(t, nil, Dependencies{Cache: cache})
	output, err := handler.Execute(context.Background(), retailerVariables())
	require.NoError(t, err)
	assert.False(t, output.FromCache)
	assert.NotNil(t, output.ScoringResult)
}

// ==========================
// Side Effect Tests
// ==========================

func TestHandler_Execute_StoreAndPublishFailuresAreLogged(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	publisher := &fakePublisher{err: errors.New("AccessDenied")}
	handler := createTestHandler(t, nil, Dependencies{Store: store, Events: publisher})

	output, err := handler.Execute(context.Background(), retailerVariables())
	require.NoError(t, err)
	assert.Empty(t, output.ResultID)
}

func TestHandler_Execute_SideEffectsFollowConfig(t *testing.T) {
	store := &fakeStore{}
	publisher := &fakePublisher{}
	cfg := createTestConfig()
	cfg.PersistResults = false
	cfg.PublishEvents = false

	handler := createTestHandler(t, cfg, Dependencies{Store: store, Events: publisher})
	_, err := handler.Execute(context.Background(), retailerVariables())
	require.NoError(t, err)

	assert.Empty(t, store.saved)
	assert.Empty(t, publisher.events)
}

// ==========================
// Validation Error Tests
// ==========================

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		validator bool
		wantField string
	}{
		{
			name:      "schema rejects missing profile",
			variables: map[string]interface{}{"requestId": "req-1"},
			validator: true,
		},
		{
			name:      "schema rejects non-object profile",
			variables: map[string]interface{}{"businessProfile": "Northern Threads"},
			validator: true,
		},
		{
			name:      "missing profile without schema",
			variables: map[string]interface{}{"requestId": "req-1"},
			wantField: "businessProfile",
		},
		{
			name: "founding year in the future",
			variables: map[string]interface{}{
				"businessProfile": map[string]interface{}{"foundingYear": float64(2031)},
			},
			validator: true,
			wantField: "foundingYear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := Dependencies{}
			if tt.validator {
				deps.Validator = testValidator(t)
			}
			handler := createTestHandler(t, nil, deps)

			output, err := handler.Execute(context.Background(), tt.variables)
			require.Error(t, err)
			assert.Nil(t, output)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
			assert.False(t, stdErr.Retryable)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, stdErr.Metadata["field"])
			}
		})
	}
}

// ==========================
// Config Tests
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.PersistResults)
}
