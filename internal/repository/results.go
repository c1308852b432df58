package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrResultNotFound is returned when no scoring result exists for a business.
var ErrResultNotFound = errors.New("scoring result not found")

// ResultStore persists scoring results for callers that keep a history.
type ResultStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{db: db, now: time.Now}
}

// Save inserts result and returns the generated record ID.
func (s *ResultStore) Save(ctx context.Context, requestID, businessID string, result *scoring.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode scoring result: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO readiness_results (id, request_id, business_id, overall_score, confidence_level, data_completeness, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, requestID, businessID, result.OverallScore, string(result.ConfidenceLevel),
		result.DataCompleteness, payload, s.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert scoring result: %w", err)
	}
	return id, nil
}

// Latest returns the most recent result stored for businessID.
func (s *ResultStore) Latest(ctx context.Context, businessID string) (*scoring.Result, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM readiness_results WHERE business_id = $1 ORDER BY created_at DESC LIMIT 1`,
		businessID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring result: %w", err)
	}

	var result scoring.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode scoring result: %w", err)
	}
	return &result, nil
}

// ResultCache memoises scoring results by a hash of the inputs and the scoring date.
type ResultCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewResultCache(redisClient *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{redis: redisClient, ttl: ttl}
}

// Key hashes the decoded inputs. The date is part of the key because years in
// business and founding-year checks depend on it.
func (c *ResultCache) Key(now time.Time, profile *models.BusinessProfile, verification *models.VerificationRecord, signals *models.SiteSignals) (string, error) {
	data, err := json.Marshal(struct {
		Date         string                     `json:"date"`
		Profile      *models.BusinessProfile    `json:"profile"`
		Verification *models.VerificationRecord `json:"verification"`
		Signals      *models.SiteSignals        `json:"signals"`
	}{now.UTC().Format("2006-01-02"), profile, verification, signals})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "readiness:result:" + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached result, or false on a miss.
func (c *ResultCache) Get(ctx context.Context, key string) (*scoring.Result, bool, error) {
	cached, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result scoring.Result
	if err := json.Unmarshal([]byte(cached), &result); err != nil {
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *scoring.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, data, c.ttl).Err()
}
