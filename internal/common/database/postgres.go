// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"readiness-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// schemaStatements create the partner catalog and scoring result tables.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS partners (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		category      TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		specialties   TEXT[] NOT NULL DEFAULT '{}',
		location      TEXT NOT NULL DEFAULT '',
		verified      BOOLEAN NOT NULL DEFAULT FALSE,
		website       TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		active        BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS partners_category_idx ON partners (lower(category)) WHERE active`,
	`CREATE TABLE IF NOT EXISTS readiness_results (
		id                UUID PRIMARY KEY,
		request_id        TEXT NOT NULL,
		business_id       TEXT NOT NULL DEFAULT '',
		overall_score     INTEGER NOT NULL,
		confidence_level  TEXT NOT NULL,
		data_completeness INTEGER NOT NULL,
		result            JSONB NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS readiness_results_business_idx ON readiness_results (business_id, created_at DESC)`,
}

// PostgresClient wraps the SQL connection pool used by the repositories.
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema creates the tables the repositories read and write. Statements are idempotent.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
