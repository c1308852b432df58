package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: readiness
    user: readiness
  redis:
    address: localhost:6379
workers:
  compute-readiness-score:
    enabled: true
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "readiness-workers", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, PartnerSourcePostgres, cfg.Matching.PartnerSource)
	assert.Equal(t, "partners", cfg.Matching.PartnerIndex)
	assert.Equal(t, 15*time.Minute, cfg.Matching.PartnerCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Scoring.CacheTTL)
	assert.Equal(t, "configs/activity-registry.json", cfg.Registry.Path)

	worker := cfg.Workers["compute-readiness-score"]
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

const domainConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: readiness
    user: readiness
  redis:
    address: localhost:6379
  elasticsearch:
    addresses: ["http://localhost:9200"]
scoring:
  cache_ttl: 2h
  persist_results: true
matching:
  partner_source: elasticsearch
  partner_index: uk-partners
  partner_cache_ttl: 90s
  max_pool_size: 50
events:
  enabled: true
  topic_arn: arn:aws:sns:eu-west-2:123456789012:readiness
  region: eu-west-2
`

func TestLoadFromFile_ParsesDomainSections(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, domainConfig))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Scoring.CacheTTL)
	assert.True(t, cfg.Scoring.PersistResults)
	assert.Equal(t, PartnerSourceElasticsearch, cfg.Matching.PartnerSource)
	assert.Equal(t, "uk-partners", cfg.Matching.PartnerIndex)
	assert.Equal(t, 90*time.Second, cfg.Matching.PartnerCacheTTL)
	assert.Equal(t, 50, cfg.Matching.MaxPoolSize)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "eu-west-2", cfg.Events.Region)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Database.Elasticsearch.Addresses)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_READINESS_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: readiness
    user: readiness
    password: ${TEST_READINESS_DB_PASSWORD}
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_RejectsElasticsearchWithoutAddresses(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
matching:
  partner_source: elasticsearch
`))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "elasticsearch.addresses")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Camunda.BrokerAddress = "localhost:26500"
		cfg.Database.Postgres = PostgresConfig{Host: "db", Database: "readiness", User: "app"}
		cfg.Database.Redis.Address = "localhost:6379"
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{"valid", func(cfg *Config) {}, ""},
		{"missing broker", func(cfg *Config) { cfg.Camunda.BrokerAddress = "" }, "camunda.broker_address"},
		{"missing redis", func(cfg *Config) { cfg.Database.Redis.Address = "" }, "database.redis.address"},
		{"unknown partner source", func(cfg *Config) { cfg.Matching.PartnerSource = "csv" }, "matching.partner_source"},
		{"events without topic", func(cfg *Config) { cfg.Events.Enabled = true }, "events.topic_arn"},
		{"postgres source without host", func(cfg *Config) { cfg.Database.Postgres.Host = "" }, "database.postgres.host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig_FallsBackToDefaults(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"match-partners": {Enabled: false}}}

	assert.False(t, IsWorkerEnabled(cfg, "match-partners"))
	assert.True(t, IsWorkerEnabled(cfg, "compute-readiness-score"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "compute-readiness-score").Timeout)
	assert.Equal(t, 2*time.Second, GetDuration(2000))
}
