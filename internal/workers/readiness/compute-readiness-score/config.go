// internal/workers/readiness/compute-readiness-score/config.go
package computereadinessscore

import (
	"time"

	"readiness-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	CacheTTL       time.Duration
	PersistResults bool
	PublishEvents  bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}

// ConfigFrom builds the worker config from the application config.
func ConfigFrom(app *config.Config) *Config {
	cfg := LoadConfig()
	if wc := config.GetWorkerConfig(app, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if app.Scoring.CacheTTL > 0 {
		cfg.CacheTTL = app.Scoring.CacheTTL
	}
	cfg.PersistResults = app.Scoring.PersistResults
	cfg.PublishEvents = app.Events.Enabled
	return cfg
}
