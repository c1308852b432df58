// internal/workers/readiness/match-partners/config.go
package matchpartners

import (
	"time"

	"readiness-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	PartnerSource string
	PublishEvents bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		PartnerSource: config.PartnerSourcePostgres,
	}
}

// ConfigFrom builds the worker config from the application config.
func ConfigFrom(app *config.Config) *Config {
	cfg := LoadConfig()
	if wc := config.GetWorkerConfig(app, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if app.Matching.PartnerSource != "" {
		cfg.PartnerSource = app.Matching.PartnerSource
	}
	cfg.PublishEvents = app.Events.Enabled
	return cfg
}
