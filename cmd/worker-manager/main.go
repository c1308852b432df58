// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"readiness-workers/internal/common/aws"
	"readiness-workers/internal/common/camunda"
	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/database"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/observability"
	"readiness-workers/internal/common/validation"
	"readiness-workers/internal/engine/matching"
	"readiness-workers/internal/engine/scoring"
	"readiness-workers/internal/repository"
	"readiness-workers/pkg/registry"

	crs "readiness-workers/internal/workers/readiness/compute-readiness-score"
	mp "readiness-workers/internal/workers/readiness/match-partners"
)

// backends holds the connected storage clients. Postgres and Elasticsearch are nil
// when the configuration does not need them.
type backends struct {
	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		TracingEnabled: cfg.Tracing.Enabled,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	zeebe, err := camunda.Connect(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	stores, err := connectBackends(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backend connection failed", zap.Error(err))
	}
	defer stores.close()

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err), zap.String("path", cfg.Registry.Path))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schemas invalid", zap.Error(err))
	}

	var events *aws.EventPublisher
	if cfg.Events.Enabled {
		events, err = aws.NewEventPublisher(ctx, cfg.Events.Region, cfg.Events.TopicARN)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
	}

	registrations := buildRegistrations(cfg, stores, validator, events, obs, log)
	workers := camunda.StartWorkers(zeebe.GetClient(), registrations, log)
	zapLog.Info("Readiness workers registered", zap.Int("workers", len(workers)))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           newHealthMux(stores.checks(zeebe), log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	camunda.StopWorkers(workers)
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func connectBackends(ctx context.Context, cfg *config.Config, log logger.Logger) (*backends, error) {
	b := &backends{}
	retry := camunda.RetryConfig{MaxAttempts: 15, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second}

	if cfg.Matching.PartnerSource == config.PartnerSourcePostgres || cfg.Scoring.PersistResults {
		err := camunda.RetryWithBackoff(ctx, retry, log, "PostgreSQL connection", func(ctx context.Context) error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			b.pg = pg
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := b.pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info("PostgreSQL connected successfully", nil)
	}

	if cfg.Matching.PartnerSource == config.PartnerSourceElasticsearch {
		err := camunda.RetryWithBackoff(ctx, retry, log, "Elasticsearch connection", func(ctx context.Context) error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			b.es = es
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := b.es.EnsurePartnerIndex(ctx, cfg.Matching.PartnerIndex); err != nil {
			return nil, err
		}
		log.Info("Elasticsearch connected successfully", map[string]interface{}{"index": cfg.Matching.PartnerIndex})
	}

	b.redis = database.NewRedis(cfg.Database.Redis)
	retry.MaxAttempts = 10
	if err := camunda.RetryWithBackoff(ctx, retry, log, "Redis connection", b.redis.Ping); err != nil {
		return nil, err
	}
	log.Info("Redis connected successfully", nil)
	return b, nil
}

func (b *backends) close() {
	if b.pg != nil {
		_ = b.pg.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func (b *backends) checks(zeebe *camunda.Client) map[string]healthCheck {
	checks := map[string]healthCheck{
		"zeebe": zeebe.HealthCheck,
		"redis": b.redis.Ping,
	}
	if b.pg != nil {
		checks["postgres"] = b.pg.Ping
	}
	if b.es != nil {
		checks["elasticsearch"] = b.es.Ping
	}
	return checks
}

func buildRegistrations(
	cfg *config.Config,
	b *backends,
	validator *validation.Validator,
	events *aws.EventPublisher,
	obs *observability.Observability,
	log logger.Logger,
) []camunda.Registration {
	scoreDeps := crs.Dependencies{
		Engine:        scoring.NewEngine(scoring.WithLogger(log)),
		Cache:         repository.NewResultCache(b.redis.Client, cfg.Scoring.CacheTTL),
		Validator:     validator,
		Observability: obs,
	}
	if b.pg != nil {
		scoreDeps.Store = repository.NewResultStore(b.pg.DB)
	}

	var catalog repository.PartnerStore
	switch cfg.Matching.PartnerSource {
	case config.PartnerSourceElasticsearch:
		catalog = repository.NewElasticsearchPartnerStore(b.es.Client, cfg.Matching.PartnerIndex, cfg.Matching.MaxPoolSize)
	default:
		catalog = repository.NewPostgresPartnerStore(b.pg.DB, cfg.Matching.MaxPoolSize)
	}
	matchDeps := mp.Dependencies{
		Engine:        matching.NewEngine(matching.WithLogger(log)),
		Partners:      repository.NewCachedPartnerStore(catalog, b.redis.Client, cfg.Matching.PartnerCacheTTL, log),
		Validator:     validator,
		Observability: obs,
	}

	// A nil *EventPublisher must not reach the interface fields.
	if events != nil {
		scoreDeps.Events = events
		matchDeps.Events = events
	}

	return []camunda.Registration{
		{
			TaskType: crs.TaskType,
			Config:   config.GetWorkerConfig(cfg, crs.TaskType),
			Handler:  crs.NewHandler(crs.ConfigFrom(cfg), scoreDeps, log),
		},
		{
			TaskType: mp.TaskType,
			Config:   config.GetWorkerConfig(cfg, mp.TaskType),
			Handler:  mp.NewHandler(mp.ConfigFrom(cfg), matchDeps, log),
		},
	}
}
