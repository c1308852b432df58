// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Scoring

	ReadinessOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readiness_overall_score",
			Help:    "Distribution of overall readiness scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	ReadinessConfidence = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_confidence_total",
			Help: "Scoring results by confidence level",
		},
		[]string{"level"},
	)

	ScoringCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_result_cache_lookups_total",
			Help: "Scoring result cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// Matching

	PartnerRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partner_recommendations_total",
			Help: "Category recommendations emitted by category and urgency",
		},
		[]string{"category", "urgency"},
	)

	PartnerPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "partner_pool_size",
			Help:    "Number of partner records loaded per matching job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// Cache lookup outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheErr  = "error"
)
