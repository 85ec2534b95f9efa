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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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

	FeasibilityCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_calculations_total",
			Help: "Cost analyses produced, by business type",
		},
		[]string{"business_type"},
	)

	LocationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_location_fallback_total",
			Help: "Cost analyses computed on default location data",
		},
		[]string{"reason"},
	)

	LocationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_data_cache_lookups_total",
			Help: "Location data cache lookups by result",
		},
		[]string{"result"},
	)

	DailyHealthScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daily_health_score",
			Help:    "Distribution of recorded daily health scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	HealthAlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_alerts_sent_total",
			Help: "Health alerts delivered, by channel",
		},
		[]string{"channel"},
	)
)
