package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_trimmer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_trimmer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_trimmer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Session metrics
var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_trimmer_active_sessions",
			Help: "Number of live editing sessions",
		},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_trimmer_sessions_created_total",
			Help: "Total number of editing sessions created",
		},
	)

	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_trimmer_sessions_expired_total",
			Help: "Total number of idle sessions reclaimed by the janitor",
		},
	)
)

// Upload metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_trimmer_uploads_total",
			Help: "Total number of video uploads by outcome",
		},
		[]string{"status"}, // "accepted", "invalid_format", "too_large", "load_error"
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_trimmer_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<20, 4, 8), // 1 MiB .. 16 GiB
		},
	)
)

// Trim metrics
var (
	TrimJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_trimmer_trim_jobs_total",
			Help: "Total number of trim jobs by outcome",
		},
		[]string{"status"}, // "ready" or "failed"
	)

	TrimJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_trimmer_trim_job_duration_seconds",
			Help:    "Trim job duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ArtifactsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_trimmer_artifacts_released_total",
			Help: "Total number of trim artifacts released by supersession or reset",
		},
	)
)

// Engine metrics
var (
	EngineState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_trimmer_engine_state",
			Help: "Engine lifecycle state (0 = unloaded, 1 = loading, 2 = ready)",
		},
	)

	EngineInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_trimmer_engine_invocations_total",
			Help: "Total number of engine invocations by kind and outcome",
		},
		[]string{"kind", "status"}, // kind: "cut", "probe", "frame"
	)
)

// Filmstrip metrics
var (
	FilmstripGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_trimmer_filmstrip_generations_total",
			Help: "Total number of filmstrip generations by outcome",
		},
		[]string{"status"}, // "success" or "error"
	)

	FilmstripGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_trimmer_filmstrip_generation_duration_seconds",
			Help:    "Filmstrip generation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_trimmer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
