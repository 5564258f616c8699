package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"accepted", "invalid_format", "too_large", "load_error"} {
		UploadsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"ready", "failed"} {
		TrimJobsTotal.WithLabelValues(status)
	}

	for _, kind := range []string{"cut", "probe", "frame"} {
		EngineInvocationsTotal.WithLabelValues(kind, "success")
		EngineInvocationsTotal.WithLabelValues(kind, "error")
	}

	for _, status := range []string{"success", "error"} {
		FilmstripGenerationsTotal.WithLabelValues(status)
	}
}
