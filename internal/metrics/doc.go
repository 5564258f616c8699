// Package metrics provides Prometheus instrumentation for the video-trimmer
// service.
//
// All metrics are prefixed with "video_trimmer_" to avoid naming collisions
// with other applications. Categories:
//
//   - HTTP: request totals, durations and in-flight count, recorded by the
//     middleware layer.
//   - Sessions: live session gauge plus created/expired counters.
//   - Uploads: per-outcome counter and an accepted-size histogram.
//   - Trims: per-outcome job counter, duration histogram, and a counter of
//     artifacts released by supersession or reset.
//   - Engine: lifecycle-state gauge and per-invocation counters.
//   - Filmstrip: generation counter and duration histogram.
//
// InitializeMetrics pre-registers every expected label combination so the
// full series set is visible from the first scrape.
package metrics
