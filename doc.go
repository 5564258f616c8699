// Package main provides the entry point for the Video Trimmer application.
//
// Video Trimmer is a self-hosted web application for trimming video clips in
// the browser. A clip is uploaded into an in-memory editing session, scrubbed
// on an interactive timeline with draggable start/end markers, and cut with
// ffmpeg stream copy so no re-encoding takes place.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Configuration Loading: Reads environment variables (and an optional
//     YAML file) and validates the staging directory
//  2. Size Policy Resolution: Picks the upload ceiling from the configured
//     profile or the host's total RAM
//  3. Engine Runtime Setup: Records the ffmpeg/ffprobe paths; binaries are
//     resolved and verified lazily on first use
//  4. Component Initialization:
//     - Session Manager: In-memory session store with an expiry janitor
//     - Metrics Collector: Gathers Prometheus metrics
//  5. HTTP Server Setup: Configures routes, middleware, and starts server
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - Static file serving for the editor UI
//     - Session lifecycle API
//     - Asset upload and byte-range preview streaming
//     - Timeline events (pointer, seek, markers, playback)
//     - Trim jobs with progress polling and artifact download
//     - Filmstrip rendering
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
// Configuration is primarily through environment variables:
//
//   - CACHE_DIR: Directory for engine staging files
//   - STATIC_DIR: Directory with the editor's static assets
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - FFMPEG_PATH / FFPROBE_PATH: Engine binaries (default: from PATH)
//   - SIZE_PROFILE: Upload size profile (default/mobile/low-memory)
//   - SESSION_TTL: Idle session lifetime (default: 30m)
//   - CUT_TIMEOUT: Per-trim engine deadline (default: 10m)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Graceful Shutdown
//
// The application handles SIGINT and SIGTERM signals gracefully:
//
//  1. Stop the metrics collector
//  2. Release all editing sessions and their staging directories
//  3. Shutdown the metrics server (if running)
//  4. Shutdown the main HTTP server (30s timeout)
//
// # Build Requirements
//
// FFmpeg and FFprobe must be present at runtime for trimming, probing and
// filmstrip frames. The binary itself is pure Go and builds with:
//
//	go build -o video-trimmer .
//
// # Related Packages
//
//   - [video-trimmer/internal/session]: Editing session orchestration
//   - [video-trimmer/internal/engine]: ffmpeg/ffprobe process management
//   - [video-trimmer/internal/timeline]: Marker and playback state machine
//   - [video-trimmer/internal/asset]: Upload validation and probing
//   - [video-trimmer/internal/handlers]: HTTP request handlers
//   - [video-trimmer/internal/middleware]: HTTP middleware (logging, metrics)
//   - [video-trimmer/internal/startup]: Configuration and initialization
package main
