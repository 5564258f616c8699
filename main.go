package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/engine"
	"video-trimmer/internal/handlers"
	"video-trimmer/internal/logging"
	"video-trimmer/internal/memory"
	"video-trimmer/internal/metrics"
	"video-trimmer/internal/middleware"
	"video-trimmer/internal/session"
	"video-trimmer/internal/startup"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Resolve the upload size policy for this host
	policy := memory.ResolvePolicy(config.SizeProfile, config.SizeLimits)

	// Initialize the engine runtime (lazy; binaries verify on first use)
	startup.LogEngineInit(config.FFmpegPath, config.FFprobePath)
	runtime := engine.NewRuntime(engine.RuntimeConfig{
		FFmpegPath:  config.FFmpegPath,
		FFprobePath: config.FFprobePath,
	})

	// Initialize the session manager
	manager := session.NewManager(runtime, func() (session.Cutter, error) {
		return runtime.NewAdapter(config.StagingDir)
	}, asset.NewLoader(policy), session.Config{
		SessionTTL: config.SessionTTL,
		CutTimeout: config.CutTimeout,
	})
	manager.StartJanitor()

	// Initialize metrics
	metrics.InitializeMetrics()
	buildInfo := startup.GetBuildInfo()
	metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)

	collector := metrics.NewCollector(&statsAdapter{manager: manager, runtime: runtime}, time.Minute)
	collector.Start()

	// Initialize handlers
	h := handlers.New(manager, runtime)

	// Setup router
	router := setupRouter(h, config.StaticDir)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply metrics middleware
	metricsConfig := middleware.DefaultMetricsConfig()
	meteredRouter := middleware.Metrics(metricsConfig)(router)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(meteredRouter)

	// Apply compression middleware
	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(loggedHandler)

	// Apply CORS when origins are configured
	if len(config.CORSOrigins) > 0 {
		handler = gorillahandlers.CORS(
			gorillahandlers.AllowedOrigins(config.CORSOrigins),
			gorillahandlers.AllowedMethods([]string{"GET", "HEAD", "POST", "DELETE"}),
			gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
		)(handler)
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = startMetricsServer(config.MetricsPort)
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, manager, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// statsAdapter bridges the session manager and engine runtime to the
// metrics collector.
type statsAdapter struct {
	manager *session.Manager
	runtime *engine.Runtime
}

func (s *statsAdapter) GetStats() metrics.Stats {
	return metrics.Stats{
		ActiveSessions: s.manager.Count(),
		EngineState:    int(s.runtime.State()),
	}
}

func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()

	// API, health check and version routes
	h.RegisterRoutes(r)

	// Static files (the editor UI)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}

func startMetricsServer(port string) *http.Server {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      m,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return srv
}

func handleShutdown(srv, metricsSrv *http.Server, manager *session.Manager, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Releasing editing sessions")
	manager.Stop()
	startup.LogShutdownStepComplete("Sessions released")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
