package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"video-trimmer/internal/logging"
	"video-trimmer/internal/memory"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	CacheDir  string
	StaticDir string

	Port           string
	MetricsPort    string
	MetricsEnabled bool

	LogStaticFiles  bool
	LogHealthChecks bool

	FFmpegPath  string
	FFprobePath string

	SizeProfile memory.Profile
	SizeLimits  memory.Limits

	SessionTTL time.Duration
	CutTimeout time.Duration

	CORSOrigins []string

	// Derived paths
	StagingDir string
}

// fileConfig mirrors the optional YAML configuration file. Environment
// variables override anything set here.
type fileConfig struct {
	Port        string   `yaml:"port"`
	MetricsPort string   `yaml:"metricsPort"`
	CacheDir    string   `yaml:"cacheDir"`
	StaticDir   string   `yaml:"staticDir"`
	FFmpegPath  string   `yaml:"ffmpegPath"`
	FFprobePath string   `yaml:"ffprobePath"`
	SizeProfile string   `yaml:"sizeProfile"`
	SessionTTL  string   `yaml:"sessionTTL"`
	CutTimeout  string   `yaml:"cutTimeout"`
	CORSOrigins []string `yaml:"corsOrigins"`

	MaxUploadBytes struct {
		Default   int64 `yaml:"default"`
		Mobile    int64 `yaml:"mobile"`
		LowMemory int64 `yaml:"lowMemory"`
	} `yaml:"maxUploadBytes"`
}

// LoadConfig loads and validates configuration. Resolution order per value:
// environment variable, then the optional CONFIG_FILE YAML, then built-in
// default.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	file, err := loadFileConfig()
	if err != nil {
		return nil, err
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	cacheDir := resolve("CACHE_DIR", file.CacheDir, "/cache")
	staticDir := resolve("STATIC_DIR", file.StaticDir, "./static")
	port := resolve("PORT", file.Port, "8080")
	metricsPort := resolve("METRICS_PORT", file.MetricsPort, "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	ffmpegPath := resolve("FFMPEG_PATH", file.FFmpegPath, "")
	ffprobePath := resolve("FFPROBE_PATH", file.FFprobePath, "")
	sizeProfile := memory.ParseProfile(resolve("SIZE_PROFILE", file.SizeProfile, ""))
	sessionTTLStr := resolve("SESSION_TTL", file.SessionTTL, "30m")
	cutTimeoutStr := resolve("CUT_TIMEOUT", file.CutTimeout, "10m")

	corsOrigins := file.CORSOrigins
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		corsOrigins = strings.Split(env, ",")
		for i := range corsOrigins {
			corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
		}
	}

	logging.Info("  CACHE_DIR:         %s", cacheDir)
	logging.Info("  STATIC_DIR:        %s", staticDir)
	logging.Info("  PORT:              %s", port)
	logging.Info("  METRICS_PORT:      %s", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  FFMPEG_PATH:       %s", orAuto(ffmpegPath))
	logging.Info("  FFPROBE_PATH:      %s", orAuto(ffprobePath))
	logging.Info("  SIZE_PROFILE:      %s", orAuto(string(sizeProfile)))
	logging.Info("  SESSION_TTL:       %s", sessionTTLStr)
	logging.Info("  CUT_TIMEOUT:       %s", cutTimeoutStr)
	logging.Info("  LOG_STATIC_FILES:  %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	sessionTTL, err := time.ParseDuration(sessionTTLStr)
	if err != nil {
		logging.Warn("  Invalid SESSION_TTL, using default: 30m")
		sessionTTL = 30 * time.Minute
	}

	cutTimeout, err := time.ParseDuration(cutTimeoutStr)
	if err != nil {
		logging.Warn("  Invalid CUT_TIMEOUT, using default: 10m")
		cutTimeout = 10 * time.Minute
	}

	limits := memory.DefaultLimits()
	if file.MaxUploadBytes.Default > 0 {
		limits.Default = file.MaxUploadBytes.Default
	}
	if file.MaxUploadBytes.Mobile > 0 {
		limits.Mobile = file.MaxUploadBytes.Mobile
	}
	if file.MaxUploadBytes.LowMemory > 0 {
		limits.LowMemory = file.MaxUploadBytes.LowMemory
	}

	// Resolve directories
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	config := &Config{
		CacheDir:        cacheDir,
		StaticDir:       staticDir,
		Port:            port,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
		FFmpegPath:      ffmpegPath,
		FFprobePath:     ffprobePath,
		SizeProfile:     sizeProfile,
		SizeLimits:      limits,
		SessionTTL:      sessionTTL,
		CutTimeout:      cutTimeout,
		CORSOrigins:     corsOrigins,
		StagingDir:      filepath.Join(cacheDir, "staging"),
	}

	// The staging directory is where engine cuts run; it is required.
	if err := ensureDirectory(config.StagingDir, "staging"); err != nil {
		return nil, fmt.Errorf("staging directory error: %w", err)
	}

	logging.Debug("  Testing staging directory write access...")
	if err := testWriteAccess(config.StagingDir); err != nil {
		return nil, fmt.Errorf("staging directory is not writable (required for trimming): %w", err)
	}
	logging.Info("  [OK] Staging directory is writable")

	return config, nil
}

// loadFileConfig reads the optional YAML file named by CONFIG_FILE.
func loadFileConfig() (*fileConfig, error) {
	cfg := &fileConfig{}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	logging.Info("Loaded configuration file: %s", path)
	return cfg, nil
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// LogEngineInit logs engine runtime setup
func LogEngineInit(ffmpegPath, ffprobePath string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENGINE SETUP")
	logging.Info("------------------------------------------------------------")
	logging.Info("  ffmpeg:  %s", orAuto(ffmpegPath))
	logging.Info("  ffprobe: %s", orAuto(ffprobePath))
	logging.Info("  Engine loads on first use; trims copy streams without re-encoding")
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
 _    ___     __           ______    _
| |  / (_)___/ /__  ____  /_  __/___(_)___ ___  ____ ___  ___  _____
| | / / / __  / _ \/ __ \  / / / ___/ / __ '__ \/ __ '__ \/ _ \/ ___/
| |/ / / /_/ /  __/ /_/ / / / / /  / / / / / / / / / / / /  __/ /
|___/_/\__,_/\___/\____/ /_/ /_/  /_/_/ /_/ /_/_/ /_/ /_/\___/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

// resolve returns the first non-empty of env value, file value, default.
func resolve(envKey, fileValue, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func orAuto(s string) string {
	if s == "" {
		return "(auto)"
	}
	return s
}
