package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"video-trimmer/internal/memory"
)

func TestLoadConfigDefaults(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("CACHE_DIR", cache)
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if cfg.CutTimeout != 10*time.Minute {
		t.Errorf("CutTimeout = %v, want 10m", cfg.CutTimeout)
	}
	if cfg.StagingDir != filepath.Join(cache, "staging") {
		t.Errorf("StagingDir = %q", cfg.StagingDir)
	}
	if _, err := os.Stat(cfg.StagingDir); err != nil {
		t.Errorf("staging directory was not created: %v", err)
	}
	if cfg.SizeLimits != memory.DefaultLimits() {
		t.Errorf("SizeLimits = %+v, want defaults", cfg.SizeLimits)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SIZE_PROFILE", "mobile")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, want 5m", cfg.SessionTTL)
	}
	if cfg.SizeProfile != memory.ProfileMobile {
		t.Errorf("SizeProfile = %q, want mobile", cfg.SizeProfile)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadConfigYAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
port: "7070"
sizeProfile: low-memory
cutTimeout: 2m
maxUploadBytes:
  default: 2147483648
`
	if err := os.WriteFile(configPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want 7070 (from file)", cfg.Port)
	}
	if cfg.SizeProfile != memory.ProfileLowMemory {
		t.Errorf("SizeProfile = %q, want low-memory", cfg.SizeProfile)
	}
	if cfg.CutTimeout != 2*time.Minute {
		t.Errorf("CutTimeout = %v, want 2m", cfg.CutTimeout)
	}
	if cfg.SizeLimits.Default != 2147483648 {
		t.Errorf("SizeLimits.Default = %d, want 2 GiB", cfg.SizeLimits.Default)
	}
	// File values lose to environment.
	t.Setenv("PORT", "6060")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "6060" {
		t.Errorf("Port = %q, want 6060 (env over file)", cfg.Port)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/sessions/{id}/trim", "api/sessions"},
		{"/api/sessions", "api/sessions"},
		{"/health", "health"},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info.Version == "" || info.GoVersion == "" || info.OS == "" || info.Arch == "" {
		t.Errorf("incomplete build info: %+v", info)
	}
}
