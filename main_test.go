package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"video-trimmer/internal/engine"
	"video-trimmer/internal/handlers"
	"video-trimmer/internal/metrics"
	"video-trimmer/internal/session"
)

func newTestManager(t *testing.T, runtime *engine.Runtime) *session.Manager {
	t.Helper()
	manager := session.NewManager(runtime, func() (session.Cutter, error) {
		return nil, nil
	}, nil, session.DefaultConfig())
	t.Cleanup(manager.Stop)
	return manager
}

func TestStatsAdapter(t *testing.T) {
	runtime := engine.NewRuntime(engine.RuntimeConfig{})
	manager := newTestManager(t, runtime)

	adapter := &statsAdapter{manager: manager, runtime: runtime}

	// Verify the adapter implements the interface
	var _ metrics.StatsProvider = adapter

	stats := adapter.GetStats()
	if stats.ActiveSessions != 0 {
		t.Errorf("ActiveSessions = %d, want 0", stats.ActiveSessions)
	}
	if stats.EngineState != int(engine.StateUnloaded) {
		t.Errorf("EngineState = %d, want %d", stats.EngineState, engine.StateUnloaded)
	}
}

func TestSetupRouterServesStaticFallback(t *testing.T) {
	runtime := engine.NewRuntime(engine.RuntimeConfig{})
	manager := newTestManager(t, runtime)
	router := setupRouter(handlers.New(manager, runtime), t.TempDir())

	// Unknown non-API paths fall through to the static file server.
	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("static fallback status = %d, want 404", rec.Code)
	}

	// API routes stay owned by the handlers.
	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("/version status = %d, want 200", rec.Code)
	}
}
