package handlers

import (
	"net/http"
	"time"

	"video-trimmer/internal/engine"
	"video-trimmer/internal/startup"
)

var serviceStart = time.Now()

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	EngineState string `json:"engineState"`
	Sessions    int    `json:"sessions"`
}

// HealthCheck reports service health along with the engine state and the
// number of live editing sessions. The service is healthy even before the
// engine loads; the engine is lazy and readiness is reported separately.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Version:     startup.GetBuildInfo().Version,
		Uptime:      time.Since(serviceStart).Round(time.Second).String(),
		EngineState: h.engine.State().String(),
		Sessions:    h.manager.Count(),
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

// LivenessCheck is a minimal probe endpoint. HEAD gets an empty 200.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// ReadinessCheck reports 200 once the service can accept work. The engine
// loads on demand, so unloaded still counts as ready; only a loading or
// failed engine defers traffic.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	state := h.engine.State()
	ready := h.started && state != engine.StateLoading

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, map[string]interface{}{
		"ready":       ready,
		"engineState": state.String(),
	})
}
