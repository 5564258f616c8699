package handlers

import (
	"net/http"

	"video-trimmer/internal/media"
	"video-trimmer/internal/session"

	"github.com/gorilla/mux"
)

type Handlers struct {
	manager      *session.Manager
	engine       session.Engine
	filmstripCfg media.FilmstripConfig
	started      bool
}

func New(manager *session.Manager, eng session.Engine) *Handlers {
	return &Handlers{
		manager:      manager,
		engine:       eng,
		filmstripCfg: media.DefaultFilmstripConfig(),
		started:      true,
	}
}

// RegisterRoutes attaches the API surface to the router.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.ResetSession).Methods(http.MethodDelete)

	api.HandleFunc("/sessions/{id}/asset", h.UploadAsset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/preview", h.Preview).Methods(http.MethodGet, http.MethodHead)

	api.HandleFunc("/sessions/{id}/pointer", h.Pointer).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/seek", h.Seek).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/marker", h.SetMarker).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/playback", h.Playback).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{id}/trim", h.Trim).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/job", h.Job).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/artifact", h.Artifact).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/filmstrip", h.Filmstrip).Methods(http.MethodGet)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)
}

// sessionFromRequest resolves the {id} path variable to a live session.
func (h *Handlers) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	s, ok := h.manager.Get(id)
	if !ok {
		writeNotification(w, http.StatusNotFound, "Session not found",
			"The editing session does not exist or has expired. Create a new one.")
		return nil, false
	}
	return s, true
}
