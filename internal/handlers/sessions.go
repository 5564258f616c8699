package handlers

import (
	"net/http"

	"video-trimmer/internal/logging"
)

// CreateSession mints a new editing session.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Create()
	if err != nil {
		logging.Error("failed to create session: %v", err)
		writeNotification(w, http.StatusInternalServerError, "Something went wrong",
			"Could not create an editing session.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s.Snapshot())
}

// GetSession returns the full session state.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}

// ResetSession returns the session to its initial state, releasing the
// asset, timeline state, job and any trimmed artifact.
func (h *Handlers) ResetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	s.Reset()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}
