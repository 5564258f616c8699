package handlers

import (
	"fmt"
	"net/http"

	"video-trimmer/internal/streaming"
)

// Trim starts a cut of the current marker range. The work runs in the
// background; the client polls /job for progress. Accepting a new trim
// releases any previous artifact.
func (h *Handlers) Trim(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	job, err := s.RunTrim()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, job)
}

// Job reports the state of the trim job for polling clients.
func (h *Handlers) Job(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Job())
}

// Artifact downloads the most recent trim result as an attachment.
func (h *Handlers) Artifact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	a, err := s.Artifact()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	streaming.ServeBuffer(w, r, a.Filename, a.Container.MIMEType(), a.CreatedAt, a.Data)
}
