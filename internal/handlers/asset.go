package handlers

import (
	"errors"
	"net/http"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/metrics"
	"video-trimmer/internal/streaming"
)

// UploadAsset accepts a multipart video upload into the session. The form
// field is "file"; its declared Content-Type and filename gate the read
// and the sniffed bytes settle the container.
func (h *Handlers) UploadAsset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeNotification(w, http.StatusBadRequest, "Invalid upload",
			`The upload must be a multipart form with a "file" field.`)
		return
	}
	defer file.Close()

	a, err := s.LoadAsset(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(uploadOutcome(err)).Inc()
		writeError(w, err)
		return
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadBytes.Observe(float64(a.Size()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s.Snapshot())
}

func uploadOutcome(err error) string {
	switch {
	case errors.Is(err, asset.ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, asset.ErrFileTooLarge):
		return "too_large"
	default:
		return "load_error"
	}
}

// Preview streams the loaded asset for the client's video element, with
// byte-range support so the player can seek.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	a, err := s.Asset()
	if err != nil {
		writeError(w, err)
		return
	}

	streaming.ServeBuffer(w, r, a.Filename, a.Container.MIMEType(), a.LoadedAt, a.Data)
}
