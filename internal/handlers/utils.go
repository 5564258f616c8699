package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/engine"
	"video-trimmer/internal/logging"
	"video-trimmer/internal/session"
)

// Notification is the error payload shown to the user as a toast.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeNotification writes a {title, body} error payload.
func writeNotification(w http.ResponseWriter, statusCode int, title, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, Notification{Title: title, Body: body})
}

// writeError maps a domain error onto its HTTP status and user-facing
// notification.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, asset.ErrInvalidFormat):
		writeNotification(w, http.StatusUnsupportedMediaType, "Unsupported format",
			"Please choose an MP4, MOV or AVI video file.")
	case errors.Is(err, asset.ErrFileTooLarge):
		writeNotification(w, http.StatusRequestEntityTooLarge, "File too large",
			err.Error())
	case errors.Is(err, asset.ErrLoad):
		writeNotification(w, http.StatusUnprocessableEntity, "Could not load video",
			"The file could not be read as playable video. It may be corrupt.")
	case errors.Is(err, engine.ErrEngineLoad):
		writeNotification(w, http.StatusServiceUnavailable, "Engine unavailable",
			"The processing engine failed to load. Restart the service and try again.")
	case errors.Is(err, session.ErrEngineNotReady):
		writeNotification(w, http.StatusServiceUnavailable, "Please wait",
			"The processing engine is still loading. Try again in a moment.")
	case errors.Is(err, engine.ErrCut):
		writeNotification(w, http.StatusInternalServerError, "Trim failed",
			"The video could not be trimmed.")
	case errors.Is(err, session.ErrJobActive):
		writeNotification(w, http.StatusConflict, "Trim in progress",
			"Wait for the current trim to finish before starting another.")
	case errors.Is(err, session.ErrRangeTooNarrow):
		writeNotification(w, http.StatusBadRequest, "Range too short",
			"Select at least 0.1 seconds of video to trim.")
	case errors.Is(err, session.ErrNoAsset):
		writeNotification(w, http.StatusNotFound, "No video loaded",
			"Upload a video before using the timeline.")
	case errors.Is(err, session.ErrNoArtifact):
		// Silent no-op: the client treats a missing artifact as "nothing
		// to download", not an error toast.
		w.WriteHeader(http.StatusNotFound)
	default:
		logging.Error("unhandled request error: %v", err)
		writeNotification(w, http.StatusInternalServerError, "Something went wrong",
			"An unexpected error occurred.")
	}
}

// decodeJSON reads a small JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeNotification(w, http.StatusBadRequest, "Invalid request",
			"The request body is not valid JSON for this endpoint.")
		return false
	}
	return true
}
