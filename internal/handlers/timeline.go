package handlers

import (
	"net/http"

	"video-trimmer/internal/session"
	"video-trimmer/internal/timeline"
)

type pointerRequest struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Pointer feeds a pointer event into the timeline state machine. Down
// events either capture a marker drag or click-to-seek; move and up are
// honored even when the coordinates fall outside the timeline element,
// so a drag continues until release wherever the pointer goes.
func (h *Handlers) Pointer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req pointerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	phase := session.PointerPhase(req.Phase)
	switch phase {
	case session.PointerDown, session.PointerMove, session.PointerUp:
	default:
		writeNotification(w, http.StatusBadRequest, "Invalid request",
			`Phase must be "down", "move" or "up".`)
		return
	}

	g := timeline.Geometry{X: req.X, Left: req.Left, Width: req.Width}
	if _, err := s.Pointer(phase, g); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}

type seekRequest struct {
	Time float64 `json:"time"`
}

// Seek moves the playback cursor to an absolute time.
func (h *Handlers) Seek(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req seekRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.Seek(req.Time); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}

type markerRequest struct {
	Marker string  `json:"marker"`
	Time   float64 `json:"time"`
}

// SetMarker places a trim marker at an absolute time (the keyboard-nudge
// path). Placement clamps so the range never inverts or drops below the
// minimum trimmable length.
func (h *Handlers) SetMarker(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req markerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var m timeline.Marker
	switch req.Marker {
	case "start":
		m = timeline.MarkerStart
	case "end":
		m = timeline.MarkerEnd
	default:
		writeNotification(w, http.StatusBadRequest, "Invalid request",
			`Marker must be "start" or "end".`)
		return
	}

	if err := s.SetMarker(m, req.Time); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}

type playbackRequest struct {
	Action  string  `json:"action"`
	Elapsed float64 `json:"elapsed"`
}

// Playback controls the preview: "toggle" flips play/pause (suppressed
// while a trim is staging or cutting), "tick" advances the cursor by the
// reported elapsed seconds and auto-pauses at the end without looping.
func (h *Handlers) Playback(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req playbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var err error
	switch req.Action {
	case "toggle":
		_, err = s.TogglePlay()
	case "tick":
		err = s.Tick(req.Elapsed)
	default:
		writeNotification(w, http.StatusBadRequest, "Invalid request",
			`Action must be "toggle" or "tick".`)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, s.Snapshot())
}
