package handlers

import (
	"net/http"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/media"
	"video-trimmer/internal/session"
)

// Filmstrip serves the timeline background strip as a single JPEG. The
// strip is rendered once per loaded asset and cached on the session, so
// repeated requests after a reload stay cheap.
func (h *Handlers) Filmstrip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	strip, err := s.Filmstrip(func(a *asset.Asset, cutter session.Cutter) ([]byte, error) {
		return media.GenerateFilmstrip(r.Context(), cutter, a.Data, a.Container, a.Duration, h.filmstripCfg)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(strip); err != nil {
		return
	}
}
