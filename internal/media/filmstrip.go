package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	"video-trimmer/internal/logging"
	"video-trimmer/internal/mediatypes"
	"video-trimmer/internal/metrics"
	"video-trimmer/internal/workers"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// FrameExtractor pulls a single frame out of raw video bytes.
type FrameExtractor interface {
	Frame(ctx context.Context, input []byte, c mediatypes.Container, at float64) ([]byte, error)
}

// FilmstripConfig controls filmstrip rendering.
type FilmstripConfig struct {
	// Frames is the number of tiles across the strip.
	Frames int
	// TileWidth and TileHeight are the per-tile dimensions in pixels.
	TileWidth  int
	TileHeight int
	// Quality is the JPEG quality of the composite.
	Quality int
	// Workers bounds concurrent frame extractions.
	Workers int
}

// DefaultFilmstripConfig returns the built-in filmstrip settings.
func DefaultFilmstripConfig() FilmstripConfig {
	return FilmstripConfig{
		Frames:     10,
		TileWidth:  96,
		TileHeight: 54,
		Quality:    80,
		Workers:    workers.ForCPU(8),
	}
}

// GenerateFilmstrip renders a horizontal JPEG strip of evenly spaced frames
// for the timeline background. Frames are extracted concurrently; a tile
// whose extraction fails is rendered as a dark placeholder rather than
// failing the whole strip — the filmstrip is decoration, not data.
func GenerateFilmstrip(ctx context.Context, extractor FrameExtractor, input []byte, c mediatypes.Container, duration float64, cfg FilmstripConfig) ([]byte, error) {
	if cfg.Frames <= 0 || duration <= 0 {
		return nil, fmt.Errorf("nothing to render: frames=%d duration=%v", cfg.Frames, duration)
	}

	start := time.Now()
	tiles := make([]image.Image, cfg.Frames)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Frames; i++ {
		i := i
		g.Go(func() error {
			// Sample at tile centers so the first and last frames are not
			// the (often black) container edges.
			at := (float64(i) + 0.5) * duration / float64(cfg.Frames)

			raw, err := extractor.Frame(gctx, input, c, at)
			if err != nil {
				logging.Debug("Filmstrip frame %d at %.3fs failed: %v", i, at, err)
				return nil
			}

			img, err := imaging.Decode(bytes.NewReader(raw))
			if err != nil {
				logging.Debug("Filmstrip frame %d decode failed: %v", i, err)
				return nil
			}
			tiles[i] = imaging.Fill(img, cfg.TileWidth, cfg.TileHeight, imaging.Center, imaging.Lanczos)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.FilmstripGenerationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("filmstrip generation canceled: %w", err)
	}

	strip := imaging.New(cfg.TileWidth*cfg.Frames, cfg.TileHeight, color.NRGBA{R: 16, G: 16, B: 16, A: 255})
	rendered := 0
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		strip = imaging.Paste(strip, tile, image.Pt(i*cfg.TileWidth, 0))
		rendered++
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, strip, &jpeg.Options{Quality: cfg.Quality}); err != nil {
		metrics.FilmstripGenerationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to encode filmstrip: %w", err)
	}

	elapsed := time.Since(start)
	metrics.FilmstripGenerationsTotal.WithLabelValues("success").Inc()
	metrics.FilmstripGenerationDuration.Observe(elapsed.Seconds())
	logging.Debug("Filmstrip rendered: %d/%d tiles in %v", rendered, cfg.Frames, elapsed)

	return buf.Bytes(), nil
}
