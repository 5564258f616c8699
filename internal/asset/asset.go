package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"video-trimmer/internal/engine"
	"video-trimmer/internal/logging"
	"video-trimmer/internal/mediatypes"
	"video-trimmer/internal/memory"

	"github.com/google/uuid"
)

var (
	// ErrInvalidFormat indicates the upload is not one of the supported
	// video containers.
	ErrInvalidFormat = errors.New("unsupported video format")
	// ErrFileTooLarge indicates the upload exceeds the active size policy.
	ErrFileTooLarge = errors.New("file too large")
	// ErrLoad indicates the upload was accepted but could not be read as
	// playable video.
	ErrLoad = errors.New("failed to load video")
)

// probeTimeout bounds metadata extraction on a freshly loaded asset. A
// probe that takes longer than this on an in-memory buffer will not
// recover by waiting.
const probeTimeout = 30 * time.Second

// Asset is a fully loaded, probed video held in memory for the lifetime
// of an editing session.
type Asset struct {
	ID        string
	Filename  string
	Container mediatypes.Container
	Data      []byte

	// Duration, Width and Height come from the probe.
	Duration float64
	Width    int
	Height   int

	// SizeWarning is set when the upload crossed the policy's soft
	// threshold. The load still succeeds.
	SizeWarning bool

	LoadedAt time.Time
}

// Size returns the asset's byte length.
func (a *Asset) Size() int64 {
	return int64(len(a.Data))
}

// Prober extracts container metadata from raw video bytes.
type Prober interface {
	Probe(ctx context.Context, input []byte, c mediatypes.Container) (engine.ProbeResult, error)
}

// Loader validates and loads uploads under a size policy.
type Loader struct {
	policy memory.Policy
}

// NewLoader creates a loader enforcing the given policy.
func NewLoader(policy memory.Policy) *Loader {
	return &Loader{policy: policy}
}

// Policy returns the loader's active size policy.
func (l *Loader) Policy() memory.Policy {
	return l.policy
}

// Load reads an upload into memory, verifies it is one of the supported
// containers, enforces the size policy and probes it for metadata. The
// declared Content-Type and filename extension gate the read; the sniffed
// magic bytes have the final word on the container.
func (l *Loader) Load(ctx context.Context, filename, contentType string, r io.Reader, prober Prober) (*Asset, error) {
	declared := mediatypes.ByMIMEType(contentType)
	if declared == mediatypes.ContainerUnknown {
		declared = mediatypes.ByExtension(filename)
	}
	if declared == mediatypes.ContainerUnknown {
		return nil, fmt.Errorf("%w: %q is not an accepted video type", ErrInvalidFormat, contentType)
	}

	data, err := readCapped(r, l.policy.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	container := mediatypes.Sniff(data)
	if container == mediatypes.ContainerUnknown {
		return nil, fmt.Errorf("%w: content does not match any supported container", ErrInvalidFormat)
	}

	warned := int64(len(data)) > l.policy.WarnBytes
	if warned {
		logging.Warn("Large upload %q: %s exceeds the %s warning threshold (profile=%s)",
			filename, memory.FormatBytes(int64(len(data))),
			memory.FormatBytes(l.policy.WarnBytes), l.policy.Profile)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	meta, err := prober.Probe(probeCtx, data, container)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	a := &Asset{
		ID:          uuid.New().String(),
		Filename:    filename,
		Container:   container,
		Data:        data,
		Duration:    meta.Duration,
		Width:       meta.Width,
		Height:      meta.Height,
		SizeWarning: warned,
		LoadedAt:    time.Now(),
	}

	logging.Info("Loaded asset %s: %q %s %s duration=%.3fs",
		a.ID, a.Filename, a.Container, memory.FormatBytes(a.Size()), a.Duration)

	return a, nil
}

// readCapped reads at most max bytes, failing with ErrFileTooLarge if the
// stream has more.
func readCapped(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrLoad, err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: upload exceeds the %s limit", ErrFileTooLarge, memory.FormatBytes(max))
	}
	return data, nil
}
