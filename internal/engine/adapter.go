package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"video-trimmer/internal/logging"
	"video-trimmer/internal/mediatypes"
	"video-trimmer/internal/metrics"

	"github.com/google/uuid"
)

// Adapter is a per-session handle onto the engine. Each adapter owns a
// uuid-named staging directory — its private virtual-filesystem namespace —
// so input/output names can never collide across concurrent sessions.
type Adapter struct {
	runtime *Runtime
	dir     string

	mu   sync.Mutex
	busy bool
}

// CutRequest describes one trim invocation over an in-memory buffer.
type CutRequest struct {
	Input     []byte
	Container mediatypes.Container

	// Start and End are the trim bounds in seconds, 0 <= Start < End.
	Start float64
	End   float64

	// OnProgress, if set, receives integer percentages 0-100. Values are
	// monotonic non-decreasing within one cut and purely informational.
	OnProgress func(percent int)
}

// NewAdapter creates an adapter with a fresh staging namespace under root.
func (r *Runtime) NewAdapter(root string) (*Adapter, error) {
	dir := filepath.Join(root, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Adapter{runtime: r, dir: dir}, nil
}

// State returns the shared runtime's lifecycle state.
func (a *Adapter) State() State {
	return a.runtime.State()
}

// Busy reports whether a cut is currently in flight on this adapter.
func (a *Adapter) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Close removes the adapter's staging namespace. Safe to call once the
// session is done with it.
func (a *Adapter) Close() {
	if err := os.RemoveAll(a.dir); err != nil {
		logging.Warn("failed to remove staging directory %s: %v", a.dir, err)
	}
}

// CutArgs builds the wire-level instruction list for a stream-copy trim.
// This exact vector — seek, trim, input, copy mode, negative-timestamp
// correction, output — is the compatibility contract with the engine and
// must not be reordered or extended.
func CutArgs(start, end float64, inputName, outputName string) []string {
	return []string{
		"-ss", FormatSeconds(start),
		"-to", FormatSeconds(end),
		"-i", inputName,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outputName,
	}
}

// FormatSeconds renders a seconds value the way the engine expects:
// a minimal decimal string ("1.5", "2.05", "0").
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// InputName returns the deterministic staged-input name for a container.
func InputName(c mediatypes.Container) string {
	return "input" + c.Ext()
}

// OutputName returns the deterministic output name for a container.
func OutputName(c mediatypes.Container) string {
	return "output" + c.Ext()
}

// Cut stages the input bytes, invokes the engine with the seek-trim-copy
// instruction set and returns the output buffer. Staged input and output
// files are removed on every path; cleanup failures are logged, never
// surfaced. At most one cut runs per adapter at a time.
func (a *Adapter) Cut(ctx context.Context, req CutRequest) (out []byte, err error) {
	defer func() { recordInvocation("cut", err) }()

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.busy = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()
	}()

	if a.runtime.State() != StateReady {
		return nil, ErrNotReady
	}

	inputName := InputName(req.Container)
	outputName := OutputName(req.Container)
	inputPath := filepath.Join(a.dir, inputName)
	outputPath := filepath.Join(a.dir, outputName)

	// Stage the input into the namespace.
	if err := os.WriteFile(inputPath, req.Input, 0o644); err != nil {
		return nil, fmt.Errorf("%w: staging input: %v", ErrCut, err)
	}
	defer a.removeStaged(inputPath)
	defer a.removeStaged(outputPath)

	args := CutArgs(req.Start, req.End, inputName, outputName)
	logging.Debug("Cut: ffmpeg %v (dir=%s)", args, a.dir)

	cmd := exec.CommandContext(ctx, a.runtime.ffmpegPath, args...)
	cmd.Dir = a.dir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCut, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCut, err)
	}

	// Progress is parsed from stderr against the requested range length.
	tail := streamProgress(stderr, req.End-req.Start, req.OnProgress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCut, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrCut, err, tail.String())
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving output: %v", ErrCut, err)
	}

	if req.OnProgress != nil {
		req.OnProgress(100)
	}

	return output, nil
}

// Frame extracts a single frame at the given time as PNG bytes. Used for
// the timeline filmstrip; failures are non-fatal to the session.
func (a *Adapter) Frame(ctx context.Context, input []byte, c mediatypes.Container, at float64) (out []byte, err error) {
	defer func() { recordInvocation("frame", err) }()

	if a.runtime.State() != StateReady {
		return nil, ErrNotReady
	}

	// Frames may be requested concurrently, so the staged file carries its
	// own unique name rather than the deterministic cut input name.
	name := "frame-" + uuid.New().String() + c.Ext()
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, input, 0o644); err != nil {
		return nil, fmt.Errorf("staging frame input: %w", err)
	}
	defer a.removeStaged(path)

	cmd := exec.CommandContext(ctx, a.runtime.ffmpegPath,
		"-ss", FormatSeconds(at),
		"-i", name,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd.Dir = a.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("frame extraction failed: %v: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("frame extraction produced no output at %s", FormatSeconds(at))
	}

	return stdout.Bytes(), nil
}

// recordInvocation counts one engine process run by kind and outcome.
func recordInvocation(kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EngineInvocationsTotal.WithLabelValues(kind, status).Inc()
}

// removeStaged deletes a staged file, best effort.
func (a *Adapter) removeStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to clean up staged file %s: %v", path, err)
	}
}
