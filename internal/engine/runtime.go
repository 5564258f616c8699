package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"video-trimmer/internal/logging"
)

// Sentinel errors for engine operations.
var (
	// ErrEngineLoad indicates the engine binaries could not be resolved or
	// verified. The runtime stays unloaded; restarting the process is the
	// retry path.
	ErrEngineLoad = errors.New("engine failed to load")

	// ErrNotReady indicates an operation was requested before the runtime
	// reached Ready. Callers surface this as a non-fatal "please wait".
	ErrNotReady = errors.New("engine is not ready")

	// ErrBusy indicates a cut was requested while another cut is in flight
	// on the same adapter. Callers must serialize.
	ErrBusy = errors.New("cut already in progress")

	// ErrCut indicates the engine invocation itself failed.
	ErrCut = errors.New("cut failed")
)

// State is the engine runtime lifecycle state.
type State int

const (
	// StateUnloaded means Initialize has not run (or failed).
	StateUnloaded State = iota
	// StateLoading means Initialize is resolving and verifying binaries.
	StateLoading
	// StateReady means the engine can accept work.
	StateReady
)

// String returns the state name for logging and JSON.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unloaded"
	}
}

// RuntimeConfig configures where the engine binaries are found. Empty paths
// fall back to $PATH lookup.
type RuntimeConfig struct {
	FFmpegPath  string
	FFprobePath string
}

// Runtime is the process-wide engine capability. It resolves and verifies
// the ffmpeg/ffprobe binaries exactly once; adapters share it.
type Runtime struct {
	cfg RuntimeConfig

	mu          sync.Mutex
	state       State
	initErr     error
	loadDone    chan struct{}
	ffmpegPath  string
	ffprobePath string
}

// NewRuntime creates an unloaded runtime. Call Initialize before use.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	return &Runtime{cfg: cfg}
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Initialize resolves and verifies the engine binaries. It is idempotent by
// state check: a Ready runtime returns immediately, a concurrent call waits
// for the in-flight load, and a previously failed load keeps returning the
// same ErrEngineLoad until the process restarts.
func (r *Runtime) Initialize(ctx context.Context) error {
	r.mu.Lock()
	for r.state == StateLoading {
		done := r.loadDone
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
	}
	if r.state == StateReady {
		r.mu.Unlock()
		return nil
	}
	if r.initErr != nil {
		err := r.initErr
		r.mu.Unlock()
		return err
	}

	r.state = StateLoading
	r.loadDone = make(chan struct{})
	r.mu.Unlock()

	ffmpegPath, ffprobePath, err := resolveBinaries(ctx, r.cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	defer close(r.loadDone)

	if err != nil {
		r.state = StateUnloaded
		r.initErr = fmt.Errorf("%w: %v", ErrEngineLoad, err)
		logging.Error("Engine initialization failed: %v", err)
		return r.initErr
	}

	r.ffmpegPath = ffmpegPath
	r.ffprobePath = ffprobePath
	r.state = StateReady
	logging.Info("Engine ready: ffmpeg=%s ffprobe=%s", ffmpegPath, ffprobePath)
	return nil
}

// resolveBinaries locates ffmpeg and ffprobe and verifies each one responds
// to -version.
func resolveBinaries(ctx context.Context, cfg RuntimeConfig) (string, string, error) {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		path, err := exec.LookPath("ffmpeg")
		if err != nil {
			return "", "", fmt.Errorf("ffmpeg not found: %w", err)
		}
		ffmpegPath = path
	}

	ffprobePath := cfg.FFprobePath
	if ffprobePath == "" {
		path, err := exec.LookPath("ffprobe")
		if err != nil {
			return "", "", fmt.Errorf("ffprobe not found: %w", err)
		}
		ffprobePath = path
	}

	if err := verifyBinary(ctx, ffmpegPath); err != nil {
		return "", "", fmt.Errorf("ffmpeg at %s: %w", ffmpegPath, err)
	}
	if err := verifyBinary(ctx, ffprobePath); err != nil {
		return "", "", fmt.Errorf("ffprobe at %s: %w", ffprobePath, err)
	}

	return ffmpegPath, ffprobePath, nil
}

// verifyBinary runs "<path> -version" and reports whether it exits cleanly.
func verifyBinary(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, path, "-version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("version check failed: %w", err)
	}
	return nil
}
