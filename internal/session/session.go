package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"video-trimmer/internal/asset"
	"video-trimmer/internal/engine"
	"video-trimmer/internal/logging"
	"video-trimmer/internal/mediatypes"
	"video-trimmer/internal/metrics"
	"video-trimmer/internal/timeline"
)

var (
	// ErrNoAsset indicates an operation that needs a loaded video ran
	// before one was uploaded.
	ErrNoAsset = errors.New("no video loaded")
	// ErrEngineNotReady indicates the engine is still initializing; the
	// caller should retry shortly.
	ErrEngineNotReady = errors.New("engine is still loading")
	// ErrJobActive indicates a trim is already occupying the session's
	// single job slot.
	ErrJobActive = errors.New("a trim is already in progress")
	// ErrRangeTooNarrow indicates the selected range is shorter than the
	// minimum trimmable length.
	ErrRangeTooNarrow = errors.New("selected range is too short")
	// ErrNoArtifact indicates a download was requested before any trim
	// completed.
	ErrNoArtifact = errors.New("no trimmed video available")
)

// Engine is the slice of the engine runtime the session layer drives.
type Engine interface {
	Initialize(ctx context.Context) error
	State() engine.State
}

// Cutter is the per-session slice of the engine adapter. *engine.Adapter
// satisfies it; tests substitute fakes.
type Cutter interface {
	Cut(ctx context.Context, req engine.CutRequest) ([]byte, error)
	Probe(ctx context.Context, input []byte, c mediatypes.Container) (engine.ProbeResult, error)
	Frame(ctx context.Context, input []byte, c mediatypes.Container, at float64) ([]byte, error)
	Busy() bool
	Close()
}

// Artifact is a completed trim output held for download.
type Artifact struct {
	Filename  string
	Container mediatypes.Container
	Data      []byte
	Range     timeline.Range
	CreatedAt time.Time
}

// Session owns one editing surface: the loaded asset, its timeline state
// machine, the engine adapter and the single trim job slot. All methods
// are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   Engine
	cutter   Cutter
	loader   *asset.Loader
	asset    *asset.Asset
	timeline *timeline.Timeline
	job      TrimJob
	artifact *Artifact
	strip    []byte

	cutTimeout time.Duration
	lastActive time.Time
	closed     bool
}

// PointerPhase names the stages of a pointer interaction.
type PointerPhase string

const (
	PointerDown PointerPhase = "down"
	PointerMove PointerPhase = "move"
	PointerUp   PointerPhase = "up"
)

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// Cutter returns the session's engine adapter handle.
func (s *Session) Cutter() Cutter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cutter
}

// Asset returns the loaded asset, or ErrNoAsset.
func (s *Session) Asset() (*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return nil, ErrNoAsset
	}
	return s.asset, nil
}

// LoadAsset validates and loads an upload into the session, replacing any
// previous asset, timeline state, job and artifact. The engine initializes
// here if it has not yet: metadata comes from its probe.
func (s *Session) LoadAsset(ctx context.Context, filename, contentType string, r io.Reader) (*asset.Asset, error) {
	if err := s.engine.Initialize(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	loader, cutter := s.loader, s.cutter
	s.mu.Unlock()

	a, err := loader.Load(ctx, filename, contentType, r, cutter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.asset = a
	s.timeline = timeline.New(a.Duration)
	s.job = TrimJob{State: JobStateIdle}
	s.releaseArtifactLocked()
	s.strip = nil
	return a, nil
}

// Pointer feeds one pointer event into the timeline. Down returns the
// marker that captured the drag (or none for a click-to-seek); move and
// up are honored even when the coordinates fall outside the element.
func (s *Session) Pointer(phase PointerPhase, g timeline.Geometry) (timeline.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeline == nil {
		return timeline.MarkerNone, ErrNoAsset
	}
	s.touch()

	switch phase {
	case PointerDown:
		return s.timeline.PointerDown(g), nil
	case PointerMove:
		s.timeline.PointerMove(g)
	case PointerUp:
		s.timeline.PointerUp()
	default:
		return timeline.MarkerNone, fmt.Errorf("unknown pointer phase %q", phase)
	}
	return s.timeline.Dragging(), nil
}

// Seek moves the playback cursor.
func (s *Session) Seek(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeline == nil {
		return ErrNoAsset
	}
	s.touch()
	s.timeline.Seek(t)
	return nil
}

// TogglePlay flips play/pause. Toggling is suppressed while a trim job is
// staging or cutting so the preview cannot race the engine.
func (s *Session) TogglePlay() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeline == nil {
		return false, ErrNoAsset
	}
	if s.job.State == JobStateStaging || s.job.State == JobStateCutting {
		return s.timeline.Playing(), ErrJobActive
	}
	s.touch()
	return s.timeline.TogglePlay(), nil
}

// Tick advances playback by elapsed seconds. Ticks count as activity so
// the janitor never sweeps a session that is still playing.
func (s *Session) Tick(elapsed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeline == nil {
		return ErrNoAsset
	}
	s.touch()
	s.timeline.Advance(elapsed)
	return nil
}

// SetMarker places a trim marker directly (keyboard nudge path).
func (s *Session) SetMarker(m timeline.Marker, t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeline == nil {
		return ErrNoAsset
	}
	s.touch()
	s.timeline.SetMarker(m, t)
	return nil
}

// RunTrim starts a trim over the current range. It returns the accepted
// job snapshot immediately; the cut runs in the background and the job
// transitions staging -> cutting -> ready/failed, observable via Job().
// A second trim while one is active is rejected; a prior artifact is
// released the moment a new trim is accepted.
func (s *Session) RunTrim() (TrimJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.asset == nil {
		return s.job, ErrNoAsset
	}
	if s.job.State.Active() {
		return s.job, ErrJobActive
	}
	if !s.timeline.RangeValid() {
		return s.job, ErrRangeTooNarrow
	}

	rng := s.timeline.TrimRange()
	initial := JobStateStaging
	switch s.engine.State() {
	case engine.StateReady:
		// straight to staging
	case engine.StateLoading:
		// Someone else's initialization is in flight; tell the caller to
		// hold on rather than queueing behind it.
		return s.job, ErrEngineNotReady
	default:
		initial = JobStateEngineLoading
	}

	s.touch()
	s.releaseArtifactLocked()
	s.job = TrimJob{State: initial, Range: rng, StartedAt: time.Now()}

	go s.runCut(s.asset, rng)

	return s.job, nil
}

// runCut executes the accepted trim on its own timeout, independent of
// the triggering request's lifetime.
func (s *Session) runCut(a *asset.Asset, rng timeline.Range) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cutTimeout)
	defer cancel()

	if err := s.engine.Initialize(ctx); err != nil {
		s.failJob(fmt.Sprintf("engine failed to load: %v", err))
		return
	}
	s.setJobState(JobStateStaging)

	output, err := s.cutter.Cut(ctx, engine.CutRequest{
		Input:     a.Data,
		Container: a.Container,
		Start:     rng.Start,
		End:       rng.End,
		OnProgress: func(p int) {
			s.reportProgress(p)
		},
	})
	if err != nil {
		s.failJob(err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A reset or replacing upload while the cut ran orphans the result.
	if s.asset != a || !s.job.State.Active() {
		logging.Info("Session %s: discarding trim result for a replaced asset", s.ID)
		return
	}
	s.artifact = &Artifact{
		Filename:  "trimmed-" + a.Filename,
		Container: a.Container,
		Data:      output,
		Range:     rng,
		CreatedAt: time.Now(),
	}
	s.job.State = JobStateReady
	s.job.Progress = 100
	s.job.FinishedAt = time.Now()

	metrics.TrimJobsTotal.WithLabelValues("ready").Inc()
	metrics.TrimJobDuration.Observe(s.job.FinishedAt.Sub(s.job.StartedAt).Seconds())
	logging.Info("Session %s: trim ready, %s [%g, %g] -> %d bytes",
		s.ID, a.Filename, rng.Start, rng.End, len(output))
}

func (s *Session) setJobState(state JobState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job.State.Active() {
		s.job.State = state
	}
}

// reportProgress records cut progress and flips the job from staging to
// cutting on the first report.
func (s *Session) reportProgress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.job.State.Active() {
		return
	}
	s.job.State = JobStateCutting
	if p > s.job.Progress {
		s.job.Progress = p
	}
}

func (s *Session) failJob(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.job.State.Active() {
		return
	}
	s.job.State = JobStateFailed
	s.job.Error = msg
	s.job.FinishedAt = time.Now()
	metrics.TrimJobsTotal.WithLabelValues("failed").Inc()
	logging.Error("Session %s: trim failed: %s", s.ID, msg)
}

// Job returns the current trim job snapshot.
func (s *Session) Job() TrimJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// Artifact returns the completed trim output, or ErrNoArtifact.
func (s *Session) Artifact() (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact == nil {
		return nil, ErrNoArtifact
	}
	s.touch()
	return s.artifact, nil
}

// Filmstrip returns the cached timeline strip, generating it with build
// on first use. Generation failure is non-fatal and uncached.
func (s *Session) Filmstrip(build func(*asset.Asset, Cutter) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	if s.asset == nil {
		s.mu.Unlock()
		return nil, ErrNoAsset
	}
	if s.strip != nil {
		strip := s.strip
		s.mu.Unlock()
		return strip, nil
	}
	a, cutter := s.asset, s.cutter
	s.mu.Unlock()

	strip, err := build(a, cutter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent reset or reload invalidates the strip we just built.
	if s.asset == a {
		s.strip = strip
	}
	return strip, nil
}

// Reset returns the session to its initial state: asset, timeline, job
// and artifact are all released. The engine adapter survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.asset = nil
	s.timeline = nil
	s.job = TrimJob{State: JobStateIdle}
	s.releaseArtifactLocked()
	s.strip = nil
	logging.Debug("Session %s: reset", s.ID)
}

func (s *Session) releaseArtifactLocked() {
	if s.artifact != nil {
		s.artifact = nil
		metrics.ArtifactsReleasedTotal.Inc()
	}
}

// close releases everything including the engine adapter. Called by the
// manager on removal or expiry.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.asset = nil
	s.timeline = nil
	s.artifact = nil
	s.strip = nil
	s.cutter.Close()
}

// Snapshot is the JSON view of a session served to the client.
type Snapshot struct {
	ID              string         `json:"id"`
	Asset           *AssetInfo     `json:"asset,omitempty"`
	Range           timeline.Range `json:"range"`
	RangeValid      bool           `json:"rangeValid"`
	Cursor          float64        `json:"cursor"`
	Playing         bool           `json:"playing"`
	Dragging        string         `json:"dragging"`
	PositionPercent float64        `json:"positionPercent"`
	StartPercent    float64        `json:"startPercent"`
	EndPercent      float64        `json:"endPercent"`
	Job             TrimJob        `json:"job"`
	HasArtifact     bool           `json:"hasArtifact"`
}

// AssetInfo is the client-visible slice of a loaded asset.
type AssetInfo struct {
	Filename    string  `json:"filename"`
	MIMEType    string  `json:"mimeType"`
	Size        int64   `json:"size"`
	Duration    float64 `json:"duration"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	SizeWarning bool    `json:"sizeWarning,omitempty"`
}

// Snapshot assembles the client view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		Job:         s.job,
		HasArtifact: s.artifact != nil,
	}
	if s.asset != nil {
		snap.Asset = &AssetInfo{
			Filename:    s.asset.Filename,
			MIMEType:    s.asset.Container.MIMEType(),
			Size:        s.asset.Size(),
			Duration:    s.asset.Duration,
			Width:       s.asset.Width,
			Height:      s.asset.Height,
			SizeWarning: s.asset.SizeWarning,
		}
	}
	if s.timeline != nil {
		snap.Range = s.timeline.TrimRange()
		snap.RangeValid = s.timeline.RangeValid()
		snap.Cursor = s.timeline.Cursor()
		snap.Playing = s.timeline.Playing()
		snap.Dragging = s.timeline.Dragging().String()
		snap.PositionPercent = s.timeline.PositionPercent(s.timeline.Cursor())
		snap.StartPercent = s.timeline.PositionPercent(snap.Range.Start)
		snap.EndPercent = s.timeline.PositionPercent(snap.Range.End)
	}
	return snap
}
