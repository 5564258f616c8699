package session

import (
	"time"

	"video-trimmer/internal/timeline"
)

// JobState is a trim job's lifecycle phase.
type JobState string

const (
	// JobStateIdle means no trim has been requested yet (or the last one
	// was cleared by a reset or a new asset).
	JobStateIdle JobState = "idle"
	// JobStateEngineLoading means the trim is accepted and waiting on the
	// engine's first-time initialization.
	JobStateEngineLoading JobState = "engine_loading"
	// JobStateStaging means the input bytes are being written into the
	// engine's namespace.
	JobStateStaging JobState = "staging"
	// JobStateCutting means the engine invocation is in flight.
	JobStateCutting JobState = "cutting"
	// JobStateReady means the artifact is available for download.
	JobStateReady JobState = "ready"
	// JobStateFailed means the trim did not produce an artifact.
	JobStateFailed JobState = "failed"
)

// Active reports whether the job occupies the session's single trim slot.
func (s JobState) Active() bool {
	return s == JobStateEngineLoading || s == JobStateStaging || s == JobStateCutting
}

// TrimJob is the observable state of one trim request. Progress is an
// integer percentage, non-decreasing within a run.
type TrimJob struct {
	State    JobState       `json:"state"`
	Progress int            `json:"progress"`
	Range    timeline.Range `json:"range"`
	Error    string         `json:"error,omitempty"`

	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}
