package timeline

import "math"

// MinRange is the smallest selectable trim range in seconds. Every marker
// update clamps against it, so the invariant end-start >= MinRange holds
// after each drag step no matter how far the pointer moved.
const MinRange = 0.1

// HitRadiusPx is the half-width of a marker's invisible hit region, in
// pixels. It is deliberately wider than the visible marker so markers stay
// draggable under a fingertip.
const HitRadiusPx = 16.0

// Marker identifies a draggable trim handle.
type Marker int

const (
	// MarkerNone means no marker (background click / no active drag).
	MarkerNone Marker = iota
	// MarkerStart is the in-point handle.
	MarkerStart
	// MarkerEnd is the out-point handle.
	MarkerEnd
)

// String returns the marker name for logging and JSON.
func (m Marker) String() string {
	switch m {
	case MarkerStart:
		return "start"
	case MarkerEnd:
		return "end"
	default:
		return "none"
	}
}

// Range is the selected trim sub-interval in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the length of the range in seconds.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// Geometry carries the pointer position and the timeline element's
// horizontal bounding box as reported by the client.
type Geometry struct {
	X     float64 `json:"x"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Timeline is the trim-session timeline state machine: playback cursor,
// play state and the two ordered trim markers. All methods are synchronous
// and perform no I/O; callers serialize access.
type Timeline struct {
	duration float64
	rng      Range
	cursor   float64
	playing  bool
	dragging Marker
}

// New creates a timeline for an asset of the given duration. The range
// initializes to the full asset, the cursor to zero, playback paused.
func New(duration float64) *Timeline {
	if duration < 0 {
		duration = 0
	}
	return &Timeline{
		duration: duration,
		rng:      Range{Start: 0, End: duration},
	}
}

// Duration returns the asset duration the timeline was built for.
func (t *Timeline) Duration() float64 { return t.duration }

// TrimRange returns the current trim range.
func (t *Timeline) TrimRange() Range { return t.rng }

// Cursor returns the playback cursor position in seconds.
func (t *Timeline) Cursor() float64 { return t.cursor }

// Playing reports whether the preview is advancing.
func (t *Timeline) Playing() bool { return t.playing }

// Dragging returns the marker currently being dragged, or MarkerNone.
func (t *Timeline) Dragging() Marker { return t.dragging }

// RangeValid reports whether the selected range is long enough to trim.
// The trim trigger control stays disabled while this is false.
func (t *Timeline) RangeValid() bool {
	return t.rng.Duration() >= MinRange-1e-9
}

// TimeAt maps a pointer position to a time on the timeline:
// fraction = clamp((x-left)/width, 0, 1); time = fraction * duration.
func (t *Timeline) TimeAt(g Geometry) float64 {
	if g.Width <= 0 {
		return 0
	}
	fraction := clamp((g.X-g.Left)/g.Width, 0, 1)
	return fraction * t.duration
}

// PositionPercent converts a time to a percentage of the timeline width.
// Visual positions are always derived from times, never stored.
func (t *Timeline) PositionPercent(time float64) float64 {
	if t.duration <= 0 {
		return 0
	}
	return clamp(time/t.duration, 0, 1) * 100
}

// PointerDown handles a press on the timeline element. A press inside a
// marker's hit region begins an exclusive drag of that marker; anywhere
// else it is a click-to-seek, which moves only the cursor. Returns the
// marker that captured the drag, or MarkerNone for a seek.
func (t *Timeline) PointerDown(g Geometry) Marker {
	if marker := t.hitTest(g); marker != MarkerNone {
		t.dragging = marker
		return marker
	}

	t.Seek(t.TimeAt(g))
	return MarkerNone
}

// PointerMove applies a pointer movement while a drag is active. Moves are
// honored regardless of whether the pointer is inside the element bounds —
// the coordinate mapping clamps — mirroring window-level event capture.
// Without an active drag it is a no-op.
func (t *Timeline) PointerMove(g Geometry) {
	if t.dragging == MarkerNone {
		return
	}
	t.SetMarker(t.dragging, t.TimeAt(g))
}

// PointerUp ends the active drag, if any.
func (t *Timeline) PointerUp() {
	t.dragging = MarkerNone
}

// SetMarker moves one trim marker to the requested time, clamping so the
// ordering invariant 0 <= start <= end-MinRange and end <= duration holds:
// the start marker never pushes past end-MinRange, the end marker never
// pushes below start+MinRange.
func (t *Timeline) SetMarker(marker Marker, time float64) {
	switch marker {
	case MarkerStart:
		t.rng.Start = clamp(time, 0, t.rng.End-MinRange)
	case MarkerEnd:
		t.rng.End = clamp(time, t.rng.Start+MinRange, t.duration)
	}
}

// Seek moves the playback cursor. The trim range is untouched.
func (t *Timeline) Seek(time float64) {
	t.cursor = clamp(time, 0, t.duration)
}

// TogglePlay flips the play/pause state and returns the new state.
// A toggle at the end of the asset restarts playback from the cursor
// position (which Advance left at duration).
func (t *Timeline) TogglePlay() bool {
	t.playing = !t.playing
	return t.playing
}

// Advance moves the cursor forward by elapsed seconds of playback. When the
// cursor reaches the end of the asset, playback auto-pauses; there is no
// loop. A paused timeline ignores Advance.
func (t *Timeline) Advance(elapsed float64) {
	if !t.playing || elapsed <= 0 {
		return
	}
	t.cursor += elapsed
	if t.cursor >= t.duration {
		t.cursor = t.duration
		t.playing = false
	}
}

// Reset clears transient interaction state (active drag, playback). Used
// when the session resets or tears down mid-drag, standing in for the
// unconditional release of window-level listeners.
func (t *Timeline) Reset() {
	t.dragging = MarkerNone
	t.playing = false
}

// hitTest returns the marker whose hit region contains the pointer, or
// MarkerNone. When the oversized regions overlap, the nearer marker wins;
// an exact tie goes to the start marker.
func (t *Timeline) hitTest(g Geometry) Marker {
	if g.Width <= 0 || t.duration <= 0 {
		return MarkerNone
	}

	startX := g.Left + (t.rng.Start/t.duration)*g.Width
	endX := g.Left + (t.rng.End/t.duration)*g.Width

	distStart := math.Abs(g.X - startX)
	distEnd := math.Abs(g.X - endX)

	startHit := distStart <= HitRadiusPx
	endHit := distEnd <= HitRadiusPx

	switch {
	case startHit && endHit:
		if distEnd < distStart {
			return MarkerEnd
		}
		return MarkerStart
	case startHit:
		return MarkerStart
	case endHit:
		return MarkerEnd
	default:
		return MarkerNone
	}
}

// clamp bounds v to [lo, hi]. A degenerate interval (hi < lo, possible for
// assets shorter than MinRange) collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
