// Package timeline implements the trim-session timeline state machine:
// the playback cursor, the play/pause state and the two drag-adjustable
// trim markers with their mutual ordering constraints.
//
// The package is pure and synchronous — pointer and playback events go in,
// updated marker and cursor values come out. Pointer coordinates are mapped
// through the timeline element's reported bounding box, drags continue
// outside the element bounds (the server-side equivalent of window-level
// event capture), and every marker update is clamped so the selected range
// never drops below MinRange seconds.
package timeline
