// Package media renders the timeline filmstrip: evenly spaced video frames
// extracted concurrently, resized and composited into one JPEG strip.
package media
