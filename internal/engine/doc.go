// Package engine wraps the external media engine (ffmpeg/ffprobe) behind a
// small lifecycle and invocation API. A single Runtime owns binary discovery
// and readiness for the whole process; each editing session gets its own
// Adapter with a private staging directory so staged input and output files
// never collide. The trim itself is a lossless stream copy with a fixed
// instruction vector, which is why cuts complete in roughly constant time
// regardless of asset size.
package engine
