// Package streaming protects response streaming against slow or vanished
// clients. ServeBuffer serves in-memory video payloads (preview, trimmed
// artifact) with byte-range support; TimeoutWriter enforces per-write and
// idle deadlines underneath it.
package streaming
