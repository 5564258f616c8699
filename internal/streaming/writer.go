package streaming

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"video-trimmer/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write operation exceeded the
	// configured timeout. This typically occurs when a client is receiving
	// data too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the
	// stream completed.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates that the stream was canceled, either by
	// calling Close() or via context cancellation.
	ErrStreamCanceled = errors.New("stream canceled")
)

// Config controls timeout protection for response streaming.
type Config struct {
	// WriteTimeout is the maximum time to wait for a single write.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum time between successful writes.
	IdleTimeout time.Duration
	// ChunkSize splits large writes so a stalled client is detected
	// mid-body rather than only at the end (0 = write as received).
	ChunkSize int
}

// DefaultConfig returns sensible defaults for video payloads.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ChunkSize:    64 * 1024,
	}
}

// TimeoutWriter wraps an http.ResponseWriter so a stalled or vanished
// client cannot pin a streaming handler forever.
type TimeoutWriter struct {
	w      http.ResponseWriter
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config

	flusher http.Flusher

	mu           sync.Mutex
	lastWrite    time.Time
	bytesWritten int64
	closed       bool
}

// NewTimeoutWriter creates a timeout-protected writer over w. The caller
// must Close it to stop the idle watchdog.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, cfg Config) *TimeoutWriter {
	wctx, cancel := context.WithCancel(ctx)
	tw := &TimeoutWriter{
		w:         w,
		ctx:       wctx,
		cancel:    cancel,
		cfg:       cfg,
		lastWrite: time.Now(),
	}
	if flusher, ok := w.(http.Flusher); ok {
		tw.flusher = flusher
	}
	go tw.idleChecker()
	return tw
}

// Write implements io.Writer with timeout protection.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if closed {
		return 0, ErrStreamCanceled
	}

	select {
	case <-tw.ctx.Done():
		return 0, tw.contextError()
	default:
	}

	if tw.cfg.ChunkSize > 0 && len(p) > tw.cfg.ChunkSize {
		return tw.writeChunked(p)
	}
	return tw.writeWithTimeout(p)
}

func (tw *TimeoutWriter) writeChunked(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		select {
		case <-tw.ctx.Done():
			return total, tw.contextError()
		default:
		}

		chunk := tw.cfg.ChunkSize
		if len(p) < chunk {
			chunk = len(p)
		}

		n, err := tw.writeWithTimeout(p[:chunk])
		total += n
		if err != nil {
			return total, err
		}
		p = p[chunk:]

		if tw.flusher != nil {
			tw.flusher.Flush()
		}
	}
	return total, nil
}

func (tw *TimeoutWriter) writeWithTimeout(p []byte) (int, error) {
	type writeResult struct {
		n   int
		err error
	}
	resultCh := make(chan writeResult, 1)

	go func() {
		n, err := tw.w.Write(p)
		resultCh <- writeResult{n, err}
	}()

	select {
	case result := <-resultCh:
		if result.err == nil {
			tw.mu.Lock()
			tw.lastWrite = time.Now()
			tw.bytesWritten += int64(result.n)
			tw.mu.Unlock()
		}
		return result.n, result.err

	case <-time.After(tw.cfg.WriteTimeout):
		tw.cancel()
		return 0, ErrWriteTimeout

	case <-tw.ctx.Done():
		return 0, tw.contextError()
	}
}

func (tw *TimeoutWriter) idleChecker() {
	if tw.cfg.IdleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(tw.cfg.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tw.mu.Lock()
			idle := time.Since(tw.lastWrite)
			closed := tw.closed
			tw.mu.Unlock()

			if closed {
				return
			}
			if idle > tw.cfg.IdleTimeout {
				logging.Warn("Stream idle timeout exceeded: %v", idle)
				tw.cancel()
				return
			}

		case <-tw.ctx.Done():
			return
		}
	}
}

func (tw *TimeoutWriter) contextError() error {
	if errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}

// Close marks the writer as closed and stops the watchdog.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed {
		return nil
	}
	tw.closed = true
	tw.cancel()
	return nil
}

// BytesWritten returns the number of payload bytes sent so far.
func (tw *TimeoutWriter) BytesWritten() int64 {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten
}

// guardedResponseWriter routes body writes through the TimeoutWriter while
// leaving headers on the underlying writer, so http.ServeContent keeps its
// Range/If-Modified-Since handling.
type guardedResponseWriter struct {
	http.ResponseWriter
	tw *TimeoutWriter
}

func (g *guardedResponseWriter) Write(p []byte) (int, error) {
	return g.tw.Write(p)
}

// ServeBuffer serves an in-memory payload with range-request support and
// timeout protection. Video previews depend on ranges: the client's player
// seeks by re-requesting byte offsets.
func ServeBuffer(w http.ResponseWriter, r *http.Request, name, mimeType string, modtime time.Time, data []byte) {
	tw := NewTimeoutWriter(r.Context(), w, DefaultConfig())
	defer func() {
		if err := tw.Close(); err != nil {
			logging.Warn("Failed to close timeout writer: %v", err)
		}
	}()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(&guardedResponseWriter{ResponseWriter: w, tw: tw}, r, name, modtime, bytes.NewReader(data))

	logging.Debug("Served %s: %d bytes", name, tw.BytesWritten())
}
