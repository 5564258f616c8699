package asset

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"video-trimmer/internal/engine"
	"video-trimmer/internal/mediatypes"
	"video-trimmer/internal/memory"
)

// mp4Header is a minimal ftyp box prefix that sniffs as MP4.
var mp4Header = []byte{0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}

// aviHeader sniffs as AVI.
var aviHeader = []byte("RIFF\x24\x00\x00\x00AVI ")

type fakeProber struct {
	result engine.ProbeResult
	err    error
}

func (f *fakeProber) Probe(ctx context.Context, input []byte, c mediatypes.Container) (engine.ProbeResult, error) {
	return f.result, f.err
}

func testPolicy() memory.Policy {
	return memory.Policy{
		Profile:        memory.ProfileDefault,
		MaxUploadBytes: 1024,
		WarnBytes:      512,
	}
}

func TestLoad(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 2.0, Width: 640, Height: 480}}

	a, err := loader.Load(context.Background(), "clip.mp4", "video/mp4", bytes.NewReader(mp4Header), prober)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if a.Container != mediatypes.ContainerMP4 {
		t.Errorf("Container = %v, want %v", a.Container, mediatypes.ContainerMP4)
	}
	if a.Duration != 2.0 {
		t.Errorf("Duration = %v, want 2.0", a.Duration)
	}
	if a.SizeWarning {
		t.Error("unexpected size warning for a small upload")
	}
	if a.ID == "" {
		t.Error("asset has no ID")
	}
}

func TestLoadRejectsDeclaredType(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 2.0}}

	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"webm mime", "clip.webm", "video/webm"},
		{"image mime", "photo.jpg", "image/jpeg"},
		{"no hints", "data", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), tt.filename, tt.contentType, bytes.NewReader(mp4Header), prober)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Load() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestLoadFallsBackToExtension(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 1.0}}

	// Browsers sometimes send AVI uploads with a generic Content-Type; the
	// .avi extension lets it through and the sniff settles the container.
	a, err := loader.Load(context.Background(), "clip.avi", "", bytes.NewReader(aviHeader), prober)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if a.Container != mediatypes.ContainerAVI {
		t.Errorf("Container = %v, want %v", a.Container, mediatypes.ContainerAVI)
	}
}

func TestLoadRejectsMismatchedContent(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 1.0}}

	// Declared type is acceptable but the bytes are not a video container.
	_, err := loader.Load(context.Background(), "clip.mp4", "video/mp4", strings.NewReader("not a video at all"), prober)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Load() error = %v, want ErrInvalidFormat", err)
	}
}

func TestLoadEnforcesSizeCap(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 1.0}}

	payload := append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{0}, 2048)...)
	_, err := loader.Load(context.Background(), "big.mp4", "video/mp4", bytes.NewReader(payload), prober)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Load() error = %v, want ErrFileTooLarge", err)
	}
}

func TestLoadWarnThreshold(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{result: engine.ProbeResult{Duration: 1.0}}

	// Above warn (512), below max (1024): load succeeds with a warning.
	payload := append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{0}, 700)...)
	a, err := loader.Load(context.Background(), "warn.mp4", "video/mp4", bytes.NewReader(payload), prober)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !a.SizeWarning {
		t.Error("expected SizeWarning for an upload above the soft threshold")
	}
}

func TestLoadProbeFailure(t *testing.T) {
	loader := NewLoader(testPolicy())
	prober := &fakeProber{err: errors.New("moov atom not found")}

	_, err := loader.Load(context.Background(), "broken.mp4", "video/mp4", bytes.NewReader(mp4Header), prober)
	if !errors.Is(err, ErrLoad) {
		t.Errorf("Load() error = %v, want ErrLoad", err)
	}
}
