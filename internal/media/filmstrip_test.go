package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"

	"video-trimmer/internal/mediatypes"
)

// fakeExtractor returns a solid-color PNG for every frame and records the
// requested timestamps.
type fakeExtractor struct {
	mu    sync.Mutex
	times []float64
	fail  map[int]bool // frame index -> force failure
	calls int
}

func (f *fakeExtractor) Frame(ctx context.Context, input []byte, c mediatypes.Container, at float64) ([]byte, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.times = append(f.times, at)
	fail := f.fail[idx]
	f.mu.Unlock()

	if fail {
		return nil, errors.New("frame extraction failed")
	}

	img := image.NewRGBA(image.Rect(0, 0, 320, 180))
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func testConfig() FilmstripConfig {
	return FilmstripConfig{
		Frames:     4,
		TileWidth:  32,
		TileHeight: 18,
		Quality:    80,
		Workers:    2,
	}
}

func TestGenerateFilmstrip(t *testing.T) {
	ext := &fakeExtractor{}
	strip, err := GenerateFilmstrip(context.Background(), ext, []byte("video"), mediatypes.ContainerMP4, 8.0, testConfig())
	if err != nil {
		t.Fatalf("GenerateFilmstrip() failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(strip))
	if err != nil {
		t.Fatalf("strip is not valid JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 4*32 || bounds.Dy() != 18 {
		t.Errorf("strip dimensions = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), 4*32, 18)
	}

	if ext.calls != 4 {
		t.Errorf("frame extractions = %d, want 4", ext.calls)
	}

	// Sample times sit at tile centers within the duration.
	want := map[float64]bool{1.0: true, 3.0: true, 5.0: true, 7.0: true}
	for _, at := range ext.times {
		if !want[at] {
			t.Errorf("unexpected sample time %v", at)
		}
	}
}

func TestGenerateFilmstripTolerantOfFrameFailures(t *testing.T) {
	ext := &fakeExtractor{fail: map[int]bool{0: true, 2: true}}
	strip, err := GenerateFilmstrip(context.Background(), ext, []byte("video"), mediatypes.ContainerMP4, 8.0, testConfig())
	if err != nil {
		t.Fatalf("GenerateFilmstrip() failed despite tolerable frame errors: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(strip)); err != nil {
		t.Errorf("strip with placeholder tiles is not valid JPEG: %v", err)
	}
}

func TestGenerateFilmstripRejectsEmptyInput(t *testing.T) {
	ext := &fakeExtractor{}
	if _, err := GenerateFilmstrip(context.Background(), ext, nil, mediatypes.ContainerMP4, 0, testConfig()); err == nil {
		t.Error("GenerateFilmstrip() with zero duration did not fail")
	}

	cfg := testConfig()
	cfg.Frames = 0
	if _, err := GenerateFilmstrip(context.Background(), ext, nil, mediatypes.ContainerMP4, 8.0, cfg); err == nil {
		t.Error("GenerateFilmstrip() with zero frames did not fail")
	}
}
