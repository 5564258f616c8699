package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"video-trimmer/internal/mediatypes"

	"github.com/google/uuid"
)

// ProbeResult holds the container-level metadata the service cares about.
type ProbeResult struct {
	// Duration of the asset in seconds.
	Duration float64
	// Width and Height of the first video stream, 0 if none was found.
	Width  int
	Height int
}

// probeOutput mirrors the JSON emitted by
// `ffprobe -print_format json -show_format -show_streams`.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe stages the input bytes and reads their duration and dimensions.
// A probe that yields no parsable duration is an error: an asset the
// engine cannot time cannot be trimmed.
func (a *Adapter) Probe(ctx context.Context, input []byte, c mediatypes.Container) (res ProbeResult, err error) {
	defer func() { recordInvocation("probe", err) }()

	if a.runtime.State() != StateReady {
		return ProbeResult{}, ErrNotReady
	}

	name := "probe-" + uuid.New().String() + c.Ext()
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, input, 0o644); err != nil {
		return ProbeResult{}, fmt.Errorf("staging probe input: %w", err)
	}
	defer a.removeStaged(path)

	cmd := exec.CommandContext(ctx, a.runtime.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		name,
	)
	cmd.Dir = a.dir

	raw, err := cmd.Output()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe failed: %w", err)
	}

	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return ProbeResult{}, fmt.Errorf("failed to decode probe output: %w", err)
	}

	duration, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return ProbeResult{}, fmt.Errorf("probe returned no usable duration (%q)", out.Format.Duration)
	}

	res = ProbeResult{Duration: duration}
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			res.Width = s.Width
			res.Height = s.Height
			break
		}
	}
	return res, nil
}
