package engine

import (
	"bufio"
	"bytes"
	"container/ring"
	"io"
	"strconv"
	"strings"
)

// streamProgress consumes engine stderr, reporting integer percentages
// against rangeSeconds via report (which may be nil). Reported values are
// clamped to [0, 99] and never decrease; Cut emits the final 100 itself
// once the output file exists. The returned buffer holds the last few
// stderr lines for error reporting.
func streamProgress(r io.Reader, rangeSeconds float64, report func(int)) *tailBuffer {
	tail := newTailBuffer(8)
	scanner := bufio.NewScanner(r)
	scanner.Split(scanProgressLines)

	last := -1
	for scanner.Scan() {
		line := scanner.Text()
		tail.add(line)

		elapsed, ok := parseProgressTime(line)
		if !ok || report == nil {
			continue
		}
		pct := progressPercent(elapsed, rangeSeconds)
		if pct > last {
			last = pct
			report(pct)
		}
	}
	return tail
}

// scanProgressLines splits on both \r and \n. The engine rewrites its
// status line in place with carriage returns, so a newline-only split
// would deliver all updates as one giant token at EOF.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseProgressTime extracts the elapsed seconds from a status line such as
// "frame= 120 fps=30 ... time=00:00:04.02 bitrate= ...". Returns false for
// lines without a parsable time field.
func parseProgressTime(line string) (float64, bool) {
	i := strings.Index(line, "time=")
	if i < 0 {
		return 0, false
	}
	field := strings.TrimLeft(line[i+len("time="):], " ")
	if j := strings.IndexByte(field, ' '); j >= 0 {
		field = field[:j]
	}

	parts := strings.Split(field, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return hours*3600 + minutes*60 + seconds, true
}

// progressPercent converts elapsed output seconds to a percentage of the
// requested range, capped at 99 so completion is only ever signalled by
// the caller after the output is confirmed.
func progressPercent(elapsed, rangeSeconds float64) int {
	if rangeSeconds <= 0 {
		return 0
	}
	pct := int(elapsed / rangeSeconds * 100)
	if pct < 0 {
		pct = 0
	}
	if pct > 99 {
		pct = 99
	}
	return pct
}

// tailBuffer keeps the last n non-empty lines seen.
type tailBuffer struct {
	r *ring.Ring
}

func newTailBuffer(n int) *tailBuffer {
	return &tailBuffer{r: ring.New(n)}
}

func (t *tailBuffer) add(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	t.r.Value = line
	t.r = t.r.Next()
}

func (t *tailBuffer) String() string {
	var lines []string
	t.r.Do(func(v any) {
		if s, ok := v.(string); ok {
			lines = append(lines, s)
		}
	})
	return strings.Join(lines, "; ")
}
