package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"cpu bound no limit", 1.0, 0, available},
		{"io bound no limit", 2.0, 0, available * 2},
		{"limit caps", 2.0, 1, 1},
		{"minimum one", 0.0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("FILMSTRIP_WORKERS", "3")
	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count() with override = %d, want 3", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count() with override above limit = %d, want 2", got)
	}

	t.Setenv("FILMSTRIP_WORKERS", "not-a-number")
	if got := Count(1.0, 0); got < 1 {
		t.Errorf("Count() with bad override = %d, want >= 1", got)
	}
}
