package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockStatsProvider struct {
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	return m.stats
}

func TestCollectorUpdatesGauges(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{ActiveSessions: 3, EngineState: 2}}
	c := NewCollector(provider, time.Hour)

	// The loop collects once immediately on start.
	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(ActiveSessions) == 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := testutil.ToFloat64(ActiveSessions); got != 3 {
		t.Errorf("ActiveSessions = %v, want 3", got)
	}
	if got := testutil.ToFloat64(EngineState); got != 2 {
		t.Errorf("EngineState = %v, want 2", got)
	}
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	// Pre-populated label combinations export as zero-valued series.
	if got := testutil.ToFloat64(UploadsTotal.WithLabelValues("invalid_format")); got < 0 {
		t.Errorf("UploadsTotal{invalid_format} = %v", got)
	}
	if got := testutil.ToFloat64(EngineInvocationsTotal.WithLabelValues("cut", "error")); got < 0 {
		t.Errorf("EngineInvocationsTotal{cut,error} = %v", got)
	}
}
