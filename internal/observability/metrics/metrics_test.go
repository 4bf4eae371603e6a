package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAgentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAgentMetrics(reg)

	m.ObserveChatTurn("BOOKING", 0.05)
	m.ObserveChatTurn("BOOKING", 0.07)
	m.ObserveLeadSaved()
	m.ObserveBooking("created")
	m.ObserveIngestion(3, 1)

	if got := testutil.ToFloat64(m.chatTurns.WithLabelValues("BOOKING")); got != 2 {
		t.Errorf("chat turns = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.leadSaves); got != 1 {
		t.Errorf("lead saves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bookingActions.WithLabelValues("created")); got != 1 {
		t.Errorf("booking actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ingestChunks.WithLabelValues("processed")); got != 3 {
		t.Errorf("processed chunks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.ingestChunks.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed chunks = %v, want 1", got)
	}
}

func TestAgentMetricsNilSafe(t *testing.T) {
	var m *AgentMetrics
	m.ObserveChatTurn("RAG_INFO", 0.01)
	m.ObserveLeadSaved()
	m.ObserveBooking("cancelled")
	m.ObserveIngestion(0, 0)
}
