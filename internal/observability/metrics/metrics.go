package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters/histograms for the conversational agent.
// All observe methods are nil-safe so callers can run without metrics wired.
type AgentMetrics struct {
	chatTurns      *prometheus.CounterVec
	chatLatency    *prometheus.HistogramVec
	leadSaves      prometheus.Counter
	bookingActions *prometheus.CounterVec
	ingestChunks   *prometheus.CounterVec
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales_agent",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total chat turns by classified intent",
		}, []string{"intent"}),
		chatLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sales_agent",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one state-machine traversal",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		leadSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sales_agent",
			Subsystem: "leads",
			Name:      "saved_total",
			Help:      "Total persisted leads",
		}),
		bookingActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales_agent",
			Subsystem: "booking",
			Name:      "actions_total",
			Help:      "Total calendar actions by kind",
		}, []string{"action"}),
		ingestChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sales_agent",
			Subsystem: "ingestion",
			Name:      "chunks_total",
			Help:      "Total ingested chunks by outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTurns, m.chatLatency, m.leadSaves, m.bookingActions, m.ingestChunks)
	return m
}

func (m *AgentMetrics) ObserveChatTurn(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(intent).Inc()
	m.chatLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *AgentMetrics) ObserveLeadSaved() {
	if m == nil {
		return
	}
	m.leadSaves.Inc()
}

func (m *AgentMetrics) ObserveBooking(action string) {
	if m == nil {
		return
	}
	m.bookingActions.WithLabelValues(action).Inc()
}

func (m *AgentMetrics) ObserveIngestion(processed, failed int) {
	if m == nil {
		return
	}
	m.ingestChunks.WithLabelValues("processed").Add(float64(processed))
	m.ingestChunks.WithLabelValues("failed").Add(float64(failed))
}
