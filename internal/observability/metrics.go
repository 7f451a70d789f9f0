package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions     prometheus.Gauge
	SessionEvents      *prometheus.CounterVec
	TurnEvents         *prometheus.CounterVec
	WSMessages         *prometheus.CounterVec
	WSWriteErrors      *prometheus.CounterVec
	ProviderErrors     *prometheus.CounterVec
	BubbleRevealDelay  prometheus.Histogram
	StreamDrainLatency prometheus.Histogram

	pacing *pacingWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		pacing: newPacingWindow(256),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active tutoring sessions.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		TurnEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_events_total",
			Help:      "Conversation turn outcomes by result.",
		}, []string{"result"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		WSWriteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_write_errors_total",
			Help:      "WebSocket write failures by kind.",
		}, []string{"kind"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Model provider errors by code.",
		}, []string{"code"}),
		BubbleRevealDelay: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bubble_reveal_delay_ms",
			Help:      "Computed reading delay before each follow-up bubble in milliseconds.",
			Buckets:   []float64{1500, 2000, 2500, 3000, 3500, 4000, 4500, 5000},
		}),
		StreamDrainLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_drain_latency_ms",
			Help:      "Time to drain one full model response in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 16000, 32000},
		}),
	}
}

func (m *Metrics) ObserveBubbleRevealDelay(d time.Duration) {
	m.BubbleRevealDelay.Observe(float64(d.Milliseconds()))
	m.pacing.Observe("reading_delay", float64(d.Milliseconds()))
}

func (m *Metrics) ObserveStreamDrainLatency(d time.Duration) {
	m.StreamDrainLatency.Observe(float64(d.Milliseconds()))
	m.pacing.Observe("stream_drain", float64(d.Milliseconds()))
}

// ObservePacingStage records one named pacing stage for the debug snapshot.
func (m *Metrics) ObservePacingStage(stage string, d time.Duration) {
	m.pacing.Observe(stage, float64(d.Milliseconds()))
}

// ObservePacingIndicator counts a discrete pacing event for the debug snapshot.
func (m *Metrics) ObservePacingIndicator(name string) {
	m.pacing.ObserveIndicator(name)
}

// SnapshotPacing returns the rolling pacing view served by the debug endpoint.
func (m *Metrics) SnapshotPacing() PacingSnapshot {
	return m.pacing.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
