package observability

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// PacingStats summarizes one named stage of turn playback over the window.
type PacingStats struct {
	Stage       string  `json:"stage"`
	Samples     int     `json:"samples"`
	LastMS      float64 `json:"last_ms"`
	AvgMS       float64 `json:"avg_ms"`
	P50MS       float64 `json:"p50_ms"`
	P95MS       float64 `json:"p95_ms"`
	P99MS       float64 `json:"p99_ms"`
	TargetP95MS float64 `json:"target_p95_ms,omitempty"`
}

// PacingIndicator counts a named discrete event within the window.
type PacingIndicator struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PacingSnapshot is the debug view of recent turn pacing.
type PacingSnapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	WindowSize  int               `json:"window_size"`
	Stages      []PacingStats     `json:"stages"`
	Indicators  []PacingIndicator `json:"indicators,omitempty"`
}

// pacingWindow keeps a fixed-size rolling window of stage durations so the
// debug endpoint can report percentiles without a metrics backend.
type pacingWindow struct {
	mu         sync.RWMutex
	maxSamples int
	stages     map[string]*pacingBuffer
	indicators map[string]int
}

type pacingBuffer struct {
	values []float64
	next   int
	filled bool
	last   float64
}

func newPacingWindow(maxSamples int) *pacingWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &pacingWindow{
		maxSamples: maxSamples,
		stages:     make(map[string]*pacingBuffer),
		indicators: make(map[string]int),
	}
}

func (w *pacingWindow) Observe(stage string, ms float64) {
	if stage == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, ok := w.stages[stage]
	if !ok {
		buf = &pacingBuffer{
			values: make([]float64, w.maxSamples),
		}
		w.stages[stage] = buf
	}
	buf.values[buf.next] = ms
	buf.last = ms
	buf.next++
	if buf.next >= len(buf.values) {
		buf.next = 0
		buf.filled = true
	}
}

func (w *pacingWindow) ObserveIndicator(name string) {
	if w == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.indicators[name]++
}

func (w *pacingWindow) Snapshot() PacingSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	stages := make([]PacingStats, 0, len(w.stages))
	keys := make([]string, 0, len(w.stages))
	for stage := range w.stages {
		keys = append(keys, stage)
	}
	sort.Strings(keys)

	for _, stage := range keys {
		buf := w.stages[stage]
		if buf == nil {
			continue
		}
		n := buf.next
		if buf.filled {
			n = len(buf.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, buf.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}

		stages = append(stages, PacingStats{
			Stage:       stage,
			Samples:     n,
			LastMS:      round2(buf.last),
			AvgMS:       round2(sum / float64(n)),
			P50MS:       round2(quantile(samples, 0.50)),
			P95MS:       round2(quantile(samples, 0.95)),
			P99MS:       round2(quantile(samples, 0.99)),
			TargetP95MS: stageTargetP95MS(stage),
		})
	}

	indicators := make([]PacingIndicator, 0, len(w.indicators))
	indicatorKeys := make([]string, 0, len(w.indicators))
	for name := range w.indicators {
		indicatorKeys = append(indicatorKeys, name)
	}
	sort.Strings(indicatorKeys)
	for _, name := range indicatorKeys {
		count := w.indicators[name]
		if count <= 0 {
			continue
		}
		indicators = append(indicators, PacingIndicator{
			Name:  name,
			Count: count,
		})
	}

	return PacingSnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Stages:      stages,
		Indicators:  indicators,
	}
}

func (w *pacingWindow) Reset() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stages = make(map[string]*pacingBuffer)
	w.indicators = make(map[string]int)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// stageTargetP95MS pins the pacing budget per stage. Reading delays are
// clamped at five seconds by the scheduler; stream drain covers the full
// provider round trip.
func stageTargetP95MS(stage string) float64 {
	switch stage {
	case "reading_delay":
		return 5000
	case "stream_drain":
		return 12000
	case "summary_total":
		return 15000
	case "turn_total":
		return 45000
	default:
		return 0
	}
}
