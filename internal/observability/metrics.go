package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Synthesis metrics
	synthesisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptcast_synthesis_requests_total",
		Help: "Total number of synthesis requests sent to the TTS provider",
	}, []string{"status"})

	synthesisLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scriptcast_synthesis_latency_seconds",
		Help:    "TTS provider synthesis latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	// Merge metrics
	mergeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scriptcast_merge_duration_seconds",
		Help:    "Duration of decode-concatenate-encode merge runs in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
	})

	mergeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptcast_merge_runs_total",
		Help: "Total number of merge attempts",
	}, []string{"status"})

	// Clip metrics
	liveClips = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scriptcast_live_clips",
		Help: "Number of synthesized clips currently held in memory",
	})

	audioBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptcast_audio_bytes_total",
		Help: "Total audio bytes processed",
	}, []string{"stage"}) // stage: "encoded", "decoded" or "output"

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptcast_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

// SessionMetrics tracks metrics for a single synthesis session
type SessionMetrics struct {
	sessionID      string
	synthStartTime time.Time
	mergeStartTime time.Time
	mu             sync.Mutex
}

// NewSessionMetrics creates a metrics tracker for one session
func NewSessionMetrics(sessionID string) *SessionMetrics {
	return &SessionMetrics{sessionID: sessionID}
}

// RecordSynthesisStart records the start of one line's synthesis call
func (m *SessionMetrics) RecordSynthesisStart() {
	m.mu.Lock()
	m.synthStartTime = time.Now()
	m.mu.Unlock()
}

// RecordSynthesisEnd records the end of one line's synthesis call
func (m *SessionMetrics) RecordSynthesisEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.synthStartTime.IsZero() {
		synthesisLatency.Observe(time.Since(m.synthStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	synthesisRequests.WithLabelValues(status).Inc()
}

// RecordMergeStart records the start of a merge run
func (m *SessionMetrics) RecordMergeStart() {
	m.mu.Lock()
	m.mergeStartTime = time.Now()
	m.mu.Unlock()
}

// RecordMergeEnd records the end of a merge run
func (m *SessionMetrics) RecordMergeEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mergeStartTime.IsZero() {
		mergeDuration.Observe(time.Since(m.mergeStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	mergeRuns.WithLabelValues(status).Inc()
}

// RecordError records an error
func (m *SessionMetrics) RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordAudioBytes records audio bytes moving through a pipeline stage
func (m *SessionMetrics) RecordAudioBytes(stage string, bytes int64) {
	audioBytes.WithLabelValues(stage).Add(float64(bytes))
}

// SetLiveClips updates the live clip gauge
func SetLiveClips(n int) {
	liveClips.Set(float64(n))
}
