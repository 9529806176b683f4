package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcriber
type Metrics struct {
	// Chunk splitting metrics
	ChunksCreated prometheus.Counter
	ChunkDuration prometheus.Histogram

	// Transcription metrics
	TranscriptionRequests  prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram

	// Run metrics
	RunsStarted   prometheus.Counter
	RunsSucceeded prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Chunk splitting metrics
		ChunksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_chunks_created_total",
			Help: "Total number of audio chunks created",
		}),
		ChunkDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_chunk_duration_seconds",
			Help:    "Duration of created audio chunks",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~2 minutes
		}),

		// Transcription metrics
		TranscriptionRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_transcription_requests_total",
			Help: "Total number of transcription requests sent",
		}),
		TranscriptionSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_transcription_successes_total",
			Help: "Total number of successful transcription requests",
		}),
		TranscriptionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_transcription_duration_seconds",
			Help:    "Duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		// Run metrics
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_runs_started_total",
			Help: "Total number of transcription runs started",
		}),
		RunsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_runs_succeeded_total",
			Help: "Total number of transcription runs completed successfully",
		}),
		RunsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_runs_failed_total",
			Help: "Total number of transcription runs that failed",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_run_duration_seconds",
			Help:    "End-to-end duration of transcription runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68 minutes
		}),
	}
}

// RecordChunkCreated increments the chunk counter and records its duration
func (m *Metrics) RecordChunkCreated(durationSeconds float64) {
	m.ChunksCreated.Inc()
	m.ChunkDuration.Observe(durationSeconds)
}

// RecordTranscription records one transcription attempt
func (m *Metrics) RecordTranscription(success bool, durationSeconds float64) {
	m.TranscriptionRequests.Inc()
	m.TranscriptionDuration.Observe(durationSeconds)

	if success {
		m.TranscriptionSuccesses.Inc()
	} else {
		m.TranscriptionFailures.Inc()
	}
}

// RecordRunStarted increments the runs started counter
func (m *Metrics) RecordRunStarted() {
	m.RunsStarted.Inc()
}

// RecordRunFinished records run completion and its duration
func (m *Metrics) RecordRunFinished(success bool, durationSeconds float64) {
	m.RunDuration.Observe(durationSeconds)

	if success {
		m.RunsSucceeded.Inc()
	} else {
		m.RunsFailed.Inc()
	}
}
