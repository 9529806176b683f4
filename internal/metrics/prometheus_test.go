package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()

	m.RecordChunkCreated(60.0)
	m.RecordChunkCreated(30.0)

	m.RecordTranscription(true, 1.5)
	m.RecordTranscription(false, 0.2)

	m.RecordRunStarted()
	m.RecordRunFinished(true, 95.0)

	if got := testutil.ToFloat64(m.ChunksCreated); got != 2 {
		t.Errorf("Expected 2 chunks created, got %v", got)
	}

	if got := testutil.ToFloat64(m.TranscriptionRequests); got != 2 {
		t.Errorf("Expected 2 transcription requests, got %v", got)
	}

	if got := testutil.ToFloat64(m.TranscriptionSuccesses); got != 1 {
		t.Errorf("Expected 1 transcription success, got %v", got)
	}

	if got := testutil.ToFloat64(m.TranscriptionFailures); got != 1 {
		t.Errorf("Expected 1 transcription failure, got %v", got)
	}

	if got := testutil.ToFloat64(m.RunsStarted); got != 1 {
		t.Errorf("Expected 1 run started, got %v", got)
	}

	if got := testutil.ToFloat64(m.RunsSucceeded); got != 1 {
		t.Errorf("Expected 1 run succeeded, got %v", got)
	}
}
