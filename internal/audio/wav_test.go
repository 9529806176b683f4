package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEncodeWAV(t *testing.T) {
	// 440Hz sine wave for 0.1 seconds at 16kHz
	sampleRate := 16000
	numSamples := sampleRate / 10

	samples := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		ts := float64(i) / float64(sampleRate)
		samples[i] = int16(16383.0 * math.Sin(2*math.Pi*440*ts))
	}

	wavData, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	expectedSize := 44 + len(samples)*2
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}

	header, err := ParseWAVHeader(wavData)
	if err != nil {
		t.Fatalf("Generated WAV has invalid header: %v", err)
	}

	if header.SampleRate != uint32(sampleRate) {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, header.SampleRate)
	}

	if header.NumChannels != 1 {
		t.Errorf("Expected 1 channel, got %d", header.NumChannels)
	}

	if header.BitsPerSample != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", header.BitsPerSample)
	}

	expectedDuration := float64(numSamples) / float64(sampleRate)
	if math.Abs(header.Duration().Seconds()-expectedDuration) > 0.001 {
		t.Errorf("Expected duration %.3f, got %.3f", expectedDuration, header.Duration().Seconds())
	}
}

func TestEncodeWAVErrors(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("Expected error for empty samples")
	}

	if _, err := EncodeWAV([]int16{1, 2, 3}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestParseWAVHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte("RIFF")},
		{name: "not RIFF", data: make([]byte, 44)},
		{
			name: "wrong format tag",
			data: func() []byte {
				d, _ := EncodeWAV([]int16{1, 2, 3}, 16000)
				copy(d[8:12], "AIFF")
				return d
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseWAVHeader(tt.data); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestProbeWAVDuration(t *testing.T) {
	sampleRate := 16000
	duration := 2 * time.Second
	samples := make([]int16, int(float64(sampleRate)*duration.Seconds()))

	data, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "silence.wav")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write WAV file: %v", err)
	}

	probed, err := ProbeWAVDuration(path)
	if err != nil {
		t.Fatalf("ProbeWAVDuration failed: %v", err)
	}

	if math.Abs(probed.Seconds()-duration.Seconds()) > 0.001 {
		t.Errorf("Expected duration %v, got %v", duration, probed)
	}
}

func TestProbeWAVDurationMissingFile(t *testing.T) {
	if _, err := ProbeWAVDuration(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("Expected error for missing file")
	}
}
