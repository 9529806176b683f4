package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "default configuration",
			config:      *Default(),
			expectError: false,
		},
		{
			name: "invalid chunk duration",
			config: func() Config {
				c := *Default()
				c.Audio.ChunkDurationMs = 0
				return c
			}(),
			expectError: true,
			errorMsg:    "chunk_duration_ms must be positive",
		},
		{
			name: "invalid sample rate",
			config: func() Config {
				c := *Default()
				c.Audio.SampleRate = 12345
				return c
			}(),
			expectError: true,
			errorMsg:    "sample_rate must be one of",
		},
		{
			name: "stereo chunks rejected",
			config: func() Config {
				c := *Default()
				c.Audio.Channels = 2
				return c
			}(),
			expectError: true,
			errorMsg:    "channels must be 1",
		},
		{
			name: "invalid chunk format",
			config: func() Config {
				c := *Default()
				c.Audio.Format = "mp3"
				return c
			}(),
			expectError: true,
			errorMsg:    "format must be 'flac' or 'wav'",
		},
		{
			name: "empty language",
			config: func() Config {
				c := *Default()
				c.Speech.Language = ""
				return c
			}(),
			expectError: true,
			errorMsg:    "language cannot be empty",
		},
		{
			name: "empty bucket",
			config: func() Config {
				c := *Default()
				c.Speech.Bucket = ""
				return c
			}(),
			expectError: true,
			errorMsg:    "bucket cannot be empty",
		},
		{
			name: "zero operation timeout",
			config: func() Config {
				c := *Default()
				c.Speech.OperationTimeout = 0
				return c
			}(),
			expectError: true,
			errorMsg:    "operation_timeout must be at least 1 second",
		},
		{
			name: "invalid log level",
			config: func() Config {
				c := *Default()
				c.Logging.Level = "verbose"
				return c
			}(),
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name: "metrics enabled without address",
			config: func() Config {
				c := *Default()
				c.Metrics.Enabled = true
				c.Metrics.Address = ""
				return c
			}(),
			expectError: true,
			errorMsg:    "address cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

func TestConfigLoad(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config file",
			configYAML: `
audio:
  chunk_duration_ms: 300000
  sample_rate: 16000
  channels: 1
  format: flac
speech:
  language: en-US
  punctuation: true
  bucket: my-chunks
  bucket_location: us-central1
  operation_timeout: 120
logging:
  level: debug
  format: json
  output: stdout
`,
			expectError: false,
		},
		{
			name: "invalid YAML syntax",
			configYAML: `
audio:
  chunk_duration_ms: not_a_number
`,
			expectError: true,
			errorMsg:    "failed to parse",
		},
		{
			name: "invalid values rejected",
			configYAML: `
audio:
  chunk_duration_ms: -5
`,
			expectError: true,
			errorMsg:    "chunk_duration_ms must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tempDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.configYAML), 0644); err != nil {
				t.Fatalf("Failed to create test config file: %v", err)
			}

			config, err := Load(configPath)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				} else if config == nil {
					t.Errorf("Expected config to be loaded but got nil")
				}
			}
		})
	}
}

func TestConfigLoadPartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	partial := `
audio:
  chunk_duration_ms: 30000
`
	if err := os.WriteFile(configPath, []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Audio.ChunkDurationMs != 30000 {
		t.Errorf("Expected chunk_duration_ms 30000, got %d", config.Audio.ChunkDurationMs)
	}

	// Unset sections keep their defaults.
	if config.Speech.Language != "en-US" {
		t.Errorf("Expected default language en-US, got %s", config.Speech.Language)
	}

	if config.Speech.Bucket != "transcription-chunks" {
		t.Errorf("Expected default bucket, got %s", config.Speech.Bucket)
	}
}

func TestConfigLoadNonexistentFileUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for nonexistent file, got error: %v", err)
	}

	if config.Audio.ChunkDurationMs != 60000 {
		t.Errorf("Expected default chunk duration 60000 ms, got %d", config.Audio.ChunkDurationMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
	t.Setenv("TRANSCRIBER_BUCKET", "env-bucket")

	config, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Speech.Project != "env-project" {
		t.Errorf("Expected project from environment, got '%s'", config.Speech.Project)
	}

	if config.Speech.Bucket != "env-bucket" {
		t.Errorf("Expected bucket from environment, got '%s'", config.Speech.Bucket)
	}
}

func TestDurationHelpers(t *testing.T) {
	audio := AudioConfig{ChunkDurationMs: 60000}
	if audio.GetChunkDuration() != time.Minute {
		t.Errorf("Expected 1 minute, got %v", audio.GetChunkDuration())
	}

	speech := SpeechConfig{OperationTimeout: 90}
	if speech.GetOperationTimeout() != 90*time.Second {
		t.Errorf("Expected 90 seconds, got %v", speech.GetOperationTimeout())
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
