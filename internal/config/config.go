package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete transcriber configuration
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Speech  SpeechConfig  `yaml:"speech"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// AudioConfig contains chunk splitting parameters
type AudioConfig struct {
	ChunkDurationMs int    `yaml:"chunk_duration_ms"` // milliseconds
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	Format          string `yaml:"format"` // "flac" or "wav"
}

// SpeechConfig contains Google Cloud Speech-to-Text parameters
type SpeechConfig struct {
	Language         string `yaml:"language"`
	Punctuation      bool   `yaml:"punctuation"`
	Bucket           string `yaml:"bucket"`
	BucketLocation   string `yaml:"bucket_location"`
	Project          string `yaml:"project"`
	OperationTimeout int    `yaml:"operation_timeout"` // seconds
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig contains the optional Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			ChunkDurationMs: 60000,
			SampleRate:      16000,
			Channels:        1,
			Format:          "flac",
		},
		Speech: SpeechConfig{
			Language:         "en-US",
			Punctuation:      true,
			Bucket:           "transcription-chunks",
			BucketLocation:   "us-central1",
			OperationTimeout: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9090",
		},
	}
}

// Load reads and parses the configuration file. A missing file yields the
// built-in defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config := Default()
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies ambient environment settings on top of the file.
func applyEnvOverrides(c *Config) {
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		c.Speech.Project = project
	}
	if bucket := os.Getenv("TRANSCRIBER_BUCKET"); bucket != "" {
		c.Speech.Bucket = bucket
	}
}

// Validate performs validation of the complete configuration
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Speech.Validate(); err != nil {
		return fmt.Errorf("speech config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	return nil
}

// Validate validates the audio configuration
func (a *AudioConfig) Validate() error {
	if a.ChunkDurationMs <= 0 {
		return fmt.Errorf("chunk_duration_ms must be positive, got %d", a.ChunkDurationMs)
	}

	if a.SampleRate != 8000 && a.SampleRate != 16000 && a.SampleRate != 44100 && a.SampleRate != 48000 {
		return fmt.Errorf("sample_rate must be one of [8000, 16000, 44100, 48000], got %d", a.SampleRate)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono) for speech recognition, got %d", a.Channels)
	}

	validFormats := map[string]bool{"flac": true, "wav": true}
	if !validFormats[a.Format] {
		return fmt.Errorf("format must be 'flac' or 'wav', got '%s'", a.Format)
	}

	return nil
}

// Validate validates the speech configuration
func (s *SpeechConfig) Validate() error {
	if s.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}

	if s.Bucket == "" {
		return fmt.Errorf("bucket cannot be empty")
	}

	if s.OperationTimeout < 1 {
		return fmt.Errorf("operation_timeout must be at least 1 second, got %d", s.OperationTimeout)
	}

	return nil
}

// Validate validates the logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// Validate validates the metrics configuration
func (m *MetricsConfig) Validate() error {
	if m.Enabled && m.Address == "" {
		return fmt.Errorf("address cannot be empty when metrics are enabled")
	}

	return nil
}

// GetChunkDuration returns the chunk duration as a time.Duration
func (a *AudioConfig) GetChunkDuration() time.Duration {
	return time.Duration(a.ChunkDurationMs) * time.Millisecond
}

// GetOperationTimeout returns the recognize operation timeout as a time.Duration
func (s *SpeechConfig) GetOperationTimeout() time.Duration {
	return time.Duration(s.OperationTimeout) * time.Second
}
