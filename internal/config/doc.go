// Package config provides configuration loading and validation for the transcriber.
// It handles YAML-based configuration with struct validation, built-in defaults
// for runs without a config file, and environment variable overrides.
package config
