package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notlainiwakura/transcriber/internal/audio"
	"github.com/notlainiwakura/transcriber/internal/config"
	"github.com/notlainiwakura/transcriber/internal/metrics"
	"github.com/notlainiwakura/transcriber/internal/pipeline"
	"github.com/notlainiwakura/transcriber/internal/transcription"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "transcriber"
	serviceVersion    = "1.0.0"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return 2
	}
	inputPath := flag.Arg(0)

	// Load .env before anything reads the environment. A missing .env is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger := initLogger(cfg.Logging)

	runID := uuid.NewString()
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("run_id", runID),
		slog.String("input", inputPath),
	)

	resolveCredentials(logger)

	appMetrics := metrics.NewMetrics()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Address, logger)
	}

	ctx := context.Background()

	splitter, err := audio.NewSplitter(audio.SplitConfig{
		ChunkDuration: cfg.Audio.GetChunkDuration(),
		SampleRate:    cfg.Audio.SampleRate,
		Channels:      cfg.Audio.Channels,
		Format:        cfg.Audio.Format,
	}, logger)
	if err != nil {
		logger.Error("Failed to create splitter", slog.String("error", err.Error()))
		return 1
	}

	recognizer := newRecognizer(ctx, cfg, runID, logger)
	if client, ok := recognizer.(*transcription.GoogleClient); ok {
		defer client.Close()
	}

	p := pipeline.New(logger, splitter, recognizer, appMetrics)

	result, err := p.Run(ctx, inputPath)
	if err != nil {
		logger.Error("Transcription run failed", slog.String("error", err.Error()))
		return 1
	}

	if client, ok := recognizer.(*transcription.GoogleClient); ok {
		stats := client.GetStats()
		logger.Info("Final transcription statistics",
			slog.Uint64("requests", stats.TotalRequests),
			slog.Uint64("successes", stats.SuccessRequests),
			slog.Uint64("failures", stats.FailedRequests),
			slog.Duration("avg_response_time", stats.AvgResponseTime),
		)
	}

	fmt.Printf("Transcription completed: %s (%d chunks, %d failed)\n",
		result.OutputPath, result.ChunkCount, result.FailedChunks)

	return 0
}

// newRecognizer builds the Google Speech client. Construction failure, most
// commonly missing credentials, degrades to a recognizer that fails every
// chunk so the run still completes with an empty transcript.
func newRecognizer(ctx context.Context, cfg *config.Config, runID string,
	logger *slog.Logger) transcription.Recognizer {

	client, err := transcription.NewGoogleClient(ctx, transcription.Config{
		Language:         cfg.Speech.Language,
		Punctuation:      cfg.Speech.Punctuation,
		Bucket:           cfg.Speech.Bucket,
		BucketLocation:   cfg.Speech.BucketLocation,
		Project:          cfg.Speech.Project,
		SampleRate:       cfg.Audio.SampleRate,
		Format:           cfg.Audio.Format,
		OperationTimeout: cfg.Speech.GetOperationTimeout(),
		RunID:            runID,
	}, logger)
	if err != nil {
		logger.Error("Failed to create transcription client, chunks will not be transcribed",
			slog.String("error", err.Error()),
		)
		return transcription.Unavailable{Err: err}
	}

	return client
}

// resolveCredentials mirrors the credential handling of the original tool:
// a relative GOOGLE_APPLICATION_CREDENTIALS path is resolved against the
// working directory so the Google SDKs can find it regardless of cwd changes.
func resolveCredentials(logger *slog.Logger) {
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsPath == "" {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS is not set, transcription calls will fail")
		return
	}

	if !filepath.IsAbs(credentialsPath) {
		abs, err := filepath.Abs(credentialsPath)
		if err == nil {
			credentialsPath = abs
			os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", credentialsPath)
		}
	}

	logger.Info("Using Google Cloud credentials", slog.String("path", credentialsPath))
}

// startMetricsServer exposes /metrics while the run is in flight.
func startMetricsServer(address string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("Metrics endpoint listening", slog.String("address", address))
		if err := http.ListenAndServe(address, mux); err != nil {
			logger.Warn("Metrics endpoint stopped", slog.String("error", err.Error()))
		}
	}()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config path] <audio-file>\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
