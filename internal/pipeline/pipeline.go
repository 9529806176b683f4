// Package pipeline drives one transcription run: split the source into
// chunks, transcribe them in order, join the fragments, write the output
// file and clean up. Splitting failures are fatal; per-chunk transcription
// failures degrade the output instead of aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notlainiwakura/transcriber/internal/audio"
	"github.com/notlainiwakura/transcriber/internal/metrics"
	"github.com/notlainiwakura/transcriber/internal/transcript"
	"github.com/notlainiwakura/transcriber/internal/transcription"
)

// Splitter cuts a source file into ordered chunks and disposes of them.
// *audio.Splitter is the production implementation.
type Splitter interface {
	Split(ctx context.Context, inputPath string) ([]audio.Chunk, error)
	Cleanup(chunks []audio.Chunk) error
}

// Pipeline runs the split/transcribe/join/write sequence for one input file
type Pipeline struct {
	logger     *slog.Logger
	splitter   Splitter
	recognizer transcription.Recognizer
	metrics    *metrics.Metrics
}

// Result summarizes one completed run
type Result struct {
	OutputPath   string
	ChunkCount   int
	FailedChunks int
	Elapsed      time.Duration
}

// New creates a pipeline from its collaborators
func New(logger *slog.Logger, splitter Splitter, recognizer transcription.Recognizer,
	m *metrics.Metrics) *Pipeline {

	return &Pipeline{
		logger:     logger,
		splitter:   splitter,
		recognizer: recognizer,
		metrics:    m,
	}
}

// Run transcribes one audio file. The output file is always written when
// splitting succeeds, even if every chunk fails transcription.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	startTime := time.Now()
	p.metrics.RecordRunStarted()

	p.logger.Info("Splitting audio file", slog.String("input", inputPath))

	chunks, err := p.splitter.Split(ctx, inputPath)
	if err != nil {
		p.metrics.RecordRunFinished(false, time.Since(startTime).Seconds())
		return nil, fmt.Errorf("splitting failed: %w", err)
	}

	defer func() {
		if err := p.splitter.Cleanup(chunks); err != nil {
			p.logger.Warn("Failed to clean up chunk files", slog.String("error", err.Error()))
		} else {
			p.logger.Info("Cleaned up temporary chunk files")
		}
	}()

	p.logger.Info("Split audio into chunks", slog.Int("count", len(chunks)))
	for _, chunk := range chunks {
		p.metrics.RecordChunkCreated(chunk.Duration.Seconds())
	}

	fragments := make([]string, len(chunks))
	failed := 0

	for _, chunk := range chunks {
		p.logger.Info("Transcribing chunk",
			slog.Int("chunk", chunk.Index+1),
			slog.Int("total", len(chunks)),
		)

		chunkStart := time.Now()
		text, err := p.recognizer.Recognize(ctx, chunk.Path)
		p.metrics.RecordTranscription(err == nil, time.Since(chunkStart).Seconds())

		if err != nil {
			p.logger.Error("Failed to transcribe chunk",
				slog.Int("chunk", chunk.Index+1),
				slog.String("error", err.Error()),
			)
			failed++
			continue
		}

		fragments[chunk.Index] = text
	}

	combined := transcript.Combine(fragments)
	outputPath := transcript.OutputPath(inputPath)

	if err := transcript.Write(outputPath, combined); err != nil {
		p.metrics.RecordRunFinished(false, time.Since(startTime).Seconds())
		return nil, err
	}

	elapsed := time.Since(startTime)
	p.metrics.RecordRunFinished(true, elapsed.Seconds())

	p.logger.Info("Transcription complete",
		slog.String("output", outputPath),
		slog.Int("chunks", len(chunks)),
		slog.Int("failed_chunks", failed),
		slog.Duration("elapsed", elapsed),
	)

	return &Result{
		OutputPath:   outputPath,
		ChunkCount:   len(chunks),
		FailedChunks: failed,
		Elapsed:      elapsed,
	}, nil
}
