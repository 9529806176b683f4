package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Chunk represents one fixed-duration slice of the source audio, written
// to a temporary file and ready for transcription.
type Chunk struct {
	Index    int
	Path     string
	Start    time.Duration
	Duration time.Duration
}

// SplitConfig contains configuration for the splitting process
type SplitConfig struct {
	ChunkDuration time.Duration
	SampleRate    int
	Channels      int
	Format        string // "flac" or "wav"
	TempDir       string // parent directory for chunk files; "" uses the system temp dir
}

// Splitter cuts a source audio file into consecutive fixed-duration chunks
// using ffmpeg, downmixing to mono at the configured sample rate.
type Splitter struct {
	config SplitConfig
	logger *slog.Logger
}

// chunkSpan is the planned time range of a single chunk.
type chunkSpan struct {
	start    time.Duration
	duration time.Duration
}

// NewSplitter creates a new audio splitter
func NewSplitter(config SplitConfig, logger *slog.Logger) (*Splitter, error) {
	if config.ChunkDuration <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %v", config.ChunkDuration)
	}

	if config.SampleRate <= 0 {
		config.SampleRate = 16000
	}

	if config.Channels <= 0 {
		config.Channels = 1
	}

	if config.Format == "" {
		config.Format = "flac"
	}

	return &Splitter{
		config: config,
		logger: logger,
	}, nil
}

// Split cuts the source file into ordered chunks covering its full duration.
// The last chunk may be shorter than the configured duration. All chunk files
// live in one run-private temporary directory; Cleanup removes it.
func (s *Splitter) Split(ctx context.Context, inputPath string) ([]Chunk, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, inputPath)
	}

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, ErrFFmpegNotFound
	}

	total, err := s.probeDuration(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	spans := planChunks(total, s.config.ChunkDuration)
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: source has zero duration", ErrProbeFailed)
	}

	dir, err := os.MkdirTemp(s.config.TempDir, "transcriber-chunks-")
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	chunks := make([]Chunk, 0, len(spans))
	for i, span := range spans {
		out := filepath.Join(dir, fmt.Sprintf("chunk_%04d.%s", i, s.config.Format))
		if err := s.cut(ctx, inputPath, out, span); err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to cut chunk %d: %w", i, err)
		}

		chunks = append(chunks, Chunk{
			Index:    i,
			Path:     out,
			Start:    span.start,
			Duration: span.duration,
		})

		s.logger.Debug("Created chunk",
			slog.Int("index", i),
			slog.String("path", out),
			slog.Duration("start", span.start),
			slog.Duration("duration", span.duration),
		)
	}

	return chunks, nil
}

// Cleanup removes all chunk files and their directory, best effort.
func (s *Splitter) Cleanup(chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	// All chunks share one run-private directory.
	dir := filepath.Dir(chunks[0].Path)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove chunk directory %s: %w", dir, err)
	}

	return nil
}

// planChunks computes the time spans of consecutive chunks covering total,
// with no gaps and no overlaps. The final span may be shorter than d.
func planChunks(total, d time.Duration) []chunkSpan {
	if total <= 0 || d <= 0 {
		return nil
	}

	count := int((total + d - 1) / d)
	spans := make([]chunkSpan, 0, count)

	for start := time.Duration(0); start < total; start += d {
		length := d
		if start+length > total {
			length = total - start
		}
		spans = append(spans, chunkSpan{start: start, duration: length})
	}

	return spans
}

// probeDuration determines the duration of the source audio. WAV sources are
// read directly from the RIFF header; everything else goes through ffprobe.
func (s *Splitter) probeDuration(ctx context.Context, inputPath string) (time.Duration, error) {
	if strings.EqualFold(filepath.Ext(inputPath), ".wav") {
		if d, err := ProbeWAVDuration(inputPath); err == nil {
			return d, nil
		}
		// Malformed header, fall through to ffprobe.
	}

	return ffprobeDuration(ctx, inputPath)
}

// ffprobeOutput holds the subset of ffprobe JSON output we read.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ffprobeDuration asks ffprobe for the container duration of a media file.
func ffprobeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v: %s", ErrProbeFailed, err, stderr.String())
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probed); err != nil {
		return 0, fmt.Errorf("%w: parsing ffprobe output: %v", ErrProbeFailed, err)
	}

	if probed.Format.Duration == "" {
		return 0, fmt.Errorf("%w: ffprobe reported no duration", ErrProbeFailed)
	}

	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing duration '%s': %v", ErrProbeFailed, probed.Format.Duration, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// cut extracts one chunk from the source with ffmpeg, downmixing to the
// configured channel count and sample rate.
func (s *Splitter) cut(ctx context.Context, inputPath, outputPath string, span chunkSpan) error {
	args := []string{
		"-v", "error",
		"-y",
		"-ss", formatSeconds(span.start),
		"-t", formatSeconds(span.duration),
		"-i", inputPath,
		"-ac", strconv.Itoa(s.config.Channels),
		"-ar", strconv.Itoa(s.config.SampleRate),
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, stderr.String())
	}

	return nil
}

// formatSeconds renders a duration as fractional seconds for ffmpeg arguments.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
