package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"cloud.google.com/go/storage"
)

// Recognizer converts one chunk file into recognized text.
type Recognizer interface {
	Recognize(ctx context.Context, chunkPath string) (string, error)
}

// Config contains Google Cloud Speech-to-Text client configuration
type Config struct {
	Language         string
	Punctuation      bool
	Bucket           string
	BucketLocation   string
	Project          string
	SampleRate       int
	Format           string // "flac" or "wav"
	OperationTimeout time.Duration
	RunID            string // namespaces staged objects so concurrent runs cannot collide
}

// GoogleClient transcribes audio chunks with Google Cloud Speech-to-Text.
// Chunks are staged in a GCS bucket and recognized through the long-running
// API, then the staged object is deleted.
type GoogleClient struct {
	config  Config
	speech  *speech.Client
	storage *storage.Client
	bucket  *storage.BucketHandle
	logger  *slog.Logger

	// Statistics
	totalRequests   uint64
	successRequests uint64
	failedRequests  uint64
	avgResponseTime time.Duration

	mu sync.RWMutex
}

// ClientStats represents recognizer statistics
type ClientStats struct {
	TotalRequests   uint64        `json:"total_requests"`
	SuccessRequests uint64        `json:"success_requests"`
	FailedRequests  uint64        `json:"failed_requests"`
	SuccessRate     float64       `json:"success_rate"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
}

// NewGoogleClient creates the Speech and Storage clients and makes sure the
// staging bucket exists. Credentials come from the ambient environment
// (GOOGLE_APPLICATION_CREDENTIALS); construction fails without them.
func NewGoogleClient(ctx context.Context, config Config, logger *slog.Logger) (*GoogleClient, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}

	if config.Language == "" {
		config.Language = "en-US"
	}

	if config.SampleRate <= 0 {
		config.SampleRate = 16000
	}

	if config.Format == "" {
		config.Format = "flac"
	}

	if config.OperationTimeout <= 0 {
		config.OperationTimeout = 90 * time.Second
	}

	speechClient, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		speechClient.Close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	c := &GoogleClient{
		config:  config,
		speech:  speechClient,
		storage: storageClient,
		bucket:  storageClient.Bucket(config.Bucket),
		logger:  logger,
	}

	if err := c.ensureBucket(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// ensureBucket verifies the staging bucket exists, creating it when a
// project id is configured.
func (c *GoogleClient) ensureBucket(ctx context.Context) error {
	_, err := c.bucket.Attrs(ctx)
	if err == nil {
		return nil
	}

	if c.config.Project == "" {
		return fmt.Errorf("bucket %s not accessible and no project configured to create it: %w",
			c.config.Bucket, err)
	}

	c.logger.Info("Creating staging bucket",
		slog.String("bucket", c.config.Bucket),
		slog.String("location", c.config.BucketLocation),
	)

	attrs := &storage.BucketAttrs{Location: c.config.BucketLocation}
	if err := c.bucket.Create(ctx, c.config.Project, attrs); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", c.config.Bucket, err)
	}

	return nil
}

// Recognize uploads one chunk to the staging bucket, runs long-running
// recognition against it and returns the recognized text. The staged object
// is deleted afterwards, best effort.
func (c *GoogleClient) Recognize(ctx context.Context, chunkPath string) (string, error) {
	startTime := time.Now()
	c.incrementTotalRequests()

	text, err := c.recognize(ctx, chunkPath)
	if err != nil {
		c.incrementFailedRequests()
		return "", err
	}

	c.incrementSuccessRequests()
	c.updateAvgResponseTime(time.Since(startTime))

	return text, nil
}

func (c *GoogleClient) recognize(ctx context.Context, chunkPath string) (string, error) {
	data, err := os.ReadFile(chunkPath)
	if err != nil {
		return "", fmt.Errorf("failed to read chunk file: %w", err)
	}

	objectName := path.Join("chunks", c.config.RunID, filepath.Base(chunkPath))

	if err := c.upload(ctx, objectName, data); err != nil {
		return "", err
	}
	defer c.deleteObject(objectName)

	opCtx, cancel := context.WithTimeout(ctx, c.config.OperationTimeout)
	defer cancel()

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   c.encoding(),
			SampleRateHertz:            int32(c.config.SampleRate),
			LanguageCode:               c.config.Language,
			EnableAutomaticPunctuation: c.config.Punctuation,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{
				Uri: fmt.Sprintf("gs://%s/%s", c.config.Bucket, objectName),
			},
		},
	}

	op, err := c.speech.LongRunningRecognize(opCtx, req)
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	resp, err := op.Wait(opCtx)
	if err != nil {
		return "", fmt.Errorf("recognize operation failed: %w", err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		sb.WriteString(result.Alternatives[0].Transcript)
		sb.WriteString(" ")
	}

	return strings.TrimSpace(sb.String()), nil
}

// upload writes chunk bytes to the staging bucket.
func (c *GoogleClient) upload(ctx context.Context, objectName string, data []byte) error {
	w := c.bucket.Object(objectName).NewWriter(ctx)

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to upload chunk to gs://%s/%s: %w", c.config.Bucket, objectName, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of gs://%s/%s: %w", c.config.Bucket, objectName, err)
	}

	return nil
}

// deleteObject removes a staged chunk object, best effort.
func (c *GoogleClient) deleteObject(objectName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.bucket.Object(objectName).Delete(ctx); err != nil {
		c.logger.Warn("Failed to delete staged chunk",
			slog.String("object", objectName),
			slog.String("error", err.Error()),
		)
	}
}

func (c *GoogleClient) encoding() speechpb.RecognitionConfig_AudioEncoding {
	switch c.config.Format {
	case "wav":
		return speechpb.RecognitionConfig_LINEAR16
	default:
		return speechpb.RecognitionConfig_FLAC
	}
}

// Statistics methods
func (c *GoogleClient) incrementTotalRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
}

func (c *GoogleClient) incrementSuccessRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successRequests++
}

func (c *GoogleClient) incrementFailedRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedRequests++
}

func (c *GoogleClient) updateAvgResponseTime(responseTime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple moving average
	if c.avgResponseTime == 0 {
		c.avgResponseTime = responseTime
	} else {
		c.avgResponseTime = (c.avgResponseTime + responseTime) / 2
	}
}

// GetStats returns current recognizer statistics
func (c *GoogleClient) GetStats() ClientStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	successRate := float64(0)
	if c.totalRequests > 0 {
		successRate = float64(c.successRequests) / float64(c.totalRequests) * 100
	}

	return ClientStats{
		TotalRequests:   c.totalRequests,
		SuccessRequests: c.successRequests,
		FailedRequests:  c.failedRequests,
		SuccessRate:     successRate,
		AvgResponseTime: c.avgResponseTime,
	}
}

// Close releases the underlying API clients.
func (c *GoogleClient) Close() error {
	var firstErr error

	if err := c.speech.Close(); err != nil {
		firstErr = err
	}

	if err := c.storage.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
