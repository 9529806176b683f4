package transcription

import (
	"context"
	"fmt"
)

// Unavailable is a Recognizer used when the Google client could not be
// constructed, typically because GOOGLE_APPLICATION_CREDENTIALS is missing.
// Every call fails with the construction error, so the run degrades to an
// empty transcript instead of aborting.
type Unavailable struct {
	Err error
}

// Recognize always reports the stored construction error.
func (u Unavailable) Recognize(ctx context.Context, chunkPath string) (string, error) {
	return "", fmt.Errorf("transcription service unavailable: %w", u.Err)
}
