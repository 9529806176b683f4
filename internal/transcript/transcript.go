// Package transcript assembles per-chunk text fragments into the combined
// transcript and writes it to the output file.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Combine joins fragments in chunk order with a single space, skipping
// fragments that are empty because their chunk failed transcription.
func Combine(fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}

	return strings.Join(parts, " ")
}

// OutputPath derives the transcript filename from the input path:
// the input basename without its extension, suffixed with _transcript.txt,
// in the current working directory.
func OutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return stem + "_transcript.txt"
}

// Write stores the combined transcript as UTF-8 text, overwriting any
// existing file at path.
func Write(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write transcript to %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}

	return nil
}
