// Package transcription implements the Google Cloud Speech-to-Text client.
// Chunk files are staged in a Cloud Storage bucket, recognized with the
// long-running API, and the staged objects are removed afterwards.
package transcription
