// Package audio handles splitting a source audio file into fixed-duration
// chunks. Cutting and resampling are delegated to ffmpeg; durations come from
// the WAV header when possible and from ffprobe otherwise.
package audio
