package audio

import "errors"

// ErrSourceNotFound indicates the input audio file does not exist or is unreadable.
var ErrSourceNotFound = errors.New("source audio file not found")

// ErrFFmpegNotFound indicates the ffmpeg binary is not available in PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

// ErrProbeFailed indicates the duration of the source audio could not be determined.
var ErrProbeFailed = errors.New("could not determine audio duration")
