// Package audio decodes submitted voice samples into normalized mono
// signals and validates them before inference.
//
// # Pipeline Position
//
// Raw bytes enter through [Decoder.Decode], which recognizes WAV
// containers structurally and converts anything else into a
// deterministic placeholder signal so downstream components always
// receive something to work with. Validation ([Decoder.Validate])
// reports duration and loudness issues without blocking the pipeline.
//
// # Sample Representation
//
// A [Signal] holds mono float32 samples in [-1, 1] at the sample rate
// declared by the container. Resampling to a model's required rate is
// the consumer's concern; use [Resample].
package audio

import (
	"errors"
	"math"
	"time"
)

// Sentinel errors.
var (
	// ErrUnsupportedFormat is returned when the declared container format
	// is not recognized and the payload carries no known signature.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")

	// errCorruptContainer marks a recognized container whose chunk
	// structure is inconsistent. It never escapes Decode; corrupt input
	// degrades to a placeholder signal instead.
	errCorruptContainer = errors.New("audio: corrupt container")
)

// Signal is a normalized mono audio signal.
type Signal struct {
	// Samples are mono samples with amplitude in [-1, 1].
	Samples []float32

	// SampleRate is the sample rate in Hz.
	SampleRate int
}

// Duration returns the signal length in time.
func (s *Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s.Samples)) * time.Second / time.Duration(s.SampleRate)
}

// RMS returns the root-mean-square amplitude of the signal.
// Returns 0 for an empty signal.
func (s *Signal) RMS() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Samples {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s.Samples)))
}
