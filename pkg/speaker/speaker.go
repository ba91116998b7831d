// Package speaker extracts voiceprint embeddings from audio signals.
//
// An [Embedder] maps a normalized signal to a fixed-length float32
// vector suitable for cosine-similarity comparison. Two implementations
// are provided:
//
//   - [Remote] — calls a hosted feature-extraction endpoint over HTTP.
//   - [Fallback] — deterministic content-seeded vectors for operation
//     without a live backend.
//
// Remote never surfaces network failure as an error: a degraded call
// produces a Fallback-sourced embedding so the verification pipeline
// always reaches a decision. The [Embedding.Source] tag tells callers
// which path produced the vector.
package speaker

import (
	"context"
	"errors"

	"github.com/deeptruth/deeptruth/pkg/audio"
)

// DefaultDimension is the embedding dimensionality of ECAPA-TDNN style
// speaker verification models.
const DefaultDimension = 192

// Source identifies which subsystem produced an embedding.
type Source string

const (
	// SourceRemote means the vector came from the inference backend.
	SourceRemote Source = "remote"

	// SourceFallback means the vector was synthesized locally.
	SourceFallback Source = "fallback"
)

// Embedding is a speaker feature vector tagged with its origin.
type Embedding struct {
	Vector []float32
	Source Source
}

// Embedder converts audio signals into speaker embeddings.
//
// Implementations must be safe for concurrent use and must represent
// backend failure as a fallback-sourced result, not an error; errors are
// reserved for caller input violations.
type Embedder interface {
	// Embed computes the embedding for a signal.
	Embed(ctx context.Context, sig *audio.Signal) (*Embedding, error)

	// Dimension returns the length of vectors produced by Embed.
	Dimension() int
}

// ErrEmptyInput is returned when the input signal has no samples.
var ErrEmptyInput = errors.New("speaker: empty input signal")

// New selects an Embedder based on credential presence: a non-empty
// token configures the remote backend, otherwise the deterministic
// fallback is used. Call sites stay oblivious to the mode.
func New(endpoint, token string, opts ...Option) Embedder {
	if token == "" {
		return NewFallback(opts...)
	}
	return NewRemote(endpoint, token, opts...)
}
