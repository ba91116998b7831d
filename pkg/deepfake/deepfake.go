// Package deepfake estimates the probability that a voice sample was
// synthetically generated.
//
// A [Classifier] maps raw audio bytes to an [Assessment]: a 0-100
// probability, a confidence value, and per-artifact sub-scores. Two
// implementations are provided:
//
//   - [Remote] — calls a hosted audio-classification endpoint.
//   - [Fallback] — deterministic content-seeded estimates for operation
//     without a live backend.
//
// Network failure never escapes the classifier: a degraded remote call
// returns a fallback-sourced assessment, and a warming backend (503) is
// reported as [SourceLoading] so callers can retry instead of treating
// it as a verified-negative.
package deepfake

import (
	"context"
	"errors"
	"time"
)

// Source identifies how an assessment was produced.
type Source string

const (
	// SourceRemote means the backend classified the sample.
	SourceRemote Source = "remote-success"

	// SourceLoading means the backend is still warming up; the
	// assessment carries no real probability and EstimatedWait tells
	// the caller when to retry.
	SourceLoading Source = "remote-loading"

	// SourceErrorFallback means the backend failed and the assessment
	// was synthesized locally.
	SourceErrorFallback Source = "remote-error-fallback"

	// SourceMock means no backend is configured; the assessment is a
	// deterministic local placeholder.
	SourceMock Source = "local-mock"
)

// Authoritative reports whether the assessment came from a live
// backend inference rather than a local placeholder.
func (s Source) Authoritative() bool {
	return s == SourceRemote || s == SourceLoading
}

// Artifact sub-score names reported in Assessment.Artifacts.
const (
	ArtifactHighFreqAnomaly    = "high_freq_anomaly"
	ArtifactPhaseDiscontinuity = "phase_discontinuity"
	ArtifactMelSpectrogram     = "mel_spectrogram_score"
	ArtifactVocoder            = "vocoder_artifacts"
)

// Assessment is the result of classifying one sample.
type Assessment struct {
	// Probability is the deepfake likelihood in [0, 100].
	Probability float64

	// Confidence is the classifier's self-reported certainty in [0, 1].
	Confidence float64

	// Artifacts maps artifact names to sub-scores in [0, 1].
	Artifacts map[string]float64

	// Source tags which path produced this assessment.
	Source Source

	// Method names the analysis technique (classification label
	// scoring, transcription heuristic, fallback synthesis).
	Method string

	// Transcription carries recognized text when the backend is a
	// speech-to-text model (truncated to 100 runes). Empty otherwise.
	Transcription string

	// EstimatedWait is the backend's warm-up estimate; only set when
	// Source is SourceLoading.
	EstimatedWait time.Duration
}

// IsDeepfake reports whether the probability crosses the 50% midline.
func (a *Assessment) IsDeepfake() bool {
	return a.Probability > 50
}

// Classifier estimates deepfake probability from raw audio bytes.
//
// Implementations must be safe for concurrent use and must represent
// backend failure as data, not an error; errors are reserved for
// caller input violations.
type Classifier interface {
	Classify(ctx context.Context, audioBytes []byte) (*Assessment, error)
}

// ErrEmptyInput is returned when no audio bytes are supplied.
var ErrEmptyInput = errors.New("deepfake: empty input")

// New selects a Classifier based on credential presence: a non-empty
// token configures the remote backend, otherwise the deterministic
// fallback is used.
func New(endpoint, token string, opts ...Option) Classifier {
	if token == "" {
		return NewFallback(opts...)
	}
	return NewRemote(endpoint, token, opts...)
}
