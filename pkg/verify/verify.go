// Package verify runs the full voice verification pipeline: decode the
// audio, estimate deepfake probability, extract a speaker embedding,
// match it against enrolled voiceprints, and score the combined risk.
//
// The pipeline is built once with its dependencies and is safe for
// concurrent use. Degraded subsystems never abort an analysis: a dead
// classification backend or embedding endpoint falls through to the
// deterministic local path, and [Result.AnalysisMode] records which
// path actually ran. The only errors Analyze returns are caller input
// violations (empty input, unknown container format, unknown target
// member).
package verify

import (
	"errors"
	"time"

	"github.com/deeptruth/deeptruth/pkg/deepfake"
	"github.com/deeptruth/deeptruth/pkg/risk"
	"github.com/deeptruth/deeptruth/pkg/voiceprint"
)

// ErrEmptyInput is returned when no audio bytes are supplied.
var ErrEmptyInput = errors.New("verify: empty audio input")

// Mode says whether live backends contributed to a result.
type Mode string

const (
	// ModeAPI means at least one subsystem answered from a live backend.
	ModeAPI Mode = "api"

	// ModeMock means every subsystem ran on its local fallback.
	ModeMock Mode = "mock"
)

// Config holds the pipeline's tunable parameters. Thresholds are in
// their native domains: the deepfake threshold is a probability
// fraction in [0, 1], the similarity threshold a raw cosine in [-1, 1].
type Config struct {
	SampleRate          int
	MinDuration         time.Duration
	MaxDuration         time.Duration
	DeepfakeThreshold   float64
	SimilarityThreshold float64
}

// DefaultConfig returns the stock parameters: 16 kHz, 1-60 s accepted
// duration, 0.5 deepfake threshold, 0.7 similarity threshold.
func DefaultConfig() Config {
	return Config{
		SampleRate:          16000,
		MinDuration:         time.Second,
		MaxDuration:         60 * time.Second,
		DeepfakeThreshold:   0.5,
		SimilarityThreshold: 0.7,
	}
}

// Result is the complete outcome of one verification.
type Result struct {
	// IsDeepfake reports whether the probability crossed the configured
	// threshold.
	IsDeepfake bool

	// DeepfakeProbability is the synthetic-voice likelihood in [0, 100].
	DeepfakeProbability float64

	// Assessment is the full classifier output behind the probability.
	Assessment *deepfake.Assessment

	// VoiceprintMatch reports whether an enrolled voiceprint met the
	// similarity threshold.
	VoiceprintMatch bool

	// Match is the full registry search behind VoiceprintMatch, including
	// ranked per-member scores.
	Match *voiceprint.MatchResult

	// Risk is the blended decision over probability and similarity.
	Risk risk.Decision

	// AnalysisMode is ModeAPI when a live backend contributed, ModeMock
	// when everything ran locally.
	AnalysisMode Mode

	// Warming is set when the classification backend reported it is
	// still loading; the probability carries no signal and the caller
	// should retry after Assessment.EstimatedWait.
	Warming bool

	// AudioValid, Duration, SampleRate and Issues carry the input
	// validation outcome. Issues may be advisory even when valid.
	AudioValid bool
	Duration   time.Duration
	SampleRate int
	Issues     []string
}

// QuickResult is the classifier-only outcome of QuickCheck.
type QuickResult struct {
	Probability float64
	Confidence  float64
	Suspicious  bool
	Source      deepfake.Source
}
