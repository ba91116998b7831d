// Package voiceprint owns the registry of enrolled speaker identities
// and nearest-match search over their reference embeddings.
//
// # Ownership
//
// The [Registry] is the only holder of [Record] state. Enrollment and
// deletion are the only mutations; readers (Get, List, Match) observe
// consistent snapshots. Embedding extraction for enrollment happens
// outside the registry lock, so a half-averaged voiceprint is never
// visible to a concurrent matcher.
//
// # Similarity Domain
//
// Thresholds are held and compared in the raw cosine [-1, 1] domain.
// The 0-100 scaling on [MatchResult.Similarity] and ranked scores is
// presentation only.
package voiceprint

import (
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrUnknownMember is returned when a member id is not enrolled.
	ErrUnknownMember = errors.New("voiceprint: unknown member")

	// ErrEmptyEnrollment is returned when enrollment is attempted with
	// no audio samples.
	ErrEmptyEnrollment = errors.New("voiceprint: at least one audio sample is required")
)

// Record is one enrolled identity. The embedding is the unit-normalized
// mean of the enrollment samples' embeddings.
type Record struct {
	ID           string    `msgpack:"id"`
	Name         string    `msgpack:"name"`
	Relation     string    `msgpack:"relation"`
	Embedding    []float32 `msgpack:"embedding"`
	SampleCount  int       `msgpack:"sample_count"`
	RegisteredAt time.Time `msgpack:"registered_at"`
}

// clone returns a deep copy so registry internals never escape.
func (r *Record) clone() *Record {
	cp := *r
	cp.Embedding = make([]float32, len(r.Embedding))
	copy(cp.Embedding, r.Embedding)
	return &cp
}
