package voiceprint

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deeptruth/deeptruth/pkg/audio"
	"github.com/deeptruth/deeptruth/pkg/speaker"
)

// Registry holds the enrolled voiceprints for one process.
//
// It is safe for concurrent use: writes (Enroll, Delete, Restore) are
// serialized, reads may run concurrently and always see a consistent
// snapshot. Iteration follows insertion order, which also fixes the
// tie-break in Match.
type Registry struct {
	embedder speaker.Embedder
	log      *slog.Logger

	mu      sync.RWMutex
	records map[string]*Record
	order   []string // enrollment order of record ids
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger.
func WithRegistryLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates an empty registry backed by the given embedder.
func NewRegistry(embedder speaker.Embedder, opts ...RegistryOption) *Registry {
	r := &Registry{
		embedder: embedder,
		log:      slog.Default(),
		records:  make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enroll extracts one embedding per sample, averages them component-wise,
// re-normalizes to unit norm, and stores the result under the given id.
// Re-enrolling an existing id replaces the record in place: the sample
// count reflects this call only, and the original enrollment position is
// kept for iteration order.
//
// The embedding work runs outside the registry lock; no network
// suspension ever happens while the lock is held.
func (r *Registry) Enroll(ctx context.Context, id, name, relation string, samples []*audio.Signal) (*Record, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyEnrollment
	}

	vectors := make([][]float32, 0, len(samples))
	for i, sig := range samples {
		emb, err := r.embedder.Embed(ctx, sig)
		if err != nil {
			return nil, fmt.Errorf("voiceprint: embed sample %d: %w", i, err)
		}
		vectors = append(vectors, emb.Vector)
	}

	record := &Record{
		ID:           id,
		Name:         name,
		Relation:     relation,
		Embedding:    speaker.Normalize(speaker.Mean(vectors)),
		SampleCount:  len(samples),
		RegisteredAt: time.Now(),
	}

	r.mu.Lock()
	if _, exists := r.records[id]; !exists {
		r.order = append(r.order, id)
	}
	r.records[id] = record
	r.mu.Unlock()

	r.log.Info("voiceprint: enrolled member",
		"id", id, "name", name, "relation", relation, "samples", len(samples))
	return record.clone(), nil
}

// Delete removes a record and returns it. Returns ErrUnknownMember if
// the id is not enrolled.
func (r *Registry) Delete(id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrUnknownMember
	}
	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return record, nil
}

// Get returns a copy of the record for the given id.
func (r *Registry) Get(id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrUnknownMember
	}
	return record.clone(), nil
}

// List returns copies of all records in enrollment order.
func (r *Registry) List() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].clone())
	}
	return out
}

// Len returns the number of enrolled members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
