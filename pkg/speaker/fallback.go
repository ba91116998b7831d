package speaker

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/deeptruth/deeptruth/pkg/audio"
)

// Fallback synthesizes deterministic embeddings without a model.
// The vector is standard-normal noise from a PCG seeded by a content
// hash of the samples, so identical audio always produces an identical
// embedding. Used when no backend credential is configured and as the
// degradation target of [Remote].
type Fallback struct {
	dim int
}

var _ Embedder = (*Fallback)(nil)

// NewFallback creates a fallback embedder.
func NewFallback(opts ...Option) *Fallback {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Fallback{dim: cfg.dim}
}

// Embed returns a deterministic pseudo-embedding for the signal.
func (f *Fallback) Embed(_ context.Context, sig *audio.Signal) (*Embedding, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return nil, ErrEmptyInput
	}
	return &Embedding{
		Vector: f.vector(sig),
		Source: SourceFallback,
	}, nil
}

// Dimension returns the configured vector dimensionality.
func (f *Fallback) Dimension() int { return f.dim }

func (f *Fallback) vector(sig *audio.Signal) []float32 {
	seed := signalSeed(sig)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	vec := make([]float32, f.dim)
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
	}
	return vec
}

// signalSeed hashes the sample data into a PCG seed.
func signalSeed(sig *audio.Signal) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(sig.SampleRate))
	h.Write(buf[:])
	for _, s := range sig.Samples {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(s))
		h.Write(buf[:])
	}
	return h.Sum64()
}
