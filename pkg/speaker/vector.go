package speaker

import "math"

// Cosine computes the cosine similarity of two vectors in [-1, 1].
// Returns 0 when either vector has zero norm or the lengths differ;
// a zero vector has no direction to compare.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp floating point drift.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim
}

// Normalize returns a unit-norm copy of the vector. A zero vector is
// returned as an unchanged copy.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		copy(out, v)
		return out
	}
	scale := float32(1 / norm)
	for i, x := range v {
		out[i] = x * scale
	}
	return out
}

// Mean averages vectors component-wise. All vectors must share the
// length of the first; nil is returned for empty input.
func Mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for i := range out {
			out[i] += v[i]
		}
	}
	scale := float32(1 / float64(len(vectors)))
	for i := range out {
		out[i] *= scale
	}
	return out
}
