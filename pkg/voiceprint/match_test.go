package voiceprint

import (
	"context"
	"testing"

	"github.com/deeptruth/deeptruth/pkg/audio"
)

func enrollVec(t *testing.T, r *Registry, emb *stubEmbedder, id, name string, key float32, vec []float32) {
	t.Helper()
	emb.vectors[key] = vec
	if _, err := r.Enroll(context.Background(), id, name, "family", []*audio.Signal{marker(key)}); err != nil {
		t.Fatal(err)
	}
}

func TestMatchEmptyRegistry(t *testing.T) {
	r := NewRegistry(&stubEmbedder{dim: 3})

	res, err := r.Match([]float32{1, 0, 0}, 0.7, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified {
		t.Error("Verified = true on empty registry")
	}
	if res.Note == "" {
		t.Error("expected an explanatory note on empty registry")
	}
	if len(res.RankedScores) != 0 {
		t.Errorf("RankedScores = %v, want empty", res.RankedScores)
	}
}

func TestMatchBestOfMany(t *testing.T) {
	emb := &stubEmbedder{dim: 3, vectors: map[float32][]float32{}}
	r := NewRegistry(emb)
	enrollVec(t, r, emb, "m1", "Alice", 0.1, []float32{1, 0, 0})
	enrollVec(t, r, emb, "m2", "Bob", 0.2, []float32{0, 1, 0})

	res, err := r.Match([]float32{0, 1, 0}, 0.7, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Verified {
		t.Error("Verified = false, want true")
	}
	if res.MatchedID != "m2" || res.MatchedName != "Bob" {
		t.Errorf("matched %s/%s, want m2/Bob", res.MatchedID, res.MatchedName)
	}
	if res.Similarity != 100 {
		t.Errorf("Similarity = %v, want 100", res.Similarity)
	}
	if len(res.RankedScores) != 2 || res.RankedScores[0].ID != "m2" {
		t.Errorf("RankedScores = %v, want m2 first", res.RankedScores)
	}
}

func TestMatchThresholdRawDomain(t *testing.T) {
	// cos((1,0,0), (1,1,0)/√2) = 1/√2 ≈ 0.707: above 0.7, below 0.71.
	emb := &stubEmbedder{dim: 3, vectors: map[float32][]float32{}}
	r := NewRegistry(emb)
	enrollVec(t, r, emb, "m1", "Alice", 0.1, []float32{1, 0, 0})

	query := []float32{0.70710678, 0.70710678, 0}

	res, err := r.Match(query, 0.7, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Verified {
		t.Errorf("Verified = false at threshold 0.7, similarity %v", res.Similarity)
	}

	res, err = r.Match(query, 0.71, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified {
		t.Errorf("Verified = true at threshold 0.71, similarity %v", res.Similarity)
	}
}

func TestMatchTieKeepsEarliest(t *testing.T) {
	emb := &stubEmbedder{dim: 3, vectors: map[float32][]float32{}}
	r := NewRegistry(emb)
	enrollVec(t, r, emb, "m1", "Alice", 0.1, []float32{1, 0, 0})
	enrollVec(t, r, emb, "m2", "Bob", 0.2, []float32{1, 0, 0})

	res, err := r.Match([]float32{1, 0, 0}, 0.5, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedID != "m1" {
		t.Errorf("MatchedID = %s, want earliest-enrolled m1", res.MatchedID)
	}
	if res.RankedScores[0].ID != "m1" {
		t.Errorf("ranked first = %s, want m1 on tie", res.RankedScores[0].ID)
	}
}

func TestMatchTargetID(t *testing.T) {
	emb := &stubEmbedder{dim: 3, vectors: map[float32][]float32{}}
	r := NewRegistry(emb)
	enrollVec(t, r, emb, "m1", "Alice", 0.1, []float32{1, 0, 0})
	enrollVec(t, r, emb, "m2", "Bob", 0.2, []float32{0, 1, 0})

	// Target m1 even though m2 would be the global best.
	res, err := r.Match([]float32{0, 1, 0}, 0.7, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified {
		t.Error("Verified = true against orthogonal target")
	}
	if len(res.RankedScores) != 1 || res.RankedScores[0].ID != "m1" {
		t.Errorf("RankedScores = %v, want only m1", res.RankedScores)
	}

	if _, err := r.Match([]float32{0, 1, 0}, 0.7, "ghost"); err != ErrUnknownMember {
		t.Errorf("err = %v, want ErrUnknownMember", err)
	}
}

func TestMatchNegativeSimilarityClamped(t *testing.T) {
	emb := &stubEmbedder{dim: 3, vectors: map[float32][]float32{}}
	r := NewRegistry(emb)
	enrollVec(t, r, emb, "m1", "Alice", 0.1, []float32{1, 0, 0})

	res, err := r.Match([]float32{-1, 0, 0}, 0.5, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Verified {
		t.Error("Verified = true for anti-correlated query")
	}
	if res.Similarity != 0 {
		t.Errorf("Similarity = %v, want 0 (negative cosine clamps for display)", res.Similarity)
	}
}
