package voiceprint

import (
	"sort"

	"github.com/deeptruth/deeptruth/pkg/speaker"
)

// MemberScore is one member's similarity to the query, for ranked display.
type MemberScore struct {
	ID         string
	Name       string
	Similarity float64 // 0-100 presentation scale
}

// MatchResult is the outcome of a similarity search.
type MatchResult struct {
	// Verified reports whether the best similarity met the threshold.
	Verified bool

	// Similarity is the best cosine similarity scaled to 0-100.
	Similarity float64

	// MatchedID and MatchedName identify the best match when Verified.
	MatchedID   string
	MatchedName string

	// RankedScores lists every compared member by descending similarity.
	RankedScores []MemberScore

	// Note explains a degenerate outcome (e.g. an empty registry).
	Note string
}

// Match ranks enrolled members by cosine similarity to the query
// embedding. The threshold is in the raw cosine [-1, 1] domain.
//
// With a targetID, only that member is compared; ErrUnknownMember is
// returned if it is not enrolled. Without one, every member is compared
// and the maximum wins, ties going to the earliest-enrolled member.
// An empty registry is a normal non-match, not an error.
func (r *Registry) Match(query []float32, threshold float64, targetID string) (*MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if targetID != "" {
		record, ok := r.records[targetID]
		if !ok {
			return nil, ErrUnknownMember
		}
		sim := speaker.Cosine(query, record.Embedding)
		res := &MatchResult{
			Verified:   sim >= threshold,
			Similarity: toPercent(sim),
			RankedScores: []MemberScore{
				{ID: record.ID, Name: record.Name, Similarity: toPercent(sim)},
			},
		}
		if res.Verified {
			res.MatchedID = record.ID
			res.MatchedName = record.Name
		}
		return res, nil
	}

	if len(r.order) == 0 {
		return &MatchResult{Note: "no enrolled voiceprints"}, nil
	}

	var (
		best    *Record
		bestSim float64
	)
	scores := make([]MemberScore, 0, len(r.order))
	for _, id := range r.order {
		record := r.records[id]
		sim := speaker.Cosine(query, record.Embedding)
		scores = append(scores, MemberScore{
			ID:         record.ID,
			Name:       record.Name,
			Similarity: toPercent(sim),
		})
		// Strictly greater keeps the earliest-enrolled member on ties.
		if best == nil || sim > bestSim {
			best, bestSim = record, sim
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Similarity > scores[j].Similarity
	})

	res := &MatchResult{
		Verified:     bestSim >= threshold,
		Similarity:   toPercent(bestSim),
		RankedScores: scores,
	}
	if res.Verified {
		res.MatchedID = best.ID
		res.MatchedName = best.Name
	}
	return res, nil
}

// toPercent scales a raw cosine similarity for presentation, clamping
// negative correlation to zero.
func toPercent(sim float64) float64 {
	if sim < 0 {
		return 0
	}
	return sim * 100
}
