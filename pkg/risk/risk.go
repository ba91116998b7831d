// Package risk turns a deepfake probability and a voice similarity
// score into a single operational risk decision.
//
// Both inputs are 0-100: the probability that the audio is synthetic,
// and the similarity of the speaker to an enrolled voiceprint. The
// weighted score leans on the deepfake signal, but extreme readings on
// either axis escalate the level regardless of the blend.
package risk

// Level orders the risk tiers from benign to actionable.
type Level int

const (
	Low Level = iota
	Medium
	High
	Critical
)

// String returns the lowercase tier name.
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Decision is the scored outcome of a verification.
type Decision struct {
	// Level is the assigned tier.
	Level Level

	// Weighted is the blended score in 0-100. Higher is riskier.
	Weighted float64

	// Recommendations are the actions suggested for this tier, most
	// urgent first.
	Recommendations []string
}

const (
	probabilityWeight = 0.6
	similarityWeight  = 0.4
)

// Score blends a deepfake probability and a voiceprint similarity
// (both 0-100) into a Decision.
//
// The weighted score is 0.6*probability + 0.4*(100-similarity). Tier
// cutoffs on the weighted score are 30, 50 and 70, but a single
// extreme input escalates on its own: probability at or above 80, or
// similarity at or below 20, forces critical even when the blend
// would not.
func Score(probability, similarity float64) Decision {
	weighted := probabilityWeight*probability + similarityWeight*(100-similarity)

	var level Level
	switch {
	case weighted >= 70 || probability >= 80 || similarity <= 20:
		level = Critical
	case weighted >= 50 || probability >= 60 || similarity <= 40:
		level = High
	case weighted >= 30 || probability >= 40 || similarity <= 60:
		level = Medium
	default:
		level = Low
	}

	return Decision{
		Level:           level,
		Weighted:        weighted,
		Recommendations: recommendations(level),
	}
}

func recommendations(level Level) []string {
	switch level {
	case Critical:
		return []string{
			"Do not act on any request made in this call",
			"Hang up and call the person back on a number you already have",
			"Verify identity with a family code question before continuing",
			"Report the incident if money or credentials were requested",
		}
	case High:
		return []string{
			"Treat the caller's identity as unconfirmed",
			"Ask a family code question only the real person could answer",
			"Do not share codes, passwords, or payment details",
		}
	case Medium:
		return []string{
			"Stay alert for urgency or pressure tactics",
			"Confirm unusual requests through a second channel",
		}
	case Low:
		return []string{
			"Voice characteristics look consistent",
			"Remain cautious with unexpected requests regardless",
		}
	default:
		return nil
	}
}

// Summary is a one-line description of the decision for logs and
// terminal output.
func (d Decision) Summary() string {
	switch d.Level {
	case Critical:
		return "critical risk: strong indicators of a synthetic or impersonated voice"
	case High:
		return "high risk: the voice could not be trusted without further verification"
	case Medium:
		return "medium risk: some indicators warrant caution"
	default:
		return "low risk: no significant indicators detected"
	}
}
