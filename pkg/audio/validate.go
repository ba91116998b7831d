package audio

import (
	"fmt"
	"time"
)

// RMS thresholds for loudness checks.
const (
	// silenceRMS marks a signal as effectively silent.
	silenceRMS = 0.001

	// quietRMS marks a signal as loud enough to analyze but likely to
	// degrade accuracy.
	quietRMS = 0.01
)

// recommendedMinDuration is the duration below which analysis accuracy
// drops; shorter signals get an advisory issue, not a rejection.
const recommendedMinDuration = 3 * time.Second

// Validation is the result of checking a signal against duration and
// loudness requirements. Issues are human-readable; only duration
// violations and near-silence make the signal invalid.
type Validation struct {
	IsValid    bool
	Duration   time.Duration
	SampleRate int
	RMS        float64
	Issues     []string
}

// Validate checks a signal against the decoder's configured duration
// bounds and fixed loudness thresholds. Advisory issues (short-but-legal
// duration, low loudness) are reported without invalidating the signal.
func (d *Decoder) Validate(sig *Signal) *Validation {
	v := &Validation{
		IsValid:    true,
		Duration:   sig.Duration(),
		SampleRate: sig.SampleRate,
		RMS:        sig.RMS(),
	}

	if v.Duration < d.minDuration {
		v.Issues = append(v.Issues, fmt.Sprintf("audio too short (minimum %s)", d.minDuration))
		v.IsValid = false
	} else if v.Duration < recommendedMinDuration {
		v.Issues = append(v.Issues, fmt.Sprintf("audio of %s or more is recommended for accurate analysis", recommendedMinDuration))
	}

	if v.Duration > d.maxDuration {
		v.Issues = append(v.Issues, fmt.Sprintf("audio too long (maximum %s)", d.maxDuration))
		v.IsValid = false
	}

	if v.RMS < silenceRMS {
		v.Issues = append(v.Issues, "volume too low (silence or noise only)")
		v.IsValid = false
	} else if v.RMS < quietRMS {
		v.Issues = append(v.Issues, "volume is low; analysis accuracy may suffer")
	}

	return v
}
