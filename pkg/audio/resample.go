package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts a signal to the target sample rate. The input is
// returned unchanged when it already matches. Inference providers call
// this to meet their model's declared rate.
func Resample(sig *Signal, targetRate int) (*Signal, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("audio: invalid target rate %d", targetRate)
	}
	if sig.SampleRate == targetRate {
		return sig, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(sig.SampleRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audio: create resampler: %w", err)
	}

	input := make([]float64, len(sig.Samples))
	for i, v := range sig.Samples {
		input[i] = float64(v)
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("audio: resample %d Hz to %d Hz: %w", sig.SampleRate, targetRate, err)
	}

	samples := make([]float32, len(output))
	for i, v := range output {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = float32(v)
	}
	return &Signal{Samples: samples, SampleRate: targetRate}, nil
}
