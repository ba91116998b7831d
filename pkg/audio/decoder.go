package audio

import (
	"bytes"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Supported declared container formats. Only WAV is parsed structurally;
// the rest decode to a placeholder signal (see Placeholder).
var supportedFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"m4a":  true,
	"ogg":  true,
	"flac": true,
	"webm": true,
}

const (
	// placeholderRate is the sample rate of synthesized placeholder signals.
	placeholderRate = 16000

	// placeholderBytesPerSecond approximates the duration of an opaque
	// buffer: 16kHz mono PCM16 is 32000 bytes per second.
	placeholderBytesPerSecond = 32000
)

// Decoder turns raw audio bytes into normalized signals.
// The zero value is not usable; construct with NewDecoder.
type Decoder struct {
	minDuration time.Duration
	maxDuration time.Duration
	log         *slog.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDurationBounds sets the accepted duration range used by Validate.
// Defaults: 1s minimum, 60s maximum.
func WithDurationBounds(min, max time.Duration) DecoderOption {
	return func(d *Decoder) {
		if min > 0 {
			d.minDuration = min
		}
		if max > 0 {
			d.maxDuration = max
		}
	}
}

// WithLogger sets the logger used to report container degradations.
func WithLogger(log *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		minDuration: time.Second,
		maxDuration: 60 * time.Second,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode converts raw bytes with a declared format (extension or bare
// format name, case-insensitive, leading dot allowed) into a Signal.
//
// A WAV-tagged or RIFF-signed buffer is parsed structurally. A corrupt
// WAV, or any other supported format, degrades to a deterministic
// placeholder signal rather than failing: the engine must always reach
// a decision even without a full codec. Only an unrecognized format
// with no known signature is rejected.
func (d *Decoder) Decode(data []byte, declaredFormat string) (*Signal, error) {
	format := normalizeFormat(declaredFormat)
	hasRIFF := len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF"))

	if !supportedFormats[format] && !hasRIFF {
		return nil, ErrUnsupportedFormat
	}

	if format == "wav" || hasRIFF {
		sig, err := decodeWAV(data)
		if err != nil {
			d.log.Warn("audio: wav parse failed, using placeholder signal",
				"format", format, "size", len(data), "error", err)
			return Placeholder(data), nil
		}
		return sig, nil
	}

	// Recognized but unparsed container (mp3, ogg, ...): placeholder.
	d.log.Warn("audio: no codec for container, using placeholder signal",
		"format", format, "size", len(data))
	return Placeholder(data), nil
}

// Placeholder synthesizes a deterministic stand-in signal for a buffer
// that could not be decoded. The duration is estimated from the buffer
// length and clamped to [1s, 30s]; the samples are low-amplitude
// pseudo-noise seeded from the buffer contents, so identical bytes
// always produce an identical signal.
func Placeholder(data []byte) *Signal {
	seconds := float64(len(data)) / placeholderBytesPerSecond
	seconds = math.Max(1, math.Min(seconds, 30))
	n := int(seconds * placeholderRate)

	h := fnv.New64a()
	h.Write(data)
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	samples := make([]float32, n)
	for i := range samples {
		v := float32(rng.NormFloat64() * 0.3)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = v
	}
	return &Signal{Samples: samples, SampleRate: placeholderRate}
}

// normalizeFormat lowercases a declared format and strips a leading dot.
func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	return strings.TrimPrefix(format, ".")
}
