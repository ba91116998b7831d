package verify

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/deeptruth/deeptruth/pkg/audio"
	"github.com/deeptruth/deeptruth/pkg/deepfake"
	"github.com/deeptruth/deeptruth/pkg/risk"
	"github.com/deeptruth/deeptruth/pkg/speaker"
	"github.com/deeptruth/deeptruth/pkg/voiceprint"
)

type stubClassifier struct {
	assessment deepfake.Assessment
}

func (s *stubClassifier) Classify(_ context.Context, audioBytes []byte) (*deepfake.Assessment, error) {
	if len(audioBytes) == 0 {
		return nil, deepfake.ErrEmptyInput
	}
	a := s.assessment
	return &a, nil
}

type stubEmbedder struct {
	vector []float32
	source speaker.Source
}

func (s *stubEmbedder) Embed(_ context.Context, sig *audio.Signal) (*speaker.Embedding, error) {
	if len(sig.Samples) == 0 {
		return nil, speaker.ErrEmptyInput
	}
	return &speaker.Embedding{Vector: s.vector, Source: s.source}, nil
}

func (s *stubEmbedder) Dimension() int { return len(s.vector) }

// toneWAV builds a valid in-memory WAV with a clearly audible sine tone.
func toneWAV(d time.Duration) []byte {
	rate := 16000
	samples := make([]float32, int(d.Seconds()*float64(rate)))
	for i := range samples {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return audio.EncodeWAV(&audio.Signal{Samples: samples, SampleRate: rate})
}

func enrolledRegistry(t *testing.T, emb speaker.Embedder) *voiceprint.Registry {
	t.Helper()
	r := voiceprint.NewRegistry(emb)
	sig := &audio.Signal{Samples: []float32{0.1, 0.2, 0.3}, SampleRate: 16000}
	if _, err := r.Enroll(context.Background(), "m1", "Alice", "daughter", []*audio.Signal{sig}); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestAnalyzeMatchAndLowRisk(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 10, Confidence: 0.9, Source: deepfake.SourceMock}},
		emb,
		enrolledRegistry(t, emb),
	)

	res, err := p.Analyze(context.Background(), toneWAV(5*time.Second), "audio/wav", "call.wav")
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDeepfake {
		t.Error("IsDeepfake = true at probability 10")
	}
	if !res.VoiceprintMatch {
		t.Error("VoiceprintMatch = false for identical embedding")
	}
	if res.Match.MatchedName != "Alice" {
		t.Errorf("MatchedName = %q, want Alice", res.Match.MatchedName)
	}
	if res.Risk.Level != risk.Low {
		t.Errorf("Risk.Level = %v, want low (weighted %.1f)", res.Risk.Level, res.Risk.Weighted)
	}
	if res.AnalysisMode != ModeMock {
		t.Errorf("AnalysisMode = %q, want mock", res.AnalysisMode)
	}
	if !res.AudioValid {
		t.Errorf("AudioValid = false, issues %v", res.Issues)
	}
}

func TestAnalyzeDeepfakeCriticalRisk(t *testing.T) {
	// Orthogonal query embedding: no voiceprint match.
	emb := &stubEmbedder{vector: []float32{0, 1, 0}, source: speaker.SourceFallback}
	registry := enrolledRegistry(t, &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback})
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 88, Confidence: 0.95, Source: deepfake.SourceRemote}},
		emb,
		registry,
	)

	res, err := p.Analyze(context.Background(), toneWAV(5*time.Second), "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDeepfake {
		t.Error("IsDeepfake = false at probability 88")
	}
	if res.VoiceprintMatch {
		t.Error("VoiceprintMatch = true for orthogonal embedding")
	}
	if res.Risk.Level != risk.Critical {
		t.Errorf("Risk.Level = %v, want critical", res.Risk.Level)
	}
	if res.AnalysisMode != ModeAPI {
		t.Errorf("AnalysisMode = %q, want api for remote-sourced assessment", res.AnalysisMode)
	}
	if len(res.Risk.Recommendations) == 0 {
		t.Error("no recommendations on a critical result")
	}
}

func TestAnalyzeModeAPIFromEmbedderAlone(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceRemote}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 20, Source: deepfake.SourceErrorFallback}},
		emb,
		enrolledRegistry(t, emb),
	)

	res, err := p.Analyze(context.Background(), toneWAV(4*time.Second), "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.AnalysisMode != ModeAPI {
		t.Errorf("AnalysisMode = %q, want api when the embedder answered remotely", res.AnalysisMode)
	}
}

func TestAnalyzeWarming(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{
			Probability:   50,
			Source:        deepfake.SourceLoading,
			EstimatedWait: 20 * time.Second,
		}},
		emb,
		enrolledRegistry(t, emb),
	)

	res, err := p.Analyze(context.Background(), toneWAV(4*time.Second), "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Warming {
		t.Error("Warming = false for a loading backend")
	}
	if res.Assessment.EstimatedWait != 20*time.Second {
		t.Errorf("EstimatedWait = %v, want 20s", res.Assessment.EstimatedWait)
	}
	if res.AnalysisMode != ModeAPI {
		t.Errorf("AnalysisMode = %q, want api (the backend did answer)", res.AnalysisMode)
	}
}

func TestAnalyzeEmptyRegistry(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 30, Source: deepfake.SourceMock}},
		emb,
		voiceprint.NewRegistry(emb),
	)

	res, err := p.Analyze(context.Background(), toneWAV(4*time.Second), "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.VoiceprintMatch {
		t.Error("VoiceprintMatch = true with nobody enrolled")
	}
	if res.Match.Note == "" {
		t.Error("expected an explanatory note with nobody enrolled")
	}
}

func TestVerifyTargetMember(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	registry := enrolledRegistry(t, emb)
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 10, Source: deepfake.SourceMock}},
		emb,
		registry,
	)
	ctx := context.Background()
	data := toneWAV(4 * time.Second)

	res, err := p.Verify(ctx, data, "audio/wav", "", "m1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.VoiceprintMatch {
		t.Error("VoiceprintMatch = false against the enrolled target")
	}

	if _, err := p.Verify(ctx, data, "audio/wav", "", "ghost"); !errors.Is(err, voiceprint.ErrUnknownMember) {
		t.Errorf("err = %v, want ErrUnknownMember", err)
	}
}

func TestAnalyzeInputViolations(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 10, Source: deepfake.SourceMock}},
		emb,
		voiceprint.NewRegistry(emb),
	)
	ctx := context.Background()

	if _, err := p.Analyze(ctx, nil, "audio/wav", ""); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input err = %v, want ErrEmptyInput", err)
	}
	if _, err := p.Analyze(ctx, []byte("not audio"), "text/plain", "notes.txt"); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Errorf("unsupported format err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestAnalyzeShortAudioAdvisory(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 10, Source: deepfake.SourceMock}},
		emb,
		enrolledRegistry(t, emb),
	)

	res, err := p.Analyze(context.Background(), toneWAV(1500*time.Millisecond), "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.AudioValid {
		t.Errorf("AudioValid = false for 1.5s audio, issues %v", res.Issues)
	}
	if len(res.Issues) == 0 {
		t.Error("expected a short-duration advisory issue")
	}
}

func TestAnalyzeResamplesToConfiguredRate(t *testing.T) {
	rate := 44100
	samples := make([]float32, rate*2)
	for i := range samples {
		samples[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	data := audio.EncodeWAV(&audio.Signal{Samples: samples, SampleRate: rate})

	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 10, Source: deepfake.SourceMock}},
		emb,
		enrolledRegistry(t, emb),
	)

	res, err := p.Analyze(context.Background(), data, "audio/wav", "")
	if err != nil {
		t.Fatal(err)
	}
	// Validation reports the source rate; the embedder sees 16 kHz.
	if res.SampleRate != rate {
		t.Errorf("SampleRate = %d, want source rate %d", res.SampleRate, rate)
	}
	if !res.AudioValid {
		t.Errorf("AudioValid = false, issues %v", res.Issues)
	}
}

func TestQuickCheck(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}, source: speaker.SourceFallback}
	p := New(
		&stubClassifier{assessment: deepfake.Assessment{Probability: 72, Confidence: 0.8, Source: deepfake.SourceMock}},
		emb,
		voiceprint.NewRegistry(emb),
	)
	ctx := context.Background()

	q, err := p.QuickCheck(ctx, toneWAV(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !q.Suspicious {
		t.Error("Suspicious = false at probability 72")
	}
	if q.Probability != 72 || q.Confidence != 0.8 {
		t.Errorf("got %.0f/%.2f, want 72/0.80", q.Probability, q.Confidence)
	}

	if _, err := p.QuickCheck(ctx, nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input err = %v, want ErrEmptyInput", err)
	}
}

func TestFormatHint(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        string
	}{
		{"audio/mpeg", "", "mp3"},
		{"audio/x-wav", "", "wav"},
		{"audio/ogg; codecs=opus", "", "ogg"},
		{"AUDIO/MP4", "", "m4a"},
		{"application/octet-stream", "call.flac", "flac"},
		{"", "voice.WEBM", "webm"},
		{"", "", "wav"},
		{"text/plain", "", "wav"},
	}
	for _, tt := range tests {
		if got := formatHint(tt.contentType, tt.filename); got != tt.want {
			t.Errorf("formatHint(%q, %q) = %q, want %q", tt.contentType, tt.filename, got, tt.want)
		}
	}
}
