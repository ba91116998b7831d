package verify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/deeptruth/deeptruth/pkg/audio"
	"github.com/deeptruth/deeptruth/pkg/deepfake"
	"github.com/deeptruth/deeptruth/pkg/risk"
	"github.com/deeptruth/deeptruth/pkg/speaker"
	"github.com/deeptruth/deeptruth/pkg/voiceprint"
)

// Pipeline wires the decoder, classifier, embedder and registry into a
// single analysis entry point.
type Pipeline struct {
	classifier deepfake.Classifier
	embedder   speaker.Embedder
	registry   *voiceprint.Registry
	decoder    *audio.Decoder
	cfg        Config
	log        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New builds a pipeline over the given subsystems.
func New(classifier deepfake.Classifier, embedder speaker.Embedder, registry *voiceprint.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classifier,
		embedder:   embedder,
		registry:   registry,
		cfg:        DefaultConfig(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.decoder = audio.NewDecoder(
		audio.WithDurationBounds(p.cfg.MinDuration, p.cfg.MaxDuration),
		audio.WithLogger(p.log),
	)
	return p
}

// Analyze runs the full pipeline on raw audio bytes, matching the
// speaker against every enrolled voiceprint. The declared content type
// and filename are hints for container detection; either may be empty.
func (p *Pipeline) Analyze(ctx context.Context, audioBytes []byte, contentType, filename string) (*Result, error) {
	return p.run(ctx, audioBytes, contentType, filename, "")
}

// Verify runs the full pipeline but compares the speaker against one
// specific enrolled member instead of searching the whole registry.
// Returns voiceprint.ErrUnknownMember if the id is not enrolled.
func (p *Pipeline) Verify(ctx context.Context, audioBytes []byte, contentType, filename, memberID string) (*Result, error) {
	return p.run(ctx, audioBytes, contentType, filename, memberID)
}

func (p *Pipeline) run(ctx context.Context, audioBytes []byte, contentType, filename, targetID string) (*Result, error) {
	if len(audioBytes) == 0 {
		return nil, ErrEmptyInput
	}

	format := formatHint(contentType, filename)
	sig, err := p.decoder.Decode(audioBytes, format)
	if err != nil {
		return nil, err
	}
	validation := p.decoder.Validate(sig)

	// The embedding models expect a fixed input rate.
	if p.cfg.SampleRate > 0 && sig.SampleRate != p.cfg.SampleRate {
		resampled, err := audio.Resample(sig, p.cfg.SampleRate)
		if err != nil {
			p.log.Warn("verify: resampling failed, analyzing at source rate",
				"from", sig.SampleRate, "to", p.cfg.SampleRate, "error", err)
		} else {
			sig = resampled
		}
	}

	// Classification works on the raw container bytes, embedding on the
	// decoded signal; neither depends on the other, so run both at once.
	var (
		wg         sync.WaitGroup
		assessment *deepfake.Assessment
		classErr   error
		embedding  *speaker.Embedding
		embedErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		assessment, classErr = p.classifier.Classify(ctx, audioBytes)
	}()
	go func() {
		defer wg.Done()
		embedding, embedErr = p.embedder.Embed(ctx, sig)
	}()
	wg.Wait()
	if classErr != nil {
		return nil, fmt.Errorf("verify: classify: %w", classErr)
	}
	if embedErr != nil {
		return nil, fmt.Errorf("verify: embed: %w", embedErr)
	}

	match, err := p.registry.Match(embedding.Vector, p.cfg.SimilarityThreshold, targetID)
	if err != nil {
		return nil, err
	}

	decision := risk.Score(assessment.Probability, match.Similarity)

	mode := ModeMock
	if assessment.Source.Authoritative() || embedding.Source == speaker.SourceRemote {
		mode = ModeAPI
	}

	res := &Result{
		IsDeepfake:          assessment.Probability > p.cfg.DeepfakeThreshold*100,
		DeepfakeProbability: assessment.Probability,
		Assessment:          assessment,
		VoiceprintMatch:     match.Verified,
		Match:               match,
		Risk:                decision,
		AnalysisMode:        mode,
		Warming:             assessment.Source == deepfake.SourceLoading,
		AudioValid:          validation.IsValid,
		Duration:            validation.Duration,
		SampleRate:          validation.SampleRate,
		Issues:              validation.Issues,
	}

	p.log.Info("verify: analysis complete",
		"mode", mode,
		"probability", assessment.Probability,
		"similarity", match.Similarity,
		"risk", decision.Level,
		"warming", res.Warming)
	return res, nil
}

// QuickCheck runs only the deepfake classifier, skipping decoding,
// voiceprint matching and risk scoring. Suspicious is set when the
// probability crosses the configured threshold.
func (p *Pipeline) QuickCheck(ctx context.Context, audioBytes []byte) (*QuickResult, error) {
	if len(audioBytes) == 0 {
		return nil, ErrEmptyInput
	}
	assessment, err := p.classifier.Classify(ctx, audioBytes)
	if err != nil {
		return nil, fmt.Errorf("verify: classify: %w", err)
	}
	return &QuickResult{
		Probability: assessment.Probability,
		Confidence:  assessment.Confidence,
		Suspicious:  assessment.Probability > p.cfg.DeepfakeThreshold*100,
		Source:      assessment.Source,
	}, nil
}
