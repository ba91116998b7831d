package speaker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/deeptruth/deeptruth/pkg/audio"
)

// Remote implements [Embedder] against a hosted feature-extraction
// endpoint. The signal is posted as a 16-bit mono WAV body; the
// response may be a flat numeric vector or a batch-nested one.
//
// Any non-200 status or transport failure degrades to the deterministic
// fallback embedding. Failure is data, not an error: the pipeline must
// always produce a decision.
type Remote struct {
	endpoint string
	token    string
	dim      int
	timeout  time.Duration
	client   *http.Client
	log      *slog.Logger
	fallback *Fallback
}

var _ Embedder = (*Remote)(nil)

// NewRemote creates a remote embedder.
func NewRemote(endpoint, token string, opts ...Option) *Remote {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Remote{
		endpoint: endpoint,
		token:    token,
		dim:      cfg.dim,
		timeout:  cfg.timeout,
		client:   cfg.httpClient,
		log:      cfg.log,
		fallback: &Fallback{dim: cfg.dim},
	}
}

// Embed posts the signal to the backend and parses the returned vector.
func (r *Remote) Embed(ctx context.Context, sig *audio.Signal) (*Embedding, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return nil, ErrEmptyInput
	}

	vec, err := r.callAPI(ctx, audio.EncodeWAV(sig))
	if err != nil {
		r.log.Warn("speaker: remote embedding degraded to fallback", "error", err)
		return &Embedding{Vector: r.fallback.vector(sig), Source: SourceFallback}, nil
	}
	return &Embedding{Vector: vec, Source: SourceRemote}, nil
}

// Dimension returns the configured vector dimensionality.
func (r *Remote) Dimension() int { return r.dim }

func (r *Remote) callAPI(ctx context.Context, wav []byte) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(wav))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return parseVector(body, r.dim)
}

// parseVector accepts the two payload shapes feature-extraction
// endpoints return: a flat vector, or a single-element batch of vectors.
func parseVector(body []byte, wantDim int) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return checkDim(flat, wantDim)
	}

	var nested [][]float32
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return checkDim(nested[0], wantDim)
	}

	return nil, fmt.Errorf("unrecognized embedding payload: %s", truncate(body, 200))
}

func checkDim(vec []float32, want int) ([]float32, error) {
	if want > 0 && len(vec) != want {
		return nil, fmt.Errorf("embedding dimension %d, want %d", len(vec), want)
	}
	return vec, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
