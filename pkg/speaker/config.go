package speaker

import (
	"log/slog"
	"net/http"
	"time"
)

// config holds shared configuration for embedder implementations.
type config struct {
	dim        int
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures an embedder.
type Option func(*config)

// WithDimension sets the output vector dimensionality (default 192).
func WithDimension(dim int) Option {
	return func(c *config) {
		if dim > 0 {
			c.dim = dim
		}
	}
}

// WithTimeout bounds each remote call (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger for degradation reporting.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

func defaultConfig() config {
	return config{
		dim:        DefaultDimension,
		timeout:    30 * time.Second,
		httpClient: http.DefaultClient,
		log:        slog.Default(),
	}
}
