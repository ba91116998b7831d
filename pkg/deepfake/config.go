package deepfake

import (
	"log/slog"
	"net/http"
	"time"
)

// config holds shared configuration for classifier implementations.
type config struct {
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a classifier.
type Option func(*config)

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
		timeout:    30 * time.Second,
		httpClient: http.DefaultClient,
		log:        slog.Default(),
	}
}
