// Package config loads the deeptruth CLI configuration.
//
// Configuration is stored under os.UserConfigDir()/deeptruth/:
//
//	~/Library/Application Support/deeptruth/config.yaml   (macOS)
//	~/.config/deeptruth/config.yaml                       (Linux)
//	%AppData%/deeptruth/config.yaml                       (Windows)
//
// A missing file is not an error: every field has a working default,
// and the inference token comes from the DEEPTRUTH_API_TOKEN
// environment variable rather than the file, so a bare install works
// in local-analysis mode out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "deeptruth"

	// configFile is the YAML configuration file name.
	configFile = "config.yaml"

	// tokenEnv is the environment variable holding the inference API
	// token. Its presence switches analysis from local to remote mode.
	tokenEnv = "DEEPTRUTH_API_TOKEN"
)

// Config holds all CLI settings.
type Config struct {
	// SampleRate is the target sample rate for analysis.
	SampleRate int `yaml:"sample_rate"`

	// MinDurationSec and MaxDurationSec bound accepted audio length.
	MinDurationSec float64 `yaml:"min_duration_sec"`
	MaxDurationSec float64 `yaml:"max_duration_sec"`

	// DeepfakeThreshold is the probability fraction above which audio
	// is flagged as synthetic.
	DeepfakeThreshold float64 `yaml:"deepfake_threshold"`

	// SimilarityThreshold is the raw cosine similarity required for a
	// voiceprint match.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// DeepfakeEndpoint and EmbeddingEndpoint are the inference URLs.
	DeepfakeEndpoint  string `yaml:"deepfake_endpoint"`
	EmbeddingEndpoint string `yaml:"embedding_endpoint"`

	// DataDir is where voiceprints, history and challenges persist.
	// Defaults to a "data" directory next to the config file.
	DataDir string `yaml:"data_dir"`

	// Token is the inference API credential. Never read from the file;
	// populated from the DEEPTRUTH_API_TOKEN environment variable.
	Token string `yaml:"-"`
}

// Default returns the stock configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		SampleRate:          16000,
		MinDurationSec:      1,
		MaxDurationSec:      60,
		DeepfakeThreshold:   0.5,
		SimilarityThreshold: 0.7,
		DeepfakeEndpoint:    "https://api-inference.huggingface.co/models/MelodyMachine/Deepfake-audio-detection-V2",
		EmbeddingEndpoint:   "https://api-inference.huggingface.co/models/microsoft/wavlm-base-plus-sv",
		DataDir:             filepath.Join(dir, "data"),
	}
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom reads the configuration rooted at a specific directory.
// A missing config file yields the defaults.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Token = os.Getenv(tokenEnv)
	return cfg, nil
}

// MinDuration returns the minimum accepted audio duration.
func (c *Config) MinDuration() time.Duration {
	return time.Duration(c.MinDurationSec * float64(time.Second))
}

// MaxDuration returns the maximum accepted audio duration.
func (c *Config) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSec * float64(time.Second))
}
