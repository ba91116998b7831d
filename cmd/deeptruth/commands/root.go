package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deeptruth/deeptruth/cmd/deeptruth/internal/config"
	"github.com/deeptruth/deeptruth/pkg/deepfake"
	"github.com/deeptruth/deeptruth/pkg/familycode"
	"github.com/deeptruth/deeptruth/pkg/history"
	"github.com/deeptruth/deeptruth/pkg/kv"
	"github.com/deeptruth/deeptruth/pkg/speaker"
	"github.com/deeptruth/deeptruth/pkg/verify"
	"github.com/deeptruth/deeptruth/pkg/voiceprint"
)

var (
	// Global flags
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "deeptruth",
	Short: "Voice identity verification and deepfake detection",
	Long: `deeptruth - Detect AI-generated voices and verify callers against
enrolled family voiceprints.

Analysis runs locally out of the box. Set DEEPTRUTH_API_TOKEN to use
hosted inference models for classification and speaker embeddings; the
tool degrades back to local analysis whenever the backend is
unavailable.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/deeptruth/
  Linux:   ~/.config/deeptruth/
  Windows: %AppData%/deeptruth/

Examples:
  # Analyze a suspicious voice message
  deeptruth analyze voicemail.mp3

  # Enroll a family member from a few recordings
  deeptruth enroll --id mom --name "Mom" --relation mother a.wav b.wav

  # Verify a recording against one specific member
  deeptruth analyze --member mom call.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default: OS config dir)")
}

// app bundles everything a command needs: configuration, the persistent
// store, and the analysis pipeline over it.
type app struct {
	cfg        *config.Config
	store      kv.Store
	registry   *voiceprint.Registry
	pipeline   *verify.Pipeline
	history    *history.Log
	challenges *familycode.Store
	log        *slog.Logger
}

// openApp loads configuration, opens the data store and restores the
// voiceprint registry. Callers must close() when done.
func openApp(ctx context.Context) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configDir != "" {
		cfg, err = config.LoadFrom(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: cfg.DataDir})
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	embedder := speaker.New(cfg.EmbeddingEndpoint, cfg.Token, speaker.WithLogger(log))
	classifier := deepfake.New(cfg.DeepfakeEndpoint, cfg.Token, deepfake.WithLogger(log))

	registry := voiceprint.NewRegistry(embedder, voiceprint.WithRegistryLogger(log))
	if err := registry.Restore(ctx, store); err != nil {
		store.Close()
		return nil, fmt.Errorf("restore voiceprints: %w", err)
	}

	pipeline := verify.New(classifier, embedder, registry,
		verify.WithConfig(verify.Config{
			SampleRate:          cfg.SampleRate,
			MinDuration:         cfg.MinDuration(),
			MaxDuration:         cfg.MaxDuration(),
			DeepfakeThreshold:   cfg.DeepfakeThreshold,
			SimilarityThreshold: cfg.SimilarityThreshold,
		}),
		verify.WithLogger(log),
	)

	return &app{
		cfg:        cfg,
		store:      store,
		registry:   registry,
		pipeline:   pipeline,
		history:    history.NewLog(store),
		challenges: familycode.NewStore(store),
		log:        log,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing data store", "error", err)
	}
}
