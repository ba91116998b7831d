package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deeptruth/deeptruth/pkg/audio"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll --name <name> <files...>",
	Short: "Enroll a family member's voiceprint from audio samples",
	Long: `Enroll a family member by extracting a voiceprint from one or more
audio recordings. More samples give a more stable voiceprint; three or
more short clips work well.

Re-enrolling an existing --id replaces the voiceprint.

Examples:
  deeptruth enroll --name "Mom" --relation mother mom1.wav mom2.wav
  deeptruth enroll --id mom --name "Mom" new-sample.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			id = uuid.NewString()[:8]
		}
		relation, _ := cmd.Flags().GetString("relation")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		decoder := audio.NewDecoder(audio.WithDurationBounds(a.cfg.MinDuration(), a.cfg.MaxDuration()))
		samples := make([]*audio.Signal, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sig, err := decoder.Decode(data, filepath.Ext(path))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if v := decoder.Validate(sig); !v.IsValid {
				return fmt.Errorf("%s: %s", path, strings.Join(v.Issues, "; "))
			}
			samples = append(samples, sig)
		}

		record, err := a.registry.Enroll(cmd.Context(), id, name, relation, samples)
		if err != nil {
			return err
		}
		if err := a.registry.Snapshot(cmd.Context(), a.store); err != nil {
			return fmt.Errorf("persist voiceprints: %w", err)
		}

		fmt.Printf("Enrolled %s (id %s) from %d sample(s)\n", record.Name, record.ID, record.SampleCount)
		return nil
	},
}

func init() {
	enrollCmd.Flags().String("id", "", "member id (generated if omitted)")
	enrollCmd.Flags().String("name", "", "member display name (required)")
	enrollCmd.Flags().String("relation", "", "relationship, e.g. mother, son")
	rootCmd.AddCommand(enrollCmd)
}
