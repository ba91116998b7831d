package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deeptruth/deeptruth/pkg/history"
	"github.com/deeptruth/deeptruth/pkg/verify"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze an audio file for deepfake and voiceprint signals",
	Long: `Analyze an audio file: estimate the probability that the voice is
AI-generated, match the speaker against enrolled voiceprints, and
report a combined risk level with recommendations.

With --member, the voice is verified against that one enrolled member
instead of searching the whole registry. With --quick, only the
deepfake classifier runs.

Examples:
  deeptruth analyze voicemail.mp3
  deeptruth analyze --member mom call.wav
  deeptruth analyze --quick clip.ogg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		quick, _ := cmd.Flags().GetBool("quick")
		if quick {
			q, err := a.pipeline.QuickCheck(cmd.Context(), data)
			if err != nil {
				return err
			}
			verdict := "no strong deepfake indicators"
			if q.Suspicious {
				verdict = "suspicious"
			}
			fmt.Printf("%s: %.1f%% deepfake probability (confidence %.2f) - %s\n",
				filepath.Base(path), q.Probability, q.Confidence, verdict)
			return nil
		}

		member, _ := cmd.Flags().GetString("member")
		var res *verify.Result
		if member != "" {
			res, err = a.pipeline.Verify(cmd.Context(), data, contentType, path, member)
		} else {
			res, err = a.pipeline.Analyze(cmd.Context(), data, contentType, path)
		}
		if err != nil {
			return err
		}

		if _, err := a.history.Append(cmd.Context(), history.FromResult(filepath.Base(path), res)); err != nil {
			a.log.Warn("recording analysis history", "error", err)
		}

		fmt.Print(renderResult(filepath.Base(path), res))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("quick", false, "run only the deepfake classifier")
	analyzeCmd.Flags().String("member", "", "verify against one enrolled member id")
	rootCmd.AddCommand(analyzeCmd)
}
