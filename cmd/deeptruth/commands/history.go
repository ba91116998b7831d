package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past analysis results",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.history.List(cmd.Context(), limit, offset)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No analyses recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tFILE\tPROBABILITY\tMATCH\tRISK\tMODE")
		for _, e := range entries {
			match := "-"
			if e.VoiceprintMatch {
				match = e.MatchedName
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%s\t%s\t%s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Filename,
				e.DeepfakeProbability, match, e.RiskLevel, e.AnalysisMode)
		}
		w.Flush()
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate statistics over the whole history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.history.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Total analyses:       %d\n", s.Total)
		fmt.Printf("Flagged as deepfake:  %d\n", s.Deepfakes)
		fmt.Printf("Voiceprint matches:   %d\n", s.VoiceprintHits)
		fmt.Printf("Average probability:  %.1f%%\n", s.AvgProbability)
		if len(s.ByRiskLevel) > 0 {
			fmt.Println("By risk level:")
			for _, level := range []string{"low", "medium", "high", "critical"} {
				if n := s.ByRiskLevel[level]; n > 0 {
					fmt.Printf("  %-9s %d\n", level, n)
				}
			}
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum entries to show (0 = all)")
	historyListCmd.Flags().Int("offset", 0, "entries to skip from the newest")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}
