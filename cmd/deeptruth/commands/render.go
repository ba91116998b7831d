package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/deeptruth/deeptruth/pkg/risk"
	"github.com/deeptruth/deeptruth/pkg/verify"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	noteStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6e7681"))

	levelStyles = map[risk.Level]lipgloss.Style{
		risk.Low:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		risk.Medium:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")),
		risk.High:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00")),
		risk.Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4040")),
	}
)

func renderLevel(l risk.Level) string {
	style, ok := levelStyles[l]
	if !ok {
		return l.String()
	}
	return style.Render(strings.ToUpper(l.String()))
}

func renderResult(filename string, res *verify.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render("Analysis:"), filename)
	fmt.Fprintf(&b, "%s %s (score %.1f)\n", labelStyle.Render("Risk level:"), renderLevel(res.Risk.Level), res.Risk.Weighted)
	fmt.Fprintf(&b, "%s %.1f%%", labelStyle.Render("Deepfake probability:"), res.DeepfakeProbability)
	if res.IsDeepfake {
		b.WriteString("  (flagged)")
	}
	b.WriteString("\n")

	if res.Warming {
		fmt.Fprintf(&b, "%s model is warming up, retry in ~%s\n",
			labelStyle.Render("Note:"), res.Assessment.EstimatedWait)
	}

	if res.Match != nil {
		if res.VoiceprintMatch {
			fmt.Fprintf(&b, "%s %s (%.1f%% similarity)\n",
				labelStyle.Render("Voice matched:"), res.Match.MatchedName, res.Match.Similarity)
		} else if res.Match.Note != "" {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Voiceprint:"), res.Match.Note)
		} else {
			fmt.Fprintf(&b, "%s no match (best %.1f%%)\n",
				labelStyle.Render("Voiceprint:"), res.Match.Similarity)
		}
		for _, s := range res.Match.RankedScores {
			fmt.Fprintf(&b, "  %-20s %.1f%%\n", s.Name, s.Similarity)
		}
	}

	fmt.Fprintf(&b, "%s %s, %d Hz, mode %s\n",
		labelStyle.Render("Audio:"), res.Duration.Round(10*time.Millisecond), res.SampleRate, res.AnalysisMode)
	for _, issue := range res.Issues {
		fmt.Fprintf(&b, "  %s\n", noteStyle.Render("! "+issue))
	}

	b.WriteString("\n" + titleStyle.Render("Recommendations:") + "\n")
	for _, rec := range res.Risk.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	return b.String()
}
