package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/amr9/gofetch/pkg/config"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)

var runProgress = progress.New(
	progress.WithScaledGradient("#00FFFF", "#FF6B9D"),
	progress.WithoutPercentage(),
)

// renderRunning draws the live view while a scenario is executing: a
// progress bar for requests completed so far, and one line per request
// already finished — the teacher's RPS dashboard scoped down to a
// discrete request list instead of an open-ended attack rate.
func renderRunning(cfg *config.ScenarioConfig, done []RequestResult, tick int) string {
	var s strings.Builder

	logo := logoStyle.Render(asciiLogo)
	s.WriteString(borderStyle.Render(logo + subtitleStyle.Render("Running scenario...")))
	s.WriteString("\n\n")

	total := len(cfg.Requests)
	pct := 0.0
	if total > 0 {
		pct = float64(len(done)) / float64(total)
	}

	spinner := GetSpinnerFrame(tick)
	s.WriteString(fmt.Sprintf("%s %s  %d/%d requests\n\n",
		spinnerStyle.Render(spinner),
		runProgress.ViewAs(pct),
		len(done), total))

	for i, r := range done {
		mark := check.Render("✓")
		statusStyle := successText
		if r.Err != nil || !r.Passed {
			mark = errText.Render("✗")
			statusStyle = errText
		}

		statusLabel := fmt.Sprintf("%d", r.Status)
		if r.Err != nil {
			statusLabel = "ERR"
		}

		s.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			mark,
			subtext.Render(fmt.Sprintf("[%d] %s", i+1, r.Name)),
			statusStyle.Render(statusLabel),
			subtext.Render(fmtDuration(r.Latency))))
	}

	if len(done) < total {
		s.WriteString("\n" + subtext.Render("  ... waiting for next response"))
	}

	return s.String()
}
