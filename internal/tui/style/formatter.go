// Package style renders colored terminal text.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ConfigureColors picks the color profile for out.
// Colors are disabled when NO_COLOR is set or out is not a terminal
func ConfigureColors(out *os.File) {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(out.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
}

func fg(color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// ColorBranchName colors a branch name based on whether it's current
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return fg("6", branchName+" (current)")
	}
	return fg("12", branchName)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return fg("8", text)
}

// ColorPRNumber colors a PR number (yellow)
func ColorPRNumber(prNumber int) string {
	return fg("3", fmt.Sprintf("PR #%d", prNumber))
}

// ColorSyncStatus colors a sync status label
func ColorSyncStatus(status string) string {
	switch status {
	case "up-to-date":
		return fg("2", status)
	case "need-pull", "need-push":
		return fg("3", status)
	case "diverged":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).Render(status)
	default:
		return status
	}
}

// ColorFlag renders a boolean option as yes/no
func ColorFlag(enabled bool) string {
	if enabled {
		return fg("2", "yes")
	}
	return fg("1", "no")
}

// ColorPattern colors a matched pattern key
func ColorPattern(pattern string) string {
	return fg("5", pattern)
}
