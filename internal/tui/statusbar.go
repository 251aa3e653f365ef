package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(updateCount int, filterLabel, figureLabel string, width int, searching, refreshing bool) string {
	figureAccentStyle := lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	left := fmt.Sprintf(" %d updates", updateCount)
	if filterLabel != "All" {
		left += " · " + filterLabel
	}
	if figureLabel != "" {
		left += " · " + figureAccentStyle.Render(figureLabel)
	}

	right := " h home  / search  f filter  @ figure  t topic  q quit "

	if searching {
		right = " esc cancel  enter search "
	}
	if refreshing {
		left += " (refreshing...)"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(cacheLabel, hints string, width int) string {
	cacheStyle := lipgloss.NewStyle().
		Foreground(colorDim)

	left := ""
	if cacheLabel != "" {
		left = " " + cacheStyle.Render(cacheLabel)
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
