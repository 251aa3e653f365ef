package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehco-tech/ehco/internal/domain"
)

var asciiLogo = []string{
	`███████╗ ██╗  ██╗  ██████╗  ██████╗ `,
	`██╔════╝ ██║  ██║ ██╔════╝ ██╔═══██╗`,
	`█████╗   ███████║ ██║      ██║   ██║`,
	`██╔══╝   ██╔══██║ ██║      ██║   ██║`,
	`███████╗ ██║  ██║ ╚██████╗ ╚██████╔╝`,
	`╚══════╝ ╚═╝  ╚═╝  ╚═════╝  ╚═════╝ `,
}

const (
	homeFeaturedMax = 4
	homeTrendingMax = 5
)

func renderHomeView(data domain.HomeData, loaded, cached bool, capturedAt time.Time, width, height int, updateVersion string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string

	// ASCII logo
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, homeMetaStyle.Render("        Korean entertainment, at a glance"))
	lines = append(lines, "")

	if !loaded {
		lines = append(lines, homeMetaStyle.Render("  loading home data..."))
	} else {
		if len(data.FeaturedFigures) > 0 {
			lines = append(lines, homeSectionStyle.Render("  Featured Figures"))
			for i, f := range data.FeaturedFigures {
				if i >= homeFeaturedMax {
					break
				}
				row := "    " + homeFigureStyle.Render(f.DisplayName())
				if f.Category != "" {
					row += homeMetaStyle.Render(" · " + string(f.Category))
				}
				lines = append(lines, row)
			}
			lines = append(lines, "")
		}

		if len(data.TrendingUpdates) > 0 {
			lines = append(lines, homeSectionStyle.Render("  Trending"))
			for i, u := range data.TrendingUpdates {
				if i >= homeTrendingMax {
					break
				}
				row := fmt.Sprintf("    %s  %s",
					homeStatStyle.Render(fmt.Sprintf("%4.1f", u.Score)),
					homeFigureStyle.Render(truncateStr(u.Title, 52)))
				row += homeMetaStyle.Render(" · " + u.Source)
				lines = append(lines, row)
			}
			lines = append(lines, "")
		}

		// The archive-only fallback carries no store stats; skip the row.
		if data.Stats.TotalFigures > 0 || data.Stats.TotalFacts > 0 {
			stats := fmt.Sprintf("  %s figures · %s facts",
				homeStatStyle.Render(fmt.Sprintf("%d", data.Stats.TotalFigures)),
				homeStatStyle.Render(fmt.Sprintf("%d", data.Stats.TotalFacts)))
			lines = append(lines, stats)
		}
		lines = append(lines, "  "+homeMetaStyle.Render(snapshotLabel(cached, capturedAt)))
		lines = append(lines, "")
	}

	// Menu items
	lines = append(lines, "  "+keyStyle.Render("[e]")+"  "+labelStyle.Render("Browse updates"))
	lines = append(lines, "  "+keyStyle.Render("[r]")+"  "+labelStyle.Render("Refresh snapshot"))
	lines = append(lines, "  "+keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	// Update notification
	if updateVersion != "" {
		lines = append(lines, "")
		lines = append(lines, logoStyle.Render("  Update available: v"+updateVersion+" → brew upgrade ehco"))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	// Center horizontally
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}

// snapshotLabel describes where the home payload came from and how old
// it is.
func snapshotLabel(cached bool, capturedAt time.Time) string {
	if capturedAt.IsZero() {
		return "no snapshot"
	}
	if !cached {
		return "snapshot fresh"
	}
	age := relativeTime(capturedAt)
	if age == "just now" {
		return "snapshot cached just now"
	}
	return "snapshot cached " + age + " ago"
}
