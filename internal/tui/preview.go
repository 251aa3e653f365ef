package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehco-tech/ehco/internal/domain"
)

func renderPreview(update *domain.Update, width, height, scroll int) string {
	if update == nil {
		return lipglossCenter("Select an update", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(update.Title)
	source := previewSourceStyle.Render(
		fmt.Sprintf("%s · %s", update.Source, update.PublishedAt.Format("Jan 2, 2006")),
	)

	meta := itemTopicStyle.Render(string(update.Topic))
	if update.Score > 0 {
		meta += itemTimeStyle.Render(fmt.Sprintf("  ·  buzz %.1f", update.Score))
	}
	if update.FigureID != "" {
		meta += itemTimeStyle.Render("  ·  ") + itemSourceStyle.Render(update.FigureID)
	}

	excerpt := update.Excerpt
	if excerpt == "" {
		excerpt = "(No excerpt available)"
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(excerpt, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + update.Link)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, meta, "", body, "", link)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
