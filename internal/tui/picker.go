package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ehco-tech/ehco/internal/domain"
)

const pickerMaxRows = 8

// picker is the fuzzy figure finder overlay. Matching runs against the
// display names, so "yuna aur" finds "Yuna Seo (Aurora)".
type picker struct {
	input   textinput.Model
	figures []domain.Figure
	names   []string
	matches fuzzy.Matches
	cursor  int
}

func newPicker(figures []domain.Figure) picker {
	ti := textinput.New()
	ti.Placeholder = "Find a figure..."
	ti.Prompt = searchPromptStyle.Render("@ ")
	ti.CharLimit = 60

	names := make([]string, len(figures))
	for i, f := range figures {
		names[i] = f.DisplayName()
	}

	return picker{
		input:   ti,
		figures: figures,
		names:   names,
	}
}

// refilter recomputes matches for the current query. An empty query
// lists every figure; fuzzy.Find would return nothing.
func (p *picker) refilter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		all := make(fuzzy.Matches, len(p.names))
		for i, n := range p.names {
			all[i] = fuzzy.Match{Str: n, Index: i}
		}
		p.matches = all
	} else {
		p.matches = fuzzy.Find(query, p.names)
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(0, len(p.matches)-1)
	}
}

// selected returns the figure under the cursor, or false when no match
// is highlighted.
func (p *picker) selected() (domain.Figure, bool) {
	if len(p.matches) == 0 || p.cursor >= len(p.matches) {
		return domain.Figure{}, false
	}
	return p.figures[p.matches[p.cursor].Index], true
}

func (p *picker) reset() {
	p.input.SetValue("")
	p.cursor = 0
	p.refilter()
}

// render draws the picker as a centered card.
func (p *picker) render(width, height int) string {
	var lines []string
	lines = append(lines, p.input.View())
	lines = append(lines, "")

	if len(p.matches) == 0 {
		lines = append(lines, helpDimStyle.Render("no matches"))
	}

	start := 0
	if p.cursor >= pickerMaxRows {
		start = p.cursor - pickerMaxRows + 1
	}
	end := start + pickerMaxRows
	if end > len(p.matches) {
		end = len(p.matches)
	}

	for i := start; i < end; i++ {
		m := p.matches[i]
		row := highlightMatch(m)
		if i == p.cursor {
			row = itemSelectedStyle.Render("> ") + row
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	lines = append(lines, "")
	lines = append(lines, helpDimStyle.Render("enter select · esc cancel"))

	card := helpCardStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// highlightMatch renders a match with the matched characters accented.
func highlightMatch(m fuzzy.Match) string {
	if len(m.MatchedIndexes) == 0 {
		return homeFigureStyle.Render(m.Str)
	}

	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, idx := range m.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range m.Str {
		if matched[i] {
			b.WriteString(pickerMatchStyle.Render(string(r)))
		} else {
			b.WriteString(homeFigureStyle.Render(string(r)))
		}
	}
	return b.String()
}
