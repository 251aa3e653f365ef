package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ehco-tech/ehco/internal/archive"
	"github.com/ehco-tech/ehco/internal/browser"
	"github.com/ehco-tech/ehco/internal/classify"
	"github.com/ehco-tech/ehco/internal/config"
	"github.com/ehco-tech/ehco/internal/domain"
	"github.com/ehco-tech/ehco/internal/feed"
	"github.com/ehco-tech/ehco/internal/home"
	"github.com/ehco-tech/ehco/internal/homecache"
	"github.com/ehco-tech/ehco/internal/trend"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHome mode = iota
	modeNormal
	modeSearch
	modeFilter
	modePicker
	modeHelp
)

type App struct {
	cfg     *config.Config
	arch    *archive.Archive
	cache   *homecache.Manager
	fetcher *home.Fetcher // nil when no figure store is configured

	updates []domain.Update
	figures []domain.Figure
	cursor  int
	focus   focusPane
	mode    mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar
	picker      picker

	// Home snapshot
	homeData       domain.HomeData
	homeLoaded     bool
	homeCached     bool
	homeCapturedAt time.Time

	// State
	refreshing    bool
	since         time.Time
	previewScroll int
	currentDate   string
	activeTopic   domain.Topic
	figureID      string
	figureLabel   string
	updateVersion string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg           *config.Config
	Archive       *archive.Archive
	Cache         *homecache.Manager
	Fetcher       *home.Fetcher
	Figures       []domain.Figure
	Since         time.Time
	BrowseMode    bool
	UpdateVersion string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search updates..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	startMode := modeHome
	if opts.BrowseMode {
		startMode = modeNormal
	}

	return &App{
		cfg:           opts.Cfg,
		arch:          opts.Archive,
		cache:         opts.Cache,
		fetcher:       opts.Fetcher,
		figures:       opts.Figures,
		since:         opts.Since,
		filterBar:     newFilterBar(opts.Cfg.SourceNames()),
		picker:        newPicker(opts.Figures),
		searchInput:   ti,
		spinner:       sp,
		currentDate:   time.Now().Format("Jan 2"),
		mode:          startMode,
		updateVersion: opts.UpdateVersion,
	}
}

func (a *App) Init() tea.Cmd {
	if a.mode == modeNormal {
		return a.loadUpdatesCmd()
	}
	return a.loadHomeCmd()
}

// loadUpdatesCmd captures current query state into the closure to avoid races.
func (a *App) loadUpdatesCmd() tea.Cmd {
	opts := archive.QueryOpts{
		Since:    a.since,
		Sources:  a.filterBar.activeSources(),
		FigureID: a.figureID,
		Search:   a.searchInput.Value(),
	}
	if a.activeTopic != "" {
		opts.Topics = []domain.Topic{a.activeTopic}
	}
	arch := a.arch
	return func() tea.Msg {
		updates, err := arch.GetUpdates(opts)
		if err != nil {
			return errMsg{err: err}
		}
		return updatesLoadedMsg{updates: updates}
	}
}

// loadHomeCmd serves the cached snapshot when it is still fresh and
// only reaches for the figure store when it is not. Without a store the
// home screen falls back to whatever the local archive can rank.
func (a *App) loadHomeCmd() tea.Cmd {
	cache := a.cache
	fetcher := a.fetcher
	arch := a.arch
	trendingSize := a.cfg.GetTrendingSize()
	return func() tea.Msg {
		if cache.Valid() {
			if e, ok := cache.Entry(); ok {
				return homeLoadedMsg{data: e.Payload, cached: true, capturedAt: e.CapturedAt}
			}
		}

		if fetcher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_, err := fetcher.Refresh(ctx, cache)
			// A failed persist still leaves fresh data in the manager's
			// memory, so consult the entry rather than the error.
			if cache.Valid() {
				if e, ok := cache.Entry(); ok {
					return homeLoadedMsg{data: e.Payload, capturedAt: e.CapturedAt}
				}
			}
			// Stale snapshot beats an error screen.
			if e, ok := cache.Entry(); ok {
				return homeLoadedMsg{data: e.Payload, cached: true, capturedAt: e.CapturedAt}
			}
			if err != nil {
				return errMsg{err: err}
			}
			return errMsg{err: fmt.Errorf("home data unavailable")}
		}

		updates, err := arch.Trending(time.Now().Add(-7*24*time.Hour), trendingSize, "")
		if err != nil {
			return errMsg{err: err}
		}
		return homeLoadedMsg{data: domain.HomeData{TrendingUpdates: updates}}
	}
}

// refreshHomeCmd forces a fresh snapshot, bypassing the cache window.
func (a *App) refreshHomeCmd() tea.Cmd {
	cache := a.cache
	fetcher := a.fetcher
	if fetcher == nil {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("no figure store configured; set firestore_project in config")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := fetcher.Refresh(ctx, cache)
		if cache.Valid() {
			if e, ok := cache.Entry(); ok {
				return homeLoadedMsg{data: e.Payload, capturedAt: e.CapturedAt}
			}
		}
		if err != nil {
			return errMsg{err: err}
		}
		return errMsg{err: fmt.Errorf("home data unavailable")}
	}
}

func (a *App) doRefresh() tea.Cmd {
	cfg := a.cfg
	arch := a.arch
	figures := a.figures
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result := feed.FetchAll(ctx, cfg.EnabledSources())
		feed.AttributeFigures(result.Updates, figures)
		ranked := trend.Rank(result.Updates, time.Now(), cfg.SourceWeights())

		if err := arch.UpsertUpdates(ranked); err != nil {
			return refreshDoneMsg{errs: append(result.Errors, err)}
		}
		if err := arch.SetScores(ranked); err != nil {
			return refreshDoneMsg{errs: append(result.Errors, err)}
		}
		arch.SetLastIngest()

		return refreshDoneMsg{count: len(ranked), errs: result.Errors}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		err := browser.Open(url)
		if err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// nextTopic cycles through the canonical topics, with "" (all topics)
// between the last and the first.
func nextTopic(current domain.Topic) domain.Topic {
	topics := classify.AllTopics()
	if current == "" {
		return topics[0]
	}
	for i, t := range topics {
		if t == current && i+1 < len(topics) {
			return topics[i+1]
		}
	}
	return ""
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case updatesLoadedMsg:
		a.updates = msg.updates
		if a.cursor >= len(a.updates) {
			a.cursor = max(0, len(a.updates)-1)
		}
		return a, nil

	case homeLoadedMsg:
		a.homeData = msg.data
		a.homeCached = msg.cached
		a.homeCapturedAt = msg.capturedAt
		a.homeLoaded = true
		a.refreshing = false
		return a, nil

	case errMsg:
		a.err = msg.err
		a.refreshing = false
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		if len(msg.errs) > 0 {
			a.err = msg.errs[0]
		}
		return a, a.loadUpdatesCmd()

	case spinner.TickMsg:
		if a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	// Mode-specific handling
	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modePicker:
		return a.handlePickerKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.updates)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if len(a.updates) > 0 && a.cursor < len(a.updates) {
			return a, openBrowserCmd(a.updates[a.cursor].Link)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "t":
		a.activeTopic = nextTopic(a.activeTopic)
		a.cursor = 0
		return a, a.loadUpdatesCmd()
	case "@":
		if len(a.figures) == 0 {
			a.err = fmt.Errorf("no figures loaded; configure a figure store to filter by figure")
			return a, nil
		}
		a.mode = modePicker
		a.picker.reset()
		a.picker.input.Focus()
		return a, textinput.Blink
	case "esc":
		if a.figureID != "" || a.activeTopic != "" {
			a.figureID = ""
			a.figureLabel = ""
			a.activeTopic = ""
			a.cursor = 0
			return a, a.loadUpdatesCmd()
		}
		return a, nil
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.doRefresh(), a.spinner.Tick)
		}
		return a, nil
	case "h":
		a.mode = modeHome
		if !a.homeLoaded {
			return a, a.loadHomeCmd()
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e", "enter":
		a.mode = modeNormal
		return a, a.loadUpdatesCmd()
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.refreshHomeCmd(), a.spinner.Tick)
		}
		return a, nil
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		return a, a.loadUpdatesCmd()
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.loadUpdatesCmd()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only re-query on actual value changes, not cursor moves etc.
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.sources)-1 {
			a.filterBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.cursor = 0
		return a, a.loadUpdatesCmd()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.sources) {
			a.filterBar.toggle(a.filterBar.sources[idx])
			a.cursor = 0
			return a, a.loadUpdatesCmd()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.picker.input.Blur()
		a.picker.reset()
		return a, nil
	case "enter":
		if fig, ok := a.picker.selected(); ok {
			a.figureID = fig.ID
			a.figureLabel = fig.Name
			a.cursor = 0
			a.mode = modeNormal
			a.picker.input.Blur()
			a.picker.reset()
			return a, a.loadUpdatesCmd()
		}
		return a, nil
	case "down", "ctrl+n":
		if a.picker.cursor < len(a.picker.matches)-1 {
			a.picker.cursor++
		}
		return a, nil
	case "up", "ctrl+p":
		if a.picker.cursor > 0 {
			a.picker.cursor--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.picker.input, cmd = a.picker.input.Update(msg)
	a.picker.refilter()
	return a, cmd
}

// snapshotBarLabel is the left slot of the bottom bar: refresh spinner
// while busy, cache provenance once a snapshot is on screen.
func (a *App) snapshotBarLabel() string {
	if a.refreshing {
		return a.spinner.View() + " refreshing"
	}
	if a.homeLoaded {
		return snapshotLabel(a.homeCached, a.homeCapturedAt)
	}
	return ""
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(a.snapshotBarLabel(), hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  ehco")
	}

	if a.mode == modeHome {
		if a.err != nil {
			errLine := lipgloss.NewStyle().Foreground(colorAccent).Render("error: " + a.err.Error())
			return a.withBottomBar(lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, errLine), "e browse  r retry  q quit")
		}
		home := renderHomeView(a.homeData, a.homeLoaded, a.homeCached, a.homeCapturedAt, a.width, a.height, a.updateVersion)
		return a.withBottomBar(home, "e browse  r refresh  q quit")
	}

	if a.mode == modePicker {
		return a.withBottomBar(a.picker.render(a.width, a.height-1), "enter select  esc cancel")
	}

	if a.mode == modeHelp {
		return a.withBottomBar(a.renderHelp(), "? close  h home  q quit")
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("ehco")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Filter bar
	filter := a.filterBar.render(a.width, a.activeTopic)

	// Search bar (replaces filter when searching)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.updates, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	var selected *domain.Update
	if len(a.updates) > 0 && a.cursor < len(a.updates) {
		selected = &a.updates[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	// Join panes
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	// Status bar
	status := renderStatusBar(
		len(a.updates),
		a.filterBar.activeLabel(),
		a.figureLabel,
		a.width,
		a.mode == modeSearch,
		a.refreshing,
	)

	if a.refreshing {
		status = a.spinner.View() + " " + status
	}

	// Error display
	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("ehco")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate update list\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open update in browser\n" +
		"  r             Refresh feeds\n" +
		"  /             Search updates\n" +
		"  f             Toggle source filter mode\n" +
		"  t             Cycle topic filter\n" +
		"  @             Pick a figure to follow\n" +
		"  esc           Clear topic and figure filters\n\n" +
		dim.Render("Filter Mode") + "\n" +
		"  ←/→, h/l     Move between sources\n" +
		"  space/enter   Toggle source\n" +
		"  1-9           Toggle source by number\n" +
		"  esc, f        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  h             Go to home screen\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
