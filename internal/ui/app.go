// Package ui provides the terminal user interface for the habits app.
// This file contains the main App model which owns the tracker, switches
// between pages and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"habits/internal/config"
	"habits/internal/habit"
	"habits/internal/tracker"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
	Autosave         bool
	RefreshInterval  time.Duration
}

// App is the main application model.
type App struct {
	tracker     *tracker.Tracker
	styles      *Styles
	config      *AppConfig
	home        *HomePane
	page        Page
	infoID      habit.ID
	confirmDel  *confirmDeleteState
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys      GlobalKeyMap
	inputKeys InputKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	id    habit.ID
}

// NewApp creates a new application around a loaded tracker.
func NewApp(tr *tracker.Tracker, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:             &config.KeysConfig{},
			ConfirmDeletions: true,
			RefreshInterval:  time.Minute,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Minute
	}

	return &App{
		tracker:   tr,
		styles:    styles,
		config:    cfg,
		home:      NewHomePaneWithKeys(tr, styles, cfg.Keys),
		page:      PageHome,
		keys:      NewGlobalKeyMap(cfg.Keys),
		inputKeys: NewInputKeyMap(cfg.Keys),
	}
}

// Init starts the status and rollover timers.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		refreshCmd(a.config.RefreshInterval),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		a.SetStatus(msg.text, msg.isErr)
		return a, nil

	case habitsChangedMsg:
		a.changed(msg.status)
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.home.SetSize(max(0, msg.Width-4))
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case refreshMsg:
		if n := a.tracker.Refresh(); n > 0 {
			a.home.clamp()
			a.changed(fmt.Sprintf("New period: %d habit(s) reset", n))
		}
		return a, refreshCmd(a.config.RefreshInterval)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blink and other input messages
	if a.home.IsAdding() {
		return a, a.home.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, forceQuitKey) {
		a.quitting = true
		return a, tea.Quit
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			id := a.confirmDel.id
			a.confirmDel = nil
			return a, a.deleteHabit(id)
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return a, nil
	}

	// Text input owns the keyboard while adding
	if a.home.IsAdding() {
		return a, a.home.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if err := a.tracker.Save(); err != nil {
			a.SetStatus("Save failed: "+err.Error()+" (ctrl+c quits without saving)", true)
			return a, nil
		}
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Save):
		a.save()
		return a, nil

	case key.Matches(msg, a.keys.Reload):
		if err := a.tracker.Read(); err != nil {
			a.SetStatus("Reload failed: "+err.Error(), true)
			return a, nil
		}
		a.home.clamp()
		a.SetStatus(fmt.Sprintf("Reloaded %d habits from %s", a.tracker.Len(), a.tracker.Store().Path()), false)
		return a, nil
	}

	switch a.page {
	case PageAnalytics:
		if key.Matches(msg, a.keys.NextPage, a.inputKeys.Cancel) {
			a.page = PageHome
		}
		return a, nil

	case PageInfo:
		if key.Matches(msg, a.keys.Info, a.keys.NextPage, a.inputKeys.Cancel) {
			a.page = PageHome
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.NextPage):
		a.page = PageAnalytics
		return a, nil

	case key.Matches(msg, a.keys.Info):
		h, ok := a.home.Selected()
		if !ok {
			a.SetStatus("No habit selected", true)
			return a, nil
		}
		a.infoID = h.ID
		a.page = PageInfo
		return a, nil

	case key.Matches(msg, a.home.keys.Delete):
		h, ok := a.home.Selected()
		if !ok {
			a.SetStatus("No habit selected", true)
			return a, nil
		}
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete habit?",
				body:  truncateText(h.DisplayKey(), 60),
				id:    h.ID,
			}
			return a, nil
		}
		return a, a.deleteHabit(h.ID)
	}

	return a, a.home.Update(msg)
}

func (a *App) deleteHabit(id habit.ID) tea.Cmd {
	h, ok := a.tracker.Lookup(id)
	if !ok || !a.tracker.Delete(id) {
		return statusCmd("Habit no longer exists", true)
	}
	a.home.clamp()
	return changedCmd("Deleted " + h.Name)
}

// changed reports a mutation and saves when autosave is on.
func (a *App) changed(status string) {
	if !a.config.Autosave {
		a.SetStatus(status, false)
		return
	}
	if err := a.tracker.Save(); err != nil {
		a.SetStatus(status+"; autosave failed: "+err.Error(), true)
		return
	}
	a.SetStatus(status+" (saved)", false)
}

func (a *App) save() {
	if err := a.tracker.Save(); err != nil {
		a.SetStatus("Save failed: "+err.Error(), true)
		return
	}
	a.SetStatus(fmt.Sprintf("Saved %d habits to %s", a.tracker.Len(), a.tracker.Store().Path()), false)
}

// Page returns the page on screen.
func (a *App) Page() Page {
	return a.page
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n\n")

	switch a.page {
	case PageAnalytics:
		b.WriteString(renderAnalytics(a.styles, a.tracker.Stats()))
	case PageInfo:
		h, _ := a.tracker.Lookup(a.infoID)
		b.WriteString(renderInfo(a.styles, h))
	default:
		b.WriteString(a.home.View())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.Colors.Danger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.Colors.Danger)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.Colors.Text)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.Colors.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderGoodbye() string {
	stats := a.tracker.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")
	if stats.Total > 0 {
		pct := (stats.Completed * 100) / stats.Total
		b.WriteString(fmt.Sprintf("  Done this period: %d/%d (%d%%)\n\n", stats.Completed, stats.Total, pct))
	}
	return b.String()
}

// renderTitleBar creates the top title bar with progress and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.Title.Render(" habits ")

	var stats string
	if n := a.tracker.Len(); n > 0 {
		stats = a.styles.Label.Render(fmt.Sprintf("Done: %d/%d", len(a.tracker.Completed()), n))
	}

	date := a.styles.Date.Render(a.tracker.Now().Format("Mon Jan 2 · 15:04"))

	width := a.width
	if width == 0 {
		width = 80
	}
	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(date) + 2
	spacer := strings.Repeat(" ", max(2, width-used))

	return title + "  " + stats + spacer + date
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.Error.Render(a.status)
		}
		return a.styles.Status.Render(a.status)
	}

	if a.home.IsAdding() {
		return a.styles.RenderHelp(
			a.inputKeys.Confirm.Help().Key, "next",
			a.inputKeys.Cancel.Help().Key, "cancel",
		)
	}

	switch a.page {
	case PageAnalytics:
		return a.styles.RenderHelp(
			a.keys.NextPage.Help().Key, "home",
			a.keys.Quit.Help().Key, "save & quit",
		)
	case PageInfo:
		return a.styles.RenderHelp(
			a.keys.Info.Help().Key, "back",
			a.keys.Quit.Help().Key, "save & quit",
		)
	}

	k := a.home.keys
	return a.styles.RenderBindings(
		k.Complete, k.Add, k.Delete, k.Filter, k.SwitchColumn,
		a.keys.NextPage, a.keys.Info, a.keys.Save, a.keys.Reload, a.keys.Quit,
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens s to at most limit runes.
func truncateText(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

// Run starts the Bubble Tea program for the given tracker.
func Run(tr *tracker.Tracker, styles *Styles, cfg *AppConfig) error {
	app := NewApp(tr, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
