package ui

import (
	"path/filepath"
	"testing"
	"time"

	"habits/internal/config"
	"habits/internal/habit"
	"habits/internal/storage"
	"habits/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// uiNow is a Wednesday noon, far from any DST switch.
var uiNow = time.Date(2024, 6, 12, 12, 0, 0, 0, time.Local)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestTracker creates an empty tracker over a temporary habit file.
// The returned clock can be moved by the test.
func createTestTracker(t *testing.T) (*tracker.Tracker, *time.Time) {
	t.Helper()
	store, err := storage.Open(storage.KindOrg, filepath.Join(t.TempDir(), "habits.org"))
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	now := uiNow
	tr := tracker.New(store, tracker.WithClock(func() time.Time { return now }))
	return tr, &now
}

// addHabit adds a habit or fails the test.
func addHabit(t *testing.T, tr *tracker.Tracker, name, symbol string, period habit.Period) *habit.Habit {
	t.Helper()
	h, err := tr.Add(name, symbol, period)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", name, err)
	}
	return h
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newTestApp builds an app with deletion confirmation on and autosave off.
func newTestApp(t *testing.T, tr *tracker.Tracker) *App {
	t.Helper()
	setupTest(t)
	return NewApp(tr, createTestStyles(), &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: true,
	})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
)

// press sends a key to the app and returns the resulting command.
func press(a *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

// typeText sends each rune of s as a separate key press.
func typeText(a *App, s string) {
	for _, r := range s {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// deliver runs a status or change command synchronously and feeds its
// message back into the app.
func deliver(t *testing.T, a *App, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	switch msg.(type) {
	case statusMsg, habitsChangedMsg:
		a.Update(msg)
	default:
		t.Fatalf("unexpected message %T", msg)
	}
	return msg
}
