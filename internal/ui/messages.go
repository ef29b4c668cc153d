// Package ui provides the terminal user interface for the habits app.
// This file defines the message types of the event loop. Tracker calls
// happen synchronously in Update; commands only deliver timer ticks and
// status notifications.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent every second to expire status messages.
type tickMsg time.Time

// refreshMsg is sent every refresh interval to check for period rollover.
type refreshMsg time.Time

// statusMsg asks the app to show a status line.
type statusMsg struct {
	text  string
	isErr bool
}

// habitsChangedMsg is sent after the collection was mutated.
type habitsChangedMsg struct {
	status string
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh after interval.
func refreshCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func changedCmd(status string) tea.Cmd {
	return func() tea.Msg {
		return habitsChangedMsg{status: status}
	}
}
