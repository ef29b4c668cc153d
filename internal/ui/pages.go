package ui

import (
	"fmt"
	"strings"

	"habits/internal/habit"
	"habits/internal/tracker"
)

// Page identifies a screen of the application.
type Page int

const (
	PageHome Page = iota
	PageAnalytics
	PageInfo
)

// renderAnalytics renders the collection statistics.
func renderAnalytics(s *Styles, stats tracker.Stats) string {
	rows := []struct {
		label string
		value string
	}{
		{"Total habits", fmt.Sprintf("%d", stats.Total)},
		{"Completed this period", fmt.Sprintf("%d", stats.Completed)},
		{"Daily habits", fmt.Sprintf("%d", stats.Daily)},
		{"Weekly habits", fmt.Sprintf("%d", stats.Weekly)},
		{"Current longest streak", stats.CurrentLongest},
		{"Current longest daily streak", stats.CurrentLongestDaily},
		{"Current longest weekly streak", stats.CurrentLongestWeekly},
		{"Longest streak ever", stats.LongestEver},
		{"Longest daily streak ever", stats.LongestEverDaily},
		{"Longest weekly streak ever", stats.LongestEverWeekly},
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}

	var b strings.Builder
	b.WriteString(s.Heading.Render("ANALYTICS"))
	b.WriteString("\n\n")
	for i, r := range rows {
		label := fmt.Sprintf("%-*s", width+2, r.label+":")
		b.WriteString(s.Label.Render(label) + s.Value.Render(r.value))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return s.ColumnFocused.Render(b.String())
}

// renderInfo renders the details and completion history of one habit.
func renderInfo(s *Styles, h *habit.Habit) string {
	var b strings.Builder
	b.WriteString(s.Heading.Render("HABIT INFORMATION"))
	b.WriteString("\n\n")
	if h == nil {
		b.WriteString(s.Label.Render("This habit no longer exists."))
		return s.ColumnFocused.Render(b.String())
	}

	b.WriteString(h.Details())
	b.WriteString("\n\n")
	b.WriteString(s.Label.Render(fmt.Sprintf("Completions (%d):", len(h.CompletedTimes))))
	if len(h.CompletedTimes) == 0 {
		b.WriteString("\n" + s.Label.Render("  none yet"))
	}
	// Newest first
	for i := len(h.CompletedTimes) - 1; i >= 0; i-- {
		b.WriteString("\n  - " + h.CompletedTimes[i].Format(habit.TimeLayout))
	}
	return s.ColumnFocused.Render(b.String())
}
