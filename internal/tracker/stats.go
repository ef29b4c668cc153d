package tracker

import (
	"errors"

	"habits/internal/habit"
)

// Stats is a snapshot of every collection statistic, rendered for display.
// Queries over an empty selection render as "None".
type Stats struct {
	Total     int
	Completed int
	Daily     int
	Weekly    int

	CurrentLongest       string
	CurrentLongestDaily  string
	CurrentLongestWeekly string
	LongestEver          string
	LongestEverDaily     string
	LongestEverWeekly    string
}

// Stats computes a Stats snapshot.
func (t *Tracker) Stats() Stats {
	return Stats{
		Total:     len(t.habits),
		Completed: len(t.Completed()),
		Daily:     t.NrDailyHabits(),
		Weekly:    t.NrWeeklyHabits(),

		CurrentLongest:       orNone(t.CurrentLongestStreak()),
		CurrentLongestDaily:  orNone(t.CurrentLongestDailyStreak()),
		CurrentLongestWeekly: orNone(t.CurrentLongestWeeklyStreak()),
		LongestEver:          orNone(t.LongestEverStreak()),
		LongestEverDaily:     orNone(t.LongestEverDailyStreak()),
		LongestEverWeekly:    orNone(t.LongestEverWeeklyStreak()),
	}
}

func orNone(s string, err error) string {
	if errors.Is(err, habit.ErrNoHabits) {
		return "None"
	}
	return s
}
