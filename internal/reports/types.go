// Package reports provides statistics report generation for the habits app.
// Reports aggregate the habit collection, its streak records and recent
// completion activity.
package reports

import (
	"time"
)

// Report contains aggregated statistics for the whole habit collection.
type Report struct {
	Summary     Summary       `json:"summary"`
	Streaks     Streaks       `json:"streaks"`
	Habits      []HabitStatus `json:"habits"`
	RecentDays  []DayCount    `json:"recent_days"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Summary contains collection-wide counts.
type Summary struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Daily          int     `json:"daily"`
	Weekly         int     `json:"weekly"`
	CompletionRate float64 `json:"completion_rate"`
}

// Streaks holds the rendered streak queries; "None" when a selection is empty.
type Streaks struct {
	CurrentLongest       string `json:"current_longest"`
	CurrentLongestDaily  string `json:"current_longest_daily"`
	CurrentLongestWeekly string `json:"current_longest_weekly"`
	LongestEver          string `json:"longest_ever"`
	LongestEverDaily     string `json:"longest_ever_daily"`
	LongestEverWeekly    string `json:"longest_ever_weekly"`
}

// HabitStatus represents one habit and its streak state.
type HabitStatus struct {
	Name          string     `json:"name"`
	Symbol        string     `json:"symbol"`
	Period        string     `json:"period"`
	Done          bool       `json:"done"`
	Streak        int        `json:"streak"`
	LongestStreak int        `json:"longest_streak"`
	Completions   int        `json:"completions"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DayCount represents completions recorded on a specific day.
type DayCount struct {
	Date        string `json:"date"`
	DayOfWeek   string `json:"day_of_week"`
	Completions int    `json:"completions"`
}
