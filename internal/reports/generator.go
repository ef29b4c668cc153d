package reports

import (
	"time"

	"habits/internal/habit"
	"habits/internal/tracker"
)

// recentDays is the length of the activity window in a report.
const recentDays = 7

// Source is the data a report is built from. *tracker.Tracker satisfies it.
type Source interface {
	Habits() habit.List
	Stats() tracker.Stats
	Now() time.Time
}

// Generator creates reports from a habit source.
type Generator struct {
	src Source
}

// NewGenerator creates a new report generator.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Generate builds a report as of the source clock.
func (g *Generator) Generate() *Report {
	now := g.src.Now()
	habits := g.src.Habits()
	stats := g.src.Stats()

	rate := 0.0
	if stats.Total > 0 {
		rate = float64(stats.Completed) / float64(stats.Total) * 100
	}

	return &Report{
		Summary: Summary{
			Total:          stats.Total,
			Completed:      stats.Completed,
			Daily:          stats.Daily,
			Weekly:         stats.Weekly,
			CompletionRate: rate,
		},
		Streaks: Streaks{
			CurrentLongest:       stats.CurrentLongest,
			CurrentLongestDaily:  stats.CurrentLongestDaily,
			CurrentLongestWeekly: stats.CurrentLongestWeekly,
			LongestEver:          stats.LongestEver,
			LongestEverDaily:     stats.LongestEverDaily,
			LongestEverWeekly:    stats.LongestEverWeekly,
		},
		Habits:      habitStatuses(habits),
		RecentDays:  recentActivity(habits, now),
		GeneratedAt: now,
	}
}

func habitStatuses(habits habit.List) []HabitStatus {
	statuses := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		st := HabitStatus{
			Name:          h.Name,
			Symbol:        h.Symbol,
			Period:        string(h.Period),
			Done:          h.Completed,
			Streak:        h.StreakLength,
			LongestStreak: h.LongestStreak.Len(),
			Completions:   len(h.CompletedTimes),
			CreatedAt:     h.CreatedAt,
		}
		if last, ok := h.LastCompleted(); ok {
			st.LastCompleted = &last
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// recentActivity counts completions per day for the window ending today,
// oldest day first.
func recentActivity(habits habit.List, now time.Time) []DayCount {
	start := startOfDay(now).AddDate(0, 0, -(recentDays - 1))
	days := make([]DayCount, recentDays)
	for i := range days {
		day := start.AddDate(0, 0, i)
		days[i] = DayCount{
			Date:      day.Format("2006-01-02"),
			DayOfWeek: day.Format("Mon"),
		}
	}

	for _, h := range habits {
		for _, t := range h.CompletedTimes {
			if idx := dayIndexInRange(t, start, recentDays); idx >= 0 {
				days[idx].Completions++
			}
		}
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayIndexInRange returns the calendar-day offset of t from start, or -1 when
// t falls outside [start, start+days).
func dayIndexInRange(t time.Time, start time.Time, days int) int {
	t = t.In(start.Location())
	if t.Before(start) {
		return -1
	}
	for i := 0; i < days; i++ {
		if t.Before(start.AddDate(0, 0, i+1)) {
			return i
		}
	}
	return -1
}
