package reports

import (
	"fmt"
	"strings"

	"habits/internal/habit"
)

// FormatMarkdown renders a report as a Markdown document.
func FormatMarkdown(report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Habit Report\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", report.GeneratedAt.Format(habit.TimeLayout))

	s := report.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Habits: %d (%d daily, %d weekly)\n", s.Total, s.Daily, s.Weekly)
	fmt.Fprintf(&b, "- Done this period: %d/%d (%.0f%%)\n\n", s.Completed, s.Total, s.CompletionRate)

	st := report.Streaks
	b.WriteString("## Streaks\n\n")
	b.WriteString("| Query | Result |\n|---|---|\n")
	fmt.Fprintf(&b, "| Current longest | %s |\n", st.CurrentLongest)
	fmt.Fprintf(&b, "| Current longest (daily) | %s |\n", st.CurrentLongestDaily)
	fmt.Fprintf(&b, "| Current longest (weekly) | %s |\n", st.CurrentLongestWeekly)
	fmt.Fprintf(&b, "| Longest ever | %s |\n", st.LongestEver)
	fmt.Fprintf(&b, "| Longest ever (daily) | %s |\n", st.LongestEverDaily)
	fmt.Fprintf(&b, "| Longest ever (weekly) | %s |\n\n", st.LongestEverWeekly)

	b.WriteString("## Habits\n\n")
	if len(report.Habits) == 0 {
		b.WriteString("No habits tracked yet.\n\n")
	} else {
		b.WriteString("| | Habit | Period | Done | Streak | Longest | Completions | Last |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, h := range report.Habits {
			done := " "
			if h.Done {
				done = "x"
			}
			last := "-"
			if h.LastCompleted != nil {
				last = h.LastCompleted.Format(habit.TimeLayout)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | [%s] | %d | %d | %d | %s |\n",
				h.Symbol, escapeCell(h.Name), h.Period, done, h.Streak, h.LongestStreak, h.Completions, last)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Last 7 Days\n\n")
	for _, d := range report.RecentDays {
		fmt.Fprintf(&b, "- %s %s: %s %d\n", d.DayOfWeek, d.Date, strings.Repeat("■", d.Completions), d.Completions)
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
