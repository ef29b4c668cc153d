package habit

import (
	"sort"
	"time"
)

// Complete records a completion at now and updates the current and longest
// streaks. Every call counts as a new completion event.
func (h *Habit) Complete(now time.Time) {
	now = now.Truncate(time.Second)
	h.CompletedTimes = append(h.CompletedTimes, now)
	if n := len(h.CompletedTimes); n > 1 && now.Before(h.CompletedTimes[n-2]) {
		sort.Slice(h.CompletedTimes, func(i, j int) bool { return h.CompletedTimes[i].Before(h.CompletedTimes[j]) })
	}
	h.Completed = true

	if len(h.CompletedTimes) == 1 {
		h.LongestStreak = SomeStreak(StreakPeriod{Length: 1, Begin: now, End: now})
		h.StreakLength = 1
		return
	}

	run := CurrentRun(h.CompletedTimes, h.Period)
	run.End = now
	h.StreakLength = run.Length
	// Ties go to the most recent run.
	if run.Length >= h.LongestStreak.Len() {
		h.LongestStreak = SomeStreak(run)
	}
}

// CurrentRun returns the run of completions ending at the newest entry of
// times, which must be sorted ascending and non-empty. Two neighbouring
// completions chain while the whole-day gap between them does not exceed the
// period's tolerance.
func CurrentRun(times []time.Time, period Period) StreakPeriod {
	last := len(times) - 1
	run := StreakPeriod{Length: 1, Begin: times[last], End: times[last]}
	for i := last - 1; i >= 0; i-- {
		if wholeDays(times[i+1].Sub(times[i])) > period.toleranceDays() {
			break
		}
		run.Length++
		run.Begin = times[i]
	}
	return run
}

// Rollover moves the habit into the period containing now. It reports
// whether any state changed.
//
// A habit that was completed in the period that just ended becomes due
// again; one that was not completed loses its current streak. The longest
// streak is a historical record and is never touched here.
func (h *Habit) Rollover(now time.Time) bool {
	last, ok := h.LastCompleted()
	if !ok || h.StreakLength == 0 {
		return false
	}
	if !PeriodEnded(h.Period, last, now) {
		return false
	}
	if h.Completed {
		h.Completed = false
	} else {
		h.StreakLength = 0
	}
	return true
}

// PeriodEnded reports whether now lies in a later period than last:
// a later calendar day for Daily, a later ISO week for Weekly.
func PeriodEnded(period Period, last, now time.Time) bool {
	last = last.In(now.Location())
	if period == Weekly {
		ly, lw := last.ISOWeek()
		ny, nw := now.ISOWeek()
		return ly < ny || (ly == ny && lw < nw)
	}
	return startOfDay(last).Before(startOfDay(now))
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
