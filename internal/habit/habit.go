// Package habit defines the habit entity and the streak engine that mutates it.
package habit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the second-precision timestamp format used for display and persistence.
const TimeLayout = "2006-01-02 15:04:05"

// Period is the cadence a habit is tracked against.
type Period string

const (
	Daily  Period = "Daily"
	Weekly Period = "Weekly"
)

// ErrUnknownPeriod is returned when a period token is not recognized.
var ErrUnknownPeriod = errors.New("unknown period")

// ParsePeriod parses the exact tokens used in the habit file.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// ParsePeriodInput parses user input such as "d", "daily", "W" or "Weekly".
func ParsePeriodInput(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "daily":
		return Daily, nil
	case "w", "weekly":
		return Weekly, nil
	}
	return "", fmt.Errorf("%w: %q (use daily or weekly)", ErrUnknownPeriod, s)
}

// toleranceDays is the largest whole-day gap between two completions that
// still continues a streak.
func (p Period) toleranceDays() int {
	if p == Weekly {
		return 7
	}
	return 1
}

// ID is an opaque handle for a habit, stable for the lifetime of the in-memory entity.
type ID string

func newID() ID {
	return ID(uuid.New().String())
}

// StreakPeriod is one run of consecutive on-time completions.
type StreakPeriod struct {
	Length int
	Begin  time.Time
	End    time.Time
}

func (s StreakPeriod) String() string {
	return fmt.Sprintf("%d [%s];[%s]", s.Length, s.Begin.Format(TimeLayout), s.End.Format(TimeLayout))
}

// NullStreak is a StreakPeriod that may be absent.
type NullStreak struct {
	Period StreakPeriod
	Valid  bool
}

// SomeStreak wraps p as a present value.
func SomeStreak(p StreakPeriod) NullStreak {
	return NullStreak{Period: p, Valid: true}
}

// Len returns the streak length, or 0 when absent.
func (n NullStreak) Len() int {
	if !n.Valid {
		return 0
	}
	return n.Period.Length
}

func (n NullStreak) String() string {
	if !n.Valid {
		return "None"
	}
	return n.Period.String()
}

// Habit is a single tracked habit and its streak state.
type Habit struct {
	ID             ID
	Name           string
	Symbol         string
	Period         Period
	CreatedAt      time.Time
	StreakLength   int
	Completed      bool
	CompletedTimes []time.Time
	LongestStreak  NullStreak
}

// New creates a habit that has never been completed.
func New(name, symbol string, period Period, now time.Time) *Habit {
	return &Habit{
		ID:        newID(),
		Name:      name,
		Symbol:    symbol,
		Period:    period,
		CreatedAt: now.Truncate(time.Second),
	}
}

// Restore rebuilds a habit from persisted fields. A fresh ID is assigned when
// h has none, the creation date is truncated to the second and the completion
// times are copied and sorted.
func Restore(h Habit) *Habit {
	if h.ID == "" {
		h.ID = newID()
	}
	h.CreatedAt = h.CreatedAt.Truncate(time.Second)
	times := make([]time.Time, len(h.CompletedTimes))
	copy(times, h.CompletedTimes)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	h.CompletedTimes = times
	return &h
}

// LastCompleted returns the most recent completion time.
func (h *Habit) LastCompleted() (time.Time, bool) {
	if len(h.CompletedTimes) == 0 {
		return time.Time{}, false
	}
	return h.CompletedTimes[len(h.CompletedTimes)-1], true
}

// DisplayKey is the one-line rendering of a habit.
func (h *Habit) DisplayKey() string {
	return fmt.Sprintf("%s %s: %s, Streak: %d", h.Symbol, h.Name, h.Period, h.StreakLength)
}

func (h *Habit) String() string {
	return h.DisplayKey()
}

// Details renders every field of the habit for detail views.
func (h *Habit) Details() string {
	return fmt.Sprintf("[%s] %s:\nPeriod: %s\nCompleted: %s\nStreak: %d\nLongest Streak: %s\nCreation Date: %s",
		h.Symbol,
		h.Name,
		h.Period,
		titleBool(h.Completed),
		h.StreakLength,
		h.LongestStreak,
		h.CreatedAt.Format(TimeLayout),
	)
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
