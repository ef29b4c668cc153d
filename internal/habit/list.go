package habit

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoHabits is returned by streak queries over an empty selection.
var ErrNoHabits = errors.New("no habits")

// List is an ordered collection of habits.
type List []*Habit

// Add appends h. Name uniqueness is the caller's responsibility.
func (l *List) Add(h *Habit) {
	*l = append(*l, h)
}

// Delete removes the habit with the given id and reports whether it was found.
func (l *List) Delete(id ID) bool {
	for i, h := range *l {
		if h.ID == id {
			*l = append((*l)[:i:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the habit with the given id.
func (l List) Find(id ID) (*Habit, bool) {
	for _, h := range l {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

// FindByKey returns the first habit whose display key equals key.
func (l List) FindByKey(key string) (*Habit, bool) {
	for _, h := range l {
		if h.DisplayKey() == key {
			return h, true
		}
	}
	return nil, false
}

// ByPeriod returns the habits tracked against p, in collection order.
func (l List) ByPeriod(p Period) List {
	out := List{}
	for _, h := range l {
		if h.Period == p {
			out = append(out, h)
		}
	}
	return out
}

// Daily returns the daily habits.
func (l List) Daily() List { return l.ByPeriod(Daily) }

// Weekly returns the weekly habits.
func (l List) Weekly() List { return l.ByPeriod(Weekly) }

// CountPeriod returns the number of habits tracked against p.
func (l List) CountPeriod(p Period) int {
	n := 0
	for _, h := range l {
		if h.Period == p {
			n++
		}
	}
	return n
}

// NrDaily returns the number of daily habits.
func (l List) NrDaily() int { return l.CountPeriod(Daily) }

// NrWeekly returns the number of weekly habits.
func (l List) NrWeekly() int { return l.CountPeriod(Weekly) }

// Partition splits the list by completion state for the current period.
func (l List) Partition() (done, todo List) {
	done, todo = List{}, List{}
	for _, h := range l {
		if h.Completed {
			done = append(done, h)
		} else {
			todo = append(todo, h)
		}
	}
	return done, todo
}

// Keys returns the display keys of the habits, in order.
func (l List) Keys() []string {
	keys := make([]string, 0, len(l))
	for _, h := range l {
		keys = append(keys, h.DisplayKey())
	}
	return keys
}

// CurrentLongest returns the habit with the longest ongoing streak. The first
// maximum in collection order wins.
func (l List) CurrentLongest() (*Habit, error) {
	return l.maxBy(func(h *Habit) int { return h.StreakLength })
}

// LongestEver returns the habit with the longest streak ever recorded.
// Habits that were never completed count as zero.
func (l List) LongestEver() (*Habit, error) {
	return l.maxBy(func(h *Habit) int { return h.LongestStreak.Len() })
}

// CurrentLongestFor is CurrentLongest restricted to habits tracked against p.
func (l List) CurrentLongestFor(p Period) (*Habit, error) {
	return l.ByPeriod(p).CurrentLongest()
}

// LongestEverFor is LongestEver restricted to habits tracked against p.
func (l List) LongestEverFor(p Period) (*Habit, error) {
	return l.ByPeriod(p).LongestEver()
}

func (l List) maxBy(key func(*Habit) int) (*Habit, error) {
	if len(l) == 0 {
		return nil, ErrNoHabits
	}
	best := l[0]
	for _, h := range l[1:] {
		if key(h) > key(best) {
			best = h
		}
	}
	return best, nil
}

// FormatCurrent renders the current longest streak query.
func (l List) FormatCurrent() (string, error) {
	h, err := l.CurrentLongest()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %d", h.Name, h.StreakLength), nil
}

// FormatLongestEver renders the longest ever streak query, or "None" when the
// winning habit has never been completed.
func (l List) FormatLongestEver() (string, error) {
	h, err := l.LongestEver()
	if err != nil {
		return "", err
	}
	if !h.LongestStreak.Valid {
		return "None", nil
	}
	return fmt.Sprintf("%s: %s", h.Name, h.LongestStreak), nil
}

// NamesUnique reports whether no name appears more than once.
func (l List) NamesUnique() bool {
	_, dup := l.Duplicate()
	return !dup
}

// Duplicate returns the first name that appears more than once.
func (l List) Duplicate() (string, bool) {
	seen := make(map[string]struct{}, len(l))
	for _, h := range l {
		if _, ok := seen[h.Name]; ok {
			return h.Name, true
		}
		seen[h.Name] = struct{}{}
	}
	return "", false
}

// NameUnique reports whether name is not used by any habit yet.
func (l List) NameUnique(name string) bool {
	for _, h := range l {
		if h.Name == name {
			return false
		}
	}
	return true
}

// Refresh applies the rollover check to every habit and returns how many changed.
func (l List) Refresh(now time.Time) int {
	changed := 0
	for _, h := range l {
		if h.Rollover(now) {
			changed++
		}
	}
	return changed
}
