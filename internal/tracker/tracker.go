// Package tracker owns the habit collection and mediates every mutation
// between the user-facing layers, the streak engine and storage.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"habits/internal/habit"
	"habits/internal/logging"
	"habits/internal/storage"
)

var (
	// ErrDuplicateName is returned when a habit name is already taken.
	ErrDuplicateName = errors.New("habit name is not unique")
	// ErrNotFound is returned when no habit has the requested handle.
	ErrNotFound = errors.New("habit not found")
	// ErrEmptyName is returned by Add for a blank name.
	ErrEmptyName = errors.New("habit name is required")
	// ErrEmptySymbol is returned by Add for a blank symbol.
	ErrEmptySymbol = errors.New("habit symbol is required")
	// ErrInvalidSymbol is returned by Add for a symbol containing whitespace.
	ErrInvalidSymbol = errors.New("habit symbol must be a single token")
	// ErrInvalidName is returned by Add for a name spanning several lines.
	ErrInvalidName = errors.New("habit name must be a single line")
	// ErrTooLong is returned by Add when a name or symbol exceeds its limit.
	ErrTooLong = errors.New("too long")
)

const (
	maxNameLen   = 60
	maxSymbolLen = 12
)

// Tracker holds the in-memory habits and the storage they came from.
type Tracker struct {
	store  storage.Storage
	habits habit.List
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the clock used for completions and rollover.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns an empty tracker backed by store. Call Read to load it.
func New(store storage.Storage, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		habits: habit.List{},
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load is New followed by Read.
func Load(store storage.Storage, opts ...Option) (*Tracker, error) {
	t := New(store, opts...)
	if err := t.Read(); err != nil {
		return nil, err
	}
	return t, nil
}

// Now returns the current time according to the tracker clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Store returns the storage currently backing the tracker.
func (t *Tracker) Store() storage.Storage {
	return t.store
}

// ============================================================================
// Persistence
// ============================================================================

// Read replaces the collection with the contents of the store and applies
// the rollover check. On error the collection is left untouched.
func (t *Tracker) Read() error {
	return t.readFrom(t.store)
}

// Save writes the collection to the store.
func (t *Tracker) Save() error {
	if err := t.store.Save(t.habits); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

// ReadFrom loads the collection from another store, which then becomes the
// tracker's store.
func (t *Tracker) ReadFrom(store storage.Storage) error {
	if err := t.readFrom(store); err != nil {
		return err
	}
	t.store = store
	return nil
}

// SaveAs writes the collection to another store, which then becomes the
// tracker's store.
func (t *Tracker) SaveAs(store storage.Storage) error {
	if err := store.Save(t.habits); err != nil {
		return fmt.Errorf("save habits to %s: %w", store.Path(), err)
	}
	t.store = store
	return nil
}

func (t *Tracker) readFrom(store storage.Storage) error {
	loaded, err := store.Read()
	if err != nil {
		return fmt.Errorf("read habits: %w", err)
	}
	list := habit.List(loaded)
	if name, dup := list.Duplicate(); dup {
		return fmt.Errorf("%w: %q in %s", ErrDuplicateName, name, store.Path())
	}
	t.habits = list
	t.logger.Info("loaded habits", "path", store.Path(), "count", len(list))
	t.Refresh()
	return nil
}

// Refresh applies the rollover check to every habit against the clock and
// returns how many habits changed.
func (t *Tracker) Refresh() int {
	changed := t.habits.Refresh(t.now())
	if changed > 0 {
		t.logger.Debug("period rollover", "changed", changed)
	}
	return changed
}

// ============================================================================
// Queries
// ============================================================================

// Habits returns the tracked habits in order. The slice is a copy; the
// habits are shared.
func (t *Tracker) Habits() habit.List {
	out := make(habit.List, len(t.habits))
	copy(out, t.habits)
	return out
}

// Len returns the number of tracked habits.
func (t *Tracker) Len() int {
	return len(t.habits)
}

// Completed returns the habits done in their current period.
func (t *Tracker) Completed() habit.List {
	done, _ := t.habits.Partition()
	return done
}

// Uncompleted returns the habits still due in their current period.
func (t *Tracker) Uncompleted() habit.List {
	_, todo := t.habits.Partition()
	return todo
}

// CompletedList returns the display keys of the completed habits.
func (t *Tracker) CompletedList() []string {
	return t.Completed().Keys()
}

// UncompletedList returns the display keys of the uncompleted habits.
func (t *Tracker) UncompletedList() []string {
	return t.Uncompleted().Keys()
}

// Lookup returns the habit with the given id.
func (t *Tracker) Lookup(id habit.ID) (*habit.Habit, bool) {
	return t.habits.Find(id)
}

// Resolve maps a display key to the id of the first matching habit.
func (t *Tracker) Resolve(key string) (habit.ID, bool) {
	h, ok := t.habits.FindByKey(key)
	if !ok {
		return "", false
	}
	return h.ID, true
}

// Named returns the habit with the given name.
func (t *Tracker) Named(name string) (*habit.Habit, bool) {
	for _, h := range t.habits {
		if h.Name == name {
			return h, true
		}
	}
	return nil, false
}

// Daily returns the daily habits.
func (t *Tracker) Daily() habit.List { return t.habits.Daily() }

// Weekly returns the weekly habits.
func (t *Tracker) Weekly() habit.List { return t.habits.Weekly() }

// NrDailyHabits returns the number of daily habits.
func (t *Tracker) NrDailyHabits() int { return t.habits.NrDaily() }

// NrWeeklyHabits returns the number of weekly habits.
func (t *Tracker) NrWeeklyHabits() int { return t.habits.NrWeekly() }

// NamesUnique reports whether every habit name is distinct.
func (t *Tracker) NamesUnique() bool { return t.habits.NamesUnique() }

// IsNameUnique reports whether name is still free.
func (t *Tracker) IsNameUnique(name string) bool { return t.habits.NameUnique(name) }

// ============================================================================
// Mutations
// ============================================================================

// Complete records a completion of the habit at the current time.
func (t *Tracker) Complete(id habit.ID) error {
	h, ok := t.habits.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h.Complete(t.now())
	t.logger.Debug("completed habit", "name", h.Name, "streak", h.StreakLength)
	return nil
}

// Delete removes the habit and reports whether it existed.
func (t *Tracker) Delete(id habit.ID) bool {
	h, ok := t.habits.Find(id)
	if !ok {
		return false
	}
	t.habits.Delete(id)
	t.logger.Debug("deleted habit", "name", h.Name)
	return true
}

// Add creates a new habit. The name must be unique and both name and symbol
// must fit on a habit file header line.
func (t *Tracker) Add(name, symbol string, period habit.Period) (*habit.Habit, error) {
	name = strings.TrimSpace(name)
	symbol = strings.TrimSpace(symbol)

	if name == "" {
		return nil, ErrEmptyName
	}
	if strings.ContainsAny(name, "\r\n") {
		return nil, ErrInvalidName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, fmt.Errorf("habit name %w (max %d)", ErrTooLong, maxNameLen)
	}
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if strings.IndexFunc(symbol, unicode.IsSpace) >= 0 {
		return nil, ErrInvalidSymbol
	}
	if utf8.RuneCountInString(symbol) > maxSymbolLen {
		return nil, fmt.Errorf("habit symbol %w (max %d)", ErrTooLong, maxSymbolLen)
	}
	if _, err := habit.ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	if !t.habits.NameUnique(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	h := habit.New(name, symbol, period, t.now())
	t.habits.Add(h)
	t.logger.Debug("added habit", "name", name, "period", period)
	return h, nil
}

// ============================================================================
// Statistics
// ============================================================================

// CurrentLongestStreak returns "{name}: {streak}" for the habit with the
// longest ongoing streak.
func (t *Tracker) CurrentLongestStreak() (string, error) {
	return t.habits.FormatCurrent()
}

// CurrentLongestDailyStreak is CurrentLongestStreak over daily habits.
func (t *Tracker) CurrentLongestDailyStreak() (string, error) {
	return t.habits.Daily().FormatCurrent()
}

// CurrentLongestWeeklyStreak is CurrentLongestStreak over weekly habits.
func (t *Tracker) CurrentLongestWeeklyStreak() (string, error) {
	return t.habits.Weekly().FormatCurrent()
}

// LongestEverStreak returns "{name}: {longest}" for the habit with the
// longest streak ever recorded, or "None" if that habit was never completed.
func (t *Tracker) LongestEverStreak() (string, error) {
	return t.habits.FormatLongestEver()
}

// LongestEverDailyStreak is LongestEverStreak over daily habits.
func (t *Tracker) LongestEverDailyStreak() (string, error) {
	return t.habits.Daily().FormatLongestEver()
}

// LongestEverWeeklyStreak is LongestEverStreak over weekly habits.
func (t *Tracker) LongestEverWeeklyStreak() (string, error) {
	return t.habits.Weekly().FormatLongestEver()
}
