package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"habits/internal/habit"
	"habits/internal/logging"
)

// IncompletePolicy decides what Decode does with a record that is missing
// required fields.
type IncompletePolicy int

const (
	// DropIncomplete skips the record and logs a warning.
	DropIncomplete IncompletePolicy = iota
	// RejectIncomplete fails decoding with ErrIncompleteRecord.
	RejectIncomplete
)

func (p IncompletePolicy) String() string {
	if p == RejectIncomplete {
		return "reject"
	}
	return "drop"
}

// Option configures decoding and the file-backed stores.
type Option func(*options)

type options struct {
	policy IncompletePolicy
	logger *log.Logger
}

// WithIncompletePolicy sets how records missing fields are handled.
func WithIncompletePolicy(p IncompletePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{policy: DropIncomplete, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Line prefixes of the org habit format.
const (
	headerPrefix    = "* "
	createdPrefix   = ":created: "
	streakPrefix    = ":streak: "
	longestPrefix   = ":longest streak: "
	periodPrefix    = ":period: "
	completedPrefix = "- "

	stateTodo = "TODO"
	stateDone = "DONE"
	noStreak  = "None"
)

// record accumulates the fields of one habit block while decoding.
type record struct {
	line int // line of the header, or of the first field if there is none

	hasHeader  bool
	completed  bool
	symbol     string
	name       string
	hasCreated bool
	created    time.Time
	hasStreak  bool
	streak     int
	hasLongest bool
	longest    habit.NullStreak
	hasPeriod  bool
	period     habit.Period
	times      []time.Time
}

func (r *record) empty() bool {
	return !r.hasHeader && !r.hasCreated && !r.hasStreak && !r.hasLongest && !r.hasPeriod && len(r.times) == 0
}

func (r *record) complete() bool {
	return r.hasHeader && r.symbol != "" && r.name != "" &&
		r.hasCreated && r.hasStreak && r.hasLongest && r.hasPeriod
}

func (r *record) missing() []string {
	var m []string
	if !r.hasHeader {
		m = append(m, "header")
	} else {
		if r.symbol == "" {
			m = append(m, "symbol")
		}
		if r.name == "" {
			m = append(m, "name")
		}
	}
	if !r.hasCreated {
		m = append(m, "created")
	}
	if !r.hasStreak {
		m = append(m, "streak")
	}
	if !r.hasLongest {
		m = append(m, "longest streak")
	}
	if !r.hasPeriod {
		m = append(m, "period")
	}
	return m
}

func (r *record) habit() *habit.Habit {
	return habit.Restore(habit.Habit{
		Name:           r.name,
		Symbol:         r.symbol,
		Period:         r.period,
		CreatedAt:      r.created,
		StreakLength:   r.streak,
		Completed:      r.completed,
		CompletedTimes: r.times,
		LongestStreak:  r.longest,
	})
}

type decoder struct {
	opts   options
	habits []*habit.Habit
	cur    record
}

// flush emits the current record if it is complete and starts a new one.
func (d *decoder) flush() error {
	rec := d.cur
	d.cur = record{}
	if rec.empty() {
		return nil
	}
	if rec.complete() {
		d.habits = append(d.habits, rec.habit())
		return nil
	}
	if d.opts.policy == RejectIncomplete {
		return &ParseError{Line: rec.line, Err: fmt.Errorf("%w: missing %s", ErrIncompleteRecord, strings.Join(rec.missing(), ", "))}
	}
	d.opts.logger.Warn("dropping incomplete habit record", "line", rec.line, "name", rec.name, "missing", strings.Join(rec.missing(), ","))
	return nil
}

// Decode reads habits in the org format from r.
func Decode(r io.Reader, opts ...Option) ([]*habit.Habit, error) {
	d := &decoder{opts: buildOptions(opts), habits: []*habit.Habit{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if err := d.line(n, strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read habits: %w", err)
	}
	if err := d.flush(); err != nil {
		return nil, err
	}
	return d.habits, nil
}

func (d *decoder) line(n int, line string) error {
	if strings.HasPrefix(line, ":PROP") || strings.HasPrefix(line, ":END") || strings.HasPrefix(line, "# ") {
		return nil
	}
	if strings.TrimSpace(line) == "" {
		// A blank line ends a record only once it has every field; an
		// unfinished one is settled by the next header or EOF.
		if d.cur.complete() {
			return d.flush()
		}
		return nil
	}

	if strings.HasPrefix(line, headerPrefix) {
		if err := d.flush(); err != nil {
			return err
		}
		return d.header(n, strings.TrimPrefix(line, headerPrefix))
	}

	if d.cur.empty() {
		d.cur.line = n
	}
	rec := &d.cur
	switch {
	case strings.HasPrefix(line, createdPrefix):
		ts, err := parseStamp(strings.TrimPrefix(line, createdPrefix))
		if err != nil {
			return &ParseError{Line: n, Err: fmt.Errorf("created: %w", err)}
		}
		rec.created, rec.hasCreated = ts, true

	case strings.HasPrefix(line, streakPrefix):
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, streakPrefix)))
		if err != nil {
			return &ParseError{Line: n, Err: fmt.Errorf("streak: %w", err)}
		}
		if v < 0 {
			return &ParseError{Line: n, Err: fmt.Errorf("streak: negative value %d", v)}
		}
		rec.streak, rec.hasStreak = v, true

	case strings.HasPrefix(line, longestPrefix):
		ls, err := parseLongest(strings.TrimSpace(strings.TrimPrefix(line, longestPrefix)))
		if err != nil {
			return &ParseError{Line: n, Err: fmt.Errorf("longest streak: %w", err)}
		}
		rec.longest, rec.hasLongest = ls, true

	case strings.HasPrefix(line, periodPrefix):
		p, err := habit.ParsePeriod(strings.TrimSpace(strings.TrimPrefix(line, periodPrefix)))
		if err != nil {
			return &ParseError{Line: n, Err: fmt.Errorf("%w: %v", ErrInvalidPeriod, err)}
		}
		rec.period, rec.hasPeriod = p, true

	case strings.HasPrefix(line, completedPrefix):
		ts, err := parseStamp(strings.TrimPrefix(line, completedPrefix))
		if err != nil {
			return &ParseError{Line: n, Err: fmt.Errorf("completion: %w", err)}
		}
		rec.times = append(rec.times, ts)
	}
	// Anything else is free text and ignored.
	return nil
}

func (d *decoder) header(n int, rest string) error {
	state, rest, _ := strings.Cut(rest, " ")
	rec := &d.cur
	rec.line = n
	rec.hasHeader = true
	switch state {
	case stateTodo:
		rec.completed = false
	case stateDone:
		rec.completed = true
	default:
		return &ParseError{Line: n, Err: fmt.Errorf("%w: %q", ErrInvalidState, state)}
	}
	rec.symbol, rec.name, _ = strings.Cut(rest, " ")
	return nil
}

// parseStamp parses "[YYYY-MM-DD HH:MM:SS]" as local wall-clock time.
func parseStamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return time.Time{}, fmt.Errorf("malformed timestamp %q", s)
	}
	ts, err := time.ParseInLocation(habit.TimeLayout, s[1:len(s)-1], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return ts, nil
}

// parseLongest parses "None" or "{n} [{begin}];[{end}]".
func parseLongest(s string) (habit.NullStreak, error) {
	if s == noStreak {
		return habit.NullStreak{}, nil
	}
	nr, span, ok := strings.Cut(s, " ")
	if !ok {
		return habit.NullStreak{}, fmt.Errorf("malformed value %q", s)
	}
	length, err := strconv.Atoi(nr)
	if err != nil {
		return habit.NullStreak{}, err
	}
	if length < 1 {
		return habit.NullStreak{}, fmt.Errorf("length must be positive, got %d", length)
	}
	b, e, ok := strings.Cut(span, ";")
	if !ok {
		return habit.NullStreak{}, fmt.Errorf("malformed span %q", span)
	}
	begin, err := parseStamp(b)
	if err != nil {
		return habit.NullStreak{}, err
	}
	end, err := parseStamp(e)
	if err != nil {
		return habit.NullStreak{}, err
	}
	return habit.SomeStreak(habit.StreakPeriod{Length: length, Begin: begin, End: end}), nil
}

// Encode writes habits in the org format, one block per habit in order, each
// followed by a blank line.
func Encode(w io.Writer, habits []*habit.Habit) error {
	bw := bufio.NewWriter(w)
	for _, h := range habits {
		state := stateTodo
		if h.Completed {
			state = stateDone
		}
		fmt.Fprintf(bw, "%s%s %s %s\n", headerPrefix, state, h.Symbol, h.Name)
		bw.WriteString(":PROPERTIES:\n")
		fmt.Fprintf(bw, "%s[%s]\n", createdPrefix, h.CreatedAt.Format(habit.TimeLayout))
		fmt.Fprintf(bw, "%s%d\n", streakPrefix, h.StreakLength)
		fmt.Fprintf(bw, "%s%s\n", longestPrefix, h.LongestStreak)
		fmt.Fprintf(bw, "%s%s\n", periodPrefix, h.Period)
		bw.WriteString(":END:\n")
		for _, t := range h.CompletedTimes {
			fmt.Fprintf(bw, "%s[%s]\n", completedPrefix, t.Format(habit.TimeLayout))
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write habits: %w", err)
	}
	return nil
}
