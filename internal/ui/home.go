package ui

import (
	"fmt"
	"strings"

	"habits/internal/config"
	"habits/internal/habit"
	"habits/internal/tracker"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Column identifies one side of the habit table.
type Column int

const (
	ColumnTodo Column = iota
	ColumnDone
)

// Steps of the add prompt.
const (
	stepName = iota
	stepSymbol
	stepPeriod
)

const (
	namePlaceholder   = "Habit name (e.g., Exercise)"
	symbolPlaceholder = "Symbol (e.g., 🏃)"
	periodPlaceholder = "d(aily) or w(eekly)"
)

// HomePane shows uncompleted and completed habits side by side.
type HomePane struct {
	tracker *tracker.Tracker
	styles  *Styles
	column  Column
	cursor  [2]int
	filter  habit.Period // empty shows every period
	width   int

	adding    bool
	addStep   int
	input     textinput.Model
	newName   string
	newSymbol string
	inputErr  string

	// Key bindings
	keys      HomeKeyMap
	inputKeys InputKeyMap
}

// NewHomePane creates a new home pane.
func NewHomePane(tr *tracker.Tracker, styles *Styles) *HomePane {
	return NewHomePaneWithKeys(tr, styles, &config.KeysConfig{})
}

// NewHomePaneWithKeys creates a new home pane with custom key bindings.
func NewHomePaneWithKeys(tr *tracker.Tracker, styles *Styles, keyCfg *config.KeysConfig) *HomePane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = namePlaceholder
	ti.CharLimit = 60
	ti.Width = 40

	return &HomePane{
		tracker:   tr,
		styles:    styles,
		input:     ti,
		keys:      NewHomeKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane width.
func (p *HomePane) SetSize(width int) {
	p.width = width
	p.input.Width = max(10, width/2-8)
}

// IsAdding returns whether the add prompt is open.
func (p *HomePane) IsAdding() bool {
	return p.adding
}

// Column returns the focused column.
func (p *HomePane) Column() Column {
	return p.column
}

// Filter returns the active period filter; empty means all periods.
func (p *HomePane) Filter() habit.Period {
	return p.filter
}

// columns returns the filtered TODO and DONE lists.
func (p *HomePane) columns() (todo, done habit.List) {
	todo, done = p.tracker.Uncompleted(), p.tracker.Completed()
	if p.filter != "" {
		todo, done = todo.ByPeriod(p.filter), done.ByPeriod(p.filter)
	}
	return todo, done
}

func (p *HomePane) current() habit.List {
	todo, done := p.columns()
	if p.column == ColumnDone {
		return done
	}
	return todo
}

// Selected returns the habit under the cursor.
func (p *HomePane) Selected() (*habit.Habit, bool) {
	list := p.current()
	c := p.cursor[p.column]
	if c < 0 || c >= len(list) {
		return nil, false
	}
	return list[c], true
}

// clamp keeps both cursors inside their columns after the collection changed.
func (p *HomePane) clamp() {
	todo, done := p.columns()
	for col, n := range [2]int{len(todo), len(done)} {
		if p.cursor[col] >= n {
			p.cursor[col] = max(0, n-1)
		}
	}
}

// cycleFilter steps through all → Daily → Weekly.
func (p *HomePane) cycleFilter() {
	switch p.filter {
	case "":
		p.filter = habit.Daily
	case habit.Daily:
		p.filter = habit.Weekly
	default:
		p.filter = ""
	}
	p.clamp()
}

// Update handles messages for the home pane.
func (p *HomePane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if p.adding {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				return p.confirmInput()
			case key.Matches(msg, p.inputKeys.Cancel):
				p.resetAddMode()
				return nil
			}
		}

		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Down):
		if n := len(p.current()); n > 0 {
			p.cursor[p.column] = min(p.cursor[p.column]+1, n-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor[p.column] = max(p.cursor[p.column]-1, 0)

	case key.Matches(keyMsg, p.keys.SwitchColumn):
		if p.column == ColumnTodo {
			p.column = ColumnDone
		} else {
			p.column = ColumnTodo
		}

	case key.Matches(keyMsg, p.keys.Filter):
		p.cycleFilter()

	case key.Matches(keyMsg, p.keys.Add):
		p.adding = true
		p.addStep = stepName
		p.inputErr = ""
		p.input.Placeholder = namePlaceholder
		p.input.CharLimit = 60
		p.input.Focus()
		return textinput.Blink

	case key.Matches(keyMsg, p.keys.Complete):
		return p.completeSelected()
	}

	return nil
}

func (p *HomePane) completeSelected() tea.Cmd {
	h, ok := p.Selected()
	if !ok {
		return statusCmd("No habit selected", true)
	}
	if p.column == ColumnDone {
		return statusCmd(fmt.Sprintf("%s is already done this period", h.Name), false)
	}
	if err := p.tracker.Complete(h.ID); err != nil {
		return statusCmd("Complete: "+err.Error(), true)
	}
	p.clamp()
	return changedCmd(fmt.Sprintf("Completed %s (streak %d)", h.Name, h.StreakLength))
}

// confirmInput advances the add prompt; an invalid answer keeps the step.
func (p *HomePane) confirmInput() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())
	p.inputErr = ""

	switch p.addStep {
	case stepName:
		switch {
		case value == "":
			p.inputErr = "Name cannot be empty"
		case !p.tracker.IsNameUnique(value):
			p.inputErr = fmt.Sprintf("%q already exists, choose another name", value)
			p.input.Reset()
		default:
			p.newName = value
			p.addStep = stepSymbol
			p.input.Reset()
			p.input.Placeholder = symbolPlaceholder
			p.input.CharLimit = 12
		}
		return nil

	case stepSymbol:
		if value == "" {
			p.inputErr = "Symbol cannot be empty"
			return nil
		}
		p.newSymbol = value
		p.addStep = stepPeriod
		p.input.Reset()
		p.input.Placeholder = periodPlaceholder
		p.input.CharLimit = 6
		return nil
	}

	period, err := habit.ParsePeriodInput(value)
	if err != nil {
		p.inputErr = "Enter d for daily or w for weekly"
		p.input.Reset()
		return nil
	}

	name, symbol := p.newName, p.newSymbol
	p.resetAddMode()
	h, err := p.tracker.Add(name, symbol, period)
	if err != nil {
		return statusCmd("Add habit: "+err.Error(), true)
	}
	p.clamp()
	return changedCmd("Added " + h.Name)
}

// resetAddMode resets the add habit state.
func (p *HomePane) resetAddMode() {
	p.adding = false
	p.addStep = stepName
	p.newName = ""
	p.newSymbol = ""
	p.inputErr = ""
	p.input.Reset()
	p.input.Blur()
	p.input.Placeholder = namePlaceholder
	p.input.CharLimit = 60
}

// View renders the home pane.
func (p *HomePane) View() string {
	var b strings.Builder

	filter := "All"
	if p.filter != "" {
		filter = string(p.filter)
	}
	b.WriteString(p.styles.Heading.Render("HABITS"))
	b.WriteString("  " + p.styles.Label.Render("Filter: "+filter))
	b.WriteString("\n\n")

	if p.tracker.Len() == 0 && !p.adding {
		b.WriteString(p.styles.Label.Render("  No habits yet."))
		b.WriteString("\n")
		b.WriteString(p.styles.Label.Render("  Press '" + p.keys.Add.Help().Key + "' to add one."))
		b.WriteString("\n")
	} else {
		todo, done := p.columns()
		colWidth := 38
		if p.width > 0 {
			colWidth = max(24, p.width/2-2)
		}
		left := p.renderColumn(ColumnTodo, "TODO", todo, colWidth)
		right := p.renderColumn(ColumnDone, "DONE", done, colWidth)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
		b.WriteString("\n")
	}

	if p.adding {
		b.WriteString("\n")
		var prompt string
		switch p.addStep {
		case stepName:
			prompt = "Name: "
		case stepSymbol:
			prompt = "Symbol: "
		default:
			prompt = "Period: "
		}
		b.WriteString("  " + p.styles.Prompt.Render(prompt) + p.input.View())
		b.WriteString("\n")
		if p.inputErr != "" {
			b.WriteString("  " + p.styles.Error.Render(p.inputErr))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (p *HomePane) renderColumn(col Column, title string, list habit.List, width int) string {
	var b strings.Builder
	b.WriteString(p.styles.Heading.Render(fmt.Sprintf("%s (%d)", title, len(list))))
	b.WriteString("\n")

	focused := p.column == col && !p.adding
	if len(list) == 0 {
		b.WriteString(p.styles.Label.Render("nothing here"))
	}
	for i, h := range list {
		prefix := "  "
		selected := focused && i == p.cursor[col]
		if selected {
			prefix = "▶ "
		}

		icon := p.styles.TodoIcon
		style := p.styles.Todo
		if h.Completed {
			icon = p.styles.DoneIcon
			style = p.styles.Done
		}

		line := fmt.Sprintf("%s%s %s %s", prefix, icon, h.Symbol, style.Render(h.Name))
		if h.StreakLength > 0 {
			line += " " + p.styles.Streak.Render(fmt.Sprintf("🔥%d", h.StreakLength))
		}
		if selected {
			line = p.styles.Cursor.Render(line)
		}
		b.WriteString(line)
		if i < len(list)-1 {
			b.WriteString("\n")
		}
	}

	style := p.styles.Column
	if focused {
		style = p.styles.ColumnFocused
	}
	return style.Width(width).Render(b.String())
}
