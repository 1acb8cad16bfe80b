// Package prompt asks the user for task details on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/today/internal/store"
)

// ErrAborted is returned when the user presses Ctrl-C in a prompt.
var ErrAborted = errors.New("prompt aborted")

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Terminal is where prompts read keys and draw.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) run(m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithInput(t.In), tea.WithOutput(t.Out))
	return p.Run()
}

// inputModel is a single line text prompt. Validate runs on Enter; the prompt
// stays open until the value passes.
type inputModel struct {
	label     string
	help      string
	input     textinput.Model
	validate  func(string) error
	skippable bool

	err      error
	done     bool
	skipped  bool
	aborted  bool
	rendered string
}

func newInput(label, help, placeholder string, validate func(string) error) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()
	return inputModel{label: label, help: help, input: ti, validate: validate}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEsc:
			if m.skippable {
				m.skipped = true
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.err = nil
			m.done = true
			m.rendered = value
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.skipped || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.help != "" {
		b.WriteString(helpStyle.Render(m.help))
		b.WriteString("\n")
	}
	return b.String()
}

// ask runs an input prompt. ok is false when the prompt was skipped.
func (t Terminal) ask(m inputModel) (value string, ok bool, err error) {
	final, err := t.run(m)
	if err != nil {
		return "", false, err
	}
	res := final.(inputModel)
	switch {
	case res.aborted:
		return "", false, ErrAborted
	case res.skipped:
		return "", false, nil
	default:
		return res.rendered, true, nil
	}
}

func validateName(s string) error {
	if _, err := store.NewTaskName(s); err != nil {
		return errors.New("name cannot be empty")
	}
	return nil
}

// Name asks for a task name until a valid one is entered.
func (t Terminal) Name() (store.TaskName, error) {
	value, _, err := t.ask(newInput("Task name:", "Enter the name of the task", "", validateName))
	if err != nil {
		return store.TaskName{}, err
	}
	return store.NewTaskName(value)
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func validateDate(today time.Time) func(string) error {
	return func(s string) error {
		d, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return errors.New("use the form YYYY-MM-DD")
		}
		if d.Before(today) {
			return fmt.Errorf("the date cannot be before %s", today.Format(dateLayout))
		}
		return nil
	}
}

func validateClock(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(clockLayout, s); err != nil {
		return errors.New("use the form HH:MM")
	}
	return nil
}

// Due asks for a due date and then a time of day. Esc on the date makes the
// task due as soon as possible (nil). An empty time means midnight.
func (t Terminal) Due(now time.Time) (*time.Time, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	date := newInput("Due date:", "Press ESC to set task to be due as soon as possible", today.Format(dateLayout), validateDate(today))
	date.skippable = true
	value, ok, err := t.ask(date)
	if err != nil || !ok {
		return nil, err
	}
	day, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}

	clock, _, err := t.ask(newInput("Time:", "HH:MM, empty for 00:00", "00:00", validateClock))
	if err != nil {
		return nil, err
	}
	if clock == "" {
		return &day, nil
	}
	tod, err := time.Parse(clockLayout, clock)
	if err != nil {
		return nil, err
	}
	due := day.Add(time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute)
	return &due, nil
}

// Task asks for a name and a due date.
func (t Terminal) Task(now time.Time) (store.Task, error) {
	name, err := t.Name()
	if err != nil {
		return store.Task{}, err
	}
	due, err := t.Due(now)
	if err != nil {
		return store.Task{}, err
	}
	return store.NewTask(name).WithDue(due), nil
}
