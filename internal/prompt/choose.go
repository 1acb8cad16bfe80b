package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/today/internal/store"
)

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

// chooseModel picks one entry from a list with arrow keys or j/k.
type chooseModel struct {
	title     string
	items     []string
	cursor    int
	skippable bool

	chosen  int
	aborted bool
}

func newChoose(title string, items []string) chooseModel {
	return chooseModel{title: title, items: items, chosen: -1}
}

func (m chooseModel) Init() tea.Cmd { return nil }

func (m chooseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "esc":
		if m.skippable {
			return m, tea.Quit
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.items) > 0 {
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m chooseModel) View() string {
	if m.chosen >= 0 || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.title))
	b.WriteString("\n")
	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}
	help := "↑/↓ to move, enter to select"
	if m.skippable {
		help += ", esc to cancel"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

// choose returns the picked index, or -1 when skipped.
func (t Terminal) choose(m chooseModel) (int, error) {
	final, err := t.run(m)
	if err != nil {
		return -1, err
	}
	res := final.(chooseModel)
	if res.aborted {
		return -1, ErrAborted
	}
	return res.chosen, nil
}

// MenuOption is an entry of the interactive menu.
type MenuOption int

const (
	MenuAdd MenuOption = iota
	MenuRemove
	MenuToday
	MenuList
	MenuQuit
)

var menuOptions = []MenuOption{MenuAdd, MenuRemove, MenuToday, MenuList, MenuQuit}

func (o MenuOption) String() string {
	switch o {
	case MenuAdd:
		return "Add"
	case MenuRemove:
		return "Remove"
	case MenuToday:
		return "Today"
	case MenuList:
		return "List"
	default:
		return "Quit"
	}
}

// Menu asks what to do next.
func (t Terminal) Menu() (MenuOption, error) {
	items := make([]string, len(menuOptions))
	for i, o := range menuOptions {
		items[i] = o.String()
	}
	i, err := t.choose(newChoose("What do you wish to do?", items))
	if err != nil {
		return MenuQuit, err
	}
	if i < 0 {
		return MenuQuit, nil
	}
	return menuOptions[i], nil
}

// SelectTask asks which of tasks to act on. It returns false when the user
// backs out with Esc.
func (t Terminal) SelectTask(title string, tasks []store.Task) (store.Task, bool, error) {
	if len(tasks) == 0 {
		return store.Task{}, false, nil
	}
	items := make([]string, len(tasks))
	for i, task := range tasks {
		items[i] = task.Name.String()
	}
	m := newChoose(title, items)
	m.skippable = true
	i, err := t.choose(m)
	if err != nil || i < 0 {
		return store.Task{}, false, err
	}
	return tasks[i], true, nil
}
