package render

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/amirbrooks/today/internal/store"
)

// Field names a column of a formatted task.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldTime
)

// TimeLayout is how due dates are shown.
const TimeLayout = "2006-01-02 15:04"

// Formatter turns one task into one line (without a trailing newline).
type Formatter interface {
	Format(task store.Task) string
}

// Columns holds one prototype cell per field. Fields without a prototype use
// the zero Cell.
type Columns map[Field]Cell

func (c Columns) cell(field Field, content string) Cell {
	return c[field].WithContent(content)
}

// FormatDue renders a due date, or "Now" when the task is due as soon as possible.
func FormatDue(due *time.Time) string {
	if due == nil {
		return "Now"
	}
	return due.UTC().Format(TimeLayout)
}

// ListFormatter prints id, due and name columns.
type ListFormatter struct {
	Columns Columns
}

// NewListFormatter shows ids cut to idWidth characters. An idWidth of zero
// hides the id column.
func NewListFormatter(idWidth int) *ListFormatter {
	cell := Cell{}.WithMargin(0, 1)
	return &ListFormatter{Columns: Columns{
		FieldID:   cell.WithSize(Max(idWidth)).WithHidden(idWidth == 0),
		FieldName: cell,
		FieldTime: cell,
	}}
}

func (f *ListFormatter) Format(task store.Task) string {
	return f.Columns.cell(FieldID, task.ID.String()).String() +
		f.Columns.cell(FieldTime, FormatDue(task.Due)).String() +
		f.Columns.cell(FieldName, task.Name.String()).String()
}

// TodayFormatter prints the due time highlighted, followed by the name.
type TodayFormatter struct {
	Columns Columns
	Time    lipgloss.Style
}

// NewTodayFormatter hides the id column. Without color the time is plain text.
func NewTodayFormatter(color bool) *TodayFormatter {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &TodayFormatter{
		Columns: Columns{FieldID: Cell{Hidden: true}},
		Time:    r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (f *TodayFormatter) Format(task store.Task) string {
	id := f.Columns.cell(FieldID, task.ID.String()).String()
	due := f.Columns.cell(FieldTime, FormatDue(task.Due)).String()
	name := f.Columns.cell(FieldName, task.Name.String()).String()
	return fmt.Sprintf("%s%s: %s", id, f.Time.Render(due), name)
}

// SortByDue orders tasks by due date, unscheduled first. Tasks with the same
// due date keep their relative order.
func SortByDue(tasks []store.Task) {
	slices.SortStableFunc(tasks, func(a, b store.Task) int {
		return store.CompareDue(a.Due, b.Due)
	})
}

// List writes every task sorted by due date.
func List(w io.Writer, tasks []store.Task, f Formatter) error {
	tasks = slices.Clone(tasks)
	SortByDue(tasks)
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, f.Format(t)); err != nil {
			return err
		}
	}
	return nil
}

// Today drains it and writes the due tasks in list order.
func Today(w io.Writer, it *store.DueIter, f Formatter) error {
	for t, ok := it.Next(); ok; t, ok = it.Next() {
		if _, err := fmt.Fprintln(w, f.Format(t)); err != nil {
			return err
		}
	}
	return nil
}

// NameWidth is the widest task name, in terminal columns.
func NameWidth(tasks []store.Task) int {
	width := 0
	for _, t := range tasks {
		width = max(width, lipgloss.Width(t.Name.String()))
	}
	return width
}
