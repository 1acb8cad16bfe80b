package parser

import (
	"fmt"
	"time"

	"github.com/amirbrooks/today/internal/store"
)

// Program is one parsed line of the edit language.
type Program interface {
	program()
}

// Add creates a new task.
type Add struct {
	Task store.Task
}

// Edit replaces the name and due date of the task whose id starts with IDPrefix.
// A nil Due makes the task due as soon as possible.
type Edit struct {
	IDPrefix string
	Name     store.TaskName
	Due      *time.Time
}

// Remove deletes the task whose id starts with IDPrefix.
type Remove struct {
	IDPrefix string
}

// Empty is a blank line.
type Empty struct{}

func (Add) program()    {}
func (Edit) program()   {}
func (Remove) program() {}
func (Empty) program()  {}

func (a Add) String() string {
	return fmt.Sprintf("add %q due %s", a.Task.Name, formatDue(a.Task.Due))
}

func (e Edit) String() string {
	return fmt.Sprintf("edit %s to %q due %s", e.IDPrefix, e.Name, formatDue(e.Due))
}

func (r Remove) String() string {
	return "remove " + r.IDPrefix
}

func (Empty) String() string {
	return "empty"
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "now"
	}
	return due.Format(time.RFC3339)
}

// Kind classifies a ParseError.
type Kind int

const (
	InvalidTaskName Kind = iota + 1
	InvalidDue
	ExpectedEOF
	UnexpectedToken
	UnexpectedEOF
)

func (k Kind) String() string {
	switch k {
	case InvalidTaskName:
		return "invalid task name"
	case InvalidDue:
		return "invalid due date"
	case ExpectedEOF:
		return "expected end of line"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEOF:
		return "unexpected end of line"
	default:
		return "unknown parse error"
	}
}

// ParseError reports the first violated rule of a line. Column is the byte
// offset into the line where the problem starts. Char is set for ExpectedEOF and
// UnexpectedToken.
type ParseError struct {
	Column int
	Kind   Kind
	Char   rune
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ExpectedEOF, UnexpectedToken:
		return fmt.Sprintf("%s %q at column %d", e.Kind, e.Char, e.Column+1)
	default:
		return fmt.Sprintf("%s at column %d", e.Kind, e.Column+1)
	}
}

// Is lets callers match on the kind alone: errors.Is(err, &ParseError{Kind: InvalidDue}).
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
