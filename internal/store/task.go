package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskID is the random 128-bit identity of a task. It is assigned once when the
// task is created and never changes.
type TaskID [16]byte

// IDLength is the number of hex characters in a rendered TaskID.
const IDLength = 32

var newTaskID = func() TaskID { return TaskID(uuid.New()) }

// NewTaskID returns a fresh random id.
func NewTaskID() TaskID {
	return newTaskID()
}

// ParseTaskID accepts the 32 character hex form as well as the dashed UUID form.
func ParseTaskID(s string) (TaskID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return TaskID{}, fmt.Errorf("%w: task id %q: %v", ErrInvalid, s, err)
	}
	return TaskID(u), nil
}

// String renders the id as lowercase hex without separators.
func (id TaskID) String() string {
	return hex.EncodeToString(id[:])
}

func (id TaskID) IsZero() bool {
	return id == TaskID{}
}

func (id TaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *TaskID) UnmarshalText(b []byte) error {
	parsed, err := ParseTaskID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// TaskName is a task title that contains at least one non-whitespace
// character. Names compare case-sensitively, byte by byte.
type TaskName struct {
	s string
}

// NewTaskName trims s and fails with ErrInvalid when nothing is left.
func NewTaskName(s string) (TaskName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TaskName{}, fmt.Errorf("%w: task name must have at least one printable character", ErrInvalid)
	}
	return TaskName{s: s}, nil
}

// MustTaskName is NewTaskName for literals known to be valid.
func MustTaskName(s string) TaskName {
	n, err := NewTaskName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n TaskName) String() string { return n.s }

func (n TaskName) IsZero() bool { return n.s == "" }

func (n TaskName) MarshalText() ([]byte, error) {
	return []byte(n.s), nil
}

func (n *TaskName) UnmarshalText(b []byte) error {
	parsed, err := NewTaskName(string(b))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Task is a single entry of the task list. A nil Due means the task should be
// done as soon as possible.
type Task struct {
	ID   TaskID
	Name TaskName
	Due  *time.Time
}

type taskJSON struct {
	ID   TaskID     `json:"id"`
	Name TaskName   `json:"name"`
	Due  *time.Time `json:"due"`
}

// NewTask creates a task with a fresh id and no due date.
func NewTask(name TaskName) Task {
	return Task{ID: NewTaskID(), Name: name}
}

// WithName returns a copy of t carrying name.
func (t Task) WithName(name TaskName) Task {
	t.Name = name
	return t
}

// WithDue returns a copy of t due at due (converted to UTC). A nil due makes
// the task due as soon as possible.
func (t Task) WithDue(due *time.Time) Task {
	if due == nil {
		t.Due = nil
		return t
	}
	d := due.UTC()
	t.Due = &d
	return t
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{ID: t.ID, Name: t.Name, Due: t.Due})
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Name.IsZero() {
		return fmt.Errorf("%w: task %s has no name", ErrInvalid, raw.ID)
	}
	*t = Task{ID: raw.ID, Name: raw.Name}.WithDue(raw.Due)
	return nil
}

// Compare orders tasks by id, then name, then due date. Tasks without a due
// date sort before tasks with one.
func Compare(a, b Task) int {
	if c := bytes.Compare(a.ID[:], b.ID[:]); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name.s, b.Name.s); c != 0 {
		return c
	}
	return CompareDue(a.Due, b.Due)
}

// CompareDue orders due dates with nil ("as soon as possible") first.
func CompareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// Equal reports whether a and b carry the same id, name and due date.
func Equal(a, b Task) bool {
	return Compare(a, b) == 0
}
