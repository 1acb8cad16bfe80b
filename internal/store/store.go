package store

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	timeNow     = func() time.Time { return time.Now().UTC() }
)

// MatchConflictError provides details when a prefix matches multiple tasks.
// It still satisfies errors.Is(err, ErrConflict).
type MatchConflictError struct {
	Prefix  string
	Matches []Task
}

func (e *MatchConflictError) Error() string {
	if e == nil || strings.TrimSpace(e.Prefix) == "" {
		return "conflict"
	}
	return fmt.Sprintf("conflict: more than one possible task was found with the id %q", e.Prefix)
}

func (e *MatchConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UnknownIDError is returned by Edit when no task carries the id.
// It satisfies errors.Is(err, ErrNotFound).
type UnknownIDError struct {
	ID TaskID
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown task id %s", e.ID)
}

func (e *UnknownIDError) Is(target error) bool {
	return target == ErrNotFound
}

// TaskList is the in-memory task store. It is not safe for concurrent use.
type TaskList struct {
	tasks []Task
}

func NewTaskList() *TaskList {
	return &TaskList{}
}

// Add appends task. Ids are kept unique: adding a task whose id is already
// present fails with ErrConflict.
func (l *TaskList) Add(task Task) error {
	if l.indexOf(task.ID) >= 0 {
		return fmt.Errorf("%w: task id %s already exists", ErrConflict, task.ID)
	}
	l.tasks = append(l.tasks, task)
	return nil
}

// Remove deletes every task with the given id and returns how many were removed.
func (l *TaskList) Remove(id TaskID) int {
	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(l.tasks, func(t Task) bool { return t.ID == id })
	return before - len(l.tasks)
}

// Edit replaces the task sharing task's id and returns the previous value.
// The list is unchanged when the id is unknown.
func (l *TaskList) Edit(task Task) (Task, error) {
	i := l.indexOf(task.ID)
	if i < 0 {
		return Task{}, &UnknownIDError{ID: task.ID}
	}
	prev := l.tasks[i]
	l.tasks[i] = task
	return prev, nil
}

// Extend merges tasks into the list. The whole list is sorted by id, name and
// due date afterwards and exact duplicates are collapsed, so callers must not
// rely on insertion order after Extend.
func (l *TaskList) Extend(tasks []Task) {
	merged := make([]Task, 0, len(l.tasks)+len(tasks))
	merged = append(merged, l.tasks...)
	merged = append(merged, tasks...)
	slices.SortFunc(merged, Compare)
	l.tasks = slices.CompactFunc(merged, Equal)
}

// Resolve returns the single task whose hex id starts with prefix.
func (l *TaskList) Resolve(prefix string) (Task, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return Task{}, fmt.Errorf("%w: empty id", ErrInvalid)
	}
	var matches []Task
	for _, t := range l.tasks {
		if strings.HasPrefix(t.ID.String(), prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Task{}, fmt.Errorf("%w: no task found with the id %q", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return Task{}, &MatchConflictError{Prefix: prefix, Matches: matches}
	}
}

// Today returns the tasks that are due today, overdue or unscheduled.
func (l *TaskList) Today() *DueIter {
	return l.TodayAt(timeNow())
}

// TodayAt is Today with an explicit notion of "now".
func (l *TaskList) TodayAt(now time.Time) *DueIter {
	return newDueIter(l.tasks, now)
}

// Tasks returns a copy of the current contents in list order.
func (l *TaskList) Tasks() []Task {
	return slices.Clone(l.tasks)
}

func (l *TaskList) All() iter.Seq[Task] {
	return slices.Values(slices.Clone(l.tasks))
}

func (l *TaskList) Len() int {
	return len(l.tasks)
}

// IDs returns the rendered ids in list order.
func (l *TaskList) IDs() []string {
	ids := make([]string, len(l.tasks))
	for i, t := range l.tasks {
		ids[i] = t.ID.String()
	}
	return ids
}

// ShortestIDLength is the display length that keeps every id in the list
// distinguishable, never shorter than floor.
func (l *TaskList) ShortestIDLength(floor int) int {
	return ShortestIDLength(l.IDs(), floor)
}

func (l *TaskList) indexOf(id TaskID) int {
	return slices.IndexFunc(l.tasks, func(t Task) bool { return t.ID == id })
}
