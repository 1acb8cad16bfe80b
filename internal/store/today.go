package store

import (
	"slices"
	"time"
)

// DueIter walks a snapshot of the task list and yields the tasks that are due:
// unscheduled tasks, and tasks whose due date (UTC, ignoring the time of day)
// is on or before the day the iterator was created. Tasks come out in list
// order. A DueIter is consumed once and cannot be restarted.
type DueIter struct {
	tasks []Task
	today time.Time
	pos   int
}

func newDueIter(tasks []Task, now time.Time) *DueIter {
	return &DueIter{
		tasks: slices.Clone(tasks),
		today: startOfDay(now),
	}
}

// Next returns the next due task, or false once the snapshot is exhausted.
func (it *DueIter) Next() (Task, bool) {
	for it.pos < len(it.tasks) {
		t := it.tasks[it.pos]
		it.pos++
		if IsDue(t, it.today) {
			return t, true
		}
	}
	return Task{}, false
}

// Collect drains the iterator.
func (it *DueIter) Collect() []Task {
	var out []Task
	for t, ok := it.Next(); ok; t, ok = it.Next() {
		out = append(out, t)
	}
	return out
}

// Day is the UTC date the iterator filters against.
func (it *DueIter) Day() time.Time {
	return it.today
}

// IsDue reports whether t is unscheduled or due on or before the date of today.
func IsDue(t Task, today time.Time) bool {
	if t.Due == nil {
		return true
	}
	return !startOfDay(*t.Due).After(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
