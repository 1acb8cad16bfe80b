package store

import (
	"testing"
	"time"
)

func dueAt(t *testing.T, name string, due *time.Time) Task {
	t.Helper()
	return NewTask(MustTaskName(name)).WithDue(due)
}

func ptr(t time.Time) *time.Time { return &t }

func TestTodayFiltersByDate(t *testing.T) {
	now := time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)
	list := NewTaskList()
	tasks := []Task{
		dueAt(t, "overdue", ptr(time.Date(2023, 5, 30, 12, 0, 0, 0, time.UTC))),
		dueAt(t, "tomorrow", ptr(time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC))),
		dueAt(t, "asap", nil),
		dueAt(t, "late tonight", ptr(time.Date(2023, 6, 1, 23, 59, 0, 0, time.UTC))),
		dueAt(t, "next year", ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
	}
	for _, task := range tasks {
		if err := list.Add(task); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got := list.TodayAt(now).Collect()
	want := []string{"overdue", "asap", "late tonight"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d: %+v", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i].Name.String() != name {
			t.Fatalf("expected %q at index %d, got %q", name, i, got[i].Name)
		}
	}
}

func TestIsDue(t *testing.T) {
	today := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{name: "unscheduled", due: nil, want: true},
		{name: "strictly before", due: ptr(time.Date(2023, 5, 31, 23, 59, 0, 0, time.UTC)), want: true},
		{name: "today at midnight", due: ptr(today), want: true},
		{name: "today at end of day", due: ptr(time.Date(2023, 6, 1, 23, 59, 59, 0, time.UTC)), want: true},
		{name: "strictly after", due: ptr(time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := dueAt(t, tt.name, tt.due)
			if got := IsDue(task, today.Add(15*time.Hour)); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDueIterIsOneShotSnapshot(t *testing.T) {
	list := NewTaskList()
	_ = list.Add(dueAt(t, "a", nil))
	it := list.TodayAt(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	// Later mutations do not leak into an iterator that already exists.
	_ = list.Add(dueAt(t, "b", nil))

	first := it.Collect()
	if len(first) != 1 || first[0].Name.String() != "a" {
		t.Fatalf("expected snapshot with only a, got %+v", first)
	}
	if again := it.Collect(); len(again) != 0 {
		t.Fatalf("expected exhausted iterator, got %+v", again)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("expected Next to report exhaustion")
	}
}

func TestTodayUsesClockAtConstruction(t *testing.T) {
	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	timeNow = func() time.Time { return time.Date(2023, 6, 1, 23, 0, 0, 0, time.UTC) }

	list := NewTaskList()
	_ = list.Add(dueAt(t, "tomorrow", ptr(time.Date(2023, 6, 2, 1, 0, 0, 0, time.UTC))))
	it := list.Today()

	timeNow = func() time.Time { return time.Date(2023, 6, 2, 1, 0, 0, 0, time.UTC) }
	if got := it.Collect(); len(got) != 0 {
		t.Fatalf("expected today to be fixed when the iterator was built, got %+v", got)
	}
	if it.Day() != time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected day %v", it.Day())
	}
}
