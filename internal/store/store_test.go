package store

import (
	"errors"
	"testing"
	"time"
)

func idFromHex(t *testing.T, s string) TaskID {
	t.Helper()
	id, err := ParseTaskID(s)
	if err != nil {
		t.Fatalf("parse id %q: %v", s, err)
	}
	return id
}

func TestTaskNameRejectsBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n", "  "} {
		if _, err := NewTaskName(input); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %q, got %v", input, err)
		}
	}
	name, err := NewTaskName("  Meet Dave \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name.String() != "Meet Dave" {
		t.Fatalf("expected trimmed name, got %q", name.String())
	}
}

func TestTaskIDRendersLowercaseHex(t *testing.T) {
	id := NewTaskID()
	s := id.String()
	if len(s) != IDLength {
		t.Fatalf("expected %d characters, got %d (%q)", IDLength, len(s), s)
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			t.Fatalf("unexpected character %q in id %q", r, s)
		}
	}
	parsed := idFromHex(t, s)
	if parsed != id {
		t.Fatalf("expected %s after parse, got %s", id, parsed)
	}
}

func TestWithDuePreservesIdentity(t *testing.T) {
	task := NewTask(MustTaskName("Meet Dave"))
	loc := time.FixedZone("UTC+2", 2*60*60)
	due := time.Date(2020, 2, 23, 17, 30, 0, 0, loc)

	updated := task.WithDue(&due).WithName(MustTaskName("Meet Dave again"))
	if updated.ID != task.ID {
		t.Fatalf("expected id %s to be preserved, got %s", task.ID, updated.ID)
	}
	if updated.Due.Location() != time.UTC || updated.Due.Hour() != 15 {
		t.Fatalf("expected due normalised to 15:30 UTC, got %v", updated.Due)
	}
	if task.Due != nil || task.Name.String() != "Meet Dave" {
		t.Fatalf("expected original task untouched, got %+v", task)
	}
	if cleared := updated.WithDue(nil); cleared.Due != nil {
		t.Fatalf("expected nil due, got %v", cleared.Due)
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	list := NewTaskList()
	task := NewTask(MustTaskName("one"))
	if err := list.Add(task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := list.Add(task.WithName(MustTaskName("two")))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", list.Len())
	}
}

func TestRemoveDeletesEveryMatchingRecord(t *testing.T) {
	a := NewTask(MustTaskName("a"))
	b := NewTask(MustTaskName("b"))
	list := NewTaskList()
	// Extend keeps distinct values that share an id.
	list.Extend([]Task{a, a.WithName(MustTaskName("a2")), b})
	if list.Len() != 3 {
		t.Fatalf("expected 3 tasks, got %d", list.Len())
	}
	if n := list.Remove(a.ID); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if n := list.Remove(a.ID); n != 0 {
		t.Fatalf("expected nothing removed, got %d", n)
	}
	tasks := list.Tasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Fatalf("expected only b to remain, got %+v", tasks)
	}
}

func TestEditReplacesInPlace(t *testing.T) {
	list := NewTaskList()
	first := NewTask(MustTaskName("first"))
	second := NewTask(MustTaskName("second"))
	_ = list.Add(first)
	_ = list.Add(second)

	due := time.Date(2022, 5, 4, 18, 0, 0, 0, time.UTC)
	prev, err := list.Edit(first.WithName(MustTaskName("renamed")).WithDue(&due))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev.Name.String() != "first" {
		t.Fatalf("expected previous value to be returned, got %q", prev.Name)
	}
	tasks := list.Tasks()
	if tasks[0].Name.String() != "renamed" || !tasks[0].Due.Equal(due) {
		t.Fatalf("expected first slot replaced, got %+v", tasks[0])
	}
	if tasks[1].ID != second.ID {
		t.Fatalf("expected order preserved, got %+v", tasks)
	}
}

func TestEditUnknownIDLeavesListUnchanged(t *testing.T) {
	list := NewTaskList()
	known := NewTask(MustTaskName("known"))
	_ = list.Add(known)

	stranger := NewTask(MustTaskName("stranger"))
	_, err := list.Edit(stranger)
	var unknown *UnknownIDError
	if !errors.As(err, &unknown) || unknown.ID != stranger.ID {
		t.Fatalf("expected UnknownIDError for %s, got %v", stranger.ID, err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	tasks := list.Tasks()
	if len(tasks) != 1 || !Equal(tasks[0], known) {
		t.Fatalf("expected list unchanged, got %+v", tasks)
	}
}

func TestExtendSortsAndDeduplicates(t *testing.T) {
	lo := idFromHex(t, "00000000000000000000000000000001")
	hi := idFromHex(t, "ffffffff000000000000000000000000")
	due := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)

	a := Task{ID: hi, Name: MustTaskName("b")}
	b := Task{ID: lo, Name: MustTaskName("a")}
	c := Task{ID: lo, Name: MustTaskName("a")}.WithDue(&due)

	list := NewTaskList()
	_ = list.Add(a)
	list.Extend([]Task{c, b, a, b})

	got := list.Tasks()
	want := []Task{b, c, a}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if !Equal(got[i], want[i]) {
			t.Fatalf("expected %+v at index %d, got %+v", want[i], i, got[i])
		}
	}
}

func TestCompareOrdersNamesCaseSensitively(t *testing.T) {
	id := NewTaskID()
	upper := Task{ID: id, Name: MustTaskName("Zebra")}
	lower := Task{ID: id, Name: MustTaskName("apple")}
	if Compare(upper, lower) >= 0 {
		t.Fatalf("expected byte-wise ordering to put %q before %q", "Zebra", "apple")
	}
	if Equal(Task{ID: id, Name: MustTaskName("x")}, Task{ID: id, Name: MustTaskName("X")}) {
		t.Fatalf("expected names differing only in case to be different")
	}
}

func TestResolvePrefix(t *testing.T) {
	list := NewTaskList()
	a := Task{ID: idFromHex(t, "4df78000000000000000000000000000"), Name: MustTaskName("a")}
	b := Task{ID: idFromHex(t, "4df79000000000000000000000000000"), Name: MustTaskName("b")}
	_ = list.Add(a)
	_ = list.Add(b)

	got, err := list.Resolve("4DF78")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("expected %s, got %s", a.ID, got.ID)
	}

	_, err = list.Resolve("4df7")
	var conflict *MatchConflictError
	if !errors.As(err, &conflict) || len(conflict.Matches) != 2 {
		t.Fatalf("expected conflict with 2 matches, got %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected errors.Is(err, ErrConflict)")
	}

	if _, err := list.Resolve("abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := list.Resolve("  "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	list := NewTaskList()
	_ = list.Add(NewTask(MustTaskName("a")))
	tasks := list.Tasks()
	tasks[0] = tasks[0].WithName(MustTaskName("mutated"))
	if list.Tasks()[0].Name.String() != "a" {
		t.Fatalf("expected store to be unaffected by caller mutation")
	}
	n := 0
	for range list.All() {
		n++
	}
	if n != 1 {
		t.Fatalf("expected 1 task from All, got %d", n)
	}
}
