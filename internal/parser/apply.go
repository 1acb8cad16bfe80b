package parser

import (
	"fmt"

	"github.com/amirbrooks/today/internal/store"
)

// Apply runs prog against list and returns the task it added, changed or
// removed. Edit and Remove need the prefix to match exactly one task; on any
// error the list is left as it was.
func Apply(list *store.TaskList, prog Program) (store.Task, error) {
	switch prog := prog.(type) {
	case Add:
		if err := list.Add(prog.Task); err != nil {
			return store.Task{}, err
		}
		return prog.Task, nil
	case Edit:
		task, err := list.Resolve(prog.IDPrefix)
		if err != nil {
			return store.Task{}, err
		}
		updated := task.WithName(prog.Name).WithDue(prog.Due)
		if _, err := list.Edit(updated); err != nil {
			return store.Task{}, err
		}
		return updated, nil
	case Remove:
		task, err := list.Resolve(prog.IDPrefix)
		if err != nil {
			return store.Task{}, err
		}
		list.Remove(task.ID)
		return task, nil
	case Empty, nil:
		return store.Task{}, nil
	default:
		return store.Task{}, fmt.Errorf("%w: unsupported program %T", store.ErrInvalid, prog)
	}
}
