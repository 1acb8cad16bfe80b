package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirbrooks/today/internal/prompt"
	"github.com/amirbrooks/today/internal/render"
	"github.com/amirbrooks/today/internal/store"
)

// runMenu is the interactive session. Changes are saved once when the user
// quits; Ctrl-C abandons them.
func (a *App) runMenu(ctx context.Context) error {
	list, err := a.loadTasks()
	if err != nil {
		return err
	}
	term := a.terminal()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := term.Menu()
		if err != nil {
			return err
		}
		switch choice {
		case prompt.MenuAdd:
			task, err := term.Task(a.Now())
			if errors.Is(err, prompt.ErrAborted) {
				continue
			}
			if err != nil {
				return err
			}
			if err := list.Add(task); err != nil {
				return err
			}
		case prompt.MenuRemove:
			task, ok, err := term.SelectTask("Which task do you want to remove?", list.Tasks())
			if err != nil {
				return err
			}
			if ok {
				list.Remove(task.ID)
			}
		case prompt.MenuToday:
			if err := render.Today(a.Out, list.Today(), render.NewTodayFormatter(a.color())); err != nil {
				return err
			}
		case prompt.MenuList:
			if err := a.menuList(list); err != nil {
				return err
			}
		case prompt.MenuQuit:
			return a.saveTasks(list)
		}
	}
}

// menuList shows every task without ids, names capped at the widest name.
func (a *App) menuList(list *store.TaskList) error {
	tasks := list.Tasks()
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(a.Out, "No tasks.")
		return err
	}
	f := render.NewListFormatter(0)
	f.Columns[render.FieldName] = f.Columns[render.FieldName].WithSize(render.Max(render.NameWidth(tasks)))
	return render.List(a.Out, tasks, f)
}
