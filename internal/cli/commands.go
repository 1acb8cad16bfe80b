package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/amirbrooks/today/internal/parser"
	"github.com/amirbrooks/today/internal/render"
	"github.com/amirbrooks/today/internal/store"
	"github.com/amirbrooks/today/internal/watch"
)

type addOptions struct {
	args   []string
	now    bool
	due    string
	dueSet bool
}

type exportOptions struct {
	format string
	dir    string
	stdout bool
}

var dueLayouts = []string{render.TimeLayout, "2006-01-02"}

// parseDue reads a --due value. "now" means due as soon as possible.
func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "now") {
		return nil, nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, usagef("invalid due %q (use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", s)
}

// promptsForDue reports whether add asks for the due date: on a terminal,
// whenever neither --now nor --due was given.
func (o addOptions) promptsForDue(interactive bool) bool {
	return interactive && !o.now && !o.dueSet
}

func (a *App) runAdd(opts addOptions) error {
	list, err := a.loadTasks()
	if err != nil {
		return err
	}

	interactive := a.interactive()
	var name store.TaskName
	switch {
	case len(opts.args) > 0:
		name, err = store.NewTaskName(strings.Join(opts.args, " "))
	case interactive:
		name, err = a.terminal().Name()
	default:
		return usagef("add: missing task name")
	}
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	var due *time.Time
	switch {
	case opts.dueSet:
		if due, err = parseDue(opts.due); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	case opts.promptsForDue(interactive):
		if due, err = a.terminal().Due(a.Now()); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}

	task := store.NewTask(name).WithDue(due)
	if err := list.Add(task); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if err := a.saveTasks(list); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.Out, "Added %s: %s (due %s)\n", task.ID, task.Name, render.FormatDue(task.Due))
	return err
}

func (a *App) runList() error {
	list, err := a.loadTasks()
	if err != nil {
		return err
	}
	width := list.ShortestIDLength(a.cfg.IDMinLength)
	return render.List(a.Out, list.Tasks(), render.NewListFormatter(width))
}

func (a *App) runToday(ctx context.Context, follow bool) error {
	f := render.NewTodayFormatter(a.color())
	if !follow {
		list, err := a.loadTasks()
		if err != nil {
			return err
		}
		return render.Today(a.Out, list.Today(), f)
	}

	return watch.Run(ctx, watch.Options{
		File: a.cfg.DataFile(),
		Render: func(ctx context.Context, w io.Writer) error {
			list, err := a.loadTasks()
			if err != nil {
				// The file may be mid-edit by hand; show why and wait for the next change.
				_, werr := fmt.Fprintf(w, "could not load tasks: %v\n", err)
				return werr
			}
			return render.Today(w, list.Today(), f)
		},
		In:       a.In,
		Out:      a.Out,
		Interval: a.cfg.Watch.Interval,
		QuitKey:  a.cfg.Watch.QuitKey,
		Logger:   a.logger,
	})
}

func (a *App) runRemove(prefix string) error {
	list, err := a.loadTasks()
	if err != nil {
		return err
	}
	task, err := list.Resolve(prefix)
	if err != nil {
		a.logCandidates(err)
		return fmt.Errorf("remove: %w", err)
	}
	list.Remove(task.ID)
	if err := a.saveTasks(list); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.Out, "Removed %s: %s\n", task.ID, task.Name)
	return err
}

// logCandidates lists the tasks an ambiguous prefix matched.
func (a *App) logCandidates(err error) {
	var conflict *store.MatchConflictError
	if !errors.As(err, &conflict) {
		return
	}
	for _, t := range conflict.Matches {
		a.logger.Info("candidate", "id", t.ID, "name", t.Name)
	}
}

// runEdit applies edit instructions from stdin. Lines that fail to parse or
// apply are logged and skipped; the list is saved once at the end.
func (a *App) runEdit(ctx context.Context) error {
	list, err := a.loadTasks()
	if err != nil {
		return err
	}

	var applied, failed, line int
	for prog, err := range parser.ParseLines(a.In) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line++
		var lineErr *parser.LineError
		switch {
		case errors.As(err, &lineErr):
			failed++
			a.logger.Error("could not parse line", "line", lineErr.Line, "err", lineErr.Err)
			continue
		case err != nil:
			return err
		}
		if _, ok := prog.(parser.Empty); ok {
			continue
		}
		if _, err := parser.Apply(list, prog); err != nil {
			failed++
			a.logger.Warn("could not apply line", "line", line, "err", err)
			a.logCandidates(err)
			continue
		}
		applied++
		a.logger.Debug("applied", "line", line, "instruction", prog)
	}

	if err := a.saveTasks(list); err != nil {
		return err
	}
	a.logger.Info("edit done", "applied", applied, "failed", failed)
	return nil
}

func (a *App) runExport(opts exportOptions) error {
	format, err := store.NormalizeFormat(opts.format)
	if err != nil {
		return err
	}
	list, err := a.loadTasks()
	if err != nil {
		return err
	}
	tasks := list.Tasks()
	render.SortByDue(tasks)

	if opts.stdout {
		return store.Export(a.Out, tasks, format)
	}
	var buf bytes.Buffer
	if err := store.Export(&buf, tasks, format); err != nil {
		return err
	}
	dir := opts.dir
	if strings.TrimSpace(dir) == "" {
		dir = a.cfg.ExportDir()
	}
	path, err := writeExportFile(dir, format, buf.Bytes())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = fmt.Fprintf(a.Out, "Wrote %s to: %s\n", strings.ToUpper(format), path)
	return err
}

func writeExportFile(dir, format string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name, err := store.ExportFileName(format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return path, nil
}
