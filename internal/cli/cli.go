package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amirbrooks/today/internal/config"
	"github.com/amirbrooks/today/internal/logging"
	"github.com/amirbrooks/today/internal/prompt"
	"github.com/amirbrooks/today/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// dataError marks failures to read or write the task file. They are never
// the caller's fault, even when the file content is invalid.
type dataError struct{ err error }

func (e dataError) Error() string { return e.err.Error() }
func (e dataError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// App holds what every command needs. Config, logger and repository are set
// up once flags have been parsed.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	Now func() time.Time

	cfg    config.Config
	logger *log.Logger
	repo   store.Repository
	flags  globalFlags
}

type globalFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	noColor   bool
}

func Run(args []string) int {
	return Execute(context.Background(), args, os.Stdin, os.Stdout, os.Stderr)
}

// Execute runs the command line args with the given streams and returns the
// process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := &App{In: in, Out: out, Err: errOut, Now: time.Now, logger: logging.Discard()}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(errOut, "today:", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	var (
		usage usageError
		data  dataError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &data):
		return ExitInternal
	case errors.As(err, &usage), errors.Is(err, store.ErrInvalid), errors.Is(err, prompt.ErrAborted):
		return ExitUsage
	case errors.Is(err, store.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, store.ErrConflict):
		return ExitConflict
	default:
		return ExitInternal
	}
}

// setup resolves configuration from flags, env and files.
func (a *App) setup(cmd *cobra.Command) error {
	var flags config.Partial
	if cmd.Flags().Changed("config-dir") {
		flags.ConfigDir = &a.flags.configDir
	}
	if cmd.Flags().Changed("data-dir") {
		flags.DataDir = &a.flags.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		flags.LogLevel = &a.flags.logLevel
	}
	if a.flags.noColor {
		noColor := false
		flags.Color = &noColor
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return usageError{err: err}
	}
	a.cfg = cfg

	opts := logging.DefaultOptions()
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Color = cfg.Color && isTerminal(a.Err)
	a.logger = logging.New(a.Err, opts)
	a.repo = store.NewJSONRepository(cfg.DataFile())
	a.logger.Debug("configuration loaded", "config", cfg.ConfigFile(), "data", cfg.DataFile())
	return nil
}

// loadTasks reads the task file into a fresh list.
func (a *App) loadTasks() (*store.TaskList, error) {
	tasks, err := a.repo.Load()
	if err != nil {
		return nil, dataError{err: err}
	}
	list := store.NewTaskList()
	list.Extend(tasks)
	return list, nil
}

func (a *App) saveTasks(list *store.TaskList) error {
	if err := a.repo.Save(list.Tasks()); err != nil {
		return dataError{err: err}
	}
	return nil
}

func (a *App) terminal() prompt.Terminal {
	return prompt.Terminal{In: a.In, Out: a.Out}
}

// interactive reports whether both ends are attached to a terminal.
func (a *App) interactive() bool {
	return isTerminal(a.In) && isTerminal(a.Out)
}

func (a *App) color() bool {
	return a.cfg.Color && isTerminal(a.Out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
