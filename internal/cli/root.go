package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "today",
		Short: "A small tracker for what is due today",
		Long: `today keeps a list of tasks with optional due dates and shows the ones
that are due today, overdue, or due as soon as possible.

Run without a command on a terminal to open the interactive menu.`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return app.runMenu(cmd.Context())
			}
			return app.runToday(cmd.Context(), false)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.configDir, "config-dir", "", "directory holding config.toml")
	pf.StringVar(&app.flags.dataDir, "data-dir", "", "directory holding the task file")
	pf.StringVar(&app.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&app.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newAddCommand(app),
		newListCommand(app),
		newTodayCommand(app),
		newRemoveCommand(app),
		newEditCommand(app),
		newExportCommand(app),
		newConfigCommand(app),
	)
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: expected %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func newAddCommand(app *App) *cobra.Command {
	var opts addOptions
	cmd := &cobra.Command{
		Use:   "add [NAME...]",
		Short: "Add a task",
		Long: `Add a task. The name is taken from the arguments, or asked for when none
are given. On a terminal the due date is asked for unless --now or --due is
given. --due takes "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in UTC.`,
		Example: `  today add Call mom --due "2022-12-24 18:00"
  today add Pay rent --now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.args = args
			opts.dueSet = cmd.Flags().Changed("due")
			if opts.now && opts.dueSet {
				return usagef("add: --now and --due cannot be used together")
			}
			return app.runAdd(opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.now, "now", "n", false, "due as soon as possible")
	cmd.Flags().StringVarP(&opts.due, "due", "d", "", "due date")
	return cmd
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every task by due date",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runList()
		},
	}
}

func newTodayCommand(app *App) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show what is due today",
		Long: `Show the tasks that are overdue, due today, or due as soon as possible.
With --watch the view is redrawn whenever the task file changes.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runToday(cmd.Context(), watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep the view open and refresh it")
	return cmd
}

func newRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove the task whose id starts with ID",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runRemove(args[0])
		},
	}
}

func newEditCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Apply edit instructions read from stdin",
		Long: `Read one instruction per line from stdin and apply them in order.

  new <due> <name>
  <id> <due> <name>
  <id> edit <due> <name>
  <id> remove

<due> is "Now" or "YYYY-MM-DD HH:MM" in UTC and <id> is any unique prefix of
a task id. Lines that fail are reported and skipped.`,
		Example: `  echo 'new 2022-12-24 18:00 Call mom' | today edit`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runEdit(cmd.Context())
		},
	}
}

func newExportCommand(app *App) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as json, ndjson or yaml",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runExport(opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "json", "json, ndjson or yaml")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "output directory (default <data-dir>/exports)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write to stdout instead of a file")
	return cmd
}

func newConfigCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(app.Out, app.cfg.String())
			return err
		},
	}
}
