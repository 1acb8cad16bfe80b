package watch

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options configures Run.
type Options struct {
	// File is the task file to watch.
	File string
	// Render writes the current view to w. It is called once per Rendering step.
	Render   func(ctx context.Context, w io.Writer) error
	In       io.Reader
	Out      io.Writer
	Interval time.Duration
	QuitKey  byte
	Logger   *log.Logger
}

// Run shows the live view until the user quits, the process is interrupted or
// the file watcher stops. The terminal is restored before Run returns.
func Run(ctx context.Context, opts Options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	files, err := NewFileWatcher(opts.File, opts.Logger)
	if err != nil {
		return err
	}

	screen := AcquireScreen(opts.Out)
	defer screen.Release()

	shutdown := make(chan struct{})
	var once sync.Once
	quit := func() { once.Do(func() { close(shutdown) }) }

	keys := &KeyListener{In: opts.In, Quit: opts.QuitKey}
	loop := &Loop{
		Changes:  files.Changes(),
		Shutdown: shutdown,
		Interval: opts.Interval,
		Logger:   opts.Logger,
		Render: func(ctx context.Context) error {
			var buf bytes.Buffer
			if err := opts.Render(ctx, &buf); err != nil {
				return err
			}
			return screen.Draw(buf.String())
		},
		OnState: func(s State) {
			if opts.Logger != nil {
				opts.Logger.Debug("watch", "state", s)
			}
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return files.Run(gctx)
	})
	if IsTerminal(opts.In) {
		g.Go(func() error {
			return keys.Listen(gctx, quit, func() {
				if err := InterruptSelf(); err != nil && opts.Logger != nil {
					opts.Logger.Warn("could not forward interrupt", "err", err)
				}
			})
		})
	} else if opts.Logger != nil {
		opts.Logger.Debug("input is not a terminal, quit key disabled")
	}
	g.Go(func() error {
		// The other units only stop once the loop is done.
		defer cancel()
		return loop.Run(gctx)
	})
	return g.Wait()
}
