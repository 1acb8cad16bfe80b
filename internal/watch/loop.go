// Package watch keeps the today view on screen and redraws it when the task
// file changes, when the date may have rolled over, or not at all once the
// user quits.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultInterval bounds how long the loop waits for a change before it
// redraws anyway.
const DefaultInterval = 300 * time.Millisecond

type State int

const (
	Rendering State = iota
	Waiting
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Rendering:
		return "rendering"
	case Waiting:
		return "waiting"
	case ShuttingDown:
		return "shutting down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Loop redraws the view until it is told to stop.
//
// Changes carries file change notifications; a closed Changes channel means
// the watcher is gone and the loop shuts down. Closing Shutdown, or cancelling
// the context, stops the loop at its next wake. A render in progress is never
// interrupted.
type Loop struct {
	Render   func(ctx context.Context) error
	Changes  <-chan struct{}
	Shutdown <-chan struct{}
	Interval time.Duration
	Logger   *log.Logger
	// OnState, if set, is called on every state entry.
	OnState func(State)
}

// Run drives the loop. It returns nil on a normal shutdown and the render
// error if a render fails.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	state := Rendering
	for {
		l.enter(state)
		switch state {
		case Rendering:
			if err := l.Render(ctx); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			state = Waiting
		case Waiting:
			timer.Reset(interval)
			state = l.wait(ctx, timer.C)
		case ShuttingDown:
			return nil
		}
	}
}

func (l *Loop) wait(ctx context.Context, timeout <-chan time.Time) State {
	select {
	case <-l.Shutdown:
		return ShuttingDown
	case <-ctx.Done():
		return ShuttingDown
	case _, ok := <-l.Changes:
		if !ok {
			l.debug("change notifications stopped")
			return ShuttingDown
		}
		l.debug("task file changed")
	case <-timeout:
	}
	// A shutdown that raced with the wake still wins.
	select {
	case <-l.Shutdown:
		return ShuttingDown
	case <-ctx.Done():
		return ShuttingDown
	default:
		return Rendering
	}
}

func (l *Loop) enter(s State) {
	if l.OnState != nil {
		l.OnState(s)
	}
}

func (l *Loop) debug(msg string) {
	if l.Logger != nil {
		l.Logger.Debug(msg)
	}
}
