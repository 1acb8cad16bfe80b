package watch

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

// recorder collects state entries and render calls from a Loop.
type recorder struct {
	mu      sync.Mutex
	states  []State
	renders chan struct{}
}

func newRecorder() *recorder {
	return &recorder{renders: make(chan struct{}, 100)}
}

func (r *recorder) onState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) render(context.Context) error {
	r.renders <- struct{}{}
	return nil
}

func (r *recorder) snapshot() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.states)
}

func waitRender(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.renders:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a render")
	}
}

func runLoop(ctx context.Context, t *testing.T, l *Loop) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
		return nil
	}
}

func TestLoopRendersOnChangeAndStopsOnShutdown(t *testing.T) {
	rec := newRecorder()
	changes := make(chan struct{}, 1)
	shutdown := make(chan struct{})
	l := &Loop{
		Render:   rec.render,
		Changes:  changes,
		Shutdown: shutdown,
		Interval: time.Hour,
		OnState:  rec.onState,
	}
	done := runLoop(context.Background(), t, l)

	waitRender(t, rec)
	changes <- struct{}{}
	waitRender(t, rec)

	close(shutdown)
	if err := waitDone(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []State{Rendering, Waiting, Rendering, Waiting, ShuttingDown}
	if got := rec.snapshot(); !slices.Equal(got, want) {
		t.Fatalf("got states %v, want %v", got, want)
	}
}

func TestLoopRendersOnTimeout(t *testing.T) {
	rec := newRecorder()
	shutdown := make(chan struct{})
	l := &Loop{
		Render:   rec.render,
		Changes:  make(chan struct{}),
		Shutdown: shutdown,
		Interval: 5 * time.Millisecond,
	}
	done := runLoop(context.Background(), t, l)
	for range 3 {
		waitRender(t, rec)
	}
	close(shutdown)
	if err := waitDone(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoopStopsWhenChangesClose(t *testing.T) {
	rec := newRecorder()
	changes := make(chan struct{})
	close(changes)
	l := &Loop{
		Render:   rec.render,
		Changes:  changes,
		Interval: time.Hour,
		OnState:  rec.onState,
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []State{Rendering, Waiting, ShuttingDown}
	if got := rec.snapshot(); !slices.Equal(got, want) {
		t.Fatalf("got states %v, want %v", got, want)
	}
}

func TestLoopShutdownWinsOverPendingChange(t *testing.T) {
	rec := newRecorder()
	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	shutdown := make(chan struct{})
	close(shutdown)
	l := &Loop{
		Render:   rec.render,
		Changes:  changes,
		Shutdown: shutdown,
		Interval: time.Hour,
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(rec.renders); n != 1 {
		t.Fatalf("expected only the initial render, got %d", n)
	}
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{Render: rec.render, Changes: make(chan struct{}), Interval: time.Hour}
	done := runLoop(ctx, t, l)
	waitRender(t, rec)
	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoopReturnsRenderError(t *testing.T) {
	boom := errors.New("boom")
	l := &Loop{
		Render:  func(context.Context) error { return boom },
		Changes: make(chan struct{}),
	}
	if err := l.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	if Rendering.String() != "rendering" || ShuttingDown.String() != "shutting down" || State(9).String() != "state(9)" {
		t.Fatalf("unexpected state names")
	}
}
