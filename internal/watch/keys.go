package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

const (
	DefaultQuitKey byte = 'q'
	// ctrlC is what Ctrl-C produces once the terminal is in raw mode.
	ctrlC byte = 0x03
)

// KeyListener reads single key presses. When In is a terminal it is switched
// to raw mode for the duration of Listen and always restored afterwards.
type KeyListener struct {
	In        io.Reader
	Quit      byte
	Interrupt byte
}

// Listen calls shutdown and returns when the quit key is pressed. The
// interrupt key calls interrupt and keeps listening. Listen also returns when
// ctx is done or In reaches EOF.
func (k *KeyListener) Listen(ctx context.Context, shutdown, interrupt func()) error {
	quit, intr := k.Quit, k.Interrupt
	if quit == 0 {
		quit = DefaultQuitKey
	}
	if intr == 0 {
		intr = ctrlC
	}

	if IsTerminal(k.In) {
		fd := int(k.In.(*os.File).Fd())
		prev, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		defer term.Restore(fd, prev)
	}

	r, err := cancelreader.NewReader(k.In)
	if err != nil {
		return fmt.Errorf("open keyboard reader: %w", err)
	}
	defer r.Close()
	stop := context.AfterFunc(ctx, func() { r.Cancel() })
	defer stop()

	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case quit:
				shutdown()
				return nil
			case intr:
				interrupt()
			}
		}
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read keyboard: %w", err)
		}
	}
}

// IsTerminal reports whether r is a terminal device.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// InterruptSelf sends an interrupt to this process, the same way Ctrl-C
// would outside raw mode.
func InterruptSelf() error {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	return p.Signal(os.Interrupt)
}
