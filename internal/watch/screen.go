package watch

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Screen owns the terminal while the view is live: alternate screen, hidden
// cursor. Release gives both back and must run on every exit path.
type Screen struct {
	out *termenv.Output
}

func AcquireScreen(w io.Writer) *Screen {
	out := termenv.NewOutput(w)
	out.AltScreen()
	out.HideCursor()
	return &Screen{out: out}
}

func (s *Screen) Release() {
	s.out.ShowCursor()
	s.out.ExitAltScreen()
}

// Draw replaces the screen contents with text. Line feeds become CRLF because
// raw mode turns off output post-processing.
func (s *Screen) Draw(text string) error {
	s.out.ClearScreen()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	_, err := io.WriteString(s.out, strings.ReplaceAll(text, "\n", "\r\n"))
	return err
}
