package options

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Width is the terminal width of w less a margin, or fallback when w is not
// a terminal.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols < 20 {
		return fallback
	}
	return cols - 4
}
