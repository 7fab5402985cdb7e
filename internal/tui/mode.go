package tui

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// Interactive reports whether the editor can take over the terminal: both
// ends must be a tty and TERM must support cursor control.
func Interactive(in io.Reader, out io.Writer) bool {
	return isTerminal(in) && isTerminal(out) && capableTerm()
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func capableTerm() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && !strings.EqualFold(term, "dumb")
}
