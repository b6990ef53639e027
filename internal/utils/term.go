package utils

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// TermWidth returns the current terminal width.
//
// In CI / tests there is often no TTY attached, so the size lookup fails. In that
// case we fall back to the value from $COLUMNS if present, or else 80.
func TermWidth() (int, error) {
	if c := os.Getenv("COLUMNS"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			return n, nil
		}
	}
	w, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || w <= 0 {
		return 80, nil
	}
	return w, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
