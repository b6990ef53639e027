package utils

import (
	"fmt"
	"io"
	"strings"
)

// ClearTermTo clears upTo lines above the cursor, along with the current line, and
// leaves the cursor at the start of the current line.
func ClearTermTo(w io.Writer, termWidth, upTo int) {
	clearLine := strings.Repeat(" ", termWidth)
	// Move cursor up line by line and clear the line
	for upTo > 0 {
		fmt.Fprintf(w, "\r%v", clearLine)
		fmt.Fprintf(w, "\033[%dA", 1)
		upTo--
	}
	fmt.Fprintf(w, "\r%v", clearLine)
	fmt.Fprint(w, "\r")
}

// ShortenedOutput returns s cut to its first maxRunes runes followed by '...', or
// s as is if it isn't longer than that.
func ShortenedOutput(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
