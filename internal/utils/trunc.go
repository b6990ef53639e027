package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiEscapeSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const truncInfix = " ... "

func visibleRuneCount(s string) int {
	return utf8.RuneCountInString(ansiEscapeSeq.ReplaceAllString(s, ""))
}

// OneLiner returns prefix followed by s, squashed onto one line which fits within
// termWidth. If s is too long, its middle is replaced by ' ... '. The prefix is
// colored with prefixColor, and may itself contain ANSI sequences which won't
// count towards the width.
func OneLiner(prefix, s, prefixColor string, termWidth, padding int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")

	remainingWidth := max(termWidth-visibleRuneCount(prefix)-padding, 0)
	r := []rune(s)
	infixLen := utf8.RuneCountInString(truncInfix)
	var fitted string
	switch {
	case len(r) <= remainingWidth:
		fitted = s
	case remainingWidth <= infixLen:
		fitted = string(r[:remainingWidth])
	default:
		avail := remainingWidth - infixLen
		startLen := avail / 2
		endLen := avail - startLen
		fitted = string(r[:startLen]) + Colorize(ThemeSecondaryColor(), truncInfix) + string(r[len(r)-endLen:])
	}
	return Colorize(prefixColor, prefix) + fitted
}
