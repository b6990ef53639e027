package utils

import (
	"regexp"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleWidth(s string) int {
	return len([]rune(ansiPattern.ReplaceAllString(s, "")))
}

func TestOneLiner(t *testing.T) {
	t.Setenv("NO_COLOR", "true")
	testCases := []struct {
		desc      string
		prefix    string
		s         string
		termWidth int
		want      string
	}{
		{desc: "fits", prefix: "> ", s: "hello", termWidth: 20, want: "> hello"},
		{desc: "newlines are escaped", prefix: "", s: "a\nb", termWidth: 20, want: `a\nb`},
		{desc: "middle is cut", prefix: "", s: "abcdefghijklmnopqrstuvwxyz", termWidth: 11, want: "abc ... xyz"},
		{desc: "too narrow for infix", prefix: "", s: "abcdefghij", termWidth: 4, want: "abcd"},
		{desc: "no room at all", prefix: "prefix", s: "abc", termWidth: 3, want: "prefix"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			testboil.FailTestIfDiff(t, OneLiner(tC.prefix, tC.s, "", tC.termWidth, 0), tC.want)
		})
	}
}

func TestOneLiner_ColoredPrefixDoesNotAffectWidth(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	prefix := "\x1b[31mPr\x1b[0m"
	out := OneLiner(prefix, "abcdefghijklmnopqrstuvwxyz", "", 10, 0)
	if got := visibleWidth(out); got != 10 {
		t.Fatalf("expected visible width 10, got %d (out=%q)", got, out)
	}
}
