// Package sanitize cleans student and model text before it is scored or
// shown: typographic punctuation is folded to ASCII, everything else outside
// ASCII is dropped, runs of dots and whitespace are collapsed, and long text
// is cut on a word boundary.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const ellipsis = "..."

var (
	multiDot   = regexp.MustCompile(`\.{3,}`)
	multiSpace = regexp.MustCompile(`\s{2,}`)
)

// Text cleans s and, when maxLen > 0, truncates it so the result (including
// the trailing ellipsis) is at most maxLen bytes. Text is idempotent:
// Text(Text(s, n), n) == Text(s, n).
func Text(s string, maxLen int) string {
	t := fold(strings.TrimSpace(s))
	t = multiDot.ReplaceAllString(t, ellipsis)
	t = strings.TrimSpace(multiSpace.ReplaceAllString(t, " "))

	if maxLen > 0 && len(t) > maxLen {
		t = truncate(t, maxLen)
	}
	return t
}

// Clean is Text without a length limit.
func Clean(s string) string {
	return Text(s, 0)
}

// IsBlank reports whether s has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// fold maps curly quotes and dashes to ASCII and strips the remaining
// non-ASCII runes. A fresh chain is built per call because transform chains
// keep internal buffers.
func fold(s string) string {
	t := transform.Chain(
		runes.Map(asciiPunct),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	// runes transformers do not fail on string input.
	out, _, _ := transform.String(t, s)
	return out
}

func asciiPunct(r rune) rune {
	switch r {
	case '‘', '’':
		return '\''
	case '“', '”':
		return '"'
	case '–', '—':
		return '-'
	}
	return r
}

// truncate cuts t (already ASCII) on the last space that keeps room for the
// ellipsis. Trailing dots are trimmed first so a second pass through Text
// does not collapse them into the ellipsis.
func truncate(t string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		return t[:maxLen]
	}
	cut := t[:maxLen-len(ellipsis)]
	if i := strings.LastIndexByte(cut, ' '); i >= 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " \t\r\n.")
	return cut + ellipsis
}
