package ingestion

import (
	"regexp"
	"strings"
)

var (
	nonSemanticChars = regexp.MustCompile(`[^\w\s\v\p{Z}\x{FEFF}.,-]`)
	whitespaceRuns   = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
)

// Normalize produces the canonical form of text used for skill matching:
// lower-cased, characters other than word characters, whitespace, '.', ',' and '-'
// removed, whitespace runs collapsed to one space and the ends trimmed.
// Whitespace includes Unicode spaces such as U+00A0 and U+2003.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = nonSemanticChars.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
