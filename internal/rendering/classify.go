package rendering

import (
	"regexp"
	"strings"
)

// Style is the typographic treatment chosen for one line of section text.
type Style int

// Line styles.
const (
	StyleBody Style = iota
	StyleHeading
	StyleDate
	StyleLabel
	StyleBullet
)

func (s Style) String() string {
	switch s {
	case StyleHeading:
		return "heading"
	case StyleDate:
		return "date"
	case StyleLabel:
		return "label"
	case StyleBullet:
		return "bullet"
	default:
		return "body"
	}
}

// Rule assigns Style to lines for which Match returns true.
type Rule struct {
	Name  string
	Style Style
	Match func(line string) bool
}

var (
	headingPattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9\s&,\-.]+$`)
	yearPattern    = regexp.MustCompile(`\d{4}`)
	labelPattern   = regexp.MustCompile(`^[A-Za-z\s&]+:$`)
	bulletPattern  = regexp.MustCompile(`^[•◦\-]\s`)
)

func isHeading(line string) bool {
	return len(line) > 5 && len(line) < 100 &&
		!strings.Contains(line, ":") &&
		headingPattern.MatchString(line)
}

func isDate(line string) bool {
	return yearPattern.MatchString(line) || strings.ContainsAny(line, "–—")
}

// SectionRules classify lines of every section except SKILLS. They are tried in
// order and the first match wins; unmatched lines are StyleBody.
var SectionRules = []Rule{
	{Name: "heading", Style: StyleHeading, Match: isHeading},
	{Name: "date", Style: StyleDate, Match: isDate},
	{Name: "label", Style: StyleLabel, Match: labelPattern.MatchString},
	{Name: "bullet", Style: StyleBullet, Match: bulletPattern.MatchString},
}

// SkillsRules classify lines of the SKILLS section.
var SkillsRules = []Rule{
	{Name: "label", Style: StyleLabel, Match: labelPattern.MatchString},
}

// Classify returns the style of the first rule matching the trimmed line.
func Classify(rules []Rule, line string) Style {
	line = strings.TrimSpace(line)
	for _, r := range rules {
		if r.Match(line) {
			return r.Style
		}
	}
	return StyleBody
}
