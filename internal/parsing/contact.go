package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	nameLine      = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	tenDigits     = regexp.MustCompile(`\d{10}`)
	phonePattern  = regexp.MustCompile(`(\+91|0)?[\s\-]?(\d{10}|\d{3}[\s\-]?\d{3}[\s\-]?\d{4})`)
	urlPattern    = regexp.MustCompile(`(https?://)?[\w.-]+\.\w+`)
	githubPattern = regexp.MustCompile(`(?i)(github\.com/[\w\-]+|github/[\w\-]+)`)
	linkedinURL   = regexp.MustCompile(`(?i)(linkedin\.com/in/[\w\-]+|linkedin/[\w\-]+)`)
)

// ExtractContact scans every non-empty line once and fills each contact field from
// the first line that yields a value for it. Missing fields stay empty.
//
// A line is a candidate for a URL field when it mentions the field's keyword
// ("portfolio", "github" or "linkedin"); the value is then the first URL-shaped
// substring of that line. A candidate line without such a substring leaves the
// field open for later lines.
func ExtractContact(text string) types.ContactDetails {
	var c types.ContactDetails

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if c.Name == "" && isNameLine(line) {
			c.Name = line
		}
		if c.Email == "" && strings.Contains(line, "@") {
			c.Email = emailPattern.FindString(line)
		}
		if c.Phone == "" && (strings.Contains(line, "+91") || tenDigits.MatchString(line)) {
			c.Phone = strings.TrimSpace(phonePattern.FindString(line))
		}
		if c.Portfolio == "" && strings.Contains(lower, "portfolio") {
			c.Portfolio = urlPattern.FindString(line)
		}
		if c.GitHub == "" && strings.Contains(lower, "github") {
			c.GitHub = githubPattern.FindString(line)
		}
		if c.LinkedIn == "" && strings.Contains(lower, "linkedin") {
			c.LinkedIn = linkedinURL.FindString(line)
		}
	}
	return c
}

func isNameLine(line string) bool {
	n := len(line)
	return n > 3 && n < 50 &&
		!strings.Contains(line, "@") &&
		!strings.Contains(line, "http") &&
		nameLine.MatchString(line)
}
