// Package parsing recovers resume structure from extracted plain text:
// section blocks and contact details.
package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Section headings recognised in resume text.
const (
	SectionEducation      = "EDUCATION"
	SectionExperience     = "EXPERIENCE"
	SectionSkills         = "SKILLS"
	SectionProjects       = "PROJECTS"
	SectionCertifications = "CERTIFICATIONS"
	SectionVolunteer      = "VOLUNTEER"
	SectionAchievements   = "ACHIEVEMENTS"
	SectionLanguages      = "LANGUAGES"
	SectionAwards         = "AWARDS"
)

// SectionKeywords lists every heading keyword the parser recognises.
var SectionKeywords = []string{
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionVolunteer,
	SectionAchievements,
	SectionLanguages,
	SectionAwards,
}

var sectionHeading = regexp.MustCompile(`(?i)^(` + strings.Join(SectionKeywords, "|") + `)`)

// HeadingKeyword reports the section keyword a line starts with. The match is a
// case-insensitive prefix on the trimmed line, so "Skills & Tools" is SKILLS.
func HeadingKeyword(line string) (string, bool) {
	m := sectionHeading.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// ParseSections groups resume lines under the heading that precedes them.
// Lines before the first heading belong to no section; that block is the contact
// header, read separately by ExtractContact. Body lines are kept verbatim,
// including blank ones, and each block is trimmed as a whole. A heading followed
// by nothing but blank lines yields no section. When a heading repeats, the later
// block replaces the earlier content but the section keeps its first position.
func ParseSections(text string) types.ResumeSections {
	var (
		sections types.ResumeSections
		current  string
		buffer   []string
	)

	flush := func() {
		if current == "" || len(buffer) == 0 {
			return
		}
		if content := strings.TrimSpace(strings.Join(buffer, "\n")); content != "" {
			sections.Set(current, content)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if keyword, ok := HeadingKeyword(line); ok {
			flush()
			current = keyword
			buffer = buffer[:0]
			continue
		}
		if current != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	return sections
}
