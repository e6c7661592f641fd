package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DocumentKind names a generated document type. It is also the artifact name prefix.
type DocumentKind string

// Generated document kinds.
const (
	DocEnhancedResume  DocumentKind = "enhanced_resume"
	DocRecommendations DocumentKind = "skill_recommendations"
)

// ElementKind is the role of one laid-out element.
type ElementKind int

// Element kinds.
const (
	ElemName ElementKind = iota
	ElemTitle
	ElemContact
	ElemMeta
	ElemRule
	ElemSectionHeader
	ElemLine
	ElemSkillList
	ElemParagraph
	ElemFooter
)

// Element is one block of a laid-out document. Style applies to ElemLine only.
type Element struct {
	Kind  ElementKind
	Style Style
	Text  string
}

// Margins are page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Document is a laid-out document ready to be written.
type Document struct {
	Kind     DocumentKind
	Title    string
	Margins  Margins
	Elements []Element
}

// SectionOrder is the order sections appear in an enhanced resume. Sections not
// listed here are left out.
var SectionOrder = []string{
	parsing.SectionEducation,
	parsing.SectionExperience,
	parsing.SectionSkills,
	parsing.SectionProjects,
	parsing.SectionCertifications,
	parsing.SectionVolunteer,
	parsing.SectionAchievements,
	parsing.SectionLanguages,
}

const (
	recommendedHeading = "Updated Skills (Recommended):"
	skillSeparator     = " • "
	footerDateLayout   = "1/2/2006"
)

// EnhancedInput is everything needed to lay out an enhanced resume.
type EnhancedInput struct {
	Contact  types.ContactDetails
	Sections types.ResumeSections
	Missing  types.CategorySkills
	Date     time.Time
}

func (d *Document) add(kind ElementKind, text string) {
	d.Elements = append(d.Elements, Element{Kind: kind, Text: text})
}

func (d *Document) addLine(style Style, text string) {
	d.Elements = append(d.Elements, Element{Kind: ElemLine, Style: style, Text: text})
}

// addCategories lists each non-empty category as a label and its skills.
func (d *Document) addCategories(c types.CategorySkills) {
	for _, e := range c {
		if len(e.Skills) == 0 {
			continue
		}
		d.addLine(StyleLabel, e.Category+":")
		d.add(ElemSkillList, strings.Join(e.Skills, skillSeparator))
	}
}

// PlanEnhanced lays out the resume with the missing skills added to its SKILLS section.
func PlanEnhanced(in EnhancedInput) Document {
	doc := Document{
		Kind:    DocEnhancedResume,
		Title:   "Enhanced Resume",
		Margins: Margins{Top: 40, Bottom: 40, Left: 50, Right: 50},
	}

	if in.Contact.Name != "" {
		doc.add(ElemName, strings.ToUpper(in.Contact.Name))
	}
	if contact := in.Contact.ContactLine(); len(contact) > 0 {
		doc.add(ElemContact, strings.Join(contact, " | "))
	}
	doc.add(ElemRule, "")

	for _, name := range SectionOrder {
		content, ok := in.Sections.Get(name)
		if !ok {
			continue
		}
		doc.add(ElemSectionHeader, name)

		rules := SectionRules
		if name == parsing.SectionSkills {
			rules = SkillsRules
		}
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			doc.addLine(Classify(rules, line), line)
		}

		if name == parsing.SectionSkills {
			doc.addLine(StyleLabel, recommendedHeading)
			doc.addCategories(in.Missing)
		}
	}

	doc.add(ElemFooter, "Updated Resume with Recommended Skills | "+in.Date.Format(footerDateLayout))
	return doc
}

// PlanRecommendations lays out the skill development report for an analysis.
func PlanRecommendations(analysis types.SkillAnalysis) Document {
	doc := Document{
		Kind:    DocRecommendations,
		Title:   "Skill Development Roadmap",
		Margins: Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
	}

	doc.add(ElemTitle, "SKILL DEVELOPMENT ROADMAP")
	doc.add(ElemMeta, "Level: "+strings.ToUpper(string(analysis.ProfileLevel)))
	doc.add(ElemRule, "")
	doc.add(ElemParagraph, skills.Summary(analysis))

	doc.add(ElemSectionHeader, "SKILLS TO DEVELOP")
	doc.addCategories(analysis.MissingSkills)

	doc.add(ElemSectionHeader, "YOUR CURRENT STRENGTHS")
	doc.addCategories(analysis.DetectedSkills)
	return doc
}
