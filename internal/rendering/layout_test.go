package rendering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/types"
)

func sectionHeaders(doc Document) []string {
	var out []string
	for _, el := range doc.Elements {
		if el.Kind == ElemSectionHeader {
			out = append(out, el.Text)
		}
	}
	return out
}

func texts(doc Document) []string {
	out := make([]string, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		out = append(out, el.Text)
	}
	return out
}

func TestPlanEnhanced_FixedSectionOrder(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{
		Sections: types.ResumeSections{
			{Name: "SKILLS", Content: "x"},
			{Name: "EDUCATION", Content: "y"},
		},
	})

	assert.Equal(t, []string{"EDUCATION", "SKILLS"}, sectionHeaders(doc))
}

func TestPlanEnhanced_DropsUnlistedSections(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{
		Sections: types.ResumeSections{
			{Name: "AWARDS", Content: "Best intern"},
			{Name: "PROJECTS", Content: "Compiler"},
		},
	})

	assert.Equal(t, []string{"PROJECTS"}, sectionHeaders(doc))
	assert.NotContains(t, texts(doc), "Best intern")
}

func TestPlanEnhanced_Header(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{
		Contact: types.ContactDetails{Name: "Jane Doe", Email: "jane@example.com", Phone: "9876543210"},
		Date:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})

	require.GreaterOrEqual(t, len(doc.Elements), 4)
	assert.Equal(t, Element{Kind: ElemName, Text: "JANE DOE"}, doc.Elements[0])
	assert.Equal(t, Element{Kind: ElemContact, Text: "9876543210 | jane@example.com"}, doc.Elements[1])
	assert.Equal(t, ElemRule, doc.Elements[2].Kind)

	last := doc.Elements[len(doc.Elements)-1]
	assert.Equal(t, Element{Kind: ElemFooter, Text: "Updated Resume with Recommended Skills | 3/5/2024"}, last)
	assert.Equal(t, DocEnhancedResume, doc.Kind)
}

func TestPlanEnhanced_NoContactOmitsHeaderLines(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{})

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, ElemRule, doc.Elements[0].Kind)
	assert.Equal(t, ElemFooter, doc.Elements[1].Kind)
}

func TestPlanEnhanced_SkillsSectionGetsRecommendedBlock(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{
		Sections: types.ResumeSections{
			{Name: "SKILLS", Content: "Backend:\nGo, Python\n\nAcme Corporation"},
			{Name: "EXPERIENCE", Content: "Acme Corporation\n2020 – 2023\n• Built APIs"},
		},
		Missing: types.CategorySkills{
			{Category: "frontend", Skills: []string{"react", "typescript"}},
			{Category: "tools", Skills: []string{}},
			{Category: "Recommended", Skills: []string{"kubernetes"}},
		},
	})

	var body []Element
	for _, el := range doc.Elements {
		if el.Kind == ElemLine || el.Kind == ElemSkillList || el.Kind == ElemSectionHeader {
			body = append(body, el)
		}
	}

	assert.Equal(t, []Element{
		{Kind: ElemSectionHeader, Text: "EXPERIENCE"},
		{Kind: ElemLine, Style: StyleHeading, Text: "Acme Corporation"},
		{Kind: ElemLine, Style: StyleDate, Text: "2020 – 2023"},
		{Kind: ElemLine, Style: StyleBullet, Text: "• Built APIs"},
		{Kind: ElemSectionHeader, Text: "SKILLS"},
		{Kind: ElemLine, Style: StyleLabel, Text: "Backend:"},
		{Kind: ElemLine, Style: StyleBody, Text: "Go, Python"},
		{Kind: ElemLine, Style: StyleBody, Text: "Acme Corporation"},
		{Kind: ElemLine, Style: StyleLabel, Text: "Updated Skills (Recommended):"},
		{Kind: ElemLine, Style: StyleLabel, Text: "frontend:"},
		{Kind: ElemSkillList, Text: "react • typescript"},
		{Kind: ElemLine, Style: StyleLabel, Text: "Recommended:"},
		{Kind: ElemSkillList, Text: "kubernetes"},
	}, body)
}

func TestPlanEnhanced_NoSkillsSectionNoRecommendedBlock(t *testing.T) {
	doc := PlanEnhanced(EnhancedInput{
		Sections: types.ResumeSections{{Name: "EDUCATION", Content: "MIT 2020"}},
		Missing:  types.CategorySkills{{Category: "frontend", Skills: []string{"react"}}},
	})

	assert.NotContains(t, texts(doc), "Updated Skills (Recommended):")
	assert.NotContains(t, texts(doc), "react")
}

func TestPlanRecommendations(t *testing.T) {
	analysis := types.SkillAnalysis{
		DetectedSkills:   types.CategorySkills{{Category: "frontend", Skills: []string{"react"}}, {Category: "backend", Skills: []string{}}},
		TotalSkillsFound: 1,
		MissingSkills:    types.CategorySkills{{Category: "frontend", Skills: []string{"typescript", "next.js"}}},
		ProfileLevel:     types.LevelSenior,
	}

	doc := PlanRecommendations(analysis)

	assert.Equal(t, DocRecommendations, doc.Kind)
	assert.Equal(t, []string{
		"SKILL DEVELOPMENT ROADMAP",
		"Level: SENIOR",
		"",
		"You currently have 1 skills. To advance as a senior-level professional, develop 2 additional skills.",
		"SKILLS TO DEVELOP",
		"frontend:",
		"typescript • next.js",
		"YOUR CURRENT STRENGTHS",
		"frontend:",
		"react",
	}, texts(doc))
}
