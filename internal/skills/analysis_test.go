package skills

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func singleCategoryTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := NewTaxonomy("test",
		[]Category{{Name: "x", Keywords: []string{"a", "b", "c"}}, {Name: "y", Keywords: []string{"d"}}},
		map[types.ProfileLevel]types.CategorySkills{
			types.LevelMid: {{Category: "x", Skills: []string{"a", "b", "c"}}},
		})
	require.NoError(t, err)
	return tax
}

func TestBuildAnalysis_Coverage(t *testing.T) {
	tax := singleCategoryTaxonomy(t)
	detected := types.CategorySkills{{Category: "x", Skills: []string{"A"}}}

	analysis := BuildAnalysis(tax, detected, "mid")

	rec, ok := analysis.Recommendations.Get("x")
	require.True(t, ok)
	assert.Equal(t, "1/3", rec.Coverage)
	assert.Equal(t, []string{"A"}, rec.Detected)
	assert.Equal(t, []string{"a", "b", "c"}, rec.Recommended)

	missing, _ := analysis.MissingSkills.Get("x")
	assert.Equal(t, []string{"b", "c"}, missing)
	assert.Equal(t, 1, analysis.TotalSkillsFound)
	assert.Equal(t, types.LevelMid, analysis.ProfileLevel)
}

func TestBuildAnalysis_EveryTableCategoryPresent(t *testing.T) {
	analysis := BuildAnalysis(DefaultTaxonomy(), nil, "junior")

	assert.Equal(t, []string{"frontend", "backend", "databases", "devops", "tools", "other"}, analysis.MissingSkills.Categories())
	rec, ok := analysis.Recommendations.Get("devops")
	require.True(t, ok)
	assert.Equal(t, "0/2", rec.Coverage)
	assert.Equal(t, []string{}, rec.Detected)
	assert.Equal(t, 0, analysis.TotalSkillsFound)
}

func TestBuildAnalysis_CategoryOutsideTable(t *testing.T) {
	tax := singleCategoryTaxonomy(t)
	detected := types.CategorySkills{
		{Category: "x", Skills: []string{}},
		{Category: "y", Skills: []string{"d"}},
	}

	analysis := BuildAnalysis(tax, detected, "mid")

	_, ok := analysis.MissingSkills.Get("y")
	assert.False(t, ok)
	_, ok = analysis.Recommendations.Get("y")
	assert.False(t, ok)
	got, _ := analysis.DetectedSkills.Get("y")
	assert.Equal(t, []string{"d"}, got)
	assert.Equal(t, 1, analysis.TotalSkillsFound)
}

func TestBuildAnalysis_UnknownLevelUsesMid(t *testing.T) {
	analysis := BuildAnalysis(DefaultTaxonomy(), nil, "wizard")
	assert.Equal(t, types.LevelMid, analysis.ProfileLevel)

	missing, _ := analysis.MissingSkills.Get("frontend")
	assert.Equal(t, []string{"react", "typescript", "tailwind", "next.js"}, missing)
}

func TestBuildAnalysis_DoesNotAliasDetected(t *testing.T) {
	detected := types.CategorySkills{{Category: "x", Skills: []string{"a"}}}
	analysis := BuildAnalysis(singleCategoryTaxonomy(t), detected, "mid")

	detected[0].Skills[0] = "changed"
	got, _ := analysis.DetectedSkills.Get("x")
	assert.Equal(t, []string{"a"}, got)
}

func TestWithJobGaps(t *testing.T) {
	analysis := BuildAnalysis(singleCategoryTaxonomy(t), nil, "mid")

	enhanced := WithJobGaps(analysis, []string{"kubernetes"})
	gaps, ok := enhanced.MissingSkills.Get(RecommendedCategory)
	require.True(t, ok)
	assert.Equal(t, []string{"kubernetes"}, gaps)

	_, ok = analysis.MissingSkills.Get(RecommendedCategory)
	assert.False(t, ok, "original analysis must not change")

	same := WithJobGaps(analysis, nil)
	_, ok = same.MissingSkills.Get(RecommendedCategory)
	assert.False(t, ok)
}

func TestBuildReport(t *testing.T) {
	detected := types.CategorySkills{{Category: "x", Skills: []string{"a"}}}
	analysis := BuildAnalysis(singleCategoryTaxonomy(t), detected, "mid")
	now := time.Date(2024, 3, 5, 10, 30, 0, 123e6, time.UTC)

	report := BuildReport(analysis, now)
	assert.Equal(t, "2024-03-05T10:30:00.123Z", report.Timestamp)
	assert.Equal(t, types.LevelMid, report.ProfileLevel)
	assert.Equal(t, 1, report.Summary.TotalSkillsFound)
	assert.Equal(t, 2, report.Summary.TotalSkillsToLearn)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"missingSkills":{"x":["b","c"]}`)
}

func TestSummary(t *testing.T) {
	detected := types.CategorySkills{{Category: "x", Skills: []string{"a"}}}
	analysis := BuildAnalysis(singleCategoryTaxonomy(t), detected, "principal")

	assert.Equal(t,
		"You currently have 1 skills. To advance as a mid-level professional, develop 2 additional skills.",
		Summary(analysis))
}

func TestEndToEnd_ResumeAgainstJobDescription(t *testing.T) {
	tax := DefaultTaxonomy()
	d := NewDetector(tax)

	resume := d.Detect(ingestion.Normalize("Experienced with React, Node.js and MongoDB."))
	job := d.Detect(ingestion.Normalize("We need React, Python and Docker skills."))

	result, warnings := Compare(FromGrouped(resume), FromGrouped(job))
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"react"}, result.MatchedSkills)
	assert.ElementsMatch(t, []string{"python", "docker"}, result.MissingSkills)
	assert.Equal(t, 3, result.TotalJobSkills)
	assert.Equal(t, 33, result.MatchPercentage)
}
