package skills

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// isoMillis is ISO-8601 with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// RecommendedCategory is the missing-skills category holding job description gaps.
const RecommendedCategory = "Recommended"

// BuildAnalysis compares detected skills with the recommendations for level.
// Every category of the level's table gets a coverage entry and a missing list,
// even when nothing was detected for it. Detected categories outside the table
// stay in DetectedSkills but produce no missing entry. Unknown levels use mid.
func BuildAnalysis(t *Taxonomy, detected types.CategorySkills, level string) types.SkillAnalysis {
	table, resolved := t.Recommended(level)

	analysis := types.SkillAnalysis{
		DetectedSkills:   detected.Clone(),
		TotalSkillsFound: detected.Total(),
		MissingSkills:    make(types.CategorySkills, 0, len(table)),
		Recommendations:  make(types.Recommendations, 0, len(table)),
		ProfileLevel:     resolved,
	}

	for _, entry := range table {
		found, _ := detected.Get(entry.Category)
		if found == nil {
			found = []string{}
		}
		analysis.MissingSkills = append(analysis.MissingSkills, types.CategoryEntry{
			Category: entry.Category,
			Skills:   Missing(entry.Skills, found),
		})
		analysis.Recommendations = append(analysis.Recommendations, types.CategoryRecommendation{
			Category:    entry.Category,
			Recommended: append([]string{}, entry.Skills...),
			Detected:    append([]string{}, found...),
			Coverage:    fmt.Sprintf("%d/%d", len(found), len(entry.Skills)),
		})
	}
	return analysis
}

// WithJobGaps returns a copy of analysis whose missing skills gain a
// RecommendedCategory entry listing skills the job asks for but the resume lacks.
// The analysis is returned unchanged when gaps is empty.
func WithJobGaps(analysis types.SkillAnalysis, gaps []string) types.SkillAnalysis {
	if len(gaps) == 0 {
		return analysis
	}
	out := analysis
	out.MissingSkills = analysis.MissingSkills.Clone()
	out.MissingSkills.Set(RecommendedCategory, append([]string{}, gaps...))
	return out
}

// BuildReport produces the recommendations record for an analysis.
func BuildReport(analysis types.SkillAnalysis, now time.Time) types.SkillsReport {
	return types.SkillsReport{
		Timestamp:    now.UTC().Format(isoMillis),
		ProfileLevel: analysis.ProfileLevel,
		Summary: types.ReportSummary{
			TotalSkillsFound:   analysis.TotalSkillsFound,
			TotalSkillsToLearn: analysis.MissingSkills.Total(),
		},
		DetectedSkills: analysis.DetectedSkills.Clone(),
		MissingSkills:  analysis.MissingSkills.Clone(),
	}
}

// Summary is the one-paragraph headline of a recommendation report.
func Summary(analysis types.SkillAnalysis) string {
	return fmt.Sprintf("You currently have %d skills. To advance as a %s-level professional, develop %d additional skills.",
		analysis.TotalSkillsFound, analysis.ProfileLevel, analysis.MissingSkills.Total())
}
