// Package observability sets up structured logging and provides formatted output
// utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets followed by a remainder count.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintMatch outputs the resume versus job description comparison.
func (p *Printer) PrintMatch(match types.MatchResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match:    %d%% (%d of %d job skills)\n\n",
		match.MatchPercentage, len(match.MatchedSkills), match.TotalJobSkills)

	if len(match.MatchedSkills) > 0 {
		sb.WriteString("Matched:\n")
		writeList(&sb, match.MatchedSkills, maxItemsToShow)
	}
	if len(match.MissingSkills) > 0 {
		if len(match.MatchedSkills) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Missing:\n")
		writeList(&sb, match.MissingSkills, maxItemsToShow)
	}

	p.printBox("JOB DESCRIPTION MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillAnalysis outputs per-category coverage of the level's recommendations.
func (p *Printer) PrintSkillAnalysis(analysis types.SkillAnalysis) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Level:    %s\n", analysis.ProfileLevel)
	fmt.Fprintf(&sb, "Found:    %d skills\n", analysis.TotalSkillsFound)
	fmt.Fprintf(&sb, "To learn: %d skills\n", analysis.MissingSkills.Total())

	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(&sb, "\n%-12s %s\n", rec.Category, rec.Coverage)
		if missing, ok := analysis.MissingSkills.Get(rec.Category); ok && len(missing) > 0 {
			fmt.Fprintf(&sb, "  missing: %s\n", strings.Join(missing, ", "))
		}
	}
	if gaps, ok := analysis.MissingSkills.Get(skills.RecommendedCategory); ok && len(gaps) > 0 {
		sb.WriteString("\nFrom the job description:\n")
		writeList(&sb, gaps, maxItemsToShow)
	}

	p.printBox("SKILL ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs a recommendations record.
func (p *Printer) PrintReport(report *types.SkillsReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated: %s\n", report.Timestamp)
	fmt.Fprintf(&sb, "Level:     %s\n", report.ProfileLevel)
	fmt.Fprintf(&sb, "Found %d skills, %d to learn\n",
		report.Summary.TotalSkillsFound, report.Summary.TotalSkillsToLearn)

	for _, entry := range report.MissingSkills {
		if len(entry.Skills) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", entry.Category)
		writeList(&sb, entry.Skills, maxItemsToShow)
	}

	p.printBox("SKILL RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReview outputs the qualitative review of a resume.
func (p *Printer) PrintReview(review *types.Review) {
	if review == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Match:    %d%%\n", review.MatchPercentage)
	if review.Summary != "" {
		fmt.Fprintf(&sb, "Summary:  %s\n", review.Summary)
	}

	if len(review.MissingSkills) > 0 {
		sb.WriteString("\nMissing Skills:\n")
		count := min(len(review.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := review.MissingSkills[i]
			fmt.Fprintf(&sb, "  • %s (%s)\n", m.Skill, m.Importance)
		}
		if len(review.MissingSkills) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(review.MissingSkills)-maxItemsToShow)
		}
	}

	if len(review.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		writeList(&sb, review.Strengths, 3)
	}

	if len(review.RecommendedChanges) > 0 {
		sb.WriteString("\nChanges:\n")
		count := min(len(review.RecommendedChanges), 3)
		for i := 0; i < count; i++ {
			c := review.RecommendedChanges[i]
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", c.Priority, c.SectionName, c.Change)
		}
		if len(review.RecommendedChanges) > 3 {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(review.RecommendedChanges)-3)
		}
	}

	p.printBox("RESUME REVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTaxonomy outputs the taxonomy categories and the table of a level.
func (p *Printer) PrintTaxonomy(t *skills.Taxonomy, level string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version: %s\n", t.Version())
	for _, c := range t.Categories() {
		fmt.Fprintf(&sb, "\n%s (%d)\n", c.Name, len(c.Keywords))
		fmt.Fprintf(&sb, "  %s\n", strings.Join(c.Keywords, ", "))
	}
	p.printBox("SKILL TAXONOMY", strings.TrimSuffix(sb.String(), "\n"))

	table, resolved := t.Recommended(level)
	sb.Reset()
	for _, entry := range table {
		fmt.Fprintf(&sb, "%-12s %s\n", entry.Category, strings.Join(entry.Skills, ", "))
	}
	p.printBox(fmt.Sprintf("RECOMMENDED FOR %s", strings.ToUpper(string(resolved))), strings.TrimSuffix(sb.String(), "\n"))
}
