package skills

import (
	"regexp"

	"github.com/jonathan/resume-analyzer/internal/types"
)

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// Detector finds taxonomy keywords in text. It is safe for concurrent use.
type Detector struct {
	categories []string
	patterns   [][]keywordPattern
}

// NewDetector compiles a whole-word matcher for every keyword of the taxonomy.
func NewDetector(t *Taxonomy) *Detector {
	d := &Detector{
		categories: make([]string, 0, len(t.categories)),
		patterns:   make([][]keywordPattern, 0, len(t.categories)),
	}
	for _, c := range t.categories {
		ps := make([]keywordPattern, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			ps = append(ps, keywordPattern{keyword: kw, re: keywordRegexp(kw)})
		}
		d.categories = append(d.categories, c.Name)
		d.patterns = append(d.patterns, ps)
	}
	return d
}

// keywordRegexp matches kw case-insensitively as a contiguous phrase bounded by
// non-word characters or the ends of the text. Punctuation inside kw is literal.
func keywordRegexp(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(kw) + `(?:\W|$)`)
}

// Detect returns every category of the taxonomy, in taxonomy order, with the keywords
// found in text. A keyword is listed once no matter how often it occurs.
// Callers normally pass text through ingestion.Normalize first.
func (d *Detector) Detect(text string) types.CategorySkills {
	out := make(types.CategorySkills, 0, len(d.categories))
	for i, name := range d.categories {
		found := []string{}
		for _, p := range d.patterns[i] {
			if p.re.MatchString(text) {
				found = append(found, p.keyword)
			}
		}
		out = append(out, types.CategoryEntry{Category: name, Skills: found})
	}
	return out
}
