// Package skills detects taxonomy skills in resume text and compares them against
// job descriptions and profile-level recommendations.
package skills

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-analyzer/internal/types"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// Category is one taxonomy category and its keywords in detection order.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy is the closed skill vocabulary plus the per-level recommendation table.
// It is immutable after construction and safe for concurrent use.
type Taxonomy struct {
	version    string
	categories []Category
	levels     map[types.ProfileLevel]types.CategorySkills
}

// TaxonomyError reports an invalid taxonomy definition.
type TaxonomyError struct {
	Message string
	Cause   error
}

func (e *TaxonomyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy error: %s", e.Message)
}

func (e *TaxonomyError) Unwrap() error {
	return e.Cause
}

// NewTaxonomy validates and builds a taxonomy. Keywords must be non-empty lower-case
// strings, unique within their category and not repeated across categories.
// Every level must be one of junior, mid or senior, and mid must be present.
func NewTaxonomy(version string, categories []Category, levels map[types.ProfileLevel]types.CategorySkills) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, &TaxonomyError{Message: "no categories defined"}
	}

	owner := make(map[string]string)
	seenCategory := make(map[string]bool)
	cats := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return nil, &TaxonomyError{Message: "category with empty name"}
		}
		if seenCategory[c.Name] {
			return nil, &TaxonomyError{Message: fmt.Sprintf("duplicate category %q", c.Name)}
		}
		seenCategory[c.Name] = true

		for _, kw := range c.Keywords {
			if kw == "" || kw != strings.ToLower(strings.TrimSpace(kw)) {
				return nil, &TaxonomyError{Message: fmt.Sprintf("keyword %q in %q must be trimmed lower-case", kw, c.Name)}
			}
			if prev, ok := owner[kw]; ok {
				if prev == c.Name {
					return nil, &TaxonomyError{Message: fmt.Sprintf("keyword %q repeated in %q", kw, c.Name)}
				}
				return nil, &TaxonomyError{Message: fmt.Sprintf("keyword %q appears in both %q and %q", kw, prev, c.Name)}
			}
			owner[kw] = c.Name
		}
		cats = append(cats, Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)})
	}

	lv := make(map[types.ProfileLevel]types.CategorySkills, len(levels))
	for level, table := range levels {
		if _, ok := ParseLevel(string(level)); !ok {
			return nil, &TaxonomyError{Message: fmt.Sprintf("unknown profile level %q", level)}
		}
		lv[level] = table.Clone()
	}
	if _, ok := lv[types.DefaultProfileLevel]; !ok {
		return nil, &TaxonomyError{Message: fmt.Sprintf("default level %q has no recommendations", types.DefaultProfileLevel)}
	}

	return &Taxonomy{version: version, categories: cats, levels: lv}, nil
}

type taxonomyFile struct {
	Version    string     `yaml:"version"`
	Categories []Category `yaml:"categories"`
	Levels     []struct {
		Level       string `yaml:"level"`
		Recommended []struct {
			Category string   `yaml:"category"`
			Skills   []string `yaml:"skills"`
		} `yaml:"recommended"`
	} `yaml:"levels"`
}

// ParseTaxonomy builds a taxonomy from its YAML definition.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &TaxonomyError{Message: "failed to parse YAML", Cause: err}
	}

	levels := make(map[types.ProfileLevel]types.CategorySkills, len(file.Levels))
	for _, l := range file.Levels {
		var table types.CategorySkills
		for _, r := range l.Recommended {
			table.Set(r.Category, r.Skills)
		}
		levels[types.ProfileLevel(l.Level)] = table
	}
	return NewTaxonomy(file.Version, file.Categories, levels)
}

// LoadTaxonomyFile reads a taxonomy definition from disk.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return ParseTaxonomy(data)
}

var loadDefault = sync.OnceValues(func() (*Taxonomy, error) {
	return ParseTaxonomy(defaultTaxonomyYAML)
})

// DefaultTaxonomy returns the built-in taxonomy. It panics if the embedded
// definition is invalid, which the package tests rule out.
func DefaultTaxonomy() *Taxonomy {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy: %v", err))
	}
	return t
}

// Version returns the taxonomy version label.
func (t *Taxonomy) Version() string {
	return t.version
}

// Categories returns a copy of the categories in detection order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Recommended returns the recommendation table for a level, falling back to the
// default level when the level is unknown or has no table. The level actually used
// is returned alongside.
func (t *Taxonomy) Recommended(level string) (types.CategorySkills, types.ProfileLevel) {
	resolved, ok := ParseLevel(level)
	if !ok {
		resolved = types.DefaultProfileLevel
	}
	table, ok := t.levels[resolved]
	if !ok {
		resolved = types.DefaultProfileLevel
		table = t.levels[resolved]
	}
	return table.Clone(), resolved
}

// ParseLevel maps a user-supplied level to a known profile level.
// Matching ignores case and surrounding whitespace.
func ParseLevel(level string) (types.ProfileLevel, bool) {
	switch types.ProfileLevel(strings.ToLower(strings.TrimSpace(level))) {
	case types.LevelJunior:
		return types.LevelJunior, true
	case types.LevelMid:
		return types.LevelMid, true
	case types.LevelSenior:
		return types.LevelSenior, true
	default:
		return "", false
	}
}
