package skills

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Shape tells which representation a SkillsInput carries.
type Shape int

// Skill input shapes.
const (
	ShapeInvalid Shape = iota
	ShapeList
	ShapeGrouped
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeGrouped:
		return "grouped"
	default:
		return "invalid"
	}
}

// SkillsInput is a skill collection given either as a flat list or grouped by category.
// Flatten is the single adapter that turns any input into a flat list.
type SkillsInput struct {
	shape    Shape
	list     []string
	grouped  types.CategorySkills
	warnings []Warning
}

// FromList wraps a flat list of skills.
func FromList(skills []string) SkillsInput {
	return SkillsInput{shape: ShapeList, list: skills}
}

// FromGrouped wraps a category-keyed skill mapping.
func FromGrouped(skills types.CategorySkills) SkillsInput {
	return SkillsInput{shape: ShapeGrouped, grouped: skills}
}

// FromJSON accepts a JSON array of strings or a JSON object of category to string
// array (or single string). Elements of any other type are dropped with a warning,
// and any other document shape produces an invalid input that flattens to nothing.
func FromJSON(raw json.RawMessage) SkillsInput {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return invalidInput("empty skills document")
	}

	switch trimmed[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return invalidInput(fmt.Sprintf("malformed skills list: %v", err))
		}
		in := SkillsInput{shape: ShapeList}
		in.list, in.warnings = stringsOf(items, "")
		return in

	case '{':
		var grouped types.CategorySkills
		if err := json.Unmarshal(trimmed, &grouped); err == nil {
			return FromGrouped(grouped)
		}
		// Tolerate categories holding a bare string or mixed arrays.
		var loose map[string]any
		if err := json.Unmarshal(trimmed, &loose); err != nil {
			return invalidInput(fmt.Sprintf("malformed skills object: %v", err))
		}
		return looseGrouped(trimmed, loose)

	default:
		return invalidInput(fmt.Sprintf("skills must be a list or an object, got %s", describeJSON(trimmed)))
	}
}

func looseGrouped(raw []byte, loose map[string]any) SkillsInput {
	in := SkillsInput{shape: ShapeGrouped}
	for _, category := range objectKeys(raw) {
		switch v := loose[category].(type) {
		case string:
			in.grouped.Set(category, []string{v})
		case []any:
			list, warnings := stringsOf(v, category)
			in.grouped.Set(category, list)
			in.warnings = append(in.warnings, warnings...)
		default:
			in.warnings = append(in.warnings, Warning{
				Code:    WarnSkillShape,
				Message: fmt.Sprintf("category %q: expected list of skills, got %T", category, v),
			})
		}
	}
	return in
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

func stringsOf(items []any, category string) ([]string, []Warning) {
	out := make([]string, 0, len(items))
	var warnings []Warning
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			where := fmt.Sprintf("item %d", i)
			if category != "" {
				where = fmt.Sprintf("category %q item %d", category, i)
			}
			warnings = append(warnings, Warning{
				Code:    WarnSkillShape,
				Message: fmt.Sprintf("%s: expected string, got %s", where, describeValue(item)),
			})
			continue
		}
		out = append(out, s)
	}
	return out, warnings
}

func describeJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "malformed JSON"
	}
	return describeValue(v)
}

func describeValue(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func invalidInput(msg string) SkillsInput {
	return SkillsInput{shape: ShapeInvalid, warnings: []Warning{{Code: WarnSkillShape, Message: msg}}}
}

// Shape reports the representation carried by the input.
func (in SkillsInput) Shape() Shape {
	return in.shape
}

// WarnSkillShape marks a skills value that could not be used as given.
const WarnSkillShape = "skill_shape"

// WarnEmptySkill marks an empty skill string that was ignored.
const WarnEmptySkill = "empty_skill"

// Warning records a recoverable anomaly found while reconciling skills.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Flatten returns all skills of the input as one list: a list as-is, a grouped
// mapping in category order then per-category order. It never fails; anything
// unusable yields an empty list and is described in the returned warnings.
func Flatten(in SkillsInput) ([]string, []Warning) {
	warnings := append([]Warning(nil), in.warnings...)
	switch in.shape {
	case ShapeList:
		return append([]string{}, in.list...), warnings
	case ShapeGrouped:
		out := make([]string, 0, in.grouped.Total())
		for _, e := range in.grouped {
			out = append(out, e.Skills...)
		}
		return out, warnings
	default:
		if len(warnings) == 0 {
			warnings = append(warnings, Warning{Code: WarnSkillShape, Message: "skills input has no usable shape"})
		}
		return []string{}, warnings
	}
}

// Matched returns the members of a that case-insensitively equal some member of b,
// in the order of a. Empty strings never match.
func Matched(a, b []string) []string {
	index := lowerSet(b)
	out := []string{}
	for _, s := range a {
		if s == "" {
			continue
		}
		if index[strings.ToLower(s)] {
			out = append(out, s)
		}
	}
	return out
}

// Missing returns the members of b with no case-insensitive equal in a, in the
// order of b. Empty strings are skipped.
func Missing(b, a []string) []string {
	index := lowerSet(a)
	out := []string{}
	for _, s := range b {
		if s == "" {
			continue
		}
		if !index[strings.ToLower(s)] {
			out = append(out, s)
		}
	}
	return out
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		if s != "" {
			set[strings.ToLower(s)] = true
		}
	}
	return set
}

// MatchPercentage returns round(100*matched/total), or 0 when total is 0.
// Halves round away from zero.
func MatchPercentage(matched, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}

// Compare reconciles resume skills against job description skills.
func Compare(resume, job SkillsInput) (types.MatchResult, []Warning) {
	resumeSkills, warnings := Flatten(resume)
	jobSkills, jobWarnings := Flatten(job)
	warnings = append(warnings, jobWarnings...)

	for _, list := range [][]string{resumeSkills, jobSkills} {
		for _, s := range list {
			if s == "" {
				warnings = append(warnings, Warning{Code: WarnEmptySkill, Message: "empty skill ignored"})
			}
		}
	}

	matched := Matched(resumeSkills, jobSkills)
	return types.MatchResult{
		MatchedSkills:   matched,
		MissingSkills:   Missing(jobSkills, resumeSkills),
		TotalJobSkills:  len(jobSkills),
		MatchPercentage: MatchPercentage(len(matched), len(jobSkills)),
	}, warnings
}
