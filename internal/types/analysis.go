package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProfileLevel is a coarse experience tier selecting recommended skills.
type ProfileLevel string

// Profile levels understood by the skill taxonomy.
const (
	LevelJunior ProfileLevel = "junior"
	LevelMid    ProfileLevel = "mid"
	LevelSenior ProfileLevel = "senior"
)

// DefaultProfileLevel is used when a caller supplies an unknown level.
const DefaultProfileLevel = LevelMid

// CategoryRecommendation compares detected skills of one category against the
// skills recommended for a profile level.
type CategoryRecommendation struct {
	Category    string   `json:"-"`
	Recommended []string `json:"recommended"`
	Detected    []string `json:"detected"`
	Coverage    string   `json:"coverage"` // "<detected>/<recommended>"
}

// Recommendations is an ordered category to recommendation mapping.
type Recommendations []CategoryRecommendation

// Get returns the recommendation for a category.
func (r Recommendations) Get(category string) (CategoryRecommendation, bool) {
	for _, rec := range r {
		if rec.Category == category {
			return rec, true
		}
	}
	return CategoryRecommendation{}, false
}

// MarshalJSON encodes recommendations as an ordered JSON object keyed by category.
func (r Recommendations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rec.Category)
		if err != nil {
			return nil, err
		}
		if rec.Detected == nil {
			rec.Detected = []string{}
		}
		if rec.Recommended == nil {
			rec.Recommended = []string{}
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by category, keeping key order.
func (r *Recommendations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("recommendations: expected JSON object")
	}

	var out Recommendations
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("recommendations: expected string key")
		}
		var rec CategoryRecommendation
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("recommendations: category %q: %w", key, err)
		}
		rec.Category = key
		out = append(out, rec)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

// SkillAnalysis is the structured result of comparing detected skills with a
// profile level's recommendations.
type SkillAnalysis struct {
	DetectedSkills   CategorySkills  `json:"detectedSkills"`
	TotalSkillsFound int             `json:"totalSkillsFound"`
	MissingSkills    CategorySkills  `json:"missingSkills"`
	Recommendations  Recommendations `json:"recommendations"`
	ProfileLevel     ProfileLevel    `json:"profileLevel"`
}

// ReportSummary holds the headline counts of a skills report.
type ReportSummary struct {
	TotalSkillsFound   int `json:"totalSkillsFound"`
	TotalSkillsToLearn int `json:"totalSkillsToLearn"`
}

// SkillsReport is the recommendations record returned to callers.
type SkillsReport struct {
	Timestamp      string         `json:"timestamp"` // RFC3339
	ProfileLevel   ProfileLevel   `json:"profileLevel"`
	Summary        ReportSummary  `json:"summary"`
	DetectedSkills CategorySkills `json:"detectedSkills"`
	MissingSkills  CategorySkills `json:"missingSkills"`
}

// MatchResult is the resume versus job description comparison.
type MatchResult struct {
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
	TotalJobSkills  int      `json:"totalJobSkills"`
	MatchPercentage int      `json:"matchPercentage"`
}
