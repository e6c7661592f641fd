package types

// Importance ranks how much a skill or change matters for a job.
type Importance string

// Importance values used by the qualitative review.
const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Review is the qualitative resume review produced by the external analysis service.
type Review struct {
	MatchPercentage    int                 `json:"matchPercentage"`
	Summary            string              `json:"summary"`
	RequiredSkills     []RequiredSkill     `json:"requiredSkills"`
	MissingSkills      []ReviewMissing     `json:"missingSkills"`
	Strengths          []string            `json:"strengths"`
	ImprovementAreas   []ImprovementArea   `json:"improvementAreas"`
	RecommendedChanges []RecommendedChange `json:"recommendedChanges"`
	OverallFeedback    string              `json:"overallFeedback"`
}

// RequiredSkill is a skill the job asks for and whether the resume shows it.
type RequiredSkill struct {
	Skill      string     `json:"skill"`
	Found      bool       `json:"found"`
	Importance Importance `json:"importance"`
	Suggestion string     `json:"suggestion"`
}

// ReviewMissing is a required skill absent from the resume.
type ReviewMissing struct {
	Skill      string     `json:"skill"`
	Importance Importance `json:"importance"`
	Suggestion string     `json:"suggestion"`
}

// ImprovementArea describes a weak spot of the resume.
type ImprovementArea struct {
	Area         string `json:"area"`
	CurrentState string `json:"currentState"`
	Suggestion   string `json:"suggestion"`
}

// RecommendedChange is a concrete edit to a resume section.
type RecommendedChange struct {
	SectionName string     `json:"sectionName"`
	Change      string     `json:"change"`
	Reason      string     `json:"reason"`
	Priority    Importance `json:"priority"`
}
