// Package review obtains a qualitative resume review from an LLM.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/prompts"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// ExternalAnalysisError reports a failed or unusable LLM review.
type ExternalAnalysisError struct {
	Message string
	Cause   error
}

func (e *ExternalAnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("external analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("external analysis failed: %s", e.Message)
}

func (e *ExternalAnalysisError) Unwrap() error {
	return e.Cause
}

// errUnusable marks a response that arrived but could not be used.
var errUnusable = errors.New("unusable response")

// Analyzer asks an LLM to compare a resume with a job description.
type Analyzer struct {
	client         llm.Client
	tier           llm.ModelTier
	repairAttempts int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTier selects the model tier used for reviews.
func WithTier(tier llm.ModelTier) Option {
	return func(a *Analyzer) { a.tier = tier }
}

// MaxRepairAttempts bounds WithRepairAttempts.
const MaxRepairAttempts = 3

// WithRepairAttempts allows n follow-up requests when a response is not a
// valid review, capped at MaxRepairAttempts. The default is 0: an unusable
// response fails the analysis on the first call and the caller decides whether
// to try again. A non-zero value is an opt-in retry owned by the caller's
// configuration (REVIEW_REPAIR_ATTEMPTS), and a failed request is never repeated.
func WithRepairAttempts(n int) Option {
	return func(a *Analyzer) {
		a.repairAttempts = min(max(n, 0), MaxRepairAttempts)
	}
}

// NewAnalyzer creates an Analyzer using client.
func NewAnalyzer(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{client: client, tier: llm.TierStandard}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the review of resumeText against jobDescription. Empty inputs are
// rejected with ingestion.InputValidationError; every LLM failure, including a
// response without a valid JSON review, is an ExternalAnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*types.Review, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ingestion.InputValidationError{Field: "resume", Message: "Could not extract text from resume"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &ingestion.InputValidationError{Field: "jobDescription", Message: "Job description is required"}
	}

	set, err := prompts.Review()
	if err != nil {
		return nil, &ExternalAnalysisError{Message: "prompt unavailable", Cause: err}
	}
	prompt, err := set.Render(prompts.AnalyzeResume, map[string]string{
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
	})
	if err != nil {
		return nil, &ExternalAnalysisError{Message: "prompt unavailable", Cause: err}
	}

	var lastErr error
	for attempt := 0; attempt <= a.repairAttempts; attempt++ {
		raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
		if err != nil {
			return nil, &ExternalAnalysisError{Message: "LLM request failed", Cause: err}
		}

		review, err := ParseReview(raw)
		if err == nil {
			return review, nil
		}
		lastErr = err
		slog.WarnContext(ctx, "llm returned unusable review",
			"attempt", attempt+1,
			"model", a.client.GetModel(a.tier),
			"error", err)

		repair, perr := set.Render(prompts.RepairReview, map[string]string{"Problem": err.Error()})
		if perr != nil {
			break
		}
		prompt = prompt + "\n\n" + repair
	}
	return nil, &ExternalAnalysisError{Message: "invalid review", Cause: lastErr}
}

// ParseReview extracts the first balanced JSON object from raw LLM output,
// validates it against the review schema and decodes it. Importance and
// priority values are lower-cased.
func ParseReview(raw string) (*types.Review, error) {
	span, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", errUnusable)
	}
	if err := schemas.ValidateReview(span); err != nil {
		return nil, fmt.Errorf("%w: %v", errUnusable, err)
	}

	var review types.Review
	if err := json.Unmarshal([]byte(span), &review); err != nil {
		return nil, fmt.Errorf("%w: %v", errUnusable, err)
	}
	normalizeLevels(&review)
	return &review, nil
}

func normalizeLevels(r *types.Review) {
	lower := func(i types.Importance) types.Importance {
		return types.Importance(strings.ToLower(string(i)))
	}
	for i := range r.RequiredSkills {
		r.RequiredSkills[i].Importance = lower(r.RequiredSkills[i].Importance)
	}
	for i := range r.MissingSkills {
		r.MissingSkills[i].Importance = lower(r.MissingSkills[i].Importance)
	}
	for i := range r.RecommendedChanges {
		r.RecommendedChanges[i].Priority = lower(r.RecommendedChanges[i].Priority)
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
}
