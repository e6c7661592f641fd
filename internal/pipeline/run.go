// Package pipeline provides the request-scoped orchestration of the analysis engine:
// input resolution, skill detection, comparison and document generation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/review"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/storage"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Step names reported through ProgressEvent.
const (
	StepResumeText     = "resume_text"
	StepJobDescription = "job_description"
	StepDetectSkills   = "detect_skills"
	StepCompareSkills  = "compare_skills"
	StepSkillAnalysis  = "skill_analysis"
	StepRenderDocument = "render_document"
	StepStoreArtifact  = "store_artifact"
	StepReview         = "review"
)

// ErrNoStore is returned by operations that produce documents when the engine
// has no artifact store.
var ErrNoStore = errors.New("no artifact store configured")

// ProgressEvent represents a progress update during a request
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when a step completes
type ProgressCallback func(event ProgressEvent)

// Upload is a resume document as received from a caller.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Request holds the inputs of one analysis request. JobDescriptionURL is only
// fetched when JobDescription is blank.
type Request struct {
	Resume            Upload
	JobDescription    string
	JobDescriptionURL string
	ProfileLevel      string
	OnProgress        ProgressCallback
}

// Reviewer produces a qualitative review of a resume against a job description.
type Reviewer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*types.Review, error)
}

// Engine runs analysis requests. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	taxonomy  *skills.Taxonomy
	detector  *skills.Detector
	store     storage.Store
	reviewer  Reviewer
	fetchOpts *fetch.Options
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTaxonomy replaces the built-in taxonomy.
func WithTaxonomy(t *skills.Taxonomy) Option {
	return func(e *Engine) { e.taxonomy = t }
}

// WithStore sets where generated documents are kept.
func WithStore(s storage.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithReviewer enables qualitative reviews.
func WithReviewer(r Reviewer) Option {
	return func(e *Engine) { e.reviewer = r }
}

// WithFetchOptions configures job description URL fetching.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(e *Engine) { e.fetchOpts = opts }
}

// WithClock sets the time source used for footers and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine using the default taxonomy unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.taxonomy == nil {
		e.taxonomy = skills.DefaultTaxonomy()
	}
	if e.fetchOpts == nil {
		e.fetchOpts = fetch.DefaultOptions()
	}
	e.detector = skills.NewDetector(e.taxonomy)
	return e
}

// Taxonomy returns the taxonomy the engine detects against.
func (e *Engine) Taxonomy() *skills.Taxonomy {
	return e.taxonomy
}

// emitProgress calls the progress callback if configured
func emitProgress(req *Request, step, message string, content any) {
	if req.OnProgress != nil {
		req.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Inputs are the resolved texts of a request.
type Inputs struct {
	ResumeText     string
	ResumeFormat   ingestion.Format
	JobDescription string
	JobSource      *ingestion.Metadata
}

// ResolveInputs validates the upload and extracts its text. When requireJob is set
// the job description must be given as text or as a URL, which is fetched
// concurrently with resume extraction.
func (e *Engine) ResolveInputs(ctx context.Context, req Request, requireJob bool) (*Inputs, error) {
	format, err := ingestion.ValidateUpload(req.Resume.Filename, req.Resume.ContentType, int64(len(req.Resume.Data)))
	if err != nil {
		return nil, err
	}

	in := &Inputs{ResumeFormat: format, JobDescription: strings.TrimSpace(req.JobDescription)}
	jobURL := strings.TrimSpace(req.JobDescriptionURL)
	if requireJob && in.JobDescription == "" && jobURL == "" {
		return nil, &ingestion.InputValidationError{Field: "jobDescription", Message: "Job description is required"}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		text, err := ingestion.ExtractText(format, req.Resume.Data)
		if err != nil {
			return err
		}
		in.ResumeText = text
		return nil
	})

	if requireJob && in.JobDescription == "" {
		g.Go(func() error {
			text, meta, err := ingestion.IngestFromURL(gCtx, jobURL, e.fetchOpts)
			if err != nil {
				return err
			}
			in.JobDescription = text
			in.JobSource = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	emitProgress(&req, StepResumeText,
		fmt.Sprintf("Extracted %d characters from %s resume", len(in.ResumeText), format), nil)
	if requireJob {
		source := "request"
		if in.JobSource != nil {
			source = in.JobSource.Source
		}
		emitProgress(&req, StepJobDescription,
			fmt.Sprintf("Job description from %s (%d characters)", source, len(in.JobDescription)), in.JobSource)
	}
	return in, nil
}

// detect runs the detector over the normalized form of text.
func (e *Engine) detect(ctx context.Context, label, text string) types.CategorySkills {
	found := e.detector.Detect(ingestion.Normalize(text))
	if found.Total() == 0 {
		slog.WarnContext(ctx, "no taxonomy skills detected", "source", label)
	}
	return found
}

// analysisFor builds the level analysis, logging when the level falls back to the default.
func (e *Engine) analysisFor(ctx context.Context, detected types.CategorySkills, level string) types.SkillAnalysis {
	if _, ok := skills.ParseLevel(level); !ok && strings.TrimSpace(level) != "" {
		slog.WarnContext(ctx, "unknown profile level, using default",
			"level", level,
			"default", types.DefaultProfileLevel)
	}
	return skills.BuildAnalysis(e.taxonomy, detected, level)
}

func logWarnings(ctx context.Context, warnings []skills.Warning) {
	for _, w := range warnings {
		slog.WarnContext(ctx, "skill reconciliation warning", "code", w.Code, "message", w.Message)
	}
}

// Analysis is the result of comparing a resume with a job description.
type Analysis struct {
	Match          types.MatchResult   `json:"match"`
	Skills         types.SkillAnalysis `json:"skills"`
	ResumeText     string              `json:"resumeText"`
	JobDescription string              `json:"jobDescription"`
	Warnings       []skills.Warning    `json:"warnings,omitempty"`
}

// Analyze detects skills in the resume and the job description, reconciles them
// and builds the profile-level analysis of the resume.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	in, err := e.ResolveInputs(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return e.analyze(ctx, &req, in), nil
}

func (e *Engine) analyze(ctx context.Context, req *Request, in *Inputs) *Analysis {
	resumeSkills := e.detect(ctx, "resume", in.ResumeText)
	jobSkills := e.detect(ctx, "job_description", in.JobDescription)
	emitProgress(req, StepDetectSkills,
		fmt.Sprintf("Detected %d resume skills and %d job skills", resumeSkills.Total(), jobSkills.Total()), resumeSkills)

	match, warnings := skills.Compare(skills.FromGrouped(resumeSkills), skills.FromGrouped(jobSkills))
	logWarnings(ctx, warnings)
	emitProgress(req, StepCompareSkills,
		fmt.Sprintf("Matched %d of %d job skills (%d%%)", len(match.MatchedSkills), match.TotalJobSkills, match.MatchPercentage), match)

	analysis := e.analysisFor(ctx, resumeSkills, req.ProfileLevel)
	emitProgress(req, StepSkillAnalysis,
		fmt.Sprintf("Built %s-level analysis with %d skills to develop", analysis.ProfileLevel, analysis.MissingSkills.Total()), nil)

	return &Analysis{
		Match:          match,
		Skills:         analysis,
		ResumeText:     in.ResumeText,
		JobDescription: in.JobDescription,
		Warnings:       warnings,
	}
}

// Artifact describes a generated document kept in the store.
type Artifact struct {
	Name   string              `json:"name"`
	Size   int                 `json:"size"`
	Skills types.SkillAnalysis `json:"skills"`
}

// EnhancedResume re-renders the resume as a PDF whose SKILLS section lists the
// skills still missing for the profile level and, under "Recommended", the skills
// the job description asks for that the resume lacks.
func (e *Engine) EnhancedResume(ctx context.Context, req Request) (*Artifact, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	in, err := e.ResolveInputs(ctx, req, true)
	if err != nil {
		return nil, err
	}
	result := e.analyze(ctx, &req, in)
	analysis := skills.WithJobGaps(result.Skills, result.Match.MissingSkills)

	data, err := rendering.RenderEnhanced(ctx, rendering.EnhancedInput{
		Contact:  parsing.ExtractContact(in.ResumeText),
		Sections: parsing.ParseSections(in.ResumeText),
		Missing:  analysis.MissingSkills,
		Date:     e.now(),
	})
	if err != nil {
		return nil, err
	}
	emitProgress(&req, StepRenderDocument, fmt.Sprintf("Rendered enhanced resume (%d bytes)", len(data)), nil)

	return e.save(ctx, &req, rendering.DocEnhancedResume, data, analysis)
}

// Report returns the recommendations record for the resume at the requested level.
func (e *Engine) Report(ctx context.Context, req Request) (*types.SkillsReport, error) {
	in, err := e.ResolveInputs(ctx, req, false)
	if err != nil {
		return nil, err
	}
	analysis := e.analysisFor(ctx, e.detect(ctx, "resume", in.ResumeText), req.ProfileLevel)
	report := skills.BuildReport(analysis, e.now())
	emitProgress(&req, StepSkillAnalysis,
		fmt.Sprintf("Report: %d skills found, %d to learn", report.Summary.TotalSkillsFound, report.Summary.TotalSkillsToLearn), report)
	return &report, nil
}

// RecommendationPDF renders the skill development roadmap for the resume.
func (e *Engine) RecommendationPDF(ctx context.Context, req Request) (*Artifact, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	in, err := e.ResolveInputs(ctx, req, false)
	if err != nil {
		return nil, err
	}
	analysis := e.analysisFor(ctx, e.detect(ctx, "resume", in.ResumeText), req.ProfileLevel)

	data, err := rendering.RenderRecommendations(ctx, analysis)
	if err != nil {
		return nil, err
	}
	emitProgress(&req, StepRenderDocument, fmt.Sprintf("Rendered recommendations (%d bytes)", len(data)), nil)

	return e.save(ctx, &req, rendering.DocRecommendations, data, analysis)
}

func (e *Engine) save(ctx context.Context, req *Request, kind rendering.DocumentKind, data []byte, analysis types.SkillAnalysis) (*Artifact, error) {
	name, err := e.store.Save(ctx, string(kind), data)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}
	slog.InfoContext(ctx, "stored artifact", "name", name, "bytes", len(data))
	emitProgress(req, StepStoreArtifact, "Stored "+name, nil)
	return &Artifact{Name: name, Size: len(data), Skills: analysis}, nil
}

// Open returns a stored artifact by name.
func (e *Engine) Open(ctx context.Context, name string) (*storage.Object, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.Open(ctx, name)
}

// Review asks the configured reviewer for a qualitative review. The extracted
// resume text is returned alongside so callers can echo it.
func (e *Engine) Review(ctx context.Context, req Request) (*types.Review, string, error) {
	in, err := e.ResolveInputs(ctx, req, true)
	if err != nil {
		return nil, "", err
	}
	if e.reviewer == nil {
		return nil, in.ResumeText, &review.ExternalAnalysisError{Message: "no LLM provider configured"}
	}

	start := time.Now()
	result, err := e.reviewer.Analyze(ctx, in.ResumeText, in.JobDescription)
	if err != nil {
		return nil, in.ResumeText, err
	}
	slog.InfoContext(ctx, "review completed",
		"match_percentage", result.MatchPercentage,
		"duration_ms", time.Since(start).Milliseconds())
	emitProgress(&req, StepReview, fmt.Sprintf("Review: %d%% match", result.MatchPercentage), result)
	return result, in.ResumeText, nil
}
