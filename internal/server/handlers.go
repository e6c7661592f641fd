package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// downloadPrefix is joined with an artifact name to form its download URL.
const downloadPrefix = "/api/resume/download/"

// genericRecommendations accompany every keyword analysis.
var genericRecommendations = []string{
	"Review the job description requirements carefully",
	"Add relevant skills to your resume",
	"Highlight achievements with metrics",
}

// analysisForm holds the text fields of an analysis request.
type analysisForm struct {
	JobDescription    string `form:"jobDescription" binding:"max=100000"`
	JobDescriptionURL string `form:"jobDescriptionUrl" binding:"omitempty,url"`
	ProfileLevel      string `form:"profileLevel" binding:"max=32"`
}

// MatchAnalysis is the analysis block of the keyword analysis response.
type MatchAnalysis struct {
	MatchedSkills   []string            `json:"matchedSkills"`
	MissingSkills   []string            `json:"missingSkills"`
	TotalJobSkills  int                 `json:"totalJobSkills"`
	MatchPercentage int                 `json:"matchPercentage"`
	Skills          types.SkillAnalysis `json:"skills"`
	Recommendations []string            `json:"recommendations"`
	Warnings        []skills.Warning    `json:"warnings,omitempty"`
}

// AnalyzeMetadata describes the analyzed request.
type AnalyzeMetadata struct {
	ResumeFileName string `json:"resumeFileName"`
	ProfileLevel   string `json:"profileLevel"`
	AnalyzedAt     string `json:"analyzedAt"`
}

// AnalyzeResponse is returned by POST /api/resume/analyze.
type AnalyzeResponse struct {
	Success        bool            `json:"success"`
	Analysis       MatchAnalysis   `json:"analysis"`
	ResumeText     string          `json:"resumeText"`
	JobDescription string          `json:"jobDescription"`
	Metadata       AnalyzeMetadata `json:"metadata"`
}

// DocumentResponse is the data block of the document generation responses.
type DocumentResponse struct {
	Message                string              `json:"message"`
	EnhancedResumeFileName string              `json:"enhancedResumeFileName,omitempty"`
	RecommendationFileName string              `json:"recommendationFileName,omitempty"`
	DownloadURL            string              `json:"downloadUrl"`
	Skills                 types.SkillAnalysis `json:"skills"`
}

// ReviewResponse is returned by POST /api/analyze.
type ReviewResponse struct {
	Success    bool          `json:"success"`
	Analysis   *types.Review `json:"analysis"`
	ResumeText string        `json:"resumeText"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Resume analyzer API is running"})
}

// readRequest builds a pipeline request from the multipart form. A missing
// resume file is left for the pipeline to reject.
func (s *Server) readRequest(c *gin.Context, operation string) (pipeline.Request, error) {
	ctx := observability.WithLogFields(c.Request.Context(), observability.LogFields{Operation: operation})
	c.Request = c.Request.WithContext(ctx)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes+multipartOverhead)

	var form analysisForm
	if err := c.ShouldBind(&form); err != nil {
		return pipeline.Request{}, bindError(err)
	}
	req := pipeline.Request{
		JobDescription:    form.JobDescription,
		JobDescriptionURL: form.JobDescriptionURL,
		ProfileLevel:      form.ProfileLevel,
	}

	header, err := c.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return req, bindError(err)
	}
	upload, err := s.readUpload(header)
	if err != nil {
		return req, err
	}
	req.Resume = upload
	return req, nil
}

func (s *Server) readUpload(header *multipart.FileHeader) (pipeline.Upload, error) {
	if header.Size > s.maxUploadBytes {
		return pipeline.Upload{}, tooLarge(s.maxUploadBytes)
	}
	f, err := header.Open()
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, s.maxUploadBytes+1))
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return pipeline.Upload{}, tooLarge(s.maxUploadBytes)
	}
	return pipeline.Upload{
		Filename:    path.Base(strings.ReplaceAll(header.Filename, `\`, "/")),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func tooLarge(limit int64) error {
	return &ingestion.InputValidationError{
		Field:   "resume",
		Message: fmt.Sprintf("File exceeds the %d MB limit", limit>>20),
	}
}

// bindError turns form decoding failures into input validation errors.
func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return tooLarge(maxErr.Limit - multipartOverhead)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		switch field {
		case "JobDescriptionURL":
			return &ingestion.InputValidationError{Field: "jobDescriptionUrl", Message: "Job description URL is invalid"}
		case "JobDescription":
			return &ingestion.InputValidationError{Field: "jobDescription", Message: "Job description is too long"}
		default:
			return &ingestion.InputValidationError{Field: field, Message: fmt.Sprintf("Invalid value for %s", field)}
		}
	}
	return &ingestion.InputValidationError{Field: "form", Message: "Invalid form data"}
}

// handleAnalyze compares the resume's skills with the job description's.
func (s *Server) handleAnalyze(c *gin.Context) {
	req, err := s.readRequest(c, "analyze")
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	result, err := s.engine.Analyze(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Success: true,
		Analysis: MatchAnalysis{
			MatchedSkills:   result.Match.MatchedSkills,
			MissingSkills:   result.Match.MissingSkills,
			TotalJobSkills:  result.Match.TotalJobSkills,
			MatchPercentage: result.Match.MatchPercentage,
			Skills:          result.Skills,
			Recommendations: genericRecommendations,
			Warnings:        result.Warnings,
		},
		ResumeText:     result.ResumeText,
		JobDescription: result.JobDescription,
		Metadata: AnalyzeMetadata{
			ResumeFileName: req.Resume.Filename,
			ProfileLevel:   string(result.Skills.ProfileLevel),
			AnalyzedAt:     time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	})
}

// handleGenerateEnhanced renders the enhanced resume and returns its download link.
func (s *Server) handleGenerateEnhanced(c *gin.Context) {
	req, err := s.readRequest(c, "generate_enhanced")
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	artifact, err := s.engine.EnhancedResume(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": DocumentResponse{
			Message:                "Enhanced resume generated successfully",
			EnhancedResumeFileName: artifact.Name,
			DownloadURL:            downloadPrefix + artifact.Name,
			Skills:                 artifact.Skills,
		},
	})
}

// handleRecommendations returns the skills report for the resume.
func (s *Server) handleRecommendations(c *gin.Context) {
	req, err := s.readRequest(c, "recommendations")
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	report, err := s.engine.Report(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

// handleGenerateRecommendationPDF renders the skill roadmap PDF.
func (s *Server) handleGenerateRecommendationPDF(c *gin.Context) {
	req, err := s.readRequest(c, "generate_recommendation_pdf")
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	artifact, err := s.engine.RecommendationPDF(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": DocumentResponse{
			Message:                "Recommendation PDF generated successfully",
			RecommendationFileName: artifact.Name,
			DownloadURL:            downloadPrefix + artifact.Name,
			Skills:                 artifact.Skills,
		},
	})
}

// handleReview asks the LLM for a qualitative review.
func (s *Server) handleReview(c *gin.Context) {
	req, err := s.readRequest(c, "review")
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	result, text, err := s.engine.Review(c.Request.Context(), req)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, ReviewResponse{Success: true, Analysis: result, ResumeText: text})
}

// handleDownload streams a generated document.
func (s *Server) handleDownload(c *gin.Context) {
	name := c.Param("filename")

	obj, err := s.engine.Open(c.Request.Context(), name)
	if err != nil {
		s.errorResponse(c, err)
		return
	}
	defer func() { _ = obj.Body.Close() }()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}
