package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/review"
	"github.com/jonathan/resume-analyzer/internal/storage"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// classify maps an error to a status code and the message shown to clients.
// Internal causes are logged, never returned.
func classify(err error) (int, string) {
	var (
		inputErr   *ingestion.InputValidationError
		extractErr *ingestion.ExtractionError
		renderErr  *rendering.RenderError
		reviewErr  *review.ExternalAnalysisError
	)
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Message
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity, "Could not extract text from resume"
	case errors.Is(err, ingestion.ErrHTTPRequestFailed), errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity, "Could not retrieve the job description from the URL"
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError, "Document generation failed"
	case errors.As(err, &reviewErr):
		return http.StatusBadGateway, "Failed to analyze resume"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "File not found"
	case errors.Is(err, storage.ErrInvalidName):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, pipeline.ErrNoStore):
		return http.StatusServiceUnavailable, "Document storage is not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
