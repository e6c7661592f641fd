package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the job posting cannot be downloaded
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text can be pulled from the page
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// IngestFromURL downloads a job posting and returns its cleaned description text.
// An unusable URL is reported as an InputValidationError.
func IngestFromURL(ctx context.Context, urlStr string, opts *fetch.Options) (string, *Metadata, error) {
	result, err := fetch.URL(ctx, urlStr, opts)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.Message == "invalid URL" {
			return "", nil, &InputValidationError{Field: "jobDescriptionUrl", Message: "Job description URL is invalid"}
		}
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	slog.DebugContext(ctx, "fetched job posting", "url", urlStr, "bytes", len(result.HTML))

	text, err := fetch.ExtractMainText(result.HTML, fetch.JobPostingSelectors(urlStr))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: page has no readable text", ErrContentExtractionFailed)
	}

	return cleaned, Describe(cleaned, urlStr, FormatHTML, time.Now()), nil
}
