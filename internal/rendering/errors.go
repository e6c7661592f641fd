// Package rendering lays out resume documents and writes them as PDF.
package rendering

import "fmt"

// RenderError reports a failure to produce a document. Callers show users
// only the generic message and log the cause.
type RenderError struct {
	Kind    DocumentKind
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document generation failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("document generation failed (%s): %s", e.Kind, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
