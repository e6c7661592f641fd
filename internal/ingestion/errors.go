package ingestion

import "fmt"

// InputValidationError reports a request that cannot be processed as given:
// a missing file, an empty job description, an unsupported type or an oversized upload.
type InputValidationError struct {
	Field   string
	Message string
}

func (e *InputValidationError) Error() string {
	return e.Message
}

// ExtractionError reports that a document could not be turned into text.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not extract text from %s document: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("could not extract text from %s document", e.Format)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
