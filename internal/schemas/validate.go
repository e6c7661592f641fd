// Package schemas checks documents returned by external services against the
// JSON Schemas embedded in the binary.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/jonathan/resume-analyzer/schemas"
)

// FieldError is one schema violation. Field is a dotted path, "(root)" for the
// document itself.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s: %s", e.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError reports a schema that could not be compiled.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to compile schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError reports a document that is not JSON.
type DocumentError struct {
	Schema string
	Cause  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document for %s is not valid JSON: %v", e.Schema, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Validator checks documents against one compiled schema. It is safe for
// concurrent use.
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a schema. name only labels errors.
func Compile(name, schema string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	return &Validator{name: name, schema: s}, nil
}

// Validate checks doc, returning a *DocumentError when it is not JSON and a
// *ValidationError when it breaks the schema.
func (v *Validator) Validate(doc string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return &DocumentError{Schema: v.name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: v.name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

var reviewValidator = sync.OnceValues(func() (*Validator, error) {
	return Compile("review.schema.json", rootschemas.Review)
})

// ValidateReview checks an LLM review document against the embedded review schema.
func ValidateReview(doc string) error {
	v, err := reviewValidator()
	if err != nil {
		return err
	}
	return v.Validate(doc)
}
