package observability

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are added to every log record written with a context carrying them.
type LogFields struct {
	RequestID string
	Operation string // e.g. "analyze", "generate_enhanced"
}

// WithLogFields merges fields into the context. Non-empty values replace existing ones.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := GetLogFields(ctx)
	if fields.RequestID != "" {
		merged.RequestID = fields.RequestID
	}
	if fields.Operation != "" {
		merged.Operation = fields.Operation
	}
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored in ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}
