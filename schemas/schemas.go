// Package schemas embeds the JSON Schemas for documents exchanged with external services.
package schemas

import _ "embed"

// Review is the JSON Schema of the qualitative resume review returned by the LLM.
//
//go:embed review.schema.json
var Review string
