package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// FormatHTML marks text extracted from a fetched web page.
const FormatHTML Format = "html"

// Metadata describes where an ingested text came from.
type Metadata struct {
	Source    string `json:"source,omitempty"` // file path, upload name or URL
	Format    Format `json:"format,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the text
	Chars     int    `json:"chars"`     // runes, not bytes
}

// Describe records the provenance of an ingested text.
func Describe(content, source string, format Format, at time.Time) *Metadata {
	sum := sha256.Sum256([]byte(content))
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: at.UTC().Format(time.RFC3339),
		Hash:      hex.EncodeToString(sum[:]),
		Chars:     utf8.RuneCountInString(content),
	}
}
