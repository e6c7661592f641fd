// Package ingestion turns uploaded resumes and job descriptions into text:
// document extraction, line cleanup, matching normalization and URL ingestion.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	inlineSpaceRuns = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanText tidies extracted document text while keeping its line structure:
// line endings become LF, stray control characters are dropped, runs of spaces inside
// a line collapse, trailing whitespace is trimmed and at most one blank line
// separates blocks. Leading indentation is kept so nested bullets stay recognizable.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= ' ' {
			return r
		}
		return -1
	}, content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	trimmed := strings.TrimLeft(line, " \t\u00a0")
	if trimmed == "" {
		return ""
	}
	indent := len(line) - len(trimmed)
	body := inlineSpaceRuns.ReplaceAllString(trimmed, " ")
	if indent > 0 {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

// IngestFromFile reads a resume or job description from disk, choosing the extractor
// from the file extension.
func IngestFromFile(path string) (string, *Metadata, error) {
	format, err := DetectFormat("", path)
	if err != nil {
		return "", nil, &InputValidationError{Field: "file", Message: fmt.Sprintf("unsupported file type: %s", filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", nil, &InputValidationError{Field: "file", Message: fmt.Sprintf("File exceeds the %d MB limit", MaxUploadBytes>>20)}
	}

	text, err := ExtractText(format, data)
	if err != nil {
		return "", nil, err
	}

	return text, Describe(text, path, format, time.Now()), nil
}
