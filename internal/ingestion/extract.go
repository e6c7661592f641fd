package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxUploadBytes is the largest resume upload accepted.
const MaxUploadBytes = 5 << 20

// Format identifies a supported resume document format.
type Format string

// Supported document formats.
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
	FormatText Format = "txt"
)

// MIME types accepted for each format.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMEText = "text/plain"
)

var mimeFormats = map[string]Format{
	MIMEPDF:  FormatPDF,
	MIMEDOCX: FormatDOCX,
	MIMEDOC:  FormatDOC,
	MIMEText: FormatText,
}

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".doc":  FormatDOC,
	".txt":  FormatText,
}

// ErrUnsupportedFormat is wrapped by validation errors for unknown document types.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DetectFormat resolves the document format from the declared MIME type and the
// file extension. Either one alone is enough when the other is absent or generic,
// but an extension outside the allow-list, or a known extension that disagrees
// with a known MIME type, is rejected.
func DetectFormat(mimeType, filename string) (Format, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	byMIME, mimeOK := mimeFormats[mimeType]

	ext := strings.ToLower(filepath.Ext(filename))
	byExt, extOK := extFormats[ext]
	switch {
	case ext != "" && !extOK:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	case mimeOK && extOK && byMIME != byExt:
		return "", fmt.Errorf("%w: %q declared as %s", ErrUnsupportedFormat, filename, mimeType)
	case mimeOK:
		return byMIME, nil
	case extOK:
		return byExt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// ValidateUpload checks an uploaded resume before extraction.
func ValidateUpload(filename, mimeType string, size int64) (Format, error) {
	if filename == "" && size == 0 {
		return "", &InputValidationError{Field: "resume", Message: "Resume file is required"}
	}
	if size > MaxUploadBytes {
		return "", &InputValidationError{
			Field:   "resume",
			Message: fmt.Sprintf("File exceeds the %d MB limit", MaxUploadBytes>>20),
		}
	}
	format, err := DetectFormat(mimeType, filename)
	if err != nil {
		return "", &InputValidationError{Field: "resume", Message: "Only PDF, DOC, DOCX, and TXT files are allowed"}
	}
	return format, nil
}

// ExtractText returns the plain text content of a resume document.
// Text that is empty after trimming is reported as an ExtractionError.
func ExtractText(format Format, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatText:
		text = string(data)
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatDOC:
		err = fmt.Errorf("legacy Word documents are not supported, save as DOCX or PDF")
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", &ExtractionError{Format: string(format), Cause: err}
	}

	text = CleanText(text)
	if text == "" {
		return "", &ExtractionError{Format: string(format), Cause: errors.New("document contains no text")}
	}
	return text, nil
}

// extractPDFText reads the text layer of every page. The pdf package reports
// malformed input by panicking, so panics are turned into errors here.
func extractPDFText(data []byte) (text string, err error) {
	defer recoverMalformed("pdf", &err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// recoverMalformed converts a parser panic into *err.
func recoverMalformed(format string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed %s: %v", format, r)
	}
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTags          = regexp.MustCompile(`<[^>]+>`)
)

func extractDocxText(data []byte) (text string, err error) {
	defer recoverMalformed("docx", &err)

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML body XML into lines of text.
func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTags.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
