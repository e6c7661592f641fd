package ingestion

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		filename string
		want     Format
		wantErr  bool
	}{
		{"pdf mime", "application/pdf", "resume", FormatPDF, false},
		{"docx mime", MIMEDOCX, "resume", FormatDOCX, false},
		{"mime and extension agree", "application/pdf", "cv.pdf", FormatPDF, false},
		{"text mime with charset", "text/plain; charset=utf-8", "", FormatText, false},
		{"generic mime falls back to extension", "application/octet-stream", "Resume.PDF", FormatPDF, false},
		{"doc extension", "", "old.doc", FormatDOC, false},
		{"unsupported", "image/png", "photo.png", "", true},
		{"pdf extension declared as text", "text/plain", "cv.pdf", "", true},
		{"docx extension declared as pdf", "application/pdf", "cv.docx", "", true},
		{"disallowed extension with allowed mime", "text/plain", "x.exe", "", true},
		{"no mime and no extension", "", "resume", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.mime, tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateUpload(t *testing.T) {
	format, err := ValidateUpload("resume.txt", "text/plain", 120)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	_, err = ValidateUpload("", "", 0)
	var inputErr *InputValidationError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Resume file is required", inputErr.Message)

	_, err = ValidateUpload("resume.pdf", "application/pdf", MaxUploadBytes+1)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Message, "5 MB")

	_, err = ValidateUpload("resume.png", "image/png", 10)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Message, "Only PDF")
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText(FormatText, []byte("Jane Doe\r\nSKILLS\r\nReact,   Node.js\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSKILLS\nReact, Node.js", text)
}

func TestExtractText_EmptyText(t *testing.T) {
	_, err := ExtractText(FormatText, []byte("  \n\t \n"))

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "txt", extractErr.Format)
	assert.Contains(t, err.Error(), "could not extract text")
}

func TestExtractText_LegacyDoc(t *testing.T) {
	_, err := ExtractText(FormatDOC, []byte("binary"))

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Contains(t, err.Error(), "legacy Word")
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText(FormatPDF, []byte("this is not a pdf"))

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "pdf", extractErr.Format)
}

// brokenXrefPDF has a valid header and trailer whose startxref points at a stray ')',
// which the pdf reader rejects by panicking.
func brokenXrefPDF() []byte {
	return []byte("%PDF-1.4\n) broken cross-reference\n%" + strings.Repeat("x", 120) + "\nstartxref\n9\n%%EOF\n")
}

func TestExtractText_MalformedPDFReturnsError(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = ExtractText(FormatPDF, brokenXrefPDF())
	})

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "pdf", extractErr.Format)
	assert.Contains(t, extractErr.Cause.Error(), "malformed pdf")
}

func TestExtractText_MutatedPDFNeverPanics(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, "Jane Doe React Python Docker")
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	original := buf.Bytes()

	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		data := append([]byte(nil), original...)
		for i := 0; i < 3; i++ {
			data[rng.Intn(len(data))] = byte(rng.Intn(256))
		}

		var err error
		require.NotPanics(t, func() {
			_, err = ExtractText(FormatPDF, data)
		}, "seed %d", seed)
		if err != nil {
			var extractErr *ExtractionError
			assert.ErrorAs(t, err, &extractErr, "seed %d", seed)
		}
	}
}

func TestExtractText_CorruptDocx(t *testing.T) {
	_, err := ExtractText(FormatDOCX, []byte("PK not really a zip"))

	var extractErr *ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>SKILLS</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>React</w:t><w:tab/><w:t>Node.js &amp; Express</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	assert.Equal(t, "Jane Doe\nSKILLS\nReact\tNode.js & Express\n", docxXMLToText(xml))
}
