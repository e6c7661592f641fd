package rendering

import (
	"bytes"
	"context"
	_ "embed"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// fontFamily is a UTF-8 TrueType family, so bullets like '◦' and names outside
// Latin-1 keep their glyphs.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

type textStyle struct {
	bold   bool
	size   float64
	indent float64
	after  float64
	align  string
}

var elementStyles = map[ElementKind]textStyle{
	ElemName:          {bold: true, size: 22, after: 2},
	ElemTitle:         {bold: true, size: 20},
	ElemContact:       {size: 9},
	ElemMeta:          {size: 10},
	ElemSectionHeader: {bold: true, size: 11, after: 3},
	ElemSkillList:     {size: 9, after: 2},
	ElemParagraph:     {size: 10, after: 10},
	ElemFooter:        {size: 8, align: "C"},
}

var lineStyles = map[Style]textStyle{
	StyleHeading: {bold: true, size: 10, after: 1},
	StyleDate:    {size: 9, after: 1},
	StyleLabel:   {bold: true, size: 10, after: 1},
	StyleBullet:  {size: 9, indent: 15, after: 1.5},
	StyleBody:    {size: 9, after: 1},
}

func styleOf(el Element) textStyle {
	if el.Kind == ElemLine {
		return lineStyles[el.Style]
	}
	return elementStyles[el.Kind]
}

// WritePDF writes doc as a PDF to w. It stops early when ctx is done.
func WritePDF(ctx context.Context, doc Document, w io.Writer) error {
	return writePDF(ctx, doc, w, true)
}

func writePDF(ctx context.Context, doc Document, w io.Writer, compress bool) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	pdf.SetMargins(doc.Margins.Left, doc.Margins.Top, doc.Margins.Right)
	pdf.SetAutoPageBreak(true, doc.Margins.Bottom)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("resume-analyzer", true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, right := doc.Margins.Left, pageWidth-doc.Margins.Right

	prevKind := ElementKind(-1)
	for _, el := range doc.Elements {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch el.Kind {
		case ElemRule:
			y := pdf.GetY() + 5
			pdf.SetDrawColor(0, 0, 0)
			pdf.Line(left, y, right, y)
			pdf.SetY(y + 12)
			prevKind = el.Kind
			continue
		case ElemFooter:
			pdf.Ln(6)
			pdf.SetDrawColor(204, 204, 204)
			pdf.Line(left, pdf.GetY(), right, pdf.GetY())
			pdf.Ln(4)
			pdf.SetTextColor(102, 102, 102)
		case ElemSectionHeader:
			if prevKind != ElemRule && prevKind != ElemParagraph {
				pdf.Ln(8)
			}
		}

		st := styleOf(el)
		fontStyle := ""
		if st.bold {
			fontStyle = "B"
		}
		align := st.align
		if align == "" {
			align = "L"
		}
		pdf.SetFont(fontFamily, fontStyle, st.size)
		pdf.SetX(left + st.indent)
		pdf.MultiCell(0, st.size*1.25, el.Text, "", align, false)
		if st.after > 0 {
			pdf.Ln(st.after)
		}
		pdf.SetTextColor(0, 0, 0)
		prevKind = el.Kind
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func render(ctx context.Context, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(ctx, doc, &buf); err != nil {
		return nil, &RenderError{Kind: doc.Kind, Message: "failed to write PDF", Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderEnhanced produces the enhanced resume PDF.
func RenderEnhanced(ctx context.Context, in EnhancedInput) ([]byte, error) {
	return render(ctx, PlanEnhanced(in))
}

// RenderRecommendations produces the skill development report PDF.
func RenderRecommendations(ctx context.Context, analysis types.SkillAnalysis) ([]byte, error) {
	return render(ctx, PlanRecommendations(analysis))
}
