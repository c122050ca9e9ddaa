// Package printer exports a rendered document as an A4 PDF with a QR
// verification code pointing back at the document record.
package printer

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/fortiva/propflow/internal/models"
)

var (
	blockBreakRE = regexp.MustCompile(`(?i)</p>|</h[1-6]>|<br\s*/?>|</li>|</tr>`)
	tagRE        = regexp.MustCompile(`<[^>]*>`)
	blankLinesRE = regexp.MustCompile(`\n{3,}`)
)

// htmlToText flattens rendered template markup into plain paragraphs.
// Templates carry simple structural HTML only, so block-level closers
// become line breaks and everything else is stripped.
func htmlToText(markup string) string {
	text := blockBreakRE.ReplaceAllString(markup, "\n")
	text = tagRE.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankLinesRE.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// GenerateDocumentPDF lays out the rendered document content on A4 pages
// and embeds a QR code that encodes the document reference for
// verification against the live record.
func GenerateDocumentPDF(doc *models.Document, rendered string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	title := "Document"
	docType := ""
	if doc.Template != nil {
		title = doc.Template.Name
		docType = doc.Template.DocumentType
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	if docType != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 6, docType, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Times", "", 11)
	pdf.MultiCell(0, 6, htmlToText(rendered), "", "L", false)

	// QR verification code, bottom-left of the last page
	qrContent := fmt.Sprintf("propflow:doc/%s", doc.ID)
	qrPng, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate verification QR: %w", err)
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("verify_qr", imgOptions, bytes.NewReader(qrPng))

	pdf.Ln(8)
	qrY := pdf.GetY()
	pdf.ImageOptions("verify_qr", 20, qrY, 24, 24, false, imgOptions, 0, "")

	pdf.SetXY(48, qrY+8)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("Document %s", doc.ID), "", 1, "L", false, 0, "")
	pdf.SetX(48)
	pdf.CellFormat(0, 4, fmt.Sprintf("Status: %s", doc.Status), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
