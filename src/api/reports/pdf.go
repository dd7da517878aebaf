package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf/v2"
)

// Column widths in mm; landscape A4 leaves 277mm between the margins.
var colWidths = []float64{12, 45, 26, 90, 30, 26, 20, 24}

// Field truncation bounds keep every row on a single line.
const (
	maxNameLen      = 25
	maxAddressLen   = 60
	maxReferenceLen = 15
)

// PDF renders the registration set as a landscape, paginated report: a
// title block with the generation timestamp, then one table whose
// column header repeats on every page.
func PDF(rows []Row, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title block
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Event Registrations", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("January 2, 2006 at 3:04 PM")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range Columns {
			pdf.CellFormat(colWidths[i], 8, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	drawHeader()

	const rowHeight = 7.0
	const pageBreakAt = 190.0 // A4 landscape is 210mm tall

	for _, r := range rows {
		if pdf.GetY()+rowHeight > pageBreakAt {
			pdf.AddPage()
			drawHeader()
		}
		cells := []string{
			strconv.FormatUint(r.ID, 10),
			truncate(r.Name, maxNameLen),
			r.Mobile,
			truncate(r.Address, maxAddressLen),
			truncate(r.Reference, maxReferenceLen),
			r.Voucher,
			r.Status,
			r.Submitted,
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], rowHeight, sanitizeTextForPDF(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeTextForPDF converts UTF-8 special characters to ASCII
// equivalents to avoid encoding issues in gofpdf.
func sanitizeTextForPDF(text string) string {
	if text == "" {
		return text
	}

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '–': // en dash
			result.WriteString("-")
		case '—': // em dash
			result.WriteString("--")
		case '‘', '’':
			result.WriteString("'")
		case '“', '”':
			result.WriteString("\"")
		case '…': // horizontal ellipsis
			result.WriteString("...")
		case ' ':
			result.WriteString(" ")
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			// Skip zero-width characters
			continue
		default:
			if r < 128 || unicode.IsPrint(r) {
				result.WriteRune(r)
			} else if unicode.IsSpace(r) {
				result.WriteString(" ")
			} else {
				result.WriteString("?")
			}
		}
	}

	return result.String()
}
