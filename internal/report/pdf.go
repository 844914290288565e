package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"go-itstock/internal/model"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
	headerLogo = 30.0
)

// PDFRenderer draws receipts and history reports. HeaderImage is embedded
// at the top of every page when the file exists.
type PDFRenderer struct {
	AppName     string
	HeaderImage string
	Location    *time.Location
}

func NewPDFRenderer(appName, headerImage string, loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{AppName: appName, HeaderImage: headerImage, Location: loc}
}

func (r *PDFRenderer) newDocument(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator(r.AppName, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	hasLogo := r.HeaderImage != ""
	if hasLogo {
		if _, err := os.Stat(r.HeaderImage); err != nil {
			hasLogo = false
		}
	}

	pdf.SetHeaderFunc(func() {
		if hasLogo {
			pdf.ImageOptions(r.HeaderImage, pageMargin, 8, headerLogo, 0, false,
				fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(r.AppName), "", 1, "C", false, 0, "")
		pdf.Ln(6)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf, tr
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Receipt renders the withdrawal receipt with its items, any distributions
// made so far and signature lines.
func (r *PDFRenderer) Receipt(w *model.Withdrawal) ([]byte, error) {
	pdf, tr := r.newDocument("Equipment Withdrawal Receipt")
	pdf.AddPage()

	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, lineHeight, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, lineHeight, tr(value), "", 1, "L", false, 0, "")
	}
	ticket := w.Ticket
	if ticket == "" {
		ticket = "-"
	}
	field("Withdrawal:", "#"+w.ID.String())
	field("Date:", w.CreatedAt.In(r.Location).Format(dateTimeLayout))
	field("Requester:", w.Requester)
	field("Destination:", w.Destination)
	field("Ticket:", ticket)
	field("Status:", string(w.Status))
	pdf.Ln(4)

	items := Table{Headers: []string{"Product", "Quantity"}, Widths: []float64{80, 20}}
	for _, item := range w.Items {
		items.Rows = append(items.Rows, []string{item.ProductName, fmt.Sprint(item.Quantity)})
	}
	drawTable(pdf, tr, items)

	if len(w.Distributions) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, lineHeight, tr("Distribution"), "", 1, "L", false, 0, "")
		dist := Table{Headers: []string{"Destination Unit", "Product", "Quantity"}, Widths: []float64{45, 40, 15}}
		for _, d := range w.Distributions {
			dist.Rows = append(dist.Rows, []string{d.DestinationUnit, d.ProductName, fmt.Sprint(d.Quantity)})
		}
		drawTable(pdf, tr, dist)
	}

	pdf.Ln(20)
	pdf.SetFont("Helvetica", "", 10)
	half := (pageWidth(pdf) - 10) / 2
	pdf.CellFormat(half, lineHeight, strings.Repeat("_", 30), "", 0, "C", false, 0, "")
	pdf.CellFormat(10, lineHeight, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, lineHeight, strings.Repeat("_", 30), "", 1, "C", false, 0, "")
	pdf.CellFormat(half, lineHeight, tr("Delivered by"), "", 0, "C", false, 0, "")
	pdf.CellFormat(10, lineHeight, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, lineHeight, tr("Received by"), "", 1, "C", false, 0, "")

	return output(pdf)
}

// Table renders a history report.
func (r *PDFRenderer) Table(t Table) ([]byte, error) {
	pdf, tr := r.newDocument(t.Title)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(t.Filters), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Generated at "+time.Now().In(r.Location).Format(dateTimeLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if len(t.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, lineHeight, tr("No records found."), "", 1, "C", false, 0, "")
		return output(pdf)
	}
	drawTable(pdf, tr, t)
	return output(pdf)
}

func pageWidth(pdf *fpdf.Fpdf) float64 {
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return w - left - right
}

// drawTable scales the relative widths to the printable page width and
// wraps long cells, repeating the header after a page break.
func drawTable(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	total := 0.0
	for _, w := range t.Widths {
		total += w
	}
	widths := make([]float64, len(t.Headers))
	for i := range t.Headers {
		if total > 0 && i < len(t.Widths) {
			widths[i] = t.Widths[i] / total * pageWidth(pdf)
		} else {
			widths[i] = pageWidth(pdf) / float64(len(t.Headers))
		}
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], lineHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range t.Rows {
		lines := 1
		for i, cell := range row {
			if n := len(pdf.SplitLines([]byte(tr(cell)), widths[i]-2)); n > lines {
				lines = n
			}
		}
		rowHeight := float64(lines) * 5
		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			pdf.AddPage()
			header()
		}

		x, y := pdf.GetXY()
		for i, cell := range row {
			pdf.Rect(x, y, widths[i], rowHeight, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(widths[i], 5, tr(cell), "", "L", false)
			x += widths[i]
		}
		pdf.SetXY(pageMargin, y+rowHeight)
	}
}
