package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Koson7970/wood-strength-prediction-model/internal/mechanics"
)

// Meta is printed in the PDF header
type Meta struct {
	Title   string
	Project string
	RunID   string
	Date    time.Time
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Member", 18}, {"Force", 26}, {"Composite", 22}, {"Material", 20},
	{"Width (cm)", 24}, {"Height (cm)", 24}, {"Length (cm)", 26},
	{"Max", 20}, {"Bending", 22}, {"Compr.", 22}, {"Shear", 20},
}

// WritePDF renders the sizing report as a landscape A4 table
func WritePDF(w io.Writer, rep *Report, meta Meta) error {
	if meta.Title == "" {
		meta.Title = "Timber Member Sizing Report"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetCreationDate(meta.Date)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	if meta.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
		pdf.Ln(6)
	}
	if meta.RunID != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Run: %s", meta.RunID))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rep.Rows {
		if !r.Sized() {
			pdf.CellFormat(pdfColumns[0].width, 6, strconv.Itoa(r.MemberID), "1", 0, "C", false, 0, "")
			pdf.CellFormat(0, 6, "not sized: "+r.Err, "1", 1, "L", false, 0, "")
			continue
		}
		cells := []string{
			strconv.Itoa(r.MemberID),
			r.Force.String(),
			strconv.Itoa(r.CompositeNum),
			strconv.Itoa(r.MaterialID),
			mechanics.Format2(r.Width),
			mechanics.Format2(r.Height),
			mechanics.Format2(r.Length),
			mechanics.Format2(r.MaxRatio),
			mechanics.Format2(r.BendingRatio),
			mechanics.Format2(r.CompressionRatio),
			mechanics.Format2(r.ShearRatio),
		}
		// overstressed members in red
		if r.MaxRatio > 1 {
			pdf.SetTextColor(200, 0, 0)
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "C", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
