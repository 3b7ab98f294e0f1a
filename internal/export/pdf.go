package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

var (
	// ErrNothingToExport short-circuits PDF generation for an empty
	// projection; no empty document is ever produced.
	ErrNothingToExport = errors.New("nothing to export")

	// ErrFontUnavailable marks a failure to obtain the script-capable
	// font resource. Surfaced to the user, never propagated as a crash.
	ErrFontUnavailable = errors.New("export font unavailable")
)

const pdfFontFamily = "daftar-arabic"

// pdfHeader mirrors the table columns right-to-left: the type column sits
// rightmost, the way the on-screen table reads. The column order and date
// format intentionally differ from the CSV export.
var pdfHeader = []string{"النوع", "الاسم", "المرجع", "التاريخ", "الحالة", "أضيف بواسطة"}

var pdfColWidths = []float64{25, 50, 30, 28, 27, 30}

// WritePDF renders the projection as a tabular report using the supplied
// TTF font bytes. Rows keep exact projection order; dates stay in plain ISO
// form (machine-sortable) and a missing ref renders as "N/A". The header
// row is centered, everything else right-aligned.
func WritePDF(w io.Writer, proj view.Projection, fontBytes []byte) error {
	if len(proj.All) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", fontBytes)
	pdf.SetFont(pdfFontFamily, "", 11)

	if pdf.Err() {
		return fmt.Errorf("%w: %s", ErrFontUnavailable, pdf.Error())
	}

	pdf.AddPage()
	pdf.RTL()

	const rowHeight = 8.0

	for i, title := range pdfHeader {
		pdf.CellFormat(pdfColWidths[i], rowHeight, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(rowHeight)

	for _, o := range proj.All {
		cells := []string{
			typeLabel(o.Type),
			o.Name,
			pdfRef(o),
			o.Date,
			statusLabel(o.Status),
			o.AddedBy,
		}

		for i, cell := range cells {
			pdf.CellFormat(pdfColWidths[i], rowHeight, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

// pdfRef renders the reference cell. Only a truly absent ref gets the "N/A"
// sentinel; a ref that exists but is empty stays empty.
func pdfRef(o *order.Order) string {
	if o.Ref == nil {
		return "N/A"
	}

	return *o.Ref
}

// PDFFilename embeds the export date.
func PDFFilename(now time.Time) string {
	return fmt.Sprintf("orders_%s.pdf", now.Format(time.DateOnly))
}
