package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/daftarhq/daftar/internal/view"
)

// utf8BOM declares the encoding explicitly: the content is right-to-left
// script and common spreadsheet tools misread BOM-less UTF-8 CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"النوع", "الاسم", "المرجع", "التاريخ", "الحالة", "أضيف بواسطة"}

// WriteCSV renders the projection as RFC 4180 CSV: UTF-8 with BOM, CRLF
// line endings, one row per order in exact projection order. The income and
// expense tables are exported as the one combined filtered/sorted sequence.
func WriteCSV(w io.Writer, proj view.Projection) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, o := range proj.All {
		row := []string{
			typeLabel(o.Type),
			o.Name,
			o.RefOrEmpty(),
			localizedDate(o.Date),
			statusLabel(o.Status),
			o.AddedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// CSVFilename embeds the export date.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("orders_%s.csv", now.Format(time.DateOnly))
}
