// Package ledger parses order CSV files exported from spreadsheets. Headers
// may be Arabic or English; cell encoding is auto-detected, so files saved
// from legacy Windows tools import cleanly.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/daftarhq/daftar/internal/encoding"
	"github.com/daftarhq/daftar/internal/order"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// columns maps recognized header names to canonical field keys.
var columns = map[string]string{
	"الاسم":    "name",
	"name":     "name",
	"المرجع":   "ref",
	"ref":      "ref",
	"التاريخ":  "date",
	"date":     "date",
	"النوع":    "type",
	"type":     "type",
}

var typeValues = map[string]order.Type{
	"income":  order.TypeIncome,
	"دخل":     order.TypeIncome,
	"expense": order.TypeExpense,
	"مصروف":   order.TypeExpense,
}

func (p *Parser) Parse(r io.Reader) ([]order.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var params []order.CreateParams

	for i, row := range rows[1:] {
		cp, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		params = append(params, cp)
	}

	return params, nil
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int)

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if key, ok := columns[name]; ok {
			cols[key] = i
		}
	}

	for _, required := range []string{"name", "date", "type"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	return cols, nil
}

func parseRow(cols map[string]int, row []string) (order.CreateParams, error) {
	cell := func(key string) string {
		idx, ok := cols[key]
		if !ok || idx >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[idx])
	}

	typ, ok := typeValues[strings.ToLower(cell("type"))]
	if !ok {
		return order.CreateParams{}, fmt.Errorf("unknown type %q", cell("type"))
	}

	params := order.CreateParams{
		Name: cell("name"),
		Date: cell("date"),
		Type: typ,
	}

	if ref := cell("ref"); ref != "" {
		params.Ref = &ref
	}

	if err := params.Validate(); err != nil {
		return order.CreateParams{}, err
	}

	return params, nil
}
