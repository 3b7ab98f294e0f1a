package importer

import (
	"io"

	"github.com/daftarhq/daftar/internal/order"
)

type Format string

const (
	FormatLedger Format = "ledger"
)

type Importer interface {
	Parse(r io.Reader) ([]order.CreateParams, error)
}
