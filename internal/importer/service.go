package importer

import (
	"fmt"
	"io"

	"github.com/daftarhq/daftar/internal/importer/ledger"
	"github.com/daftarhq/daftar/internal/order"
)

type Service struct {
	ledgerImporter Importer
}

func NewService() *Service {
	return &Service{
		ledgerImporter: ledger.New(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]order.CreateParams, error) {
	var imp Importer

	switch format {
	case FormatLedger:
		imp = s.ledgerImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return imp.Parse(r)
}
