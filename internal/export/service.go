package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/daftarhq/daftar/internal/view"
)

// FontSource supplies the TTF bytes for a font capable of rendering the
// ledger's script. The PDF path is the only network-bound part of exporting.
type FontSource interface {
	Font(ctx context.Context) ([]byte, error)
}

// HTTPFontSource fetches the font once and caches it for the process
// lifetime; the font resource never changes for a given URL.
type HTTPFontSource struct {
	URL    string
	client *http.Client

	mu     sync.Mutex
	cached []byte
}

func NewHTTPFontSource(url string) *HTTPFontSource {
	return &HTTPFontSource{
		URL:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPFontSource) Font(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil {
		return f.cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFontUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}

	f.cached = data

	return data, nil
}

// Artifact is a finished downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service produces export artifacts from a projection. It never filters or
// sorts on its own: what it receives is exactly what the table shows.
type Service struct {
	font FontSource
	now  func() time.Time
}

func NewService(font FontSource) *Service {
	return &Service{font: font, now: time.Now}
}

func (s *Service) ExportCSV(proj view.Projection) (*Artifact, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, proj); err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    CSVFilename(s.now()),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) ExportPDF(ctx context.Context, proj view.Projection) (*Artifact, error) {
	if len(proj.All) == 0 {
		return nil, ErrNothingToExport
	}

	fontBytes, err := s.font.Font(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, proj, fontBytes); err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:    PDFFilename(s.now()),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}
