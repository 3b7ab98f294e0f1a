package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

func projOf(orders ...*order.Order) view.Projection {
	return view.Project(orders, view.Params{Sort: view.SortDateAsc})
}

func testOrder(name, ref, date string, typ order.Type, status order.Status) *order.Order {
	o := &order.Order{
		ID:      uuid.New(),
		Name:    name,
		Date:    date,
		Type:    typ,
		Status:  status,
		AddedBy: "owner@daftar.app",
	}
	if ref != "" {
		o.Ref = &ref
	}

	return o
}

func TestWriteCSV_Layout(t *testing.T) {
	proj := projOf(
		testOrder("توريد قماش", "INV-7", "2024-03-02", order.TypeExpense, order.StatusPending),
		testOrder("بيع جملة", "", "2024-03-15", order.TypeIncome, order.StatusCompleted),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, proj))

	raw := buf.Bytes()
	assert.True(t, bytes.HasPrefix(raw, utf8BOM), "output must start with a UTF-8 BOM")
	assert.Contains(t, string(raw), "\r\n", "lines must end with CRLF")

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"مصروف", "توريد قماش", "INV-7", "02/03/2024", "قيد الانتظار", "owner@daftar.app"}, records[1])
	// Absent ref exports as the empty string, not a sentinel.
	assert.Equal(t, []string{"دخل", "بيع جملة", "", "15/03/2024", "مكتمل", "owner@daftar.app"}, records[2])
}

func TestWriteCSV_QuotingRoundTrip(t *testing.T) {
	tricky := `شركة "النور", فرع أول` + "\nسطر ثان"

	proj := projOf(testOrder(tricky, "", "2024-01-01", order.TypeIncome, order.StatusPending))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, proj))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, tricky, records[1][1])
}

func TestWriteCSV_RowOrderMatchesProjection(t *testing.T) {
	proj := projOf(
		testOrder("ثالث", "", "2024-01-03", order.TypeExpense, order.StatusPending),
		testOrder("أول", "", "2024-01-01", order.TypeIncome, order.StatusPending),
		testOrder("ثان", "", "2024-01-02", order.TypeExpense, order.StatusPending),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, proj))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), utf8BOM))).ReadAll()
	require.NoError(t, err)

	var got []string
	for _, rec := range records[1:] {
		got = append(got, rec[1])
	}

	// One combined filtered/sorted sequence, not re-partitioned.
	assert.Equal(t, []string{"أول", "ثان", "ثالث"}, got)
}

func TestPDFRef_SentinelOnlyForAbsentRef(t *testing.T) {
	withRef := testOrder("توريد قماش", "INV-7", "2024-03-02", order.TypeExpense, order.StatusPending)
	absent := testOrder("بيع جملة", "", "2024-03-15", order.TypeIncome, order.StatusCompleted)

	empty := ""
	present := testOrder("طلب قديم", "", "2024-03-20", order.TypeExpense, order.StatusPending)
	present.Ref = &empty

	assert.Equal(t, "INV-7", pdfRef(withRef))
	assert.Equal(t, "N/A", pdfRef(absent))
	assert.Equal(t, "", pdfRef(present))
}

func TestExportPDF_EmptyProjectionShortCircuits(t *testing.T) {
	svc := NewService(NewHTTPFontSource("http://unused.invalid/font.ttf"))

	_, err := svc.ExportPDF(context.Background(), view.Projection{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportPDF_FontFetchFailureSurfacesCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(NewHTTPFontSource(srv.URL))
	proj := projOf(testOrder("طلب", "", "2024-01-01", order.TypeIncome, order.StatusPending))

	_, err := svc.ExportPDF(context.Background(), proj)
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestHTTPFontSource_CachesAfterFirstFetch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte("font-bytes"))
	}))
	defer srv.Close()

	src := NewHTTPFontSource(srv.URL)

	for i := 0; i < 3; i++ {
		data, err := src.Font(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("font-bytes"), data)
	}

	assert.Equal(t, 1, calls)
}

func TestFilenamesEmbedExportDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "orders_2024-03-15.csv", CSVFilename(now))
	assert.Equal(t, "orders_2024-03-15.pdf", PDFFilename(now))
}

func TestExportCSV_Artifact(t *testing.T) {
	svc := NewService(NewHTTPFontSource("http://unused.invalid/font.ttf"))
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	art, err := svc.ExportCSV(projOf(testOrder("طلب", "", "2024-01-01", order.TypeIncome, order.StatusPending)))
	require.NoError(t, err)

	assert.Equal(t, "orders_2024-06-01.csv", art.Filename)
	assert.True(t, strings.HasPrefix(art.ContentType, "text/csv"))
	assert.True(t, bytes.HasPrefix(art.Data, utf8BOM))
}

func TestExportPDF_WrapsFontSourceErrors(t *testing.T) {
	svc := NewService(fontSourceFunc(func(context.Context) ([]byte, error) {
		return nil, errors.Join(ErrFontUnavailable, errors.New("dns failure"))
	}))

	proj := projOf(testOrder("طلب", "", "2024-01-01", order.TypeIncome, order.StatusPending))

	_, err := svc.ExportPDF(context.Background(), proj)
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

type fontSourceFunc func(ctx context.Context) ([]byte, error)

func (f fontSourceFunc) Font(ctx context.Context) ([]byte, error) { return f(ctx) }
