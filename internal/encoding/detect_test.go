package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/daftarhq/daftar/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Arabic characters should pass through unchanged.
	input := "الاسم,المرجع,التاريخ\nتوريد قماش,INV-7,2024-03-02\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1256(t *testing.T) {
	// Encode a realistic Arabic CSV header+row into Windows-1256 and make
	// sure it decodes back to the same UTF-8 text.
	original := "الاسم,المرجع,التاريخ\nتوريد قماش من المورد الرئيسي للمحل التجاري,7,2024-03-02\n"

	enc := charmap.Windows1256.NewEncoder()
	raw, err := enc.String(original)
	require.NoError(t, err)
	require.False(t, strings.Contains(raw, "ا"), "test input must not already be UTF-8")

	r, err := encoding.NewUTF8Reader(strings.NewReader(raw))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, original, string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("الاسم,المرجع\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "الاسم,المرجع\n", string(got))
}
