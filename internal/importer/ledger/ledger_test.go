package ledger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/daftarhq/daftar/internal/importer/ledger"
	"github.com/daftarhq/daftar/internal/order"
)

func TestParser_ArabicHeader(t *testing.T) {
	csv := "الاسم,المرجع,النوع,التاريخ\n" +
		"مؤسسة النور,1042,دخل,2024-03-15\n" +
		"شراء معدات,,مصروف,2024-03-20\n"

	p := ledger.New()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "مؤسسة النور", params[0].Name)
	require.NotNil(t, params[0].Ref)
	assert.Equal(t, "1042", *params[0].Ref)
	assert.Equal(t, "2024-03-15", params[0].Date)
	assert.Equal(t, order.TypeIncome, params[0].Type)

	assert.Equal(t, "شراء معدات", params[1].Name)
	assert.Nil(t, params[1].Ref)
	assert.Equal(t, order.TypeExpense, params[1].Type)
}

func TestParser_EnglishHeader(t *testing.T) {
	csv := "Name,Ref,Type,Date\n" +
		"Office supplies,77,expense,2024-01-02\n"

	p := ledger.New()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Office supplies", params[0].Name)
	assert.Equal(t, order.TypeExpense, params[0].Type)
}

func TestParser_Windows1256(t *testing.T) {
	csv := "الاسم,النوع,التاريخ\n" +
		"توريد بضاعة لمحل الجملة في السوق المركزي,دخل,2024-05-01\n"

	enc := charmap.Windows1256.NewEncoder()
	raw, err := enc.Bytes([]byte(csv))
	require.NoError(t, err)

	p := ledger.New()
	params, err := p.Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "توريد بضاعة لمحل الجملة في السوق المركزي", params[0].Name)
	assert.Equal(t, order.TypeIncome, params[0].Type)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "missing required column",
			csv:  "الاسم,المرجع\nفلان,1\n",
			want: "missing required column",
		},
		{
			name: "unknown type",
			csv:  "name,type,date\nx,gift,2024-01-01\n",
			want: "unknown type",
		},
		{
			name: "bad date",
			csv:  "name,type,date\nx,income,15-03-2024\n",
			want: order.ErrBadDate.Error(),
		},
		{
			name: "empty name",
			csv:  "name,type,date\n ,income,2024-01-01\n",
			want: order.ErrEmptyName.Error(),
		},
		{
			name: "empty file",
			csv:  "",
			want: "empty file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ledger.New()
			_, err := p.Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
