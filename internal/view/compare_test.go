package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareRefs(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "NumericRunsByValue", a: "2", b: "10", want: -1},
		{name: "EmbeddedRuns", a: "INV-2", b: "INV-10", want: -1},
		{name: "EqualValueDifferentZeros", a: "007", b: "7", want: 0},
		{name: "MissingSortsFirst", a: "", b: "1", want: -1},
		{name: "BothMissing", a: "", b: "", want: 0},
		{name: "CaseInsensitive", a: "inv-3", b: "INV-3", want: 0},
		{name: "PrefixShorterFirst", a: "INV", b: "INV-1", want: -1},
		{name: "HugeRunsNoOverflow", a: "99999999999999999998", b: "99999999999999999999", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareRefs(tt.a, tt.b)
			assert.Equal(t, tt.want, sign(got))
			assert.Equal(t, -tt.want, sign(compareRefs(tt.b, tt.a)))
		})
	}
}

func TestCollatorOrdersArabic(t *testing.T) {
	c := newCollator()

	// ا (alef) precedes ي (yeh) in Arabic collation.
	assert.Negative(t, c.CompareString("احمد", "يوسف"))
	assert.Positive(t, c.CompareString("يوسف", "باسم"))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
