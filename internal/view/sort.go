package view

import (
	"slices"
	"strings"

	"github.com/daftarhq/daftar/internal/order"
)

// Option names one of the six supported sort modes.
type Option string

const (
	SortDateDesc Option = "date-desc"
	SortDateAsc  Option = "date-asc"
	SortNameAsc  Option = "name-asc"
	SortNameDesc Option = "name-desc"
	SortRefAsc   Option = "ref-asc"
	SortRefDesc  Option = "ref-desc"
)

// DefaultSort is applied when no sort option has been chosen.
const DefaultSort = SortDateDesc

// Options lists the sort modes in presentation order.
func Options() []Option {
	return []Option{SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc, SortRefAsc, SortRefDesc}
}

// Sort returns a new slice ordered by the given option. The sort is stable:
// orders with equal keys keep their filtered relative order. Unknown options
// fall back to the default.
func Sort(orders []*order.Order, opt Option) []*order.Order {
	sorted := slices.Clone(orders)

	var cmp func(a, b *order.Order) int

	switch opt {
	case SortDateAsc:
		cmp = func(a, b *order.Order) int { return strings.Compare(a.Date, b.Date) }
	case SortNameAsc, SortNameDesc:
		c := newCollator()
		cmp = func(a, b *order.Order) int { return c.CompareString(a.Name, b.Name) }

		if opt == SortNameDesc {
			cmp = reversed(cmp)
		}
	case SortRefAsc:
		cmp = func(a, b *order.Order) int { return compareRefs(a.RefOrEmpty(), b.RefOrEmpty()) }
	case SortRefDesc:
		cmp = reversed(func(a, b *order.Order) int { return compareRefs(a.RefOrEmpty(), b.RefOrEmpty()) })
	default: // SortDateDesc
		cmp = reversed(func(a, b *order.Order) int { return strings.Compare(a.Date, b.Date) })
	}

	slices.SortStableFunc(sorted, cmp)

	return sorted
}

func reversed(cmp func(a, b *order.Order) int) func(a, b *order.Order) int {
	return func(a, b *order.Order) int { return -cmp(a, b) }
}
