package view

import (
	"strings"

	"github.com/daftarhq/daftar/internal/order"
)

// Params are the user-controlled view parameters. They are client-local and
// ephemeral: every recomputation receives them as an immutable value, nothing
// is ever written back to the store.
type Params struct {
	Search string
	// DateFilter is matched as a raw string prefix against the ISO date.
	// "2024-03" matches all of March 2024; "2024-3" matches nothing.
	DateFilter string
	// Status filters on exact equality; empty means no status filter.
	Status order.Status
	Sort   Option
}

// Filter returns the orders matching all three predicates, preserving their
// relative order. The input is never mutated.
func Filter(orders []*order.Order, p Params) []*order.Order {
	matched := make([]*order.Order, 0, len(orders))

	search := strings.ToLower(strings.TrimSpace(p.Search))

	for _, o := range orders {
		if !matchesSearch(o, search) {
			continue
		}

		if !strings.HasPrefix(o.Date, p.DateFilter) {
			continue
		}

		if p.Status != "" && o.Status != p.Status {
			continue
		}

		matched = append(matched, o)
	}

	return matched
}

func matchesSearch(o *order.Order, search string) bool {
	if search == "" {
		return true
	}

	if strings.Contains(strings.ToLower(o.Name), search) {
		return true
	}

	return o.Ref != nil && strings.Contains(strings.ToLower(*o.Ref), search)
}
