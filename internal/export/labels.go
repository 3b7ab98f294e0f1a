// Package export turns the current projection into downloadable artifacts.
// Formatters are pure functions of the projection plus formatting rules;
// they never read live store state.
package export

import (
	"time"

	"github.com/daftarhq/daftar/internal/order"
)

// Localized labels for the exported enums. The ledger's audience reads
// Arabic, so both exports carry Arabic labels and headers.
var (
	typeLabels = map[order.Type]string{
		order.TypeIncome:  "دخل",
		order.TypeExpense: "مصروف",
	}

	statusLabels = map[order.Status]string{
		order.StatusPending:   "قيد الانتظار",
		order.StatusCompleted: "مكتمل",
	}
)

func typeLabel(t order.Type) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}

	return string(t)
}

func statusLabel(s order.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}

	return string(s)
}

// localizedDate renders an ISO calendar date in the short Arabic-locale
// numeric form (dd/mm/yyyy). Unparseable dates pass through unchanged
// rather than failing the whole export.
func localizedDate(iso string) string {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}

	return t.Format("02/01/2006")
}
