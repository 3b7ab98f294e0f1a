package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/order"
	"github.com/daftarhq/daftar/internal/view"
)

func TestProject_PartitionsWithoutDropsOrDuplicates(t *testing.T) {
	orders := []*order.Order{
		mkOrder("مصروف أ", "", "2024-01-03", order.TypeExpense, order.StatusPending),
		mkOrder("دخل أ", "", "2024-01-01", order.TypeIncome, order.StatusCompleted),
		mkOrder("مصروف ب", "", "2024-01-02", order.TypeExpense, order.StatusPending),
		mkOrder("دخل ب", "", "2024-01-04", order.TypeIncome, order.StatusPending),
	}

	params := view.Params{Sort: view.SortDateAsc}
	proj := view.Project(orders, params)

	// The union of the partitions recovers sort(filter(R,P)) exactly.
	want := view.Sort(view.Filter(orders, params), params.Sort)
	assert.Equal(t, names(want), names(proj.All))

	recombined := view.Sort(append(append([]*order.Order{}, proj.Income...), proj.Expense...), params.Sort)
	assert.Equal(t, names(want), names(recombined))

	assert.Len(t, proj.Income, 2)
	assert.Len(t, proj.Expense, 2)

	// Partition order preserves the sorted order.
	assert.Equal(t, []string{"دخل أ", "دخل ب"}, names(proj.Income))
	assert.Equal(t, []string{"مصروف ب", "مصروف أ"}, names(proj.Expense))
}

func TestProject_PendingDateDescScenario(t *testing.T) {
	orders := []*order.Order{
		mkOrder("م1", "", "2024-02-01", order.TypeExpense, order.StatusPending),
		mkOrder("م2", "", "2024-02-03", order.TypeExpense, order.StatusCompleted),
		mkOrder("م3", "", "2024-02-05", order.TypeExpense, order.StatusPending),
		mkOrder("د1", "", "2024-02-02", order.TypeIncome, order.StatusPending),
		mkOrder("د2", "", "2024-02-04", order.TypeIncome, order.StatusCompleted),
	}

	proj := view.Project(orders, view.Params{Status: order.StatusPending, Sort: view.SortDateDesc})

	for _, o := range proj.All {
		assert.Equal(t, order.StatusPending, o.Status)
	}

	assert.Equal(t, []string{"د1"}, names(proj.Income))
	assert.Equal(t, []string{"م3", "م1"}, names(proj.Expense))

	for i := 1; i < len(proj.Expense); i++ {
		assert.GreaterOrEqual(t, proj.Expense[i-1].Date, proj.Expense[i].Date)
	}
}

func TestProjector_CachesUntilInputsChange(t *testing.T) {
	p := view.NewProjector()
	p.Replace([]*order.Order{
		mkOrder("أ", "", "2024-01-01", order.TypeIncome, order.StatusPending),
		mkOrder("ب", "", "2024-01-02", order.TypeExpense, order.StatusPending),
	})

	first := p.Project()
	second := p.Project()

	// Unchanged inputs: same backing array, no recompute.
	require.NotEmpty(t, first.All)
	assert.True(t, &first.All[0] == &second.All[0])
	assert.Equal(t, names(first.All), names(second.All))

	p.SetParams(view.Params{Status: order.StatusPending, Sort: view.SortDateAsc})
	third := p.Project()
	assert.Equal(t, []string{"أ", "ب"}, names(third.All))

	p.Replace([]*order.Order{
		mkOrder("ج", "", "2024-01-03", order.TypeIncome, order.StatusPending),
	})
	fourth := p.Project()
	assert.Equal(t, []string{"ج"}, names(fourth.All))
}

func TestProjector_SnapshotReplacesWholeSet(t *testing.T) {
	p := view.NewProjector()
	p.Replace([]*order.Order{
		mkOrder("قديم", "", "2024-01-01", order.TypeIncome, order.StatusPending),
	})
	p.Replace([]*order.Order{
		mkOrder("جديد", "", "2024-01-02", order.TypeIncome, order.StatusPending),
	})

	proj := p.Project()
	assert.Equal(t, []string{"جديد"}, names(proj.All))
}

func TestProjector_EmptyBeforeFirstSnapshot(t *testing.T) {
	p := view.NewProjector()

	proj := p.Project()
	assert.Empty(t, proj.All)
	assert.Empty(t, proj.Income)
	assert.Empty(t, proj.Expense)
}

func TestProjector_DefaultSortIsDateDesc(t *testing.T) {
	p := view.NewProjector()
	assert.Equal(t, view.DefaultSort, p.Params().Sort)

	p.SetParams(view.Params{Search: "x"})
	assert.Equal(t, view.DefaultSort, p.Params().Sort)
}
