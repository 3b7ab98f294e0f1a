package view

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/order"
)

// Projection is the canonical filtered, sorted, type-partitioned view of the
// order set at a point in time. All is the combined filtered+sorted sequence
// the exporters and the summary request consume; Income and Expense partition
// it preserving order. Downstream consumers never re-derive any of this.
type Projection struct {
	All     []*order.Order
	Income  []*order.Order
	Expense []*order.Order
}

// VisibleIDs returns the ids of every projected order, in view order.
func (p Projection) VisibleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.All))
	for i, o := range p.All {
		ids[i] = o.ID
	}

	return ids
}

// Project runs the full pipeline: filter, sort, partition by type.
func Project(orders []*order.Order, params Params) Projection {
	sorted := Sort(Filter(orders, params), params.Sort)

	proj := Projection{All: sorted}

	for _, o := range sorted {
		if o.Type == order.TypeIncome {
			proj.Income = append(proj.Income, o)
		} else {
			proj.Expense = append(proj.Expense, o)
		}
	}

	return proj
}

// Projector owns the latest snapshot of the order set and the current view
// parameters, and memoizes the projection built from them. Snapshots land in
// a single-slot atomic mailbox: the watcher goroutine may Replace at any
// time, while params and projections belong to the single UI control flow.
type Projector struct {
	snapshot atomic.Pointer[[]*order.Order]

	mu         sync.Mutex
	params     Params
	lastSnap   *[]*order.Order
	lastParams Params
	cached     Projection
	haveCached bool
}

func NewProjector() *Projector {
	return &Projector{params: Params{Sort: DefaultSort}}
}

// Replace swaps in a new full snapshot. Each delivery replaces the entire
// prior record set; the projector never diffs.
func (p *Projector) Replace(orders []*order.Order) {
	p.snapshot.Store(&orders)
}

// Snapshot returns the latest raw record set (unfiltered).
func (p *Projector) Snapshot() []*order.Order {
	if s := p.snapshot.Load(); s != nil {
		return *s
	}

	return nil
}

// SetParams replaces the view parameters.
func (p *Projector) SetParams(params Params) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if params.Sort == "" {
		params.Sort = DefaultSort
	}

	p.params = params
}

// Params returns the current view parameters.
func (p *Projector) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.params
}

// Project returns the projection for the current snapshot and parameters.
// When neither has changed since the last call, the identical cached value
// is returned, so downstream consumers can skip their own work.
func (p *Projector) Project() Projection {
	snap := p.snapshot.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.haveCached && snap == p.lastSnap && p.params == p.lastParams {
		return p.cached
	}

	var orders []*order.Order
	if snap != nil {
		orders = *snap
	}

	p.cached = Project(orders, p.params)
	p.lastSnap = snap
	p.lastParams = p.params
	p.haveCached = true

	return p.cached
}
