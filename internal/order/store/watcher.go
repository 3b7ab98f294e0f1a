package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daftarhq/daftar/internal/order"
)

// orderLister is the slice of the store the watcher needs to build snapshots.
type orderLister interface {
	ListOrders(ctx context.Context) ([]*order.Order, error)
}

// listenConn is a dedicated connection already listening on the change
// channel.
type listenConn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// Watcher delivers full snapshots of the order set whenever the store
// reports a change. Consumers replace their working set wholesale on every
// delivery; deliveries are never diffs.
type Watcher struct {
	repo     orderLister
	connStr  string
	interval time.Duration

	connect func(ctx context.Context) (listenConn, error)
}

// NewWatcher creates a watcher over the given store. connStr is used to open
// a dedicated LISTEN connection; interval bounds how stale a snapshot can get
// if a notification is lost.
func NewWatcher(repo *Store, connStr string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	w := &Watcher{repo: repo, connStr: connStr, interval: interval}
	w.connect = w.dialListen

	return w
}

func (w *Watcher) dialListen(ctx context.Context) (listenConn, error) {
	conn, err := pgx.Connect(ctx, w.connStr)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return conn, nil
}

// Watch starts delivering snapshots until ctx is cancelled. The returned
// channel holds at most one pending snapshot: if the consumer is behind, the
// stale snapshot is dropped and replaced (last-snapshot-wins).
func (w *Watcher) Watch(ctx context.Context) (<-chan []*order.Order, error) {
	conn, err := w.connect(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make(chan []*order.Order, 1)

	notify := make(chan struct{}, 1)

	go func() {
		defer func() { conn.Close(context.Background()) }()

		for {
			waitCtx, cancel := context.WithTimeout(ctx, w.interval)
			_, err := conn.WaitForNotification(waitCtx)
			cancel()

			if ctx.Err() != nil {
				return
			}

			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				// The LISTEN connection is gone. Pace the retry by
				// one interval, then redial; meanwhile the refresh
				// below keeps snapshots flowing.
				slog.Warn("order watcher: notification wait failed", "error", err)

				conn.Close(ctx)

				select {
				case <-ctx.Done():
					return
				case <-time.After(w.interval):
				}

				next, dialErr := w.connect(ctx)
				if dialErr != nil {
					slog.Warn("order watcher: reconnect failed", "error", dialErr)
				} else {
					conn = next
				}
			}

			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}()

	go func() {
		defer close(snapshots)

		// Initial snapshot so consumers have data before the first change.
		w.deliver(ctx, snapshots)

		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
				w.deliver(ctx, snapshots)
			}
		}
	}()

	return snapshots, nil
}

func (w *Watcher) deliver(ctx context.Context, snapshots chan []*order.Order) {
	orders, err := w.repo.ListOrders(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("order watcher: snapshot load failed", "error", err)
		}

		return
	}

	// Single-slot mailbox: drop the undelivered snapshot, keep the newest.
	select {
	case snapshots <- orders:
	default:
		select {
		case <-snapshots:
		default:
		}
		select {
		case snapshots <- orders:
		default:
		}
	}
}
