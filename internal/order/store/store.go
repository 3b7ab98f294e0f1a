package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanOrder reads an order row from the scanner and returns a populated Order.
// Expected column order: id, name, ref, date, type, status, added_by, created_at
func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var typeStr, statusStr string

	var ref sql.NullString

	if err := s.Scan(
		&o.ID, &o.Name, &ref, &o.Date, &typeStr, &statusStr, &o.AddedBy, &o.Created,
	); err != nil {
		return nil, err
	}

	o.Type = order.Type(typeStr)
	o.Status = order.Status(statusStr)

	if ref.Valid {
		o.Ref = &ref.String
	}

	return &o, nil
}

const selectOrderColumns = `
	o.id, o.name, o.ref, o.date::text, o.type, o.status, o.added_by, o.created_at
`

// changeChannel is the NOTIFY channel mutations publish on; the Watcher
// listens on it to know when to deliver a fresh snapshot.
const changeChannel = "daftar_orders_changed"

func (s *Store) notifyChange(ctx context.Context) {
	// Best effort: a missed notification only delays the next snapshot
	// until the watcher's periodic refresh.
	_, _ = s.db.ExecContext(ctx, "SELECT pg_notify($1, '')", changeChannel)
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (name, ref, date, type, status, added_by, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	var ref sql.NullString
	if o.Ref != nil {
		ref = sql.NullString{String: *o.Ref, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		o.Name,
		ref,
		o.Date,
		o.Type,
		o.Status,
		o.AddedBy,
	).Scan(&o.ID, &o.Created)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	s.notifyChange(ctx)

	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM orders o
		WHERE o.id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return o, nil
}

// ListOrders returns the entire record set. Ordering is by creation time so
// the in-memory pipeline always starts from a deterministic base order.
func (s *Store) ListOrders(ctx context.Context) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM orders o
		ORDER BY o.created_at ASC, o.id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrNotFound
	}

	s.notifyChange(ctx)

	return nil
}

func (s *Store) DeleteOrders(ctx context.Context, ids []uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = ANY($1::uuid[])`

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	if _, err := s.db.ExecContext(ctx, query, idStrs); err != nil {
		return fmt.Errorf("deleting orders: %w", err)
	}

	s.notifyChange(ctx)

	return nil
}
