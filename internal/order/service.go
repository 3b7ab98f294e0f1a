package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteOrders(ctx context.Context, ids []uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name    string
	Ref     *string
	Date    string
	Type    Type
	AddedBy string
}

// Validate rejects malformed params before any store call is made.
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}

	if _, err := time.Parse(time.DateOnly, p.Date); err != nil {
		return ErrBadDate
	}

	if p.Type != TypeIncome && p.Type != TypeExpense {
		return ErrBadType
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// A blank ref means no reference was given; store it as absent so it
	// stays distinct from a real (non-empty) code everywhere downstream.
	ref := params.Ref
	if ref != nil {
		if trimmed := strings.TrimSpace(*ref); trimmed == "" {
			ref = nil
		} else {
			ref = &trimmed
		}
	}

	o := &Order{
		Name:    strings.TrimSpace(params.Name),
		Ref:     ref,
		Date:    params.Date,
		Type:    params.Type,
		Status:  StatusPending,
		AddedBy: params.AddedBy,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Order, error) {
	orders := make([]*Order, 0, len(params))

	for _, p := range params {
		o, err := s.Create(ctx, p)
		if err != nil {
			return orders, err
		}

		orders = append(orders, o)
	}

	return orders, nil
}

// List returns the full live record set. Callers never paginate: the
// view-model operates over the whole set in memory.
func (s *Service) List(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// ToggleStatus flips an order between pending and completed.
func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (Status, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}

	next := o.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return "", err
	}

	return next, nil
}

// DeleteBatch removes the given orders in one store call. On failure the
// caller keeps its selection; nothing is mutated locally beforehand.
func (s *Service) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return s.repo.DeleteOrders(ctx, ids)
}
