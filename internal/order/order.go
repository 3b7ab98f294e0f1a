package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the type of order (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Status represents the completion state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyName = errors.New("order name is required")
	ErrBadDate   = errors.New("order date must be an ISO calendar date")
	ErrBadType   = errors.New("order type must be income or expense")
)

// Order represents a single income or expense transaction in the ledger.
// Date is kept as the raw ISO-8601 calendar string the store delivers:
// filtering is a textual prefix match and sorting compares ISO strings,
// so parsing it into time.Time would only lose information.
type Order struct {
	ID      uuid.UUID
	Name    string
	Ref     *string // nil means no reference code was given
	Date    string  // "2006-01-02"
	Type    Type
	Status  Status
	AddedBy string
	Created time.Time
}

// RefOrEmpty returns the reference code, or "" when none was given.
func (o *Order) RefOrEmpty() string {
	if o.Ref == nil {
		return ""
	}

	return *o.Ref
}

// Toggled returns the opposite completion state.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}

	return StatusCompleted
}
