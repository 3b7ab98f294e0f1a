package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role gates mutation rights over the ledger.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password too short")
	ErrBadEmail           = errors.New("email address is invalid")
	ErrBadRole            = errors.New("role must be admin or guest")
	ErrForbidden          = errors.New("only the super admin may change roles")
	ErrImmutableRole      = errors.New("the super admin role cannot be changed")
)

type User struct {
	ID           uuid.UUID
	Email        string
	Role         Role
	PasswordHash string
	Created      time.Time
}

// CanMutateOrders is the single capability check the command boundary
// consults before toggling status, adding, or deleting orders.
func (r Role) CanMutateOrders() bool {
	return r == RoleAdmin
}

func (r Role) valid() bool {
	return r == RoleAdmin || r == RoleGuest
}
