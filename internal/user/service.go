package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
}

type Service struct {
	repo Repository
	// superAdmin is the one distinguished identity: its role is immutable
	// and only it may change other users' roles.
	superAdmin string
}

func NewService(repo Repository, superAdminEmail string) *Service {
	return &Service{repo: repo, superAdmin: strings.ToLower(superAdminEmail)}
}

func (s *Service) IsSuperAdmin(u *User) bool {
	return u != nil && strings.ToLower(u.Email) == s.superAdmin
}

// Register creates a user. The role is derived once, at creation time: the
// super-admin email registers as admin, everyone else as guest.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrBadEmail
	}

	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := RoleGuest
	if email == s.superAdmin {
		role = RoleAdmin
	}

	u := &User{
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ChangeRole updates another user's role. Authorization happens here, once:
// only the super admin may change roles, and the super admin's own role can
// never be changed by anyone.
func (s *Service) ChangeRole(ctx context.Context, actor *User, targetID uuid.UUID, role Role) error {
	if !s.IsSuperAdmin(actor) {
		return ErrForbidden
	}

	if !role.valid() {
		return ErrBadRole
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if s.IsSuperAdmin(target) {
		return ErrImmutableRole
	}

	return s.repo.UpdateRole(ctx, targetID, role)
}
