// Package usecase implements the admin-only user management operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop_backend/internal/feature/auth/domain/entity"
	authusecase "shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/shared/ids"
)

// UserStore is the subset of the user repository this feature needs.
type UserStore interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}

// UserUpdate carries the editable profile fields.
type UserUpdate struct {
	Name  string
	Email string
	Role  entity.Role
}

type userAdminUsecase struct {
	users UserStore
}

// NewUserAdminUsecase creates the user administration usecase.
func NewUserAdminUsecase(users UserStore) *userAdminUsecase {
	return &userAdminUsecase{users: users}
}

// CreateOperative registers a staff account with the operative role.
func (u *userAdminUsecase) CreateOperative(ctx context.Context, name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = authusecase.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	hashed, err := authusecase.HashPassword(password)
	if errors.Is(err, authusecase.ErrInvalidInput) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:       ids.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     entity.RoleOperative,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListOperatives returns every operative ordered by name.
func (u *userAdminUsecase) ListOperatives(ctx context.Context) ([]*entity.User, error) {
	return u.users.ListByRole(ctx, entity.RoleOperative)
}

// GetUser returns ErrUserNotFound for an unknown or malformed id.
func (u *userAdminUsecase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	id, err := ids.Canonical(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u.users.FindByID(ctx, id)
}

// UpdateUser changes name, email and role of the user with id. actorID is the admin performing it.
func (u *userAdminUsecase) UpdateUser(ctx context.Context, actorID, id string, in UserUpdate) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = authusecase.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name, email and role are required", ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	user, err := u.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actorID && user.Role == entity.RoleAdmin && in.Role != entity.RoleAdmin {
		return nil, ErrSelfDemotion
	}

	user.Name, user.Email, user.Role = in.Name, in.Email, in.Role
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteOperative removes an operative account.
func (u *userAdminUsecase) DeleteOperative(ctx context.Context, actorID, id string) error {
	if canon, err := ids.Canonical(id); err == nil {
		id = canon
	}
	if id == actorID {
		return ErrSelfDeletion
	}
	user, err := u.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != entity.RoleOperative {
		return ErrNotOperative
	}
	return u.users.Delete(ctx, user.ID)
}
