package usecase

import (
	"errors"

	"shop_backend/internal/feature/auth/domain"
)

var (
	ErrUserNotFound       = domain.ErrUserNotFound
	ErrEmailAlreadyExists = domain.ErrEmailAlreadyExists

	// ErrInvalidInput is returned for missing fields or an unknown role.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfDemotion is returned when an admin tries to drop their own admin role.
	ErrSelfDemotion = errors.New("admins cannot change their own role")

	// ErrSelfDeletion is returned when an admin targets their own account for deletion.
	ErrSelfDeletion = errors.New("admins cannot delete their own account")

	// ErrNotOperative is returned when deleting a user whose role is not operative.
	ErrNotOperative = errors.New("user is not an operative")
)
