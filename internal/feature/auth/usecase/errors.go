package usecase

import (
	"errors"

	"shop_backend/internal/feature/auth/domain"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = domain.ErrUserNotFound

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = domain.ErrEmailAlreadyExists

	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = domain.ErrInvalidCredentials

	// ErrInvalidInput is returned when registration fields are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
)
