package usecase

import "errors"

var (
	// ErrInvalidInput is returned when required fields are missing or violate a catalog rule.
	ErrInvalidInput = errors.New("invalid input")

	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("category already exists")

	// ErrCategoryInUse is returned when deleting a category that products still reference.
	ErrCategoryInUse = errors.New("category is referenced by at least one product")
)
