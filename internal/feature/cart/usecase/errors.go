package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput covers malformed references and quantities. It is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProductNotFound is returned when a cart line references a product that does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is the sentinel behind InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCartEmpty is returned by Checkout on an empty or absent cart.
	ErrCartEmpty = errors.New("cart is empty")
)

// InvalidItem describes one rejected entry of a batch.
type InvalidItem struct {
	Index     int    `json:"index"`
	ProductID string `json:"productId,omitempty"`
	Reason    string `json:"reason"`
}

// BatchValidationError lists every invalid entry of a rejected batch.
type BatchValidationError struct {
	Items []InvalidItem
}

func (e *BatchValidationError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("item %d: %s", it.Index, it.Reason))
	}
	return fmt.Sprintf("%d invalid item(s): %s", len(e.Items), strings.Join(parts, "; "))
}

func (e *BatchValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError names the product that cannot be supplied and by how much.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d remaining, needs %d", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall is how many units are missing.
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}
