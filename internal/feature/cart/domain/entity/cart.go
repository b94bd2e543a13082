// Package entity defines the cart owned by a user.
package entity

import "time"

// Item is one line of a cart. Quantity is always positive once stored.
type Item struct {
	ProductID string
	Quantity  int
}

// Cart holds at most one item per product. It is keyed by its owner.
type Cart struct {
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

// Quantity returns the quantity held for productID, or zero.
func (c *Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// ProductIDs lists the referenced products in cart order.
func (c *Cart) ProductIDs() []string {
	out := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.ProductID)
	}
	return out
}
