// Package entity defines the catalog entities.
package entity

import "time"

// Category groups products. Name is unique.
type Category struct {
	ID        string
	Name      string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
