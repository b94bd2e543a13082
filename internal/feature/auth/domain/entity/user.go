// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOperative Role = "operative"
	RoleCustomer  Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperative, RoleCustomer:
		return true
	}
	return false
}

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user. It also keys the user's cart.
	ID string

	Name string

	// Email is unique across all users.
	Email string

	// Password is the bcrypt hash. It is never returned to clients.
	Password string

	Role Role

	CreatedAt time.Time
	UpdatedAt time.Time
}
