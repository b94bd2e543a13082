// Package ids normalises the string identifiers used for users, products and categories.
package ids

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalid is returned when a reference is not a well-formed identifier.
var ErrInvalid = errors.New("invalid identifier")

// New returns a fresh random identifier in canonical form.
func New() string {
	return uuid.NewString()
}

// Canonical parses ref and returns its canonical lower-case form.
// Braced and URN forms accepted by uuid.Parse are folded to the same key.
func Canonical(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalid
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return "", ErrInvalid
	}
	return id.String(), nil
}

// Valid reports whether ref is a well-formed identifier.
func Valid(ref string) bool {
	_, err := Canonical(ref)
	return err == nil
}
