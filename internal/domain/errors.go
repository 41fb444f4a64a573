package domain

import "errors"

var (
	// ErrNotFound signals that the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrIntegrity signals a referential integrity violation, e.g. creating
	// a post for an author that does not exist. Surfaced to the HTTP layer
	// as a client error.
	ErrIntegrity = errors.New("integrity violation")
)
