package model

import "errors"

var (
	// Entity kind errors
	ErrInvalidType = errors.New("invalid entity type")

	// Snapshot and document errors
	ErrValidation = errors.New("validation failed")

	// Lookup errors
	ErrRecycleItemNotFound = errors.New("recycle item not found")
	ErrEntityNotFound      = errors.New("entity not found")

	// Write conflicts
	ErrConflict = errors.New("conflict")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
