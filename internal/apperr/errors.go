// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound marks operations referencing an unknown card, group,
	// template, search or note id.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks a structurally invalid entity or request.
	ErrInvalid = errors.New("invalid")
)
