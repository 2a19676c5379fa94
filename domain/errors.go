package domain

import "errors"

var (
	// ErrContractViolation marks a caller passing an out-of-range or mixed selection.
	ErrContractViolation = errors.New("contract violation")

	// ErrInvariantBreach marks stored data that violates an engine invariant,
	// e.g. a user in both likes and dislikes or a rating outside 1..5.
	ErrInvariantBreach = errors.New("invariant breach")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("already exists")
)
