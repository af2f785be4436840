// Package common defines shared constants and sentinel errors used across
// StockKeeper layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorInvalidInput = errors.New("invalid input")

	// ErrorInvalidAmount is an ErrorInvalidInput for non-positive stock deltas.
	ErrorInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrorInvalidInput)

	// Stock ledger errors.
	ErrorInsufficientStock = errors.New("insufficient stock")

	// Sale errors.
	ErrorShiftNotSet = errors.New("shift not set")

	// Two-factor errors.
	ErrorInvalidCode = errors.New("invalid code")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
