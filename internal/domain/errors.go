package domain

import "errors"

// Sentinel errors returned by the borrowing engine. Handlers map these
// to HTTP status codes with errors.Is; services wrap them with context.
var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInvalidDate           = errors.New("expected return date must be in the future")
	ErrNotFound              = errors.New("not found")
)
