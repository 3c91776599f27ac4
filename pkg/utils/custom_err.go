package utils

import "errors"

var (
	// Terminal caller errors.
	ErrMalformedPayload  = errors.New("malformed provider payload")
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// Recoverable reconciliation conditions. These are logged and
	// ledgered, never surfaced to the provider as retryable failures.
	ErrInsufficientContext = errors.New("payment not found and event lacks context to create one")
	ErrRequestNotFound     = errors.New("owning request not found")
	ErrNotifierUnavailable = errors.New("notifier unavailable")

	ErrDatabaseError = errors.New("database error")
)
