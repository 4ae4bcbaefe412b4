package domain

import "errors"

// Stage-boundary errors. Every external-collaborator failure is mapped onto
// one of these before it reaches the session state machine.
var (
	// ErrExtractionFailed: collaborator error or unparseable response.
	// Recoverable, the user retries at the same stage.
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrCompositionIncomplete: one or both language variants missing or
	// empty. Recoverable, the user retries.
	ErrCompositionIncomplete = errors.New("composition returned incomplete content")

	// ErrValidationFailed: mandatory field missing at review submission.
	ErrValidationFailed = errors.New("mandatory fields missing")

	// ErrPersistenceFailed: store write/read failure. Degraded-continue for
	// saves whose in-memory result the user already has.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrPaymentIndeterminate: payment state could not be read. The export
	// gate fails closed on it.
	ErrPaymentIndeterminate = errors.New("payment status indeterminate")

	// ErrCascadeDeleteFailed: the final member delete of a cascade failed.
	ErrCascadeDeleteFailed = errors.New("cascade delete failed")

	ErrInvalidTransition = errors.New("invalid step transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrEmailTaken        = errors.New("email already registered")
	ErrBadCredentials    = errors.New("invalid email or password")
)
