package engine

import "errors"

// Validation errors: caller-input problems, always recoverable locally.
// Nothing is mutated when one of these is returned.
var (
	ErrInvalidAmount               = errors.New("payment amount must be greater than zero")
	ErrExceedsPendingBalance       = errors.New("payment amount exceeds pending balance")
	ErrInvalidMethod               = errors.New("unrecognized payment method")
	ErrMissingSupplementalQuantity = errors.New("supplemental quantity is required for this category")
)

// Defined, reportable outcomes distinct from generic failures
var (
	ErrAlreadyPaid         = errors.New("obligation is already paid")
	ErrEquipmentLinked     = errors.New("cannot delete: unlink equipment first")
	ErrObligationImmutable = errors.New("obligation can only be edited while pending")
)
