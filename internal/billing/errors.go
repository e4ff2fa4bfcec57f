package billing

import "fmt"

// ValidationError rejects bad input before any write happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown entity id. Never retried.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError reports a state conflict: duplicate active contract,
// already-settled receivable, contract-number collision. The numbering
// collision is retried internally; everything else surfaces to the caller.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// ExhaustionError means the contract-number space or the retry budget ran
// out. Fatal for the operation, surfaced as-is.
type ExhaustionError struct {
	Msg string
}

func (e *ExhaustionError) Error() string { return e.Msg }

// SyncFailure wraps an error from the ledger projection step. It is logged
// and surfaced as a warning only: the recorded payment is never rolled back
// because a downstream projection failed.
type SyncFailure struct {
	PaymentID uint
	Err       error
}

func (e *SyncFailure) Error() string {
	return fmt.Sprintf("ledger sync failed for payment %d: %v", e.PaymentID, e.Err)
}

func (e *SyncFailure) Unwrap() error { return e.Err }
