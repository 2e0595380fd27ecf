package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the application layer. Handlers map
// these onto HTTP status codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrAlreadyCompleted  = errors.New("batch already completed")
	ErrAlreadyInvoiced   = errors.New("order already has an invoice")
	ErrOrderNotConfirmed = errors.New("only confirmed orders can be invoiced")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// MassBalanceError rejects a batch completion whose declared output
// exceeds the paddy input beyond the allowed tolerance.
type MassBalanceError struct {
	InputKg      float64
	OutputKg     float64
	TolerancePct float64
}

func (e *MassBalanceError) Error() string {
	return fmt.Sprintf("Total output (%.2fkg) exceeds input (%gkg) by more than %g%%",
		e.OutputKg, e.InputKg, e.TolerancePct*100)
}

func (e *MassBalanceError) Unwrap() error { return ErrInvalidInput }
