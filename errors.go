package capgains

import "errors"

// Sentinel errors returned by portfolio operations. Callers discriminate with
// errors.Is; the wrapped message carries the specifics.
var (
	// ErrNotFound is returned when an operation references a symbol with no
	// open investment in the portfolio.
	ErrNotFound = errors.New("investment not found")

	// ErrInvalidOperation is returned when an operation is not permitted for
	// the given cost basis method, such as auto-selecting lots for a
	// specific-identification sale.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidInput is returned when a transaction fails boundary
	// validation: non-positive shares or price, negative fees, or a missing
	// symbol or date.
	ErrInvalidInput = errors.New("invalid input")
)
