// Package errors defines all exported error sentinels for the zmph library.
//
// This is the single source of truth for error values. The top-level zmph
// package, the hash primitives and the command-line tools all import from
// here, so errors.Is checks work across package boundaries.
package errors

import "errors"

// Build errors
var (
	ErrEmptyInput            = errors.New("zmph: cannot build hash function over zero keys")
	ErrDuplicateKey          = errors.New("zmph: duplicate key detected")
	ErrLengthMismatch        = errors.New("zmph: keys and values differ in length")
	ErrConstructionExhausted = errors.New("zmph: displacement search exhausted its attempt budget")
	ErrInvalidOption         = errors.New("zmph: invalid build option")
)

// Internal errors (invariant failures inside a construction pass)
var (
	ErrBucketOrder    = errors.New("zmph: multi-key bucket found after a singleton bucket")
	ErrSlotAccounting = errors.New("zmph: free slot count does not match singleton bucket count")
	ErrPhaseOrder     = errors.New("zmph: construction stage run out of order")
)

// Tooling errors
var (
	ErrUnknownHasher  = errors.New("zmph: unknown hash primitive")
	ErrLookupMismatch = errors.New("zmph: mismatch lookup")
)
