package coins

import "errors"

var (
	// ErrInvalidAmount is returned when the requested amount is negative.
	ErrInvalidAmount = errors.New("amount must be a non-negative integer")
	// ErrInvalidDenominations is returned when denominations are missing or contain invalid entries.
	ErrInvalidDenominations = errors.New("denominations must contain at least one value and only positive integers")
	// ErrAmountTooLarge is returned by table-based solvers when the amount exceeds MaxTableAmount.
	ErrAmountTooLarge = errors.New("amount exceeds the dynamic programming table limit")
	// ErrMissingUnitCoin is returned by solvers that rely on a coin of value 1 being present.
	ErrMissingUnitCoin = errors.New("denominations must include the unit coin 1")
	// ErrNoSolution is returned when the amount cannot be paid exactly with the provided denominations.
	ErrNoSolution = errors.New("cannot pay the amount exactly with the provided denominations")
	// ErrSearchInterrupted is returned when the caller's context ends before the search proves optimality.
	ErrSearchInterrupted = errors.New("search interrupted before completion")
	// ErrUnknownAlgorithm is returned when an algorithm name is not registered.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
