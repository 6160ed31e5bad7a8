package account

import "github.com/pkg/errors"

var (
	// ErrInvalidIdentity is returned when an account or client number is
	// not an integer.
	ErrInvalidIdentity = errors.New("invalid account identity")

	// ErrInvalidAmount is returned when a transaction amount is not numeric
	// or not strictly positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when a debit would take a zero-floor
	// account below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBelowMinimumBalance is returned when a debit would take an account
	// below its minimum balance.
	ErrBelowMinimumBalance = errors.New("below minimum balance")
)
