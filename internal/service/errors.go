package service

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrPaymentNotSucceeded rejects commission processing for a payment
	// that is not in the succeeded state.
	ErrPaymentNotSucceeded = errors.New("payment not succeeded")

	// ErrInvalidTransition rejects a commission status change that is not
	// allowed by the lifecycle, including ones lost to a concurrent update.
	ErrInvalidTransition = errors.New("invalid status transition")
)
