// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// errors.go - sentinel errors of the algebra kernel.

package cas

import "errors"

var (
	// ErrDivisionByZero is returned when inverting an element that is
	// identically zero.
	ErrDivisionByZero = errors.New("cas: division by zero")

	// ErrNoRealRoot is returned when a square root is requested for an
	// element that is negative at the current valuation.
	ErrNoRealRoot = errors.New("cas: no real square root")

	// ErrBudgetExceeded is returned when an intermediate result grows past
	// the configured term or degree limits.
	ErrBudgetExceeded = errors.New("cas: term budget exceeded")

	// ErrUnboundVariable is returned when an expression names a variable
	// the environment cannot resolve.
	ErrUnboundVariable = errors.New("cas: unbound variable")
)
