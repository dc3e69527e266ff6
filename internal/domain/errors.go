// Package domain holds the error taxonomy shared by the circuit, optimizer and service layers.
package domain

import "errors"

var (
	// ErrInvalidConfiguration is returned for an unsupported reference qubit count
	// or an inconsistent optimizer configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidEntry is returned for an unrecognized topology tag.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrMissingParameter is returned when a parameter vector is shorter than required.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrNumericalInstability is returned when a unitarity or fidelity bound is violated.
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrInvalidInput is returned for malformed input data (coefficients, state vectors).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoValidCandidate is returned when a global search finishes without any finite cost.
	ErrNoValidCandidate = errors.New("no valid candidate")

	// ErrNotFound is returned by repositories for unknown identifiers.
	ErrNotFound = errors.New("not found")
)
