// SPDX-License-Identifier: MIT
// Package linear: sentinel error set.
// Dimension, duplicate-key and unknown-variable conditions reuse the
// factorgraph sentinels so callers match one vocabulary across packages;
// the sentinels below are specific to the Gaussian algebra.

package linear

import "errors"

var (
	// ErrNilFactor indicates a nil *Factor passed to Add or NewFactor input.
	ErrNilFactor = errors.New("linear: factor is nil")

	// ErrNoTerms indicates a factor constructed with zero variable terms;
	// such a factor is degenerate and disallowed.
	ErrNoTerms = errors.New("linear: factor has no variable terms")

	// ErrBadSigma indicates a non-positive noise sigma.
	ErrBadSigma = errors.New("linear: sigma must be positive")

	// ErrShapeMismatch indicates that a coefficient block's row count does
	// not match the factor's right-hand side.
	ErrShapeMismatch = errors.New("linear: coefficient rows do not match rhs length")

	// ErrEmptyElimination indicates elimination of a variable with no
	// remaining adjacent factors — the system is underdetermined in that
	// variable, reported rather than silently producing a trivial result.
	ErrEmptyElimination = errors.New("linear: no factors involve the elimination target")

	// ErrIllConditioned indicates that the triangular reduction met a
	// (near-)singular pivot block. The caller may regularize (AddPriors)
	// and retry on a fresh copy.
	ErrIllConditioned = errors.New("linear: elimination pivot is (near-)singular")

	// ErrIncompleteOrdering indicates an ordering that does not exhaust all
	// graph variables where full coverage is required (Eliminate, Matrix).
	ErrIncompleteOrdering = errors.New("linear: ordering does not cover all graph variables")

	// ErrMissingValue indicates that back-substitution or error evaluation
	// needed a variable's value that the configuration does not contain.
	ErrMissingValue = errors.New("linear: configuration is missing a required variable")

	// ErrNilBayesNet indicates a nil *BayesNet where one is required.
	ErrNilBayesNet = errors.New("linear: bayes net is nil")
)
