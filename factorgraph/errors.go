// SPDX-License-Identifier: MIT
// Package factorgraph: sentinel error set.
// All errors returned by this package are (or wrap) one of the sentinels
// below; callers match them via errors.Is. Context (which key, which
// dimensions) is added at the call site with fmt.Errorf("...: %w", Err...).

package factorgraph

import "errors"

var (
	// ErrNilFactor indicates that a nil factor was passed to Add.
	ErrNilFactor = errors.New("factorgraph: factor is nil")

	// ErrEmptyFactor indicates a degenerate factor referencing zero
	// variables; such factors carry no constraint and are disallowed.
	ErrEmptyFactor = errors.New("factorgraph: factor references no variables")

	// ErrDimensionMismatch indicates that a variable key appears with
	// differing vector dimensions across factors. Reported by Variables
	// and by Combine.
	ErrDimensionMismatch = errors.New("factorgraph: inconsistent variable dimension")

	// ErrDuplicateKey indicates a repeated key in an Ordering or in a
	// factor's term list.
	ErrDuplicateKey = errors.New("factorgraph: duplicate variable key")

	// ErrUnknownVariable indicates that a referenced key is not present in
	// the graph (or, for Matrix assembly, not present in the ordering).
	ErrUnknownVariable = errors.New("factorgraph: unknown variable key")

	// ErrUnknownHandle indicates that Remove was called with a handle not
	// currently in the collection.
	ErrUnknownHandle = errors.New("factorgraph: unknown factor handle")

	// ErrNilGraph indicates that a nil graph was passed where a graph is
	// required (e.g. Combine).
	ErrNilGraph = errors.New("factorgraph: graph is nil")
)
