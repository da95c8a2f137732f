// SPDX-License-Identifier: MIT
// Package factorgraph: core value types shared by the container and by
// downstream algorithm packages.

package factorgraph

import (
	"fmt"
	"sort"
)

// Key identifies one unknown of the problem. Keys are opaque, comparable and
// totally ordered by string comparison; every occurrence of a Key across all
// factors in a graph must carry the same vector dimension.
type Key string

// Variables maps each variable key to its recorded vector dimension.
// Produced by Graph.Variables after a consistency check.
type Variables map[Key]int

// Keys returns the variable keys in sorted order.
func (v Variables) Keys() []Key {
	out := make([]Key, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Ordering is an externally supplied elimination sequence: variable keys with
// no repeats, consumed in order by Eliminate. The container never mutates it.
type Ordering []Key

// Validate reports ErrDuplicateKey if the ordering repeats a key.
// Time O(n), Space O(n).
func (o Ordering) Validate() error {
	seen := make(map[Key]struct{}, len(o))
	for _, k := range o {
		if _, dup := seen[k]; dup {
			return fmt.Errorf("ordering key %q: %w", k, ErrDuplicateKey)
		}
		seen[k] = struct{}{}
	}

	return nil
}

// Contains reports whether key appears in the ordering. Time O(n).
func (o Ordering) Contains(key Key) bool {
	for _, k := range o {
		if k == key {
			return true
		}
	}

	return false
}

// Factor is the minimal contract a stored constraint must satisfy: the
// ordered set of variable keys it references and the vector dimension it
// records for each. Implementations must be immutable while stored.
type Factor interface {
	// Keys returns the referenced variable keys; must be non-empty and
	// duplicate-free.
	Keys() []Key

	// Dim returns the vector dimension the factor records for key, or 0 if
	// the factor does not reference key.
	Dim(key Key) int
}

// Handle is a stable identifier for a factor within one graph instance.
// Handles are assigned by Add in increasing order and never reused, so
// sorting by handle reproduces insertion order.
type Handle int
