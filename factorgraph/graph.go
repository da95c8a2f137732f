// SPDX-License-Identifier: MIT
// Package factorgraph: the generic container. Holds an unordered factor
// collection plus the variable→factor adjacency index, mutated together so
// the two always agree.

package factorgraph

import (
	"fmt"
	"reflect"
	"sort"
)

// Graph is a generic factor-graph container over any Factor implementation.
//
// The zero value is not usable; construct with New. Not safe for concurrent
// mutation — the elimination algorithms built on top are strictly
// sequential, so the container stays lock-free and single-owner by design.
type Graph[F Factor] struct {
	factors map[Handle]F            // collection, keyed by stable handle
	index   map[Key]map[Handle]bool // variable → handles of factors touching it
	next    Handle                  // next handle to assign; never reused
}

// New constructs an empty graph.
func New[F Factor]() *Graph[F] {
	return &Graph[F]{
		factors: make(map[Handle]F),
		index:   make(map[Key]map[Handle]bool),
	}
}

// Len returns the number of factors currently stored. Time O(1).
func (g *Graph[F]) Len() int { return len(g.factors) }

// Add inserts f and updates the index entry of every variable it references.
// Duplicate logical factors are valid — their effects are additive under
// combination. Returns the stable handle assigned to f.
//
// Errors:
//   - ErrNilFactor if f is a nil pointer (or other nil-able nil).
//   - ErrEmptyFactor if f references no variables.
//   - ErrDuplicateKey if f repeats a key in its term list.
func (g *Graph[F]) Add(f F) (Handle, error) {
	if isNilFactor(f) {
		return 0, ErrNilFactor
	}
	keys := f.Keys()
	if len(keys) == 0 {
		return 0, ErrEmptyFactor
	}
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return 0, fmt.Errorf("factor key %q: %w", k, ErrDuplicateKey)
		}
		seen[k] = struct{}{}
	}

	h := g.next
	g.next++
	g.factors[h] = f
	for _, k := range keys {
		entry, ok := g.index[k]
		if !ok {
			entry = make(map[Handle]bool)
			g.index[k] = entry
		}
		entry[h] = true
	}

	return h, nil
}

// Remove deletes the factor stored under h from the collection and from
// every index entry it appears in. Empty index entries are pruned so that
// Separator and Variables never observe stale keys.
//
// Errors: ErrUnknownHandle if h is not in the collection.
func (g *Graph[F]) Remove(h Handle) error {
	f, ok := g.factors[h]
	if !ok {
		return fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
	}
	delete(g.factors, h)
	for _, k := range f.Keys() {
		if entry, ok := g.index[k]; ok {
			delete(entry, h)
			if len(entry) == 0 {
				delete(g.index, k)
			}
		}
	}

	return nil
}

// Factors returns a snapshot of the stored factors sorted by handle
// (insertion order). The slice is freshly allocated; mutating it does not
// affect the graph.
func (g *Graph[F]) Factors() []F {
	hs := g.handles()
	out := make([]F, 0, len(hs))
	for _, h := range hs {
		out = append(out, g.factors[h])
	}

	return out
}

// Variables returns every variable currently referenced by any factor, each
// paired with its recorded dimension.
//
// Errors: ErrDimensionMismatch if a key appears with differing dimensions
// across factors — a data-integrity violation, reported rather than
// reconciled.
func (g *Graph[F]) Variables() (Variables, error) {
	vars := make(Variables, len(g.index))
	for _, h := range g.handles() {
		f := g.factors[h]
		for _, k := range f.Keys() {
			d := f.Dim(k)
			if prev, ok := vars[k]; ok {
				if prev != d {
					return nil, fmt.Errorf("variable %q: recorded dim %d vs %d: %w",
						k, prev, d, ErrDimensionMismatch)
				}

				continue
			}
			vars[k] = d
		}
	}

	return vars, nil
}

// Separator returns the set of keys that co-occur with key in at least one
// factor, excluding key itself, in sorted order. Defined purely from the
// adjacency index; symmetric: v ∈ Separator(u) ⇔ u ∈ Separator(v).
func (g *Graph[F]) Separator(key Key) []Key {
	set := make(map[Key]struct{})
	for h := range g.index[key] {
		for _, k := range g.factors[h].Keys() {
			if k != key {
				set[k] = struct{}{}
			}
		}
	}
	out := make([]Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// FindFactorsAndRemove atomically extracts every factor referencing key,
// removing each from the collection and from all index entries. Afterwards
// the index for key is empty and key no longer appears in Variables.
//
// The extracted set is conceptually unordered — callers must not attach
// meaning to its order. It is returned sorted by handle purely so that
// downstream combination is reproducible per graph history; the combination
// algebra itself is required to be order-invariant.
//
// Calling again immediately for the same key returns an empty slice.
func (g *Graph[F]) FindFactorsAndRemove(key Key) []F {
	entry := g.index[key]
	if len(entry) == 0 {
		return nil
	}
	hs := make([]Handle, 0, len(entry))
	for h := range entry {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })

	out := make([]F, 0, len(hs))
	for _, h := range hs {
		out = append(out, g.factors[h])
		// Remove cannot fail here: h came from the index, which only holds
		// handles of stored factors.
		_ = g.Remove(h)
	}

	return out
}

// Combine unions other's factor collection into g. Variable keys are assumed
// to denote the same unknowns in both graphs; shared keys must agree on
// dimension. On a dimension conflict g is left unchanged.
//
// Errors: ErrNilGraph, ErrDimensionMismatch (and any error either graph's
// Variables reports).
func (g *Graph[F]) Combine(other *Graph[F]) error {
	if other == nil {
		return ErrNilGraph
	}

	// 1) Check dimension records agree on shared variables before touching g.
	mine, err := g.Variables()
	if err != nil {
		return err
	}
	theirs, err := other.Variables()
	if err != nil {
		return err
	}
	for k, d := range theirs {
		if prev, ok := mine[k]; ok && prev != d {
			return fmt.Errorf("variable %q: dim %d vs %d: %w", k, prev, d, ErrDimensionMismatch)
		}
	}

	// 2) Union: insert other's factors under fresh handles of g.
	for _, h := range other.handles() {
		if _, err = g.Add(other.factors[h]); err != nil {
			return err
		}
	}

	return nil
}

// Clone returns an independent copy of the container. Factors themselves are
// shared (they are immutable while stored); collection and index are copied.
func (g *Graph[F]) Clone() *Graph[F] {
	out := New[F]()
	out.next = g.next
	for h, f := range g.factors {
		out.factors[h] = f
	}
	for k, entry := range g.index {
		cp := make(map[Handle]bool, len(entry))
		for h := range entry {
			cp[h] = true
		}
		out.index[k] = cp
	}

	return out
}

// isNilFactor reports whether f, viewed through the Factor interface, holds
// a nil pointer (or other nil-able kind). Calling methods on such a value
// would dereference nil, so Add fails fast instead.
func isNilFactor[F Factor](f F) bool {
	v := reflect.ValueOf(f)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// handles returns all current handles in increasing order.
func (g *Graph[F]) handles() []Handle {
	hs := make([]Handle, 0, len(g.factors))
	for h := range g.factors {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })

	return hs
}
