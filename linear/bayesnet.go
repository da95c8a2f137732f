// SPDX-License-Identifier: MIT
// Package linear: the chordal Bayes net and the solved configuration.

package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sarvex/gtsam/factorgraph"
)

// VectorConfig maps each variable key to its solved vector value. Built once
// per solve by back-substitution; one entry per eliminated variable.
type VectorConfig map[factorgraph.Key]*mat.VecDense

// Contains reports whether the configuration holds a value for key.
func (c VectorConfig) Contains(key factorgraph.Key) bool {
	_, ok := c[key]

	return ok
}

// At returns the value for key.
//
// Errors: ErrMissingValue if the configuration has no entry for key.
func (c VectorConfig) At(key factorgraph.Key) (*mat.VecDense, error) {
	v, ok := c[key]
	if !ok {
		return nil, fmt.Errorf("variable %q: %w", key, ErrMissingValue)
	}

	return v, nil
}

// BayesNet is a chordal Bayes net: an append-only sequence of Conditionals
// forming a directed acyclic factorization of the joint density. The
// sequence runs in elimination order — leaves (first eliminated) first,
// root (last eliminated) last — so every conditional's parents appear later
// in the sequence. Never reordered after construction.
type BayesNet struct {
	conds []*Conditional
}

// NewBayesNet constructs an empty net.
func NewBayesNet() *BayesNet { return &BayesNet{} }

// Push appends a conditional; grows only, per the elimination contract.
func (bn *BayesNet) Push(c *Conditional) { bn.conds = append(bn.conds, c) }

// Len returns the number of conditionals.
func (bn *BayesNet) Len() int { return len(bn.conds) }

// At returns the i-th conditional in elimination order.
func (bn *BayesNet) At(i int) *Conditional { return bn.conds[i] }

// Conditionals returns the conditionals in elimination order (fresh slice;
// the conditionals themselves are immutable).
func (bn *BayesNet) Conditionals() []*Conditional {
	out := make([]*Conditional, len(bn.conds))
	copy(out, bn.conds)

	return out
}

// Optimize back-substitutes the net into a VectorConfig: the root (last
// eliminated, no parents) is solved first, then earlier conditionals consume
// the already solved parent values. A pure function of the net —
// deterministic, no external state.
//
// Errors: propagates Conditional.Solve failures (a missing parent here means
// the net violates its topological contract).
func (bn *BayesNet) Optimize() (VectorConfig, error) {
	cfg := make(VectorConfig, len(bn.conds))
	for i := len(bn.conds) - 1; i >= 0; i-- {
		c := bn.conds[i]
		x, err := c.Solve(cfg)
		if err != nil {
			return nil, fmt.Errorf("back-substitution at %q: %w", c.Key(), err)
		}
		cfg[c.Key()] = x
	}

	return cfg, nil
}
