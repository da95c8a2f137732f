// SPDX-License-Identifier: MIT
// Package linear: the Conditional Gaussian — the per-variable product of
// elimination.

package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sarvex/gtsam/factorgraph"
)

// Conditional expresses one eliminated ("child") variable as an affine
// function of its separator ("parent") variables plus unit Gaussian noise:
//
//	R x = d − Σⱼ Sⱼ sⱼ + ε,   ε ~ N(0, I)
//
// where R is upper triangular with positive diagonal. Produced exactly once,
// at the moment the child is eliminated, and immutable thereafter.
type Conditional struct {
	key     factorgraph.Key
	parents []factorgraph.Key // sorted separator order fixed at elimination
	r       *mat.Dense        // d×d upper triangular, diag > 0
	s       map[factorgraph.Key]*mat.Dense
	d       *mat.VecDense
}

// newConditional wires an elimination result. Inputs are owned by the
// conditional from here on; the elimination kernel builds them fresh.
func newConditional(key factorgraph.Key, parents []factorgraph.Key,
	r *mat.Dense, s map[factorgraph.Key]*mat.Dense, d *mat.VecDense) *Conditional {
	return &Conditional{key: key, parents: parents, r: r, s: s, d: d}
}

// Key returns the child variable.
func (c *Conditional) Key() factorgraph.Key { return c.key }

// Parents returns the separator keys in the conditional's fixed order
// (fresh slice).
func (c *Conditional) Parents() []factorgraph.Key {
	out := make([]factorgraph.Key, len(c.parents))
	copy(out, c.parents)

	return out
}

// Dim returns the child variable's vector dimension.
func (c *Conditional) Dim() int { return c.d.Len() }

// R returns a copy of the upper-triangular child coefficient block.
func (c *Conditional) R() *mat.Dense { return mat.DenseCopyOf(c.r) }

// S returns a copy of the coefficient block for parent key, or nil if key is
// not a parent.
func (c *Conditional) S(key factorgraph.Key) *mat.Dense {
	blk, ok := c.s[key]
	if !ok {
		return nil
	}

	return mat.DenseCopyOf(blk)
}

// D returns a copy of the right-hand side.
func (c *Conditional) D() *mat.VecDense { return mat.VecDenseCopyOf(c.d) }

// Solve computes the child's value x = R⁻¹ (d − Σⱼ Sⱼ sⱼ) given already
// solved parent values in cfg, by backward substitution over R.
//
// Errors:
//   - ErrMissingValue if a parent is absent from cfg.
//   - ErrShapeMismatch if a parent value has the wrong length.
//   - ErrIllConditioned on a zero diagonal entry (cannot occur for
//     conditionals produced by EliminateOne, which guards pivots).
func (c *Conditional) Solve(cfg VectorConfig) (*mat.VecDense, error) {
	n := c.d.Len()

	// 1) rhs = d − Σⱼ Sⱼ sⱼ over the parents.
	rhs := mat.VecDenseCopyOf(c.d)
	tmp := mat.NewVecDense(n, nil)
	for _, p := range c.parents {
		v, ok := cfg[p]
		if !ok {
			return nil, fmt.Errorf("parent %q: %w", p, ErrMissingValue)
		}
		blk := c.s[p]
		if _, cols := blk.Dims(); cols != v.Len() {
			return nil, fmt.Errorf("parent %q: value length %d vs dim %d: %w",
				p, v.Len(), cols, ErrShapeMismatch)
		}
		tmp.MulVec(blk, v)
		rhs.SubVec(rhs, tmp)
	}

	// 2) Backward substitution: R x = rhs, bottom-up, fixed order.
	x := mat.NewVecDense(n, nil)
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for j := i + 1; j < n; j++ {
			sum += c.r.At(i, j) * x.AtVec(j)
		}
		pivot := c.r.At(i, i)
		if pivot == 0 {
			return nil, fmt.Errorf("diagonal %d: %w", i, ErrIllConditioned)
		}
		x.SetVec(i, (rhs.AtVec(i)-sum)/pivot)
	}

	return x, nil
}

// toFactor converts the conditional back into an equivalent unit-noise
// factor [R | S... | d]. Used by Graph.SetBayesNet to seed a graph from a
// Bayes net; re-eliminating with the same ordering reproduces the net.
func (c *Conditional) toFactor() (*Factor, error) {
	terms := make([]Term, 0, 1+len(c.parents))
	terms = append(terms, Term{Key: c.key, A: c.r})
	for _, p := range c.parents {
		terms = append(terms, Term{Key: p, A: c.s[p]})
	}

	return NewFactor(c.d, 1, terms...)
}
