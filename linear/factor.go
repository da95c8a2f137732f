// SPDX-License-Identifier: MIT
// Package linear: the Gaussian factor — one linear constraint over a small
// ordered set of variables.

package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sarvex/gtsam/factorgraph"
)

// Term pairs a variable key with its coefficient block. Within one factor,
// every block has the same number of rows (the factor's measurement
// dimension) and the block's column count is the variable's dimension.
type Term struct {
	Key factorgraph.Key
	A   *mat.Dense
}

// Factor is one linear Gaussian constraint
//
//	‖(Σⱼ Aⱼ xⱼ − b) / σ‖²
//
// over the variables named by its terms. Immutable once constructed; the
// only way to merge constraints is explicit combination during elimination.
type Factor struct {
	keys   []factorgraph.Key // term order as given at construction
	blocks map[factorgraph.Key]*mat.Dense
	b      *mat.VecDense
	sigma  float64
}

// NewFactor constructs a factor from a right-hand side, an isotropic noise
// sigma, and one coefficient term per referenced variable.
//
// Validation (fail-fast, in order):
//  1. at least one term            (ErrNoTerms — zero-variable factors are degenerate)
//  2. b non-nil, sigma > 0         (ErrNilFactor / ErrBadSigma)
//  3. no duplicate term keys       (factorgraph.ErrDuplicateKey)
//  4. every block non-nil with     (ErrShapeMismatch)
//     rows == b.Len()
//
// The rhs and blocks are copied defensively; callers may reuse their inputs.
func NewFactor(b *mat.VecDense, sigma float64, terms ...Term) (*Factor, error) {
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	if b == nil {
		return nil, fmt.Errorf("rhs: %w", ErrNilFactor)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma %g: %w", sigma, ErrBadSigma)
	}

	rows := b.Len()
	f := &Factor{
		keys:   make([]factorgraph.Key, 0, len(terms)),
		blocks: make(map[factorgraph.Key]*mat.Dense, len(terms)),
		b:      mat.VecDenseCopyOf(b),
		sigma:  sigma,
	}
	for _, t := range terms {
		if _, dup := f.blocks[t.Key]; dup {
			return nil, fmt.Errorf("term %q: %w", t.Key, factorgraph.ErrDuplicateKey)
		}
		if t.A == nil {
			return nil, fmt.Errorf("term %q: %w", t.Key, ErrNilFactor)
		}
		r, _ := t.A.Dims()
		if r != rows {
			return nil, fmt.Errorf("term %q: %d rows vs rhs %d: %w", t.Key, r, rows, ErrShapeMismatch)
		}
		f.keys = append(f.keys, t.Key)
		f.blocks[t.Key] = mat.DenseCopyOf(t.A)
	}

	return f, nil
}

// Keys returns the factor's variable keys in term order (fresh slice).
func (f *Factor) Keys() []factorgraph.Key {
	out := make([]factorgraph.Key, len(f.keys))
	copy(out, f.keys)

	return out
}

// Dim returns the vector dimension the factor records for key (block column
// count), or 0 if the factor does not reference key.
func (f *Factor) Dim(key factorgraph.Key) int {
	blk, ok := f.blocks[key]
	if !ok {
		return 0
	}
	_, c := blk.Dims()

	return c
}

// Rows returns the factor's measurement dimension (rhs length).
func (f *Factor) Rows() int { return f.b.Len() }

// Sigma returns the isotropic noise standard deviation.
func (f *Factor) Sigma() float64 { return f.sigma }

// Block returns a copy of the coefficient block for key, or nil if the
// factor does not reference key.
func (f *Factor) Block(key factorgraph.Key) *mat.Dense {
	blk, ok := f.blocks[key]
	if !ok {
		return nil
	}

	return mat.DenseCopyOf(blk)
}

// B returns a copy of the right-hand side.
func (f *Factor) B() *mat.VecDense { return mat.VecDenseCopyOf(f.b) }

// Error returns the weighted squared residual ½‖(Σⱼ Aⱼ xⱼ − b)/σ‖² at cfg.
//
// Errors: ErrMissingValue if cfg lacks one of the factor's variables,
// ErrShapeMismatch if a stored value has the wrong length.
func (f *Factor) Error(cfg VectorConfig) (float64, error) {
	r := mat.NewVecDense(f.Rows(), nil)
	r.ScaleVec(-1, f.b) // r = −b, then accumulate Aⱼ xⱼ
	tmp := mat.NewVecDense(f.Rows(), nil)
	for _, k := range f.keys {
		x, ok := cfg[k]
		if !ok {
			return 0, fmt.Errorf("variable %q: %w", k, ErrMissingValue)
		}
		blk := f.blocks[k]
		if _, c := blk.Dims(); c != x.Len() {
			return 0, fmt.Errorf("variable %q: value length %d vs dim %d: %w",
				k, x.Len(), f.Dim(k), ErrShapeMismatch)
		}
		tmp.MulVec(blk, x)
		r.AddVec(r, tmp)
	}
	w := 1 / f.sigma

	return 0.5 * w * w * mat.Dot(r, r), nil
}
