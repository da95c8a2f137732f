// SPDX-License-Identifier: MIT
// Package linear: the numeric elimination kernel — factor combination and
// the partial Householder reduction that isolates one variable.

package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sarvex/gtsam/factorgraph"
)

// pivotTol is the conditioning guard: a pivot column whose norm falls below
// this during the reduction reports ErrIllConditioned instead of letting
// NaNs propagate into the conditional.
const pivotTol = 1e-12

// combine stacks the whitened rows of the extracted factors into one joint
// unit-noise factor over [key | sorted separator]. Pure: does not touch any
// graph. Row stacking is order-invariant up to floating-point accumulation,
// and the callers pass a deterministically ordered slice, so the result is
// reproducible either way.
//
// Errors: factorgraph.ErrDimensionMismatch if the factors disagree on any
// shared variable's dimension.
func combine(factors []*Factor, key factorgraph.Key) (*Factor, error) {
	// 1) Collect dimensions and the separator, checking consistency.
	dims := make(map[factorgraph.Key]int)
	rows := 0
	for _, f := range factors {
		rows += f.Rows()
		for _, k := range f.keys {
			d := f.Dim(k)
			if prev, ok := dims[k]; ok {
				if prev != d {
					return nil, fmt.Errorf("variable %q: dim %d vs %d: %w",
						k, prev, d, factorgraph.ErrDimensionMismatch)
				}

				continue
			}
			dims[k] = d
		}
	}

	// 2) Joint variable order: the eliminated key first, then the separator
	//    in sorted key order.
	order := make([]factorgraph.Key, 0, len(dims))
	order = append(order, key)
	for _, k := range factorgraph.Variables(dims).Keys() {
		if k != key {
			order = append(order, k)
		}
	}

	// 3) Stack: one zero block per joint variable, filled row-band by
	//    row-band with each factor's whitened coefficients.
	blocks := make(map[factorgraph.Key]*mat.Dense, len(order))
	for _, k := range order {
		blocks[k] = mat.NewDense(rows, dims[k], nil)
	}
	b := mat.NewVecDense(rows, nil)

	r0 := 0
	for _, f := range factors {
		w := 1 / f.sigma
		for _, k := range f.keys {
			src := f.blocks[k]
			br, bc := src.Dims()
			dst := blocks[k]
			for i := 0; i < br; i++ {
				for j := 0; j < bc; j++ {
					dst.Set(r0+i, j, w*src.At(i, j))
				}
			}
		}
		for i := 0; i < f.Rows(); i++ {
			b.SetVec(r0+i, w*f.b.AtVec(i))
		}
		r0 += f.Rows()
	}

	terms := make([]Term, 0, len(order))
	for _, k := range order {
		terms = append(terms, Term{Key: k, A: blocks[k]})
	}

	return NewFactor(b, 1, terms...)
}

// eliminateJoint performs the Gaussian elimination step on a joint factor
// whose first variable is key: a Householder sweep over key's column block
// triangularizes the system into
//
//	[ R  S | d ]   — rows 0..d−1:   the Conditional P(key | separator)
//	[ 0  A'| b']   — rows d..m−1:   the residual factor over the separator
//
// R is canonicalized to a positive diagonal by negating rows as needed, so
// repeated elimination of an equivalent system reproduces identical output.
// The residual is nil when no rows remain or the separator is empty (rows
// beyond the block then carry only the irreducible error — nothing to
// re-insert).
//
// Errors: ErrIllConditioned when a pivot column's norm under the remaining
// rows falls below pivotTol (rank-deficient or near-singular key block).
func eliminateJoint(joint *Factor, key factorgraph.Key) (*Conditional, *Factor, error) {
	m := joint.Rows()
	d := joint.Dim(key)
	parents := joint.Keys()[1:]

	// 1) Dense augmented system [A | b], columns in joint term order.
	cols := 0
	offsets := make(map[factorgraph.Key]int, 1+len(parents))
	for _, k := range joint.keys {
		offsets[k] = cols
		cols += joint.Dim(k)
	}
	ab := mat.NewDense(m, cols+1, nil)
	for _, k := range joint.keys {
		blk := joint.blocks[k]
		br, bc := blk.Dims()
		c0 := offsets[k]
		for i := 0; i < br; i++ {
			for j := 0; j < bc; j++ {
				ab.Set(i, c0+j, blk.At(i, j))
			}
		}
	}
	for i := 0; i < m; i++ {
		ab.Set(i, cols, joint.b.AtVec(i))
	}

	// 2) Householder sweep over columns 0..d−1 (the key's block).
	v := make([]float64, m)
	for k := 0; k < d; k++ {
		// 2.1) Column norm over the active rows k..m−1; this is |R[k,k]|
		//      after the reflection, so it doubles as the pivot guard.
		norm := 0.0
		for i := k; i < m; i++ {
			aik := ab.At(i, k)
			norm += aik * aik
		}
		norm = math.Sqrt(norm)
		if norm < pivotTol {
			return nil, nil, fmt.Errorf("variable %q, pivot %d: %w", key, k, ErrIllConditioned)
		}

		// 2.2) Reflector v = a_k − α e_k with α = −sign(a_kk)·‖a_k‖.
		alpha := -math.Copysign(norm, ab.At(k, k))
		for i := 0; i < k; i++ {
			v[i] = 0
		}
		for i := k; i < m; i++ {
			v[i] = ab.At(i, k)
		}
		v[k] -= alpha

		beta := 0.0
		for i := k; i < m; i++ {
			beta += v[i] * v[i]
		}
		if beta == 0 {
			continue // column already reduced
		}
		tau := 2 / beta

		// 2.3) Apply (I − τ v vᵀ) to every remaining column, rhs included.
		for j := k; j <= cols; j++ {
			sum := 0.0
			for i := k; i < m; i++ {
				sum += v[i] * ab.At(i, j)
			}
			for i := k; i < m; i++ {
				ab.Set(i, j, ab.At(i, j)-tau*v[i]*sum)
			}
		}

		// 2.4) The reflection zeroes the sub-diagonal of column k up to
		//      roundoff; clamp exactly so the residual rows stay clean.
		ab.Set(k, k, alpha)
		for i := k + 1; i < m; i++ {
			ab.Set(i, k, 0)
		}
	}

	// 3) Canonicalize: flip row signs so diag(R) > 0. Makes the conditional
	//    unique for a given joint system regardless of reflector signs.
	for k := 0; k < d; k++ {
		if ab.At(k, k) < 0 {
			for j := k; j <= cols; j++ {
				ab.Set(k, j, -ab.At(k, j))
			}
		}
	}

	// 4) Split out the conditional [R S | d].
	r := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			r.Set(i, j, ab.At(i, j))
		}
	}
	s := make(map[factorgraph.Key]*mat.Dense, len(parents))
	for _, p := range parents {
		pd := joint.Dim(p)
		c0 := offsets[p]
		blk := mat.NewDense(d, pd, nil)
		for i := 0; i < d; i++ {
			for j := 0; j < pd; j++ {
				blk.Set(i, j, ab.At(i, c0+j))
			}
		}
		s[p] = blk
	}
	dvec := mat.NewVecDense(d, nil)
	for i := 0; i < d; i++ {
		dvec.SetVec(i, ab.At(i, cols))
	}
	cond := newConditional(key, parents, r, s, dvec)

	// 5) Residual factor [A' | b'] over the separator, rows d..m−1.
	mrem := m - d
	if mrem <= 0 || len(parents) == 0 {
		return cond, nil, nil
	}
	terms := make([]Term, 0, len(parents))
	for _, p := range parents {
		pd := joint.Dim(p)
		c0 := offsets[p]
		blk := mat.NewDense(mrem, pd, nil)
		for i := 0; i < mrem; i++ {
			for j := 0; j < pd; j++ {
				blk.Set(i, j, ab.At(d+i, c0+j))
			}
		}
		terms = append(terms, Term{Key: p, A: blk})
	}
	bres := mat.NewVecDense(mrem, nil)
	for i := 0; i < mrem; i++ {
		bres.SetVec(i, ab.At(d+i, cols))
	}
	residual, err := NewFactor(bres, 1, terms...)
	if err != nil {
		return nil, nil, err
	}

	return cond, residual, nil
}
