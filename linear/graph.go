// SPDX-License-Identifier: MIT
// Package linear: the linear factor graph — container specialization plus
// the elimination driver. The numeric kernel lives in eliminate.go.

package linear

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sarvex/gtsam/factorgraph"
)

// Graph is a factor graph whose factors are all Gaussian. It owns its
// factors and adjacency index exclusively; elimination mutates it in place.
// Not safe for concurrent mutation — Clone per worker instead.
type Graph struct {
	fg *factorgraph.Graph[*Factor]
}

// NewGraph constructs an empty linear factor graph.
func NewGraph() *Graph {
	return &Graph{fg: factorgraph.New[*Factor]()}
}

// FromBayesNet constructs a graph equivalent to the given chordal Bayes net
// by converting each conditional back into a unit-noise factor.
func FromBayesNet(bn *BayesNet) (*Graph, error) {
	g := NewGraph()
	if err := g.SetBayesNet(bn); err != nil {
		return nil, err
	}

	return g, nil
}

// SetBayesNet resets the graph to hold exactly one factor [R | S… | d] per
// conditional of bn. Re-eliminating with the original ordering reproduces
// the same Bayes net (positive-diagonal canonicalization makes the
// round-trip exact up to floating point).
func (g *Graph) SetBayesNet(bn *BayesNet) error {
	if bn == nil {
		return ErrNilBayesNet
	}
	fresh := factorgraph.New[*Factor]()
	for _, c := range bn.Conditionals() {
		f, err := c.toFactor()
		if err != nil {
			return fmt.Errorf("conditional %q: %w", c.Key(), err)
		}
		if _, err = fresh.Add(f); err != nil {
			return fmt.Errorf("conditional %q: %w", c.Key(), err)
		}
	}
	g.fg = fresh

	return nil
}

// Add inserts a factor and updates the adjacency index.
func (g *Graph) Add(f *Factor) error {
	if f == nil {
		return ErrNilFactor
	}
	_, err := g.fg.Add(f)

	return err
}

// Len returns the number of factors currently in the graph.
func (g *Graph) Len() int { return g.fg.Len() }

// Factors returns a snapshot of the stored factors (insertion order).
func (g *Graph) Factors() []*Factor { return g.fg.Factors() }

// Variables returns every variable referenced by any factor with its
// dimension; fails with factorgraph.ErrDimensionMismatch on conflicting
// records.
func (g *Graph) Variables() (factorgraph.Variables, error) { return g.fg.Variables() }

// FindSeparator returns the keys sharing at least one factor with key,
// excluding key itself, in sorted order.
func (g *Graph) FindSeparator(key factorgraph.Key) []factorgraph.Key {
	return g.fg.Separator(key)
}

// FindFactorsAndRemove atomically extracts and removes every factor that
// references key. The result order is unspecified and must not be relied
// upon; downstream combination is order-invariant.
func (g *Graph) FindFactorsAndRemove(key factorgraph.Key) []*Factor {
	return g.fg.FindFactorsAndRemove(key)
}

// CombineFactors extracts (and removes) every factor referencing key and
// stacks their whitened rows into one joint unit-noise factor over
// {key} ∪ separator, key's columns first, separator in sorted order.
//
// Errors:
//   - ErrEmptyElimination if no factor involves key — eliminating an
//     unconstrained variable is underdetermined and must be reported.
//   - factorgraph.ErrDimensionMismatch on conflicting dimension records
//     (extracted factors are restored).
func (g *Graph) CombineFactors(key factorgraph.Key) (*Factor, error) {
	extracted := g.fg.FindFactorsAndRemove(key)
	if len(extracted) == 0 {
		return nil, fmt.Errorf("variable %q: %w", key, ErrEmptyElimination)
	}
	joint, err := combine(extracted, key)
	if err != nil {
		g.restore(extracted)

		return nil, err
	}

	return joint, nil
}

// EliminateOne eliminates a single variable: combine the factors touching
// key, run the triangular reduction isolating key, re-insert the residual
// factor over the separator (if the separator is non-empty), and return the
// conditional P(key | separator).
//
// The step is atomic from the caller's point of view: on any failure the
// extracted factors are re-inserted and the graph holds contents equivalent
// to its pre-call state.
//
// Errors: ErrEmptyElimination, factorgraph.ErrDimensionMismatch,
// ErrIllConditioned.
func (g *Graph) EliminateOne(key factorgraph.Key) (*Conditional, error) {
	extracted := g.fg.FindFactorsAndRemove(key)
	if len(extracted) == 0 {
		return nil, fmt.Errorf("variable %q: %w", key, ErrEmptyElimination)
	}
	joint, err := combine(extracted, key)
	if err != nil {
		g.restore(extracted)

		return nil, err
	}
	cond, residual, err := eliminateJoint(joint, key)
	if err != nil {
		g.restore(extracted)

		return nil, err
	}
	if residual != nil {
		if _, err = g.fg.Add(residual); err != nil {
			g.restore(extracted)

			return nil, err
		}
	}

	return cond, nil
}

// Eliminate runs EliminateOne for each key of ordering in sequence,
// appending each conditional to a Bayes net. The ordering must be
// duplicate-free and exactly cover the graph's variables. The graph is
// consumed: after success it holds no factors.
//
// Errors (validated up front, before any mutation):
//   - factorgraph.ErrDuplicateKey     — repeated ordering entry.
//   - factorgraph.ErrUnknownVariable  — ordering references a variable not
//     in the graph (including already-eliminated ones on a reused graph).
//   - ErrIncompleteOrdering           — ordering does not exhaust all
//     graph variables.
func (g *Graph) Eliminate(ordering factorgraph.Ordering) (*BayesNet, error) {
	if err := g.checkOrdering(ordering, true); err != nil {
		return nil, err
	}

	return g.eliminateInOrder(ordering)
}

// EliminatePartially is Eliminate without the coverage requirement: the
// ordering may name a subset of the graph's variables. Leftover factors
// over un-eliminated variables remain in the graph, which may be eliminated
// further by a later call. Returns the (topologically valid) partial net.
func (g *Graph) EliminatePartially(ordering factorgraph.Ordering) (*BayesNet, error) {
	if err := g.checkOrdering(ordering, false); err != nil {
		return nil, err
	}

	return g.eliminateInOrder(ordering)
}

// eliminateInOrder is the shared elimination loop. A mid-sequence failure is
// returned as-is; per the error policy the whole attempt is then fatal and
// the caller restarts from a fresh copy.
func (g *Graph) eliminateInOrder(ordering factorgraph.Ordering) (*BayesNet, error) {
	bn := NewBayesNet()
	for _, key := range ordering {
		cond, err := g.EliminateOne(key)
		if err != nil {
			return nil, fmt.Errorf("eliminating %q: %w", key, err)
		}
		bn.Push(cond)
	}

	return bn, nil
}

// Optimize eliminates the whole graph per ordering, then back-substitutes
// the resulting Bayes net into a VectorConfig with one entry per variable.
func (g *Graph) Optimize(ordering factorgraph.Ordering) (VectorConfig, error) {
	bn, err := g.Eliminate(ordering)
	if err != nil {
		return nil, err
	}

	return bn.Optimize()
}

// Combine unions other's factors into g in place. Shared keys must agree on
// dimension; on conflict g is unchanged.
func (g *Graph) Combine(other *Graph) error {
	if other == nil {
		return factorgraph.ErrNilGraph
	}

	return g.fg.Combine(other.fg)
}

// Combine2 returns a new graph holding the union of g1's and g2's factor
// collections. Neither input is mutated.
func Combine2(g1, g2 *Graph) (*Graph, error) {
	if g1 == nil || g2 == nil {
		return nil, factorgraph.ErrNilGraph
	}
	out := NewGraph()
	if err := out.Combine(g1); err != nil {
		return nil, err
	}
	if err := out.Combine(g2); err != nil {
		return nil, err
	}

	return out, nil
}

// AddPriors returns a new graph equal to g plus, for every variable, one
// zero-mean Gaussian prior factor I·x = 0 with noise sigma (isotropic
// precision 1/σ²). Regularizes otherwise-singular systems; as sigma → ∞ the
// solution approaches the non-regularized one. The receiver is unchanged.
//
// Errors: ErrBadSigma, plus any Variables inconsistency.
func (g *Graph) AddPriors(sigma float64) (*Graph, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma %g: %w", sigma, ErrBadSigma)
	}
	vars, err := g.Variables()
	if err != nil {
		return nil, err
	}

	out := g.Clone()
	for _, k := range vars.Keys() {
		dim := vars[k]
		eye := mat.NewDense(dim, dim, nil)
		for i := 0; i < dim; i++ {
			eye.Set(i, i, 1)
		}
		prior, err := NewFactor(mat.NewVecDense(dim, nil), sigma, Term{Key: k, A: eye})
		if err != nil {
			return nil, fmt.Errorf("prior on %q: %w", k, err)
		}
		if err = out.Add(prior); err != nil {
			return nil, fmt.Errorf("prior on %q: %w", k, err)
		}
	}

	return out, nil
}

// Matrix assembles the dense system (A, b) equivalent to the graph: every
// factor's whitened rows stacked, columns grouped into contiguous blocks per
// ordering (each variable occupies Dim columns). A reference/debug path
// independent of the sparse elimination; least-squares on (A, b) must agree
// with Optimize on the same ordering up to numerical tolerance.
//
// Errors:
//   - factorgraph.ErrDuplicateKey     — repeated ordering entry.
//   - factorgraph.ErrUnknownVariable  — ordering names a variable the graph
//     does not contain.
//   - ErrIncompleteOrdering           — a graph variable is missing from
//     the ordering.
//   - ErrNoTerms                      — the graph holds no factors.
func (g *Graph) Matrix(ordering factorgraph.Ordering) (*mat.Dense, *mat.VecDense, error) {
	if err := ordering.Validate(); err != nil {
		return nil, nil, err
	}
	vars, err := g.Variables()
	if err != nil {
		return nil, nil, err
	}

	// 1) Column offsets per ordering; every ordering key must be a graph
	//    variable, and every graph variable must be ordered.
	offsets := make(map[factorgraph.Key]int, len(ordering))
	cols := 0
	for _, k := range ordering {
		dim, ok := vars[k]
		if !ok {
			return nil, nil, fmt.Errorf("ordering key %q: %w", k, factorgraph.ErrUnknownVariable)
		}
		offsets[k] = cols
		cols += dim
	}
	for k := range vars {
		if _, ok := offsets[k]; !ok {
			return nil, nil, fmt.Errorf("variable %q not ordered: %w", k, ErrIncompleteOrdering)
		}
	}

	factors := g.fg.Factors()
	rows := 0
	for _, f := range factors {
		rows += f.Rows()
	}
	if rows == 0 || cols == 0 {
		return nil, nil, fmt.Errorf("graph has no factors: %w", ErrNoTerms)
	}

	// 2) Stack whitened rows, factor by factor in insertion order.
	a := mat.NewDense(rows, cols, nil)
	b := mat.NewVecDense(rows, nil)
	r0 := 0
	for _, f := range factors {
		w := 1 / f.sigma
		for _, k := range f.keys {
			blk := f.blocks[k]
			br, bc := blk.Dims()
			c0 := offsets[k]
			for i := 0; i < br; i++ {
				for j := 0; j < bc; j++ {
					a.Set(r0+i, c0+j, w*blk.At(i, j))
				}
			}
		}
		for i := 0; i < f.Rows(); i++ {
			b.SetVec(r0+i, w*f.b.AtVec(i))
		}
		r0 += f.Rows()
	}

	return a, b, nil
}

// Error returns the total weighted squared residual ½ Σ_f ‖(A x − b)/σ‖²
// over all factors at cfg.
func (g *Graph) Error(cfg VectorConfig) (float64, error) {
	total := 0.0
	for _, f := range g.fg.Factors() {
		e, err := f.Error(cfg)
		if err != nil {
			return 0, err
		}
		total += e
	}

	return total, nil
}

// Clone returns an independent copy of the graph. Factors are shared (they
// are immutable); container and index are copied, so elimination on the
// clone leaves the original intact.
func (g *Graph) Clone() *Graph { return &Graph{fg: g.fg.Clone()} }

// checkOrdering validates an elimination ordering up front so the loop never
// starts on a doomed sequence. full additionally requires the ordering to
// exhaust the graph's variables.
func (g *Graph) checkOrdering(ordering factorgraph.Ordering, full bool) error {
	if err := ordering.Validate(); err != nil {
		return err
	}
	vars, err := g.Variables()
	if err != nil {
		return err
	}
	for _, k := range ordering {
		if _, ok := vars[k]; !ok {
			return fmt.Errorf("ordering key %q: %w", k, factorgraph.ErrUnknownVariable)
		}
	}
	if full && len(ordering) != len(vars) {
		missing := make([]string, 0, len(vars))
		for k := range vars {
			if !ordering.Contains(k) {
				missing = append(missing, string(k))
			}
		}
		sort.Strings(missing)

		return fmt.Errorf("unordered variables %v: %w", missing, ErrIncompleteOrdering)
	}

	return nil
}

// restore re-inserts extracted factors after a failed elimination step.
// Handles differ from the originals, but graph contents — factors and index
// — are equivalent to the pre-call state.
func (g *Graph) restore(fs []*Factor) {
	for _, f := range fs {
		// Add cannot fail: the factors were stored before extraction.
		_, _ = g.fg.Add(f)
	}
}
