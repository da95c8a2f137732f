// Package linear implements exact inference over linear Gaussian factor
// graphs by sequential variable elimination.
//
// A Factor encodes one Gaussian constraint ‖(Σⱼ Aⱼ xⱼ − b)/σ‖² over a small
// ordered set of variables. A Graph holds factors plus the adjacency index
// (via package factorgraph) and drives the algorithm:
//
//  1. CombineFactors(key)  — extract every factor touching key and stack
//     their noise-whitened rows into one joint factor over {key} ∪ separator.
//  2. EliminateOne(key)    — a partial Householder QR sweep over the key's
//     column block splits the joint system into a Conditional
//     P(key | separator) = N(R⁻¹(d − Σ Sⱼ sⱼ), R⁻¹R⁻ᵀ) and a residual
//     factor over the separator alone, which is re-inserted into the graph.
//  3. Eliminate(ordering)  — repeats step 2 per the caller-supplied ordering,
//     appending each Conditional to a BayesNet (a chordal, topologically
//     ordered factorization of the joint density).
//  4. BayesNet.Optimize    — back-substitution in reverse elimination order
//     yields the least-squares solution as a VectorConfig.
//
// Matrix(ordering) assembles the equivalent dense (A, b) system and provides
// a reference path independent of the sparse algorithm; both must agree on
// the solved values up to numerical tolerance (and the tests check that).
//
// Determinism and order-invariance:
//
//	Factor extraction order is unspecified. Combination stacks rows, and row
//	stacking of independent constraints is order-invariant up to
//	floating-point accumulation; EliminateOne additionally canonicalizes the
//	conditional to a positive R diagonal, so any extraction order produces
//	the same Conditional up to fp. This is a documented contract, not an
//	implementation accident.
//
// Error policy:
//
//	All failures are synchronous and fail-fast sentinels (see errors.go):
//	dimension conflicts, empty elimination targets, bad orderings, and
//	ill-conditioned pivots. EliminateOne is atomic — on failure the graph is
//	restored to an equivalent pre-call state. None are retried internally;
//	the usual remedy for conditioning failures is AddPriors on a fresh copy.
//
// Graphs are not safe for concurrent mutation. Elimination is inherently
// sequential (each step consumes the previous step's residual), so share
// nothing: Clone per worker if concurrent solves are needed.
package linear
