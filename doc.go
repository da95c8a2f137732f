// Package gtsam is an in-memory engine for exact inference over linear
// Gaussian factor graphs by sequential variable elimination.
//
// 🚀 What does it do?
//
//	A linear factor graph — a set of Gaussian constraints, each touching a
//	small subset of variables — is eliminated one variable at a time in a
//	caller-supplied order. Each step marginalizes one variable out, emitting
//	a conditional density of that variable given its separator and a residual
//	factor over the separator alone. Full elimination yields a chordal Bayes
//	net; back-substitution over the net recovers the least-squares solution.
//	This is the computational back end of estimation pipelines (pose/landmark
//	SLAM, sensor fusion) after a nonlinear problem has been linearized.
//
// ✨ Design points:
//
//   - Explicit ownership — graphs own their factors and a variable→factor
//     adjacency index kept consistent by construction; conditionals, once
//     emitted into a Bayes net, are immutable.
//   - Fail-fast sentinel errors — dimension conflicts, empty elimination
//     targets, bad orderings and ill-conditioned pivots are all reported
//     synchronously, never papered over.
//   - Order-invariant combination — factor extraction order is unspecified
//     and the combination algebra is documented (and tested) to not depend
//     on it.
//
// The module is organized in two subpackages:
//
//	factorgraph/ — variable keys, orderings, and the generic factor
//	              container with its adjacency index
//	linear/      — Gaussian factors, conditionals, the Bayes net, and the
//	              elimination algorithm itself (gonum/mat based)
//
// Quick sketch:
//
//	x1 ──f── x2 ──f── x3 ──f(prior)
//
//	g := linear.NewGraph()          // add factors ...
//	bn, err := g.Eliminate(ordering)
//	cfg, err := bn.Optimize()       // VectorConfig: key → solved vector
//
// Graphs are not safe for concurrent mutation; elimination is strictly
// sequential. Use independent copies (Clone) per worker if needed.
package gtsam
