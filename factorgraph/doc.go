// Package factorgraph provides the generic factor-graph container: variable
// keys with fixed vector dimensions, elimination orderings, and a factor
// collection with a variable→factor adjacency index.
//
// The container is deliberately agnostic of factor algebra: any type
// implementing the Factor interface (a set of keys, each with a dimension)
// can be stored. The linear package builds the Gaussian elimination
// algorithm on top of it.
//
// Invariants maintained by construction:
//
//   - A factor handle appears in the index entry of variable v iff the
//     factor is present in the collection and references v.
//   - Handles are stable: once assigned by Add, a handle never changes and
//     is never reused within one graph instance, so iteration by sorted
//     handle is deterministic per graph history.
//   - No factor with zero variables is ever admitted (ErrEmptyFactor).
//
// No iteration order over factors is semantically meaningful; accessors that
// return slices sort by handle only as a determinism aid.
//
// Complexity:
//
//   - Add / Remove:            O(k) for a factor touching k variables
//   - Separator(v):            O(F_v · k) where F_v = factors touching v
//   - FindFactorsAndRemove(v): O(F_v · k + F_v log F_v)
//   - Variables:               O(F · k) with dimension-consistency check
//
// Graphs are not safe for concurrent mutation; callers own synchronization
// or use independent copies (Clone).
package factorgraph
