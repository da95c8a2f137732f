// SPDX-License-Identifier: MIT
// Package factorgraph_test validates the generic container: index/collection
// agreement, separator symmetry, atomic extraction, dimension-consistency
// reporting, graph union, and ordering validation.
package factorgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarvex/gtsam/factorgraph"
)

// stubFactor is a minimal Factor implementation for container tests: keys
// with dimensions and no algebra.
type stubFactor struct {
	keys []factorgraph.Key
	dims map[factorgraph.Key]int
}

func stub(pairs ...any) *stubFactor {
	f := &stubFactor{dims: make(map[factorgraph.Key]int)}
	for i := 0; i < len(pairs); i += 2 {
		k := factorgraph.Key(pairs[i].(string))
		f.keys = append(f.keys, k)
		f.dims[k] = pairs[i+1].(int)
	}

	return f
}

func (f *stubFactor) Keys() []factorgraph.Key   { return f.keys }
func (f *stubFactor) Dim(k factorgraph.Key) int { return f.dims[k] }

// ------------------------------------------------------------------------
// 1. Add / Remove and index agreement.
// ------------------------------------------------------------------------

func TestGraph_AddUpdatesIndex(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub("x1", 2, "x2", 2))
	require.NoError(t, err)
	_, err = g.Add(stub("x2", 2, "x3", 3))
	require.NoError(t, err)

	require.Equal(t, 2, g.Len())
	vars, err := g.Variables()
	require.NoError(t, err)
	require.Equal(t, factorgraph.Variables{"x1": 2, "x2": 2, "x3": 3}, vars)
}

func TestGraph_AddRejectsNilFactor(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(nil)
	require.ErrorIs(t, err, factorgraph.ErrNilFactor)
	require.Equal(t, 0, g.Len())

	// A typed-nil smuggled through the interface is caught the same way.
	var f *stubFactor
	_, err = g.Add(f)
	require.ErrorIs(t, err, factorgraph.ErrNilFactor)
}

func TestGraph_AddRejectsEmptyFactor(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub())
	require.ErrorIs(t, err, factorgraph.ErrEmptyFactor)
	require.Equal(t, 0, g.Len())
}

func TestGraph_AddRejectsDuplicateTermKey(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	f := &stubFactor{
		keys: []factorgraph.Key{"x1", "x1"},
		dims: map[factorgraph.Key]int{"x1": 1},
	}
	_, err := g.Add(f)
	require.ErrorIs(t, err, factorgraph.ErrDuplicateKey)
}

func TestGraph_RemoveDropsAllIndexEntries(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	h, err := g.Add(stub("x1", 1, "x2", 1))
	require.NoError(t, err)
	_, err = g.Add(stub("x2", 1))
	require.NoError(t, err)

	require.NoError(t, g.Remove(h))
	require.Equal(t, 1, g.Len())

	// x1 must vanish from Variables once its only factor is gone.
	vars, err := g.Variables()
	require.NoError(t, err)
	require.Equal(t, factorgraph.Variables{"x2": 1}, vars)

	// Removing again is an error: the handle is no longer in the collection.
	require.ErrorIs(t, g.Remove(h), factorgraph.ErrUnknownHandle)
}

func TestGraph_DuplicateLogicalFactorsAreValid(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	f := stub("x1", 1)
	_, err := g.Add(f)
	require.NoError(t, err)
	_, err = g.Add(f) // same factor twice: additive, not an error
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
}

// ------------------------------------------------------------------------
// 2. Separator: adjacency-defined, symmetric, excludes the key itself.
// ------------------------------------------------------------------------

func TestGraph_SeparatorSymmetry(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub("x1", 1, "x2", 1))
	require.NoError(t, err)
	_, err = g.Add(stub("x2", 1, "x3", 1))
	require.NoError(t, err)

	require.Equal(t, []factorgraph.Key{"x2"}, g.Separator("x1"))
	require.Equal(t, []factorgraph.Key{"x1", "x3"}, g.Separator("x2"))
	require.Equal(t, []factorgraph.Key{"x2"}, g.Separator("x3"))

	// Symmetry: v ∈ Sep(u) ⇔ u ∈ Sep(v), for every pair present.
	for _, u := range []factorgraph.Key{"x1", "x2", "x3"} {
		for _, v := range g.Separator(u) {
			require.Contains(t, g.Separator(v), u, "separator must be symmetric")
		}
	}

	// A key with no factors has an empty separator.
	require.Empty(t, g.Separator("nope"))
}

// ------------------------------------------------------------------------
// 3. FindFactorsAndRemove: atomic extraction, idempotent on empty.
// ------------------------------------------------------------------------

func TestGraph_FindFactorsAndRemove(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub("x1", 1, "x2", 1))
	require.NoError(t, err)
	_, err = g.Add(stub("x2", 1, "x3", 1))
	require.NoError(t, err)
	_, err = g.Add(stub("x3", 1))
	require.NoError(t, err)

	got := g.FindFactorsAndRemove("x2")
	require.Len(t, got, 2)
	require.Equal(t, 1, g.Len())

	// Guarantee: x2's index is empty and x2 is gone from Variables; x1 lost
	// its only factor too, while x3 retains the unary factor.
	vars, err := g.Variables()
	require.NoError(t, err)
	require.Equal(t, factorgraph.Variables{"x3": 1}, vars)

	// Idempotent on the empty result.
	require.Empty(t, g.FindFactorsAndRemove("x2"))
}

// ------------------------------------------------------------------------
// 4. Variables: dimension-consistency is a hard error.
// ------------------------------------------------------------------------

func TestGraph_VariablesDimensionMismatch(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub("x1", 2))
	require.NoError(t, err)
	_, err = g.Add(stub("x1", 3)) // same key, different dimension
	require.NoError(t, err)

	_, err = g.Variables()
	require.ErrorIs(t, err, factorgraph.ErrDimensionMismatch)
}

// ------------------------------------------------------------------------
// 5. Combine: union with dimension guard; Clone independence.
// ------------------------------------------------------------------------

func TestGraph_CombineUnionsFactors(t *testing.T) {
	g1 := factorgraph.New[*stubFactor]()
	_, err := g1.Add(stub("x1", 1, "x2", 1))
	require.NoError(t, err)

	g2 := factorgraph.New[*stubFactor]()
	_, err = g2.Add(stub("x2", 1, "x3", 1))
	require.NoError(t, err)

	require.NoError(t, g1.Combine(g2))
	require.Equal(t, 2, g1.Len())
	vars, err := g1.Variables()
	require.NoError(t, err)
	require.Len(t, vars, 3)

	// The source graph is untouched.
	require.Equal(t, 1, g2.Len())
}

func TestGraph_CombineRejectsDimensionConflict(t *testing.T) {
	g1 := factorgraph.New[*stubFactor]()
	_, err := g1.Add(stub("x1", 2))
	require.NoError(t, err)

	g2 := factorgraph.New[*stubFactor]()
	_, err = g2.Add(stub("x1", 3))
	require.NoError(t, err)

	require.ErrorIs(t, g1.Combine(g2), factorgraph.ErrDimensionMismatch)
	require.Equal(t, 1, g1.Len(), "failed Combine must leave the receiver unchanged")
}

func TestGraph_CombineNilGraph(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	require.ErrorIs(t, g.Combine(nil), factorgraph.ErrNilGraph)
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := factorgraph.New[*stubFactor]()
	_, err := g.Add(stub("x1", 1, "x2", 1))
	require.NoError(t, err)

	cp := g.Clone()
	cp.FindFactorsAndRemove("x1")
	require.Equal(t, 0, cp.Len())
	require.Equal(t, 1, g.Len(), "mutating the clone must not affect the original")
}

// ------------------------------------------------------------------------
// 6. Ordering validation.
// ------------------------------------------------------------------------

func TestOrdering_Validate(t *testing.T) {
	require.NoError(t, factorgraph.Ordering{"x1", "x2", "x3"}.Validate())
	require.NoError(t, factorgraph.Ordering{}.Validate())
	err := factorgraph.Ordering{"x1", "x2", "x1"}.Validate()
	require.ErrorIs(t, err, factorgraph.ErrDuplicateKey)
}

func TestOrdering_Contains(t *testing.T) {
	o := factorgraph.Ordering{"x1", "x2"}
	require.True(t, o.Contains("x2"))
	require.False(t, o.Contains("x3"))
}
