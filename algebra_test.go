package hllset

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// three returns sketches A = [0, n), B = [off, off+n) and the sketch of
// their combined stream, all over the same key space.
func three(t *testing.T, p uint8, n, off int) (a, b, both *Sketch) {
	t.Helper()
	var err error
	a, err = New(p)
	require.NoError(t, err)
	b, err = New(p)
	require.NoError(t, err)
	both, err = New(p)
	require.NoError(t, err)

	for i := range n {
		a.InsertString(fmt.Sprintf("el-%d", i))
		b.InsertString(fmt.Sprintf("el-%d", i+off))
	}
	for i := range n + off {
		both.InsertString(fmt.Sprintf("el-%d", i))
	}
	return a, b, both
}

func TestUnionLossless(t *testing.T) {
	// The union of two sketches is bit-for-bit the sketch of the combined
	// stream. This is the exactness guarantee everything else leans on.
	a, b, both := three(t, 10, 6000, 3000)

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.True(t, u.Equal(both))
	assert.Equal(t, both.Estimate(), u.Estimate())
	assert.Equal(t, both.ID(), u.ID())
}

func TestUnionLaws(t *testing.T) {
	a, b, _ := three(t, 10, 4000, 2000)
	c, err := New(10)
	require.NoError(t, err)
	fill(c, "third", 4000)

	ab, err := a.Union(b)
	require.NoError(t, err)
	ba, err := b.Union(a)
	require.NoError(t, err)
	assert.True(t, ab.Equal(ba), "union is commutative")

	abc1, err := ab.Union(c)
	require.NoError(t, err)
	bc, err := b.Union(c)
	require.NoError(t, err)
	abc2, err := a.Union(bc)
	require.NoError(t, err)
	assert.True(t, abc1.Equal(abc2), "union is associative")

	aa, err := a.Union(a)
	require.NoError(t, err)
	assert.True(t, aa.Equal(a), "union is idempotent")
}

func TestUnionWithEmpty(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)
	fill(a, "ue", 1000)
	empty, err := New(10)
	require.NoError(t, err)

	u, err := a.Union(empty)
	require.NoError(t, err)
	assert.True(t, u.Equal(a), "empty is the union identity")
}

func TestUnionDoesNotMutateOperands(t *testing.T) {
	a, b, _ := three(t, 10, 2000, 1000)
	aBefore, bBefore := a.Clone(), b.Clone()

	_, err := a.Union(b)
	require.NoError(t, err)
	assert.True(t, a.Equal(aBefore))
	assert.True(t, b.Equal(bBefore))
}

func TestIntersectLaws(t *testing.T) {
	a, b, _ := three(t, 10, 4000, 2000)

	ab, err := a.Intersect(b)
	require.NoError(t, err)
	ba, err := b.Intersect(a)
	require.NoError(t, err)
	assert.True(t, ab.Equal(ba), "intersection is commutative")

	aa, err := a.Intersect(a)
	require.NoError(t, err)
	assert.True(t, aa.Equal(a), "intersection is idempotent")

	empty, err := New(10)
	require.NoError(t, err)
	none, err := a.Intersect(empty)
	require.NoError(t, err)
	assert.Equal(t, 0.0, none.Estimate(), "intersection with empty is empty")
}

func TestIntersectEstimate(t *testing.T) {
	// 2k and 2k with 1k in common, at a precision that keeps registers
	// lightly loaded. Intersection estimates skew high as load grows
	// (unrelated elements colliding on the same flags), so the margin is
	// wider than the base estimator needs.
	a, b, _ := three(t, 14, 2_000, 1_000)

	ab, err := a.Intersect(b)
	require.NoError(t, err)
	est := ab.Estimate()
	assert.Greater(t, est, 850.0)
	assert.Less(t, est, 1_350.0)
}

func TestOverlappingIntStreams(t *testing.T) {
	// Two 10k-integer streams sharing half their elements, at the default
	// production precision. Single-sketch and union estimates track truth
	// at the estimator's error. The conjunction runs well above the true
	// 5000-element overlap and the strict difference well below it: at
	// ten elements per register most flags are shared coincidentally
	// (doc.go covers the skew). The bands pin that actual behavior.
	a, err := New(DefaultPrecision)
	require.NoError(t, err)
	b, err := New(DefaultPrecision)
	require.NoError(t, err)
	direct, err := New(DefaultPrecision)
	require.NoError(t, err)
	for i := 1; i <= 10_000; i++ {
		require.NoError(t, a.Insert(i))
		require.NoError(t, b.Insert(i+5_000))
	}
	for i := 1; i <= 15_000; i++ {
		require.NoError(t, direct.Insert(i))
	}

	assert.InEpsilon(t, 10_000, a.Estimate(), 0.10)
	assert.InEpsilon(t, 10_000, b.Estimate(), 0.10)

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.InEpsilon(t, 15_000, u.Estimate(), 0.10)
	assert.True(t, u.Equal(direct), "union equals the sketch of the combined stream")

	ab, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Greater(t, ab.Estimate(), 5_000.0)
	assert.Less(t, ab.Estimate(), 7_800.0)

	m, err := a.BSS(b)
	require.NoError(t, err)
	assert.Greater(t, m.Tau, 0.45)
	assert.Less(t, m.Tau, 0.90)
	assert.Greater(t, m.Rho, 0.02)
	assert.Less(t, m.Rho, 0.15)
}

func TestDiffPartitionsUnion(t *testing.T) {
	// Deleted, retained and new are disjoint by construction and OR back
	// together into exactly the union, register for register.
	a, b, _ := three(t, 10, 8000, 4000)

	d, err := a.Diff(b)
	require.NoError(t, err)

	u, err := a.Union(b)
	require.NoError(t, err)

	dr, err := d.Deleted.Union(d.Retained)
	require.NoError(t, err)
	drn, err := dr.Union(d.New)
	require.NoError(t, err)
	assert.True(t, drn.Equal(u))

	// Pairwise disjoint: any two parts share no flags.
	x, err := d.Deleted.Intersect(d.Retained)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x.Estimate())
	y, err := d.Deleted.Intersect(d.New)
	require.NoError(t, err)
	assert.Equal(t, 0.0, y.Estimate())
	z, err := d.Retained.Intersect(d.New)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z.Estimate())
}

func TestDiffAgainstSelf(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)
	fill(a, "self", 3000)

	d, err := a.Diff(a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Deleted.Estimate())
	assert.Equal(t, 0.0, d.New.Estimate())
	assert.True(t, d.Retained.Equal(a))
}

func TestDiffEstimates(t *testing.T) {
	// Snapshot A = [0, 2k), snapshot B = [1k, 3k): 1k deleted, 1k
	// retained, 1k new. Same light-load regime and wide margins as the
	// intersection test.
	a, b, _ := three(t, 14, 2_000, 1_000)

	d, err := a.Diff(b)
	require.NoError(t, err)
	for name, part := range map[string]*Sketch{
		"deleted":  d.Deleted,
		"retained": d.Retained,
		"new":      d.New,
	} {
		est := part.Estimate()
		assert.Greater(t, est, 750.0, "%s", name)
		assert.Less(t, est, 1_400.0, "%s", name)
	}
}

func TestComplementAgainstSelf(t *testing.T) {
	a, err := New(10)
	require.NoError(t, err)
	fill(a, "comp", 2000)

	out, m, err := a.Complement(a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Estimate(), "nothing of a set lies outside itself")
	assert.Equal(t, 1.0, m.Tau, "a set covers itself exactly")
	assert.Equal(t, 0.0, m.Rho)

	// The complement result carries the computed metrics, not the
	// min/max combination the other operators use.
	assert.Equal(t, m.Tau, out.Tau)
	assert.Equal(t, m.Rho, out.Rho)
}

func TestComplementRemovesSharedEvidence(t *testing.T) {
	a, b, _ := three(t, 10, 10_000, 5_000)

	out, _, err := a.Complement(b)
	require.NoError(t, err)

	// Every flag of the complement was present in a and absent from b.
	for i, reg := range out.regs {
		if reg&^a.regs[i] != 0 {
			t.Fatalf("register %d: complement invented evidence", i)
		}
		if reg&b.regs[i] != 0 {
			t.Fatalf("register %d: complement kept shared evidence", i)
		}
	}
}

func TestCarriedMetricsCombine(t *testing.T) {
	a, err := NewWithSettings(Settings{Precision: 10, Seed: DefaultSeed, Hash: HashXXH3, Tau: 0.9, Rho: 0.1})
	require.NoError(t, err)
	b, err := NewWithSettings(Settings{Precision: 10, Seed: DefaultSeed, Hash: HashXXH3, Tau: 0.5, Rho: 0.3})
	require.NoError(t, err)
	fill(a, "ma", 100)
	fill(b, "mb", 100)

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, 0.5, u.Tau)
	assert.Equal(t, 0.3, u.Rho)

	x, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Equal(t, 0.5, x.Tau)
	assert.Equal(t, 0.3, x.Rho)

	d, err := a.Diff(b)
	require.NoError(t, err)
	for _, part := range []*Sketch{d.Deleted, d.Retained, d.New} {
		assert.Equal(t, 0.5, part.Tau)
		assert.Equal(t, 0.3, part.Rho)
	}
}

func TestOperatorsRejectMismatchedConfigs(t *testing.T) {
	base, err := New(10)
	require.NoError(t, err)

	others := map[string]*Sketch{}
	p11, err := New(11)
	require.NoError(t, err)
	others["precision"] = p11
	seeded, err := NewWithSettings(Settings{Precision: 10, Seed: 7, Hash: HashXXH3})
	require.NoError(t, err)
	others["seed"] = seeded
	murmured, err := NewWithSettings(Settings{Precision: 10, Seed: DefaultSeed, Hash: HashMurmur3})
	require.NoError(t, err)
	others["family"] = murmured

	for name, other := range others {
		t.Run(name, func(t *testing.T) {
			_, err := base.Union(other)
			assert.True(t, errors.Is(err, ErrConfigMismatch))
			_, err = base.Intersect(other)
			assert.True(t, errors.Is(err, ErrConfigMismatch))
			_, err = base.Diff(other)
			assert.True(t, errors.Is(err, ErrConfigMismatch))
			_, _, err = base.Complement(other)
			assert.True(t, errors.Is(err, ErrConfigMismatch))
			_, err = base.BSS(other)
			assert.True(t, errors.Is(err, ErrConfigMismatch))
		})
	}
}
