package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run collects every solution of g in an empty database.
func run(g Goal) ([]*Subst, error) {
	var out []*Subst
	db := NewDatabase()
	err := drive(func() *Frame {
		return g(db, NewSubst())(Success, Failure, Failure)
	}, func(s *Subst) bool {
		out = append(out, s)
		return true
	})
	return out, err
}

// bindingsOf maps v's binding over each solution.
func bindingsOf(t *testing.T, v Variable, sols []*Subst) []Term {
	t.Helper()
	ts := make([]Term, len(sols))
	for i, s := range sols {
		ts[i] = s.Simplify(v)
	}
	return ts
}

func TestUnitAndFail(t *testing.T) {
	sols, err := run(Unit)
	assert.NoError(t, err)
	assert.Len(t, sols, 1)

	sols, err = run(Fail)
	assert.NoError(t, err)
	assert.Empty(t, sols)
}

func TestSeq(t *testing.T) {
	x := NewVariable("X")
	y := NewVariable("Y")

	sols, err := run(Seq(Unify(x, Atom("a")), Unify(y, Atom("b"))))
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("a"), sols[0].Simplify(x))
	assert.Equal(t, Atom("b"), sols[0].Simplify(y))

	sols, err = run(Seq(Unify(x, Atom("a")), Unify(x, Atom("b"))))
	assert.NoError(t, err)
	assert.Empty(t, sols)
}

func TestAmb(t *testing.T) {
	x := NewVariable("X")

	sols, err := run(UnifyAny(x, Integer(1), Integer(2), Integer(3)))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(1), Integer(2), Integer(3)}, bindingsOf(t, x, sols))
}

func TestAmbBacktrackingRestoresBindings(t *testing.T) {
	x := NewVariable("X")

	// The first alternative binds x and then fails; the second must see
	// x unbound again.
	sols, err := run(Amb(
		Seq(Unify(x, Integer(1)), Fail),
		Unify(x, Integer(2)),
	))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(2)}, bindingsOf(t, x, sols))
}

func TestCut(t *testing.T) {
	x := NewVariable("X")

	// Without a cut both alternatives are found.
	sols, err := run(Prunable(Amb(
		Unify(x, Integer(1)),
		Unify(x, Integer(2)),
	)))
	require.NoError(t, err)
	assert.Len(t, sols, 2)

	// A cut after the first success discards the second alternative.
	sols, err = run(Prunable(Amb(
		Seq(Unify(x, Integer(1)), Cut),
		Unify(x, Integer(2)),
	)))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(1)}, bindingsOf(t, x, sols))
}

func TestCutBarrier(t *testing.T) {
	x := NewVariable("X")

	// The cut prunes inside its Prunable group only; the outer
	// alternative survives.
	sols, err := run(Amb(
		Prunable(Seq(Unify(x, Integer(1)), Cut)),
		Unify(x, Integer(2)),
	))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(1), Integer(2)}, bindingsOf(t, x, sols))
}

func TestNeg(t *testing.T) {
	sols, err := run(Neg(Fail))
	require.NoError(t, err)
	assert.Len(t, sols, 1)

	sols, err = run(Neg(Unit))
	require.NoError(t, err)
	assert.Empty(t, sols)

	// Bindings made inside a negated goal do not leak out.
	x := NewVariable("X")
	sols, err = run(Seq(Neg(Seq(Unify(x, Integer(1)), Fail)), Unit))
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, x, sols[0].Simplify(x))
}

func TestIfThenElse(t *testing.T) {
	x := NewVariable("X")

	// Commits to the condition's first solution.
	sols, err := run(IfThenElse(
		UnifyAny(x, Integer(1), Integer(2)),
		Unit,
		Unify(x, Integer(3)),
	))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(1)}, bindingsOf(t, x, sols))

	sols, err = run(IfThenElse(Fail, Unit, Unify(x, Integer(3))))
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(3)}, bindingsOf(t, x, sols))
}

func TestRaise(t *testing.T) {
	boom := errors.New("boom")

	_, err := run(Seq(Unit, Raise(boom)))
	assert.ErrorIs(t, err, boom)

	// An error in one alternative aborts the whole search.
	_, err = run(Amb(Raise(boom), Unit))
	assert.ErrorIs(t, err, boom)
}

func TestCallEC(t *testing.T) {
	x := NewVariable("X")

	// An escaped success jumps straight out of the CallEC search and
	// commits: the remaining alternatives are abandoned.
	g := CallEC(func(escape func(Goal) Goal) Goal {
		return Seq(
			escape(UnifyAny(x, Integer(1), Integer(2))),
			Fail,
		)
	})
	sols, err := run(g)
	require.NoError(t, err)
	assert.Equal(t, []Term{Integer(1)}, bindingsOf(t, x, sols))
}

func TestTrampolineStackSafety(t *testing.T) {
	// Deep right-nested conjunction: each level adds one goal boundary.
	// Run depth must not translate into native stack depth.
	g := Goal(Unit)
	for i := 0; i < 200_000; i++ {
		g = Then(Unit, g)
	}
	sols, err := run(g)
	assert.NoError(t, err)
	assert.Len(t, sols, 1)
}

func TestDriveStopsWhenYieldDeclines(t *testing.T) {
	x := NewVariable("X")
	db := NewDatabase()

	n := 0
	err := drive(func() *Frame {
		return UnifyAny(x, Integer(1), Integer(2), Integer(3))(db, NewSubst())(Success, Failure, Failure)
	}, func(*Subst) bool {
		n++
		return n < 2
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}
