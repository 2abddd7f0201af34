package horn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hornlog/horn/engine"
)

func TestFunctor(t *testing.T) {
	assert.Equal(t, Term(Atom("a")), Functor("a"))
	assert.Equal(t, "f(1, x, \"s\")", Functor("f", 1, Atom("x"), "s").String())
	assert.Panics(t, func() { Functor("f", map[string]int{}) })
}

func TestListOf(t *testing.T) {
	assert.Equal(t, "[]", ListOf().String())
	assert.Equal(t, "[1, 2.5, a]", ListOf(1, 2.5, Atom("a")).String())
}

func TestVar(t *testing.T) {
	assert.Equal(t, Var("X"), Var("X"))
	assert.NotEqual(t, Var("X"), Var("Y"))
}

func TestVarCoRefersAcrossHeadAndBody(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Tell(Rule(
		Functor("pos", Var("A")),
		Functor("greater", Var("A"), 0),
	)))

	askOne(t, m, Functor("pos", 3))

	sols, err := m.Ask(Functor("pos", -3))
	require.NoError(t, err)
	defer sols.Close()
	assert.False(t, sols.Next())
	assert.NoError(t, sols.Err())
}

func TestRuleHelper(t *testing.T) {
	assert.Equal(t, "p :- true", Rule(Atom("p")).String())
	assert.Equal(t, "p :- q, r", Rule(Atom("p"), Atom("q"), Atom("r")).String())
}

func TestMachineTellAsk(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Tell(
		Functor("parent", Atom("tom"), Atom("bob")),
		Functor("parent", Atom("bob"), Atom("ann")),
		Rule(Functor("grandparent", Var("X"), Var("Z")),
			Functor("parent", Var("X"), Var("Y")),
			Functor("parent", Var("Y"), Var("Z"))),
	))

	got := askOne(t, m, Functor("grandparent", Var("A"), Var("B")))
	assert.Equal(t, Term(Atom("tom")), got["A"])
	assert.Equal(t, Term(Atom("ann")), got["B"])
}

func TestMachineChild(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Tell(Functor("f", 1)))

	child := m.NewChild()
	require.NoError(t, child.Tell(Functor("f", 2)))

	assert.Len(t, askAll(t, child, Functor("f", Var("X"))), 2)
	assert.Len(t, askAll(t, m, Functor("f", Var("X"))), 1)

	// The child inherits the standard library too.
	askOne(t, child, Functor("length", ListOf(1), 1))
}

func TestMachineNativeExtension(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.TellNative(
		Functor("twice", Var("X"), Var("Y")),
		func(_ *engine.Database, s *engine.Subst, args []Term) engine.Goal {
			n, err := engine.EvalTerm(&engine.Binary{Kind: engine.OpMul, Left: args[0], Right: Integer(2)}, s)
			if err != nil {
				return engine.Raise(err)
			}
			return engine.Unify(args[1], n)
		},
	))

	got := askOne(t, m, Functor("twice", 21, Var("Y")))
	assert.Equal(t, Integer(42), got["Y"])

	// Native predicates compose with stored clauses.
	got = askOne(t, m, Functor("findall",
		Var("Y"), Functor("twice", 2, Var("Y")), Var("L")))
	assert.Equal(t, "[4]", got["L"].String())
}
