package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTell(t *testing.T, db *Database, terms ...Term) {
	t.Helper()
	require.NoError(t, db.Tell(terms...))
}

// askAll collects every solution of the query as name-to-term maps.
func askAll(t *testing.T, db *Database, goals ...Term) []map[string]Term {
	t.Helper()
	sols, err := db.Ask(goals...)
	require.NoError(t, err)
	var out []map[string]Term
	for sols.Next() {
		m := map[string]Term{}
		require.NoError(t, sols.Scan(m))
		out = append(out, m)
	}
	require.NoError(t, sols.Err())
	return out
}

func TestDatabase_FactsAndRules(t *testing.T) {
	db := NewDatabase()
	x := NewVariable("X")
	y := NewVariable("Y")
	z := NewVariable("Z")

	mustTell(t, db,
		Atom("parent").Apply(Atom("tom"), Atom("bob")),
		Atom("parent").Apply(Atom("bob"), Atom("ann")),
		NewRule(Atom("grandparent").Apply(x, z),
			Atom("parent").Apply(x, y),
			Atom("parent").Apply(y, z)),
	)

	got := askAll(t, db, Atom("grandparent").Apply(NewVariable("A"), NewVariable("B")))
	require.Len(t, got, 1)
	assert.Equal(t, Atom("tom"), got[0]["A"])
	assert.Equal(t, Atom("ann"), got[0]["B"])
}

func TestDatabase_ClauseOrder(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("n").Apply(Integer(1)),
		Atom("n").Apply(Integer(2)),
		Atom("n").Apply(Integer(3)),
	)

	got := askAll(t, db, Atom("n").Apply(NewVariable("X")))
	require.Len(t, got, 3)
	for i, want := range []Term{Integer(1), Integer(2), Integer(3)} {
		assert.Equal(t, want, got[i]["X"])
	}
}

func TestDatabase_AskTwiceNeverAliases(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db, Atom("f").Apply(Integer(1)))

	q := Atom("f").Apply(NewVariable("X"))
	for i := 0; i < 2; i++ {
		got := askAll(t, db, q)
		require.Len(t, got, 1)
		assert.Equal(t, Integer(1), got[0]["X"])
	}
}

func TestDatabase_Conjunction(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("f").Apply(Integer(2)),
		Atom("g").Apply(Integer(2)),
	)

	x := NewVariable("X")
	got := askAll(t, db, Atom("f").Apply(x), Atom("g").Apply(x))
	require.Len(t, got, 1)
	assert.Equal(t, Integer(2), got[0]["X"])
}

func TestDatabase_Disjunction(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("g").Apply(Integer(9)),
	)

	x := NewVariable("X")
	got := askAll(t, db, &Disjunction{Goals: []Term{
		Atom("f").Apply(x),
		Atom("g").Apply(x),
	}})
	require.Len(t, got, 2)
	assert.Equal(t, Integer(1), got[0]["X"])
	assert.Equal(t, Integer(9), got[1]["X"])
}

func TestDatabase_TrueFailCut(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("f").Apply(Integer(2)),
		NewRule(Atom("first").Apply(NewVariable("X")),
			Atom("f").Apply(NewVariable("X"))),
	)

	assert.Len(t, askAll(t, db, Atom("true")), 1)
	assert.Empty(t, askAll(t, db, Atom("fail")))
	assert.Empty(t, askAll(t, db, Atom("false")))

	// Cut commits to the first clause of f.
	x := NewVariable("X")
	mustTell(t, db, NewRule(Atom("one").Apply(x),
		Atom("f").Apply(x), Atom("!")))
	got := askAll(t, db, Atom("one").Apply(NewVariable("X")))
	require.Len(t, got, 1)
	assert.Equal(t, Integer(1), got[0]["X"])

	// The cut is scoped to one predicate call: the caller still
	// backtracks across its own alternatives.
	got = askAll(t, db, &Disjunction{Goals: []Term{
		Atom("one").Apply(NewVariable("X")),
		Atom("f").Apply(NewVariable("X")),
	}})
	assert.Len(t, got, 3)
}

func TestDatabase_NegationAsFailure(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db, Atom("f").Apply(Integer(1)))

	assert.Len(t, askAll(t, db, &Negation{Goal: Atom("f").Apply(Integer(2))}), 1)
	assert.Empty(t, askAll(t, db, &Negation{Goal: Atom("f").Apply(Integer(1))}))
}

func TestDatabase_UnknownPredicateFails(t *testing.T) {
	db := NewDatabase()
	assert.Empty(t, askAll(t, db, Atom("nowhere").Apply(Integer(1))))
}

func TestDatabase_Child(t *testing.T) {
	parent := NewDatabase()
	mustTell(t, parent, Atom("f").Apply(Integer(1)))

	child := parent.NewChild()
	mustTell(t, child, Atom("f").Apply(Integer(2)))

	// The child sees inherited clauses first, then its own.
	got := askAll(t, child, Atom("f").Apply(NewVariable("X")))
	require.Len(t, got, 2)
	assert.Equal(t, Integer(1), got[0]["X"])
	assert.Equal(t, Integer(2), got[1]["X"])

	// The parent is unaffected.
	assert.Len(t, askAll(t, parent, Atom("f").Apply(NewVariable("X"))), 1)
}

func TestDatabase_VariableGoal(t *testing.T) {
	db := NewDatabase()
	g := NewVariable("G")
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		NewRule(Atom("indirect").Apply(g), g),
	)

	got := askAll(t, db, Atom("indirect").Apply(Atom("f").Apply(NewVariable("X"))))
	require.Len(t, got, 1)

	// An unbound variable goal is a fatal error, not a failure.
	sols, err := db.Ask(Atom("indirect").Apply(NewVariable("Free")))
	require.NoError(t, err)
	assert.False(t, sols.Next())
	assert.Error(t, sols.Err())
}

func TestDatabase_InvalidGoals(t *testing.T) {
	db := NewDatabase()

	_, err := db.Ask(Integer(1))
	assert.Error(t, err)

	err = db.Tell(NewRule(Atom("p"), Integer(1)))
	assert.Error(t, err)
}

func TestDatabase_NativeClause(t *testing.T) {
	db := NewDatabase()

	require.NoError(t, db.TellNative(
		Atom("double").Apply(NewVariable("X"), NewVariable("Y")),
		func(_ *Database, s *Subst, args []Term) Goal {
			x, _, err := s.Resolve(args[0])
			if err != nil {
				return Raise(err)
			}
			n, ok := x.(Integer)
			if !ok {
				return Fail
			}
			return Unify(args[1], n*2)
		},
	))

	got := askAll(t, db, Atom("double").Apply(Integer(21), NewVariable("Y")))
	require.Len(t, got, 1)
	assert.Equal(t, Integer(42), got[0]["Y"])

	assert.Empty(t, askAll(t, db, Atom("double").Apply(Atom("a"), NewVariable("Y"))))
}

func TestDatabase_NativeNestedQuery(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("f").Apply(Integer(2)),
	)

	// A native body may run its own nested query through Resolve.
	require.NoError(t, db.TellNative(
		Atom("count").Apply(NewVariable("N")),
		func(db *Database, s *Subst, args []Term) Goal {
			n := 0
			err := db.Resolve(Atom("f").Apply(NewVariable("X")), s, func(*Subst) bool {
				n++
				return true
			})
			if err != nil {
				return Raise(err)
			}
			return Unify(args[0], Integer(n))
		},
	))

	got := askAll(t, db, Atom("count").Apply(NewVariable("N")))
	require.Len(t, got, 1)
	assert.Equal(t, Integer(2), got[0]["N"])
}

func TestDatabase_ProceduresAndListing(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("g").Apply(Integer(1)),
		Atom("f").Apply(Integer(2)),
	)

	pis := db.Procedures()
	assert.Equal(t, []Indicator{
		{Name: "f", Arity: 1},
		{Name: "g", Arity: 1},
	}, pis)

	ts := db.ClauseTerms(Indicator{Name: "f", Arity: 1})
	require.Len(t, ts, 2)
	assert.Equal(t, "f(1)", ts[0].String())
	assert.Equal(t, "f(2)", ts[1].String())
}

func TestSolutions_GetAndVars(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db, Atom("f").Apply(Integer(1), Integer(2)))

	sols, err := db.Ask(Atom("f").Apply(NewVariable("A"), NewVariable("B")))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, sols.Vars())

	require.True(t, sols.Next())
	got, ok := sols.Get("A")
	require.True(t, ok)
	assert.Equal(t, Integer(1), got)
	_, ok = sols.Get("Nope")
	assert.False(t, ok)

	assert.False(t, sols.Next())
}

func TestSolutions_ScanBeforeNext(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db, Atom("f").Apply(Integer(1)))

	sols, err := db.Ask(Atom("f").Apply(NewVariable("X")))
	require.NoError(t, err)
	assert.Error(t, sols.Scan(map[string]Term{}))
	_, ok := sols.Get("X")
	assert.False(t, ok)
}

func TestSolutions_Close(t *testing.T) {
	db := NewDatabase()
	mustTell(t, db,
		Atom("f").Apply(Integer(1)),
		Atom("f").Apply(Integer(2)),
	)

	sols, err := db.Ask(Atom("f").Apply(NewVariable("X")))
	require.NoError(t, err)
	require.True(t, sols.Next())
	require.NoError(t, sols.Close())
	assert.False(t, sols.Next())
	assert.NoError(t, sols.Err())
}
