package horn

import (
	"fmt"

	"github.com/hornlog/horn/engine"
)

// registerLibrary loads the standard predicates. List utilities and
// control predicates are ordinary clauses resolved like user code;
// arithmetic, inspection and output predicates are native clauses.
func (m *Machine) registerLibrary() {
	if err := m.Tell(libraryClauses()...); err != nil {
		panic(err)
	}

	natives := []struct {
		head Term
		body engine.NativeBody
	}{
		{Functor("let", Var("X"), Var("Expr")), letBody},
		{Functor("greater", Var("X"), Var("Y")), compareBody(1)},
		{Functor("smaller", Var("X"), Var("Y")), compareBody(-1)},
		{Functor("findall", Var("Tmpl"), Var("Goal"), Var("List")), findallBody},
		{Functor("findall", Var("Tmpl"), Var("Goal"), Var("List"), Var("Rest")), findallBody},
		{Functor("univ", Var("T"), Var("L")), univBody},
		{Functor("throw", Var("Ball")), throwBody},
		{Functor("atomic", Var("T")), typeTest(isAtomic)},
		{Functor("var", Var("T")), typeTest(isVar)},
		{Functor("nonvar", Var("T")), typeTest(isNonvar)},
		{Functor("integer", Var("T")), typeTest(isInteger)},
		{Functor("write", Var("T")), m.writeBody("")},
		{Functor("writeln", Var("T")), m.writeBody("\n")},
		{Atom("nl"), m.nlBody},
		{Atom("listing"), m.listingBody},
		{Functor("listing", Var("Name")), m.listingBody},
		{Functor("listing", Var("Name"), Var("Arity")), m.listingBody},
	}
	for _, n := range natives {
		if err := m.TellNative(n.head, n.body); err != nil {
			panic(err)
		}
	}
}

func libraryClauses() []Term {
	var (
		A = Var("A")
		B = Var("B")
		C = Var("C")
		G = Var("G")
		H = Var("H")
		L = Var("L")
		M = Var("M")
		N = Var("N")
		R = Var("R")
		T = Var("T")
		X = Var("X")

		wc    = engine.Wildcard{}
		empty = engine.Empty{}
	)

	return []Term{
		Rule(Functor("call", G), G),

		Functor("equal", X, X),

		Functor("member", X, cons(X, wc)),
		Rule(Functor("member", X, cons(wc, T)),
			Functor("member", X, T)),

		Functor("append", empty, B, B),
		Rule(Functor("append", cons(X, A), B, cons(X, C)),
			Functor("append", A, B, C)),

		Rule(Functor("reverse", L, R),
			Functor("reverse", L, empty, R)),
		Functor("reverse", empty, A, A),
		Rule(Functor("reverse", cons(X, T), A, R),
			Functor("reverse", T, cons(X, A), R)),

		Functor("select", X, cons(X, T), T),
		Rule(Functor("select", X, cons(H, T), cons(H, R)),
			Functor("select", X, T, R)),

		Functor("length", empty, Integer(0)),
		Rule(Functor("length", cons(wc, T), N),
			Functor("length", T, M),
			Functor("let", N, add(M, Integer(1)))),

		// Negation as failure.
		Rule(Functor("not_", G), G, Atom("!"), Atom("fail")),
		Functor("not_", wc),

		Rule(Functor("once", G), G, Atom("!")),

		Rule(Functor("ignore", G), G, Atom("!")),
		Functor("ignore", wc),

		Atom("repeat"),
		Rule(Atom("repeat"), Atom("repeat")),
	}
}

func cons(head, tail Term) Term {
	return &engine.Cons{Head: head, Tail: tail}
}

func add(x, y Term) Term {
	return &engine.Binary{Kind: engine.OpAdd, Left: x, Right: y}
}

// letBody evaluates the second argument arithmetically and unifies the
// first with the result.
func letBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	n, err := engine.EvalTerm(args[1], s)
	if err != nil {
		return engine.Raise(err)
	}
	return engine.Unify(args[0], n)
}

// compareBody evaluates both arguments and succeeds when their order
// matches want: 1 for greater, -1 for smaller.
func compareBody(want int) engine.NativeBody {
	return func(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
		x, err := engine.EvalTerm(args[0], s)
		if err != nil {
			return engine.Raise(err)
		}
		y, err := engine.EvalTerm(args[1], s)
		if err != nil {
			return engine.Raise(err)
		}
		cmp, err := engine.CompareNumbers(x, y)
		if err != nil {
			return engine.Raise(err)
		}
		if cmp == want {
			return engine.Unit
		}
		return engine.Fail
	}
}

// findallBody exhausts the goal in a nested query, collecting the
// template instance of every solution, and unifies the third argument
// with the collected list. A failing goal yields the empty list, not
// failure. With a fourth argument the collected elements are prepended
// to it instead.
func findallBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	var found []Term
	err := db.Resolve(args[1], s, func(each *engine.Subst) bool {
		found = append(found, each.Simplify(args[0]))
		return true
	})
	if err != nil {
		return engine.Raise(err)
	}
	rest := Term(engine.Empty{})
	if len(args) == 4 {
		rest = args[3]
	}
	return engine.Unify(args[2], engine.PartialList(rest, found...))
}

// univBody relates a callable term to the list of its functor and
// arguments, in either direction.
func univBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	t, s, err := s.Resolve(args[0])
	if err != nil {
		return engine.Raise(err)
	}

	if _, ok := t.(Variable); ok {
		elems, err := engine.Slice(args[1], s)
		if err != nil {
			return engine.Raise(err)
		}
		if len(elems) == 0 {
			return engine.Raise(fmt.Errorf("horn: univ: empty list"))
		}
		functor, ok := elems[0].(Atom)
		if !ok {
			return engine.Raise(fmt.Errorf("horn: univ: functor %s is not an atom", elems[0]))
		}
		return engine.Unify(t, functor.Apply(elems[1:]...))
	}

	name, sub, ok := engine.Decompose(t)
	if !ok {
		return engine.Raise(fmt.Errorf("horn: univ: cannot decompose %s", t))
	}
	return engine.Unify(args[1], engine.List(append([]Term{name}, sub...)...))
}

// throwBody aborts the query with the thrown term as a fatal error.
func throwBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	return engine.Raise(Error{Term: s.Simplify(args[0])})
}

func typeTest(pred func(Term) bool) engine.NativeBody {
	return func(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
		t, _, err := s.Resolve(args[0])
		if err != nil {
			return engine.Raise(err)
		}
		if pred(t) {
			return engine.Unit
		}
		return engine.Fail
	}
}

func isAtomic(t Term) bool {
	switch t.(type) {
	case Atom, Str, Integer, Float, *engine.Decimal, engine.Complex, engine.Empty:
		return true
	}
	return false
}

func isVar(t Term) bool {
	switch t.(type) {
	case Variable, engine.Wildcard:
		return true
	}
	return false
}

func isNonvar(t Term) bool {
	return !isVar(t)
}

func isInteger(t Term) bool {
	_, ok := t.(Integer)
	return ok
}

// writeBody prints the deeply dereferenced argument followed by
// suffix. Strings print their raw contents, everything else its
// display form.
func (m *Machine) writeBody(suffix string) engine.NativeBody {
	return func(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
		t := s.Simplify(args[0])
		if str, ok := t.(Str); ok {
			fmt.Fprint(m.out, string(str))
		} else {
			fmt.Fprint(m.out, t)
		}
		fmt.Fprint(m.out, suffix)
		return engine.Unit
	}
}

func (m *Machine) nlBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	fmt.Fprintln(m.out)
	return engine.Unit
}

// listingBody prints the stored clauses: all of them, those under a
// predicate name, or those under one name/arity pair.
func (m *Machine) listingBody(db *engine.Database, s *engine.Subst, args []Term) engine.Goal {
	var name Atom
	arity := -1
	if len(args) > 0 {
		t, _, err := s.Resolve(args[0])
		if err != nil {
			return engine.Raise(err)
		}
		a, ok := t.(Atom)
		if !ok {
			return engine.Raise(fmt.Errorf("horn: listing: predicate name %s is not an atom", t))
		}
		name = a
	}
	if len(args) > 1 {
		t, _, err := s.Resolve(args[1])
		if err != nil {
			return engine.Raise(err)
		}
		n, ok := t.(Integer)
		if !ok || n < 0 {
			return engine.Raise(fmt.Errorf("horn: listing: arity %s is not a natural number", t))
		}
		arity = int(n)
	}

	for _, pi := range db.Procedures() {
		if name != "" && pi.Name != name {
			continue
		}
		if arity >= 0 && pi.Arity != arity {
			continue
		}
		for _, t := range db.ClauseTerms(pi) {
			fmt.Fprintf(m.out, "%s.\n", t)
		}
		fmt.Fprintln(m.out)
	}
	return engine.Unit
}
