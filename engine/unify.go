package engine

// Unify returns a goal that succeeds iff x and y can be made equal
// under the current substitution, extending it as needed. There is no
// occurs check: unifying a variable with a structure containing that
// variable is allowed, as in classic Prolog, and creates an infinite
// term if the result is ever fully dereferenced.
func Unify(x, y Term) Goal {
	return func(db *Database, s *Subst) Step {
		x2, s, err := s.Resolve(x)
		if err != nil {
			return Raise(err)(db, s)
		}
		y2, s, err := s.Resolve(y)
		if err != nil {
			return Raise(err)(db, s)
		}
		return unify(x2, y2)(db, s)
	}
}

// unify dispatches on the shapes of two already-resolved terms.
func unify(x, y Term) Goal {
	if _, ok := x.(Wildcard); ok {
		return Unit
	}
	if _, ok := y.(Wildcard); ok {
		return Unit
	}

	xv, xIsVar := x.(Variable)
	yv, yIsVar := y.(Variable)
	switch {
	case xIsVar && yIsVar:
		if xv == yv {
			return Unit
		}
		// Deterministic direction: the later-introduced variable is
		// bound to the earlier one.
		if xv.older(yv) {
			return bindVariable(yv, xv)
		}
		return bindVariable(xv, yv)
	case xIsVar:
		return bindVariable(xv, y)
	case yIsVar:
		return bindVariable(yv, x)
	}

	if xi, xargs, ok := compoundView(x); ok {
		yi, yargs, yok := compoundView(y)
		if !yok || xi != yi {
			return Fail
		}
		pairs := make([][2]Term, len(xargs))
		for i := range xargs {
			pairs[i] = [2]Term{xargs[i], yargs[i]}
		}
		return UnifyPairs(pairs...)
	}

	if atomicEqual(x, y) {
		return Unit
	}
	return Fail
}

func bindVariable(v Variable, t Term) Goal {
	return func(db *Database, s *Subst) Step {
		return Unit(db, s.Bind(v, t))
	}
}

// UnifyPairs unifies each pair in order; all must succeed.
func UnifyPairs(pairs ...[2]Term) Goal {
	goals := make([]Goal, len(pairs))
	for i, p := range pairs {
		p := p
		goals[i] = Unify(p[0], p[1])
	}
	return Seq(goals...)
}

// UnifyAny tries to unify v with each candidate in turn, as a
// disjunction.
func UnifyAny(v Term, candidates ...Term) Goal {
	goals := make([]Goal, len(candidates))
	for i, c := range candidates {
		goals[i] = Unify(v, c)
	}
	return Amb(goals...)
}

// atomicEqual compares two non-variable, non-compound terms.
func atomicEqual(x, y Term) bool {
	switch x := x.(type) {
	case Atom:
		y, ok := y.(Atom)
		return ok && x == y
	case Str:
		y, ok := y.(Str)
		return ok && x == y
	case Integer:
		y, ok := y.(Integer)
		return ok && x == y
	case Float:
		y, ok := y.(Float)
		return ok && x == y
	case Complex:
		y, ok := y.(Complex)
		return ok && x == y
	case *Decimal:
		y, ok := y.(*Decimal)
		return ok && x.Dec.Cmp(y.Dec) == 0
	case Empty:
		_, ok := y.(Empty)
		return ok
	default:
		return false
	}
}
