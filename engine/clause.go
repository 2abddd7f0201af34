package engine

import "fmt"

// clause is the compiled, indexed form of an asserted term. Exactly
// one of the following shapes applies: atomic fact (head only, no
// arguments), compound fact (head to unify against), atomic rule (body
// only), compound rule (head and body), or the native variants where
// the body is a host-supplied procedure.
type clause struct {
	pi     Indicator
	head   Term       // nil for atomic clauses
	body   Term       // nil for facts and native clauses
	native NativeBody // nil unless the body is host code
	ground bool       // no variables anywhere; renewal can share the terms
}

// compileClause classifies t and canonicalizes its variables so that
// the stored clause owns a private renaming, regardless of how the
// caller reuses Variable values across Tell calls.
func compileClause(t Term) (*clause, error) {
	switch t := t.(type) {
	case Atom:
		return &clause{pi: Indicator{Name: t, Arity: 0}, ground: true}, nil
	case *Compound:
		tab := renameTable{}
		head, ground := tab.rename(t)
		return &clause{
			pi:     Indicator{Name: t.Functor, Arity: len(t.Args)},
			head:   head,
			ground: ground,
		}, nil
	case *Rule:
		if err := validateGoalTerm(t.Body); err != nil {
			return nil, err
		}
		tab := renameTable{}
		switch head := t.Head.(type) {
		case Atom:
			body, ground := tab.rename(t.Body)
			return &clause{
				pi:     Indicator{Name: head, Arity: 0},
				body:   body,
				ground: ground,
			}, nil
		case *Compound:
			newHead, headGround := tab.rename(head)
			body, bodyGround := tab.rename(t.Body)
			return &clause{
				pi:     Indicator{Name: head.Functor, Arity: len(head.Args)},
				head:   newHead,
				body:   body,
				ground: headGround && bodyGround,
			}, nil
		default:
			return nil, fmt.Errorf("engine: cannot assert rule with head %s", t.Head)
		}
	default:
		return nil, fmt.Errorf("engine: cannot assert %s", t)
	}
}

// goal freshens the clause and produces the goal that tries it against
// query. Freshening happens on every retrieval so that two active uses
// of the same clause never alias variables.
func (c *clause) goal(query Term) Goal {
	head, body := c.head, c.body
	if !c.ground {
		tab := renameTable{}
		if head != nil {
			head, _ = tab.rename(head)
		}
		if body != nil {
			body, _ = tab.rename(body)
		}
	}

	if c.native != nil {
		var args []Term
		if h, ok := head.(*Compound); ok {
			args = h.Args
		}
		nativeGoal := func(db *Database, s *Subst) Step {
			return c.native(db, s, args)(db, s)
		}
		if head == nil {
			return nativeGoal
		}
		return Then(Unify(query, head), nativeGoal)
	}

	switch {
	case head == nil && body == nil:
		return Unit
	case body == nil:
		return Unify(query, head)
	case head == nil:
		return resolveGoal(body)
	default:
		return Then(Unify(query, head), resolveGoal(body))
	}
}

// term reconstructs the clause as the term it was asserted as, for
// listings.
func (c *clause) term() Term {
	var head Term = c.pi.Name
	if c.head != nil {
		head = c.head
	}
	switch {
	case c.native != nil:
		return &Rule{Head: head, Body: Atom("<native>")}
	case c.body != nil:
		return &Rule{Head: head, Body: c.body}
	default:
		return head
	}
}

// renameTable maps a clause's stored variables to their replacements
// during one freshening traversal. One table serves the whole
// traversal, so variables shared between subterms stay shared in the
// copy.
type renameTable map[Variable]Variable

// rename copies t, substituting a fresh variable for every variable.
// Ground subterms are detected and shared by reference instead of
// recopied. The second result reports whether t is ground.
func (tab renameTable) rename(t Term) (Term, bool) {
	switch t := t.(type) {
	case Variable:
		fresh, ok := tab[t]
		if !ok {
			fresh = t.renamed()
			tab[t] = fresh
		}
		return fresh, false
	case *Compound:
		args, ground := tab.renameAll(t.Args)
		if ground {
			return t, true
		}
		return &Compound{Functor: t.Functor, Args: args}, false
	case *Cons:
		head, hg := tab.rename(t.Head)
		tail, tg := tab.rename(t.Tail)
		if hg && tg {
			return t, true
		}
		return &Cons{Head: head, Tail: tail}, false
	case *Unary:
		operand, ground := tab.rename(t.Operand)
		if ground {
			return t, true
		}
		return &Unary{Kind: t.Kind, Operand: operand}, false
	case *Binary:
		left, lg := tab.rename(t.Left)
		right, rg := tab.rename(t.Right)
		if lg && rg {
			return t, true
		}
		return &Binary{Kind: t.Kind, Left: left, Right: right}, false
	case *Conjunction:
		goals, ground := tab.renameAll(t.Goals)
		if ground {
			return t, true
		}
		return &Conjunction{Goals: goals}, false
	case *Disjunction:
		goals, ground := tab.renameAll(t.Goals)
		if ground {
			return t, true
		}
		return &Disjunction{Goals: goals}, false
	case *Negation:
		goal, ground := tab.rename(t.Goal)
		if ground {
			return t, true
		}
		return &Negation{Goal: goal}, false
	case *Rule:
		head, hg := tab.rename(t.Head)
		body, bg := tab.rename(t.Body)
		if hg && bg {
			return t, true
		}
		return &Rule{Head: head, Body: body}, false
	default:
		// Atoms, numbers, strings, wildcards and the empty list are
		// ground by definition.
		return t, true
	}
}

func (tab renameTable) renameAll(ts []Term) ([]Term, bool) {
	ret := make([]Term, len(ts))
	ground := true
	for i, t := range ts {
		nt, g := tab.rename(t)
		ret[i] = nt
		ground = ground && g
	}
	return ret, ground
}

// collectVariables appends the named variables of t to vars in order
// of first appearance.
func collectVariables(vars []Variable, t Term) []Variable {
	switch t := t.(type) {
	case Variable:
		for _, v := range vars {
			if v == t {
				return vars
			}
		}
		return append(vars, t)
	case *Compound:
		for _, a := range t.Args {
			vars = collectVariables(vars, a)
		}
	case *Cons:
		vars = collectVariables(vars, t.Head)
		vars = collectVariables(vars, t.Tail)
	case *Unary:
		vars = collectVariables(vars, t.Operand)
	case *Binary:
		vars = collectVariables(vars, t.Left)
		vars = collectVariables(vars, t.Right)
	case *Conjunction:
		for _, g := range t.Goals {
			vars = collectVariables(vars, g)
		}
	case *Disjunction:
		for _, g := range t.Goals {
			vars = collectVariables(vars, g)
		}
	case *Negation:
		vars = collectVariables(vars, t.Goal)
	case *Rule:
		vars = collectVariables(vars, t.Head)
		vars = collectVariables(vars, t.Body)
	}
	return vars
}
