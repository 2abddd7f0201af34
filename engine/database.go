package engine

import "fmt"

// Database is an indicator-keyed, append-ordered store of clauses.
// Databases chain: a child inherits every clause of its ancestors and
// asserts only into its own layer.
type Database struct {
	parent *Database
	procs  map[Indicator][]*clause
	order  []Indicator
}

// NewDatabase returns an empty root database.
func NewDatabase() *Database {
	return &Database{procs: map[Indicator][]*clause{}}
}

// NewChild returns a database that inherits the receiver's clauses.
// Assertions into the child are invisible to the parent.
func (db *Database) NewChild() *Database {
	return &Database{parent: db, procs: map[Indicator][]*clause{}}
}

// Tell compiles each term into a clause and appends it under its
// indicator. Clause order is preserved: resolution tries clauses in
// assertion order. Terms that are not clause-shaped are a fatal error.
func (db *Database) Tell(terms ...Term) error {
	for _, t := range terms {
		c, err := compileClause(t)
		if err != nil {
			return err
		}
		db.append(c)
	}
	return nil
}

// TellNative registers body as the implementation of the clause whose
// head is head. The body receives the current database, substitution
// and the freshened head arguments, and returns the goal to run.
func (db *Database) TellNative(head Term, body NativeBody) error {
	c := &clause{native: body}
	switch head := head.(type) {
	case Atom:
		c.pi = Indicator{Name: head, Arity: 0}
		c.ground = true
	case *Compound:
		tab := renameTable{}
		h, ground := tab.rename(head)
		c.pi = Indicator{Name: head.Functor, Arity: len(head.Args)}
		c.head = h
		c.ground = ground
	default:
		return fmt.Errorf("engine: cannot register native clause with head %s", head)
	}
	db.append(c)
	return nil
}

func (db *Database) append(c *clause) {
	if _, ok := db.procs[c.pi]; !ok {
		db.order = append(db.order, c.pi)
	}
	db.procs[c.pi] = append(db.procs[c.pi], c)
}

// clausesFor returns the clauses under pi in assertion order,
// ancestors first.
func (db *Database) clausesFor(pi Indicator) []*clause {
	if db.parent == nil {
		return db.procs[pi]
	}
	inherited := db.parent.clausesFor(pi)
	local := db.procs[pi]
	if len(local) == 0 {
		return inherited
	}
	ret := make([]*clause, 0, len(inherited)+len(local))
	ret = append(ret, inherited...)
	return append(ret, local...)
}

// Procedures returns the indicators known to the database and its
// ancestors, in first-assertion order.
func (db *Database) Procedures() []Indicator {
	var pis []Indicator
	if db.parent != nil {
		pis = db.parent.Procedures()
	}
	for _, pi := range db.order {
		pis = append(pis, pi)
	}
	return pis
}

// ClauseTerms reconstructs the clauses stored under pi as terms, for
// listings.
func (db *Database) ClauseTerms(pi Indicator) []Term {
	cs := db.clausesFor(pi)
	ts := make([]Term, len(cs))
	for i, c := range cs {
		ts[i] = c.term()
	}
	return ts
}

// Ask conjoins the given terms into one query and resolves it. The
// returned Solutions is lazy: computing one solution does not compute
// the next until requested, and iteration drives backtracking. The
// query's variables are freshened on every invocation, so separate
// calls never alias.
func (db *Database) Ask(goals ...Term) (*Solutions, error) {
	query := BodyOf(goals...)
	if err := validateGoalTerm(query); err != nil {
		return nil, err
	}

	vars := collectVariables(nil, query)
	tab := renameTable{}
	fresh, _ := tab.rename(query)

	step := resolveGoal(fresh)(db, NewSubst())
	return &Solutions{
		vars:    vars,
		renamed: tab,
		next: func() *Frame {
			return step(Success, Failure, Failure)
		},
	}, nil
}

// Resolve runs the goal term t under substitution s, calling yield
// with each solution substitution until yield returns false or the
// search is exhausted. Host predicates use it for nested queries.
func (db *Database) Resolve(t Term, s *Subst, yield func(*Subst) bool) error {
	if err := validateGoalTerm(t); err != nil {
		return err
	}
	step := resolveGoal(t)(db, s)
	return drive(func() *Frame {
		return step(Success, Failure, Failure)
	}, yield)
}

// resolveGoal translates a goal term into the continuation engine's
// vocabulary. Predicate calls enumerate the matching clauses under a
// shared cut barrier; connectives map onto their combinators.
func resolveGoal(t Term) Goal {
	switch t := t.(type) {
	case Atom:
		switch t {
		case "true":
			return Unit
		case "fail", "false":
			return Fail
		case "!", "cut":
			return Cut
		}
		return callGoal(t)
	case *Compound:
		return callGoal(t)
	case *Conjunction:
		goals := make([]Goal, len(t.Goals))
		for i, g := range t.Goals {
			goals[i] = resolveGoal(g)
		}
		return Seq(goals...)
	case *Disjunction:
		goals := make([]Goal, len(t.Goals))
		for i, g := range t.Goals {
			goals[i] = resolveGoal(g)
		}
		return Amb(goals...)
	case *Negation:
		return Neg(resolveGoal(t.Goal))
	case Variable:
		return dynamicGoal(t)
	default:
		return Raise(typeErrorCallable(t))
	}
}

// callGoal tries every clause of the query's predicate in stored
// order. Each retrieval freshens the clause, and the whole set runs
// under one cut barrier, so a cut inside a clause body discards the
// remaining clauses of this call and nothing of the caller's.
func callGoal(query Term) Goal {
	pi, _ := IndicatorOf(query)
	return func(db *Database, s *Subst) Step {
		cs := db.clausesFor(pi)
		goals := make([]Goal, len(cs))
		for i, c := range cs {
			goals[i] = c.goal(query)
		}
		return Prunable(goals...)(db, s)
	}
}

// dynamicGoal dispatches a variable used as a goal on its binding at
// call time. An unbound variable or a non-callable binding is fatal.
func dynamicGoal(v Variable) Goal {
	return func(db *Database, s *Subst) Step {
		t, s, err := s.Resolve(v)
		if err != nil {
			return Raise(err)(db, s)
		}
		if w, ok := t.(Variable); ok {
			return Raise(fmt.Errorf("engine: unbound variable %s called as a goal", w))(db, s)
		}
		if err := validateGoalTerm(t); err != nil {
			return Raise(err)(db, s)
		}
		return resolveGoal(t)(db, s)
	}
}

func typeErrorCallable(t Term) error {
	return fmt.Errorf("engine: type error: `callable' expected, found %s", t)
}

// validateGoalTerm rejects terms that can never act as goals, walking
// through the connectives. Variables pass: they are dispatched on
// their binding at call time.
func validateGoalTerm(t Term) error {
	switch t := t.(type) {
	case Atom, *Compound, Variable:
		return nil
	case *Conjunction:
		for _, g := range t.Goals {
			if err := validateGoalTerm(g); err != nil {
				return err
			}
		}
		return nil
	case *Disjunction:
		for _, g := range t.Goals {
			if err := validateGoalTerm(g); err != nil {
				return err
			}
		}
		return nil
	case *Negation:
		return validateGoalTerm(t.Goal)
	default:
		return typeErrorCallable(t)
	}
}
