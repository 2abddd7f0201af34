// Package horn embeds a Horn-clause resolution engine behind a small
// declarative surface. A Machine is a clause database preloaded with
// the standard predicate library; clauses are built with the term
// helpers and asserted with Tell, queries run with Ask.
package horn

import (
	"io"
	"sync"

	"github.com/hornlog/horn/engine"
)

// Aliases for the engine's term vocabulary, so embedders can stay in
// this package for everyday use.
type (
	Term      = engine.Term
	Atom      = engine.Atom
	Str       = engine.Str
	Integer   = engine.Integer
	Float     = engine.Float
	Variable  = engine.Variable
	Solutions = engine.Solutions
)

// Machine is a clause database preloaded with the standard predicate
// library. It embeds the engine database, so Tell, TellNative, Ask and
// the rest of the engine surface apply directly.
type Machine struct {
	*engine.Database
	out io.Writer
}

// New returns a machine with the standard library loaded. Output
// predicates write to out; a nil out discards their output.
func New(out io.Writer) *Machine {
	if out == nil {
		out = io.Discard
	}
	m := &Machine{Database: engine.NewDatabase(), out: out}
	m.registerLibrary()
	return m
}

// NewChild returns a machine inheriting the receiver's clauses.
// Assertions into the child are invisible to the receiver.
func (m *Machine) NewChild() *Machine {
	return &Machine{Database: m.Database.NewChild(), out: m.out}
}

var (
	varsMu    sync.Mutex
	varsTable = map[string]Variable{}
)

// Var returns the logic variable named name. Calls with the same name
// return the same variable, so a name co-refers across the head and
// body of a clause built piecewise. Assertion and querying rename
// variables, so reusing a name across clauses never aliases them.
func Var(name string) Variable {
	varsMu.Lock()
	defer varsMu.Unlock()
	v, ok := varsTable[name]
	if !ok {
		v = engine.NewVariable(name)
		varsTable[name] = v
	}
	return v
}

// Functor builds name(args...), promoting host values to terms. With
// no arguments it is the atom name. It panics on values with no term
// representation.
func Functor(name string, args ...interface{}) Term {
	ts := make([]Term, len(args))
	for i, a := range args {
		ts[i] = engine.MustPromote(a)
	}
	return Atom(name).Apply(ts...)
}

// ListOf builds a proper list, promoting host values to terms.
func ListOf(items ...interface{}) Term {
	ts := make([]Term, len(items))
	for i, v := range items {
		ts[i] = engine.MustPromote(v)
	}
	return engine.List(ts...)
}

// Rule builds the clause head :- goals. With no goals the body is the
// atom true.
func Rule(head Term, goals ...Term) Term {
	return engine.NewRule(head, goals...)
}

// Error is a term thrown by throw/1, surfaced as the fatal error of
// the query that raised it.
type Error struct {
	Term Term
}

func (e Error) Error() string {
	return "horn: uncaught exception: " + e.Term.String()
}
