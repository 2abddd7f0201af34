package engine

import (
	"fmt"
	"regexp"
)

var unquotedAtomPattern = regexp.MustCompile(`\A[a-z]\w*\z`)

// Atom is a nullary symbolic constant.
type Atom string

func (a Atom) termNode() {}

func (a Atom) String() string {
	if unquotedAtomPattern.MatchString(string(a)) || a == "[]" || a == "." || a == "!" {
		return string(a)
	}
	return fmt.Sprintf("'%s'", string(a))
}

// Apply returns a Compound with the atom as functor and args as
// arguments. With no arguments it returns the atom itself.
func (a Atom) Apply(args ...Term) Term {
	if len(args) == 0 {
		return a
	}
	return &Compound{Functor: a, Args: args}
}

// Str is a host string literal treated as a self-quoting constant.
// Unlike an Atom it never acts as a functor.
type Str string

func (s Str) termNode() {}

func (s Str) String() string {
	return fmt.Sprintf("%q", string(s))
}
