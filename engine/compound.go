package engine

import "strings"

// Compound is a compound term: a functor applied to one or more
// arguments. A compound with no arguments is represented as an Atom,
// never as a zero-arity Compound.
type Compound struct {
	Functor Atom
	Args    []Term
}

func (c *Compound) termNode() {}

func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteString(string(c.Functor))
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Cons is a non-empty list cell. A chain of Cons cells terminated by
// Empty is a proper list; any other tail makes a partial list.
type Cons struct {
	Head, Tail Term
}

func (c *Cons) termNode() {}

func (c *Cons) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(c.Head.String())
	t := c.Tail
	for {
		switch tail := t.(type) {
		case *Cons:
			sb.WriteString(", ")
			sb.WriteString(tail.Head.String())
			t = tail.Tail
			continue
		case Empty:
			sb.WriteString("]")
			return sb.String()
		default:
			sb.WriteString("|")
			sb.WriteString(t.String())
			sb.WriteString("]")
			return sb.String()
		}
	}
}

// Empty is the empty list.
type Empty struct{}

func (Empty) termNode() {}

func (Empty) String() string {
	return "[]"
}

// List returns a proper list of ts.
func List(ts ...Term) Term {
	return PartialList(Empty{}, ts...)
}

// PartialList returns a list of ts followed by rest.
func PartialList(rest Term, ts ...Term) Term {
	l := rest
	for i := len(ts) - 1; i >= 0; i-- {
		l = &Cons{Head: ts[i], Tail: l}
	}
	return l
}

// Slice returns the elements of a proper list as a Term slice,
// resolving each element against s. It errors if list is not proper.
func Slice(list Term, s *Subst) ([]Term, error) {
	var ret []Term
	iter := ListIterator{List: list, Subst: s}
	for iter.Next() {
		ret = append(ret, iter.Current())
	}
	return ret, iter.Err()
}
