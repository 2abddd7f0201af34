package engine

import "fmt"

// ListIterator walks a proper list, resolving the spine against a
// substitution as it goes.
type ListIterator struct {
	List  Term
	Subst *Subst

	current Term
	err     error
}

// Next proceeds to the next element and reports whether there is one.
func (i *ListIterator) Next() bool {
	t, s, err := i.Subst.Resolve(i.List)
	if err != nil {
		i.err = err
		return false
	}
	i.Subst = s
	switch t := t.(type) {
	case Empty:
		return false
	case *Cons:
		i.List = t.Tail
		i.current = i.Subst.Simplify(t.Head)
		return true
	case Variable:
		i.err = fmt.Errorf("engine: list not sufficiently instantiated: %s", t)
		return false
	default:
		i.err = fmt.Errorf("engine: not a list: %s", t)
		return false
	}
}

// Current returns the current element, fully dereferenced.
func (i *ListIterator) Current() Term {
	return i.current
}

// Err returns the error that stopped the iteration, if any.
func (i *ListIterator) Err() error {
	return i.err
}
