package engine

import "errors"

// ErrCyclicBinding is reported when following a variable's binding
// chain revisits a variable. It indicates an engine bug or a genuinely
// cyclic structure fed to the substitution; it is fatal, never a
// backtracking signal.
var ErrCyclicBinding = errors.New("engine: cyclic variable binding detected")

type substKey int64

func newSubstKey(v Variable) substKey {
	// A new variable id is always bigger than the previous ones. So, if
	// we used the id itself as the key, insertions to the tree would be
	// skewed to the right.
	k := substKey(v.id)
	if k%2 != 0 {
		k *= -1
	}
	return k
}

type color uint8

const (
	red color = iota
	black
)

// Subst is a persistent mapping from variables to terms. Bind returns
// a new value sharing structure with the old one, so each live search
// branch holds its own snapshot and backtracking is just reverting to
// an older value.
type Subst struct {
	// Red-Black tree from Purely Functional Data Structures by Okasaki.
	color       color
	left, right *Subst
	binding
}

type binding struct {
	key      substKey
	variable Variable
	value    Term
}

// NewSubst returns the empty substitution.
func NewSubst() *Subst {
	return nil
}

// Lookup returns the term the given variable is bound to.
func (s *Subst) Lookup(v Variable) (Term, bool) {
	k := newSubstKey(v)
	node := s
	for {
		if node == nil {
			return nil, false
		}
		switch {
		case k < node.key:
			node = node.left
		case k > node.key:
			node = node.right
		default:
			if node.variable != v {
				return nil, false
			}
			return node.value, true
		}
	}
}

// Bind returns a substitution extended with v bound to t.
func (s *Subst) Bind(v Variable, t Term) *Subst {
	ret := *s.insert(newSubstKey(v), v, t)
	ret.color = black
	return &ret
}

func (s *Subst) insert(k substKey, v Variable, t Term) *Subst {
	if s == nil {
		return &Subst{color: red, binding: binding{key: k, variable: v, value: t}}
	}
	switch {
	case k < s.key:
		ret := *s
		ret.left = s.left.insert(k, v, t)
		ret.balance()
		return &ret
	case k > s.key:
		ret := *s
		ret.right = s.right.insert(k, v, t)
		ret.balance()
		return &ret
	default:
		ret := *s
		ret.value = t
		ret.variable = v
		return &ret
	}
}

func (s *Subst) balance() {
	var (
		a, b, c, d *Subst
		x, y, z    binding
	)
	switch {
	case s.left != nil && s.left.color == red:
		switch {
		case s.left.left != nil && s.left.left.color == red:
			a = s.left.left.left
			b = s.left.left.right
			c = s.left.right
			d = s.right
			x = s.left.left.binding
			y = s.left.binding
			z = s.binding
		case s.left.right != nil && s.left.right.color == red:
			a = s.left.left
			b = s.left.right.left
			c = s.left.right.right
			d = s.right
			x = s.left.binding
			y = s.left.right.binding
			z = s.binding
		default:
			return
		}
	case s.right != nil && s.right.color == red:
		switch {
		case s.right.left != nil && s.right.left.color == red:
			a = s.left
			b = s.right.left.left
			c = s.right.left.right
			d = s.right.right
			x = s.binding
			y = s.right.left.binding
			z = s.right.binding
		case s.right.right != nil && s.right.right.color == red:
			a = s.left
			b = s.right.left
			c = s.right.right.left
			d = s.right.right.right
			x = s.binding
			y = s.right.binding
			z = s.right.right.binding
		default:
			return
		}
	default:
		return
	}
	*s = Subst{
		color:   red,
		left:    &Subst{color: black, left: a, right: b, binding: x},
		right:   &Subst{color: black, left: c, right: d, binding: z},
		binding: y,
	}
}

// Resolve follows the binding chain of t to a fixed point. It returns
// the first non-variable term or the last free variable, together with
// a substitution in which every variable on the walked path is
// shortcut to the result (path compression; an optimization, not
// required for correctness). Revisiting a variable during the walk is
// a fatal ErrCyclicBinding.
func (s *Subst) Resolve(t Term) (Term, *Subst, error) {
	var visited []Variable
	for {
		v, ok := t.(Variable)
		if !ok {
			break
		}
		for _, w := range visited {
			if w == v {
				return nil, s, ErrCyclicBinding
			}
		}
		ref, ok := s.Lookup(v)
		if !ok {
			break
		}
		visited = append(visited, v)
		t = ref
	}
	if len(visited) > 1 {
		for _, v := range visited[:len(visited)-1] {
			s = s.Bind(v, t)
		}
	}
	return t, s, nil
}

// Simplify replaces every bound variable inside t by its binding,
// recursively. Free variables and wildcards stay as they are. This is
// the caller-facing view of a solution. Simplify does not terminate on
// terms made infinite by unifying a variable with a structure
// containing it; such terms are a documented hazard of the missing
// occurs check.
func (s *Subst) Simplify(t Term) Term {
	t, _, err := s.Resolve(t)
	if err != nil {
		panic(err)
	}
	switch t := t.(type) {
	case *Compound:
		args := make([]Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.Simplify(a)
		}
		return &Compound{Functor: t.Functor, Args: args}
	case *Cons:
		return &Cons{Head: s.Simplify(t.Head), Tail: s.Simplify(t.Tail)}
	case *Unary:
		return &Unary{Kind: t.Kind, Operand: s.Simplify(t.Operand)}
	case *Binary:
		return &Binary{Kind: t.Kind, Left: s.Simplify(t.Left), Right: s.Simplify(t.Right)}
	case *Conjunction:
		return &Conjunction{Goals: s.simplifyAll(t.Goals)}
	case *Disjunction:
		return &Disjunction{Goals: s.simplifyAll(t.Goals)}
	case *Negation:
		return &Negation{Goal: s.Simplify(t.Goal)}
	case *Rule:
		return &Rule{Head: s.Simplify(t.Head), Body: s.Simplify(t.Body)}
	default:
		return t
	}
}

func (s *Subst) simplifyAll(ts []Term) []Term {
	ret := make([]Term, len(ts))
	for i, t := range ts {
		ret[i] = s.Simplify(t)
	}
	return ret
}
