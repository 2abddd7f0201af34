package engine

import (
	"fmt"
	"strings"
)

// OpKind enumerates the arithmetic and bitwise operator node kinds.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLShift
	OpRShift
	OpBitAnd
	OpBitOr
	OpBitXor
	OpNeg
	OpPos
	OpInvert
)

func (k OpKind) symbol() string {
	switch k {
	case OpAdd, OpPos:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "mod"
	case OpPow:
		return "**"
	case OpLShift:
		return "<<"
	case OpRShift:
		return ">>"
	case OpBitAnd:
		return "/\\"
	case OpBitOr:
		return "\\/"
	case OpBitXor:
		return "xor"
	case OpInvert:
		return "\\"
	default:
		return "?"
	}
}

// unary reports whether the kind is a prefix operator.
func (k OpKind) unary() bool {
	switch k {
	case OpNeg, OpPos, OpInvert:
		return true
	default:
		return false
	}
}

// Unary is a prefix operator node.
type Unary struct {
	Kind    OpKind
	Operand Term
}

func (u *Unary) termNode() {}

func (u *Unary) String() string {
	op := fixityOf(u)
	operand := fixityOf(u.Operand)
	s := u.Operand.String()
	if operand.left != 0 && op.right > operand.left {
		s = "(" + s + ")"
	}
	return u.Kind.symbol() + s
}

// Binary is an infix operator node.
type Binary struct {
	Kind        OpKind
	Left, Right Term
}

func (b *Binary) termNode() {}

func (b *Binary) String() string {
	op := fixityOf(b)
	left := fixityOf(b.Left)
	right := fixityOf(b.Right)

	ls := b.Left.String()
	if left.right != 0 && left.right < op.left {
		ls = "(" + ls + ")"
	}
	rs := b.Right.String()
	if right.left != 0 && op.right > right.left {
		rs = "(" + rs + ")"
	}
	return fmt.Sprintf("%s %s %s", ls, b.Kind.symbol(), rs)
}

// fixity carries the left and right binding ranks of an operator node.
// A rank of zero means "not an operator on that side"; higher ranks
// bind tighter. The comparisons in the String methods reproduce
// conventional precedence with minimal parenthesization.
type fixity struct {
	left, right int
}

func xfx(rank int) fixity { return fixity{left: rank, right: rank} }
func xfy(rank int) fixity { return fixity{left: rank, right: rank - 1} }
func yfx(rank int) fixity { return fixity{left: rank - 1, right: rank} }
func fy(rank int) fixity  { return fixity{left: rank, right: rank - 1} }

func fixityOf(t Term) fixity {
	switch t := t.(type) {
	case *Rule:
		return xfx(4)
	case *Disjunction:
		return xfy(10)
	case *Conjunction:
		return xfy(30)
	case *Negation:
		return fy(70)
	case *Unary:
		return fy(70)
	case *Binary:
		switch t.Kind {
		case OpAdd, OpSub:
			return yfx(50)
		case OpMul, OpDiv, OpFloorDiv, OpMod,
			OpLShift, OpRShift, OpBitAnd, OpBitOr, OpBitXor:
			return yfx(60)
		case OpPow:
			return xfy(80)
		}
	}
	return fixity{}
}

// Conjunction is the sequencing connective over goals.
type Conjunction struct {
	Goals []Term
}

func (c *Conjunction) termNode() {}

func (c *Conjunction) String() string {
	return joinGoals(c.Goals, ", ", fixityOf(c))
}

// Disjunction is the choice connective over goals.
type Disjunction struct {
	Goals []Term
}

func (d *Disjunction) termNode() {}

func (d *Disjunction) String() string {
	return joinGoals(d.Goals, "; ", fixityOf(d))
}

func joinGoals(goals []Term, sep string, op fixity) string {
	ss := make([]string, len(goals))
	for i, g := range goals {
		s := g.String()
		if f := fixityOf(g); f.left != 0 && f.left <= op.left && f.right < op.left {
			s = "(" + s + ")"
		}
		ss[i] = s
	}
	return strings.Join(ss, sep)
}

// Negation is negation as failure over a goal.
type Negation struct {
	Goal Term
}

func (n *Negation) termNode() {}

func (n *Negation) String() string {
	s := n.Goal.String()
	if f := fixityOf(n.Goal); f.left != 0 {
		s = "(" + s + ")"
	}
	return `\+` + s
}

// Rule is a clause term head :- body, prior to compilation into the
// database. It is not itself a valid goal.
type Rule struct {
	Head, Body Term
}

func (r *Rule) termNode() {}

func (r *Rule) String() string {
	return fmt.Sprintf("%s :- %s", r.Head, r.Body)
}

// NewRule builds a Rule whose body is the conjunction of goals.
func NewRule(head Term, goals ...Term) *Rule {
	return &Rule{Head: head, Body: BodyOf(goals...)}
}

// BodyOf conjoins goals into a single goal term. A single goal stays
// as it is; an empty sequence is the atom true.
func BodyOf(goals ...Term) Term {
	switch len(goals) {
	case 0:
		return Atom("true")
	case 1:
		return goals[0]
	default:
		return &Conjunction{Goals: goals}
	}
}
