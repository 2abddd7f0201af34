package engine

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd"
)

// evalCtx governs decimal arithmetic. 34 digits matches IEEE 754
// decimal128.
var evalCtx = apd.BaseContext.WithPrecision(34)

// EvalTerm evaluates an arithmetic expression term under s. Operator
// nodes are applied to their evaluated operands; numeric constants
// evaluate to themselves. Machine-integer operations that overflow
// are redone in arbitrary-precision decimals rather than wrapping.
// Unbound variables and non-numeric terms are errors.
func EvalTerm(t Term, s *Subst) (Number, error) {
	t, s, err := s.Resolve(t)
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case Integer:
		return t, nil
	case Float:
		return t, nil
	case *Decimal:
		return t, nil
	case Variable:
		return nil, fmt.Errorf("engine: arguments are not sufficiently instantiated: %s", t)
	case *Unary:
		x, err := EvalTerm(t.Operand, s)
		if err != nil {
			return nil, err
		}
		return evalUnary(t.Kind, x)
	case *Binary:
		x, err := EvalTerm(t.Left, s)
		if err != nil {
			return nil, err
		}
		y, err := EvalTerm(t.Right, s)
		if err != nil {
			return nil, err
		}
		return evalBinary(t.Kind, x, y)
	default:
		return nil, fmt.Errorf("engine: not an evaluable term: %s", t)
	}
}

func evalUnary(k OpKind, x Number) (Number, error) {
	switch k {
	case OpPos:
		return x, nil
	case OpNeg:
		switch x := x.(type) {
		case Integer:
			if x == minInt {
				return decNeg(decFromInt(x))
			}
			return -x, nil
		case Float:
			return -x, nil
		case *Decimal:
			return decNeg(x)
		}
	case OpInvert:
		if x, ok := x.(Integer); ok {
			return ^x, nil
		}
		return nil, fmt.Errorf("engine: bitwise complement needs an integer, got %s", x)
	}
	return nil, fmt.Errorf("engine: unknown unary operator %s", k.symbol())
}

func evalBinary(k OpKind, x, y Number) (Number, error) {
	switch k {
	case OpAdd:
		return arith(x, y, addInt, addFloat, decAdd)
	case OpSub:
		return arith(x, y, subInt, subFloat, decSub)
	case OpMul:
		return arith(x, y, mulInt, mulFloat, decMul)
	case OpDiv:
		return arith(x, y, divInt, divFloat, decDiv)
	case OpPow:
		return arith(x, y, powInt, powFloat, decPow)
	case OpFloorDiv:
		return intOp(k, x, y, func(a, b Integer) (Number, error) {
			if b == 0 {
				return nil, errZeroDivisor
			}
			q := a / b
			if (a%b != 0) && ((a < 0) != (b < 0)) {
				q--
			}
			return q, nil
		})
	case OpMod:
		return intOp(k, x, y, func(a, b Integer) (Number, error) {
			if b == 0 {
				return nil, errZeroDivisor
			}
			m := a % b
			if m != 0 && ((m < 0) != (b < 0)) {
				m += b
			}
			return m, nil
		})
	case OpLShift:
		return intOp(k, x, y, func(a, b Integer) (Number, error) { return a << uint(b), nil })
	case OpRShift:
		return intOp(k, x, y, func(a, b Integer) (Number, error) { return a >> uint(b), nil })
	case OpBitAnd:
		return intOp(k, x, y, func(a, b Integer) (Number, error) { return a & b, nil })
	case OpBitOr:
		return intOp(k, x, y, func(a, b Integer) (Number, error) { return a | b, nil })
	case OpBitXor:
		return intOp(k, x, y, func(a, b Integer) (Number, error) { return a ^ b, nil })
	}
	return nil, fmt.Errorf("engine: unknown binary operator %s", k.symbol())
}

var errZeroDivisor = fmt.Errorf("engine: zero divisor")

// arith applies the representation-appropriate version of an
// operation, promoting mixed operands: integer before float before
// decimal.
func arith(
	x, y Number,
	i func(Integer, Integer) (Number, error),
	f func(Float, Float) (Number, error),
	d func(*Decimal, *Decimal) (Number, error),
) (Number, error) {
	switch x := x.(type) {
	case Integer:
		switch y := y.(type) {
		case Integer:
			return i(x, y)
		case Float:
			return f(Float(x), y)
		case *Decimal:
			return d(decFromInt(x), y)
		}
	case Float:
		switch y := y.(type) {
		case Integer:
			return f(x, Float(y))
		case Float:
			return f(x, y)
		case *Decimal:
			yf, err := y.Dec.Float64()
			if err != nil {
				return nil, err
			}
			return f(x, Float(yf))
		}
	case *Decimal:
		switch y := y.(type) {
		case Integer:
			return d(x, decFromInt(y))
		case Float:
			xf, err := x.Dec.Float64()
			if err != nil {
				return nil, err
			}
			return f(Float(xf), y)
		case *Decimal:
			return d(x, y)
		}
	}
	return nil, fmt.Errorf("engine: cannot evaluate %s with %s", x, y)
}

func intOp(k OpKind, x, y Number, f func(Integer, Integer) (Number, error)) (Number, error) {
	a, aok := x.(Integer)
	b, bok := y.(Integer)
	if !aok || !bok {
		return nil, fmt.Errorf("engine: %s needs integers, got %s and %s", k.symbol(), x, y)
	}
	return f(a, b)
}

func addInt(a, b Integer) (Number, error) {
	c := a + b
	if (c > a) == (b > 0) {
		return c, nil
	}
	return decAdd(decFromInt(a), decFromInt(b))
}

func subInt(a, b Integer) (Number, error) {
	c := a - b
	if (c < a) == (b > 0) {
		return c, nil
	}
	return decSub(decFromInt(a), decFromInt(b))
}

func mulInt(a, b Integer) (Number, error) {
	if a == 0 || b == 0 {
		return Integer(0), nil
	}
	c := a * b
	if c/b == a && !(a == -1 && b == minInt) && !(b == -1 && a == minInt) {
		return c, nil
	}
	return decMul(decFromInt(a), decFromInt(b))
}

func divInt(a, b Integer) (Number, error) {
	if b == 0 {
		return nil, errZeroDivisor
	}
	if a%b == 0 && !(a == minInt && b == -1) {
		return a / b, nil
	}
	return decDiv(decFromInt(a), decFromInt(b))
}

func powInt(a, b Integer) (Number, error) {
	if b < 0 {
		return powFloat(Float(a), Float(b))
	}
	if b > math.MaxInt32 {
		return nil, fmt.Errorf("engine: exponent out of range: %d", b)
	}
	ret := Integer(1)
	for i := Integer(0); i < b; i++ {
		n, err := mulInt(ret, a)
		if err != nil {
			return nil, err
		}
		var ok bool
		if ret, ok = n.(Integer); !ok {
			return decPow(decFromInt(a), decFromInt(b))
		}
	}
	return ret, nil
}

func addFloat(a, b Float) (Number, error) { return a + b, nil }
func subFloat(a, b Float) (Number, error) { return a - b, nil }
func mulFloat(a, b Float) (Number, error) { return a * b, nil }

func divFloat(a, b Float) (Number, error) {
	if b == 0 {
		return nil, errZeroDivisor
	}
	return a / b, nil
}

func powFloat(a, b Float) (Number, error) {
	return Float(math.Pow(float64(a), float64(b))), nil
}

func decFromInt(i Integer) *Decimal {
	return &Decimal{Dec: apd.New(int64(i), 0)}
}

func decNeg(x *Decimal) (Number, error) {
	var ret apd.Decimal
	ret.Neg(x.Dec)
	return &Decimal{Dec: &ret}, nil
}

func decAdd(x, y *Decimal) (Number, error) { return decOp(evalCtx.Add, x, y) }
func decSub(x, y *Decimal) (Number, error) { return decOp(evalCtx.Sub, x, y) }
func decMul(x, y *Decimal) (Number, error) { return decOp(evalCtx.Mul, x, y) }

func decDiv(x, y *Decimal) (Number, error) {
	if y.Dec.IsZero() {
		return nil, errZeroDivisor
	}
	return decOp(evalCtx.Quo, x, y)
}

func decPow(x, y *Decimal) (Number, error) {
	xf, err := x.Dec.Float64()
	if err != nil {
		return nil, err
	}
	yf, err := y.Dec.Float64()
	if err != nil {
		return nil, err
	}
	return Float(math.Pow(xf, yf)), nil
}

func decOp(op func(*apd.Decimal, *apd.Decimal, *apd.Decimal) (apd.Condition, error), x, y *Decimal) (Number, error) {
	var ret apd.Decimal
	if _, err := op(&ret, x.Dec, y.Dec); err != nil {
		return nil, err
	}
	return &Decimal{Dec: &ret}, nil
}

// CompareNumbers orders two evaluated numbers: -1, 0 or 1.
func CompareNumbers(x, y Number) (int, error) {
	switch x := x.(type) {
	case Integer:
		switch y := y.(type) {
		case Integer:
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		case Float:
			return compareOrdered(Float(x), y), nil
		case *Decimal:
			return decFromInt(x).Dec.Cmp(y.Dec), nil
		}
	case Float:
		switch y := y.(type) {
		case Integer:
			return compareOrdered(x, Float(y)), nil
		case Float:
			return compareOrdered(x, y), nil
		case *Decimal:
			yf, err := y.Dec.Float64()
			if err != nil {
				return 0, err
			}
			return compareOrdered(x, Float(yf)), nil
		}
	case *Decimal:
		switch y := y.(type) {
		case Integer:
			return x.Dec.Cmp(decFromInt(y).Dec), nil
		case Float:
			xf, err := x.Dec.Float64()
			if err != nil {
				return 0, err
			}
			return compareOrdered(Float(xf), y), nil
		case *Decimal:
			return x.Dec.Cmp(y.Dec), nil
		}
	}
	return 0, fmt.Errorf("engine: cannot compare %s with %s", x, y)
}

func compareOrdered(x, y Float) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
