package engine

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/apd"
)

// Term is a node of the term algebra: an atom, a number, a variable, a
// compound, a list cell, an operator expression, or one of the logical
// connectives. The set of implementations is closed; everything that
// consumes terms switches exhaustively over it.
type Term interface {
	fmt.Stringer
	termNode()
}

// Indicator identifies a predicate by name and arity.
type Indicator struct {
	Name  Atom
	Arity int
}

func (pi Indicator) String() string {
	return fmt.Sprintf("%s/%d", string(pi.Name), pi.Arity)
}

// IndicatorOf returns the indicator of t and reports whether t has one.
// Only atoms and compound-shaped terms have indicators.
func IndicatorOf(t Term) (Indicator, bool) {
	switch t := t.(type) {
	case Atom:
		return Indicator{Name: t, Arity: 0}, true
	case *Compound:
		return Indicator{Name: t.Functor, Arity: len(t.Args)}, true
	case *Cons:
		return Indicator{Name: ".", Arity: 2}, true
	case Empty:
		return Indicator{Name: "[]", Arity: 0}, true
	case *Unary:
		return Indicator{Name: Atom(t.Kind.symbol()), Arity: 1}, true
	case *Binary:
		return Indicator{Name: Atom(t.Kind.symbol()), Arity: 2}, true
	default:
		return Indicator{}, false
	}
}

// compoundView exposes a compound-shaped term as an indicator plus its
// arguments, so that unification and traversal can treat compounds,
// list cells and operator nodes uniformly. Atoms and other constants
// are not compound-shaped.
func compoundView(t Term) (Indicator, []Term, bool) {
	switch t := t.(type) {
	case *Compound:
		return Indicator{Name: t.Functor, Arity: len(t.Args)}, t.Args, true
	case *Cons:
		return Indicator{Name: ".", Arity: 2}, []Term{t.Head, t.Tail}, true
	case *Unary:
		return Indicator{Name: Atom(t.Kind.symbol()), Arity: 1}, []Term{t.Operand}, true
	case *Binary:
		return Indicator{Name: Atom(t.Kind.symbol()), Arity: 2}, []Term{t.Left, t.Right}, true
	default:
		return Indicator{}, nil, false
	}
}

// Decompose splits a callable term into its functor and arguments. An
// atom decomposes to itself with no arguments; compounds, list cells
// and operator nodes decompose through their indicator.
func Decompose(t Term) (Atom, []Term, bool) {
	if a, ok := t.(Atom); ok {
		return a, nil, true
	}
	pi, args, ok := compoundView(t)
	return pi.Name, args, ok
}

// Promote converts a host value into a Term. The conversion is
// deterministic: integers become Integer, floats become Float,
// *apd.Decimal becomes *Decimal, strings and byte slices become Str,
// booleans become the atoms true and false, complex numbers become
// Complex, slices become proper lists (an empty or nil slice is the
// empty list) and Terms pass through unchanged. Anything else, maps in
// particular, is an immediate error.
func Promote(v interface{}) (Term, error) {
	switch v := v.(type) {
	case Term:
		return v, nil
	case int:
		return Integer(v), nil
	case int8:
		return Integer(v), nil
	case int16:
		return Integer(v), nil
	case int32:
		return Integer(v), nil
	case int64:
		return Integer(v), nil
	case uint:
		return Integer(v), nil
	case uint8:
		return Integer(v), nil
	case uint16:
		return Integer(v), nil
	case uint32:
		return Integer(v), nil
	case uint64:
		if v > uint64(maxInt) {
			return nil, fmt.Errorf("engine: cannot promote %d: out of Integer range", v)
		}
		return Integer(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case *apd.Decimal:
		return &Decimal{Dec: v}, nil
	case string:
		return Str(v), nil
	case []byte:
		return Str(v), nil
	case bool:
		if v {
			return Atom("true"), nil
		}
		return Atom("false"), nil
	case complex64:
		return Complex(v), nil
	case complex128:
		return Complex(v), nil
	case []interface{}:
		return promoteSlice(len(v), func(i int) interface{} { return v[i] })
	case []Term:
		return List(v...), nil
	case nil:
		return nil, fmt.Errorf("engine: cannot promote nil")
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		return promoteSlice(rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() })
	}
	return nil, fmt.Errorf("engine: cannot promote %T value %v", v, v)
}

func promoteSlice(n int, at func(int) interface{}) (Term, error) {
	ts := make([]Term, n)
	for i := 0; i < n; i++ {
		t, err := Promote(at(i))
		if err != nil {
			return nil, err
		}
		ts[i] = t
	}
	return List(ts...), nil
}

// MustPromote is like Promote but panics on unsupported host values.
// It exists for building terms from literals in variable declarations.
func MustPromote(v interface{}) Term {
	t, err := Promote(v)
	if err != nil {
		panic(err)
	}
	return t
}
