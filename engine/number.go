package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd"
)

var (
	maxInt = Integer(math.MaxInt64)
	minInt = Integer(math.MinInt64)
)

// Number is a numeric constant, one of Integer, Float or *Decimal.
type Number interface {
	Term
	number()
}

// Integer is a machine integer constant.
type Integer int64

func (i Integer) termNode() {}
func (i Integer) number()   {}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Float is a floating point constant.
type Float float64

func (f Float) termNode() {}
func (f Float) number()   {}

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// Decimal is an arbitrary-precision decimal constant. Arithmetic
// evaluation falls back to decimals when machine integers overflow.
type Decimal struct {
	Dec *apd.Decimal
}

// NewDecimal parses s into a decimal constant.
func NewDecimal(s string) (*Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("engine: bad decimal %q: %w", s, err)
	}
	return &Decimal{Dec: d}, nil
}

func (d *Decimal) termNode() {}
func (d *Decimal) number()   {}

func (d *Decimal) String() string {
	return d.Dec.String()
}

// Complex is a complex number constant. It takes part in unification
// as a self-quoting value but not in arithmetic evaluation.
type Complex complex128

func (c Complex) termNode() {}

func (c Complex) String() string {
	return strconv.FormatComplex(complex128(c), 'g', -1, 128)
}
