// Package rational implements exact fractions used for beat positions.
package rational

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/jsphweid/tablab/errs"
	"github.com/jsphweid/tablab/util"
)

// Rational is a fraction kept in lowest terms with a positive denominator.
// The zero value is not valid; use New, MustNew, Zero or One.
//
// Intermediate products that overflow int64 are redone with math/big.
// Add and Multiply panic when the reduced result itself does not fit.
type Rational struct {
	num int64
	den int64
}

func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, errs.InvalidArgument("denominator is zero")
	}
	r := Rational{num: num, den: den}
	r.reduce()
	return r, nil
}

// MustNew panics on a zero denominator. Meant for constants.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

func Zero() Rational { return Rational{num: 0, den: 1} }
func One() Rational  { return Rational{num: 1, den: 1} }

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.den }

// Add sets r to r+o and returns r.
func (r *Rational) Add(o Rational) *Rational {
	a, aok := mul(r.num, o.den)
	b, bok := mul(o.num, r.den)
	den, dok := mul(r.den, o.den)
	num := a + b
	// the sum overflows only when both terms share a sign the result lacks
	sumOK := (a >= 0) != (b >= 0) || (num >= 0) == (a >= 0)
	if aok && bok && dok && sumOK {
		r.num, r.den = num, den
		r.reduce()
		return r
	}
	return r.setBig(new(big.Rat).Add(r.toBig(), o.toBig()))
}

// Multiply sets r to r*o and returns r.
func (r *Rational) Multiply(o Rational) *Rational {
	num, nok := mul(r.num, o.num)
	den, dok := mul(r.den, o.den)
	if nok && dok {
		r.num, r.den = num, den
		r.reduce()
		return r
	}
	return r.setBig(new(big.Rat).Mul(r.toBig(), o.toBig()))
}

// mul is a*b; ok is false when the product does not fit in int64.
func mul(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(absU(a), absU(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		return -int64(lo), true
	}
	return int64(lo), true
}

func absU(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

func (r Rational) toBig() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(r.num), big.NewInt(r.den))
}

func (r *Rational) setBig(x *big.Rat) *Rational {
	if !x.Num().IsInt64() || !x.Denom().IsInt64() {
		panic(fmt.Sprintf("rational: %v does not fit in int64", x))
	}
	r.num, r.den = x.Num().Int64(), x.Denom().Int64()
	return r
}

// Plus, Minus and Times leave r untouched.
func (r Rational) Plus(o Rational) Rational {
	r.Add(o)
	return r
}

func (r Rational) Minus(o Rational) Rational {
	if o.num == math.MinInt64 {
		r.setBig(new(big.Rat).Sub(r.toBig(), o.toBig()))
		return r
	}
	r.Add(Rational{num: -o.num, den: o.den})
	return r
}

func (r Rational) Times(o Rational) Rational {
	r.Multiply(o)
	return r
}

// Cmp returns -1, 0 or 1. It cross-multiplies, never going through floats.
func (r Rational) Cmp(o Rational) int {
	a, aok := mul(r.num, o.den)
	b, bok := mul(o.num, r.den)
	if !aok || !bok {
		return r.toBig().Cmp(o.toBig())
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r Rational) Equal(o Rational) bool {
	return r.Cmp(o) == 0
}

// Float64 is for scheduling math only; structural comparisons use Cmp.
func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

func (r *Rational) reduce() {
	if r.den < 0 {
		r.num, r.den = -r.num, -r.den
	}
	if r.num == 0 {
		r.den = 1
		return
	}
	g := util.Gcd(util.Abs(r.num), r.den)
	r.num /= g
	r.den /= g
}
