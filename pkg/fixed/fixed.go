// Package fixed provides fixed-point arithmetic for the softshade renderer.
//
// A Fixed is a signed 64-bit integer whose low Bits bits hold the fractional
// part. The layout matches golang.org/x/image/math/fixed.Int52_12, which is
// used for the widening multiply.
//
// Numeric helpers never return errors and never check their inputs. Division
// by zero is a caller bug, not a runtime condition.
package fixed

import (
	"math"
	"math/bits"
	"strconv"

	xfixed "golang.org/x/image/math/fixed"
)

// Fixed is a 52.12 fixed-point number.
type Fixed int64

const (
	// Bits is the number of fractional bits.
	Bits = 12
	// One is 1.0.
	One Fixed = 1 << Bits
	// Half is 0.5.
	Half Fixed = One >> 1
	// Max is the largest representable value. Depth planes use it as the
	// "nothing drawn yet" sentinel.
	Max Fixed = math.MaxInt64
	// Min is the smallest representable value.
	Min Fixed = math.MinInt64

	fracMask = One - 1
)

// FromInt converts an integer to fixed point.
func FromInt(i int) Fixed {
	return Fixed(i) << Bits
}

// FromFloat converts a float64 to fixed point, rounding to nearest.
func FromFloat(f float64) Fixed {
	return Fixed(math.Round(f * float64(One)))
}

// Ratio returns num/den as fixed point. den must not be zero.
func Ratio(num, den int) Fixed {
	return Fixed((int64(num) << Bits) / int64(den))
}

// Int returns the integer part, rounding toward negative infinity.
func (a Fixed) Int() int {
	return int(a >> Bits)
}

// Round returns the nearest integer, rounding half up.
func (a Fixed) Round() int {
	return int((a + Half) >> Bits)
}

// Frac returns the fractional part in [0, One).
func (a Fixed) Frac() Fixed {
	return a & fracMask
}

// Float returns the value as a float64.
func (a Fixed) Float() float64 {
	return float64(a) / float64(One)
}

// String formats the value as a decimal number.
func (a Fixed) String() string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}

// Mul returns a*b. The product is formed in 128 bits and rounded to
// nearest before being scaled back.
func (a Fixed) Mul(b Fixed) Fixed {
	return Fixed(xfixed.Int52_12(a).Mul(xfixed.Int52_12(b)))
}

// Div returns a/b rounded toward zero. The rescaled dividend is formed in
// 128 bits; quotients outside the Fixed range saturate to Min or Max. b
// must not be zero.
func (a Fixed) Div(b Fixed) Fixed {
	neg := (a < 0) != (b < 0)
	ua, ub := magnitude(a), magnitude(b)
	hi, lo := ua>>(64-Bits), ua<<Bits
	// A zero divisor reaches bits.Div64, which panics like the / operator.
	if ub != 0 && hi >= ub {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, ub)
	switch {
	case neg && q <= 1<<63:
		return Fixed(-q)
	case !neg && q <= math.MaxInt64:
		return Fixed(q)
	}
	return saturate(neg)
}

func magnitude(a Fixed) uint64 {
	if a < 0 {
		return -uint64(a)
	}
	return uint64(a)
}

func saturate(neg bool) Fixed {
	if neg {
		return Min
	}
	return Max
}

// MulInt returns a*i without rescaling.
func (a Fixed) MulInt(i int) Fixed {
	return a * Fixed(i)
}

// DivInt returns a/i without rescaling. i must not be zero.
func (a Fixed) DivInt(i int) Fixed {
	return a / Fixed(i)
}

// Abs returns |a|.
func Abs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi Fixed) Fixed {
	return min(hi, max(x, lo))
}

// Wrap maps x into [lo, hi) by modular arithmetic.
func Wrap(x, lo, hi Fixed) Fixed {
	r := hi - lo
	return lo + ((x-lo)%r+r)%r
}

// Lerp interpolates between a and b by t (0..One).
func Lerp(a, b, t Fixed) Fixed {
	return a + (b - a).Mul(t)
}

// Sqrt returns the square root of x. Negative inputs yield 0.
func Sqrt(x Fixed) Fixed {
	if x <= 0 {
		return 0
	}
	// sqrt(x * 2^Bits) is the fixed-point root; shift as far as the
	// 64-bit range allows and make up the rest afterwards.
	const limit = uint64(1) << (63 - Bits)
	if uint64(x) < limit {
		return Fixed(isqrt(uint64(x) << Bits))
	}
	return Fixed(isqrt(uint64(x))) << (Bits / 2)
}

// isqrt is the bit-by-bit integer square root.
func isqrt(n uint64) uint64 {
	var res uint64
	bit := uint64(1) << 62
	for bit > n {
		bit >>= 2
	}
	for bit != 0 {
		if n >= res+bit {
			n -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}

// Pow returns base raised to a non-negative integer exponent.
func Pow(base Fixed, exp int) Fixed {
	result := One
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		exp >>= 1
		if exp > 0 {
			base = base.Mul(base)
		}
	}
	return result
}
