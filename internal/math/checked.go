package math

import (
	"math"
	"math/big"
	"sync"
)

// Token amounts are int64 integer units. Intermediate products in the
// shrinking-sale recomputation (amount * price) can exceed int64, so the
// mul/div helpers widen through big.Int.

var bigPool = &sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

func getBig() *big.Int {
	return bigPool.Get().(*big.Int)
}

func putBig(v *big.Int) {
	v.SetInt64(0)
	bigPool.Put(v)
}

// MulDiv computes a * b / c with a 128-bit intermediate, truncating toward
// zero. c must be non-zero. Returns false if the quotient overflows int64.
func MulDiv(a, b, c int64) (int64, bool) {
	if c == 0 {
		return 0, false
	}

	num := getBig()
	num.Mul(big.NewInt(a), big.NewInt(b))
	num.Quo(num, big.NewInt(c))

	ok := num.IsInt64()
	result := int64(0)
	if ok {
		result = num.Int64()
	}
	putBig(num)

	return result, ok
}

// MulDivOrFull is MulDiv falling back to the full value on any overflow or
// zero divisor. Used for the reverse-stage amount recomputation, where a
// degenerate ratio must never grow the amount for sale.
func MulDivOrFull(a, b, c, full int64) int64 {
	v, ok := MulDiv(a, b, c)
	if !ok || v > full {
		return full
	}
	return v
}

// MulRate applies a parts-per-million rate to an amount, truncating.
func MulRate(amount, ratePPM int64) int64 {
	v, ok := MulDiv(amount, ratePPM, 1_000_000)
	if !ok {
		return math.MaxInt64
	}
	return v
}

// CheckedAdd returns a + b and whether the sum fits in int64 without wrapping.
func CheckedAdd(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// SaturatingSub returns a - b floored at zero. Amounts are non-negative by
// construction, so the floor marks bookkeeping drift rather than valid state.
func SaturatingSub(a, b int64) int64 {
	if b >= a {
		return 0
	}
	return a - b
}

// Max returns the larger of two amounts.
func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
