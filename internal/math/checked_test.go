package math_test

import (
	stdmath "math"
	"testing"

	"github.com/Setheum-Labs/Setheum-sub001/internal/math"
)

func TestMulDiv_Basic(t *testing.T) {
	v, ok := math.MulDiv(100, 1000, 1100)
	if !ok {
		t.Fatal("expected ok")
	}
	if v != 90 {
		t.Errorf("100*1000/1100: got %d, want 90", v)
	}
}

func TestMulDiv_WideIntermediate(t *testing.T) {
	// a*b overflows int64 but the quotient fits
	a := int64(4_000_000_000_000_000_000)
	v, ok := math.MulDiv(a, 10, 20)
	if !ok {
		t.Fatal("expected ok")
	}
	if v != a/2 {
		t.Errorf("got %d, want %d", v, a/2)
	}
}

func TestMulDiv_ZeroDivisor(t *testing.T) {
	if _, ok := math.MulDiv(1, 1, 0); ok {
		t.Error("division by zero should not be ok")
	}
}

func TestMulDiv_QuotientOverflow(t *testing.T) {
	if _, ok := math.MulDiv(stdmath.MaxInt64, 2, 1); ok {
		t.Error("overflowing quotient should not be ok")
	}
}

func TestMulDivOrFull_NeverGrows(t *testing.T) {
	// degenerate ratio > 1 must clamp to the full amount
	if v := math.MulDivOrFull(100, 200, 100, 100); v != 100 {
		t.Errorf("got %d, want clamp to 100", v)
	}
	if v := math.MulDivOrFull(100, 1000, 1100, 100); v != 90 {
		t.Errorf("got %d, want 90", v)
	}
	if v := math.MulDivOrFull(100, 1, 0, 100); v != 100 {
		t.Errorf("zero divisor: got %d, want fallback 100", v)
	}
}

func TestCheckedAdd(t *testing.T) {
	if v, ok := math.CheckedAdd(1, 2); !ok || v != 3 {
		t.Errorf("1+2: got %d ok=%v", v, ok)
	}
	if _, ok := math.CheckedAdd(stdmath.MaxInt64, 1); ok {
		t.Error("MaxInt64+1 should overflow")
	}
	if _, ok := math.CheckedAdd(stdmath.MinInt64, -1); ok {
		t.Error("MinInt64-1 should overflow")
	}
}

func TestSaturatingSub(t *testing.T) {
	if v := math.SaturatingSub(10, 3); v != 7 {
		t.Errorf("got %d, want 7", v)
	}
	if v := math.SaturatingSub(3, 10); v != 0 {
		t.Errorf("got %d, want 0", v)
	}
}

func TestMulRate(t *testing.T) {
	// 2% of 1000
	if v := math.MulRate(1000, 20_000); v != 20 {
		t.Errorf("got %d, want 20", v)
	}
	if v := math.MulRate(0, 20_000); v != 0 {
		t.Errorf("got %d, want 0", v)
	}
}
