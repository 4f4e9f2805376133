package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumAndAverage(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 10.0, SumSlice(xs))
	assert.Equal(t, 2.5, Average(xs))
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 2, ArgMax([]float64{1, 5, 9, 3}))
	assert.Equal(t, 0, ArgMax([]float64{1}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestBracketLogEndpoints(t *testing.T) {
	i, frac := BracketLog(1e-3, 1e-3, 1e3, 7)
	assert.Equal(t, 0, i)
	assert.InDelta(t, 0, frac, 1e-9)

	i, frac = BracketLog(1e3, 1e-3, 1e3, 7)
	assert.Equal(t, 5, i)
	assert.InDelta(t, 1, frac, 1e-9)
}

func TestBracketLogClampsOutOfDomain(t *testing.T) {
	iLow, fracLow := BracketLog(-5, 1e-3, 1e3, 7)
	iHigh, fracHigh := BracketLog(1e12, 1e-3, 1e3, 7)
	assert.Equal(t, 0, iLow)
	assert.InDelta(t, 0, fracLow, 1e-9)
	assert.Equal(t, 5, iHigh)
	assert.InDelta(t, 1, fracHigh, 1e-9)
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
}

func TestInvariantPanics(t *testing.T) {
	assert.Panics(t, func() { Invariant(false, "bad: %d", 1) })
	assert.NotPanics(t, func() { Invariant(true, "fine") })
}

func TestBracketLogMonotone(t *testing.T) {
	lo, hi, n := 1e-5, 1e2, 64
	prev := -1
	for x := lo; x < hi; x *= 1.3 {
		i, frac := BracketLog(x, lo, hi, n)
		if i < prev {
			t.Fatalf("bracket index went backwards: %d after %d", i, prev)
		}
		if frac < 0 || frac > 1 {
			t.Fatalf("frac out of [0,1]: %v", frac)
		}
		prev = i
	}
}
