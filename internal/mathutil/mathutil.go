// Package mathutil collects the small numeric helpers shared by the
// radiation and merger kernels: generic reductions, a bracketing
// search used by table interpolation, and an invariant checker that
// panics on caller contract violations in every build.
package mathutil

import (
	"cmp"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is satisfied by any real or integer type the kernels reduce over.
type Number interface {
	constraints.Float | constraints.Integer
}

// SumSlice adds up every element of arr.
func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

// Average returns the arithmetic mean of s. Average of an empty slice is NaN.
func Average[T Number](s []T) (mean float64) {
	for i := range s {
		mean += float64(s[i])
	}
	mean /= float64(len(s))
	return
}

// ArgMax returns the index of the largest element of arr, preferring the
// first occurrence on ties.
func ArgMax[T cmp.Ordered](arr []T) (argmax int) {
	for i := range arr {
		if cmp.Compare(arr[i], arr[argmax]) == 1 {
			argmax = i
		}
	}
	return
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BracketLog finds i such that table[i] <= x < table[i+1] for a
// monotonically increasing, log-spaced table of n samples covering
// [lo, hi], returning the clamped index and the linear fractional
// position within the bracket (0 at table[i], 1 at table[i+1]).
// x is clamped to the table domain first, so this never returns an
// out-of-range bracket.
func BracketLog(x, lo, hi float64, n int) (i int, frac float64) {
	x = Clamp(x, lo, hi)
	logLo, logHi := math.Log(lo), math.Log(hi)
	if logHi <= logLo || n < 2 {
		return 0, 0
	}
	step := (logHi - logLo) / float64(n-1)
	pos := (math.Log(x) - logLo) / step
	i = int(pos)
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	frac = pos - float64(i)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return
}

// Lerp linearly interpolates between a and b at fractional position t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Invariant panics with a formatted message if cond is false. It is
// the assertion point for caller contract violations (iend < istart,
// dt <= 0, and similar) — never used on numerically-degenerate paths,
// which are handled silently.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
