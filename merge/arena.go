package merge

// Arena holds the scratch storage one merge.Run call needs, sized to
// the largest particle range and bin count seen so far and reused
// across calls instead of reallocated. The outer driver owns one per
// worker lane and passes it through Run so the O(N_particles) and
// O(N_bins) scratch vectors never hit the allocator on the hot path.
type Arena struct {
	r, theta, phi []float64
	binKey        []int
	sortedIndex   []int

	counts, offsets, cursor []int
}

// NewArena returns an empty Arena; its backing slices grow lazily on
// first use via reset.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) reset(n, nBins int) {
	a.r = growFloat64(a.r, n)
	a.theta = growFloat64(a.theta, n)
	a.phi = growFloat64(a.phi, n)
	a.binKey = growInt(a.binKey, n)
	a.sortedIndex = growInt(a.sortedIndex, n)
	a.counts = growInt(a.counts, nBins)
	a.offsets = growInt(a.offsets, nBins)
	a.cursor = growInt(a.cursor, nBins)
}

func growFloat64(s []float64, n int) []float64 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float64, n)
}

func growInt(s []int, n int) []int {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]int, n)
}
