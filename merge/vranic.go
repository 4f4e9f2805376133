// Package merge implements the Vranic momentum-space particle merger:
// spherical-momentum binning, a stable counting sort into per-bin
// buckets, and a 4-to-2 merge per bucket that conserves total weight,
// momentum, and energy (Vranic et al., CPC 191 (2015)).
//
// The binning/bucketing shape discretises a multi-dimensional
// continuous space (spherical momentum space) into a flat-indexed
// grid, then accumulates per-bin particle indices via an explicit
// counting sort rather than resorting the whole range.
package merge

import (
	"math"

	"github.com/wildstyl3r/qedcore/config"
	"github.com/wildstyl3r/qedcore/internal/mathutil"
	"github.com/wildstyl3r/qedcore/particle"
)

// defaultGridSize is the spherical-momentum-space bin count per axis
// used when config.SpeciesConfig.MergingGrid{R,Theta,Phi} is left at
// its zero value.
const defaultGridSize = 5

// minAxisWidth is the threshold below which an axis collapses to a
// single bin.
const minAxisWidth = 1e-10

// Kernel holds the (stateless) configuration for one species' merger.
// Scratch storage is not part of Kernel: Run takes a caller-owned
// per-thread Arena the outer step reuses across cells/invocations; it
// may be nil, in which case Run allocates its own.
type Kernel struct {
	Params config.SpeciesConfig
}

// Run merges groups of four macro-particles into two within
// [istart, iend) of particles, in place. It mutates momentum, weight
// and cell_keys; particles marked dead (cell_keys = -1) must be
// compacted out by the caller afterward. arena may be nil.
func (k Kernel) Run(particles particle.Store, istart, iend int, arena *Arena) {
	mathutil.Invariant(iend >= istart, "merge.Run: iend %d < istart %d", iend, istart)

	n := iend - istart
	if n <= int(k.Params.MergingPPCMinThreshold) {
		return
	}

	gridR, gridTheta, gridPhi := k.gridSize()

	if arena == nil {
		arena = NewArena()
	}
	arena.reset(n, gridR*gridTheta*gridPhi)

	mom := [3][]float64{particles.Momentum(0), particles.Momentum(1), particles.Momentum(2)}
	weight := particles.Weight()
	keys := particles.CellKeys()

	// 1. Bounds pass: spherical coordinates + running min/max.
	minR, maxR := math.Inf(1), math.Inf(-1)
	minTheta, maxTheta := math.Inf(1), math.Inf(-1)
	minPhi, maxPhi := math.Inf(1), math.Inf(-1)

	for local := 0; local < n; local++ {
		i := istart + local
		px, py, pz := mom[0][i], mom[1][i], mom[2][i]
		r := math.Sqrt(px*px + py*py + pz*pz)
		theta := math.Atan2(py, px)
		var phi float64
		if r > 0 {
			phi = math.Asin(mathutil.Clamp(pz/r, -1, 1))
		}
		arena.r[local] = r
		arena.theta[local] = theta
		arena.phi[local] = phi

		minR, maxR = math.Min(minR, r), math.Max(maxR, r)
		minTheta, maxTheta = math.Min(minTheta, theta), math.Max(maxTheta, theta)
		minPhi, maxPhi = math.Min(minPhi, phi), math.Max(maxPhi, phi)
	}

	// 2. Inflate upper bounds by 1% of the range so the maximum lands
	// strictly inside the last bin.
	maxR += 0.01 * (maxR - minR)
	maxTheta += 0.01 * (maxTheta - minTheta)
	maxPhi += 0.01 * (maxPhi - minPhi)

	// 3. Bin widths, collapsing any axis narrower than minAxisWidth.
	deltaR, nr := binWidth(minR, maxR, gridR)
	deltaTheta, ntheta := binWidth(minTheta, maxTheta, gridTheta)
	deltaPhi, nphi := binWidth(minPhi, maxPhi, gridPhi)

	// 4. Unit-direction table over bin centres (the "d" vector in
	// Vranic (2015)), size ntheta*nphi.
	directions := make([][3]float64, ntheta*nphi)
	for ti := 0; ti < ntheta; ti++ {
		thetaC := binCentre(minTheta, deltaTheta, ti)
		for pi := 0; pi < nphi; pi++ {
			phiC := binCentre(minPhi, deltaPhi, pi)
			directions[ti*nphi+pi] = [3]float64{
				math.Cos(phiC) * math.Cos(thetaC),
				math.Cos(phiC) * math.Sin(thetaC),
				math.Sin(phiC),
			}
		}
	}

	// 5. Assign each particle its flattened bin key.
	nBins := nr * ntheta * nphi
	for local := 0; local < n; local++ {
		ri := binIndex(arena.r[local], minR, deltaR, nr)
		ti := binIndex(arena.theta[local], minTheta, deltaTheta, ntheta)
		pi := binIndex(arena.phi[local], minPhi, deltaPhi, nphi)
		arena.binKey[local] = ri*ntheta*nphi + ti*nphi + pi
	}

	// 6. Counting sort: stable scatter into sortedIndex, grouping
	// particles by bin while preserving input order within a bin.
	counts := arena.counts[:nBins]
	for i := range counts {
		counts[i] = 0
	}
	for local := 0; local < n; local++ {
		counts[arena.binKey[local]]++
	}
	offsets := arena.offsets[:nBins]
	sum := 0
	for b := 0; b < nBins; b++ {
		offsets[b] = sum
		sum += counts[b]
	}
	cursor := arena.cursor[:nBins]
	copy(cursor, offsets)
	sortedIndex := arena.sortedIndex[:n]
	for local := 0; local < n; local++ {
		b := arena.binKey[local]
		sortedIndex[cursor[b]] = local
		cursor[b]++
	}

	// 7. Merge per bin: consecutive packets of exactly 4, remainder dropped.
	for b := 0; b < nBins; b++ {
		start, count := offsets[b], counts[b]
		packets := count / 4
		ti := (b / nphi) % ntheta
		pi := b % nphi
		d := directions[ti*nphi+pi]
		for pk := 0; pk < packets; pk++ {
			members := [4]int{
				istart + sortedIndex[start+pk*4+0],
				istart + sortedIndex[start+pk*4+1],
				istart + sortedIndex[start+pk*4+2],
				istart + sortedIndex[start+pk*4+3],
			}
			mergePacket(members, mom, weight, keys, d)
		}
	}
}

func (k Kernel) gridSize() (r, theta, phi int) {
	r, theta, phi = defaultGridSize, defaultGridSize, defaultGridSize
	if k.Params.MergingGridR > 0 {
		r = k.Params.MergingGridR
	}
	if k.Params.MergingGridTheta > 0 {
		theta = k.Params.MergingGridTheta
	}
	if k.Params.MergingGridPhi > 0 {
		phi = k.Params.MergingGridPhi
	}
	return
}

// binWidth returns the per-bin width and the (possibly collapsed)
// number of bins for one axis.
func binWidth(lo, hi float64, n int) (width float64, bins int) {
	if n < 1 {
		n = 1
	}
	width = (hi - lo) / float64(n)
	if math.Abs(width) < minAxisWidth {
		return 0, 1
	}
	return width, n
}

func binCentre(lo, width float64, idx int) float64 {
	if width == 0 {
		return lo
	}
	return lo + width*(float64(idx)+0.5)
}

func binIndex(v, lo, width float64, n int) int {
	if width == 0 || n <= 1 {
		return 0
	}
	idx := int((v - lo) / width)
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// mergePacket overwrites members[0] and members[1] with the merged
// pair and marks members[2] and members[3] dead. d is the bin's
// precomputed direction vector.
func mergePacket(members [4]int, mom [3][]float64, weight []float64, keys []int, d [3]float64) {
	var memberWeight, memberEnergy [4]float64
	var weightedMom [3][4]float64
	for k, m := range members {
		w := weight[m]
		p := [3]float64{mom[0][m], mom[1][m], mom[2][m]}
		memberWeight[k] = w
		weightedMom[0][k] = p[0] * w
		weightedMom[1][k] = p[1] * w
		weightedMom[2][k] = p[2] * w
		memberEnergy[k] = w * math.Sqrt(1+dot(p, p))
	}
	wTotal := mathutil.SumSlice(memberWeight[:])
	pTotal := [3]float64{
		mathutil.SumSlice(weightedMom[0][:]),
		mathutil.SumSlice(weightedMom[1][:]),
		mathutil.SumSlice(weightedMom[2][:]),
	}
	eTotal := mathutil.SumSlice(memberEnergy[:])

	epsA := eTotal / wTotal
	pA := math.Sqrt(math.Max(epsA*epsA-1, 0))

	pTotalNorm := math.Sqrt(dot(pTotal, pTotal))
	var e1 [3]float64
	if pTotalNorm > 0 {
		e1 = [3]float64{pTotal[0] / pTotalNorm, pTotal[1] / pTotalNorm, pTotal[2] / pTotalNorm}
	} else {
		e1 = d
	}

	var omega float64
	if wTotal > 0 && pA > 0 {
		omega = math.Acos(mathutil.Clamp(pTotalNorm/(wTotal*pA), -1, 1))
	}

	e2 := inPlaneBasis(e1, d)

	cosOmega, sinOmega := math.Cos(omega), math.Sin(omega)
	pPlus := [3]float64{
		pA * (cosOmega*e1[0] + sinOmega*e2[0]),
		pA * (cosOmega*e1[1] + sinOmega*e2[1]),
		pA * (cosOmega*e1[2] + sinOmega*e2[2]),
	}
	pMinus := [3]float64{
		pA * (cosOmega*e1[0] - sinOmega*e2[0]),
		pA * (cosOmega*e1[1] - sinOmega*e2[1]),
		pA * (cosOmega*e1[2] - sinOmega*e2[2]),
	}

	newWeight := 0.5 * wTotal
	mom[0][members[0]], mom[1][members[0]], mom[2][members[0]] = pPlus[0], pPlus[1], pPlus[2]
	mom[0][members[1]], mom[1][members[1]], mom[2][members[1]] = pMinus[0], pMinus[1], pMinus[2]
	weight[members[0]] = newWeight
	weight[members[1]] = newWeight

	keys[members[2]] = particle.DeletedKey
	keys[members[3]] = particle.DeletedKey
}

// inPlaneBasis reconstructs e2 = e1 x (e1 x d), the in-plane direction
// orthogonal to e1 rotated toward the bin direction d, via the
// expanded bilinear identity a x (a x b) = a(a.b) - b(a.a). When d is
// nearly parallel to e1 this is ill-conditioned; fall back to any
// vector orthogonal to e1 in that case.
func inPlaneBasis(e1, d [3]float64) [3]float64 {
	adotb := dot(e1, d)
	v := [3]float64{
		e1[0]*adotb - d[0],
		e1[1]*adotb - d[1],
		e1[2]*adotb - d[2],
	}
	norm := math.Sqrt(dot(v, v))
	if norm < 1e-8 {
		return orthogonalFallback(e1)
	}
	return [3]float64{v[0] / norm, v[1] / norm, v[2] / norm}
}

// orthogonalFallback returns an arbitrary unit vector orthogonal to e1.
func orthogonalFallback(e1 [3]float64) [3]float64 {
	ref := [3]float64{1, 0, 0}
	if math.Abs(e1[0]) > 0.9 {
		ref = [3]float64{0, 1, 0}
	}
	v := cross3(e1, ref)
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return [3]float64{0, 0, 1}
	}
	return [3]float64{v[0] / norm, v[1] / norm, v[2] / norm}
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
