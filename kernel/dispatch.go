// Package kernel implements the dispatch contract: a named-method
// factory that resolves a species' configured merger/radiation method
// name to the concrete kernel implementing it, plus a bounded
// worker-pool runner that fans a particle range out across goroutines
// and reduces their per-lane results additively, the same shape as a
// channel-based collision-flow accumulator.
package kernel

import (
	"sync"

	"github.com/wildstyl3r/qedcore/config"
	"github.com/wildstyl3r/qedcore/merge"
	"github.com/wildstyl3r/qedcore/particle"
	"github.com/wildstyl3r/qedcore/radiation"
	"github.com/wildstyl3r/qedcore/rng"
	"github.com/wildstyl3r/qedcore/tables"
)

// Merger is anything that can merge particles in a range in place.
type Merger interface {
	Run(particles particle.Store, istart, iend int, arena *merge.Arena)
}

// ResolveMerger is the merger half of kernel dispatch: the closed set
// of recognised merging methods maps to a concrete Merger, and any
// unrecognised name disables merging for that species entirely.
func ResolveMerger(params config.SpeciesConfig) Merger {
	switch params.MergingMethod {
	case "vranic":
		return merge.Kernel{Params: params}
	default:
		return nil
	}
}

// Radiator is anything that can run the radiation kernel over a range.
type Radiator interface {
	Run(particles, photons particle.Store, fields radiation.FieldSamples, istart, iend int, src rng.Source) radiation.Result
}

// ResolveRadiator is the radiation half of kernel dispatch, analogous
// to ResolveMerger: currently a single recognised model ("qed") maps
// to the Monte-Carlo inverse-Compton kernel, any other name (including
// empty) disables radiation for that species.
func ResolveRadiator(params config.SpeciesConfig, tbl tables.Tables, model string) Radiator {
	switch model {
	case "qed":
		return radiation.Kernel{Params: params, Tables: tbl}
	default:
		return nil
	}
}

// poolWorkers bounds how many goroutines a pool runner spawns when the
// caller doesn't constrain it further; index ranges smaller than this
// run on fewer lanes automatically (see splitRange).
const poolWorkers = 8

// splitRange divides [istart, iend) into at most n contiguous,
// roughly-equal subranges, never producing an empty one.
func splitRange(istart, iend, n int) [][2]int {
	total := iend - istart
	if total <= 0 {
		return nil
	}
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	chunks := make([][2]int, 0, n)
	base := total / n
	rem := total % n
	cursor := istart
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, [2]int{cursor, cursor + size})
		cursor += size
	}
	return chunks
}

// RunMergerPool fans particles[istart:iend) out across a bounded
// worker pool, each goroutine merging its own contiguous subrange with
// its own Arena so no lane shares scratch with another. Merger
// subranges never straddle a bin boundary across goroutines because
// each call to m.Run performs its own independent binning pass over
// just its subrange.
func RunMergerPool(m Merger, particles particle.Store, istart, iend int) {
	if m == nil {
		return
	}
	chunks := splitRange(istart, iend, poolWorkers)
	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			m.Run(particles, lo, hi, merge.NewArena())
		}(c[0], c[1])
	}
	wg.Wait()
}

// RunRadiationPool fans particles[istart:iend) out across a bounded
// worker pool, each goroutine running the radiation kernel over its
// own contiguous subrange with its own rng.Source and field window,
// and additively reducing every lane's radiated energy through a
// shared channel rather than a shared counter.
//
// Momentum/tau/chi columns are written only at each lane's own indices
// and never race. photons is the one exception: appending to it grows
// its backing columns, which is not safe from multiple goroutines at
// once, so whenever a photon sink is present the lanes are run
// sequentially instead of concurrently and their energies are summed
// directly, without the channel.
func RunRadiationPool(r Radiator, particles, photons particle.Store, fields radiation.FieldSamples, istart, iend int, newSource func(laneIstart int) rng.Source) radiation.Result {
	if r == nil {
		return radiation.Result{}
	}
	chunks := splitRange(istart, iend, poolWorkers)

	if photons != nil {
		var total radiation.Result
		for _, c := range chunks {
			res := r.Run(particles, photons, fields, c[0], c[1], newSource(c[0]))
			total.RadiatedEnergy += res.RadiatedEnergy
		}
		return total
	}

	energies := make(chan float64, len(chunks))
	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			src := newSource(lo)
			res := r.Run(particles, photons, fields, lo, hi, src)
			energies <- res.RadiatedEnergy
		}(c[0], c[1])
	}
	wg.Wait()
	close(energies)

	var total radiation.Result
	for e := range energies {
		total.RadiatedEnergy += e
	}
	return total
}
