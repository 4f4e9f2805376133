// Package rng implements the "give me a uniform on [0,1)" capability
// the Monte-Carlo radiation kernel needs. Kernel code only ever sees
// the Source interface; CPU and accelerator execution targets satisfy
// it with different bootstrap strategies but identical semantics from
// the kernel's point of view.
package rng

import "math/rand"

// Source produces uniform samples in [0,1). Implementations must be
// safe to use from exactly one goroutine/lane at a time (the kernel
// gives each lane its own Source; no cross-lane synchronisation is
// required or provided).
type Source interface {
	Uniform() float64
}

// CPUSource wraps a thread-local *rand.Rand (math/rand.Float64 called
// directly from each worker goroutine). One CPUSource must not be
// shared across goroutines.
type CPUSource struct {
	r *rand.Rand
}

// NewCPUSource builds a CPUSource seeded from seed. Each parallel lane
// should get its own instance seeded distinctly.
func NewCPUSource(seed int64) *CPUSource {
	return &CPUSource{r: rand.New(rand.NewSource(seed))}
}

func (c *CPUSource) Uniform() float64 { return c.r.Float64() }

// Accelerator LCG constants: a=1664525, c=1013904223, m=2^32. This is
// the classic Numerical-Recipes LCG, a cheap per-particle RNG
// bootstrap for devices where spinning up a full generator per lane is
// too expensive.
const (
	lcgA uint64 = 1664525
	lcgC uint64 = 1013904223
	lcgM uint64 = 1 << 32
)

// AcceleratorSource bootstraps a uniform stream per macro-particle
// from a small persistent per-particle seed, the way a GPU lane would:
// no shared generator state, just (ipart, seed) -> next uniform ->
// next seed. Callers own the seed storage (e.g. a column alongside
// tau/chi) and pass it in/out explicitly so the kernel's private
// per-lane scratch never allocates.
type AcceleratorSource struct {
	ipart uint64
	seed  uint64
}

// NewAcceleratorSource builds a per-particle bootstrap. ipart is the
// particle's index within the kernel's range and seed is that
// particle's persisted LCG state (0 on first use).
func NewAcceleratorSource(ipart int, seed uint64) *AcceleratorSource {
	return &AcceleratorSource{ipart: uint64(ipart), seed: seed}
}

// Uniform draws the next sample and advances the stored seed: it
// bootstraps a per-particle RNG using (ipart+1)*(seed+1) as the LCG
// input, then the produced uniform feeds the current draw and
// replaces the stored seed.
func (a *AcceleratorSource) Uniform() float64 {
	input := (a.ipart + 1) * (a.seed + 1) % lcgM
	out := (lcgA*input + lcgC) % lcgM
	a.seed = out
	return float64(out) / float64(lcgM)
}

// Seed returns the current persisted LCG state, for the caller to
// write back into its per-particle seed column.
func (a *AcceleratorSource) Seed() uint64 { return a.seed }
