// Package particle defines the structure-of-arrays contract the
// radiation and merger kernels operate on. It is
// deliberately shape-only: the core never owns particle memory, it
// only reads and mutates columns exposed through this interface. A
// concrete container (the caller's particle species buffer) implements
// Store; this package also ships a minimal in-memory Store used by
// tests and by the example driver.
package particle

// DeletedKey marks a particle as dead; subsequent kernel passes must
// skip any index whose CellKey equals this sentinel.
const DeletedKey = -1

// TauUnset is the sentinel tau value meaning "no emission scheduled".
// Any tau <= 0 is equivalent to this for dispatch purposes; -1 is the
// concrete value the radiation kernel writes when it disarms a particle.
const TauUnset = -1.0

// Store is the structure-of-arrays view of one species' macro-particle
// population. Implementations must keep every column the same length;
// index i identifies one particle across all columns. SoA layout is
// required so kernels can hand contiguous column slices to vectorised
// or GPU-offloaded inner loops.
type Store interface {
	// Len returns the number of particle slots, live or dead.
	Len() int

	// Position returns the backing slice for spatial dimension d
	// (0 <= d < Dimensions()).
	Position(d int) []float64

	// Momentum returns the backing slice for momentum component d in {0,1,2}.
	Momentum(d int) []float64

	// Weight returns the per-particle statistical weight column. w[i] > 0
	// for every live particle.
	Weight() []float64

	// Charge returns the per-particle charge column, in elementary-charge units.
	Charge() []int

	// Tau returns the per-particle optical-depth-remaining column.
	// Only valid when HasMonteCarlo() is true.
	Tau() []float64

	// Chi returns the per-particle last-computed quantum-parameter column.
	// Only valid when HasQuantumParameter() is true.
	Chi() []float64

	// CellKeys returns the per-particle cell tag column; DeletedKey marks
	// a dead particle that subsequent kernels must ignore.
	CellKeys() []int

	// Dimensions returns the spatial dimensionality D in {1,2,3}.
	Dimensions() int

	// HasQuantumParameter reports whether the Chi column is present.
	HasQuantumParameter() bool

	// HasMonteCarlo reports whether the Tau column is present.
	HasMonteCarlo() bool

	// CreateParticles appends n uninitialised slots, growing every
	// column by n. It returns no value; callers index the new slots
	// starting at the pre-call Len().
	CreateParticles(n int)
}

// IsLive reports whether particle i has not been marked dead.
func IsLive(s Store, i int) bool {
	return s.CellKeys()[i] != DeletedKey
}

// IsEmissionPending reports whether tau[i] indicates a scheduled,
// in-progress emission (tau > epsTau). tau <= 0 means "no emission
// currently in progress".
func IsEmissionPending(tau, epsTau float64) bool {
	return tau > epsTau
}
