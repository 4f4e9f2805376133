// Package config defines the species-configuration collaborator — the
// struct the outer driver carries and the core kernels read, but never
// parse themselves. The kernels never include a namelist reader of
// their own; SpeciesConfig is the shape of the contract, and the
// TOML-backed Manifest below is an example collaborator a caller might
// use to fill it in, not a kernel operation.
package config

// SpeciesConfig carries the per-species knobs the radiation and merger
// kernels need. It is built and owned by the outer driver.
type SpeciesConfig struct {
	// MergingMethod names the merger kernel to dispatch to (C5); only
	// "vranic" is currently recognised, any other value disables merging.
	MergingMethod string

	// MergingPPCMinThreshold is the minimum particles-per-cell below
	// which the merger returns without doing anything.
	MergingPPCMinThreshold uint

	// MergingGridR/Theta/Phi size the spherical-momentum-space bin
	// grid. The original hardcoded 5x5x5 grid is exposed here as
	// configuration instead. Zero means "use the kernel's 5x5x5 default".
	MergingGridR, MergingGridTheta, MergingGridPhi int

	// RadiationPhotonSampling is the number of macro-photons created
	// per discontinuous emission event (>= 1).
	RadiationPhotonSampling uint

	// RadiationPhotonGammaThreshold is the minimum photon gamma for a
	// discontinuous emission to be materialised into the photon
	// species; below it only the scalar energy accumulator is updated.
	RadiationPhotonGammaThreshold float64

	// MaxMonteCarloIterations bounds the radiation kernel's per-particle
	// sub-stepping loop; reaching it silently terminates the particle.
	MaxMonteCarloIterations uint

	// Dt is the outer time step driving both kernels.
	Dt float64

	// OneOverMass is the mass normalisation used to derive chi (q/m^2).
	OneOverMass float64

	// Dimensions is the spatial dimensionality D in {1,2,3}.
	Dimensions int
}

// EpsTau is the small positive constant below which an optical depth
// is treated as exactly zero, guarding against floating-point noise
// around the arm/fire boundary.
const EpsTau = 1e-100
