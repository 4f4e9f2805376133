// Package radiation implements the C3 Monte-Carlo nonlinear
// inverse-Compton radiation kernel: per-particle stochastic emission
// scheduled by an optical-depth state machine, discrete macro-photon
// creation, and continuous radiative drag, driven by precomputed
// tables (package tables) and a per-lane uniform RNG (package rng).
//
// The per-particle state machine follows the same shape as a
// collisional Monte-Carlo scheduler: an exponential budget (here, an
// optical depth tau) is spent against an integrated rate until an
// event fires, and firing splits one particle into a surviving
// primary and a newly created secondary — here, a recoiling particle
// and a new photon.
package radiation

import (
	"math"

	"github.com/wildstyl3r/qedcore/config"
	"github.com/wildstyl3r/qedcore/internal/mathutil"
	"github.com/wildstyl3r/qedcore/particle"
	"github.com/wildstyl3r/qedcore/rng"
	"github.com/wildstyl3r/qedcore/tables"
)

// FieldSamples is the per-particle-range field interpolation handoff:
// two contiguous buffers laid out as [Ex...Ey...Ez] and
// [Bx...By...Bz], indexed by (particle_index - IpartRef).
type FieldSamples struct {
	E, B    []float64 // length 3*N
	N       int       // iend - istart
	IpartRef int
}

func (f FieldSamples) at(buf []float64, localIndex int) [3]float64 {
	return [3]float64{buf[localIndex], buf[f.N+localIndex], buf[2*f.N+localIndex]}
}

// E3 returns the field-sample triple for global particle index i.
func (f FieldSamples) E3(i int) [3]float64 { return f.at(f.E, i-f.IpartRef) }

// B3 returns the field-sample triple for global particle index i.
func (f FieldSamples) B3(i int) [3]float64 { return f.at(f.B, i-f.IpartRef) }

// Kernel holds the (immutable, shareable) configuration for one
// species' radiation process: its parameters and a borrowed reference
// to the radiation tables. A Kernel has no per-call mutable state, so
// a single value can be reused concurrently across cells.
type Kernel struct {
	Params config.SpeciesConfig
	Tables tables.Tables
}

// Result is what one Run call reports back to the caller: the
// accumulated radiated energy for particles whose emitted photon fell
// below the macro-photon gamma threshold (or had no photon sink at
// all), plus the energy removed by continuous radiative drag.
type Result struct {
	RadiatedEnergy float64
}

// Run advances every live particle in [istart, iend) through the
// Monte-Carlo emission state machine for one time step, mutating
// momentum/tau/chi in place and appending macro-photons to photons
// (photons may be nil: the photon sink is optional). src
// supplies one uniform draw at a time; callers give each goroutine/lane
// its own rng.Source.
func (k Kernel) Run(particles particle.Store, photons particle.Store, fields FieldSamples, istart, iend int, src rng.Source) Result {
	mathutil.Invariant(iend >= istart, "radiation.Run: iend %d < istart %d", iend, istart)
	mathutil.Invariant(k.Params.Dt > 0, "radiation.Run: dt must be positive, got %v", k.Params.Dt)

	var result Result
	mom := [3][]float64{particles.Momentum(0), particles.Momentum(1), particles.Momentum(2)}
	weight := particles.Weight()
	charge := particles.Charge()
	tau := particles.Tau()
	chi := particles.Chi()

	maxIters := int(k.Params.MaxMonteCarloIterations)
	if maxIters <= 0 {
		maxIters = 1
	}

	// Per-particle radiated-energy contributions, summed once at the
	// end rather than accumulated via a running total.
	contrib := make([]float64, iend-istart)

	for i := istart; i < iend; i++ {
		if !particle.IsLive(particles, i) {
			continue
		}
		p := [3]float64{mom[0][i], mom[1][i], mom[2][i]}
		if dot(p, p) == 0 {
			continue // gamma == 1 exactly: zero kinetic energy, skip.
		}

		e := fields.E3(i)
		b := fields.B3(i)
		chargeOverMassSquared := float64(charge[i]) * k.Params.OneOverMass * k.Params.OneOverMass

		tLocal := 0.0
		mcIt := 0
		for tLocal < k.Params.Dt && mcIt < maxIters {
			gamma := gammaOf(p)
			if gamma == 1 {
				break
			}
			chiParticle := ComputeParticleChi(chargeOverMassSquared, gamma, p, e, b)

			switch {
			case chiParticle > k.Tables.MinimumChiDiscontinuous() && !particle.IsEmissionPending(tau[i], config.EpsTau):
				tau[i] = drawTau(src)

			case particle.IsEmissionPending(tau[i], config.EpsTau):
				yieldRate := k.Tables.PhotonProductionYield(chiParticle, gamma)
				var dtEmit float64
				if yieldRate > 0 {
					dtEmit = math.Min(tau[i]/yieldRate, k.Params.Dt-tLocal)
					tau[i] -= yieldRate * dtEmit
				} else {
					dtEmit = k.Params.Dt - tLocal
				}
				tLocal += dtEmit
				mcIt++
				if !particle.IsEmissionPending(tau[i], config.EpsTau) {
					energy := k.emit(particles, photons, i, &p, weight[i], chiParticle, gamma, src)
					contrib[i-istart] += energy
					tau[i] = -1
				}

			case chiParticle <= k.Tables.MinimumChiDiscontinuous() &&
				!particle.IsEmissionPending(tau[i], config.EpsTau) &&
				chiParticle > k.Tables.MinimumChiContinuous() &&
				gamma > 1:
				eRad := k.Tables.RidgersCorrectedRadiatedEnergy(chiParticle, k.Params.Dt-tLocal)
				factor := eRad * gamma / (gamma*gamma - 1)
				p[0] *= 1 - factor
				p[1] *= 1 - factor
				p[2] *= 1 - factor
				gammaNew := gammaOf(p)
				contrib[i-istart] += weight[i] * (gamma - gammaNew)
				tLocal = k.Params.Dt

			default:
				tLocal = k.Params.Dt
			}
		}

		mom[0][i], mom[1][i], mom[2][i] = p[0], p[1], p[2]
	}

	result.RadiatedEnergy = mathutil.SumSlice(contrib)

	// Post-pass: recompute chi for every particle in range from the
	// final momenta, so downstream diagnostics see a value consistent
	// with the step's output momentum rather than its input. Pure and
	// embarrassingly parallel across i.
	if particles.HasQuantumParameter() {
		for i := istart; i < iend; i++ {
			if !particle.IsLive(particles, i) {
				continue
			}
			p := [3]float64{mom[0][i], mom[1][i], mom[2][i]}
			gamma := gammaOf(p)
			chargeOverMassSquared := float64(charge[i]) * k.Params.OneOverMass * k.Params.OneOverMass
			chi[i] = ComputeParticleChi(chargeOverMassSquared, gamma, p, fields.E3(i), fields.B3(i))
		}
	}

	return result
}

// drawTau samples a fresh optical depth tau = -ln(1-U), redrawing
// while it would still be considered "not armed" (tau <= epsTau).
func drawTau(src rng.Source) float64 {
	for {
		u := src.Uniform()
		tau := -math.Log(1 - u)
		if particle.IsEmissionPending(tau, config.EpsTau) {
			return tau
		}
	}
}

// emit performs the photon-emission sub-routine: draw chi_photon from
// the table, apply momentum-conserving recoil to p (in place), and
// either materialise photonSampling macro-photons into photons or
// return the scalar radiated energy.
func (k Kernel) emit(particles particle.Store, photons particle.Store, i int, p *[3]float64, weight, chiParticle, gamma float64, src rng.Source) float64 {
	u := src.Uniform()
	chiPhoton := k.Tables.RandomPhotonChi(chiParticle, u)
	gammaPhoton := chiPhoton / chiParticle * (gamma - 1)

	pNorm := math.Sqrt(gamma*gamma - 1)
	var factor float64
	if pNorm > 0 {
		factor = gammaPhoton / pNorm
	}
	p[0] *= 1 - factor
	p[1] *= 1 - factor
	p[2] *= 1 - factor
	gammaNew := gammaOf(*p)

	sampling := int(k.Params.RadiationPhotonSampling)
	if sampling < 1 {
		sampling = 1
	}

	if photons != nil && gammaPhoton >= k.Params.RadiationPhotonGammaThreshold {
		// Photon direction is taken from the emitting particle's
		// momentum after recoil has already been applied above, not
		// the pre-recoil direction.
		dir := *p
		dirNorm := math.Sqrt(dot(dir, dir))
		start := photons.Len()
		photons.CreateParticles(sampling)
		photonWeight := weight / float64(sampling)
		dims := particles.Dimensions()
		if photons.Dimensions() < dims {
			dims = photons.Dimensions()
		}
		for s := 0; s < sampling; s++ {
			idx := start + s
			var unit [3]float64
			if dirNorm > 0 {
				unit = [3]float64{dir[0] / dirNorm, dir[1] / dirNorm, dir[2] / dirNorm}
			}
			for d := 0; d < 3; d++ {
				photons.Momentum(d)[idx] = unit[d] * gammaPhoton
			}
			for d := 0; d < dims; d++ {
				photons.Position(d)[idx] = particles.Position(d)[i]
			}
			photons.Weight()[idx] = photonWeight
			photons.Charge()[idx] = 0
			photons.CellKeys()[idx] = idx
			if photons.HasQuantumParameter() {
				photons.Chi()[idx] = chiPhoton
			}
			if photons.HasMonteCarlo() {
				photons.Tau()[idx] = particle.TauUnset
			}
		}
		return 0
	}

	return weight * (gamma - gammaNew)
}
