package radiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeParticleChiZeroFieldsIsZero(t *testing.T) {
	p := [3]float64{3, 4, 0}
	gamma := gammaOf(p)
	chi := ComputeParticleChi(1.0, gamma, p, [3]float64{}, [3]float64{})
	assert.Equal(t, 0.0, chi)
}

func TestComputeParticleChiScalesWithCharge(t *testing.T) {
	p := [3]float64{1, 0, 0}
	gamma := gammaOf(p)
	e := [3]float64{0, 1, 0}
	b := [3]float64{0, 0, 1}
	chi1 := ComputeParticleChi(1.0, gamma, p, e, b)
	chi2 := ComputeParticleChi(2.0, gamma, p, e, b)
	assert.InDelta(t, 2*chi1, chi2, 1e-9)
}

func TestComputeParticleChiNonNegative(t *testing.T) {
	p := [3]float64{0.1, -0.2, 0.3}
	gamma := gammaOf(p)
	e := [3]float64{5, -3, 1}
	b := [3]float64{-2, 4, 0.5}
	chi := ComputeParticleChi(0.7, gamma, p, e, b)
	assert.GreaterOrEqual(t, chi, 0.0)
}

func TestGammaOf(t *testing.T) {
	assert.Equal(t, 1.0, gammaOf([3]float64{0, 0, 0}))
	assert.InDelta(t, 1.4142135623730951, gammaOf([3]float64{1, 0, 0}), 1e-12)
}
