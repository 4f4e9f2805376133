package tables

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSyntheticTables constructs a small, well-behaved table set for
// testing. Table construction itself is a builder's job, not this
// package's; this mirrors only the shapes a real builder would produce.
func buildSyntheticTables(nChi, nPhoton int) Tables {
	t := Tables{
		NChi:           nChi,
		NPhoton:        nPhoton,
		ChiParticleMin: 1e-3,
		ChiParticleMax: 1e2,
		ChiContMin:     1e-3,
		ChiDiscMin:     1e-2,
	}
	t.Integfochi = make([]float64, nChi)
	t.MinPhotonChi = make([]float64, nChi)
	t.Xi = make([]float64, nChi*nPhoton)
	logMin, logMax := math.Log(t.ChiParticleMin), math.Log(t.ChiParticleMax)
	for i := 0; i < nChi; i++ {
		chi := math.Exp(logMin + (logMax-logMin)*float64(i)/float64(nChi-1))
		t.Integfochi[i] = chi * chi // monotone increasing synthetic F(chi)
		t.MinPhotonChi[i] = chi * 1e-3
		for j := 0; j < nPhoton; j++ {
			// a monotone-in-j CDF from 0 to 1.
			t.Xi[i*nPhoton+j] = float64(j+1) / float64(nPhoton)
		}
	}
	return t
}

func TestPhotonProductionYieldMonotone(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	prev := 0.0
	for chi := 1e-3; chi < 1e2; chi *= 2 {
		y := tb.PhotonProductionYield(chi, 10)
		require.GreaterOrEqual(t, y, prev-1e-9)
		prev = y
	}
}

func TestPhotonProductionYieldClampsOutOfDomain(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	assert.NotPanics(t, func() {
		tb.PhotonProductionYield(-5, 10)
		tb.PhotonProductionYield(1e9, 10)
	})
}

func TestRidgersCorrectedRadiatedEnergyPositiveAndBounded(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	e := tb.RidgersCorrectedRadiatedEnergy(0.5, 1.0)
	assert.Greater(t, e, 0.0)

	// Ridgers g(chi) -> 1 as chi -> 0, so the correction shouldn't blow
	// the classical chi^2 scaling up by more than a modest factor at chi=0.5.
	classical := (2.0 / 3.0) * fineStructureConstant * 0.25
	assert.Less(t, e, classical*2)
}

func TestRidgersCorrectedRadiatedEnergyDegenerate(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	assert.Equal(t, 0.0, tb.RidgersCorrectedRadiatedEnergy(0, 1))
	assert.Equal(t, 0.0, tb.RidgersCorrectedRadiatedEnergy(0.5, 0))
	assert.Equal(t, 0.0, tb.RidgersCorrectedRadiatedEnergy(-1, 1))
}

func TestRandomPhotonChiWithinBounds(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	for _, u := range []float64{0, 0.1, 0.5, 0.9, 1} {
		chiP := 1.0
		chiPh := tb.RandomPhotonChi(chiP, u)
		assert.GreaterOrEqual(t, chiPh, 0.0)
		assert.Less(t, chiPh, chiP*1.01)
	}
}

func TestRandomPhotonChiMonotoneInU(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	prev := -1.0
	for u := 0.0; u <= 1.0; u += 0.1 {
		chiPh := tb.RandomPhotonChi(2.0, u)
		assert.GreaterOrEqual(t, chiPh, prev-1e-9)
		prev = chiPh
	}
}

func TestThresholds(t *testing.T) {
	tb := buildSyntheticTables(16, 8)
	assert.Equal(t, tb.ChiContMin, tb.MinimumChiContinuous())
	assert.Equal(t, tb.ChiDiscMin, tb.MinimumChiDiscontinuous())
}
