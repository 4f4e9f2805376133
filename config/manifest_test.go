package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
RadiationTablePath = "tables/default.toml"
MergingMethod = "vranic"
Dt = 0.01
MaxMonteCarloIterations = 50

[Species.electron]
MergingPPCMinThreshold = 4
RadiationPhotonSampling = 2
RadiationPhotonGammaThreshold = 2.0

[Species.photon]
MergingMethod = "none"
Dt = 0.02
`

func writeTempManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestInheritsDefaults(t *testing.T) {
	path := writeTempManifest(t, sampleManifest)
	m, err := LoadManifest(path)
	require.NoError(t, err)

	electron := m.Species["electron"]
	assert.Equal(t, "vranic", electron.MergingMethod, "electron should inherit the top-level MergingMethod")
	assert.Equal(t, uint(4), electron.MergingPPCMinThreshold)
	assert.Equal(t, uint(2), electron.RadiationPhotonSampling)
	assert.Equal(t, 0.01, electron.Dt, "electron should inherit the top-level Dt")

	photon := m.Species["photon"]
	assert.Equal(t, "none", photon.MergingMethod, "photon overrides MergingMethod")
	assert.Equal(t, 0.02, photon.Dt, "photon overrides Dt")
	assert.Equal(t, uint(50), photon.MaxMonteCarloIterations, "photon inherits MaxMonteCarloIterations")
}

func TestLoadManifestRejectsEmptySpeciesTable(t *testing.T) {
	path := writeTempManifest(t, `RadiationTablePath = "x"`)
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestToSpeciesConfigRoundTrips(t *testing.T) {
	path := writeTempManifest(t, sampleManifest)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	sc := m.Species["electron"].ToSpeciesConfig()
	assert.Equal(t, "vranic", sc.MergingMethod)
	assert.Equal(t, uint(2), sc.RadiationPhotonSampling)
}
