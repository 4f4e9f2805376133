package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is what LoadManifest returns: the radiation table path plus
// the per-species settings, where each species has already inherited
// every field it doesn't set itself from the document's top-level
// defaults.
type Manifest struct {
	RadiationTablePath string
	Species            map[string]SpeciesOverride
}

// SpeciesOverride is one [Species.<name>] table in the manifest file.
// Every field is optional; unset fields fall back to the manifest's
// top-level defaults via applyDefaults.
type SpeciesOverride struct {
	MergingMethod                 string
	MergingPPCMinThreshold         uint
	RadiationPhotonSampling        uint
	RadiationPhotonGammaThreshold  float64
	MaxMonteCarloIterations        uint
	Dt                             float64
	OneOverMass                    float64
	Dimensions                     int
}

// topLevelDefaults is the manifest-wide fallback, populated from
// whatever top-level keys the TOML document defines.
type topLevelDefaults struct {
	MergingMethod                 string
	MergingPPCMinThreshold         uint
	RadiationPhotonSampling        uint
	RadiationPhotonGammaThreshold  float64
	MaxMonteCarloIterations        uint
	Dt                             float64
	OneOverMass                    float64
	Dimensions                     int
}

type rawManifest struct {
	RadiationTablePath string
	topLevelDefaults
	Species map[string]SpeciesOverride
}

// LoadManifest reads a TOML species manifest from path, using
// toml.MetaData to tell "explicitly set" apart from "zero value".
func LoadManifest(path string) (Manifest, error) {
	var raw rawManifest
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Manifest{}, fmt.Errorf("loading manifest %q: %w", path, err)
	}
	if len(raw.Species) == 0 {
		return Manifest{}, fmt.Errorf("manifest %q defines no species", path)
	}

	m := Manifest{RadiationTablePath: raw.RadiationTablePath, Species: map[string]SpeciesOverride{}}
	for name, sp := range raw.Species {
		applyDefaults(&sp, raw.topLevelDefaults, &meta, name)
		m.Species[name] = sp
	}
	return m, nil
}

// applyDefaults fills any field sp doesn't define itself from d, field
// by field, so a species manifest only needs to state its deltas.
func applyDefaults(sp *SpeciesOverride, d topLevelDefaults, meta *toml.MetaData, name string) {
	if !meta.IsDefined("Species", name, "MergingMethod") {
		sp.MergingMethod = d.MergingMethod
	}
	if !meta.IsDefined("Species", name, "MergingPPCMinThreshold") {
		sp.MergingPPCMinThreshold = d.MergingPPCMinThreshold
	}
	if !meta.IsDefined("Species", name, "RadiationPhotonSampling") {
		if d.RadiationPhotonSampling > 0 {
			sp.RadiationPhotonSampling = d.RadiationPhotonSampling
		} else {
			sp.RadiationPhotonSampling = 1
		}
	}
	if !meta.IsDefined("Species", name, "RadiationPhotonGammaThreshold") {
		sp.RadiationPhotonGammaThreshold = d.RadiationPhotonGammaThreshold
	}
	if !meta.IsDefined("Species", name, "MaxMonteCarloIterations") {
		if d.MaxMonteCarloIterations > 0 {
			sp.MaxMonteCarloIterations = d.MaxMonteCarloIterations
		} else {
			sp.MaxMonteCarloIterations = 100
		}
	}
	if !meta.IsDefined("Species", name, "Dt") {
		sp.Dt = d.Dt
	}
	if !meta.IsDefined("Species", name, "OneOverMass") {
		if d.OneOverMass > 0 {
			sp.OneOverMass = d.OneOverMass
		} else {
			sp.OneOverMass = 1
		}
	}
	if !meta.IsDefined("Species", name, "Dimensions") {
		if d.Dimensions > 0 {
			sp.Dimensions = d.Dimensions
		} else {
			sp.Dimensions = 3
		}
	}
}

// ToSpeciesConfig converts a loaded override into the kernel-facing
// SpeciesConfig.
func (sp SpeciesOverride) ToSpeciesConfig() SpeciesConfig {
	return SpeciesConfig{
		MergingMethod:                 sp.MergingMethod,
		MergingPPCMinThreshold:        sp.MergingPPCMinThreshold,
		RadiationPhotonSampling:       sp.RadiationPhotonSampling,
		RadiationPhotonGammaThreshold: sp.RadiationPhotonGammaThreshold,
		MaxMonteCarloIterations:       sp.MaxMonteCarloIterations,
		Dt:                            sp.Dt,
		OneOverMass:                   sp.OneOverMass,
		Dimensions:                    sp.Dimensions,
	}
}

// CheckManifestPath is a small os.Stat wrapper callers can use to give
// a friendly error before handing path to LoadManifest.
func CheckManifestPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("manifest file not found: %w", err)
	}
	return nil
}
