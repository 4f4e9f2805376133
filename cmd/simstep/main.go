// Command simstep is an example driver: it loads a species manifest,
// advances one radiation + merge step for each species over a synthetic
// particle range, and writes per-species diagnostics to CSV, in
// natural-sorted species order.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/facette/natsort"

	"github.com/wildstyl3r/qedcore/config"
	"github.com/wildstyl3r/qedcore/internal/mathutil"
	"github.com/wildstyl3r/qedcore/kernel"
	"github.com/wildstyl3r/qedcore/particle"
	"github.com/wildstyl3r/qedcore/radiation"
	"github.com/wildstyl3r/qedcore/rng"
	"github.com/wildstyl3r/qedcore/tables"
)

// diagnosticRow is one species' post-step summary line.
type diagnosticRow struct {
	species        string
	aliveBefore    int
	aliveAfter     int
	radiatedEnergy float64
}

// bySpecies sorts diagnosticRows by natural species-name order
// ("species-2" before "species-10"), not lexical order.
type bySpecies []diagnosticRow

func (r bySpecies) Len() int           { return len(r) }
func (r bySpecies) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r bySpecies) Less(i, j int) bool { return natsort.Compare(r[i].species, r[j].species) }

func main() {
	manifestPath := flag.String("manifest", "", "species manifest in TOML format")
	particlesPerSpecies := flag.Int("n", 1000, "synthetic particle count per species")
	outPath := flag.String("out", "step_diagnostics.csv", "diagnostics CSV output path")
	flag.Parse()

	if *manifestPath == "" {
		log.Fatalln("simstep: -manifest is required")
	}

	if err := config.CheckManifestPath(*manifestPath); err != nil {
		log.Fatalln("simstep:", err)
	}
	manifest, err := config.LoadManifest(*manifestPath)
	if err != nil {
		log.Fatalln("simstep: loading manifest:", err)
	}

	names := make([]string, 0, len(manifest.Species))
	for name := range manifest.Species {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })

	rows := make([]diagnosticRow, 0, len(names))
	for _, name := range names {
		params := manifest.Species[name].ToSpeciesConfig()
		rows = append(rows, runSpecies(name, params, *particlesPerSpecies))
	}
	sort.Sort(bySpecies(rows))

	if err := writeDiagnostics(*outPath, rows); err != nil {
		log.Fatalln("simstep: writing diagnostics:", err)
	}

	energies := make([]float64, len(rows))
	for i, r := range rows {
		energies[i] = r.radiatedEnergy
	}
	peak := mathutil.ArgMax(energies)
	fmt.Fprintf(os.Stderr, "simstep: wrote %d species rows to %s (avg radiated energy %.6g, peak %s at %.6g)\n",
		len(rows), *outPath, mathutil.Average(energies), rows[peak].species, rows[peak].radiatedEnergy)
}

// runSpecies builds a synthetic particle population (momentum drawn
// from a fixed CPU RNG seed, uniform fields), advances it through the
// pooled radiation and merger kernels, and reports the resulting
// diagnostics.
func runSpecies(name string, params config.SpeciesConfig, n int) diagnosticRow {
	store := particle.NewColumnStore(3, true, true)
	store.CreateParticles(n)

	src := rng.NewCPUSource(1)
	for i := 0; i < n; i++ {
		store.Momentum(0)[i] = 5 + 5*src.Uniform()
		store.Weight()[i] = 1
		store.Charge()[i] = 1
		store.CellKeys()[i] = i
		store.Tau()[i] = particle.TauUnset
	}
	aliveBefore := n

	fields := radiation.FieldSamples{E: make([]float64, 3*n), B: make([]float64, 3*n), N: n}
	for i := 0; i < n; i++ {
		fields.E[n+i] = 1
		fields.B[2*n+i] = 1
	}

	tb := tables.Tables{}
	radiator := kernel.ResolveRadiator(params, tb, "qed")
	result := kernel.RunRadiationPool(radiator, store, nil, fields, 0, n, func(laneIstart int) rng.Source {
		return rng.NewCPUSource(int64(laneIstart + 1))
	})

	merger := kernel.ResolveMerger(params)
	kernel.RunMergerPool(merger, store, 0, n)

	aliveAfter := 0
	for i := 0; i < store.Len(); i++ {
		if particle.IsLive(store, i) {
			aliveAfter++
		}
	}

	return diagnosticRow{
		species:        name,
		aliveBefore:    aliveBefore,
		aliveAfter:     aliveAfter,
		radiatedEnergy: result.RadiatedEnergy,
	}
}

func writeDiagnostics(path string, rows []diagnosticRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"species", "alive_before", "alive_after", "radiated_energy"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.species,
			fmt.Sprintf("%d", r.aliveBefore),
			fmt.Sprintf("%d", r.aliveAfter),
			fmt.Sprintf("%.9g", r.radiatedEnergy),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
