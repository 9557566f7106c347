package workflows

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
	"gopkg.in/yaml.v3"
)

// PhononRequest sets up a finite-displacement (frozen phonon) calculation:
// one force calculation per displaced supercell.
type PhononRequest struct {
	A               string  `json:"A"`
	B               string  `json:"B"`
	LatticeConstant float64 `json:"a"`
	Supercell       [3]int  `json:"supercell"`
	Displacement    float64 `json:"displacement"`
	KPointDensity   float64 `json:"kpoints_density"`
}

func (r *PhononRequest) applyDefaults() {
	if r.A == "" {
		r.A = "Sr"
	}
	if r.B == "" {
		r.B = "Ti"
	}
	if r.LatticeConstant == 0 {
		r.LatticeConstant = 3.905
	}
	if r.Supercell == ([3]int{}) {
		r.Supercell = [3]int{2, 2, 2}
	}
	if r.Displacement == 0 {
		r.Displacement = 0.01
	}
	if r.KPointDensity == 0 {
		r.KPointDensity = 25 // coarser for the supercell
	}
}

// Displacement is one displaced-atom configuration.
type Displacement struct {
	AtomIndex int        `json:"atom" yaml:"atom"`
	Symbol    string     `json:"symbol" yaml:"symbol"`
	Vector    [3]float64 `json:"displacement" yaml:"displacement,flow"`
	Directory string     `json:"directory" yaml:"directory"`
}

// PhononResult lists one file set per displacement plus a YAML manifest for
// post-processing.
type PhononResult struct {
	GenerationID    string         `json:"generation_id"`
	Formula         string         `json:"formula"`
	NAtomsPrimitive int            `json:"n_atoms_primitive"`
	NAtomsSupercell int            `json:"n_atoms_supercell"`
	Supercell       [3]int         `json:"supercell"`
	DisplacementA   float64        `json:"displacement_A"`
	Displacements   []Displacement `json:"displacements"`
	Calculations    []*Calculation `json:"calculations"`
	Manifest        string         `json:"manifest_yaml"`
	RunScript       string         `json:"run_script"`
	README          string         `json:"readme"`
}

// Phonon builds the supercell, enumerates displacements (each
// symmetry-inequivalent atom displaced along each cartesian axis by the
// step), and renders one tight-convergence force calculation per
// displacement.
func Phonon(req PhononRequest) (*PhononResult, error) {
	req.applyDefaults()
	if req.Displacement <= 0 {
		return nil, fmt.Errorf("displacement must be positive, got %g: %w",
			req.Displacement, apperr.ErrInvalidParameter)
	}

	unit, err := structure.Perovskite(req.A, req.B, req.LatticeConstant)
	if err != nil {
		return nil, err
	}
	supercell, err := structure.Supercell(unit, req.Supercell)
	if err != nil {
		return nil, err
	}

	displacements := enumerateDisplacements(supercell, req.Displacement)

	calcs := make([]*Calculation, 0, len(displacements))
	for i := range displacements {
		d := &displacements[i]
		d.Directory = fmt.Sprintf("disp-%03d", i+1)

		displaced := supercell.Copy()
		for j := 0; j < 3; j++ {
			displaced.Positions[d.AtomIndex][j] += d.Vector[j]
		}
		calc, err := renderCalc(d.Directory, displaced, vaspio.CalcPhonon, nil, req.KPointDensity, perovskitePotcars)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}

	manifest, err := renderManifest(supercell, req, displacements)
	if err != nil {
		return nil, err
	}

	return &PhononResult{
		GenerationID:    newGenerationID(),
		Formula:         unit.Formula(),
		NAtomsPrimitive: unit.NAtoms(),
		NAtomsSupercell: supercell.NAtoms(),
		Supercell:       req.Supercell,
		DisplacementA:   req.Displacement,
		Displacements:   displacements,
		Calculations:    calcs,
		Manifest:        manifest,
		RunScript:       runScript(len(displacements)),
		README:          phononReadme(req, unit, supercell, len(displacements)),
	}, nil
}

// enumerateDisplacements displaces the first atom of each species along
// each cartesian axis. In these idealized high-symmetry cells the first
// atom of a species represents its symmetry orbit.
func enumerateDisplacements(s *structure.Structure, step float64) []Displacement {
	var out []Displacement
	seen := make(map[string]bool)
	for i, sym := range s.Symbols {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		for axis := 0; axis < 3; axis++ {
			var v [3]float64
			v[axis] = step
			out = append(out, Displacement{AtomIndex: i, Symbol: sym, Vector: v})
		}
	}
	return out
}

// phononManifest mirrors the shape of a phonopy displacement file so the
// student's post-processing tools have everything they need.
type phononManifest struct {
	NAtom                int            `yaml:"natom"`
	Supercell            [3]int         `yaml:"supercell_matrix_diagonal,flow"`
	DisplacementDistance float64        `yaml:"displacement_distance"`
	Displacements        []Displacement `yaml:"displacements"`
}

func renderManifest(s *structure.Structure, req PhononRequest, disps []Displacement) (string, error) {
	// 1-based atom indices in the manifest, as phonopy writes them.
	forYaml := make([]Displacement, len(disps))
	for i, d := range disps {
		d.AtomIndex++
		forYaml[i] = d
	}
	data, err := yaml.Marshal(phononManifest{
		NAtom:                s.NAtoms(),
		Supercell:            req.Supercell,
		DisplacementDistance: req.Displacement,
		Displacements:        forYaml,
	})
	if err != nil {
		return "", fmt.Errorf("marshal phonon manifest: %w", err)
	}
	return string(data), nil
}

func runScript(n int) string {
	return fmt.Sprintf(`#!/bin/bash
# Run all %d displacement calculations for phonons.
set -e

VASP_CMD="mpirun -np 4 vasp_std"

for i in $(seq -w 1 %d); do
    dir="disp-$i"
    if [ -f "$dir/vasprun.xml" ]; then
        echo "[$dir] Already completed, skipping"
        continue
    fi
    echo "[$dir] Running VASP..."
    cd "$dir"
    $VASP_CMD > vasp.log 2>&1
    cd ..
done

echo "All displacements complete."
`, n, n)
}

func phononReadme(req PhononRequest, unit, supercell *structure.Structure, nDisp int) string {
	return fmt.Sprintf(`# Phonon Dispersion Calculation

## Method: Finite displacements (frozen phonon)
1. Displace each inequivalent atom slightly from equilibrium
2. Compute the resulting forces with DFT
3. Build the force constant matrix from force-displacement pairs
4. Diagonalise the dynamical matrix at each q-point

## Setup
- Primitive cell: %d atoms, %s
- Supercell: %dx%dx%d (%d atoms)
- Displacement: %g A
- Displaced configurations: %d

## Key INCAR settings for force calculations
- **EDIFF = 1e-8**: Very tight SCF convergence for accurate forces
- **LREAL = .FALSE.**: Reciprocal-space projection (required for accuracy)
- **IBRION = -1, NSW = 0**: Single-point calculation

## Interpreting the band structure
- Acoustic modes start at 0 THz at the Gamma point (3 branches)
- Imaginary (negative) frequencies mean the structure is dynamically
  unstable: check that it is fully relaxed and the supercell is large
  enough.
`, unit.NAtoms(), unit.Formula(),
		req.Supercell[0], req.Supercell[1], req.Supercell[2], supercell.NAtoms(),
		req.Displacement, nDisp)
}
