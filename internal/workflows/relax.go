package workflows

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// RelaxRequest sets up a full ion + cell relaxation of a cubic perovskite.
type RelaxRequest struct {
	A               string  `json:"A"`
	B               string  `json:"B"`
	LatticeConstant float64 `json:"a"`
	Encut           float64 `json:"encut"`
	KPointDensity   float64 `json:"kpoints_density"`
}

func (r *RelaxRequest) applyDefaults() {
	if r.A == "" {
		r.A = "Sr"
	}
	if r.B == "" {
		r.B = "Ti"
	}
	if r.LatticeConstant == 0 {
		r.LatticeConstant = 3.905
	}
	if r.Encut == 0 {
		r.Encut = 520
	}
	if r.KPointDensity == 0 {
		r.KPointDensity = 40
	}
}

// RelaxResult is the full file set for one relaxation calculation.
type RelaxResult struct {
	GenerationID    string       `json:"generation_id"`
	Formula         string       `json:"formula"`
	NAtoms          int          `json:"n_atoms"`
	LatticeConstant float64      `json:"lattice_constant_A"`
	Calculation     *Calculation `json:"calculation"`
	README          string       `json:"readme"`
}

// Relax builds the perovskite cell and renders the relaxation inputs
// (ISIF=3: ions, cell shape, and cell volume all free).
func Relax(req RelaxRequest) (*RelaxResult, error) {
	req.applyDefaults()
	if req.Encut <= 0 {
		return nil, fmt.Errorf("ENCUT must be positive, got %g: %w", req.Encut, apperr.ErrInvalidParameter)
	}

	atoms, err := structure.Perovskite(req.A, req.B, req.LatticeConstant)
	if err != nil {
		return nil, err
	}

	calc, err := renderCalc("relax", atoms, vaspio.CalcRelax,
		map[string]any{"ENCUT": req.Encut}, req.KPointDensity, perovskitePotcars)
	if err != nil {
		return nil, err
	}

	return &RelaxResult{
		GenerationID:    newGenerationID(),
		Formula:         atoms.Formula(),
		NAtoms:          atoms.NAtoms(),
		LatticeConstant: req.LatticeConstant,
		Calculation:     calc,
		README:          relaxReadme(req, atoms, calc),
	}, nil
}

func relaxReadme(req RelaxRequest, atoms *structure.Structure, calc *Calculation) string {
	return fmt.Sprintf(`# Perovskite Relaxation: %s

## What this calculation does
Full structural relaxation (ions + cell shape + cell volume) of cubic
%s%sO3 perovskite using PBE-GGA.

## Structure
- Space group: Pm-3m (#221), cubic perovskite
- %s at corner (0,0,0), %s at body centre (1/2,1/2,1/2)
- O at face centres
- Initial lattice constant: %g A
- %d atoms per unit cell

## Key INCAR settings
- **ISIF = 3**: Relax ions, cell shape, AND cell volume
- **IBRION = 2**: Conjugate-gradient algorithm
- **ENCUT = %g eV**: Plane-wave cutoff (must be >= 1.3 * ENMAX)
- **EDIFFG = -0.01 eV/A**: Force convergence criterion

## k-point grid
- Gamma-centred %dx%dx%d mesh

## How to check convergence
    grep "reached required accuracy" OUTCAR
    grep "free  energy   TOTEN" OUTCAR | tail -1

## Common problems
1. **Pulay stress warning**: Increase ENCUT to 600+ eV
2. **Symmetry broken**: Add ISYM = 2 to INCAR
3. **Not converged after NSW steps**: Increase NSW or restart from CONTCAR
`, atoms.Formula(), req.A, req.B, req.A, req.B, req.LatticeConstant,
		atoms.NAtoms(), req.Encut, calc.KPoints[0], calc.KPoints[1], calc.KPoints[2])
}
