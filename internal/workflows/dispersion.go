package workflows

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// DispersionRequest compares plain PBE against Grimme D3 dispersion
// corrections on AB-stacked graphite.
type DispersionRequest struct {
	A             float64 `json:"a"`
	C             float64 `json:"c"`
	KPointDensity float64 `json:"kpoints_density"`
}

func (r *DispersionRequest) applyDefaults() {
	if r.A == 0 {
		r.A = 2.464
	}
	if r.C == 0 {
		r.C = 6.711
	}
	if r.KPointDensity == 0 {
		r.KPointDensity = 50 // dense grid for good c-axis sampling
	}
}

// DispersionResult returns the parallel file sets; they differ only in the
// dispersion-correction tag.
type DispersionResult struct {
	GenerationID string         `json:"generation_id"`
	Formula      string         `json:"formula"`
	NAtoms       int            `json:"n_atoms"`
	CoverA       float64        `json:"initial_c_over_a"`
	InterlayerD  float64        `json:"initial_interlayer_d_A"`
	Calculations []*Calculation `json:"calculations"`
	README       string         `json:"readme"`
}

// Dispersion builds graphite and renders three sets: no correction,
// D3 with BJ damping (IVDW=12), and D3 with zero damping (IVDW=11).
func Dispersion(req DispersionRequest) (*DispersionResult, error) {
	req.applyDefaults()

	atoms, err := structure.Graphite(req.A, req.C)
	if err != nil {
		return nil, err
	}
	potcars := map[string]string{"C": "C"}

	plain, err := renderCalc("pbe_no_vdw", atoms, vaspio.CalcRelax,
		map[string]any{"ISIF": 3}, req.KPointDensity, potcars)
	if err != nil {
		return nil, err
	}
	d3bj, err := renderCalc("pbe_d3bj", atoms, vaspio.CalcDFTD3,
		map[string]any{"ISIF": 3, "IVDW": 12}, req.KPointDensity, potcars)
	if err != nil {
		return nil, err
	}
	d3zero, err := renderCalc("pbe_d3_zero", atoms, vaspio.CalcDFTD3,
		map[string]any{"ISIF": 3, "IVDW": 11}, req.KPointDensity, potcars)
	if err != nil {
		return nil, err
	}

	return &DispersionResult{
		GenerationID: newGenerationID(),
		Formula:      atoms.Formula(),
		NAtoms:       atoms.NAtoms(),
		CoverA:       req.C / req.A,
		InterlayerD:  req.C / 2,
		Calculations: []*Calculation{plain, d3bj, d3zero},
		README:       dispersionReadme(req),
	}, nil
}

func dispersionReadme(req DispersionRequest) string {
	return fmt.Sprintf(`# DFT-D3 Corrections for Graphite

## Why vdW corrections?
Standard PBE (GGA) cannot describe van der Waals interactions. Graphite
layers are held together by London dispersion forces, which PBE misses
entirely: it predicts nearly unbound layers (c ~ 8+ A instead of %g A).

## DFT-D3 correction (Grimme et al.)
Adds a semi-empirical pairwise correction to the DFT energy:

    E_DFT-D3 = E_DFT + E_disp

Two damping schemes:
- **BJ damping** (IVDW = 12): Becke-Johnson, recommended for most cases
- **Zero damping** (IVDW = 11): Original Grimme, can overbind

## Expected results
| Property | PBE | PBE-D3(BJ) | Experiment |
|----------|-----|------------|------------|
| c (A) | ~8+ | 6.6-6.8 | 6.711 |
| d_interlayer (A) | ~4+ | 3.3-3.4 | 3.356 |
| Binding energy (meV/atom) | ~0 | 25-30 | 31 +/- 2 |

After running all three, compare the relaxed c constants in CONTCAR.
`, req.C)
}
