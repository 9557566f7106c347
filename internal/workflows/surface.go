package workflows

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// SurfaceRequest cuts a slab from a perovskite bulk cell along a Miller
// plane and freezes the bottom layers.
type SurfaceRequest struct {
	A               string  `json:"A"`
	B               string  `json:"B"`
	LatticeConstant float64 `json:"a"`
	MillerH         int     `json:"miller_h"`
	MillerK         int     `json:"miller_k"`
	MillerL         int     `json:"miller_l"`
	MinSlabSize     float64 `json:"min_slab_size"`
	MinVacuumSize   float64 `json:"min_vacuum_size"`
	// FreezeBottom nil means the default of 2; an explicit 0 disables
	// freezing.
	FreezeBottom  *int    `json:"freeze_bottom,omitempty"`
	KPointDensity float64 `json:"kpoints_density"`
}

func (r *SurfaceRequest) applyDefaults() {
	if r.A == "" {
		r.A = "Sr"
	}
	if r.B == "" {
		r.B = "Ti"
	}
	if r.LatticeConstant == 0 {
		r.LatticeConstant = 3.905
	}
	if r.MillerH == 0 && r.MillerK == 0 && r.MillerL == 0 {
		r.MillerH = 1
	}
	if r.MinSlabSize == 0 {
		r.MinSlabSize = 10
	}
	if r.MinVacuumSize == 0 {
		r.MinVacuumSize = 15
	}
	if r.FreezeBottom == nil {
		two := 2
		r.FreezeBottom = &two
	}
	if r.KPointDensity == 0 {
		r.KPointDensity = 40
	}
}

// SurfaceResult is the slab calculation plus its derived geometry.
type SurfaceResult struct {
	GenerationID string              `json:"generation_id"`
	Formula      string              `json:"formula"`
	NAtoms       int                 `json:"n_atoms"`
	Slab         *structure.SlabInfo `json:"slab"`
	Calculation  *Calculation        `json:"calculation"`
	README       string              `json:"readme"`
}

// Surface builds the bulk cell, cuts the slab, and renders ion-only
// relaxation inputs with a dipole correction along the vacuum direction.
func Surface(req SurfaceRequest) (*SurfaceResult, error) {
	req.applyDefaults()

	bulk, err := structure.Perovskite(req.A, req.B, req.LatticeConstant)
	if err != nil {
		return nil, err
	}

	slab, info, err := structure.Slab(bulk,
		[3]int{req.MillerH, req.MillerK, req.MillerL},
		req.MinSlabSize, req.MinVacuumSize, *req.FreezeBottom)
	if err != nil {
		return nil, err
	}

	overrides := map[string]any{
		"ISIF":   2, // fix the cell, relax ions only
		"LDIPOL": true,
		"IDIPOL": 3,
	}
	calc, err := renderCalc("slab", slab, vaspio.CalcRelax, overrides, req.KPointDensity, perovskitePotcars)
	if err != nil {
		return nil, err
	}

	return &SurfaceResult{
		GenerationID: newGenerationID(),
		Formula:      slab.Formula(),
		NAtoms:       slab.NAtoms(),
		Slab:         info,
		Calculation:  calc,
		README:       surfaceReadme(req, slab, info),
	}, nil
}

func surfaceReadme(req SurfaceRequest, slab *structure.Structure, info *structure.SlabInfo) string {
	hkl := fmt.Sprintf("%d%d%d", info.Miller[0], info.Miller[1], info.Miller[2])
	return fmt.Sprintf(`# Surface Slab Model: (%s) surface

## What this calculation does
Relaxation of a (%s) surface slab cut from the bulk crystal.
Bottom %d layers are frozen (selective dynamics), top layers are free
to relax.

## Structure details
- Formula: %s
- %d atoms
- Slab thickness: %.1f A
- Vacuum thickness: %.1f A

## Key INCAR settings
- **ISIF = 2**: Relax ions only, fix cell shape and volume
- **LDIPOL = .TRUE.**: Dipole correction for asymmetric slabs
- **IDIPOL = 3**: Dipole correction along z (vacuum direction)

## Selective dynamics
Bottom %d layers have F F F (frozen). Top layers have T T T (free).

## Surface energy calculation
After running both bulk and slab calculations:

    E_surf = (E_slab - N_slab/N_bulk * E_bulk) / (2 * A)

where A is the surface area and the factor 2 accounts for two surfaces.

## Convergence tests you should do
1. **Vacuum thickness**: Run with 10, 15, 20, 25 A vacuum
2. **Slab thickness**: Run with 3, 5, 7, 9 layers
3. **k-points**: Increase in-plane k-points until E_surf converges
`, hkl, hkl, *req.FreezeBottom, slab.Formula(), slab.NAtoms(),
		info.SlabThickness, info.VacuumThickness, *req.FreezeBottom)
}
