package workflows

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// VacancyRequest sets up paired pristine/defective supercell calculations
// for a vacancy formation energy.
type VacancyRequest struct {
	A               string  `json:"A"`
	B               string  `json:"B"`
	LatticeConstant float64 `json:"a"`
	Supercell       [3]int  `json:"supercell"`
	VacancyElement  string  `json:"vacancy_element"`
	KPointDensity   float64 `json:"kpoints_density"`
}

func (r *VacancyRequest) applyDefaults() {
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
	if r.VacancyElement == "" {
		r.VacancyElement = "O"
	}
	if r.KPointDensity == 0 {
		r.KPointDensity = 30 // coarser grid for the supercell
	}
}

// VacancyResult carries both calculations plus the formation-energy recipe.
// No numeric energy is ever produced here; the workflow only generates
// inputs.
type VacancyResult struct {
	GenerationID     string                 `json:"generation_id"`
	Formula          string                 `json:"formula"`
	NAtoms           int                    `json:"n_atoms"`
	Vacancy          *structure.VacancyInfo `json:"vacancy_info"`
	Supercell        [3]int                 `json:"supercell"`
	FormationFormula string                 `json:"formation_energy_formula"`
	Calculations     []*Calculation         `json:"calculations"`
	README           string                 `json:"readme"`
}

// Vacancy builds the pristine supercell, derives the defective copy by
// removing the first atom of the requested element, and renders both file
// sets. Either both render or neither does.
func Vacancy(req VacancyRequest) (*VacancyResult, error) {
	req.applyDefaults()

	unit, err := structure.Perovskite(req.A, req.B, req.LatticeConstant)
	if err != nil {
		return nil, err
	}
	pristine, err := structure.Supercell(unit, req.Supercell)
	if err != nil {
		return nil, err
	}
	defective, info, err := structure.WithVacancy(pristine, req.VacancyElement)
	if err != nil {
		return nil, err
	}

	overrides := map[string]any{"ISIF": 2}
	pristineCalc, err := renderCalc("pristine", pristine, vaspio.CalcRelax, overrides, req.KPointDensity, perovskitePotcars)
	if err != nil {
		return nil, err
	}
	defectiveCalc, err := renderCalc("defective", defective, vaspio.CalcRelax, overrides, req.KPointDensity, perovskitePotcars)
	if err != nil {
		return nil, err
	}

	return &VacancyResult{
		GenerationID:     newGenerationID(),
		Formula:          pristine.Formula(),
		NAtoms:           pristine.NAtoms(),
		Vacancy:          info,
		Supercell:        req.Supercell,
		FormationFormula: fmt.Sprintf("E_f = E(defective) - E(pristine) + mu(%s)", info.RemovedSymbol),
		Calculations:     []*Calculation{pristineCalc, defectiveCalc},
		README:           vacancyReadme(req, info),
	}, nil
}

func vacancyReadme(req VacancyRequest, info *structure.VacancyInfo) string {
	dims := fmt.Sprintf("%dx%dx%d", req.Supercell[0], req.Supercell[1], req.Supercell[2])
	return fmt.Sprintf(`# Vacancy Formation Energy Calculation

## What this calculation does
Computes the formation energy of a %s vacancy in a %s supercell.

## Structures
- **Pristine**: %d atoms
- **Defective**: %d atoms
- Removed: 1 %s atom at position (%.3f, %.3f, %.3f)

## Vacancy formation energy formula

    E_f = E(defective) - E(pristine) + mu(removed_atom)

where mu is the chemical potential of the removed atom, which depends
on thermodynamic conditions:

| Condition | mu(O) | Interpretation |
|-----------|-------|----------------|
| O-rich    | 1/2 E(O2) | Equilibrium with O2 gas |
| O-poor    | 1/2 E(O2) + Delta_H / 3 | Metal-rich limit |

## Convergence test: supercell size
Compare E_f for 2x2x2, 3x3x3, and 4x4x4 supercells; it should converge
to within ~0.05 eV.
`, req.VacancyElement, dims, info.AtomsPristine, info.AtomsDefective,
		info.RemovedSymbol, info.RemovedPosition[0], info.RemovedPosition[1], info.RemovedPosition[2])
}
