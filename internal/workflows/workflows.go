// Package workflows assembles complete calculation file sets from request
// parameters. Each orchestrator is a pure function over its request: it
// builds a structure, specializes a preset, and renders every text block, or
// fails before producing anything.
package workflows

import (
	"github.com/google/uuid"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
	"github.com/tsereda/SiliconToPhonopy/internal/vaspio"
)

// Calculation is one rendered calculation directory within a workflow
// result. Comparison workflows return several in parallel.
type Calculation struct {
	Name        string          `json:"name"`
	Formula     string          `json:"formula"`
	NAtoms      int             `json:"n_atoms"`
	KPoints     [3]int          `json:"kpoints"`
	Files       *vaspio.FileSet `json:"files"`
	Explanation string          `json:"explanation,omitempty"`

	inputs *vaspio.InputSet
}

// WriteAll writes the calculation's input files and the calc_info.json
// sidecar into dir. Returns the written paths.
func (c *Calculation) WriteAll(dir string) (map[string]string, error) {
	return c.inputs.WriteAll(dir)
}

// perovskitePotcars maps common perovskite species to their recommended PBE
// pseudopotential variants (semi-core / p-valence where appropriate).
var perovskitePotcars = map[string]string{
	"Sr": "Sr_sv",
	"Ba": "Ba_sv",
	"Pb": "Pb_d",
	"Ti": "Ti_pv",
	"Zr": "Zr_sv",
	"Nb": "Nb_pv",
	"O":  "O",
}

func newGenerationID() string { return uuid.New().String() }

// renderCalc builds and renders one named calculation.
func renderCalc(name string, s *structure.Structure, ct vaspio.CalcType, overrides map[string]any, density float64, potcars map[string]string) (*Calculation, error) {
	is, err := vaspio.NewInputSet(s, ct, overrides, density)
	if err != nil {
		return nil, err
	}
	is.PotcarMap = potcars
	files, err := is.Render()
	if err != nil {
		return nil, err
	}
	return &Calculation{
		Name:        name,
		Formula:     s.Formula(),
		NAtoms:      s.NAtoms(),
		KPoints:     vaspio.AutoKPoints(s, density),
		Files:       files,
		Explanation: is.Explain(),
		inputs:      is,
	}, nil
}
