// Package structure builds and manipulates the idealized crystal structures
// the workflow orchestrators operate on: bulk unit cells, supercells, surface
// slabs, and point-defect variants.
package structure

import (
	"fmt"
	"math"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"gonum.org/v1/gonum/mat"
)

// Structure is an ordered collection of atoms in a periodic cell. Positions
// are cartesian, in angstroms. The cell matrix holds the three lattice
// vectors as rows, so cartesian = fractional * Cell.
type Structure struct {
	Symbols   []string
	Positions [][3]float64
	Cell      *mat.Dense
	PBC       [3]bool

	// Frozen marks atoms excluded from ionic relaxation (selective
	// dynamics). Nil means every atom is free.
	Frozen []bool

	// Magmoms holds initial magnetic moments per atom for spin-polarized
	// calculations. Nil means non-magnetic.
	Magmoms []float64
}

// New validates and assembles a Structure. The cell matrix must be 3x3 and
// non-degenerate, and there must be exactly one position per symbol.
func New(symbols []string, positions [][3]float64, cell *mat.Dense) (*Structure, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("structure has no atoms: %w", apperr.ErrInvalidParameter)
	}
	if len(symbols) != len(positions) {
		return nil, fmt.Errorf("%d symbols but %d positions: %w",
			len(symbols), len(positions), apperr.ErrInvalidParameter)
	}
	r, c := cell.Dims()
	if r != 3 || c != 3 {
		return nil, fmt.Errorf("cell matrix is %dx%d, want 3x3: %w", r, c, apperr.ErrInvalidParameter)
	}
	if det := mat.Det(cell); math.Abs(det) < 1e-10 {
		return nil, fmt.Errorf("degenerate cell (det=%g): %w", det, apperr.ErrInvalidParameter)
	}
	return &Structure{
		Symbols:   append([]string(nil), symbols...),
		Positions: append([][3]float64(nil), positions...),
		Cell:      mat.DenseCopyOf(cell),
		PBC:       [3]bool{true, true, true},
	}, nil
}

// NAtoms returns the number of atoms.
func (s *Structure) NAtoms() int { return len(s.Symbols) }

// Copy returns a deep copy.
func (s *Structure) Copy() *Structure {
	out := &Structure{
		Symbols:   append([]string(nil), s.Symbols...),
		Positions: append([][3]float64(nil), s.Positions...),
		Cell:      mat.DenseCopyOf(s.Cell),
		PBC:       s.PBC,
	}
	if s.Frozen != nil {
		out.Frozen = append([]bool(nil), s.Frozen...)
	}
	if s.Magmoms != nil {
		out.Magmoms = append([]float64(nil), s.Magmoms...)
	}
	return out
}

// SpeciesOrder returns the distinct element symbols in first-appearance
// order. This single ordering is shared by the geometry writer and every
// per-species array tag in the control file, so the two cannot diverge.
func (s *Structure) SpeciesOrder() []string {
	var order []string
	seen := make(map[string]bool, len(s.Symbols))
	for _, sym := range s.Symbols {
		if !seen[sym] {
			seen[sym] = true
			order = append(order, sym)
		}
	}
	return order
}

// SpeciesCounts returns atom counts aligned with SpeciesOrder.
func (s *Structure) SpeciesCounts() []int {
	order := s.SpeciesOrder()
	idx := make(map[string]int, len(order))
	for i, sym := range order {
		idx[sym] = i
	}
	counts := make([]int, len(order))
	for _, sym := range s.Symbols {
		counts[idx[sym]]++
	}
	return counts
}

// Formula returns the chemical formula with species in first-appearance
// order, e.g. "SrTiO3".
func (s *Structure) Formula() string {
	order := s.SpeciesOrder()
	counts := s.SpeciesCounts()
	formula := ""
	for i, sym := range order {
		formula += sym
		if counts[i] > 1 {
			formula += fmt.Sprintf("%d", counts[i])
		}
	}
	return formula
}

// FractionalPositions maps the cartesian positions into fractional
// coordinates of the cell.
func (s *Structure) FractionalPositions() [][3]float64 {
	var inv mat.Dense
	// New() guarantees the cell is invertible.
	if err := inv.Inverse(s.Cell); err != nil {
		panic(fmt.Sprintf("structure: cell not invertible: %v", err))
	}
	frac := make([][3]float64, len(s.Positions))
	for i, p := range s.Positions {
		for j := 0; j < 3; j++ {
			frac[i][j] = p[0]*inv.At(0, j) + p[1]*inv.At(1, j) + p[2]*inv.At(2, j)
		}
	}
	return frac
}

// ReciprocalLengths returns |b_i| for the three reciprocal lattice vectors
// b_i = 2*pi * (columns of Cell^-1). The k-point mesh derivation uses these.
func (s *Structure) ReciprocalLengths() [3]float64 {
	var inv mat.Dense
	if err := inv.Inverse(s.Cell); err != nil {
		panic(fmt.Sprintf("structure: cell not invertible: %v", err))
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = 2 * math.Pi * math.Hypot(inv.At(0, i), math.Hypot(inv.At(1, i), inv.At(2, i)))
	}
	return out
}

// CellLengths returns the lengths of the three lattice vectors.
func (s *Structure) CellLengths() [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = math.Sqrt(s.Cell.At(i, 0)*s.Cell.At(i, 0) +
			s.Cell.At(i, 1)*s.Cell.At(i, 1) +
			s.Cell.At(i, 2)*s.Cell.At(i, 2))
	}
	return out
}

// AnyFrozen reports whether any atom carries a selective-dynamics freeze.
func (s *Structure) AnyFrozen() bool {
	for _, f := range s.Frozen {
		if f {
			return true
		}
	}
	return false
}

// FrozenCount returns the number of frozen atoms.
func (s *Structure) FrozenCount() int {
	n := 0
	for _, f := range s.Frozen {
		if f {
			n++
		}
	}
	return n
}
