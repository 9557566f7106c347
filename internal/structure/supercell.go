package structure

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"gonum.org/v1/gonum/mat"
)

// Supercell tiles s by integer replication factors along the three lattice
// vectors. Atom count scales by dims[0]*dims[1]*dims[2]; each cell vector is
// scaled by its factor. Replication by (1,1,1) returns an unchanged copy.
func Supercell(s *Structure, dims [3]int) (*Structure, error) {
	for i, n := range dims {
		if n < 1 {
			return nil, fmt.Errorf("supercell factor %d along axis %d: %w",
				n, i, apperr.ErrInvalidParameter)
		}
	}

	n := s.NAtoms()
	total := n * dims[0] * dims[1] * dims[2]
	symbols := make([]string, 0, total)
	positions := make([][3]float64, 0, total)
	var magmoms []float64
	if s.Magmoms != nil {
		magmoms = make([]float64, 0, total)
	}

	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				for ai := 0; ai < n; ai++ {
					p := s.Positions[ai]
					var shifted [3]float64
					for d := 0; d < 3; d++ {
						shifted[d] = p[d] +
							float64(i)*s.Cell.At(0, d) +
							float64(j)*s.Cell.At(1, d) +
							float64(k)*s.Cell.At(2, d)
					}
					symbols = append(symbols, s.Symbols[ai])
					positions = append(positions, shifted)
					if magmoms != nil {
						magmoms = append(magmoms, s.Magmoms[ai])
					}
				}
			}
		}
	}

	cell := mat.DenseCopyOf(s.Cell)
	for i, f := range dims {
		for d := 0; d < 3; d++ {
			cell.Set(i, d, cell.At(i, d)*float64(f))
		}
	}

	out, err := New(symbols, positions, cell)
	if err != nil {
		return nil, err
	}
	out.Magmoms = magmoms
	return out, nil
}
