package vaspio

import (
	"fmt"
	"strings"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

// RenderPOSCAR produces the geometry block: header, scale factor, cell
// matrix, grouped species counts, and cartesian coordinates grouped by
// species. When any atom is frozen a selective-dynamics flag triple is
// appended per atom. Species grouping uses the same ordering as the control
// block's per-species array tags.
func RenderPOSCAR(s *structure.Structure) string {
	order := s.SpeciesOrder()
	counts := s.SpeciesCounts()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Formula())
	b.WriteString("1.0\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, " %21.16f %21.16f %21.16f\n",
			s.Cell.At(i, 0), s.Cell.At(i, 1), s.Cell.At(i, 2))
	}
	b.WriteString("  " + strings.Join(order, "  ") + "\n")
	countParts := make([]string, len(counts))
	for i, c := range counts {
		countParts[i] = fmt.Sprintf("%d", c)
	}
	b.WriteString("  " + strings.Join(countParts, "  ") + "\n")

	selective := s.AnyFrozen()
	if selective {
		b.WriteString("Selective dynamics\n")
	}
	b.WriteString("Cartesian\n")

	// One coordinate line per atom, grouped by species.
	for _, sp := range order {
		for i, sym := range s.Symbols {
			if sym != sp {
				continue
			}
			p := s.Positions[i]
			if selective {
				flag := "T T T"
				if s.Frozen != nil && s.Frozen[i] {
					flag = "F F F"
				}
				fmt.Fprintf(&b, " %19.16f %19.16f %19.16f %s\n", p[0], p[1], p[2], flag)
			} else {
				fmt.Fprintf(&b, " %19.16f %19.16f %19.16f\n", p[0], p[1], p[2])
			}
		}
	}
	return b.String()
}
