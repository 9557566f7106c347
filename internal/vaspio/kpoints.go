package vaspio

import (
	"fmt"
	"math"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

// AutoKPoints derives a Gamma-centred mesh from a target density:
// k_i = max(1, ceil(density * |b_i|)). Smaller real-space vectors have
// longer reciprocal vectors and therefore get denser sampling.
func AutoKPoints(s *structure.Structure, density float64) [3]int {
	recip := s.ReciprocalLengths()
	var mesh [3]int
	for i := 0; i < 3; i++ {
		k := int(math.Ceil(density * recip[i]))
		if k < 1 {
			k = 1
		}
		mesh[i] = k
	}
	return mesh
}

// RenderKPOINTS produces the sampling block for an automatic Gamma-centred
// grid with zero origin shift.
func RenderKPOINTS(s *structure.Structure, density float64) string {
	mesh := AutoKPoints(s, density)
	return fmt.Sprintf("Automatic mesh\n0\nGamma\n  %d  %d  %d\n  0  0  0\n",
		mesh[0], mesh[1], mesh[2])
}
