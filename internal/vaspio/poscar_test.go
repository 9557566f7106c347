package vaspio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

func TestRenderPOSCAR(t *testing.T) {
	s, err := structure.Rocksalt("Ni", "O", 4.0)
	require.NoError(t, err)

	want := `NiO
1.0
    0.0000000000000000    2.0000000000000000    2.0000000000000000
    2.0000000000000000    0.0000000000000000    2.0000000000000000
    2.0000000000000000    2.0000000000000000    0.0000000000000000
  Ni  O
  1  1
Cartesian
  0.0000000000000000  0.0000000000000000  0.0000000000000000
  2.0000000000000000  2.0000000000000000  2.0000000000000000
`
	assert.Equal(t, want, RenderPOSCAR(s))
}

func TestRenderPOSCARGroupsBySpecies(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	lines := strings.Split(RenderPOSCAR(s), "\n")
	assert.Equal(t, "SrTiO3", lines[0])
	assert.Equal(t, "  Sr  Ti  O", lines[5])
	assert.Equal(t, "  1  1  3", lines[6])
	assert.Equal(t, "Cartesian", lines[7])
	// 5 coordinate lines plus trailing empty split element.
	assert.Len(t, lines, 8+5+1)
}

func TestRenderPOSCARSelectiveDynamics(t *testing.T) {
	s, err := structure.Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)
	s.Frozen = []bool{true, false}

	out := RenderPOSCAR(s)
	assert.Contains(t, out, "Selective dynamics\n")
	assert.Contains(t, out, " F F F\n")
	assert.Contains(t, out, " T T T\n")

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Selective dynamics", lines[7])
	assert.Equal(t, "Cartesian", lines[8])
}
