package vaspio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

func TestAutoKPointsCubic(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 4.0)
	require.NoError(t, err)

	// |b_i| = 2*pi/4; density 5 gives ceil(5 * 1.5708) = 8 per axis.
	want := int(math.Ceil(5 * 2 * math.Pi / 4.0))
	mesh := AutoKPoints(s, 5)
	assert.Equal(t, [3]int{want, want, want}, mesh)
}

func TestAutoKPointsAnisotropic(t *testing.T) {
	unit, err := structure.Perovskite("Sr", "Ti", 4.0)
	require.NoError(t, err)
	sc, err := structure.Supercell(unit, [3]int{1, 1, 4})
	require.NoError(t, err)

	mesh := AutoKPoints(sc, 5)
	// The long axis has the short reciprocal vector and gets fewer points.
	assert.Equal(t, mesh[0], mesh[1])
	assert.Less(t, mesh[2], mesh[0])
}

func TestAutoKPointsFloor(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 4.0)
	require.NoError(t, err)

	mesh := AutoKPoints(s, 0.01)
	assert.Equal(t, [3]int{1, 1, 1}, mesh)
}

func TestRenderKPOINTS(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 4.0)
	require.NoError(t, err)

	want := "Automatic mesh\n0\nGamma\n  8  8  8\n  0  0  0\n"
	assert.Equal(t, want, RenderKPOINTS(s, 5))
}
