package structure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

func TestSupercellScaling(t *testing.T) {
	unit, err := Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	sc, err := Supercell(unit, [3]int{2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 5*2*3*4, sc.NAtoms())
	assert.InDelta(t, 2*3.905, sc.Cell.At(0, 0), 1e-12)
	assert.InDelta(t, 3*3.905, sc.Cell.At(1, 1), 1e-12)
	assert.InDelta(t, 4*3.905, sc.Cell.At(2, 2), 1e-12)
	assert.Equal(t, "Sr24Ti24O72", sc.Formula())
}

func TestSupercellIdentity(t *testing.T) {
	unit, err := Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	sc, err := Supercell(unit, [3]int{1, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, unit.NAtoms(), sc.NAtoms())
	assert.Equal(t, unit.Symbols, sc.Symbols)
	for i := range unit.Positions {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, unit.Positions[i][j], sc.Positions[i][j], 1e-12)
		}
	}
}

func TestSupercellInvalidFactor(t *testing.T) {
	unit, err := Rocksalt("Ni", "O", 4.17)
	require.NoError(t, err)

	for _, dims := range [][3]int{{0, 1, 1}, {1, -2, 1}, {1, 1, 0}} {
		_, err := Supercell(unit, dims)
		assert.True(t, errors.Is(err, apperr.ErrInvalidParameter), "dims %v", dims)
	}
}

func TestSupercellCarriesMagmoms(t *testing.T) {
	unit, err := Rocksalt("Ni", "O", 4.17)
	require.NoError(t, err)
	unit.Magmoms = []float64{2, 0}

	sc, err := Supercell(unit, [3]int{2, 1, 1})
	require.NoError(t, err)

	require.Len(t, sc.Magmoms, 4)
	assert.InDelta(t, 2.0, sc.Magmoms[0], 1e-12)
	assert.InDelta(t, 0.0, sc.Magmoms[1], 1e-12)
	assert.InDelta(t, 2.0, sc.Magmoms[2], 1e-12)
}
