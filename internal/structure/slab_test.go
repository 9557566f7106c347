package structure

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

func TestSlab100(t *testing.T) {
	bulk, err := Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)

	slab, info, err := Slab(bulk, [3]int{1, 0, 0}, 10, 15, 0)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, info.SlabThickness, 10.0)
	assert.GreaterOrEqual(t, info.VacuumThickness, 15.0-1e-9)
	assert.Equal(t, [3]bool{true, true, false}, slab.PBC)
	assert.Equal(t, bulk.NAtoms()*info.Layers, slab.NAtoms())

	// c is orthogonal: the cell is upper-left 2x2 in-plane plus c_z.
	assert.InDelta(t, 0.0, slab.Cell.At(2, 0), 1e-9)
	assert.InDelta(t, 0.0, slab.Cell.At(2, 1), 1e-9)
	assert.InDelta(t, info.SlabThickness+info.VacuumThickness, slab.Cell.At(2, 2), 1e-9)

	// All atoms sit inside the slab region, centred in the vacuum gap.
	for _, p := range slab.Positions {
		assert.GreaterOrEqual(t, p[2], 15.0/2-1e-9)
		assert.LessOrEqual(t, p[2], slab.Cell.At(2, 2)-15.0/2+1e-9)
	}
}

func TestSlab110(t *testing.T) {
	bulk, err := Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	slab, info, err := Slab(bulk, [3]int{1, 1, 0}, 8, 12, 0)
	require.NoError(t, err)

	// (110) interplanar spacing is a/sqrt(2).
	step := 3.905 / math.Sqrt2
	wantLayers := int(math.Ceil(8 / step))
	assert.Equal(t, wantLayers, info.Layers)
	assert.Equal(t, bulk.NAtoms()*wantLayers, slab.NAtoms())
	assert.GreaterOrEqual(t, info.SlabThickness, 8.0)
}

func TestSlabMillerReduction(t *testing.T) {
	bulk, err := Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)

	_, info, err := Slab(bulk, [3]int{2, 0, 0}, 10, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 0, 0}, info.Miller)
}

func TestSlabFreezeBottom(t *testing.T) {
	bulk, err := Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)

	slab, info, err := Slab(bulk, [3]int{1, 0, 0}, 10, 15, 2)
	require.NoError(t, err)

	// Cutting the primitive rocksalt cell along its (100) crosses
	// alternating single-atom Mg and O planes, so two frozen layers
	// freeze two atoms.
	assert.Equal(t, 2, info.FrozenAtoms)
	assert.Equal(t, 2, slab.FrozenCount())

	// Frozen atoms are exactly the lowest ones.
	maxFrozen, minFree := -math.MaxFloat64, math.MaxFloat64
	for i, p := range slab.Positions {
		if slab.Frozen[i] {
			maxFrozen = math.Max(maxFrozen, p[2])
		} else {
			minFree = math.Min(minFree, p[2])
		}
	}
	assert.Less(t, maxFrozen, minFree)
}

func TestSlabFreezeAllLayersIsNoop(t *testing.T) {
	bulk, err := Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)

	slab, info, err := Slab(bulk, [3]int{1, 0, 0}, 4, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, info.FrozenAtoms)
	assert.False(t, slab.AnyFrozen())
}

func TestSlabInvalid(t *testing.T) {
	bulk, err := Rocksalt("Mg", "O", 4.21)
	require.NoError(t, err)

	_, _, err = Slab(bulk, [3]int{0, 0, 0}, 10, 15, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))

	_, _, err = Slab(bulk, [3]int{1, 0, 0}, -1, 15, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))

	_, _, err = Slab(bulk, [3]int{1, 0, 0}, 10, -1, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))

	_, _, err = Slab(bulk, [3]int{1, 0, 0}, 10, 15, -2)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
}
