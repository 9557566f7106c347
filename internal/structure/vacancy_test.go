package structure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

func TestWithVacancy(t *testing.T) {
	unit, err := Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)
	sc, err := Supercell(unit, [3]int{2, 2, 2})
	require.NoError(t, err)

	defective, info, err := WithVacancy(sc, "O")
	require.NoError(t, err)

	assert.Equal(t, sc.NAtoms()-1, defective.NAtoms())
	assert.Equal(t, "O", info.RemovedSymbol)
	assert.Equal(t, 40, info.AtomsPristine)
	assert.Equal(t, 39, info.AtomsDefective)

	// First match: the removed index is the first O in the pristine cell.
	assert.Equal(t, "O", sc.Symbols[info.RemovedIndex])
	for i := 0; i < info.RemovedIndex; i++ {
		assert.NotEqual(t, "O", sc.Symbols[i])
	}

	// Remaining atoms keep their relative order.
	for i := 0; i < info.RemovedIndex; i++ {
		assert.Equal(t, sc.Symbols[i], defective.Symbols[i])
	}
	for i := info.RemovedIndex; i < defective.NAtoms(); i++ {
		assert.Equal(t, sc.Symbols[i+1], defective.Symbols[i])
	}

	// Source structure untouched.
	assert.Equal(t, 40, sc.NAtoms())
}

func TestWithVacancyMissingElement(t *testing.T) {
	unit, err := Rocksalt("Ni", "O", 4.17)
	require.NoError(t, err)

	_, _, err = WithVacancy(unit, "Mg")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
