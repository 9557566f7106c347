package vaspio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

func TestNewInputSetValidation(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	_, err = NewInputSet(s, "made_up", nil, 40)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
	// The error names the recognized presets.
	assert.Contains(t, err.Error(), string(CalcRelax))
	assert.Contains(t, err.Error(), string(CalcPhonon))

	_, err = NewInputSet(s, CalcRelax, nil, 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))

	_, err = NewInputSet(s, CalcRelax, nil, -5)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))
}

func TestNewInputSetOverrides(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	is, err := NewInputSet(s, CalcRelax, map[string]any{"ENCUT": 400, "ISIF": 2}, 40)
	require.NoError(t, err)
	assert.Equal(t, 400, is.Tags["ENCUT"])
	assert.Equal(t, 2, is.Tags["ISIF"])
	assert.Equal(t, "Accurate", is.Tags["PREC"])

	// The template preset is untouched.
	fresh, _ := Preset(CalcRelax)
	assert.Equal(t, 520, fresh["ENCUT"])
}

func TestRenderAllOrNothing(t *testing.T) {
	s, err := structure.Rocksalt("Ni", "O", 4.17)
	require.NoError(t, err)

	is, err := NewInputSet(s, CalcDFTPlusU, map[string]any{"LDAUL": []int{2}}, 35)
	require.NoError(t, err)

	fs, err := is.Render()
	assert.Error(t, err)
	assert.Nil(t, fs)
}

func TestRenderFileSet(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	is, err := NewInputSet(s, CalcRelax, nil, 40)
	require.NoError(t, err)
	is.PotcarMap = map[string]string{"Sr": "Sr_sv", "Ti": "Ti_pv"}

	fs, err := is.Render()
	require.NoError(t, err)
	assert.Contains(t, fs.INCAR, "ISIF = 3")
	assert.Contains(t, fs.POSCAR, "SrTiO3")
	assert.Contains(t, fs.KPOINTS, "Gamma")
	assert.Contains(t, fs.PotcarRef, "Sr  ->  Sr_sv")
	assert.Contains(t, fs.PotcarRef, "Species order in POSCAR: Sr Ti O")
}

func TestExplainCoversEveryTag(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	is, err := NewInputSet(s, CalcRelax, nil, 40)
	require.NoError(t, err)

	text := is.Explain()
	for tag := range is.Tags {
		assert.Contains(t, text, "  "+tag+" = ")
	}
}

func TestWriteAll(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	is, err := NewInputSet(s, CalcRelax, nil, 40)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "relax")
	paths, err := is.WriteAll(dir)
	require.NoError(t, err)

	for _, name := range []string{"INCAR", "POSCAR", "KPOINTS", "POTCAR_REFERENCE", "calc_info.json"} {
		p, ok := paths[name]
		require.True(t, ok, name)
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.NotEmpty(t, data, name)
	}
}
