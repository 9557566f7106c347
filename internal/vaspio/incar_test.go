package vaspio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{true, ".TRUE."},
		{false, ".FALSE."},
		{520, "520"},
		{1e-6, "1e-06"},
		{-0.01, "-0.01"},
		{"Accurate", "Accurate"},
		{[]int{2, -1}, "2 -1"},
		{[]float64{6.2, 0}, "6.2 0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatValue(c.in), "value %v", c.in)
	}
}

func TestRenderINCARRelax(t *testing.T) {
	s, err := structure.Perovskite("Sr", "Ti", 3.905)
	require.NoError(t, err)

	tags, ok := Preset(CalcRelax)
	require.True(t, ok)

	out, err := RenderINCAR(s, CalcRelax, tags)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# VASP INCAR -- relax calculation\n"))
	assert.Contains(t, out, "  ISIF = 3    #")
	assert.Contains(t, out, "  LWAVE = .FALSE.")
	assert.Contains(t, out, "  EDIFF = 1e-06")

	// Recognized tags come out in the canonical order: PREC first.
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[2], "  PREC = Accurate"))
}

func TestRenderINCARSpeciesArrayArity(t *testing.T) {
	s, err := structure.Rocksalt("Ni", "O", 4.17)
	require.NoError(t, err)

	tags, ok := Preset(CalcDFTPlusU)
	require.True(t, ok)
	tags["LDAUL"] = []int{2} // two species, one value

	_, err = RenderINCAR(s, CalcDFTPlusU, tags)
	assert.True(t, errors.Is(err, apperr.ErrInvalidParameter))

	tags["LDAUL"] = []int{2, -1}
	tags["LDAUU"] = []float64{6.2, 0}
	tags["LDAUJ"] = []float64{0, 0}
	out, err := RenderINCAR(s, CalcDFTPlusU, tags)
	require.NoError(t, err)
	assert.Contains(t, out, "  LDAUL = 2 -1")
	assert.Contains(t, out, "  LDAUU = 6.2 0")
}

func TestHubbardTagsFollowSpeciesOrder(t *testing.T) {
	// O-first ordering must flip the arrays relative to the Ni-first cell.
	s, err := structure.New(
		[]string{"O", "Ni"},
		[][3]float64{{0, 0, 0}, {2, 2, 2}},
		mat.NewDense(3, 3, []float64{4, 0, 0, 0, 4, 0, 0, 0, 4}),
	)
	require.NoError(t, err)

	ldaul, ldauu, ldauj := HubbardTags(s, "Ni", 6.2, 0)
	assert.Equal(t, []int{-1, 2}, ldaul)
	assert.Equal(t, []float64{0, 6.2}, ldauu)
	assert.Equal(t, []float64{0, 0}, ldauj)
}

func TestMagmomString(t *testing.T) {
	assert.Equal(t, "2.0 -2.0 0.0", MagmomString([]float64{2, -2, 0}))
}

func TestPresetIsACopy(t *testing.T) {
	a, ok := Preset(CalcRelax)
	require.True(t, ok)
	a["ENCUT"] = 999

	b, ok := Preset(CalcRelax)
	require.True(t, ok)
	assert.Equal(t, 520, b["ENCUT"])
}

func TestPresetUnknown(t *testing.T) {
	_, ok := Preset("made_up")
	assert.False(t, ok)
}
