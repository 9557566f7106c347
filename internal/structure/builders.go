package structure

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"gonum.org/v1/gonum/mat"
)

func cubicCell(a float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		a, 0, 0,
		0, a, 0,
		0, 0, a,
	})
}

// hexagonalCell returns the conventional hexagonal cell with in-plane
// constant a and out-of-plane constant c (gamma = 120 degrees).
func hexagonalCell(a, c float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		a, 0, 0,
		-a / 2, a * math.Sqrt(3) / 2, 0,
		0, 0, c,
	})
}

func checkSymbol(name, sym string) error {
	if strings.TrimSpace(sym) == "" {
		return fmt.Errorf("%s symbol is empty: %w", name, apperr.ErrInvalidParameter)
	}
	return nil
}

func checkLattice(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %g: %w", name, v, apperr.ErrInvalidParameter)
	}
	return nil
}

// fromFractional builds a structure from fractional coordinates of cell.
func fromFractional(symbols []string, frac [][3]float64, cell *mat.Dense) (*Structure, error) {
	pos := make([][3]float64, len(frac))
	for i, f := range frac {
		for j := 0; j < 3; j++ {
			pos[i][j] = f[0]*cell.At(0, j) + f[1]*cell.At(1, j) + f[2]*cell.At(2, j)
		}
	}
	return New(symbols, pos, cell)
}

// Perovskite builds the 5-atom cubic ABO3 unit cell (space group Pm-3m):
// A at the corner, B at the body centre, O at the three face centres.
func Perovskite(a, b string, latA float64) (*Structure, error) {
	if err := checkSymbol("A-site", a); err != nil {
		return nil, err
	}
	if err := checkSymbol("B-site", b); err != nil {
		return nil, err
	}
	if err := checkLattice("lattice constant", latA); err != nil {
		return nil, err
	}
	return fromFractional(
		[]string{a, b, "O", "O", "O"},
		[][3]float64{
			{0, 0, 0},
			{0.5, 0.5, 0.5},
			{0.5, 0.5, 0},
			{0.5, 0, 0.5},
			{0, 0.5, 0.5},
		},
		cubicCell(latA),
	)
}

// Rocksalt builds the two-atom NaCl-type primitive cell: fcc lattice
// vectors a/2*(0,1,1), a/2*(1,0,1), a/2*(1,1,0), cation at the origin and
// anion at fractional (1/2,1/2,1/2), so the nearest cation-anion distance
// is a/2. NiO experimental a = 4.177 A (conventional cubic constant).
func Rocksalt(cation, anion string, a float64) (*Structure, error) {
	if err := checkSymbol("cation", cation); err != nil {
		return nil, err
	}
	if err := checkSymbol("anion", anion); err != nil {
		return nil, err
	}
	if err := checkLattice("lattice constant", a); err != nil {
		return nil, err
	}
	cell := mat.NewDense(3, 3, []float64{
		0, a / 2, a / 2,
		a / 2, 0, a / 2,
		a / 2, a / 2, 0,
	})
	return fromFractional(
		[]string{cation, anion},
		[][3]float64{
			{0, 0, 0},
			{0.5, 0.5, 0.5},
		},
		cell,
	)
}

// Graphite builds the 4-atom AB-stacked graphite cell (P6_3/mmc).
// Experimental constants: a = 2.464, c = 6.711 A.
func Graphite(a, c float64) (*Structure, error) {
	if err := checkLattice("in-plane constant a", a); err != nil {
		return nil, err
	}
	if err := checkLattice("out-of-plane constant c", c); err != nil {
		return nil, err
	}
	// 2b sites (0,0,1/4),(0,0,3/4) and 2c sites (1/3,2/3,1/4),(2/3,1/3,3/4).
	return fromFractional(
		[]string{"C", "C", "C", "C"},
		[][3]float64{
			{0, 0, 0.25},
			{0, 0, 0.75},
			{1.0 / 3.0, 2.0 / 3.0, 0.25},
			{2.0 / 3.0, 1.0 / 3.0, 0.75},
		},
		hexagonalCell(a, c),
	)
}

// Corundum builds the 30-atom conventional hexagonal cell of alpha-M2O3
// (space group R-3c) from the Wyckoff orbits: metal on 12c with z = 0.3553,
// oxygen on 18e with x = 0.3059 (the hematite values; sapphire differs only
// in the lattice constants).
func Corundum(metal string, a, c float64) (*Structure, error) {
	if err := checkSymbol("metal", metal); err != nil {
		return nil, err
	}
	if err := checkLattice("a", a); err != nil {
		return nil, err
	}
	if err := checkLattice("c", c); err != nil {
		return nil, err
	}

	const (
		zM = 0.3553
		xO = 0.3059
	)
	// Rhombohedral centering translations of the hexagonal setting.
	centerings := [][3]float64{
		{0, 0, 0},
		{2.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0},
		{1.0 / 3.0, 2.0 / 3.0, 2.0 / 3.0},
	}
	orbit12c := [][3]float64{
		{0, 0, zM},
		{0, 0, zM + 0.5},
		{0, 0, -zM},
		{0, 0, -zM + 0.5},
	}
	orbit18e := [][3]float64{
		{xO, 0, 0.25},
		{0, xO, 0.25},
		{-xO, -xO, 0.25},
		{-xO, 0, 0.75},
		{0, -xO, 0.75},
		{xO, xO, 0.75},
	}

	var symbols []string
	var frac [][3]float64
	add := func(sym string, site, centering [3]float64) {
		var f [3]float64
		for j := 0; j < 3; j++ {
			f[j] = math.Mod(site[j]+centering[j], 1)
			if f[j] < 0 {
				f[j] += 1
			}
		}
		symbols = append(symbols, sym)
		frac = append(frac, f)
	}
	for _, t := range centerings {
		for _, site := range orbit12c {
			add(metal, site, t)
		}
	}
	for _, t := range centerings {
		for _, site := range orbit18e {
			add("O", site, t)
		}
	}
	return fromFractional(symbols, frac, hexagonalCell(a, c))
}
