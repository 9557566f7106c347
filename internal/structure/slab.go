package structure

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"gonum.org/v1/gonum/mat"
)

// SlabInfo carries the derived geometry of a cut slab.
type SlabInfo struct {
	Miller          [3]int  `json:"miller_index"`
	Layers          int     `json:"repeats_along_normal"`
	SlabThickness   float64 `json:"slab_thickness_A"`
	VacuumThickness float64 `json:"vacuum_thickness_A"`
	FrozenAtoms     int     `json:"frozen_atoms"`
}

// Slab cuts a surface slab from a bulk cell along the (h,k,l) plane.
//
// The cut works on an integer change of basis with determinant one: two new
// in-plane lattice vectors lie in the (hkl) plane and the third crosses it.
// The slab is repeated along the surface normal until the periodic repeat
// length meets minSlab, the cell is rotated so the normal is +z, and the
// c vector is extended by minVacuum. When freezeLayers > 0 the bottom
// z-layers are marked frozen for selective dynamics.
func Slab(bulk *Structure, miller [3]int, minSlab, minVacuum float64, freezeLayers int) (*Structure, *SlabInfo, error) {
	if miller == [3]int{0, 0, 0} {
		return nil, nil, fmt.Errorf("miller index (0,0,0): %w", apperr.ErrInvalidParameter)
	}
	if minSlab <= 0 {
		return nil, nil, fmt.Errorf("minimum slab thickness must be positive, got %g: %w",
			minSlab, apperr.ErrInvalidParameter)
	}
	if minVacuum < 0 {
		return nil, nil, fmt.Errorf("vacuum thickness must be non-negative, got %g: %w",
			minVacuum, apperr.ErrInvalidParameter)
	}
	if freezeLayers < 0 {
		return nil, nil, fmt.Errorf("freeze-layer count must be non-negative, got %d: %w",
			freezeLayers, apperr.ErrInvalidParameter)
	}
	if g := gcd3(miller); g > 1 {
		miller = [3]int{miller[0] / g, miller[1] / g, miller[2] / g}
	}

	basis := surfaceBasis(bulk.Cell, miller)

	// Re-express the atoms in the new unimodular basis and wrap into the
	// cell. det(basis) == 1, so the atom count is unchanged.
	unit := rebase(bulk, basis)

	// Repeat along the third axis until the periodic repeat length along
	// the surface normal reaches the requested slab thickness.
	normalStep := normalHeight(unit.Cell)
	layers := int(math.Ceil(minSlab / normalStep))
	if layers < 1 {
		layers = 1
	}
	slab, err := Supercell(unit, [3]int{1, 1, layers})
	if err != nil {
		return nil, nil, err
	}

	// Replace c by its component along the surface normal. The in-plane
	// shear this removes is a pure lattice translation for the slab.
	orthogonalizeC(slab)

	// Rotate to the standard orientation: a along +x, b in the xy plane,
	// c along +z.
	rotateToStandard(slab)

	slabThickness := slab.Cell.At(2, 2)
	slab.Cell.Set(2, 2, slabThickness+minVacuum)
	// Centre the atoms in the vacuum gap.
	for i := range slab.Positions {
		slab.Positions[i][2] += minVacuum / 2
	}
	slab.PBC = [3]bool{true, true, false}

	info := &SlabInfo{
		Miller:          miller,
		Layers:          layers,
		SlabThickness:   slabThickness,
		VacuumThickness: slab.Cell.At(2, 2) - slabThickness,
	}

	if freezeLayers > 0 {
		info.FrozenAtoms = freezeBottomLayers(slab, freezeLayers)
	}
	return slab, info, nil
}

// surfaceBasis returns the integer basis (rows) with determinant one whose
// first two vectors lie in the (hkl) plane. This is the standard extended-gcd
// construction for general surface cuts.
func surfaceBasis(cell *mat.Dense, miller [3]int) [3][3]int {
	h, k, l := miller[0], miller[1], miller[2]

	zeros := 0
	for _, v := range miller {
		if v == 0 {
			zeros++
		}
	}
	if zeros == 2 {
		// The cut plane is a cell face: permute axes so the nonzero
		// index becomes the third basis vector.
		switch {
		case h != 0:
			return [3][3]int{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}
		case k != 0:
			return [3][3]int{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}
		default:
			return [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		}
	}

	p, q := extGCD(k, l)
	a1 := rowVec(cell, 0)
	a2 := rowVec(cell, 1)
	a3 := rowVec(cell, 2)

	// Choose p,q minimizing the in-plane skew between c1 and c2.
	k1 := dot(add(scale(sub(scale(a1, float64(k)), scale(a2, float64(h))), float64(p)),
		scale(sub(scale(a1, float64(l)), scale(a3, float64(h))), float64(q))),
		sub(scale(a2, float64(l)), scale(a3, float64(k))))
	k2 := dot(sub(scale(sub(scale(a1, float64(k)), scale(a2, float64(h))), float64(l)),
		scale(sub(scale(a1, float64(l)), scale(a3, float64(h))), float64(k))),
		sub(scale(a2, float64(l)), scale(a3, float64(k))))
	if math.Abs(k2) > 1e-10 {
		i := -int(math.Round(k1 / k2))
		p, q = p+i*l, q-i*k
	}

	a, b := extGCD(p*k+q*l, h)

	c1 := [3]int{p*k + q*l, -p * h, -q * h}
	g := gcd(abs(l), abs(k))
	if g == 0 {
		g = 1
	}
	c2 := [3]int{0, l / g, -k / g}
	c3 := [3]int{b, a * p, a * q}
	return [3][3]int{c1, c2, c3}
}

// rebase maps s into the integer basis t (rows) and wraps the fractional
// coordinates into [0,1).
func rebase(s *Structure, t [3][3]int) *Structure {
	tf := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tf.Set(i, j, float64(t[i][j]))
		}
	}
	var newCell mat.Dense
	newCell.Mul(tf, s.Cell)

	var inv mat.Dense
	if err := inv.Inverse(tf); err != nil {
		panic(fmt.Sprintf("structure: degenerate surface basis: %v", err))
	}

	const tol = 1e-7
	frac := s.FractionalPositions()
	out := s.Copy()
	out.Cell = &newCell
	for i, f := range frac {
		var nf [3]float64
		for j := 0; j < 3; j++ {
			nf[j] = f[0]*inv.At(0, j) + f[1]*inv.At(1, j) + f[2]*inv.At(2, j)
		}
		for j := 0; j < 3; j++ {
			nf[j] -= math.Floor(nf[j] + tol)
		}
		for j := 0; j < 3; j++ {
			out.Positions[i][j] = nf[0]*newCell.At(0, j) + nf[1]*newCell.At(1, j) + nf[2]*newCell.At(2, j)
		}
	}
	return out
}

// normalHeight returns the height of the cell along the normal of the plane
// spanned by the first two lattice vectors.
func normalHeight(cell *mat.Dense) float64 {
	n := cross(rowVec(cell, 0), rowVec(cell, 1))
	return math.Abs(dot(rowVec(cell, 2), n)) / norm(n)
}

func orthogonalizeC(s *Structure) {
	a := rowVec(s.Cell, 0)
	b := rowVec(s.Cell, 1)
	c := rowVec(s.Cell, 2)
	n := cross(a, b)
	proj := dot(c, n) / (norm(n) * norm(n))
	for j := 0; j < 3; j++ {
		s.Cell.Set(2, j, n[j]*proj)
	}
}

// rotateToStandard rigidly rotates cell and atoms so that a lies along +x,
// b in the xy plane, and c along +z.
func rotateToStandard(s *Structure) {
	frac := s.FractionalPositions()
	a := rowVec(s.Cell, 0)
	b := rowVec(s.Cell, 1)
	c := rowVec(s.Cell, 2)

	la := norm(a)
	abDot := dot(a, b) / la
	by := math.Sqrt(norm(b)*norm(b) - abDot*abDot)
	lc := norm(c)

	std := mat.NewDense(3, 3, []float64{
		la, 0, 0,
		abDot, by, 0,
		0, 0, lc,
	})
	s.Cell = std
	for i, f := range frac {
		for j := 0; j < 3; j++ {
			s.Positions[i][j] = f[0]*std.At(0, j) + f[1]*std.At(1, j) + f[2]*std.At(2, j)
		}
	}
}

// freezeBottomLayers clusters atoms into z-layers (0.5 A tolerance) and
// freezes the bottom n layers. Returns the frozen-atom count. When the slab
// has too few layers to leave anything free, nothing is frozen.
func freezeBottomLayers(s *Structure, n int) int {
	zs := make([]float64, s.NAtoms())
	for i, p := range s.Positions {
		zs[i] = p[2]
	}

	uniq := map[float64]bool{}
	for _, z := range zs {
		uniq[math.Round(z*10)/10] = true
	}
	sorted := make([]float64, 0, len(uniq))
	for z := range uniq {
		sorted = append(sorted, z)
	}
	sort.Float64s(sorted)

	boundaries := []float64{sorted[0]}
	current := sorted[0]
	for _, z := range sorted[1:] {
		if z-current > 0.5 {
			boundaries = append(boundaries, z)
			current = z
		}
	}

	if len(boundaries) <= n {
		return 0
	}
	threshold := boundaries[n]
	s.Frozen = make([]bool, s.NAtoms())
	count := 0
	for i, z := range zs {
		if z < threshold {
			s.Frozen[i] = true
			count++
		}
	}
	return count
}

// small 3-vector helpers

func rowVec(m *mat.Dense, i int) [3]float64 {
	return [3]float64{m.At(i, 0), m.At(i, 1), m.At(i, 2)}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func norm(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func add(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func scale(a [3]float64, f float64) [3]float64 { return [3]float64{a[0] * f, a[1] * f, a[2] * f} }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func gcd3(v [3]int) int {
	return gcd(gcd(abs(v[0]), abs(v[1])), abs(v[2]))
}

// extGCD returns x, y with a*x + b*y = gcd(a, b).
func extGCD(a, b int) (int, int) {
	if b == 0 {
		return 1, 0
	}
	x, y := extGCD(b, a%b)
	return y, x - (a/b)*y
}
