package vaspio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

// OutcarSummary collects the quantities students check after a run.
type OutcarSummary struct {
	TotalEnergy   *float64 `json:"total_energy_eV,omitempty"`
	EnergySigma0  *float64 `json:"energy_sigma0_eV,omitempty"`
	Converged     bool     `json:"converged"`
	Magnetization *float64 `json:"magnetization,omitempty"`
	MaxForce      *float64 `json:"max_force_eV_per_A,omitempty"`
	NAtoms        int      `json:"n_atoms,omitempty"`
}

// OutcarParser reads result quantities out of a completed calculation
// directory. It is a lightweight line scanner, not a full OUTCAR model.
type OutcarParser struct {
	Dir string
}

func (p *OutcarParser) lines() ([]string, error) {
	path := filepath.Join(p.Dir, "OUTCAR")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("OUTCAR in %s: %w", p.Dir, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return strings.Split(string(data), "\n"), nil
}

// TotalEnergy returns the final free-energy TOTEN, or nil if absent.
func (p *OutcarParser) TotalEnergy() (*float64, error) {
	lines, err := p.lines()
	if err != nil {
		return nil, err
	}
	var energy *float64
	for _, line := range lines {
		if strings.Contains(line, "free  energy   TOTEN") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			if v, err := strconv.ParseFloat(fields[len(fields)-2], 64); err == nil {
				e := v
				energy = &e
			}
		}
	}
	return energy, nil
}

// EnergySigma0 returns the final energy(sigma->0), the preferred total
// energy for insulators.
func (p *OutcarParser) EnergySigma0() (*float64, error) {
	lines, err := p.lines()
	if err != nil {
		return nil, err
	}
	var energy *float64
	for _, line := range lines {
		if !strings.Contains(line, "energy  without entropy") {
			continue
		}
		parts := strings.Split(line, "energy(sigma->0) =")
		if len(parts) != 2 {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			e := v
			energy = &e
		}
	}
	return energy, nil
}

// Forces returns the last TOTAL-FORCE block, one (fx,fy,fz) per atom, or nil
// when no block is present.
func (p *OutcarParser) Forces() ([][3]float64, error) {
	lines, err := p.lines()
	if err != nil {
		return nil, err
	}
	// Find the last force block header, then collect until the closing
	// separator.
	start := -1
	for i, line := range lines {
		if strings.Contains(line, "TOTAL-FORCE") {
			start = i
		}
	}
	if start < 0 {
		return nil, nil
	}
	var forces [][3]float64
	for _, line := range lines[start+1:] {
		if strings.Contains(line, "---") {
			if len(forces) > 0 {
				break
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			break
		}
		var f [3]float64
		ok := true
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[3+j], 64)
			if err != nil {
				ok = false
				break
			}
			f[j] = v
		}
		if !ok {
			break
		}
		forces = append(forces, f)
	}
	return forces, nil
}

// Converged reports whether the ionic relaxation reached the requested
// accuracy.
func (p *OutcarParser) Converged() (bool, error) {
	lines, err := p.lines()
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if strings.Contains(line, "reached required accuracy") {
			return true, nil
		}
	}
	return false, nil
}

// Magnetization returns the final total magnetization, or nil if absent.
func (p *OutcarParser) Magnetization() (*float64, error) {
	lines, err := p.lines()
	if err != nil {
		return nil, err
	}
	var mag *float64
	for _, line := range lines {
		if !strings.Contains(line, "number of electron") || !strings.Contains(line, "magnetization") {
			continue
		}
		parts := strings.Split(line, "magnetization")
		if len(parts) != 2 {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			m := v
			mag = &m
		}
	}
	return mag, nil
}

// Summary gathers everything parseable from the directory.
func (p *OutcarParser) Summary() (*OutcarSummary, error) {
	out := &OutcarSummary{}
	var err error
	if out.TotalEnergy, err = p.TotalEnergy(); err != nil {
		return nil, err
	}
	out.EnergySigma0, _ = p.EnergySigma0()
	out.Converged, _ = p.Converged()
	out.Magnetization, _ = p.Magnetization()
	forces, _ := p.Forces()
	if len(forces) > 0 {
		maxF := 0.0
		for _, f := range forces {
			for _, c := range f {
				if a := absFloat(c); a > maxF {
					maxF = a
				}
			}
		}
		out.MaxForce = &maxF
		out.NAtoms = len(forces)
	}
	return out, nil
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
