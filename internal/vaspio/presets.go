// Package vaspio renders VASP input files (INCAR, POSCAR, KPOINTS) from a
// Structure and a named parameter preset, and parses OUTCAR results.
package vaspio

// CalcType names a parameter preset.
type CalcType string

const (
	CalcRelax    CalcType = "relax"
	CalcSCF      CalcType = "scf"
	CalcDFTPlusU CalcType = "dft_plus_u"
	CalcDFTD3    CalcType = "dft_d3"
	CalcPhonon   CalcType = "phonon"
)

// presets maps each calculation type to its INCAR tag template. Templates
// are never mutated; Preset() hands out copies that callers specialize.
var presets = map[CalcType]map[string]any{
	// Structural relaxation, ions + cell.
	CalcRelax: {
		"PREC":   "Accurate",
		"ENCUT":  520,
		"EDIFF":  1e-6,
		"EDIFFG": -0.01,
		"IBRION": 2,
		"ISIF":   3,
		"NSW":    100,
		"ISMEAR": 0,
		"SIGMA":  0.05,
		"LREAL":  "Auto",
		"LWAVE":  false,
		"LCHARG": false,
		"NELM":   200,
	},
	// Single-point SCF.
	CalcSCF: {
		"PREC":   "Accurate",
		"ENCUT":  520,
		"EDIFF":  1e-6,
		"IBRION": -1,
		"NSW":    0,
		"ISMEAR": 0,
		"SIGMA":  0.05,
		"LREAL":  "Auto",
		"LWAVE":  true,
		"LCHARG": true,
		"NELM":   200,
	},
	// DFT+U, Dudarev flavour. LDAUL/LDAUU/LDAUJ are set per species by
	// the workflow.
	CalcDFTPlusU: {
		"PREC":      "Accurate",
		"ENCUT":     520,
		"EDIFF":     1e-6,
		"EDIFFG":    -0.01,
		"IBRION":    2,
		"ISIF":      3,
		"NSW":       100,
		"ISMEAR":    0,
		"SIGMA":     0.05,
		"LREAL":     "Auto",
		"LWAVE":     false,
		"LCHARG":    false,
		"NELM":      200,
		"LDAU":      true,
		"LDAUTYPE":  2,
		"LDAUPRINT": 2,
	},
	// Grimme D3 dispersion correction with BJ damping.
	CalcDFTD3: {
		"PREC":   "Accurate",
		"ENCUT":  520,
		"EDIFF":  1e-6,
		"EDIFFG": -0.01,
		"IBRION": 2,
		"ISIF":   3,
		"NSW":    100,
		"ISMEAR": 0,
		"SIGMA":  0.05,
		"LREAL":  "Auto",
		"LWAVE":  false,
		"LCHARG": false,
		"NELM":   200,
		"IVDW":   12,
	},
	// Displaced-supercell force calculation, tight convergence.
	CalcPhonon: {
		"PREC":   "Accurate",
		"ENCUT":  520,
		"EDIFF":  1e-8,
		"IBRION": -1,
		"NSW":    0,
		"ISMEAR": 0,
		"SIGMA":  0.05,
		"LREAL":  false,
		"LWAVE":  false,
		"LCHARG": false,
		"NELM":   300,
	},
}

// tagOrder is the recognized ordering of INCAR tags in rendered output.
var tagOrder = []string{
	"PREC", "ENCUT", "EDIFF", "EDIFFG", "IBRION", "ISIF", "NSW",
	"ISMEAR", "SIGMA", "LREAL", "LWAVE", "LCHARG", "NELM",
	"ISPIN", "MAGMOM",
	"LDAU", "LDAUTYPE", "LDAUL", "LDAUU", "LDAUJ", "LDAUPRINT",
	"IVDW", "LDIPOL", "IDIPOL",
}

// speciesArrayTags are the per-species array tags whose value order must
// match the species order of the geometry file.
var speciesArrayTags = map[string]bool{
	"LDAUL": true,
	"LDAUU": true,
	"LDAUJ": true,
}

// tagComments explains each recognized tag for the tutorial output.
var tagComments = map[string]string{
	"PREC":      "Precision: Accurate gives good cutoff & FFT grid",
	"ENCUT":     "Plane-wave energy cutoff (eV).  Rule: 1.3x max ENMAX in POTCAR",
	"EDIFF":     "SCF energy convergence (eV).  1e-6 is standard",
	"EDIFFG":    "Ionic convergence.  Negative = force criterion (eV/A)",
	"IBRION":    "Relaxation algo: 2=CG, 1=quasi-Newton, -1=single point",
	"ISIF":      "Stress tensor: 3=relax all, 2=fix cell, 0=fix cell+volume",
	"NSW":       "Max number of ionic steps",
	"ISMEAR":    "Smearing: 0=Gaussian (insulator), 1=MP (metal), -5=tetrahedron",
	"SIGMA":     "Smearing width (eV).  Entropy term T*S should be < 1 meV/atom",
	"LREAL":     "Real-space projectors: Auto or False for small cells",
	"LWAVE":     "Write WAVECAR? True only if you need it for post-processing",
	"LCHARG":    "Write CHGCAR? True for DOS, band structure, Bader",
	"NELM":      "Max electronic (SCF) iterations",
	"LDAU":      "Activate on-site Coulomb correction (DFT+U)",
	"LDAUTYPE":  "DFT+U flavour: 2=Dudarev (U_eff = U - J)",
	"LDAUL":     "Angular momentum for +U: -1=off, 2=d-electrons, 3=f-electrons",
	"LDAUU":     "U parameter (eV) for each species",
	"LDAUJ":     "J parameter (eV) for each species",
	"LDAUPRINT": "Print occupancy matrices (2=verbose)",
	"IVDW":      "vdW correction: 11=D3(zero), 12=D3(BJ), 20=TS",
	"ISPIN":     "1=non-spin-polarized, 2=spin-polarized",
	"MAGMOM":    "Initial magnetic moments per atom",
	"LDIPOL":    "Dipole correction for asymmetric slabs",
	"IDIPOL":    "Dipole correction direction: 3 = along z (vacuum)",
}

// Preset returns a fresh copy of the named preset for per-invocation
// specialization, or false for an unknown name.
func Preset(ct CalcType) (map[string]any, bool) {
	base, ok := presets[ct]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	return out, true
}

// CalcTypes lists the recognized preset names.
func CalcTypes() []CalcType {
	return []CalcType{CalcRelax, CalcSCF, CalcDFTPlusU, CalcDFTD3, CalcPhonon}
}
