package vaspio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

// FileSet is one calculation's rendered input files.
type FileSet struct {
	INCAR     string `json:"incar"`
	POSCAR    string `json:"poscar"`
	KPOINTS   string `json:"kpoints"`
	PotcarRef string `json:"potcar_reference"`
}

// InputSet binds a structure to a calculation preset plus overrides. Presets
// are copied at construction; the template is never mutated.
type InputSet struct {
	Structure     *structure.Structure
	CalcType      CalcType
	Tags          map[string]any
	KPointDensity float64
	PotcarMap     map[string]string
}

// NewInputSet merges the named preset with overrides. Unknown calc types are
// InvalidParameter.
func NewInputSet(s *structure.Structure, ct CalcType, overrides map[string]any, kpointDensity float64) (*InputSet, error) {
	tags, ok := Preset(ct)
	if !ok {
		return nil, fmt.Errorf("unknown calc type %q (recognized: %v): %w",
			ct, CalcTypes(), apperr.ErrInvalidParameter)
	}
	if kpointDensity <= 0 {
		return nil, fmt.Errorf("k-point density must be positive, got %g: %w",
			kpointDensity, apperr.ErrInvalidParameter)
	}
	for k, v := range overrides {
		tags[k] = v
	}
	return &InputSet{
		Structure:     s,
		CalcType:      ct,
		Tags:          tags,
		KPointDensity: kpointDensity,
	}, nil
}

// Render produces all three text blocks plus the pseudopotential reference.
// Either every block renders, or none does.
func (is *InputSet) Render() (*FileSet, error) {
	incar, err := RenderINCAR(is.Structure, is.CalcType, is.Tags)
	if err != nil {
		return nil, err
	}
	return &FileSet{
		INCAR:     incar,
		POSCAR:    RenderPOSCAR(is.Structure),
		KPOINTS:   RenderKPOINTS(is.Structure, is.KPointDensity),
		PotcarRef: is.renderPotcarRef(),
	}, nil
}

// renderPotcarRef lists the pseudopotentials to concatenate, in the species
// order of the geometry file. Actual POTCAR files are licensed and never
// generated here.
func (is *InputSet) renderPotcarRef() string {
	order := is.Structure.SpeciesOrder()
	var b strings.Builder
	b.WriteString("# POTCAR reference -- you must supply your own POTCAR from\n")
	b.WriteString("# your VASP pseudopotential library.\n")
	b.WriteString("#\n")
	b.WriteString("# Concatenate in this order:\n")
	b.WriteString("#   cat POT1 POT2 ... > POTCAR\n")
	b.WriteString("#\n")
	b.WriteString("# Recommended variants (PBE):\n")
	for _, sp := range order {
		variant := sp
		if v, ok := is.PotcarMap[sp]; ok {
			variant = v
		}
		fmt.Fprintf(&b, "#   %s  ->  %s\n", sp, variant)
	}
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Species order in POSCAR: %s\n", strings.Join(order, " "))
	return b.String()
}

// Explain returns the human-readable walk-through of every tag in the set.
func (is *InputSet) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== INCAR explanation for '%s' calculation ===\n\n", is.CalcType)
	for _, tag := range orderedTags(is.Tags) {
		comment := tagComments[tag]
		if comment == "" {
			comment = "(no description)"
		}
		fmt.Fprintf(&b, "  %s = %s\n", tag, formatValue(is.Tags[tag]))
		fmt.Fprintf(&b, "    -> %s\n\n", comment)
	}
	return b.String()
}

// calcInfo is the machine-readable sidecar written next to the input files.
type calcInfo struct {
	CalcType CalcType          `json:"calc_type"`
	Formula  string            `json:"formula"`
	NAtoms   int               `json:"n_atoms"`
	KPoints  [3]int            `json:"kpoints"`
	Tags     map[string]string `json:"incar_tags"`
}

// WriteAll writes INCAR, POSCAR, KPOINTS, POTCAR_REFERENCE, and a JSON
// summary into dir, creating it if needed. Returns the written paths.
func (is *InputSet) WriteAll(dir string) (map[string]string, error) {
	fs, err := is.Render()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	tags := make(map[string]string, len(is.Tags))
	for k, v := range is.Tags {
		tags[k] = formatValue(v)
	}
	meta, err := json.MarshalIndent(calcInfo{
		CalcType: is.CalcType,
		Formula:  is.Structure.Formula(),
		NAtoms:   is.Structure.NAtoms(),
		KPoints:  AutoKPoints(is.Structure, is.KPointDensity),
		Tags:     tags,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal calc info: %w", err)
	}

	files := map[string]string{
		"INCAR":            fs.INCAR,
		"POSCAR":           fs.POSCAR,
		"KPOINTS":          fs.KPOINTS,
		"POTCAR_REFERENCE": fs.PotcarRef,
		"calc_info.json":   string(meta) + "\n",
	}
	paths := make(map[string]string, len(files))
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths[name] = p
	}
	return paths, nil
}
