package structure

import (
	"fmt"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
)

// VacancyInfo records what WithVacancy removed.
type VacancyInfo struct {
	RemovedSymbol   string     `json:"removed_symbol"`
	RemovedPosition [3]float64 `json:"removed_position"`
	RemovedIndex    int        `json:"removed_index"`
	AtomsPristine   int        `json:"n_atoms_pristine"`
	AtomsDefective  int        `json:"n_atoms_defective"`
}

// WithVacancy returns a copy of s with the first atom of the given element
// removed, leaving every other atom unchanged in order. The first-match rule
// is deterministic; no symmetry analysis is attempted.
func WithVacancy(s *Structure, element string) (*Structure, *VacancyInfo, error) {
	idx := -1
	for i, sym := range s.Symbols {
		if sym == element {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, fmt.Errorf("no %q atom in %s: %w", element, s.Formula(), apperr.ErrNotFound)
	}

	info := &VacancyInfo{
		RemovedSymbol:   s.Symbols[idx],
		RemovedPosition: s.Positions[idx],
		RemovedIndex:    idx,
		AtomsPristine:   s.NAtoms(),
		AtomsDefective:  s.NAtoms() - 1,
	}

	defective := s.Copy()
	defective.Symbols = append(defective.Symbols[:idx], defective.Symbols[idx+1:]...)
	defective.Positions = append(defective.Positions[:idx], defective.Positions[idx+1:]...)
	if defective.Frozen != nil {
		defective.Frozen = append(defective.Frozen[:idx], defective.Frozen[idx+1:]...)
	}
	if defective.Magmoms != nil {
		defective.Magmoms = append(defective.Magmoms[:idx], defective.Magmoms[idx+1:]...)
	}
	return defective, info, nil
}
