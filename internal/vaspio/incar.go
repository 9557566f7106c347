package vaspio

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsereda/SiliconToPhonopy/internal/apperr"
	"github.com/tsereda/SiliconToPhonopy/internal/structure"
)

// formatValue renders a tag value in INCAR syntax. Booleans become
// .TRUE./.FALSE.; slices are space-joined.
func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return ".TRUE."
		}
		return ".FALSE."
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case []int:
		parts := make([]string, len(t))
		for i, x := range t {
			parts[i] = strconv.Itoa(x)
		}
		return strings.Join(parts, " ")
	case []float64:
		parts := make([]string, len(t))
		for i, x := range t {
			parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func valueLen(v any) int {
	switch t := v.(type) {
	case []int:
		return len(t)
	case []float64:
		return len(t)
	default:
		return 1
	}
}

// orderedTags sorts tags into the recognized order; unknown tags follow
// alphabetically.
func orderedTags(tags map[string]any) []string {
	rank := make(map[string]int, len(tagOrder))
	for i, t := range tagOrder {
		rank[t] = i
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// RenderINCAR produces the control-parameter block. Per-species array tags
// must carry exactly one value per species, in the species order of s; a
// mismatch would yield a syntactically valid but physically wrong input, so
// it is rejected outright.
func RenderINCAR(s *structure.Structure, ct CalcType, tags map[string]any) (string, error) {
	nSpecies := len(s.SpeciesOrder())
	for tag := range speciesArrayTags {
		v, ok := tags[tag]
		if !ok {
			continue
		}
		if n := valueLen(v); n != nSpecies {
			return "", fmt.Errorf("%s has %d values for %d species (order %s): %w",
				tag, n, nSpecies, strings.Join(s.SpeciesOrder(), " "), apperr.ErrInvalidParameter)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# VASP INCAR -- %s calculation\n\n", ct)
	for _, tag := range orderedTags(tags) {
		val := formatValue(tags[tag])
		if comment := tagComments[tag]; comment != "" {
			fmt.Fprintf(&b, "  %s = %s    # %s\n", tag, val, comment)
		} else {
			fmt.Fprintf(&b, "  %s = %s\n", tag, val)
		}
	}
	b.WriteString("\n")
	return b.String(), nil
}

// HubbardTags builds the LDAUL/LDAUU/LDAUJ arrays for a single corrected
// species, ordered by the shared species order of s. Every other species
// gets L=-1, U=J=0.
func HubbardTags(s *structure.Structure, metal string, u, j float64) (ldaul []int, ldauu, ldauj []float64) {
	for _, sp := range s.SpeciesOrder() {
		if sp == metal {
			ldaul = append(ldaul, 2)
			ldauu = append(ldauu, u)
			ldauj = append(ldauj, j)
		} else {
			ldaul = append(ldaul, -1)
			ldauu = append(ldauu, 0)
			ldauj = append(ldauj, 0)
		}
	}
	return ldaul, ldauu, ldauj
}

// MagmomString renders per-atom initial moments for the MAGMOM tag.
func MagmomString(magmoms []float64) string {
	parts := make([]string, len(magmoms))
	for i, m := range magmoms {
		parts[i] = strconv.FormatFloat(m, 'f', 1, 64)
	}
	return strings.Join(parts, " ")
}
