package psm

import "strings"

// PrimarySequence removes the prefix and suffix residues from a peptide
// written as "K.PEPTIDE.R". Modification symbols inside the sequence are kept.
// The peptide is returned unchanged when it has no flanking residues.
func PrimarySequence(peptide string) string {
	n := len(peptide)

	// Common case: single residue on both sides
	if n >= 4 && peptide[1] == '.' && peptide[n-2] == '.' {
		return peptide[2 : n-2]
	}

	first := strings.IndexByte(peptide, '.')
	last := strings.LastIndexByte(peptide, '.')
	if first < 0 || first == last {
		return peptide
	}
	return peptide[first+1 : last]
}

// SplitProteins splits a semicolon-delimited protein list, dropping empty names
func SplitProteins(value string) []string {
	var proteins []string
	for _, name := range strings.Split(value, ";") {
		if name = strings.TrimSpace(name); name != "" {
			proteins = append(proteins, name)
		}
	}
	return proteins
}
