// Package psm handles the header line and columns of peptide-spectrum match files
package psm

import (
	"fmt"
	"strconv"
	"strings"
)

// ScanColumnNames are the header names recognized as holding the scan number
var ScanColumnNames = []string{
	"Scan",
	"ScanNum",
	"Scan Num",
	"ScanNumber",
	"Scan Number",
	"Scan#",
	"Scan #",
}

// FragMethodColumn holds the fragmentation method in MS-GF+ results
const FragMethodColumn = "FragMethod"

// ParseScan parses a scan number field
func ParseScan(value string) (int, bool) {
	scan, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return scan, true
}

// IsHeaderless reports whether the first line of a file is data rather than
// a header: the 1-based scanColumn exists and holds an integer.
func IsHeaderless(fields []string, scanColumn int) bool {
	if scanColumn < 1 || scanColumn > len(fields) {
		return false
	}
	_, ok := ParseScan(fields[scanColumn-1])
	return ok
}

// DetectScanColumn returns the 1-based position of the first header field
// that names a scan column, or defaultColumn when none does.
func DetectScanColumn(header []string, defaultColumn int) int {
	for i, name := range header {
		name = strings.TrimSpace(name)
		for _, candidate := range ScanColumnNames {
			if strings.EqualFold(name, candidate) {
				return i + 1
			}
		}
	}
	return defaultColumn
}

// SyntheticHeader returns Column00, Column01, ... for a headerless file with n columns
func SyntheticHeader(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = fmt.Sprintf("Column%02d", i)
	}
	return header
}

// FindColumn returns the 0-based index of name in header (case-insensitive), or -1
func FindColumn(header []string, name string) int {
	for i, field := range header {
		if strings.EqualFold(strings.TrimSpace(field), name) {
			return i
		}
	}
	return -1
}
