// Package core provides the shared data model used when merging MASIC
// statistics into peptide hit results.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Column names appended to the merged output
const (
	ElutionTimeColumn      = "ElutionTime"
	PeakWidthMinutesColumn = "PeakWidthMinutes"
)

// ScanStats holds the values read from one row of a _ScanStats.txt file.
// Measured values are stored as text so the number format never changes.
type ScanStats struct {
	ScanNumber        int
	ElutionTime       string
	ScanType          string
	TotalIonIntensity string
	BasePeakIntensity string
	BasePeakMZ        string

	// Populated from the _ReporterIons.txt file (or the FragMethod column)
	CollisionMode   string
	ReporterIonData string
}

// Fields returns the scan stats values in output column order.
func (s ScanStats) Fields() []string {
	return []string{
		s.ElutionTime,
		s.ScanType,
		s.TotalIonIntensity,
		s.BasePeakIntensity,
		s.BasePeakMZ,
	}
}

// ScanStatsHeaders returns the header names for the scan stats columns.
func ScanStatsHeaders() []string {
	return []string{
		ElutionTimeColumn,
		"ScanType",
		"TotalIonIntensity",
		"BasePeakIntensity",
		"BasePeakMZ",
	}
}

// SICStats holds the values read from one row of a _SICStats.txt file,
// keyed by the fragmentation scan that produced the PSM.
type SICStats struct {
	FragScanNumber         int
	OptimalScanNumber      string
	PeakMaxIntensity       string
	PeakSignalToNoiseRatio string
	FWHMInScans            string
	PeakArea               string
	ParentIonIntensity     string
	ParentIonMZ            string
	StatMomentsArea        string
	PeakScanStart          string
	PeakScanEnd            string
}

// Fields returns the SIC stats values in output column order
// (peak width is computed separately).
func (s SICStats) Fields() []string {
	return []string{
		s.OptimalScanNumber,
		s.PeakMaxIntensity,
		s.PeakSignalToNoiseRatio,
		s.FWHMInScans,
		s.PeakArea,
		s.ParentIonIntensity,
		s.ParentIonMZ,
		s.StatMomentsArea,
		s.PeakScanStart,
		s.PeakScanEnd,
	}
}

// SICStatsHeaders returns the header names for the SIC stats columns,
// including the trailing peak width column.
func SICStatsHeaders() []string {
	return []string{
		"Optimal_Scan_Number",
		"PeakMaxIntensity",
		"PeakSignalToNoiseRatio",
		"FWHMInScans",
		"PeakArea",
		"ParentIonIntensity",
		"ParentIonMZ",
		"StatMomentsArea",
		"PeakScanStart",
		"PeakScanEnd",
		PeakWidthMinutesColumn,
	}
}

// ScanStatsIndex maps scan number to scan stats.
type ScanStatsIndex map[int]ScanStats

// SICStatsIndex maps fragmentation scan number to SIC stats.
type SICStatsIndex map[int]SICStats

// Clone returns a copy of the index; records are values so the copy can be
// modified without touching the original.
func (idx ScanStatsIndex) Clone() ScanStatsIndex {
	out := make(ScanStatsIndex, len(idx))
	for scan, stats := range idx {
		out[scan] = stats
	}
	return out
}

// ElutionTime returns the elution time of a scan as a number.
func (idx ScanStatsIndex) ElutionTime(scan int) (float64, bool) {
	stats, ok := idx[scan]
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(stats.ElutionTime), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PeakWidth returns elution time of the end scan minus elution time of the
// start scan. Returns 0 if either scan cannot be parsed or is not in the index.
func (idx ScanStatsIndex) PeakWidth(startScan, endScan string) float64 {
	start, err := strconv.Atoi(strings.TrimSpace(startScan))
	if err != nil {
		return 0
	}
	end, err := strconv.Atoi(strings.TrimSpace(endScan))
	if err != nil {
		return 0
	}

	startTime, ok := idx.ElutionTime(start)
	if !ok {
		return 0
	}
	endTime, ok := idx.ElutionTime(end)
	if !ok {
		return 0
	}

	return endTime - startTime
}

// FormatPeakWidth formats a peak width with four digits after the decimal point
func FormatPeakWidth(width float64) string {
	return fmt.Sprintf("%.4f", width)
}

// BlankFields returns n empty fields, used to keep columns aligned when a
// scan has no statistics.
func BlankFields(n int) []string {
	if n <= 0 {
		return nil
	}
	return make([]string, n)
}
