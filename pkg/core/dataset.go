package core

import (
	"strings"
)

// File name suffixes used by MASIC and by this tool
const (
	ScanStatsSuffix    = "_ScanStats.txt"
	SICStatsSuffix     = "_SICStats.txt"
	ReporterIonsSuffix = "_ReporterIons.txt"
	ResultsSuffix      = "_PlusSICStats.txt"
	DartIDSuffix       = "_ForDartID.txt"
	MetadataSuffix     = "_metadata.txt"
)

// DefaultScanColumn is the 1-based column that holds the scan number when
// the input file has no recognizable header.
const DefaultScanColumn = 2

// Collision mode labels
const (
	// CollisionModeUndefined keys an output file that was not split by collision mode
	CollisionModeUndefined = "Collision_Mode_Not_Defined"
	// CollisionModeNA labels the bucket for scans without a collision mode
	CollisionModeNA = "na"
)

// DatasetInfo identifies a dataset by name and (optionally) numeric ID.
type DatasetInfo struct {
	Name string
	ID   int // 0 if unknown
}

// MASICFiles holds the names of the MASIC files found for a dataset.
// Any of the names may be empty.
type MASICFiles struct {
	ScanStats    string
	SICStats     string
	ReporterIons string
}

// OutputFile is one merged output file and the collision mode it holds.
type OutputFile struct {
	CollisionMode string
	Path          string
}

// ProcessedDataset records the output files written for one input file.
type ProcessedDataset struct {
	BaseName string
	Outputs  []OutputFile
}

// NewProcessedDataset creates an empty record for baseName
func NewProcessedDataset(baseName string) *ProcessedDataset {
	return &ProcessedDataset{BaseName: baseName}
}

// AddOutput records an output file. An empty collision mode is stored as
// CollisionModeUndefined.
func (p *ProcessedDataset) AddOutput(collisionMode, path string) {
	if collisionMode == "" {
		collisionMode = CollisionModeUndefined
	}
	p.Outputs = append(p.Outputs, OutputFile{CollisionMode: collisionMode, Path: path})
}

// TrimSuffixFold removes suffix from s, ignoring case.
func TrimSuffixFold(s, suffix string) (string, bool) {
	if len(s) < len(suffix) {
		return s, false
	}
	if !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}
