// Package masic reads the MASIC _ScanStats.txt, _SICStats.txt and
// _ReporterIons.txt files into scan-indexed lookup tables
package masic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// Column positions in a _ScanStats.txt file
const (
	scanStatsColDataset = iota
	scanStatsColScanNumber
	scanStatsColScanTime
	scanStatsColScanType
	scanStatsColTotalIonIntensity
	scanStatsColBasePeakIntensity
	scanStatsColBasePeakMZ
)

// maxDuplicateWarnings limits per-file duplicate scan warnings
const maxDuplicateWarnings = 10

// LoadStats summarizes one statistics file read
type LoadStats struct {
	Rows       int // records stored
	Duplicates int // rows skipped because the scan number was already stored
}

// ReadScanStats reads a _ScanStats.txt file into an index keyed by scan number.
// Short or unparseable lines (including the header) are skipped. A repeated scan
// number keeps the first record and is counted as a duplicate.
// An empty path yields an empty index.
func ReadScanStats(path string) (core.ScanStatsIndex, LoadStats, error) {
	index := make(core.ScanStatsIndex)
	var stats LoadStats

	if path == "" {
		return index, stats, nil
	}

	r, err := tsv.Open(path)
	if err != nil {
		return nil, stats, err
	}
	defer r.Close()

	log.Debug().Str("file", path).Msg("Reading scan stats")

	for r.Next() {
		fields := r.Fields()
		if len(fields) < scanStatsColBasePeakMZ+1 {
			continue
		}

		scanNumber, err := strconv.Atoi(strings.TrimSpace(fields[scanStatsColScanNumber]))
		if err != nil {
			continue
		}

		if _, exists := index[scanNumber]; exists {
			stats.Duplicates++
			warnDuplicate(path, scanNumber, r.LineNum(), stats.Duplicates)
			continue
		}

		// Values are stored as text to preserve the original number format
		index[scanNumber] = core.ScanStats{
			ScanNumber:        scanNumber,
			ElutionTime:       fields[scanStatsColScanTime],
			ScanType:          fields[scanStatsColScanType],
			TotalIonIntensity: fields[scanStatsColTotalIonIntensity],
			BasePeakIntensity: fields[scanStatsColBasePeakIntensity],
			BasePeakMZ:        fields[scanStatsColBasePeakMZ],
		}
		stats.Rows++
	}

	if err := r.Err(); err != nil {
		return nil, stats, fmt.Errorf("error reading %s: %w", path, err)
	}

	return index, stats, nil
}

func warnDuplicate(path string, scanNumber, lineNum, count int) {
	if count < maxDuplicateWarnings {
		log.Warn().Str("file", path).Int("scan", scanNumber).Int("line", lineNum).
			Msg("Duplicate scan number; keeping the first entry")
	} else if count == maxDuplicateWarnings {
		log.Warn().Str("file", path).
			Msgf("%d or more duplicate scan numbers; further duplicates will not be reported", maxDuplicateWarnings)
	}
}
