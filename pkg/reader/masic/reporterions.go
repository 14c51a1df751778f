package masic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// Column positions in a _ReporterIons.txt file
const (
	reporterColScanNumber              = 1
	reporterColCollisionMode           = 2
	reporterColReporterIonIntensityMax = 6
)

// maxMissingScanWarnings limits warnings about reporter ion scans missing from the scan stats
const maxMissingScanWarnings = 10

// ReadReporterIons reads a _ReporterIons.txt file and stores the collision mode
// and reporter ion columns on the matching records of index.
//
// The returned headers are the collision mode column name followed by every
// column from ReporterIonIntensityMax onward; an empty path returns no headers.
func ReadReporterIons(path string, index core.ScanStatsIndex) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	r, err := tsv.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	log.Debug().Str("file", path).Msg("Reading reporter ions")

	var headers []string
	missing := 0
	linesRead := 0

	for r.Next() {
		fields := r.Fields()
		linesRead++

		if linesRead == 1 {
			if len(fields) >= reporterColReporterIonIntensityMax+1 {
				headers = append([]string{fields[reporterColCollisionMode]}, fields[reporterColReporterIonIntensityMax:]...)
			} else {
				// Not enough columns in the header line; this is unexpected
				headers = []string{"Collision Mode", "AdditionalReporterIonColumns"}
			}
		}

		if len(fields) < reporterColReporterIonIntensityMax+1 {
			continue
		}

		scanNumber, err := strconv.Atoi(strings.TrimSpace(fields[reporterColScanNumber]))
		if err != nil {
			continue
		}

		entry, ok := index[scanNumber]
		switch {
		case !ok:
			missing++
			if missing < maxMissingScanWarnings {
				log.Warn().Str("file", path).Int("scan", scanNumber).
					Msg("Reporter ion scan was not in the _ScanStats.txt file")
			} else if missing == maxMissingScanWarnings {
				log.Warn().Str("file", path).
					Msgf("%d or more reporter ion scans are not defined in the _ScanStats.txt file", maxMissingScanWarnings)
			}
		case entry.ScanNumber != scanNumber:
			// Should not happen for an index built by ReadScanStats
			log.Warn().Int("stored", entry.ScanNumber).Int("lookup", scanNumber).
				Msg("Scan number mismatch while reading reporter ions")
		default:
			entry.CollisionMode = fields[reporterColCollisionMode]
			entry.ReporterIonData = strings.Join(fields[reporterColReporterIonIntensityMax:], "\t")
			index[scanNumber] = entry
		}
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return headers, nil
}
