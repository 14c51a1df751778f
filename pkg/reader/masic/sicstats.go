package masic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// Column positions in a _SICStats.txt file
const (
	sicColMZ                        = 2
	sicColFragScanNumber            = 4
	sicColOptimalPeakApexScanNumber = 5
	sicColPeakScanStart             = 8
	sicColPeakScanEnd               = 9
	sicColPeakMaxIntensity          = 11
	sicColPeakSignalToNoiseRatio    = 12
	sicColFWHMInScans               = 13
	sicColPeakArea                  = 14
	sicColParentIonIntensity        = 15
	sicColStatMomentsArea           = 19
)

// ReadSICStats reads a _SICStats.txt file into an index keyed by
// fragmentation scan number. Same skipping and duplicate rules as ReadScanStats.
func ReadSICStats(path string) (core.SICStatsIndex, LoadStats, error) {
	index := make(core.SICStatsIndex)
	var stats LoadStats

	if path == "" {
		return index, stats, nil
	}

	r, err := tsv.Open(path)
	if err != nil {
		return nil, stats, err
	}
	defer r.Close()

	log.Debug().Str("file", path).Msg("Reading SIC stats")

	for r.Next() {
		fields := r.Fields()
		if len(fields) < sicColStatMomentsArea+1 {
			continue
		}

		fragScanNumber, err := strconv.Atoi(strings.TrimSpace(fields[sicColFragScanNumber]))
		if err != nil {
			continue
		}

		if _, exists := index[fragScanNumber]; exists {
			stats.Duplicates++
			warnDuplicate(path, fragScanNumber, r.LineNum(), stats.Duplicates)
			continue
		}

		index[fragScanNumber] = core.SICStats{
			FragScanNumber:         fragScanNumber,
			OptimalScanNumber:      fields[sicColOptimalPeakApexScanNumber],
			PeakMaxIntensity:       fields[sicColPeakMaxIntensity],
			PeakSignalToNoiseRatio: fields[sicColPeakSignalToNoiseRatio],
			FWHMInScans:            fields[sicColFWHMInScans],
			PeakArea:               fields[sicColPeakArea],
			ParentIonIntensity:     fields[sicColParentIonIntensity],
			ParentIonMZ:            fields[sicColMZ],
			StatMomentsArea:        fields[sicColStatMomentsArea],
			PeakScanStart:          fields[sicColPeakScanStart],
			PeakScanEnd:            fields[sicColPeakScanEnd],
		}
		stats.Rows++
	}

	if err := r.Err(); err != nil {
		return nil, stats, fmt.Errorf("error reading %s: %w", path, err)
	}

	return index, stats, nil
}
