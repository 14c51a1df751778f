package masic

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

// Data holds the MASIC statistics cached for one dataset
type Data struct {
	ScanStats          core.ScanStatsIndex
	SICStats           core.SICStatsIndex
	ReporterIonHeaders []string // nil when there is no _ReporterIons.txt file
}

// HasReporterIons reports whether reporter ion columns should be written
func (d *Data) HasReporterIons() bool {
	return len(d.ReporterIonHeaders) > 0
}

// LoadMASICData reads the MASIC files found in dir. The scan stats and SIC stats
// indices are complete when this returns. At least one of the two must be read,
// otherwise core.ErrMissingStatisticsFiles is returned.
func LoadMASICData(dir string, files core.MASICFiles) (*Data, error) {
	data := &Data{}
	var err error

	scanStatsPath := joinIfSet(dir, files.ScanStats)
	sicStatsPath := joinIfSet(dir, files.SICStats)
	if scanStatsPath == "" && sicStatsPath == "" {
		return nil, fmt.Errorf("no scan stats or SIC stats file in %s: %w", dir, core.ErrMissingStatisticsFiles)
	}

	var scanLoad, sicLoad LoadStats
	data.ScanStats, scanLoad, err = ReadScanStats(scanStatsPath)
	if err != nil {
		return nil, err
	}

	data.SICStats, sicLoad, err = ReadSICStats(sicStatsPath)
	if err != nil {
		return nil, err
	}

	// Reporter ions update collision mode on the scan stats records
	data.ReporterIonHeaders, err = ReadReporterIons(joinIfSet(dir, files.ReporterIons), data.ScanStats)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("scanStats", humanize.Comma(int64(scanLoad.Rows))).
		Str("sicStats", humanize.Comma(int64(sicLoad.Rows))).
		Bool("reporterIons", data.HasReporterIons()).
		Msg("Loaded MASIC data")

	return data, nil
}

func joinIfSet(dir, name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
