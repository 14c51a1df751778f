package merge

import (
	"strings"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

// addons builds the MASIC columns appended to each PSM row. A block whose
// lookup misses is written as one empty field per header of that block.
type addons struct {
	scanStats    core.ScanStatsIndex
	sicStats     core.SICStatsIndex
	withSIC      bool
	reporterCols int
}

func newAddons(scanStats core.ScanStatsIndex, sicStats core.SICStatsIndex, withSIC bool, reporterHeaders []string) *addons {
	return &addons{
		scanStats:    scanStats,
		sicStats:     sicStats,
		withSIC:      withSIC,
		reporterCols: len(reporterHeaders),
	}
}

// headers returns the header names of the appended columns
func (a *addons) headers(reporterHeaders []string) []string {
	headers := core.ScanStatsHeaders()
	if a.withSIC {
		headers = append(headers, core.SICStatsHeaders()...)
	}
	return append(headers, reporterHeaders...)
}

// fields returns the appended columns for scan, and the scan's collision mode
func (a *addons) fields(scan int) ([]string, string) {
	rec, found := a.scanStats[scan]

	var out []string
	if found {
		out = append(out, rec.Fields()...)
	} else {
		out = append(out, core.BlankFields(len(core.ScanStatsHeaders()))...)
	}

	if a.withSIC {
		if sic, ok := a.sicStats[scan]; ok {
			out = append(out, sic.Fields()...)
			out = append(out, core.FormatPeakWidth(a.scanStats.PeakWidth(sic.PeakScanStart, sic.PeakScanEnd)))
		} else {
			out = append(out, core.BlankFields(len(core.SICStatsHeaders()))...)
		}
	}

	if a.reporterCols > 0 {
		switch {
		case !found || strings.TrimSpace(rec.CollisionMode) == "":
			out = append(out, core.BlankFields(a.reporterCols)...)
		case rec.ReporterIonData == "":
			// Collision mode taken from the FragMethod column; no reporter ion values
			out = append(out, rec.CollisionMode)
			out = append(out, core.BlankFields(a.reporterCols-1)...)
		default:
			out = append(out, rec.CollisionMode, rec.ReporterIonData)
		}
	}

	return out, rec.CollisionMode
}

// blanks returns empty fields for every appended column
func (a *addons) blanks() []string {
	n := len(core.ScanStatsHeaders()) + a.reporterCols
	if a.withSIC {
		n += len(core.SICStatsHeaders())
	}
	return core.BlankFields(n)
}
