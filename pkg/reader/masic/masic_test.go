package masic

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

const scanStatsHeader = "Dataset\tScanNumber\tScanTime\tScanType\tTotalIonIntensity\tBasePeakIntensity\tBasePeakMZ\tBasePeakSignalToNoiseRatio\tIonCount\tIonCountRaw"

const reporterHeader = "Dataset\tScanNumber\tCollision Mode\tParentIonMZ\tBasePeakIntensity\tBasePeakMZ\tReporterIonIntensityMax\tIon_126.128\tIon_127.125"

func writeLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// sicRow builds a 25 column _SICStats.txt row
func sicRow(fragScan, start, end string) string {
	fields := make([]string, 25)
	for i := range fields {
		fields[i] = "0"
	}
	fields[2] = "500.25"     // MZ
	fields[4] = fragScan     // FragScanNumber
	fields[5] = "101"        // OptimalPeakApexScanNumber
	fields[8] = start        // PeakScanStart
	fields[9] = end          // PeakScanEnd
	fields[11] = "1.5E+06"   // PeakMaxIntensity
	fields[12] = "25.3"      // PeakSignalToNoiseRatio
	fields[13] = "7"         // FWHMInScans
	fields[14] = "2.2E+07"   // PeakArea
	fields[15] = "1.1E+06"   // ParentIonIntensity
	fields[19] = "2.0E+07"   // StatMomentsArea
	return strings.Join(fields, "\t")
}

func TestReadScanStats(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "Dataset_ScanStats.txt",
		scanStatsHeader,
		"1\t100\t12.50\t2\t1.2E+07\t3.4E+05\t445.12\t10\t20\t30",
		"",
		"1\tabc\t12.60\t2\t1\t1\t1\t1\t1\t1",
		"1\t101\t12.70",
		"1\t102\t12.80\t1\t9.9E+06\t1.0E+05\t300.0001\t1\t1\t1",
	)

	index, stats, err := ReadScanStats(path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Zero(t, stats.Duplicates)
	require.Len(t, index, 2)

	rec := index[100]
	assert.Equal(t, 100, rec.ScanNumber)
	// Text is kept verbatim, including trailing zeros and exponent notation
	assert.Equal(t, []string{"12.50", "2", "1.2E+07", "3.4E+05", "445.12"}, rec.Fields())
	assert.Equal(t, "300.0001", index[102].BasePeakMZ)
	assert.Empty(t, rec.CollisionMode)
}

func TestReadScanStatsDuplicateKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "Dup_ScanStats.txt",
		scanStatsHeader,
		"1\t100\t12.5\t2\t1\t1\t1\t0\t0\t0",
		"1\t100\t99.9\t2\t1\t1\t1\t0\t0\t0",
	)

	index, stats, err := ReadScanStats(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, "12.5", index[100].ElutionTime)
}

func TestReadScanStatsEmptyPath(t *testing.T) {
	index, stats, err := ReadScanStats("")
	require.NoError(t, err)
	assert.Empty(t, index)
	assert.Zero(t, stats.Rows)
}

func TestReadScanStatsMissingFile(t *testing.T) {
	_, _, err := ReadScanStats(filepath.Join(t.TempDir(), "missing_ScanStats.txt"))
	assert.Error(t, err)
}

func TestReadSICStats(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "Dataset_SICStats.txt",
		"Dataset\tParentIonIndex\tMZ\tSurveyScanNumber\tFragScanNumber\tOptimalPeakApexScanNumber",
		sicRow("100", "95", "110"),
		sicRow("xyz", "1", "2"),
		"short\trow",
	)

	index, stats, err := ReadSICStats(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rows)
	require.Contains(t, index, 100)

	rec := index[100]
	assert.Equal(t, "101", rec.OptimalScanNumber)
	assert.Equal(t, "500.25", rec.ParentIonMZ)
	assert.Equal(t, "1.5E+06", rec.PeakMaxIntensity)
	assert.Equal(t, "25.3", rec.PeakSignalToNoiseRatio)
	assert.Equal(t, "7", rec.FWHMInScans)
	assert.Equal(t, "2.2E+07", rec.PeakArea)
	assert.Equal(t, "1.1E+06", rec.ParentIonIntensity)
	assert.Equal(t, "2.0E+07", rec.StatMomentsArea)
	assert.Equal(t, "95", rec.PeakScanStart)
	assert.Equal(t, "110", rec.PeakScanEnd)
}

func TestReadReporterIons(t *testing.T) {
	dir := t.TempDir()
	index := core.ScanStatsIndex{
		100: {ScanNumber: 100, ElutionTime: "12.5"},
		101: {ScanNumber: 101, ElutionTime: "12.6"},
	}
	path := writeLines(t, dir, "Dataset_ReporterIons.txt",
		reporterHeader,
		"1\t100\tHCD\t500.2\t1000\t126.1\t5000\t4000\t5000",
		"1\t999\tHCD\t500.2\t1000\t126.1\t5000\t1\t2",
	)

	headers, err := ReadReporterIons(path, index)
	require.NoError(t, err)
	assert.Equal(t, []string{"Collision Mode", "ReporterIonIntensityMax", "Ion_126.128", "Ion_127.125"}, headers)

	assert.Equal(t, "HCD", index[100].CollisionMode)
	assert.Equal(t, "5000\t4000\t5000", index[100].ReporterIonData)
	assert.Empty(t, index[101].CollisionMode)
	// Scans unknown to the scan stats are not added
	assert.NotContains(t, index, 999)
}

func TestReadReporterIonsShortHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeLines(t, dir, "Short_ReporterIons.txt", "Dataset\tScanNumber\tCollision Mode")

	headers, err := ReadReporterIons(path, core.ScanStatsIndex{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Collision Mode", "AdditionalReporterIonColumns"}, headers)
}

func TestLoadMASICData(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, dir, "DS_ScanStats.txt", scanStatsHeader, "1\t100\t12.5\t2\t1\t1\t1\t0\t0\t0")
	writeLines(t, dir, "DS_SICStats.txt", sicRow("100", "100", "100"))
	writeLines(t, dir, "DS_ReporterIons.txt", reporterHeader, "1\t100\tETD\t1\t1\t1\t7\t8\t9")

	data, err := LoadMASICData(dir, core.MASICFiles{
		ScanStats:    "DS_ScanStats.txt",
		SICStats:     "DS_SICStats.txt",
		ReporterIons: "DS_ReporterIons.txt",
	})
	require.NoError(t, err)
	assert.Len(t, data.ScanStats, 1)
	assert.Len(t, data.SICStats, 1)
	assert.True(t, data.HasReporterIons())
	assert.Equal(t, "ETD", data.ScanStats[100].CollisionMode)
}

func TestLoadMASICDataRequiresStats(t *testing.T) {
	_, err := LoadMASICData(t.TempDir(), core.MASICFiles{ReporterIons: "x_ReporterIons.txt"})
	assert.True(t, errors.Is(err, core.ErrMissingStatisticsFiles))
}
