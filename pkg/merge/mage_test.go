package merge

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

// sicRow builds a 25 column _SICStats.txt row
func sicRow(fragScan, start, end string) string {
	fields := make([]string, 25)
	for i := range fields {
		fields[i] = "0"
	}
	fields[4] = fragScan
	fields[8] = start
	fields[9] = end
	return strings.Join(fields, "\t")
}

// writeMASIC writes scan and SIC stats for scans 100, 110 and 120
func writeMASIC(t *testing.T, dir, dataset string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, dataset+core.ScanStatsSuffix),
		scanStatsHeader,
		"1\t100\t12.5\t2\t1\t1\t1\t0\t0\t0",
		"1\t110\t12.0\t1\t1\t1\t1\t0\t0\t0",
		"1\t120\t13.0\t1\t1\t1\t1\t0\t0\t0",
	)
	writeFile(t, filepath.Join(dir, dataset+core.SICStatsSuffix),
		"Dataset\tParentIonIndex\tMZ\tSurveyScanNumber\tFragScanNumber",
		sicRow("100", "110", "120"),
	)
}

func TestMergeMageFile(t *testing.T) {
	dir := t.TempDir()
	writeMASIC(t, dir, "DS_A")

	writeFile(t, filepath.Join(dir, "Mage_metadata.txt"),
		"Job\tDataset\tDataset_ID",
		"10\tDS_A\t1",
		"11\tDS_Missing\t2",
	)
	input := writeFile(t, filepath.Join(dir, "Mage.txt"),
		"Job\tScan\tPeptide",
		"11\t100\tK.AAA.R",
		"10\t100\tK.PEPTIDE.R",
		"99\t100\tK.CCC.R",
	)

	out, err := MergeMageFile(input, dir, dir, FileOptions{ScanColumn: 2})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Mage_PlusSICStats.txt"), out)

	rows := readRows(t, out)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, []string{"Job", "Scan", "Peptide", "ElutionTime"}, header[:4])
	assert.Equal(t, "PeakWidthMinutes", header[len(header)-1])

	// Rows of jobs without MASIC data keep their place with blank columns
	assert.Equal(t, "11", rows[1][0])
	require.Len(t, rows[1], len(header))
	for _, f := range rows[1][3:] {
		assert.Empty(t, f)
	}

	assert.Equal(t, "10", rows[2][0])
	require.Len(t, rows[2], len(header))
	assert.Equal(t, "12.5", rows[2][3])
	assert.Equal(t, "1.0000", rows[2][len(header)-1])

	assert.Equal(t, "99", rows[3][0])
	assert.Len(t, rows[3], len(header))
}

func TestMergeMageFileNoJobsMerged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Mage_metadata.txt"),
		"Job\tDataset\tDataset_ID",
		"10\tDS_A\t1",
	)
	input := writeFile(t, filepath.Join(dir, "Mage.txt"),
		"Job\tScan\tPeptide",
		"10\t100\tK.PEPTIDE.R",
	)

	_, err := MergeMageFile(input, dir, dir, FileOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoMergedJobs))

	_, statErr := os.Stat(filepath.Join(dir, "Mage_PlusSICStats.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMergeMageFileErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "Mage.txt"), "Job\tScan", "10\t100")

	_, err := MergeMageFile(input, dir, dir, FileOptions{})
	assert.True(t, errors.Is(err, core.ErrMissingMetadataFile))

	writeFile(t, filepath.Join(dir, "NoJob_metadata.txt"), "Job\tDataset\tDataset_ID", "10\tDS_A\t1")
	noJob := writeFile(t, filepath.Join(dir, "NoJob.txt"), "Scan\tPeptide", "100\tK.A.R")

	_, err = MergeMageFile(noJob, dir, dir, FileOptions{})
	assert.True(t, errors.Is(err, core.ErrRequiredColumnMissing))
}
