package psm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

func TestDetectScanColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   int
	}{
		{"msgf syn", []string{"ResultID", "Scan", "FragMethod"}, 2},
		{"tsv scannum", []string{"#SpecFile", "SpecID", "ScanNum"}, 3},
		{"case-insensitive", []string{"a", "b", "c", "SCAN NUMBER"}, 4},
		{"with spaces", []string{" Scan # "}, 1},
		{"first match wins", []string{"x", "ScanNumber", "Scan"}, 2},
		{"not found keeps default", []string{"Peptide", "Protein"}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScanColumn(tt.header, 7))
		})
	}
}

func TestIsHeaderless(t *testing.T) {
	assert.True(t, IsHeaderless([]string{"1", "1234", "CID"}, 2))
	assert.False(t, IsHeaderless([]string{"ResultID", "Scan"}, 2))
	assert.False(t, IsHeaderless([]string{"1"}, 2))
	assert.False(t, IsHeaderless([]string{"1"}, 0))
}

func TestSyntheticHeader(t *testing.T) {
	assert.Equal(t, []string{"Column00", "Column01", "Column02"}, SyntheticHeader(3))
	assert.Len(t, SyntheticHeader(12), 12)
	assert.Equal(t, "Column11", SyntheticHeader(12)[11])
}

func TestResolveSchema(t *testing.T) {
	header := []string{"ScanNum", "Charge", "Peptide", "Protein", "SpecEValue", "ElutionTime", "PeakWidthMinutes"}
	cols, err := MSGFPlusSchema.Resolve("in.txt", header)
	require.NoError(t, err)

	assert.Equal(t, 0, cols.Index(ColScan))
	assert.Equal(t, 4, cols.Index(ColSpecEValue))
	assert.False(t, cols.Has(ColFragMethod))

	row := []string{"100", "2", "K.PEPTIDE.R", "ProtA", "1E-10", "12.5", "0.5000"}
	assert.Equal(t, 100, cols.Int(row, ColScan))
	assert.Equal(t, "ProtA", cols.Value(row, ColProtein))
	assert.Equal(t, "", cols.Value(row[:3], ColProtein))
	assert.Equal(t, "", cols.Value(row, ColFragMethod))
}

func TestCollisionModeSchema(t *testing.T) {
	cols, err := CollisionModeSchema.Resolve("in.txt", []string{"Scan", "fragmethod", "Peptide"})
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Index(ColFragMethod))
	assert.Equal(t, "HCD", cols.Value([]string{"100", "HCD", "K.A.R"}, ColFragMethod))

	cols, err = CollisionModeSchema.Resolve("in.txt", []string{"Scan", "Peptide"})
	require.NoError(t, err)
	assert.False(t, cols.Has(ColFragMethod))
}

func TestResolvePrefersFirstName(t *testing.T) {
	header := []string{"SpecEValue", "MSGFDB_SpecEValue", "Charge", "Peptide", "Protein", "ElutionTime", "PeakWidthMinutes"}
	cols, err := MSGFPlusSchema.Resolve("in.txt", header)
	require.NoError(t, err)
	assert.Equal(t, 1, cols.Index(ColSpecEValue))
}

func TestResolveMissingRequired(t *testing.T) {
	_, err := MSGFPlusSchema.Resolve("in.txt", []string{"Scan", "Charge", "Peptide", "ElutionTime", "PeakWidthMinutes"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRequiredColumnMissing))

	var colErr *core.ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Protein", colErr.Column)
}

func TestPrimarySequence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"K.PEPTIDE.R", "PEPTIDE"},
		{"-.PEPTIDE.-", "PEPTIDE"},
		{"K.PEPT*IDE.R", "PEPT*IDE"},
		{"KR.PEPTIDE.RS", "PEPTIDE"},
		{"PEPTIDE", "PEPTIDE"},
		{"K.PEPTIDE", "K.PEPTIDE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimarySequence(tt.in))
		})
	}
}

func TestSplitProteins(t *testing.T) {
	assert.Equal(t, []string{"ProtA", "ProtB"}, SplitProteins("ProtA; ProtB;"))
	assert.Nil(t, SplitProteins(""))
}
