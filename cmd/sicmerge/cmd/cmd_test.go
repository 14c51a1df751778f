package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_syn.txt", "b_syn.txt", "c_fht.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := expandInputs([]string{filepath.Join(dir, "*_syn.txt"), "plain.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_syn.txt"),
		filepath.Join(dir, "b_syn.txt"),
		"plain.txt",
	}, got)

	got, err = expandInputs([]string{filepath.Join(dir, "*.none")})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = expandInputs([]string{"[bad"})
	assert.Error(t, err)
}

func TestProcessedFromFiles(t *testing.T) {
	records := processedFromFiles([]string{
		"/data/QC_Shew_msgfplus_syn_PlusSICStats.txt",
		"/data/Other.tsv",
	})
	require.Len(t, records, 2)
	assert.Equal(t, "QC_Shew_msgfplus_syn", records[0].BaseName)
	assert.Equal(t, "Other", records[1].BaseName)
	require.Len(t, records[0].Outputs, 1)
	assert.Equal(t, "/data/QC_Shew_msgfplus_syn_PlusSICStats.txt", records[0].Outputs[0].Path)
}
