package sqlite

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolOrdersRows(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSpool(dir)
	require.NoError(t, err)

	rows := []struct {
		scan   int
		charge int
		seq    string
		line   string
	}{
		{51, 2, "PEPTIDE", "d"},
		{50, 2, "PEPTIDE", "a"},
		{50, 3, "PEPTIDE", "c"},
		{50, 2, "PEPTIDE", "b"},
		{50, 2, "APEPTIDE", "0"},
	}
	for _, r := range rows {
		require.NoError(t, s.Add(r.scan, r.charge, r.seq, r.line))
	}
	assert.Equal(t, 5, s.Len())

	var got []string
	require.NoError(t, s.Each(func(line string) error {
		got = append(got, line)
		return nil
	}))
	assert.Equal(t, []string{"0", "a", "b", "c", "d"}, got)

	assert.Error(t, s.Add(1, 1, "X", "late"))

	require.NoError(t, s.Close())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSpoolCloseWithoutEach(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSpool(dir)
	require.NoError(t, err)
	require.NoError(t, s.Add(1, 2, "PEPTIDE", "row"))
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
