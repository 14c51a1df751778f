package core

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextWriterUsesPlatformNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	w, err := CreateText(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteFields([]string{"a", "", "c"}))
	require.NoError(t, w.WriteLine("d"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\t\tc"+Newline+"d"+Newline, string(data))
}

func TestOpenTextEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := OpenText(path)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenTextMissingFile(t *testing.T) {
	_, err := OpenText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, os.IsNotExist(err))
}
