package tsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSkipsBlankLines(t *testing.T) {
	input := "a\tb\n\n   \nc\t\td\r\n"
	r := NewReader(strings.NewReader(input))

	var lines [][]string
	var lineNums []int
	for r.Next() {
		lines = append(lines, r.Fields())
		lineNums = append(lineNums, r.LineNum())
	}
	require.NoError(t, r.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, []string{"a", "b"}, lines[0])
	assert.Equal(t, []string{"c", "", "d"}, lines[1])
	assert.Equal(t, []int{1, 4}, lineNums)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestOpenReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("h1\th2\n1\t2\n"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Next())
	assert.Equal(t, "h1\th2", r.Line())
	require.True(t, r.Next())
	assert.Equal(t, []string{"1", "2"}, r.Fields())
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}
