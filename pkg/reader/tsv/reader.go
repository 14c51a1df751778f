// Package tsv provides a streaming reader for tab-delimited text files
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

// maxLineLength bounds a single line; reporter ion rows can be wide
const maxLineLength = 16 * 1024 * 1024

// Reader provides streaming access to the non-blank lines of a tab-delimited file
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	lineNum int
	line    string
	fields  []string
	err     error
}

// NewReader creates a new reader over r
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	return &Reader{
		scanner: scanner,
	}
}

// Open opens path (optionally compressed) and returns a reader for it
func Open(path string) (*Reader, error) {
	f, err := core.OpenText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := NewReader(f)
	r.closer = f
	return r, nil
}

// Next advances to the next non-blank line. Returns false at end of input or on error.
func (r *Reader) Next() bool {
	r.line = ""
	r.fields = nil

	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Text()

		// Skip blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}

		r.line = line
		r.fields = strings.Split(line, "\t")
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("line %d: %w", r.lineNum+1, err)
	}
	return false
}

// Line returns the current line without its terminator
func (r *Reader) Line() string {
	return r.line
}

// Fields returns the tab-separated fields of the current line
func (r *Reader) Fields() []string {
	return r.fields
}

// LineNum returns the 1-based physical line number of the current line
func (r *Reader) LineNum() int {
	return r.lineNum
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// Close closes the underlying file, if the reader was created by Open
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
