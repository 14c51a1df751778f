package core

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/shenwei356/xopen"
)

// Newline is the platform line terminator used for all output files
var Newline = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// OpenText opens a (possibly compressed) text file for reading.
// An empty file yields an empty reader.
func OpenText(path string) (io.ReadCloser, error) {
	if path != "-" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() == 0 {
			return io.NopCloser(strings.NewReader("")), nil
		}
	}

	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// TextWriter writes tab-delimited lines using the platform newline
type TextWriter struct {
	w    *xopen.Writer
	path string
}

// CreateText creates (or truncates) a text file for writing.
// Paths ending in .gz are compressed.
func CreateText(path string) (*TextWriter, error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &TextWriter{w: w, path: path}, nil
}

// WriteLine writes line followed by the platform newline
func (t *TextWriter) WriteLine(line string) error {
	if _, err := t.w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.path, err)
	}
	if _, err := t.w.WriteString(Newline); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.path, err)
	}
	return nil
}

// WriteFields writes the fields joined by tabs
func (t *TextWriter) WriteFields(fields []string) error {
	return t.WriteLine(strings.Join(fields, "\t"))
}

// Path returns the file path being written
func (t *TextWriter) Path() string {
	return t.path
}

// Close flushes and closes the file
func (t *TextWriter) Close() error {
	return t.w.Close()
}
