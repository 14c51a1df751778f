package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingStatisticsFiles means neither the scan stats nor the SIC stats
	// file could be found for a dataset.
	ErrMissingStatisticsFiles = errors.New("missing MASIC statistics files")

	// ErrMissingMetadataFile means the Mage metadata file does not exist.
	ErrMissingMetadataFile = errors.New("missing Mage metadata file")

	// ErrMalformedMetadata means the Mage metadata file could not be used.
	ErrMalformedMetadata = errors.New("malformed Mage metadata file")

	// ErrRequiredColumnMissing means a header line lacks a required column.
	ErrRequiredColumnMissing = errors.New("required column missing")

	// ErrNoMergedJobs means no job in a Mage file had MASIC results.
	ErrNoMergedJobs = errors.New("no jobs were merged with MASIC results")
)

// ColumnError reports a required column missing from a file's header line.
type ColumnError struct {
	File   string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("file %s is missing column %s on the header line", e.File, e.Column)
}

// Unwrap allows errors.Is(err, ErrRequiredColumnMissing)
func (e *ColumnError) Unwrap() error {
	return ErrRequiredColumnMissing
}
