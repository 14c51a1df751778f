// Package mage reads the metadata file that accompanies a Mage Extractor results file
package mage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// Required metadata columns
const (
	JobColumn       = "Job"
	DatasetColumn   = "Dataset"
	DatasetIDColumn = "Dataset_ID"
)

// MetadataPath returns the metadata file expected next to a Mage results file:
// {dir}/{stem}_metadata.txt
func MetadataPath(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), stem+core.MetadataSuffix)
}

// ReadMetadata reads a job -> dataset map from a tab-delimited metadata file
// with Job, Dataset and Dataset_ID columns. Rows whose job or dataset ID is not
// numeric are skipped with a warning.
func ReadMetadata(path string) (map[int]core.DatasetInfo, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, core.ErrMissingMetadataFile)
		}
		return nil, fmt.Errorf("failed to stat metadata file: %w", err)
	}

	r, err := tsv.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	jobs := make(map[int]core.DatasetInfo)
	jobIdx, datasetIdx, datasetIDIdx := -1, -1, -1
	headerParsed := false

	for r.Next() {
		fields := r.Fields()

		if !headerParsed {
			for i, name := range fields {
				switch strings.TrimSpace(name) {
				case JobColumn:
					jobIdx = i
				case DatasetColumn:
					datasetIdx = i
				case DatasetIDColumn:
					datasetIDIdx = i
				}
			}

			for _, col := range []struct {
				name string
				idx  int
			}{{JobColumn, jobIdx}, {DatasetColumn, datasetIdx}, {DatasetIDColumn, datasetIDIdx}} {
				if col.idx < 0 {
					return nil, fmt.Errorf("%w: %s column not found in %s", core.ErrMalformedMetadata, col.name, path)
				}
			}
			headerParsed = true
			continue
		}

		if len(fields) <= max(jobIdx, datasetIdx, datasetIDIdx) {
			continue
		}

		job, err := strconv.Atoi(strings.TrimSpace(fields[jobIdx]))
		if err != nil {
			log.Warn().Str("line", r.Line()).Msg("Job number not numeric in metadata file")
			continue
		}

		datasetID, err := strconv.Atoi(strings.TrimSpace(fields[datasetIDIdx]))
		if err != nil {
			log.Warn().Str("line", r.Line()).Msg("Dataset_ID number not numeric in metadata file")
			continue
		}

		if _, exists := jobs[job]; exists {
			log.Warn().Int("job", job).Msg("Job listed more than once in metadata file; keeping the first entry")
			continue
		}

		jobs[job] = core.DatasetInfo{Name: fields[datasetIdx], ID: datasetID}
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no jobs defined in %s", core.ErrMalformedMetadata, path)
	}

	return jobs, nil
}
