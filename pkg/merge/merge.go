// Package merge appends MASIC statistics to peptide hit result files
package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/partition"
	"github.com/ChrisMcGann/sicmerge/pkg/psm"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/masic"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// DefaultDeleteDelay is the pause before empty output files are deleted
const DefaultDeleteDelay = 250 * time.Millisecond

// FileOptions controls a single merge pass
type FileOptions struct {
	// ScanColumn is the 1-based scan number column used when the header does
	// not name one
	ScanColumn int

	DeleteDelay time.Duration
}

// BaseName returns the input file name without its extension
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MergeFile streams the PSM file at psmPath once, appending the scan stats,
// SIC stats and reporter ion columns for each row's scan, and writes every row
// to the bucket chosen by plan. Buckets that receive no rows are deleted, unless
// all are empty, in which case the first is kept.
func MergeFile(psmPath string, data *masic.Data, plan *partition.Plan, opts FileOptions) (*core.ProcessedDataset, error) {
	scanColumn := opts.ScanColumn
	if scanColumn < 1 {
		scanColumn = core.DefaultScanColumn
	}

	r, err := tsv.Open(psmPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	writers := make([]*core.TextWriter, len(plan.Buckets))
	closeAll := func() {
		for _, w := range writers {
			if w != nil {
				w.Close()
			}
		}
	}

	for i, bucket := range plan.Buckets {
		if writers[i], err = core.CreateText(bucket.Path); err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to create the merged output file: %w", err)
		}
	}

	log.Info().Str("input", filepath.Base(psmPath)).Str("output", filepath.Base(plan.Buckets[0].Path)).
		Int("buckets", len(plan.Buckets)).Msg("Merging MASIC results")

	add := newAddons(plan.Index, data.SICStats, len(data.SICStats) > 0, data.ReporterIonHeaders)

	linesRead := 0
	skipped := 0
	for r.Next() {
		fields := r.Fields()
		linesRead++

		if linesRead == 1 {
			header := r.Line()
			if psm.IsHeaderless(fields, scanColumn) {
				header = strings.Join(psm.SyntheticHeader(len(fields)), "\t")
			} else {
				scanColumn = psm.DetectScanColumn(fields, scanColumn)
				log.Debug().Int("column", scanColumn).Msg("Scan number column")
				fields = nil
			}

			line := header + "\t" + strings.Join(add.headers(data.ReporterIonHeaders), "\t")
			for _, w := range writers {
				if err := w.WriteLine(line); err != nil {
					closeAll()
					return nil, err
				}
			}

			if fields == nil {
				continue
			}
		}

		if len(fields) < scanColumn {
			skipped++
			continue
		}
		scan, ok := psm.ParseScan(fields[scanColumn-1])
		if !ok {
			skipped++
			continue
		}

		values, mode := add.fields(scan)
		idx := plan.BucketFor(mode)
		if err := writers[idx].WriteLine(r.Line() + "\t" + strings.Join(values, "\t")); err != nil {
			closeAll()
			return nil, err
		}
		plan.Buckets[idx].Lines++
	}

	if err := r.Err(); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to read %s: %w", psmPath, err)
	}

	var closeErr error
	for _, w := range writers {
		if err := w.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to close %s: %w", w.Path(), err)
		}
	}
	if closeErr != nil {
		return nil, closeErr
	}

	if skipped > 0 {
		log.Debug().Int("rows", skipped).Msg("Skipped rows without a scan number")
	}

	processed := core.NewProcessedDataset(BaseName(psmPath))
	for _, bucket := range removeEmptyBuckets(plan.Buckets, opts.DeleteDelay) {
		processed.AddOutput(bucket.Label, bucket.Path)
	}

	total := 0
	for _, bucket := range plan.Buckets {
		total += bucket.Lines
	}
	log.Info().Str("rows", humanize.Comma(int64(total))).Int("files", len(processed.Outputs)).Msg("Merge complete")

	return processed, nil
}

// removeEmptyBuckets deletes the files of buckets that received no rows and
// returns the buckets that remain. The first bucket is kept when every bucket
// is empty. Delete errors are ignored.
func removeEmptyBuckets(buckets []*partition.Bucket, delay time.Duration) []*partition.Bucket {
	var kept, empty []*partition.Bucket
	for _, bucket := range buckets {
		if bucket.Lines > 0 {
			kept = append(kept, bucket)
		} else {
			empty = append(empty, bucket)
		}
	}

	if len(kept) == 0 && len(empty) > 0 {
		kept = append(kept, empty[0])
		empty = empty[1:]
	}
	if len(empty) == 0 {
		return kept
	}

	// Give the platform time to release the file handles
	if delay > 0 {
		time.Sleep(delay)
	}

	for _, bucket := range empty {
		log.Info().Str("file", filepath.Base(bucket.Path)).Msg("Deleting empty output file")
		_ = os.Remove(bucket.Path)
	}
	return kept
}
