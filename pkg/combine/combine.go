// Package combine merges the per-dataset outputs of several inputs into one
// table per collision mode, tagging each row with a numeric dataset ID
package combine

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
	"github.com/ChrisMcGann/sicmerge/pkg/reader/tsv"
)

// MergedPrefix starts the name of every combined output file
const MergedPrefix = "MergedData_"

// DatasetMapSuffix ends the name of the dataset ID map file
const DatasetMapSuffix = "_DatasetMap.txt"

// CommonPrefix shortens name to the characters it shares with candidate,
// ignoring case. The name is only shortened when more than one character is
// shared; it is then cut back to its last underscore when that underscore is
// at index 4 or later.
func CommonPrefix(name, candidate string) string {
	if name == "" {
		return candidate
	}

	// common is a byte offset into name; shared counts runes
	common, shared := 0, 0
	rest := candidate
	for common < len(name) {
		r, nameSize := utf8.DecodeRuneInString(name[common:])
		c, size := utf8.DecodeRuneInString(rest)
		if size == 0 || !strings.EqualFold(string(r), string(c)) {
			break
		}
		common += nameSize
		rest = rest[size:]
		shared++
	}

	if shared <= 1 {
		return name
	}

	name = name[:common]
	if idx := strings.LastIndex(name, "_"); idx >= 4 {
		name = name[:idx]
	}
	return name
}

// OutputName returns MergedData_{prefix}[_{mode}]_PlusSICStats.txt
func OutputName(prefix, mode string) string {
	if mode == core.CollisionModeUndefined {
		return MergedPrefix + prefix + core.ResultsSuffix
	}
	return MergedPrefix + prefix + "_" + mode + core.ResultsSuffix
}

// MergeProcessedDatasets writes one MergedData file per collision mode into
// outDir, holding the rows of every record's output for that mode prefixed with
// the record's dataset ID, plus a DatasetID -> DatasetName map file. Dataset IDs
// are assigned from 1 in first-seen order. Fewer than two records is a no-op.
func MergeProcessedDatasets(records []*core.ProcessedDataset, outDir string) error {
	if len(records) <= 1 {
		log.Info().Msg("Only one dataset has been processed; nothing to merge")
		return nil
	}

	prefix := ""
	modeSet := make(map[string]bool)
	ids := make(map[string]int)
	var names []string

	for _, rec := range records {
		for _, out := range rec.Outputs {
			modeSet[out.CollisionMode] = true
		}
		if _, ok := ids[rec.BaseName]; !ok {
			ids[rec.BaseName] = len(ids) + 1
			names = append(names, rec.BaseName)
		}
		prefix = CommonPrefix(prefix, rec.BaseName)
	}

	if len(modeSet) == 0 {
		log.Error().Msg("None of the processed datasets had any output files")
	}

	modes := make([]string, 0, len(modeSet))
	for mode := range modeSet {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	if err := writeDatasetMap(filepath.Join(outDir, MergedPrefix+prefix+DatasetMapSuffix), names); err != nil {
		return err
	}

	for _, mode := range modes {
		path := filepath.Join(outDir, OutputName(prefix, mode))
		if err := mergeMode(path, mode, records, ids); err != nil {
			return err
		}
	}

	return nil
}

func writeDatasetMap(path string, names []string) error {
	w, err := core.CreateText(path)
	if err != nil {
		return err
	}

	if err := w.WriteFields([]string{"DatasetID", "DatasetName"}); err != nil {
		w.Close()
		return err
	}
	for i, name := range names {
		if err := w.WriteFields([]string{strconv.Itoa(i + 1), name}); err != nil {
			w.Close()
			return err
		}
	}

	return w.Close()
}

// mergeMode concatenates every source file for one collision mode
func mergeMode(path, mode string, records []*core.ProcessedDataset, ids map[string]int) error {
	w, err := core.CreateText(path)
	if err != nil {
		return err
	}

	headerWritten := false
	rows := 0
	for _, rec := range records {
		id := strconv.Itoa(ids[rec.BaseName])
		for _, out := range rec.Outputs {
			if out.CollisionMode != mode {
				continue
			}

			n, err := appendSource(w, out.Path, id, &headerWritten)
			if err != nil {
				w.Close()
				return err
			}
			rows += n
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	log.Info().Str("file", filepath.Base(path)).Str("rows", humanize.Comma(int64(rows))).Msg("Wrote merged data")
	return nil
}

// appendSource copies one source file into w with a DatasetID column. A missing
// source is skipped with a warning.
func appendSource(w *core.TextWriter, source, id string, headerWritten *bool) (int, error) {
	r, err := tsv.Open(source)
	if err != nil {
		log.Warn().Str("file", source).Err(err).Msg("Input file not found; skipping")
		return 0, nil
	}
	defer r.Close()

	rows := 0
	first := true
	for r.Next() {
		if first {
			first = false
			if *headerWritten {
				continue
			}
			*headerWritten = true
			if err := w.WriteLine("DatasetID\t" + r.Line()); err != nil {
				return rows, err
			}
			continue
		}

		if err := w.WriteLine(id + "\t" + r.Line()); err != nil {
			return rows, err
		}
		rows++
	}

	if err := r.Err(); err != nil {
		return rows, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return rows, nil
}
