// Package resolve locates the MASIC statistics files that belong to a dataset
package resolve

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

// maxSuggestions limits the near-miss dataset names reported on failure
const maxSuggestions = 3

// FindMASICFiles looks in dir for the _ScanStats.txt, _SICStats.txt and
// _ReporterIons.txt files of a dataset.
//
// The full dataset name is tried first; on failure the name is cut back at its
// last underscore and tried again. Once no underscore remains, a nonzero dataset ID
// is tried once as "{ID}_{Name}". Resolution succeeds as soon as either the scan
// stats or the SIC stats file exists.
func FindMASICFiles(dir string, dataset core.DatasetInfo) (core.MASICFiles, error) {
	var files core.MASICFiles

	entries, err := os.ReadDir(dir)
	if err != nil {
		return files, fmt.Errorf("failed to list MASIC directory: %w", err)
	}

	// Lowercase file name -> actual file name; suffix matching ignores case.
	// Exact names win over names that only match when folded.
	names := make(map[string]string, len(entries))
	exact := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		exact[entry.Name()] = true

		lower := strings.ToLower(entry.Name())
		if prev, ok := names[lower]; ok {
			log.Warn().Str("file", entry.Name()).Str("using", prev).
				Msg("File names differ only by case")
			continue
		}
		names[lower] = entry.Name()
	}

	lookup := func(candidate, suffix string) string {
		if exact[candidate+suffix] {
			return candidate + suffix
		}
		return names[strings.ToLower(candidate+suffix)]
	}

	log.Info().Str("dataset", dataset.Name).Str("dir", dir).Msg("Looking for MASIC data files")

	candidate := dataset.Name
	triedDatasetID := false
	found := false

	for {
		files.ScanStats = lookup(candidate, core.ScanStatsSuffix)
		files.SICStats = lookup(candidate, core.SICStatsSuffix)
		if files.ScanStats != "" || files.SICStats != "" {
			files.ReporterIons = lookup(candidate, core.ReporterIonsSuffix)
			found = true
			break
		}

		// Remove the last underscore and any text after it
		if idx := strings.LastIndex(candidate, "_"); idx > 0 {
			candidate = candidate[:idx]
			continue
		}

		if !triedDatasetID && dataset.ID > 0 {
			candidate = strconv.Itoa(dataset.ID) + "_" + dataset.Name
			triedDatasetID = true
			continue
		}

		break
	}

	if !found {
		suggestions := Suggest(names, dataset.Name)
		log.Error().Str("dataset", dataset.Name).Str("dir", dir).Strs("closest", suggestions).
			Msg("Unable to find the MASIC data files")
		return core.MASICFiles{}, fmt.Errorf("dataset %s in %s: %w", dataset.Name, dir, core.ErrMissingStatisticsFiles)
	}

	if files.ScanStats == "" {
		log.Warn().Str("dataset", candidate).
			Msg("The MASIC SIC stats file was found, but the ScanStats file does not exist")
	} else if files.SICStats == "" {
		log.Warn().Str("dataset", candidate).
			Msg("The MASIC ScanStats file was found, but the SIC stats file does not exist")
	}

	return files, nil
}

// Suggest returns up to three dataset names from the statistics files in names
// (lowercase -> actual file name) that are closest to datasetName.
func Suggest(names map[string]string, datasetName string) []string {
	seen := make(map[string]bool)
	var stems []string
	for _, actual := range names {
		for _, suffix := range []string{core.ScanStatsSuffix, core.SICStatsSuffix} {
			if stem, ok := core.TrimSuffixFold(actual, suffix); ok && !seen[stem] {
				seen[stem] = true
				stems = append(stems, stem)
			}
		}
	}

	target := strings.ToLower(datasetName)
	sort.Slice(stems, func(i, j int) bool {
		di := fuzzy.LevenshteinDistance(target, strings.ToLower(stems[i]))
		dj := fuzzy.LevenshteinDistance(target, strings.ToLower(stems[j]))
		if di != dj {
			return di < dj
		}
		return stems[i] < stems[j]
	})

	if len(stems) > maxSuggestions {
		stems = stems[:maxSuggestions]
	}
	return stems
}
