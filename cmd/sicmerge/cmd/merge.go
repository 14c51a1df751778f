package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/sicmerge/pkg/merge"
)

func init() {
	mergeCmd.Flags().StringP("masic-dir", "m", "", "Directory with the MASIC results (default: the input file's directory)")
	mergeCmd.Flags().StringP("out", "o", "", "Output directory (default: the input file's directory)")
	mergeCmd.Flags().IntP("scan-column", "n", 2, "1-based scan number column, used when the header does not name one")
	mergeCmd.Flags().BoolP("collision-mode", "c", false, "Write a separate output file for each collision mode")
	mergeCmd.Flags().Bool("mage", false, "Inputs are Mage Extractor files with a Job column and a _metadata.txt file")
	mergeCmd.Flags().Bool("append", false, "Combine the results of all inputs into MergedData files")
	mergeCmd.Flags().Bool("dartid", false, "Also create a _ForDartID.txt file for each output")
	mergeCmd.Flags().Bool("dartid-sort", false, "Sort rows by scan, charge and sequence before consolidating for DART-ID")
	mergeCmd.Flags().Duration("delete-delay", merge.DefaultDeleteDelay, "Wait before deleting empty output files")

	for key, flag := range map[string]string{
		"masic_dir":               "masic-dir",
		"output_dir":              "out",
		"scan_column":             "scan-column",
		"separate_collision_mode": "collision-mode",
		"mage":                    "mage",
		"append":                  "append",
		"dartid":                  "dartid",
		"dartid_sort":             "dartid-sort",
		"delete_delay":            "delete-delay",
	} {
		v.BindPFlag(key, mergeCmd.Flags().Lookup(flag))
	}
}

var mergeCmd = &cobra.Command{
	Use:   "merge [inputs...]",
	Short: "Merge MASIC results into peptide hit result files",
	Long: `Merge MASIC results into tab-delimited peptide hit result files.

For each input, the _ScanStats.txt, _SICStats.txt and _ReporterIons.txt files
are located by dataset name in the MASIC directory and their columns are
appended to every row, creating {input}_PlusSICStats.txt.

Inputs may be shell-style patterns.

Examples:
  # Merge one MS-GF+ synopsis file
  sicmerge merge QC_Shew_msgfplus_syn.txt

  # MASIC results elsewhere, one file per collision mode
  sicmerge merge -m /data/masic -c QC_Shew_msgfplus_syn.txt

  # Merge many datasets, combine them, and create DART-ID input files
  sicmerge merge --append --dartid '*_syn.txt'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

// expandInputs expands glob patterns. Arguments without pattern characters
// are kept as given.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			inputs = append(inputs, arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			log.Warn().Str("pattern", arg).Msg("No files match the input pattern")
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files found")
	}

	proc := merge.NewProcessor(merge.Options{
		MASICDir:                cfg.MASICDir,
		OutputDir:               cfg.OutputDir,
		ScanColumn:              cfg.ScanColumn,
		SeparateByCollisionMode: cfg.SeparateCollisionMode,
		CreateDartID:            cfg.DartID,
		DartIDSort:              cfg.DartIDSort,
		Mage:                    cfg.Mage,
		DeleteDelay:             cfg.DeleteDelay,
	})

	failed := 0
	for _, input := range inputs {
		log.Info().Str("input", input).Msg("Processing")
		if err := proc.ProcessFile(input); err != nil {
			log.Error().Err(err).Str("input", input).Msg("Failed to process input")
			failed++
		}
	}

	if cfg.Append {
		if cfg.Mage {
			log.Warn().Msg("--append is not supported for Mage Extractor files")
		} else if err := proc.MergeProcessedDatasets(); err != nil {
			return fmt.Errorf("failed to combine datasets: %w", err)
		}
	}

	log.Info().Int("processed", len(inputs)-failed).Int("failed", failed).Msg("Done")

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}
