package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/sicmerge/pkg/combine"
	"github.com/ChrisMcGann/sicmerge/pkg/core"
)

var combineOutDir string

func init() {
	combineCmd.Flags().StringVarP(&combineOutDir, "out", "o", "", "Output directory (default: the first file's directory)")
}

var combineCmd = &cobra.Command{
	Use:   "combine [files...]",
	Short: "Combine merged results of several datasets",
	Long: `Combine existing _PlusSICStats.txt files into one MergedData file.

Each row is prefixed with a numeric dataset ID; the IDs are listed in the
_DatasetMap.txt file written alongside.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := expandInputs(args)
		if err != nil {
			return err
		}

		outDir := combineOutDir
		if outDir == "" && len(inputs) > 0 {
			outDir = filepath.Dir(inputs[0])
		}
		return combine.MergeProcessedDatasets(processedFromFiles(inputs), outDir)
	},
}

// processedFromFiles describes existing merged files; the collision mode of
// each is undefined
func processedFromFiles(paths []string) []*core.ProcessedDataset {
	records := make([]*core.ProcessedDataset, 0, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		name, ok := core.TrimSuffixFold(base, core.ResultsSuffix)
		if !ok {
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		rec := core.NewProcessedDataset(name)
		rec.AddOutput(core.CollisionModeUndefined, path)
		records = append(records, rec)
	}
	return records
}
