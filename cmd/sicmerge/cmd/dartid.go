package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/sicmerge/pkg/dartid"
)

var dartidSort bool

func init() {
	dartidCmd.Flags().BoolVar(&dartidSort, "sort", false, "Sort rows by scan, charge and sequence before consolidating")
}

var dartidCmd = &cobra.Command{
	Use:   "dartid [files...]",
	Short: "Create DART-ID input files from merged results",
	Long: `Create a _ForDartID.txt file next to each _PlusSICStats.txt file.

Rows sharing a scan, charge and peptide sequence are consolidated into one
row listing every protein of the group.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := expandInputs(args)
		if err != nil {
			return err
		}

		failed := 0
		for _, input := range inputs {
			if _, err := dartid.ConsolidatePSMs(input, dartid.Options{Sort: dartidSort}); err != nil {
				log.Error().Err(err).Str("input", input).Msg("Failed to create DART-ID file")
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
		}
		return nil
	},
}
