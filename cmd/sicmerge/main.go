// sicmerge - merges MASIC statistics into peptide hit results
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/sicmerge/cmd/sicmerge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
