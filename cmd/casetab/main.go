package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "casetab",
	Short: "Compress sparse case-delta tables",
	Long: `
casetab compresses a sparse character-remapping table (one-to-one Unicode
case deltas) into a compact block-squished table plus an O(1) lookup index,
and emits the result as a binary artifact or generated Go source.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
