package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyline93/casetab/internal/artifact"
)

var cmdStats = &cobra.Command{
	Use:   "stats [flags]",
	Short: "Print size and lookup-cost figures for a table artifact",
	Long: `
The "stats" command prints the stored array sizes and the fixed per-lookup
operation counts of a table artifact.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(statsOptions)
	},
}

// StatsOptions bundles all options for the stats command.
type StatsOptions struct {
	Table string
}

var statsOptions StatsOptions

func init() {
	cmdRoot.AddCommand(cmdStats)

	f := cmdStats.Flags()
	f.StringVar(&statsOptions.Table, "table", "", "table artifact to inspect")
}

func runStats(opts StatsOptions) error {
	tf, err := os.Open(opts.Table)
	if err != nil {
		return err
	}
	defer tf.Close()

	t, err := artifact.Decode(tf)
	if err != nil {
		return err
	}

	fmt.Printf("domain:       %d keys\n", t.Domain)
	fmt.Printf("block size:   %d\n", t.BlockSize)
	fmt.Printf("data:         %d entries\n", len(t.Data))
	if t.TwoLevel() {
		fmt.Printf("chunk size:   %d\n", t.ChunkSize)
		fmt.Printf("jndex:        %d entries\n", len(t.Jndex))
		fmt.Printf("index data:   %d entries\n", len(t.IndexData))
	} else {
		fmt.Printf("index:        %d entries\n", len(t.Index))
	}
	fmt.Printf("total:        %d bytes (naive: %d)\n", t.SizeBytes(), 2*t.Domain)

	cost := t.Cost()
	fmt.Printf("lookup cost:  %d reads, %d adds, %d bit ops\n", cost.Reads, cost.Adds, cost.BitOps)
	return nil
}
