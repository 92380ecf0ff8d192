package main

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skyline93/casetab/internal/artifact"
	"github.com/skyline93/casetab/internal/builder"
	"github.com/skyline93/casetab/internal/casetab"
)

var cmdBuild = &cobra.Command{
	Use:   "build [flags]",
	Short: "Build a compressed table from a delta listing",
	Long: `
The "build" command reads a case-delta listing ("<hex codepoint>;<delta>"
per line), compresses it into a block-squished table and writes the result.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, buildOptions)
	},
}

// BuildOptions bundles all options for the build command.
type BuildOptions struct {
	Input        string
	Output       string
	Format       string
	Package      string
	Name         string
	BlockSize    int
	SequenceSize int
	Search       string
	TimeBudget   time.Duration
	Seed         int64
	Restarts     int
	Compress     bool
}

var buildOptions BuildOptions

func init() {
	cmdRoot.AddCommand(cmdBuild)

	f := cmdBuild.Flags()
	f.StringVar(&buildOptions.Input, "input", "", "delta listing to compress")
	f.StringVar(&buildOptions.Output, "output", "", "output file")
	f.StringVar(&buildOptions.Format, "format", "bin", "output format, 'bin' or 'go'")
	f.StringVar(&buildOptions.Package, "package", "main", "package name for go output")
	f.StringVar(&buildOptions.Name, "name", "caseTab", "identifier prefix for go output")
	f.IntVar(&buildOptions.BlockSize, "block-size", 256, "partition granularity for the delta table")
	f.IntVar(&buildOptions.SequenceSize, "sequence-size", 0, "partition granularity for index compression (0 disables)")
	f.StringVar(&buildOptions.Search, "search", casetab.SearchImprove.String(), "block ordering strategy")
	f.DurationVar(&buildOptions.TimeBudget, "time-budget", casetab.DefaultTimeBudget, "max effort for exact/randomized search")
	f.Int64Var(&buildOptions.Seed, "seed", 1, "seed for randomized search")
	f.IntVar(&buildOptions.Restarts, "restarts", 0, "restarts for randomized search (0 uses the default)")
	f.BoolVar(&buildOptions.Compress, "compress", false, "zstd-compress the binary payload")
}

func runBuild(cmd *cobra.Command, opts BuildOptions) error {
	mode, err := casetab.ParseSearchMode(opts.Search)
	if err != nil {
		return err
	}

	in, err := os.Open(opts.Input)
	if err != nil {
		return err
	}
	raw, err := casetab.LoadDeltas(in)
	in.Close()
	if err != nil {
		return err
	}

	cfg := casetab.Config{
		BlockSize:    opts.BlockSize,
		SequenceSize: opts.SequenceSize,
		Search:       mode,
		TimeBudget:   opts.TimeBudget,
		Seed:         opts.Seed,
		Restarts:     opts.Restarts,
	}

	start := time.Now()
	t, err := builder.Build(cmd.Context(), raw, cfg)
	if err != nil {
		return err
	}
	cost := t.Cost()
	log.Infof("built table in %v: %d bytes, %d reads per lookup", time.Since(start), t.SizeBytes(), cost.Reads)

	out, err := os.Create(opts.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	if opts.Format == "go" {
		return artifact.WriteGo(out, t, opts.Package, opts.Name)
	}
	return artifact.Encode(out, t, opts.Compress)
}
