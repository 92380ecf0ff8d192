package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skyline93/casetab/internal/artifact"
	"github.com/skyline93/casetab/internal/builder"
	"github.com/skyline93/casetab/internal/casetab"
)

var cmdVerify = &cobra.Command{
	Use:   "verify [flags]",
	Short: "Check a table artifact against its delta listing",
	Long: `
The "verify" command decodes every key of a table artifact and compares the
result with the original delta listing.

EXIT STATUS
===========

Exit status is 0 if the table reproduces every delta, and non-zero otherwise.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(verifyOptions)
	},
}

// VerifyOptions bundles all options for the verify command.
type VerifyOptions struct {
	Input string
	Table string
}

var verifyOptions VerifyOptions

func init() {
	cmdRoot.AddCommand(cmdVerify)

	f := cmdVerify.Flags()
	f.StringVar(&verifyOptions.Input, "input", "", "delta listing the table was built from")
	f.StringVar(&verifyOptions.Table, "table", "", "table artifact to verify")
}

func runVerify(opts VerifyOptions) error {
	in, err := os.Open(opts.Input)
	if err != nil {
		return err
	}
	raw, err := casetab.LoadDeltas(in)
	in.Close()
	if err != nil {
		return err
	}

	tf, err := os.Open(opts.Table)
	if err != nil {
		return err
	}
	defer tf.Close()

	t, err := artifact.Decode(tf)
	if err != nil {
		return err
	}

	if t.Domain > len(raw) {
		return errors.Errorf("table covers %d keys, listing only %d", t.Domain, len(raw))
	}
	if err := builder.Verify(t, raw[:t.Domain]); err != nil {
		return err
	}
	log.Infof("table verified: %d keys round-trip", t.Domain)
	return nil
}
