// Command simplyc is the Simply compiler's CLI, grounded on the teacher's
// src/main.go run() staging (read input -> front end -> middle end ->
// back end -> report) but rebuilt on github.com/spf13/cobra instead of the
// teacher's hand-rolled flag switch in src/util/args.go, since Cobra is
// the ecosystem default for a multi-subcommand CLI and the example corpus
// already carries it.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "simplyc",
		Short:         "Simply: a small statically-typed functional language compiled via LLVM",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newTokensCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}
