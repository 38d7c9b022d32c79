package main

import (
	"fmt"

	"simply/frontend"
	"simply/util"

	"github.com/spf13/cobra"
)

// newBuildCmd builds `simplyc build <file.simply>`: parses the concrete
// syntax (frontend.Parse), runs it through the same pipeline, and either
// runs it with --args or dumps the verified LLVM IR with --emit-llvm.
func newBuildCmd() *cobra.Command {
	var opt util.Options
	var argInts []int32
	cmd := &cobra.Command{
		Use:   "build <file.simply>",
		Short: "Parse, type-check and compile a Simply source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.Src = args[0]
			src, err := util.ReadSource(opt.Src)
			if err != nil {
				return fmt.Errorf("could not read source: %w", err)
			}

			program, err := frontend.Parse(src)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			mod, err := compile(program)
			if err != nil {
				return err
			}

			if opt.EmitLLVM {
				defer mod.Dispose()
				fmt.Println(mod.Mod.String())
				return nil
			}
			return runCompiled(mod, argInts, opt.Verbose)
		},
	}
	cmd.Flags().BoolVar(&opt.EmitLLVM, "emit-llvm", false, "dump the verified LLVM IR instead of running it")
	cmd.Flags().BoolVarP(&opt.Verbose, "verbose", "v", false, "print the generated LLVM IR before running it")
	cmd.Flags().Int32SliceVar(&argInts, "args", nil, "integer arguments to pass to main")
	return cmd
}
