package main

import (
	"fmt"
	"strconv"

	"simply/examples"

	"github.com/spf13/cobra"
)

// newRunCmd builds `simplyc run <program-name> [ints...]`: look up a
// catalogue program (examples.All, spec.md §8's seed scenarios) by name,
// type-check, lower, JIT-compile and invoke it with the given integer
// arguments, printing the result.
func newRunCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run <program-name> [ints...]",
		Short: "Run a catalogued example program by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("no catalogue program named %q (try one of %s)", args[0], scenarioNames())
			}
			ints, err := parseInts(args[1:])
			if err != nil {
				return err
			}

			mod, err := compile(scenario.Program)
			if err != nil {
				return err
			}
			return runCompiled(mod, ints, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the generated LLVM IR before running it")
	return cmd
}

func findScenario(name string) (examples.Scenario, bool) {
	for _, s := range examples.All() {
		if s.Name == name {
			return s, true
		}
	}
	return examples.Scenario{}, false
}

func scenarioNames() string {
	s := ""
	for i, sc := range examples.All() {
		if i > 0 {
			s += ", "
		}
		s += sc.Name
	}
	return s
}

func parseInts(args []string) ([]int32, error) {
	out := make([]int32, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid integer argument %q: %w", a, err)
		}
		out[i] = int32(v)
	}
	return out, nil
}
