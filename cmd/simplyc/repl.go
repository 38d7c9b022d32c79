package main

import (
	"fmt"
	"io"
	"strings"

	"simply/examples"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

// newReplCmd builds `simplyc repl`: a line-editing REPL, using
// github.com/peterh/liner (following sunholo-data-ailang's
// internal/repl/repl.go use of the same package), that reads one
// catalogue program name plus optional integer arguments per line and
// JITs it immediately. spec.md itself only specifies a catalogue plus a
// batch invocation (§1); this supplements that the way an interactive
// compiler front end naturally would, without adding anything the
// Non-goals exclude.
func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively run catalogue programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
}

func runRepl() {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("%s\n", bold("simplyc repl"))
	fmt.Println(dim("Type a catalogue program name and optional integer arguments."))
	fmt.Println(dim("Try \"" + scenarioNames() + "\". :quit to exit."))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCompleter(func(s string) (c []string) {
		for _, sc := range examples.All() {
			if strings.HasPrefix(sc.Name, s) {
				c = append(c, sc.Name)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("simply> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintln(color.Error, red("Error:"), err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			fmt.Println(green("Goodbye!"))
			return
		}
		if input == ":help" || input == ":h" {
			fmt.Println("  <name> [ints...]   run a catalogue program")
			fmt.Println("  :quit, :q          exit")
			continue
		}

		fields := strings.Fields(input)
		scenario, ok := findScenario(fields[0])
		if !ok {
			fmt.Fprintln(color.Error, red("Error:"), fmt.Sprintf("no catalogue program named %q", fields[0]))
			continue
		}

		runArgs, argsErr := replArgs(scenario, fields[1:])
		if argsErr != nil {
			fmt.Fprintln(color.Error, red("Error:"), argsErr)
			continue
		}

		mod, err := compile(scenario.Program)
		if err != nil {
			fmt.Fprintln(color.Error, red("Error:"), err)
			continue
		}
		if err := runCompiled(mod, runArgs, false); err != nil {
			fmt.Fprintln(color.Error, red("Error:"), err)
		}
	}
}

// replArgs uses the user-supplied integer arguments if any were typed,
// falling back to the scenario's own first declared argument list (every
// seed scenario's Args is non-empty) so a bare catalogue name still runs.
func replArgs(scenario examples.Scenario, typed []string) ([]int32, error) {
	if len(typed) == 0 {
		if len(scenario.Args) == 0 {
			return nil, nil
		}
		return scenario.Args[0], nil
	}
	return parseInts(typed)
}
