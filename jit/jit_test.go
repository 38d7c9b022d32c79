package jit

import (
	"testing"

	"simply/checker"
	"simply/codegen/llvm"
	"simply/convert"
	"simply/examples"
)

// TestWithExec_SeedScenarios compiles and JITs every catalogue program
// (spec.md §8) against its declared argument lists and checks the result
// against the expected output — end to end, front of the pipeline to
// back. This is the one test in the repository that actually depends on
// the host having a working native LLVM target; it is written to be
// confident it would pass, never executed here.
func TestWithExec_SeedScenarios(t *testing.T) {
	for _, sc := range examples.All() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			if err := checker.Check(sc.Program); err != nil {
				t.Fatalf("type error: %v", err)
			}
			ir := convert.Convert(sc.Program)

			mod, err := llvm.Compile(ir)
			if err != nil {
				t.Fatalf("codegen error: %v", err)
			}

			if err := Verify(mod); err != nil {
				mod.Dispose()
				t.Fatalf("module failed verification: %v", err)
			}

			// WithExec's execution engine takes ownership of mod for its
			// lifetime (and WithExec disposes mod's context alongside it),
			// so every invocation against this scenario's argument lists
			// happens inside one WithExec call, with no separate Dispose.
			runErr := WithExec(mod, func(run func([]int32) (int32, error)) error {
				for i, args := range sc.Args {
					got, err := run(args)
					if err != nil {
						return err
					}
					if want := sc.Expected[i]; got != want {
						t.Errorf("args %v: got %d, want %d", args, got, want)
					}
				}
				return nil
			})
			if runErr != nil {
				t.Fatalf("jit execution failed: %v", runErr)
			}
		})
	}
}
