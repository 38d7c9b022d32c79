package main

import (
	"fmt"

	"simply/ast"
	"simply/checker"
	"simply/codegen/llvm"
	"simply/convert"
	"simply/jit"

	"github.com/fatih/color"
)

var (
	errColor = color.New(color.FgRed, color.Bold)
	dimColor = color.New(color.Faint)
)

// compile runs the full pipeline of spec.md's §2 OVERVIEW on a surface
// program: type-check, closure-convert, emit LLVM, verify. Mirrors the
// teacher's run() staging in src/main.go (read -> front end -> middle end
// -> back end -> report), minus the parallel/multi-target branches spec.md
// §5 rules out.
func compile(p *ast.Program) (*llvm.Module, error) {
	if err := checker.Check(p); err != nil {
		return nil, fmt.Errorf("type error: %w", err)
	}

	ir := convert.Convert(p)

	mod, err := llvm.Compile(ir)
	if err != nil {
		return nil, fmt.Errorf("codegen error: %w", err)
	}

	if err := jit.Verify(mod); err != nil {
		mod.Dispose()
		return nil, fmt.Errorf("LLVM verification failed: %w", err)
	}
	return mod, nil
}

// runCompiled JITs mod's main against args and prints the result.
// jit.WithExec takes ownership of mod for its call (its MCJIT engine
// disposes mod's underlying LLVM module, and WithExec disposes mod's
// context alongside it), so runCompiled itself must not also dispose it.
func runCompiled(mod *llvm.Module, args []int32, verbose bool) error {
	if verbose {
		fmt.Fprintln(color.Output, dimColor.Sprint(mod.Mod.String()))
	}
	return jit.WithExec(mod, func(run func([]int32) (int32, error)) error {
		result, err := run(args)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	})
}

func reportError(err error) {
	fmt.Fprintln(color.Error, errColor.Sprint("Error:"), err)
}
