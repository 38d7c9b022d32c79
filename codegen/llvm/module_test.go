package llvm

import (
	"testing"

	"simply/ast"
	"simply/checker"
	"simply/convert"
	"simply/examples"
)

// TestCompile_SeedScenarios confirms Compile lowers every catalogue program
// (spec.md §8's seed scenarios) to a module without error: one real
// function per GlobalDef, an __entry_point shim, and no emission failure.
// This never invokes jit.Verify or jit.WithExec (let alone the LLVM
// toolchain) — it only exercises Compile's own error path.
func TestCompile_SeedScenarios(t *testing.T) {
	for _, sc := range examples.All() {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			if err := checker.Check(sc.Program); err != nil {
				t.Fatalf("catalogue program failed to type-check: %v", err)
			}
			ir := convert.Convert(sc.Program)

			mod, err := Compile(ir)
			if err != nil {
				t.Fatalf("Compile returned an error: %v", err)
			}
			if mod == nil {
				t.Fatal("Compile returned a nil module with a nil error")
			}
			defer mod.Dispose()

			entry := mod.Mod.NamedFunction("__entry_point")
			if entry.IsNil() {
				t.Fatal("compiled module has no __entry_point")
			}
			for _, g := range ir.Globals {
				if mod.Mod.NamedFunction(g.Name).IsNil() {
					t.Errorf("compiled module is missing a function for global %q", g.Name)
				}
			}
		})
	}
}

// TestCompile_MissingMainErrors confirms Compile reports an error rather
// than panicking or silently emitting a headless module when the
// intermediate program has no "main" global — this can only happen if a
// caller bypasses checker.Check, since Check itself enforces MissingMain.
func TestCompile_MissingMainErrors(t *testing.T) {
	prog := &ast.Program{Defs: []*ast.Def{
		{Name: "notmain", Type: ast.Int, Body: ast.LitE(1)},
	}}
	ir := convert.Convert(prog)
	if _, err := Compile(ir); err == nil {
		t.Fatal("expected an error for a program with no main global")
	}
}
