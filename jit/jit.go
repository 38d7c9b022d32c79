// Package jit executes a compiled Simply program via LLVM's MCJIT, per
// spec.md §4.6: verify the module, materialize an execution engine, marshal
// the caller's integer arguments into the flat i32 array __entry_point
// expects, and unmarshal its i32 result.
//
// Grounded on the teacher's own target-machine setup in
// src/ir/llvm/transform.go (GenLLVM's InitializeAllTargetInfos/...
// sequence) — this package uses the native-target subset of that same
// tinygo.org/x/go-llvm dependency for a facet (in-process execution) the
// teacher itself never exercises, since it only ever emits object files
// to disk.
package jit

import (
	"fmt"
	"unsafe"

	"simply/codegen/llvm"

	llvmgo "tinygo.org/x/go-llvm"
)

var nativeTargetInitialized = false

func ensureNativeTarget() error {
	if nativeTargetInitialized {
		return nil
	}
	llvmgo.LinkInMCJIT()
	if err := llvmgo.InitializeNativeTarget(); err != nil {
		return fmt.Errorf("jit: %w", err)
	}
	if err := llvmgo.InitializeNativeAsmPrinter(); err != nil {
		return fmt.Errorf("jit: %w", err)
	}
	nativeTargetInitialized = true
	return nil
}

// Verify runs LLVM's module verifier, returning a descriptive error if the
// module violates any well-formedness rule (spec.md §8's "LLVM
// verification passes" invariant). Callers should treat a verification
// failure as an internal-compiler-error: it means convert or codegen
// produced an ill-formed module from a well-typed program.
func Verify(m *llvm.Module) error {
	return llvmgo.VerifyModule(m.Mod, llvmgo.ReturnStatusAction)
}

// WithExec materializes an MCJIT execution engine over m's module, invokes
// k with a Run function that calls __entry_point with the given
// arguments, and tears down both the engine and m before returning.
// Creating the engine hands it ownership of m.Mod (LLVMCreateMCJITCompiler
// disposes the module it was given when the engine itself is disposed), so
// WithExec additionally disposes m.Ctx itself rather than leaving that to
// the caller. Callers must not call m.Dispose() themselves and must not
// use m again, by any goroutine, once WithExec has been entered.
func WithExec(m *llvm.Module, k func(run func(args []int32) (int32, error)) error) error {
	if err := ensureNativeTarget(); err != nil {
		return err
	}

	opts := llvmgo.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(0)
	engine, err := llvmgo.NewMCJITCompiler(m.Mod, opts)
	if err != nil {
		return fmt.Errorf("jit: creating execution engine: %w", err)
	}
	defer engine.Dispose() // also disposes m.Mod, which the engine now owns.
	defer m.Ctx.Dispose()

	entry := m.Mod.NamedFunction("__entry_point")
	if entry.IsNil() {
		return fmt.Errorf("jit: module has no __entry_point")
	}

	run := func(args []int32) (int32, error) {
		buf := make([]int32, len(args))
		copy(buf, args)

		var ptr unsafe.Pointer
		if len(buf) > 0 {
			ptr = unsafe.Pointer(&buf[0])
		}
		argVal := llvmgo.NewGenericValueFromPointer(ptr)

		result := engine.RunFunction(entry, []llvmgo.GenericValue{argVal})
		return int32(result.Int(true)), nil
	}

	return k(run)
}
