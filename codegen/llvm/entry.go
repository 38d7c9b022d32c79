package llvm

import (
	"fmt"

	"simply/ast"

	"tinygo.org/x/go-llvm"
)

// genEntryPoint emits __entry_point(i32* args) -> i32, the single symbol
// spec.md §4.6's JIT driver looks up and calls: it unpacks main's
// arguments from a flat i32 array (jit.WithExec marshals a []int32's
// backing array into that pointer) and calls main directly. main is
// guaranteed Captures == 0 and a first-order (Int -> ... -> Int) type by
// checker.Check's MainNotFirstOrderInt rule, so every argument and the
// result are plain i32s — no closure unwrapping is ever needed here.
func genEntryPoint(ctx llvm.Context, m llvm.Module, main *ast.GlobalDef) error {
	i32 := ctx.Int32Type()
	i32Ptr := llvm.PointerType(i32, 0)
	fnTy := llvm.FunctionType(i32, []llvm.Type{i32Ptr}, false)
	fn := llvm.AddFunction(m, "__entry_point", fnTy)
	fn.SetFunctionCallConv(llvm.CCallConv)

	target := m.NamedFunction(main.Name)
	if target.IsNil() {
		return fmt.Errorf("codegen: %q not declared", main.Name)
	}

	b := ctx.NewBuilder()
	defer b.Dispose()
	entry := llvm.AddBasicBlock(fn, "entry")
	b.SetInsertPointAtEnd(entry)

	argsPtr := fn.Param(0)
	args := make([]llvm.Value, main.Arity())
	for i := range args {
		idx := llvm.ConstInt(i32, uint64(i), false)
		elem := b.CreateInBoundsGEP(argsPtr, []llvm.Value{idx}, "")
		args[i] = b.CreateLoad(elem, "")
	}

	call := b.CreateCall(target, args, "")
	call.SetInstructionCallConv(llvm.FastCallConv)
	b.CreateRet(call)
	return nil
}
