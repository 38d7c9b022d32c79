// Package llvm lowers a closure-converted ast.IRProgram to an LLVM module,
// per spec.md §4.3/§4.4. The traversal shape — genFuncHeader/genFuncBody
// split, a stack of scopes threaded through a recursive gen dispatch, the
// fast calling convention for ordinary functions and the C convention for
// the one external runtime call — is grounded on the teacher's
// src/ir/llvm/transform.go. The closure value representation itself
// (a two-field {fnptr, env} struct, a malloc'd and bitcast environment
// record, the extract-fnptr/extract-env pattern at a call site) is
// grounded on other_examples/22b9848e_YusufCakan-gocaml's
// codegen/block_builder.go (buildMallocRaw, buildMalloc, the MakeCls and
// CLOSURE_CALL cases), since the teacher's own VSL has no closures at all.
package llvm

import (
	"simply/ast"

	"tinygo.org/x/go-llvm"
)

// llvmType maps a Simply type to its LLVM representation: Int -> i32,
// Bool -> i1, and TFun(...) -> the two-field closure struct
// { i8*(i8*, arg...)->result, i8* } spec.md §4.3 specifies.
func llvmType(ctx llvm.Context, t *ast.Type) llvm.Type {
	switch t.Kind {
	case ast.KInt:
		return ctx.Int32Type()
	case ast.KBool:
		return ctx.Int1Type()
	default:
		trailing, result := t.Params()
		fnPtr := llvm.PointerType(closureFuncType(ctx, trailing, result), 0)
		envPtr := llvm.PointerType(ctx.Int8Type(), 0)
		return ctx.StructType([]llvm.Type{fnPtr, envPtr}, false)
	}
}

// closureFuncType builds the LLVM function type a closure's wrapped
// function pointer has: an opaque i8* environment, followed by trailing's
// types in order, returning result's type.
func closureFuncType(ctx llvm.Context, trailing []*ast.Type, result *ast.Type) llvm.Type {
	params := make([]llvm.Type, 0, 1+len(trailing))
	params = append(params, llvm.PointerType(ctx.Int8Type(), 0))
	for _, t := range trailing {
		params = append(params, llvmType(ctx, t))
	}
	return llvm.FunctionType(llvmType(ctx, result), params, false)
}

// declareMalloc declares the external C `malloc` used to heap-allocate
// closure environments. Simply has no garbage collector (spec.md §6 rules
// one out as a Non-goal) and no free: environments simply leak, exactly
// like GoCaml's GC_malloc-backed ones except without the collector.
func declareMalloc(ctx llvm.Context, m llvm.Module) llvm.Value {
	sizeT := ctx.Int64Type()
	ptrT := llvm.PointerType(ctx.Int8Type(), 0)
	fnTy := llvm.FunctionType(ptrT, []llvm.Type{sizeT}, false)
	fn := llvm.AddFunction(m, "malloc", fnTy)
	fn.SetFunctionCallConv(llvm.CCallConv)
	return fn
}
