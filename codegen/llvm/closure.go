package llvm

import (
	"fmt"

	"simply/ast"

	"tinygo.org/x/go-llvm"
)

// genClosure materializes a Closure node: a two-field
// { fnptr, env } aggregate. Zero captures means the referenced global
// itself takes no environment, so its "$wrapped" variant (which ignores
// an env argument) supplies the function pointer and the environment
// field is a null i8*. Otherwise the captured values are evaluated,
// packed into a freshly malloc'd struct, and the global's own function
// (which already expects that struct, bitcast to i8*, as its first
// parameter) is used directly.
func (f *fn) genClosure(n *ast.Node) (llvm.Value, *ast.Type, error) {
	name := n.Name()
	// n.Type may have more arrows than n.Arity, when the referenced
	// global's own result is itself a function value — peel exactly
	// n.Arity of them, since that's how many arguments the wrapper or
	// real function this Closure points at actually takes.
	trailing, result := n.Type.Take(n.Arity)
	fnPtrTy := llvm.PointerType(closureFuncType(f.ctx, trailing, result), 0)
	envPtrTy := llvm.PointerType(f.ctx.Int8Type(), 0)

	var fnVal, envVal llvm.Value
	if len(n.Children) == 0 {
		fnVal = f.module.NamedFunction(name + "$wrapped")
		if fnVal.IsNil() {
			return llvm.Value{}, nil, fmt.Errorf("codegen: undeclared global %q", name)
		}
		envVal = llvm.ConstNull(envPtrTy)
	} else {
		fnVal = f.module.NamedFunction(name)
		if fnVal.IsNil() {
			return llvm.Value{}, nil, fmt.Errorf("codegen: undeclared global %q", name)
		}

		capturedVals := make([]llvm.Value, len(n.Children))
		capturedTypes := make([]*ast.Type, len(n.Children))
		for i, c := range n.Children {
			v, t, err := f.genExpr(c)
			if err != nil {
				return llvm.Value{}, nil, err
			}
			capturedVals[i], capturedTypes[i] = v, t
		}

		envStructTy := f.ctx.StructType(mapTypes(f.ctx, capturedTypes), false)
		envStruct := f.buildMalloc(envStructTy, name+".env")
		for i, v := range capturedVals {
			f.builder.CreateStore(v, f.builder.CreateStructGEP(envStruct, i, ""))
		}
		envVal = f.builder.CreateBitCast(envStruct, envPtrTy, "")
	}

	castedFn := f.builder.CreateBitCast(fnVal, fnPtrTy, "")
	closureTy := llvmType(f.ctx, n.Type)
	agg := llvm.Undef(closureTy)
	agg = f.builder.CreateInsertValue(agg, castedFn, 0, "")
	agg = f.builder.CreateInsertValue(agg, envVal, 1, "")
	return agg, n.Type, nil
}

// buildMalloc heap-allocates one value of type ty via the classic
// gep-null/ptrtoint sizeof idiom, then bitcasts the raw i8* malloc returns
// to a pointer-to-ty. Grounded on
// other_examples/22b9848e_YusufCakan-gocaml's buildMallocRaw/buildMalloc,
// adapted to compute the element size without a TargetData instance.
func (f *fn) buildMalloc(ty llvm.Type, name string) llvm.Value {
	ptrTy := llvm.PointerType(ty, 0)
	one := llvm.ConstInt(f.ctx.Int32Type(), 1, false)
	sizeOf := f.builder.CreateGEP(llvm.ConstNull(ptrTy), []llvm.Value{one}, "")
	sizeInt := f.builder.CreatePtrToInt(sizeOf, f.ctx.Int64Type(), "")
	raw := f.builder.CreateCall(f.malloc, []llvm.Value{sizeInt}, "")
	return f.builder.CreateBitCast(raw, ptrTy, name)
}

// genCallKnown emits a direct call to a known top-level global or Fix
// knot, bypassing the closure representation entirely.
func (f *fn) genCallKnown(n *ast.Node) (llvm.Value, *ast.Type, error) {
	name := n.Name()
	target := f.module.NamedFunction(name)
	if target.IsNil() {
		return llvm.Value{}, nil, fmt.Errorf("codegen: undeclared global %q", name)
	}
	g, ok := f.globals[name]
	if !ok {
		return llvm.Value{}, nil, fmt.Errorf("codegen: no GlobalDef for %q", name)
	}

	args := make([]llvm.Value, len(n.Children))
	for i, c := range n.Children {
		v, _, err := f.genExpr(c)
		if err != nil {
			return llvm.Value{}, nil, err
		}
		args[i] = v
	}
	call := f.builder.CreateCall(target, args, "")
	call.SetInstructionCallConv(llvm.FastCallConv)
	return call, g.ResultType, nil
}

// genCallClosure emits a fully-saturated call through a closure value:
// extract its function pointer and environment, then call with the
// environment prepended to the (already saturated, by construction of
// convert.convertApplied) argument list.
func (f *fn) genCallClosure(n *ast.Node) (llvm.Value, *ast.Type, error) {
	closureExpr, argExprs := n.ClosureArgs()
	closureVal, closureType, err := f.genExpr(closureExpr)
	if err != nil {
		return llvm.Value{}, nil, err
	}
	// argExprs is already exactly as long as this particular call's real
	// arity (convert.convertApplied only ever builds a CallClosure with
	// as many args as the callee consumes in one hop), which can be fewer
	// than closureType's full flattened arrow count when the callee's own
	// result is itself a function value.
	_, result := closureType.Take(len(argExprs))

	fnPtr := f.builder.CreateExtractValue(closureVal, 0, "")
	envPtr := f.builder.CreateExtractValue(closureVal, 1, "")

	args := make([]llvm.Value, 1+len(argExprs))
	args[0] = envPtr
	for i, a := range argExprs {
		v, _, err := f.genExpr(a)
		if err != nil {
			return llvm.Value{}, nil, err
		}
		args[1+i] = v
	}

	call := f.builder.CreateCall(fnPtr, args, "")
	call.SetInstructionCallConv(llvm.FastCallConv)
	return call, result, nil
}
