package llvm

import (
	"fmt"

	"simply/ast"
	"simply/util"

	"tinygo.org/x/go-llvm"
)

// scope is one lexical level of a function's local symbol table: a
// global's surface parameters, its loaded captures, or a Let's bound
// name. Pushed onto fn.scopes as an *util.Stack entry, mirroring the
// teacher's per-block symTab-on-a-Stack idiom (genFuncBody/gen's BLOCK
// case), generalized from "one scope per BLOCK statement" to "one scope
// per Let" since Simply has no block statements.
type scope struct {
	m map[string]local
}

// local is a value already materialized in registers together with its
// Simply type, so call sites and Closure construction know the arity and
// field layout to use without re-deriving it from the syntax.
type local struct {
	val llvm.Value
	typ *ast.Type
}

func newScope() *scope { return &scope{m: make(map[string]local)} }

// fn is the per-function code generation context: the builder threads
// through every recursive gen call, the scope stack resolves Local
// references, and globals gives every GlobalDef by name (for CallKnown's
// result type); the emitted LLVM functions themselves are looked up in
// module by name.
type fn struct {
	ctx     llvm.Context
	module  llvm.Module
	builder llvm.Builder
	malloc  llvm.Value
	globals map[string]*ast.GlobalDef
	fn      llvm.Value
	scopes  *util.Stack
}

func (f *fn) pushScope() { f.scopes.Push(newScope()) }
func (f *fn) popScope()  { f.scopes.Pop() }

func (f *fn) bind(name string, val llvm.Value, typ *ast.Type) {
	f.scopes.Peek().(*scope).m[name] = local{val: val, typ: typ}
}

// lookup walks every enclosing scope, innermost first, mirroring the
// teacher's genLoad's scope walk over a *util.Stack via Get(i).
func (f *fn) lookup(name string) (local, bool) {
	for i := 1; i <= f.scopes.Size(); i++ {
		sc := f.scopes.Get(i).(*scope)
		if l, ok := sc.m[name]; ok {
			return l, true
		}
	}
	return local{}, false
}

// declareHeader declares g's real LLVM function (the one CallKnown targets
// and the one a non-zero-capture closure's function pointer points at
// directly). Captures==0 globals additionally get a "$wrapped" variant
// with an extra, ignored, leading i8* environment parameter, so a
// zero-capture closure can still present the uniform (env, args...)
// calling shape spec.md §4.3 requires of every closure's function-pointer
// field.
func declareHeader(ctx llvm.Context, m llvm.Module, g *ast.GlobalDef) llvm.Value {
	_, surfaceTypes := g.Surface()

	if g.Captures == 0 {
		argTys := make([]llvm.Type, len(surfaceTypes))
		for i, t := range surfaceTypes {
			argTys[i] = llvmType(ctx, t)
		}
		fnTy := llvm.FunctionType(llvmType(ctx, g.ResultType), argTys, false)
		real := llvm.AddFunction(m, g.Name, fnTy)
		real.SetFunctionCallConv(llvm.FastCallConv)

		wrapped := llvm.AddFunction(m, g.Name+"$wrapped", closureFuncType(ctx, surfaceTypes, g.ResultType))
		wrapped.SetFunctionCallConv(llvm.FastCallConv)
		return real
	}

	fnTy := closureFuncType(ctx, surfaceTypes, g.ResultType)
	real := llvm.AddFunction(m, g.Name, fnTy)
	real.SetFunctionCallConv(llvm.FastCallConv)
	return real
}

// defineWrapped fills in the body of name$wrapped for a zero-capture
// global: ignore the environment parameter and tail-call the real
// function with the rest.
func defineWrapped(ctx llvm.Context, m llvm.Module, g *ast.GlobalDef) {
	wrapped := m.NamedFunction(g.Name + "$wrapped")
	real := m.NamedFunction(g.Name)

	b := ctx.NewBuilder()
	defer b.Dispose()
	entry := llvm.AddBasicBlock(wrapped, "entry")
	b.SetInsertPointAtEnd(entry)

	params := wrapped.Params()
	args := params[1:] // drop the ignored environment parameter.
	call := b.CreateCall(real, args, "")
	call.SetInstructionCallConv(llvm.FastCallConv)
	if g.ResultType.Kind == ast.KInt || g.ResultType.Kind == ast.KBool || g.ResultType.IsFun() {
		b.CreateRet(call)
	} else {
		b.CreateRetVoid()
	}
}

// defineBody emits g's real function's instructions: load captures out of
// the opaque environment, bind the surface parameters, generate the body
// expression, and return it.
func defineBody(ctx llvm.Context, module llvm.Module, malloc llvm.Value, globals map[string]*ast.GlobalDef, g *ast.GlobalDef) error {
	real := module.NamedFunction(g.Name)

	b := ctx.NewBuilder()
	defer b.Dispose()
	entry := llvm.AddBasicBlock(real, "entry")
	b.SetInsertPointAtEnd(entry)

	f := &fn{
		ctx:     ctx,
		module:  module,
		builder: b,
		malloc:  malloc,
		globals: globals,
		fn:      real,
		scopes:  &util.Stack{},
	}
	f.pushScope()
	defer f.popScope()

	params := real.Params()
	if g.Captures > 0 {
		captureNames, captureTypes := g.ParamNames[:g.Captures], g.ParamTypes[:g.Captures]
		envPtr := params[0]
		envStructTy := ctx.StructType(mapTypes(ctx, captureTypes), false)
		castEnv := b.CreateBitCast(envPtr, llvm.PointerType(envStructTy, 0), "env")
		for i, name := range captureNames {
			field := b.CreateStructGEP(castEnv, i, "")
			f.bind(name, b.CreateLoad(field, name), captureTypes[i])
		}
		for i, name := range g.ParamNames[g.Captures:] {
			f.bind(name, params[1+i], g.ParamTypes[g.Captures+i])
		}
	} else {
		for i, name := range g.ParamNames {
			f.bind(name, params[i], g.ParamTypes[i])
		}
	}

	result, _, err := f.genExpr(g.Body)
	if err != nil {
		return fmt.Errorf("simply: generating %q: %w", g.Name, err)
	}
	b.CreateRet(result)
	return nil
}

func mapTypes(ctx llvm.Context, types []*ast.Type) []llvm.Type {
	out := make([]llvm.Type, len(types))
	for i, t := range types {
		out[i] = llvmType(ctx, t)
	}
	return out
}
