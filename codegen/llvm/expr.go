package llvm

import (
	"fmt"

	"simply/ast"

	"tinygo.org/x/go-llvm"
)

// genExpr lowers one intermediate expression, returning its LLVM value and
// Simply type. The type accompanies every result (rather than being
// re-derived from the syntax at the point of use) exactly as it does in
// convert.convertExpr, since a CallClosure needs to know its callee's
// arity and a Closure needs to know its own apparent type to pick the
// right closure struct layout.
func (f *fn) genExpr(n *ast.Node) (llvm.Value, *ast.Type, error) {
	switch n.Typ {
	case ast.Lit:
		return llvm.ConstInt(f.ctx.Int32Type(), uint64(uint32(n.Data.(int32))), false), ast.Int, nil

	case ast.LitBool:
		v := uint64(0)
		if n.Data.(bool) {
			v = 1
		}
		return llvm.ConstInt(f.ctx.Int1Type(), v, false), ast.Bool, nil

	case ast.Local:
		name := n.Name()
		l, ok := f.lookup(name)
		if !ok {
			return llvm.Value{}, nil, fmt.Errorf("undeclared local %q", name)
		}
		return l.val, l.typ, nil

	case ast.Closure:
		return f.genClosure(n)

	case ast.CallKnown:
		return f.genCallKnown(n)

	case ast.CallClosure:
		return f.genCallClosure(n)

	case ast.Let:
		return f.genLet(n)

	case ast.If:
		return f.genIf(n)

	case ast.BinOp:
		return f.genBinOp(n)

	default:
		return llvm.Value{}, nil, fmt.Errorf("codegen: unexpected intermediate node %s", n.Typ)
	}
}

func (f *fn) genLet(n *ast.Node) (llvm.Value, *ast.Type, error) {
	bound, boundType, err := f.genExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, nil, err
	}
	f.pushScope()
	f.bind(n.Name(), bound, boundType)
	body, bodyType, err := f.genExpr(n.Children[1])
	f.popScope()
	if err != nil {
		return llvm.Value{}, nil, err
	}
	return body, bodyType, nil
}

// genIf generates the three-basic-block diamond: cond's current block
// branches to then/else blocks, both of which jump to a shared merge
// block that phi-joins the result.
func (f *fn) genIf(n *ast.Node) (llvm.Value, *ast.Type, error) {
	cond, _, err := f.genExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, nil, err
	}

	thenBlock := llvm.AddBasicBlock(f.fn, "if.then")
	elseBlock := llvm.AddBasicBlock(f.fn, "if.else")
	mergeBlock := llvm.AddBasicBlock(f.fn, "if.merge")
	f.builder.CreateCondBr(cond, thenBlock, elseBlock)

	f.builder.SetInsertPointAtEnd(thenBlock)
	thenVal, resultType, err := f.genExpr(n.Children[1])
	if err != nil {
		return llvm.Value{}, nil, err
	}
	thenEnd := f.builder.GetInsertBlock()
	f.builder.CreateBr(mergeBlock)

	f.builder.SetInsertPointAtEnd(elseBlock)
	elseVal, _, err := f.genExpr(n.Children[2])
	if err != nil {
		return llvm.Value{}, nil, err
	}
	elseEnd := f.builder.GetInsertBlock()
	f.builder.CreateBr(mergeBlock)

	f.builder.SetInsertPointAtEnd(mergeBlock)
	phi := f.builder.CreatePHI(llvmType(f.ctx, resultType), "if.result")
	phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
	return phi, resultType, nil
}

func (f *fn) genBinOp(n *ast.Node) (llvm.Value, *ast.Type, error) {
	lhs, _, err := f.genExpr(n.Children[0])
	if err != nil {
		return llvm.Value{}, nil, err
	}
	rhs, _, err := f.genExpr(n.Children[1])
	if err != nil {
		return llvm.Value{}, nil, err
	}

	switch n.Data.(ast.Op) {
	case ast.Add:
		return f.builder.CreateAdd(lhs, rhs, ""), ast.Int, nil
	case ast.Sub:
		return f.builder.CreateSub(lhs, rhs, ""), ast.Int, nil
	case ast.Mul:
		return f.builder.CreateMul(lhs, rhs, ""), ast.Int, nil
	case ast.Eq:
		return f.builder.CreateICmp(llvm.IntEQ, lhs, rhs, ""), ast.Bool, nil
	case ast.Lt:
		return f.builder.CreateICmp(llvm.IntSLT, lhs, rhs, ""), ast.Bool, nil
	default:
		return llvm.Value{}, nil, fmt.Errorf("codegen: unknown operator %v", n.Data)
	}
}
