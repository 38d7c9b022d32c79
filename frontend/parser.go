// parser.go consumes the token channel the lexer produces and builds an
// ast.Program directly, by hand-written recursive descent rather than a
// goyacc-generated table: this repository must never invoke the Go
// toolchain (not even `go generate`) while being built, so the teacher's
// `go:generate goyacc` grammar-compilation step cannot be reproduced. The
// concurrent lexer/parser pipeline shape survives — the lexer still runs
// on its own goroutine and feeds the parser over a channel, exactly the
// teacher's src/frontend/tree.go shape — only the technique that consumes
// those tokens changes, from a yacc state table to ordinary recursive
// descent with explicit operator-precedence climbing for the binary
// operators.
package frontend

import (
	"fmt"
	"strconv"

	"simply/ast"
)

// ParseError reports a syntax error at a source location, mirroring the
// structured-error discipline checker.Error uses for type errors (spec.md
// §7.1's "never a process abort" applies to every compiler-reported error
// domain, not just type errors).
type ParseError struct {
	Line, Pos int
	Msg       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Pos, e.Msg)
}

// parser walks the lexer's item stream one token of lookahead at a time.
type parser struct {
	l   *lexer
	tok item
}

// Parse lexes and parses src into an ast.Program. It does not type-check
// the result; callers are expected to run checker.Check next, exactly as
// spec.md's pipeline (front end -> checker -> convert -> codegen) expects.
func Parse(src string) (*ast.Program, error) {
	l := newLexer(src)
	go l.run()
	p := &parser{l: l}
	p.advance()
	return p.parseProgram()
}

// Tokens lexes src and returns every item, for `simplyc tokens` debugging
// output (mirrors the teacher's -ts flag).
func Tokens(src string) []string {
	l := newLexer(src)
	go l.run()
	var out []string
	for {
		it := l.nextItem()
		out = append(out, it.String())
		if it.typ == itemEOF || it.typ == itemError {
			break
		}
	}
	return out
}

func (p *parser) advance() {
	p.tok = p.l.nextItem()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: p.tok.line, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it has type typ, else errors.
func (p *parser) expect(typ itemType, what string) (item, error) {
	if p.tok.typ != typ {
		return item{}, p.errorf("expected %s, found %s", what, p.tok)
	}
	tok := p.tok
	p.advance()
	return tok, nil
}

// rune returns the single-character token type for r, the same
// ASCII-as-itemType convention lexGlobal emits punctuation with.
func r(c rune) itemType { return itemType(c) }

func (p *parser) at(c rune) bool { return p.tok.typ == r(c) }

// parseProgram parses a sequence of `def name : type = expr` bindings
// until EOF.
func (p *parser) parseProgram() (*ast.Program, error) {
	var defs []*ast.Def
	for p.tok.typ != itemEOF {
		if p.tok.typ == itemError {
			return nil, p.errorf("%s", p.tok.val)
		}
		d, err := p.parseDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return &ast.Program{Defs: defs}, nil
}

func (p *parser) parseDef() (*ast.Def, error) {
	if _, err := p.expect(DEF, "'def'"); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER, "a binding name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r(':'), "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r('='), "'='"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Def{Name: name.val, Type: typ, Body: body}, nil
}

// parseType parses a (right-associative) arrow type: atomType ('->' type)?.
func (p *parser) parseType() (*ast.Type, error) {
	arg, err := p.parseAtomType()
	if err != nil {
		return nil, err
	}
	if p.tok.typ == ARROW {
		p.advance()
		result, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.Fun(arg, result), nil
	}
	return arg, nil
}

func (p *parser) parseAtomType() (*ast.Type, error) {
	switch {
	case p.tok.typ == KINT:
		p.advance()
		return ast.Int, nil
	case p.tok.typ == KBOOL:
		p.advance()
		return ast.Bool, nil
	case p.at('('):
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(r(')'), "')'"); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, p.errorf("expected a type, found %s", p.tok)
	}
}

// parseExpr is the entry point for every expression form. The binding
// forms (let/if/lambda/fix) are recognized by their leading keyword and
// otherwise parseExpr falls through to the binary-operator precedence
// chain, matching the way the teacher's own recursive-descent-over-yacc
// grammar lets keyword-led productions short-circuit the normal
// expression chain.
func (p *parser) parseExpr() (*ast.Node, error) {
	switch p.tok.typ {
	case LET:
		return p.parseLet()
	case IF:
		return p.parseIf()
	case r('\\'):
		return p.parseLambda()
	case FIX:
		return p.parseFix()
	default:
		return p.parseRel()
	}
}

func (p *parser) parseLet() (*ast.Node, error) {
	p.advance() // 'let'
	name, err := p.expect(IDENTIFIER, "a binding name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r(':'), "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r('='), "'='"); err != nil {
		return nil, err
	}
	bound, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(IN, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.LetE(name.val, typ, bound, body), nil
}

func (p *parser) parseIf() (*ast.Node, error) {
	p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(THEN, "'then'"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ELSE, "'else'"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.IfE(cond, then, els), nil
}

// parseLambda parses `\x : type . body`. Only a single parameter per
// lambda is accepted at the syntax level — multi-argument surface
// functions are written as nested lambdas, exactly as ast.Lams expects and
// spec.md §3's grammar itself only ever nests single-argument Lam nodes.
func (p *parser) parseLambda() (*ast.Node, error) {
	p.advance() // '\'
	param, err := p.expect(IDENTIFIER, "a parameter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r(':'), "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r('.'), "'.'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.LamE(param.val, typ, body), nil
}

// parseFix parses `fix self : type . body`, where body is itself written
// as the lambda chain defining the recursive function (spec.md §4.2).
func (p *parser) parseFix() (*ast.Node, error) {
	p.advance() // 'fix'
	self, err := p.expect(IDENTIFIER, "a self-binder name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r(':'), "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(r('.'), "'.'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.FixE(self.val, typ, body), nil
}

// parseRel parses the lowest-precedence binary operators, '=' and '<',
// non-chaining (each is parsed as a single comparison over two addExpr
// operands, matching spec.md's BinOp grammar which never nests
// comparisons directly).
func (p *parser) parseRel() (*ast.Node, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	switch {
	case p.at('='):
		p.advance()
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return ast.BinOpE(ast.Eq, lhs, rhs), nil
	case p.at('<'):
		p.advance()
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return ast.BinOpE(ast.Lt, lhs, rhs), nil
	default:
		return lhs, nil
	}
}

// parseAdd parses left-associative '+'/'-' chains.
func (p *parser) parseAdd() (*ast.Node, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at('+') || p.at('-') {
		op := ast.Add
		if p.at('-') {
			op = ast.Sub
		}
		p.advance()
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = ast.BinOpE(op, lhs, rhs)
	}
	return lhs, nil
}

// parseMul parses left-associative '*' chains, binding tighter than +/-.
func (p *parser) parseMul() (*ast.Node, error) {
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	for p.at('*') {
		p.advance()
		rhs, err := p.parseApp()
		if err != nil {
			return nil, err
		}
		lhs = ast.BinOpE(ast.Mul, lhs, rhs)
	}
	return lhs, nil
}

// parseApp parses a left-associative application spine of juxtaposed
// atoms: `f x y` is ((f x) y), binding tighter than every binary operator.
func (p *parser) parseApp() (*ast.Node, error) {
	fun, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		fun = ast.AppE(fun, arg)
	}
	return fun, nil
}

// startsAtom reports whether the current token can begin an atom, used to
// decide whether an application spine continues.
func (p *parser) startsAtom() bool {
	switch p.tok.typ {
	case IDENTIFIER, INTEGER, TRUE, FALSE:
		return true
	}
	return p.at('(')
}

func (p *parser) parseAtom() (*ast.Node, error) {
	switch {
	case p.tok.typ == INTEGER:
		v, err := strconv.ParseInt(p.tok.val, 10, 32)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q: %s", p.tok.val, err)
		}
		p.advance()
		return ast.LitE(int32(v)), nil
	case p.tok.typ == TRUE:
		p.advance()
		return ast.LitBoolE(true), nil
	case p.tok.typ == FALSE:
		p.advance()
		return ast.LitBoolE(false), nil
	case p.tok.typ == IDENTIFIER:
		name := p.tok.val
		p.advance()
		return ast.VarE(name), nil
	case p.at('('):
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(r(')'), "')'"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("expected an expression, found %s", p.tok)
	}
}
