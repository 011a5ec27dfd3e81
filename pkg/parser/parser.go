// Package parser is a recursive-descent parser that turns a token stream
// into the AST the code generator walks. It also owns declaration of
// identifiers into the per-scope symbol tables sema.Manager later pushes
// and pops; the code generator only ever consumes that lookup contract,
// never builds it.
package parser

import (
	"strconv"

	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
	"github.com/vela-lang/pscc/pkg/util"
)

type Parser struct {
	tokens []token.Token
	pos    int
	level  int
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token    { return p.tokens[p.pos] }
func (p *Parser) peekType() token.Type { return p.tokens[p.pos].Type }

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(t token.Type) bool { return p.peekType() == t }

func (p *Parser) expect(t token.Type) token.Token {
	if !p.check(t) {
		util.Error(p.peek(), "expected %s but found %s", token.TypeStrings[t], token.TypeStrings[p.peekType()])
	}
	return p.advance()
}

// Parse parses the whole translation unit and returns its Program node.
func (p *Parser) Parse() *ast.Node {
	progTok := p.expect(token.KwProgram)
	p.expect(token.Semi)

	scope := sema.NewTable(p.level)

	var decls []*ast.Node
	for p.check(token.KwVar) {
		decls = append(decls, p.parseDecl(scope))
	}

	var funcs []*ast.Node
	for p.check(token.KwFunction) {
		funcs = append(funcs, p.parseFunction())
	}

	body := p.parseCompoundStatement()
	p.expect(token.Dot)

	return ast.NewProgram(progTok, decls, funcs, body, scope)
}

func (p *Parser) parseType() sema.ValueType {
	switch p.peekType() {
	case token.KwInteger:
		p.advance()
		return sema.TypeInteger
	case token.KwBoolean:
		p.advance()
		return sema.TypeBoolean
	default:
		util.Error(p.peek(), "expected a type name")
		return sema.TypeInteger
	}
}

// parseDecl parses `var name : type [:= constant] ;` and declares the
// variable into scope. The result is wrapped in a Decl node, which visits
// only this one child, mirroring the original tree-walker's pass-through
// declaration wrapper.
func (p *Parser) parseDecl(scope *sema.Table) *ast.Node {
	declTok := p.expect(token.KwVar)
	nameTok := p.expect(token.Ident)
	p.expect(token.Colon)
	valType := p.parseType()

	var init *ast.Node
	var constVal *int64
	if p.check(token.Assign) {
		p.advance()
		init = p.parseConstant(valType)
		v := constantIntValue(init)
		constVal = &v
	}
	p.expect(token.Semi)

	entry := &sema.Entry{Name: nameTok.Value, Kind: sema.KindVariable, Type: valType, ConstValue: constVal}
	scope.Declare(entry)

	v := ast.NewVariable(nameTok, nameTok.Value, valType, init)
	vn := v.Data.(ast.VariableNode)
	vn.Entry = entry
	v.Data = vn

	return ast.NewDecl(declTok, v)
}

func constantIntValue(n *ast.Node) int64 {
	c := n.Data.(ast.ConstantValueNode)
	if c.IsBool {
		if c.BoolVal {
			return 1
		}
		return 0
	}
	return c.IntVal
}

func (p *Parser) parseConstant(valType sema.ValueType) *ast.Node {
	switch p.peekType() {
	case token.KwTrue:
		tok := p.advance()
		return ast.NewConstantBool(tok, true)
	case token.KwFalse:
		tok := p.advance()
		return ast.NewConstantBool(tok, false)
	case token.Minus:
		p.advance()
		tok := p.expect(token.IntLiteral)
		v, _ := strconv.ParseInt(tok.Value, 10, 64)
		return ast.NewConstantInt(tok, -v)
	case token.IntLiteral:
		tok := p.advance()
		v, _ := strconv.ParseInt(tok.Value, 10, 64)
		return ast.NewConstantInt(tok, v)
	default:
		util.Error(p.peek(), "expected a constant value")
		return nil
	}
}

func (p *Parser) parseFunction() *ast.Node {
	fnTok := p.expect(token.KwFunction)
	nameTok := p.expect(token.Ident)
	p.expect(token.LParen)

	p.level++
	scope := sema.NewTable(p.level)

	var params []*ast.Node
	if !p.check(token.RParen) {
		params = append(params, p.parseParam(scope, len(params)))
		for p.check(token.Comma) {
			p.advance()
			params = append(params, p.parseParam(scope, len(params)))
		}
	}
	p.expect(token.RParen)

	ret := sema.TypeVoid
	if p.check(token.Colon) {
		p.advance()
		ret = p.parseType()
	}
	p.expect(token.Semi)

	body := p.parseCompoundStatementWithScope(scope)
	p.expect(token.Semi)
	p.level--

	return ast.NewFunction(fnTok, nameTok.Value, params, body, scope, ret)
}

func (p *Parser) parseParam(scope *sema.Table, index int) *ast.Node {
	nameTok := p.expect(token.Ident)
	p.expect(token.Colon)
	valType := p.parseType()

	entry := &sema.Entry{Name: nameTok.Value, Kind: sema.KindParameter, Type: valType}
	scope.Declare(entry)

	n := ast.NewParam(nameTok, nameTok.Value, valType, index)
	vn := n.Data.(ast.VariableNode)
	vn.Entry = entry
	n.Data = vn
	return n
}

// parseCompoundStatement opens its own nested scope.
func (p *Parser) parseCompoundStatement() *ast.Node {
	p.level++
	scope := sema.NewTable(p.level)
	n := p.parseCompoundStatementWithScope(scope)
	p.level--
	return n
}

// parseCompoundStatementWithScope reuses a scope a caller already opened
// (a function's parameter scope doubles as its body scope).
func (p *Parser) parseCompoundStatementWithScope(scope *sema.Table) *ast.Node {
	beginTok := p.expect(token.KwBegin)

	var stmts []*ast.Node
	for p.check(token.KwVar) {
		stmts = append(stmts, p.parseDecl(scope))
	}
	for !p.check(token.KwEnd) {
		stmts = append(stmts, p.parseStatement(scope))
		if p.check(token.Semi) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.KwEnd)

	return ast.NewCompoundStatement(beginTok, stmts, scope)
}

func (p *Parser) parseStatement(scope *sema.Table) *ast.Node {
	switch p.peekType() {
	case token.KwBegin:
		return p.parseCompoundStatement()
	case token.KwIf:
		return p.parseIf(scope)
	case token.KwWhile:
		return p.parseWhile(scope)
	case token.KwFor:
		return p.parseFor(scope)
	case token.KwRead:
		return p.parseRead()
	case token.KwPrint:
		return p.parsePrint(scope)
	case token.KwReturn:
		return p.parseReturn(scope)
	case token.Ident:
		return p.parseAssignmentOrCall(scope)
	default:
		util.Error(p.peek(), "unexpected token %s at start of statement", token.TypeStrings[p.peekType()])
		return nil
	}
}

func (p *Parser) parseIf(scope *sema.Table) *ast.Node {
	tok := p.expect(token.KwIf)
	cond := p.parseExpr(scope)
	p.expect(token.KwThen)
	then := p.parseStatement(scope)
	var els *ast.Node
	if p.check(token.KwElse) {
		p.advance()
		els = p.parseStatement(scope)
	}
	return ast.NewIf(tok, cond, then, els)
}

func (p *Parser) parseWhile(scope *sema.Table) *ast.Node {
	tok := p.expect(token.KwWhile)
	cond := p.parseExpr(scope)
	p.expect(token.KwDo)
	body := p.parseStatement(scope)
	return ast.NewWhile(tok, cond, body)
}

func (p *Parser) parseFor(scope *sema.Table) *ast.Node {
	tok := p.expect(token.KwFor)
	nameTok := p.expect(token.Ident)
	p.expect(token.Assign)
	start := p.parseExpr(scope)
	p.expect(token.KwTo)
	end := p.parseExpr(scope)
	p.expect(token.KwDo)

	p.level++
	forScope := sema.NewTable(p.level)
	forScope.Declare(&sema.Entry{Name: nameTok.Value, Kind: sema.KindLoopVar, Type: sema.TypeInteger})
	body := p.parseStatement(forScope)
	p.level--

	return ast.NewFor(tok, nameTok.Value, start, end, body, forScope)
}

func (p *Parser) parseRead() *ast.Node {
	tok := p.expect(token.KwRead)
	p.expect(token.LParen)
	nameTok := p.expect(token.Ident)
	p.expect(token.RParen)
	target := ast.NewVariableReference(nameTok, nameTok.Value)
	return ast.NewRead(tok, target)
}

func (p *Parser) parsePrint(scope *sema.Table) *ast.Node {
	tok := p.expect(token.KwPrint)
	expr := p.parseExpr(scope)
	return ast.NewPrint(tok, expr)
}

func (p *Parser) parseReturn(scope *sema.Table) *ast.Node {
	tok := p.expect(token.KwReturn)
	expr := p.parseExpr(scope)
	return ast.NewReturn(tok, expr)
}

func (p *Parser) parseAssignmentOrCall(scope *sema.Table) *ast.Node {
	nameTok := p.advance()
	if p.check(token.LParen) {
		return p.finishCall(nameTok)
	}
	p.expect(token.Assign)
	rhs := p.parseExpr(scope)
	lhs := ast.NewVariableReference(nameTok, nameTok.Value)
	return ast.NewAssignment(nameTok, lhs, rhs)
}

// --- Expressions ---
// Precedence, lowest to highest: relational, additive (+ - or), multiplicative (* / mod and).

func (p *Parser) parseExpr(scope *sema.Table) *ast.Node {
	left := p.parseSimpleExpr(scope)
	switch p.peekType() {
	case token.Lt, token.Lte, token.Gt, token.Gte, token.Eq, token.Neq:
		opTok := p.advance()
		right := p.parseSimpleExpr(scope)
		return ast.NewBinaryOp(opTok, opTok.Type, left, right)
	default:
		return left
	}
}

func (p *Parser) parseSimpleExpr(scope *sema.Table) *ast.Node {
	left := p.parseTerm(scope)
	for p.peekType() == token.Plus || p.peekType() == token.Minus || p.peekType() == token.KwOr {
		opTok := p.advance()
		right := p.parseTerm(scope)
		left = ast.NewBinaryOp(opTok, opTok.Type, left, right)
	}
	return left
}

func (p *Parser) parseTerm(scope *sema.Table) *ast.Node {
	left := p.parseFactor(scope)
	for p.peekType() == token.Star || p.peekType() == token.Slash || p.peekType() == token.KwMod || p.peekType() == token.KwAnd {
		opTok := p.advance()
		right := p.parseFactor(scope)
		left = ast.NewBinaryOp(opTok, opTok.Type, left, right)
	}
	return left
}

func (p *Parser) parseFactor(scope *sema.Table) *ast.Node {
	switch p.peekType() {
	case token.IntLiteral:
		tok := p.advance()
		v, _ := strconv.ParseInt(tok.Value, 10, 64)
		return ast.NewConstantInt(tok, v)
	case token.KwTrue:
		tok := p.advance()
		return ast.NewConstantBool(tok, true)
	case token.KwFalse:
		tok := p.advance()
		return ast.NewConstantBool(tok, false)
	case token.Minus:
		tok := p.advance()
		expr := p.parseFactor(scope)
		return ast.NewUnaryOp(tok, token.Minus, expr)
	case token.KwNot:
		tok := p.advance()
		expr := p.parseFactor(scope)
		return ast.NewUnaryOp(tok, token.KwNot, expr)
	case token.LParen:
		p.advance()
		expr := p.parseExpr(scope)
		p.expect(token.RParen)
		return expr
	case token.Ident:
		nameTok := p.advance()
		if p.check(token.LParen) {
			return p.finishCall(nameTok)
		}
		return ast.NewVariableReference(nameTok, nameTok.Value)
	default:
		util.Error(p.peek(), "unexpected token %s in expression", token.TypeStrings[p.peekType()])
		return nil
	}
}

func (p *Parser) finishCall(nameTok token.Token) *ast.Node {
	p.expect(token.LParen)
	var args []*ast.Node
	if !p.check(token.RParen) {
		args = append(args, p.parseExpr(nil))
		for p.check(token.Comma) {
			p.advance()
			args = append(args, p.parseExpr(nil))
		}
	}
	p.expect(token.RParen)
	return ast.NewFunctionInvocation(nameTok, nameTok.Value, args)
}
