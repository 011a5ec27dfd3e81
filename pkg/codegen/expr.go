package codegen

import (
	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/token"
	"github.com/vela-lang/pscc/pkg/util"
)

// EmitExpr visits an expression node, leaving exactly one 4-byte word on
// top of the stack when it returns.
func (c *Context) EmitExpr(node *ast.Node) {
	switch node.Type {
	case ast.ConstantValue:
		c.emitConstant(node)
	case ast.BinaryOp:
		c.emitBinaryOp(node)
	case ast.UnaryOp:
		c.emitUnaryOp(node)
	case ast.FunctionInvocation:
		c.emitFunctionInvocation(node)
	case ast.VariableReference:
		c.emitVariableReference(node)
	default:
		util.Error(node.Tok, "internal: node of type %v is not a valid expression", node.Type)
	}
}

func (c *Context) emitConstant(node *ast.Node) {
	cv := node.Data.(ast.ConstantValueNode)
	lit := cv.IntVal
	if cv.IsBool {
		if cv.BoolVal {
			lit = 1
		} else {
			lit = 0
		}
	}
	c.w.Instr("li   t0, %d", lit)
	c.push("t0")
}

// binOpTable maps a binary operator token to the RV32I/M instruction
// mnemonic used for the common arithmetic and bitwise cases. Relational
// operators that need more than one instruction are handled separately in
// emitBinaryOp.
var binOpTable = map[token.Type]string{
	token.Plus:  "add",
	token.Minus: "sub",
	token.Star:  "mul",
	token.Slash: "div",
	token.KwMod: "rem",
	token.KwAnd: "and",
	token.KwOr:  "or",
}

func (c *Context) emitBinaryOp(node *ast.Node) {
	b := node.Data.(ast.BinaryOpNode)
	c.EmitExpr(b.Left)
	c.EmitExpr(b.Right)
	// rhs was pushed last, so it is popped first.
	c.pop("t0")
	c.pop("t1")

	switch b.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.KwMod, token.KwAnd, token.KwOr:
		c.w.Instr("%s  t0, t1, t0", binOpTable[b.Op])
	case token.Lt:
		c.w.Instr("slt  t0, t1, t0")
	case token.Lte:
		c.w.Instr("slt  t0, t0, t1")
		c.w.Instr("xori t0, t0, 1")
	case token.Gt:
		c.w.Instr("slt  t0, t0, t1")
	case token.Gte:
		c.w.Instr("slt  t0, t1, t0")
		c.w.Instr("xori t0, t0, 1")
	case token.Eq:
		c.w.Instr("slt  t2, t1, t0")
		c.w.Instr("slt  t3, t0, t1")
		c.w.Instr("or   t0, t2, t3")
		c.w.Instr("xori t0, t0, 1")
	case token.Neq:
		c.w.Instr("slt  t2, t1, t0")
		c.w.Instr("slt  t3, t0, t1")
		c.w.Instr("or   t0, t2, t3")
	default:
		util.Error(node.Tok, "internal: unsupported binary operator %v", b.Op)
	}
	c.push("t0")
}

func (c *Context) emitUnaryOp(node *ast.Node) {
	u := node.Data.(ast.UnaryOpNode)
	c.EmitExpr(u.Expr)
	c.pop("t0")
	switch u.Op {
	case token.Minus:
		c.w.Instr("sub  t0, zero, t0")
	case token.KwNot:
		c.w.Instr("xori t0, t0, 1")
	default:
		util.Error(node.Tok, "internal: unsupported unary operator %v", u.Op)
	}
	c.push("t0")
}

// emitFunctionInvocation visits each argument in source order, then pops
// them in reverse (highest index first) into the argument registers so
// that argument 0 ends up popped, and thus loaded, last. A call always
// pushes a0 as its result word, even when the callee is void and the
// invocation appears as a standalone statement; see the design note on
// void-call stack residue.
func (c *Context) emitFunctionInvocation(node *ast.Node) {
	fi := node.Data.(ast.FunctionInvocationNode)
	for _, arg := range fi.Args {
		c.EmitExpr(arg)
	}
	for i := len(fi.Args) - 1; i >= 0; i-- {
		c.pop(paramReg(i))
	}
	c.w.Instr("jal  ra, %s", fi.Name)
	c.push("a0")
}
