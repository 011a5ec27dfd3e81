package codegen

import (
	"github.com/vela-lang/pscc/pkg/ast"
)

// EmitStatement visits a single statement node. Statements never leave
// anything on the stack once they return; every push they perform during
// evaluation is matched by a pop before control returns to the caller.
func (c *Context) EmitStatement(node *ast.Node) {
	switch node.Type {
	case ast.Decl:
		c.emitLocalDecl(node)
	case ast.Assignment:
		c.emitAssignment(node)
	case ast.Read:
		c.emitRead(node)
	case ast.Print:
		c.emitPrint(node)
	case ast.Return:
		c.emitReturn(node)
	case ast.If:
		c.emitIf(node)
	case ast.While:
		c.emitWhile(node)
	case ast.For:
		c.emitFor(node)
	case ast.CompoundStatement:
		c.EmitCompoundStatement(node)
	case ast.FunctionInvocation:
		// A call used as a statement still leaves a0 on the stack; drop it.
		c.EmitExpr(node)
		c.w.Instr("addi sp, sp, %d", c.cfg.WordSize)
	default:
		c.EmitExpr(node)
	}
}

// emitLocalDecl allocates a frame slot for a variable declared inside a
// function body (or implicit main), spilling its constant initializer if
// it has one.
func (c *Context) emitLocalDecl(node *ast.Node) {
	decl := node.Data.(ast.DeclNode)
	v := decl.Inner.Data.(ast.VariableNode)
	off := c.allocateSlot(decl.Inner.Tok, v.Entry)
	if v.Entry.ConstValue != nil {
		c.w.Instr("li   t0, %d", *v.Entry.ConstValue)
		c.w.Instr("sw   t0, %d(s0)", off)
	}
}

func (c *Context) emitAssignment(node *ast.Node) {
	a := node.Data.(ast.AssignmentNode)
	c.varRefMode = Lvalue
	c.EmitExpr(a.Lhs)
	c.EmitExpr(a.Rhs)
	c.pop("t0") // rhs value
	c.pop("t1") // lhs address
	c.w.Instr("sw   t0, 0(t1)")
}

func (c *Context) emitRead(node *ast.Node) {
	r := node.Data.(ast.ReadNode)
	c.varRefMode = Lvalue
	c.EmitExpr(r.Target)
	c.w.Instr("jal  ra, readInt")
	c.pop("t0") // target address
	c.w.Instr("sw   a0, 0(t0)")
}

func (c *Context) emitPrint(node *ast.Node) {
	p := node.Data.(ast.PrintNode)
	c.EmitExpr(p.Expr)
	c.pop("a0")
	c.w.Instr("jal  ra, printInt")
}

// emitReturn only moves the return value into a0; the epilogue that
// actually exits the function is emitted once, unconditionally, at the
// end of the function body.
func (c *Context) emitReturn(node *ast.Node) {
	r := node.Data.(ast.ReturnNode)
	if r.Expr != nil {
		c.EmitExpr(r.Expr)
		c.pop("t0")
		c.w.Instr("mv   a0, t0")
	}
}

func (c *Context) emitIf(node *ast.Node) {
	in := node.Data.(ast.IfNode)
	c.EmitExpr(in.Cond)
	c.pop("t0")

	if in.Else == nil {
		lend := c.NewLabel()
		c.w.Instr("beq  t0, zero, %s", lend)
		c.EmitStatement(in.Then)
		c.w.Label(lend)
		return
	}

	lelse := c.NewLabel()
	lend := c.NewLabel()
	c.w.Instr("beq  t0, zero, %s", lelse)
	c.EmitStatement(in.Then)
	c.w.Instr("j    %s", lend)
	c.w.Label(lelse)
	c.EmitStatement(in.Else)
	c.w.Label(lend)
}

func (c *Context) emitWhile(node *ast.Node) {
	wn := node.Data.(ast.WhileNode)
	lhead := c.NewLabel()
	lexit := c.NewLabel()
	c.w.Label(lhead)
	c.EmitExpr(wn.Cond)
	c.pop("t0")
	c.w.Instr("beq  t0, zero, %s", lexit)
	c.EmitStatement(wn.Body)
	c.w.Instr("j    %s", lhead)
	c.w.Label(lexit)
}

// emitFor implements the fully inlined for-loop: the loop variable gets
// its own frame slot in a scope reconstructed for the duration of the
// loop, the bound is re-evaluated every iteration, and the increment is
// expressed with the same address/value/literal/add/store sequence an
// explicit "i := i + 1" assignment would use, rather than a dedicated
// increment instruction.
func (c *Context) emitFor(node *ast.Node) {
	fn := node.Data.(ast.ForNode)
	c.mgr.Reconstruct(fn.Scope)
	entry := c.lookup(node.Tok, fn.VarName)
	c.allocateSlot(node.Tok, entry)
	loopVar := ast.NewVariableReference(node.Tok, fn.VarName)

	c.varRefMode = Lvalue
	c.EmitExpr(loopVar)
	c.EmitExpr(fn.Start)
	c.pop("t0")
	c.pop("t1")
	c.w.Instr("sw   t0, 0(t1)")

	lhead := c.NewLabel()
	lexit := c.NewLabel()
	c.w.Label(lhead)

	c.varRefMode = Rvalue
	c.EmitExpr(loopVar)
	c.EmitExpr(fn.End)
	c.pop("t0") // bound
	c.pop("t1") // current value
	c.w.Instr("bge  t1, t0, %s", lexit)

	c.EmitStatement(fn.Body)

	// Inlined i := i + 1: address, value, literal 1, add, store, exactly
	// the sequence an explicit assignment would produce.
	c.varRefMode = Lvalue
	c.EmitExpr(loopVar)
	c.varRefMode = Rvalue
	c.EmitExpr(loopVar)
	c.w.Instr("li   t0, 1")
	c.push("t0")
	c.pop("t0")
	c.pop("t1")
	c.w.Instr("add  t0, t1, t0")
	c.push("t0")
	c.pop("t0")
	c.pop("t1")
	c.w.Instr("sw   t0, 0(t1)")

	c.w.Instr("j    %s", lhead)
	c.w.Label(lexit)
	c.mgr.Remove(fn.Scope)
}
