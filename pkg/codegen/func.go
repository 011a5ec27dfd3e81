package codegen

import (
	"github.com/vela-lang/pscc/pkg/ast"
)

// EmitCompoundStatement reconstructs the block's scope, emits each
// statement in order, then removes the scope again. Declarations made
// inside the block are visible only for its duration.
func (c *Context) EmitCompoundStatement(node *ast.Node) {
	cs := node.Data.(ast.CompoundStatementNode)
	c.mgr.Reconstruct(cs.Scope)
	for _, s := range cs.Stmts {
		c.EmitStatement(s)
	}
	c.mgr.Remove(cs.Scope)
}

// emitPrologue emits the fixed 128-byte frame prologue: allocate the
// frame, save ra and the caller's s0, then set s0 to the frame's own
// base.
func (c *Context) emitPrologue() {
	c.w.Instr("addi sp, sp, -%d", c.cfg.FrameSize)
	c.w.Instr("sw   ra, %d(sp)", c.cfg.SavedRAOffset)
	c.w.Instr("sw   s0, %d(sp)", c.cfg.SavedFPOffset)
	c.w.Instr("addi s0, sp, %d", c.cfg.FrameSize)
}

// emitEpilogueBody restores ra and s0 and returns. It is emitted exactly
// once, unconditionally, at the end of a function's body; an explicit
// return only moves its value into a0 and falls through to this same
// epilogue.
func (c *Context) emitEpilogueBody() {
	c.w.Instr("lw   ra, %d(sp)", c.cfg.SavedRAOffset)
	c.w.Instr("lw   s0, %d(sp)", c.cfg.SavedFPOffset)
	c.w.Instr("addi sp, sp, %d", c.cfg.FrameSize)
	c.w.Instr("jr   ra")
}

func (c *Context) emitFunctionFooter(name string) {
	c.w.Directive(".size %s, .-%s", name, name)
}

// EmitFunction lays down one user-declared function: section directives,
// the fixed prologue, parameter homing into frame slots, the body, and the
// function's single epilogue, emitted unconditionally after the body; an
// explicit return does not jump to it (see emitReturn).
func (c *Context) EmitFunction(node *ast.Node) {
	fn := node.Data.(ast.FunctionNode)
	c.enterFunction(len(fn.Params))

	c.w.Blank()
	c.w.Directive(".section .text")
	c.w.Directive(".align 2")
	c.w.Directive(".globl %s", fn.Name)
	c.w.Directive(".type %s, @function", fn.Name)
	c.w.Label(fn.Name)
	c.emitPrologue()

	for i, p := range fn.Params {
		pv := p.Data.(ast.VariableNode)
		off := c.allocateSlot(p.Tok, pv.Entry)
		c.w.Instr("sw   %s, %d(s0)", paramReg(i), off)
	}

	// fn.Body is a CompoundStatement sharing fn.Scope (the parameter
	// scope doubles as the body scope); its own Reconstruct/Remove
	// installs the bindings the statements below need.
	c.EmitStatement(fn.Body)
	c.emitEpilogueBody()
	c.emitFunctionFooter(fn.Name)
}

// EmitProgram is the top-level driver: it lays down global declarations,
// every user function, and an implicit main that wraps the program's
// compound statement body, matching a freestanding RV32I assembly file
// a human would hand-write for this language.
func (c *Context) EmitProgram(node *ast.Node) {
	p := node.Data.(ast.ProgramNode)

	if c.sourceFile != "" {
		c.w.Directive(".file %q", c.sourceFile)
	}
	c.w.Directive(".option nopic")
	c.mgr.Reconstruct(p.Scope)

	c.globalDecl = true
	for _, d := range p.Decls {
		c.emitGlobalDecl(d)
	}

	for _, f := range p.Funcs {
		c.EmitFunction(f)
	}

	c.enterFunction(0)
	c.w.Blank()
	c.w.Directive(".section .text")
	c.w.Directive(".align 2")
	c.w.Directive(".globl main")
	c.w.Directive(".type main, @function")
	c.w.Label("main")
	c.emitPrologue()
	c.EmitStatement(p.Body)
	c.emitEpilogueBody()
	c.emitFunctionFooter("main")

	c.mgr.Remove(p.Scope)
}

// emitGlobalDecl lays down storage for one top-level variable. A constant
// initializer gets a .rodata .word block; an uninitialized global falls
// back to .comm.
func (c *Context) emitGlobalDecl(node *ast.Node) {
	decl := node.Data.(ast.DeclNode)
	v := decl.Inner.Data.(ast.VariableNode)

	if v.Entry.ConstValue == nil {
		c.w.Directive(".comm %s, %d, %d", v.Name, c.cfg.WordSize, c.cfg.WordSize)
		return
	}
	c.w.Directive(".rodata")
	c.w.Directive(".align 2")
	c.w.Directive(".globl %s", v.Name)
	c.w.Directive(".type %s, @object", v.Name)
	c.w.Label(v.Name)
	c.w.Instr(".word %d", *v.Entry.ConstValue)
}
