package codegen

import (
	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/sema"
)

// emitVariableReference resolves node's identifier against the active
// scope chain and emits one of four sequences depending on whether the
// entry is global (Level 0) or local, and whether the current
// varRefMode calls for an address (Lvalue) or a value (Rvalue). Mode is
// always reset to Rvalue once the reference has been emitted, per the
// frame model's invariant that lvalue mode never survives past the node
// that requested it.
func (c *Context) emitVariableReference(node *ast.Node) {
	vr := node.Data.(ast.VariableReferenceNode)
	entry := c.lookup(node.Tok, vr.Name)

	global := entry.Level == 0
	mode := c.varRefMode
	c.varRefMode = Rvalue

	switch {
	case global && mode == Rvalue:
		c.w.Instr("la   t0, %s", vr.Name)
		c.w.Instr("lw   t0, 0(t0)")
		c.push("t0")
	case global && mode == Lvalue:
		c.w.Instr("la   t0, %s", vr.Name)
		c.push("t0")
	case !global && mode == Rvalue:
		c.w.Instr("lw   t0, %d(s0)", c.offsetOf(entry))
		c.push("t0")
	default: // !global && mode == Lvalue
		c.w.Instr("addi t0, s0, %d", c.offsetOf(entry))
		c.push("t0")
	}
}

// offsetOf returns the frame-pointer-relative offset for a local or
// parameter entry. It panics on a sema.Manager/codegen bookkeeping
// mismatch, which can only arise from a bug in the emitter itself, never
// from user input.
func (c *Context) offsetOf(entry *sema.Entry) int {
	off, ok := c.localOffsets[entry]
	if !ok {
		panic("codegen: local entry has no assigned frame offset: " + entry.Name)
	}
	return off
}
