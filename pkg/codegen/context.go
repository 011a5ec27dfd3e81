// Package codegen walks a fully elaborated program tree and emits RV32I
// (+ M extension) GNU-assembler text. The evaluation discipline is a
// stack machine built directly on the real machine stack (sp): every
// expression node, once visited, leaves exactly one 4-byte word on top of
// it, whether that word is a value (rvalue mode) or an address (lvalue
// mode).
package codegen

import (
	"fmt"

	"github.com/vela-lang/pscc/pkg/config"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
	"github.com/vela-lang/pscc/pkg/util"
)

// VarRefMode governs how the next VariableReference node is emitted.
type VarRefMode int

const (
	Rvalue VarRefMode = iota
	Lvalue
)

// Context is the single emitter value threaded through the traversal. Its
// fields are exactly the frame model: fpOffset, localOffsets, globalDecl,
// paramCount/paramRegIndex, labelCounter, and varRefMode.
type Context struct {
	cfg *config.Config
	mgr *sema.Manager
	w   *AsmWriter

	fpOffset      int
	localOffsets  map[*sema.Entry]int
	globalDecl    bool
	paramCount    int
	paramRegIndex int
	labelCounter  int
	varRefMode    VarRefMode

	sourceFile string
}

// SetSourceFile records the name the .file directive should carry at the
// top of the emitted assembly.
func (c *Context) SetSourceFile(name string) {
	c.sourceFile = name
}

func NewContext(cfg *config.Config, mgr *sema.Manager, w *AsmWriter) *Context {
	return &Context{
		cfg:          cfg,
		mgr:          mgr,
		w:            w,
		globalDecl:   true,
		localOffsets: make(map[*sema.Entry]int),
	}
}

// NewLabel returns the next label in the monotonic L1, L2, ... sequence.
// Labels are never recycled, even across functions.
func (c *Context) NewLabel() string {
	c.labelCounter++
	return fmt.Sprintf("L%d", c.labelCounter)
}

// enterFunction resets the per-function frame bookkeeping fields on entry
// to a function body (or the implicit main).
func (c *Context) enterFunction(paramCount int) {
	c.fpOffset = -8
	c.globalDecl = false
	c.localOffsets = make(map[*sema.Entry]int)
	c.paramCount = paramCount
	c.paramRegIndex = 0
}

// allocateSlot reserves the next 4-byte local/parameter slot and records
// its offset against entry. Exceeding the fixed 128-byte frame (the
// portion below the saved ra/s0 pair) is a fatal diagnosed error.
func (c *Context) allocateSlot(tok token.Token, entry *sema.Entry) int {
	c.fpOffset -= c.cfg.WordSize
	if c.fpOffset < -c.cfg.FrameSize {
		util.Error(tok, "function frame exceeded fixed size of %d bytes", c.cfg.FrameSize)
	}
	c.localOffsets[entry] = c.fpOffset
	return c.fpOffset
}

// paramReg returns the register an incoming parameter of the given
// 0-based index is homed in. Indices 0..7 use a0..a7; indices 8..11 use
// s8..s11 — this back end's non-standard convention, preserved
// bug-for-bug rather than "fixed" to the standard RISC-V calling
// convention.
func paramReg(index int) string {
	if index < 8 {
		return fmt.Sprintf("a%d", index)
	}
	return fmt.Sprintf("s%d", index)
}

func (c *Context) lookup(tok token.Token, name string) *sema.Entry {
	entry, ok := c.mgr.Lookup(name)
	if !ok {
		util.Error(tok, "undeclared identifier '%s'", name)
	}
	return entry
}

// push emits the stack-machine push of a register: decrement sp by one
// word and store the register there.
func (c *Context) push(reg string) {
	c.w.Instr("addi sp, sp, -%d", c.cfg.WordSize)
	c.w.Instr("sw   %s, 0(sp)", reg)
}

// pop emits the stack-machine pop into a register: load from the top of
// stack and increment sp by one word.
func (c *Context) pop(reg string) {
	c.w.Instr("lw   %s, 0(sp)", reg)
	c.w.Instr("addi sp, sp, %d", c.cfg.WordSize)
}
