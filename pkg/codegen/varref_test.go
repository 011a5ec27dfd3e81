package codegen

import (
	"strconv"
	"testing"

	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
)

func declareAndInstall(c *Context, name string, level int) *sema.Entry {
	table := sema.NewTable(level)
	entry := &sema.Entry{Name: name, Kind: sema.KindVariable, Type: sema.TypeInteger}
	table.Declare(entry)
	c.mgr.Reconstruct(table)
	return entry
}

func TestVariableReferenceGlobalRvalue(t *testing.T) {
	c, buf := newTestContext()
	declareAndInstall(c, "counter", 0)

	c.varRefMode = Rvalue
	c.emitVariableReference(&ast.Node{Tok: tok(token.Ident), Data: ast.VariableReferenceNode{Name: "counter"}})

	got := flushLines(c.w, buf)
	want := []string{"  la   t0, counter", "  lw   t0, 0(t0)", "  addi sp, sp, -4", "  sw   t0, 0(sp)"}
	if diff := cmpLines(got, want); diff != "" {
		t.Errorf("global rvalue: %s", diff)
	}
	if c.varRefMode != Rvalue {
		t.Error("varRefMode must reset to Rvalue after emission")
	}
}

func TestVariableReferenceGlobalLvalue(t *testing.T) {
	c, buf := newTestContext()
	declareAndInstall(c, "counter", 0)

	c.varRefMode = Lvalue
	c.emitVariableReference(&ast.Node{Tok: tok(token.Ident), Data: ast.VariableReferenceNode{Name: "counter"}})

	got := flushLines(c.w, buf)
	want := []string{"  la   t0, counter", "  addi sp, sp, -4", "  sw   t0, 0(sp)"}
	if diff := cmpLines(got, want); diff != "" {
		t.Errorf("global lvalue: %s", diff)
	}
	if c.varRefMode != Rvalue {
		t.Error("varRefMode must reset to Rvalue after emission, even for an lvalue reference")
	}
}

func TestVariableReferenceLocalRvalue(t *testing.T) {
	c, buf := newTestContext()
	entry := declareAndInstall(c, "x", 1)
	c.enterFunction(0)
	off := c.allocateSlot(tok(token.Ident), entry)

	c.varRefMode = Rvalue
	c.emitVariableReference(&ast.Node{Tok: tok(token.Ident), Data: ast.VariableReferenceNode{Name: "x"}})

	got := flushLines(c.w, buf)
	wantLoad := "  lw   t0, " + strconv.Itoa(off) + "(s0)"
	if got[0] != wantLoad {
		t.Errorf("local rvalue load = %q, want %q", got[0], wantLoad)
	}
}

func TestVariableReferenceLocalLvalue(t *testing.T) {
	c, buf := newTestContext()
	entry := declareAndInstall(c, "x", 1)
	c.enterFunction(0)
	off := c.allocateSlot(tok(token.Ident), entry)

	c.varRefMode = Lvalue
	c.emitVariableReference(&ast.Node{Tok: tok(token.Ident), Data: ast.VariableReferenceNode{Name: "x"}})

	got := flushLines(c.w, buf)
	wantAddr := "  addi t0, s0, " + strconv.Itoa(off)
	if got[0] != wantAddr {
		t.Errorf("local lvalue address = %q, want %q", got[0], wantAddr)
	}
}

func TestOffsetOfPanicsOnUnknownEntry(t *testing.T) {
	c, _ := newTestContext()
	defer func() {
		if recover() == nil {
			t.Error("offsetOf should panic for an entry with no assigned frame offset")
		}
	}()
	c.offsetOf(&sema.Entry{Name: "ghost"})
}
