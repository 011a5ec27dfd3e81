package codegen

import (
	"testing"

	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
)

func constInt(v int64) *ast.Node {
	return ast.NewConstantInt(tok(token.IntLiteral), v)
}

func varRef(name string) *ast.Node {
	return ast.NewVariableReference(tok(token.Ident), name)
}

func TestEmitAssignmentGlobal(t *testing.T) {
	c, buf := newTestContext()
	declareAndInstall(c, "x", 0)

	c.EmitStatement(ast.NewAssignment(tok(token.Assign), varRef("x"), constInt(7)))
	got := flushLines(c.w, buf)

	last := got[len(got)-1]
	if last != "  sw   t0, 0(t1)" {
		t.Errorf("assignment store = %q, want final sw t0, 0(t1)", last)
	}
}

func declNode(name string, entry *sema.Entry) *ast.Node {
	inner := &ast.Node{Type: ast.Variable, Tok: tok(token.Ident), Data: ast.VariableNode{Name: name, ValType: sema.TypeInteger, Entry: entry}}
	return &ast.Node{Type: ast.Decl, Tok: tok(token.KwVar), Data: ast.DeclNode{Inner: inner}}
}

func TestEmitLocalDeclWithConstInitializer(t *testing.T) {
	c, buf := newTestContext()
	c.enterFunction(0)
	v := int64(9)
	entry := &sema.Entry{Name: "n", Kind: sema.KindVariable, Type: sema.TypeInteger, ConstValue: &v}

	c.EmitStatement(declNode("n", entry))
	got := flushLines(c.w, buf)

	want := []string{"  li   t0, 9", "  sw   t0, -12(s0)"}
	if diff := cmpLines(got, want); diff != "" {
		t.Errorf("local decl with initializer: %s", diff)
	}
}

func TestEmitLocalDeclWithoutInitializer(t *testing.T) {
	c, buf := newTestContext()
	c.enterFunction(0)
	entry := &sema.Entry{Name: "n", Kind: sema.KindVariable, Type: sema.TypeInteger}

	c.EmitStatement(declNode("n", entry))
	got := flushLines(c.w, buf)

	if len(got) != 0 {
		t.Errorf("uninitialized local decl should emit nothing, got %v", got)
	}
	if off, ok := c.localOffsets[entry]; !ok || off != -12 {
		t.Errorf("expected slot -12 allocated regardless of initializer, got %d (ok=%v)", off, ok)
	}
}

func TestEmitReadAndPrint(t *testing.T) {
	c, buf := newTestContext()
	declareAndInstall(c, "x", 0)

	c.EmitStatement(ast.NewRead(tok(token.KwRead), varRef("x")))
	got := flushLines(c.w, buf)
	wantCall := "  jal  ra, readInt"
	found := false
	for _, l := range got {
		if l == wantCall {
			found = true
		}
	}
	if !found {
		t.Errorf("read statement missing call to readInt: %v", got)
	}
	if last := got[len(got)-1]; last != "  sw   a0, 0(t0)" {
		t.Errorf("read statement final store = %q", last)
	}

	c2, buf2 := newTestContext()
	c2.EmitStatement(ast.NewPrint(tok(token.KwPrint), constInt(3)))
	got2 := flushLines(c2.w, buf2)
	if last := got2[len(got2)-1]; last != "  jal  ra, printInt" {
		t.Errorf("print statement final call = %q", last)
	}
}

// TestEmitReturnWithAndWithoutValue checks that a return statement only
// moves its value into a0 and never emits an epilogue of its own: the
// function epilogue runs exactly once, unconditionally, at the end of the
// body (see TestEmitReturnDoesNotDuplicateEpilogue).
func TestEmitReturnWithAndWithoutValue(t *testing.T) {
	c, buf := newTestContext()
	c.EmitStatement(ast.NewReturn(tok(token.KwReturn), constInt(1)))
	got := flushLines(c.w, buf)
	want := []string{"  li   t0, 1", "  addi sp, sp, -4", "  sw   t0, 0(sp)", "  lw   t0, 0(sp)", "  addi sp, sp, 4", "  mv   a0, t0"}
	if diff := cmpLines(got, want); diff != "" {
		t.Errorf("return with value: %s", diff)
	}

	c2, buf2 := newTestContext()
	c2.EmitStatement(ast.NewReturn(tok(token.KwReturn), nil))
	got2 := flushLines(c2.w, buf2)
	if len(got2) != 0 {
		t.Errorf("bare return should emit nothing, got %v", got2)
	}
}

// TestEmitReturnDoesNotDuplicateEpilogue guards against reintroducing a
// per-return epilogue: a function with an early return must emit the
// fixed prologue/epilogue pair exactly once each.
func TestEmitReturnDoesNotDuplicateEpilogue(t *testing.T) {
	c, buf := newTestContext()
	scope := sema.NewTable(1)
	body := ast.NewCompoundStatement(tok(token.KwBegin), []*ast.Node{
		ast.NewReturn(tok(token.KwReturn), constInt(1)),
	}, scope)
	fn := ast.NewFunction(tok(token.KwFunction), "f", nil, body, scope, sema.TypeInteger)

	c.EmitFunction(fn)
	got := flushLines(c.w, buf)

	var jrCount int
	for _, l := range got {
		if l == "  jr   ra" {
			jrCount++
		}
	}
	if jrCount != 1 {
		t.Errorf("expected exactly one jr ra, got %d in %v", jrCount, got)
	}
}

// TestIfElseLabelOrdering pins down the exact branch/jump/label sequence
// and the fact that the else branch's label is allocated before the join
// label, matching the order the two-label if-form requires.
func TestIfElseLabelOrdering(t *testing.T) {
	c, buf := newTestContext()
	cond := constInt(1)
	then := ast.NewPrint(tok(token.KwPrint), constInt(1))
	els := ast.NewPrint(tok(token.KwPrint), constInt(2))
	c.EmitStatement(ast.NewIf(tok(token.KwIf), cond, then, els))
	got := flushLines(c.w, buf)

	var branch, elseLabel, endLabel string
	for _, l := range got {
		if len(l) > 5 && l[2:6] == "beq " {
			branch = l
		}
	}
	if branch != "  beq  t0, zero, L1" {
		t.Errorf("if/else branch = %q, want target L1 (the else label, allocated first)", branch)
	}
	for _, l := range got {
		if l == "L1:" {
			elseLabel = l
		}
		if l == "L2:" {
			endLabel = l
		}
	}
	if elseLabel == "" || endLabel == "" {
		t.Errorf("expected both L1: (else) and L2: (end) labels, got %v", got)
	}
}

func TestIfWithoutElse(t *testing.T) {
	c, buf := newTestContext()
	c.EmitStatement(ast.NewIf(tok(token.KwIf), constInt(1), ast.NewPrint(tok(token.KwPrint), constInt(1)), nil))
	got := flushLines(c.w, buf)
	if got[len(got)-1] != "L1:" {
		t.Errorf("single-branch if: last line = %q, want the single end label", got[len(got)-1])
	}
}

func TestWhileLoopStructure(t *testing.T) {
	c, buf := newTestContext()
	c.EmitStatement(ast.NewWhile(tok(token.KwWhile), constInt(1), ast.NewPrint(tok(token.KwPrint), constInt(1))))
	got := flushLines(c.w, buf)

	if got[0] != "L1:" {
		t.Errorf("while loop head label = %q, want L1:", got[0])
	}
	if got[len(got)-1] != "L2:" {
		t.Errorf("while loop exit label = %q, want L2:", got[len(got)-1])
	}
	if got[len(got)-2] != "  j    L1" {
		t.Errorf("while loop backedge = %q, want jump to L1", got[len(got)-2])
	}
}

// TestForLoopEmitsAndTearsDownScope exercises the for-loop's inlined
// increment and confirms its loop-variable scope is reconstructed and
// removed symmetrically.
func TestForLoopEmitsAndTearsDownScope(t *testing.T) {
	c, buf := newTestContext()
	c.enterFunction(0)

	entry := &sema.Entry{Name: "i", Kind: sema.KindLoopVar, Type: sema.TypeInteger}
	table := sema.NewTable(1)
	table.Declare(entry)

	forNode := ast.NewFor(tok(token.KwFor), "i", constInt(0), constInt(10),
		ast.NewPrint(tok(token.KwPrint), varRef("i")), table)

	c.EmitStatement(forNode)
	got := flushLines(c.w, buf)

	if _, ok := c.mgr.Lookup("i"); ok {
		t.Error("for loop scope should be removed from the manager once emission completes")
	}

	var sawHead, sawExit, sawHeadBeforeExit bool
	for _, l := range got {
		if l == "L1:" {
			sawHead = true
		}
		if l == "L2:" {
			sawExit = true
			sawHeadBeforeExit = sawHead
		}
	}
	if !sawHead || !sawExit || !sawHeadBeforeExit {
		t.Errorf("for-loop should emit head label L1 before exit label L2, got %v", got)
	}

	var addCount int
	for _, l := range got {
		if l == "  add  t0, t1, t0" {
			addCount++
		}
	}
	if addCount != 1 {
		t.Errorf("for-loop increment should emit exactly one add, got %d", addCount)
	}
}

func TestFunctionInvocationStatementDropsResidue(t *testing.T) {
	c, buf := newTestContext()
	call := ast.NewFunctionInvocation(tok(token.Ident), "f", nil)
	c.EmitStatement(call)
	got := flushLines(c.w, buf)

	last := got[len(got)-1]
	if last != "  addi sp, sp, 4" {
		t.Errorf("void-call statement should drop its residue word, last line = %q", last)
	}
}
