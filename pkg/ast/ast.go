// Package ast defines the tagged-variant tree the code generator walks.
// Every variant listed in the specification this compiler implements is
// present here: Program, Decl, Variable, ConstantValue, Function,
// CompoundStatement, Print, BinaryOp, UnaryOp, FunctionInvocation,
// VariableReference, Assignment, Read, If, While, For, Return.
package ast

import (
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
)

// NodeType tags which variant a Node's Data field holds.
type NodeType int

const (
	Program NodeType = iota
	Decl
	Variable
	ConstantValue
	Function
	CompoundStatement
	Print
	BinaryOp
	UnaryOp
	FunctionInvocation
	VariableReference
	Assignment
	Read
	If
	While
	For
	Return
)

// Node is a single tree node: its variant tag, the token it was built
// from (for diagnostics), its parent, the variant-specific payload, and
// the semantic type the front end attached to it (for expression nodes).
type Node struct {
	Type   NodeType
	Tok    token.Token
	Parent *Node
	Data   interface{}
	Typ    sema.ValueType
}

// --- Variant payloads ---

type ProgramNode struct {
	Decls []*Node
	Funcs []*Node
	Body  *Node
	Scope *sema.Table
}

// DeclNode wraps a single top-level declaration; it carries no behavior of
// its own beyond forwarding to its child.
type DeclNode struct {
	Inner *Node
}

type VariableNode struct {
	Name       string
	ValType    sema.ValueType
	Init       *Node // optional constant initializer
	IsParam    bool
	ParamIndex int
	Entry      *sema.Entry
}

type ConstantValueNode struct {
	Text    string
	IntVal  int64
	BoolVal bool
	IsBool  bool
}

type FunctionNode struct {
	Name       string
	Params     []*Node
	Body       *Node
	Scope      *sema.Table
	ReturnType sema.ValueType
}

type CompoundStatementNode struct {
	Stmts []*Node
	Scope *sema.Table
}

type PrintNode struct{ Expr *Node }

type BinaryOpNode struct {
	Op          token.Type
	Left, Right *Node
}

type UnaryOpNode struct {
	Op   token.Type
	Expr *Node
}

type FunctionInvocationNode struct {
	Name string
	Args []*Node
}

type VariableReferenceNode struct {
	Name string
}

type AssignmentNode struct{ Lhs, Rhs *Node }

type ReadNode struct{ Target *Node }

type IfNode struct{ Cond, Then, Else *Node }

type WhileNode struct{ Cond, Body *Node }

type ForNode struct {
	VarName    string
	Start, End *Node
	Body       *Node
	Scope      *sema.Table
}

type ReturnNode struct{ Expr *Node }

// --- Constructors ---

func newNode(tok token.Token, t NodeType, data interface{}, children ...*Node) *Node {
	n := &Node{Type: t, Tok: tok, Data: data}
	for _, c := range children {
		if c != nil {
			c.Parent = n
		}
	}
	return n
}

func NewProgram(tok token.Token, decls, funcs []*Node, body *Node, scope *sema.Table) *Node {
	n := newNode(tok, Program, ProgramNode{Decls: decls, Funcs: funcs, Body: body, Scope: scope}, body)
	for _, d := range decls {
		d.Parent = n
	}
	for _, f := range funcs {
		f.Parent = n
	}
	return n
}

func NewDecl(tok token.Token, inner *Node) *Node {
	return newNode(tok, Decl, DeclNode{Inner: inner}, inner)
}

func NewVariable(tok token.Token, name string, valType sema.ValueType, init *Node) *Node {
	return newNode(tok, Variable, VariableNode{Name: name, ValType: valType, Init: init}, init)
}

func NewParam(tok token.Token, name string, valType sema.ValueType, index int) *Node {
	return newNode(tok, Variable, VariableNode{Name: name, ValType: valType, IsParam: true, ParamIndex: index})
}

func NewConstantInt(tok token.Token, v int64) *Node {
	return newNode(tok, ConstantValue, ConstantValueNode{Text: tok.Value, IntVal: v})
}

func NewConstantBool(tok token.Token, v bool) *Node {
	return newNode(tok, ConstantValue, ConstantValueNode{Text: tok.Value, BoolVal: v, IsBool: true})
}

func NewFunction(tok token.Token, name string, params []*Node, body *Node, scope *sema.Table, ret sema.ValueType) *Node {
	n := newNode(tok, Function, FunctionNode{Name: name, Params: params, Body: body, Scope: scope, ReturnType: ret}, body)
	for _, p := range params {
		p.Parent = n
	}
	return n
}

func NewCompoundStatement(tok token.Token, stmts []*Node, scope *sema.Table) *Node {
	n := newNode(tok, CompoundStatement, CompoundStatementNode{Stmts: stmts, Scope: scope})
	for _, s := range stmts {
		s.Parent = n
	}
	return n
}

func NewPrint(tok token.Token, expr *Node) *Node {
	return newNode(tok, Print, PrintNode{Expr: expr}, expr)
}

func NewBinaryOp(tok token.Token, op token.Type, left, right *Node) *Node {
	return newNode(tok, BinaryOp, BinaryOpNode{Op: op, Left: left, Right: right}, left, right)
}

func NewUnaryOp(tok token.Token, op token.Type, expr *Node) *Node {
	return newNode(tok, UnaryOp, UnaryOpNode{Op: op, Expr: expr}, expr)
}

func NewFunctionInvocation(tok token.Token, name string, args []*Node) *Node {
	n := newNode(tok, FunctionInvocation, FunctionInvocationNode{Name: name, Args: args})
	for _, a := range args {
		a.Parent = n
	}
	return n
}

func NewVariableReference(tok token.Token, name string) *Node {
	return newNode(tok, VariableReference, VariableReferenceNode{Name: name})
}

func NewAssignment(tok token.Token, lhs, rhs *Node) *Node {
	return newNode(tok, Assignment, AssignmentNode{Lhs: lhs, Rhs: rhs}, lhs, rhs)
}

func NewRead(tok token.Token, target *Node) *Node {
	return newNode(tok, Read, ReadNode{Target: target}, target)
}

func NewIf(tok token.Token, cond, then, els *Node) *Node {
	return newNode(tok, If, IfNode{Cond: cond, Then: then, Else: els}, cond, then, els)
}

func NewWhile(tok token.Token, cond, body *Node) *Node {
	return newNode(tok, While, WhileNode{Cond: cond, Body: body}, cond, body)
}

func NewFor(tok token.Token, varName string, start, end, body *Node, scope *sema.Table) *Node {
	return newNode(tok, For, ForNode{VarName: varName, Start: start, End: end, Body: body, Scope: scope}, start, end, body)
}

func NewReturn(tok token.Token, expr *Node) *Node {
	return newNode(tok, Return, ReturnNode{Expr: expr}, expr)
}
