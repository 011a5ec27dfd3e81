// Package token defines the lexical token kinds produced by the lexer and
// consumed by the parser.
package token

type Type int

const (
	EOF Type = iota
	Ident
	IntLiteral

	KwProgram
	KwVar
	KwBegin
	KwEnd
	KwFunction
	KwIf
	KwThen
	KwElse
	KwWhile
	KwDo
	KwFor
	KwTo
	KwRead
	KwPrint
	KwReturn
	KwAnd
	KwOr
	KwNot
	KwTrue
	KwFalse
	KwInteger
	KwBoolean

	Plus
	Minus
	Star
	Slash
	KwMod

	Lt
	Lte
	Gt
	Gte
	Eq
	Neq

	Assign // :=
	Colon
	Semi
	Comma
	Dot
	LParen
	RParen
)

var KeywordMap = map[string]Type{
	"program":  KwProgram,
	"var":      KwVar,
	"begin":    KwBegin,
	"end":      KwEnd,
	"function": KwFunction,
	"if":       KwIf,
	"then":     KwThen,
	"else":     KwElse,
	"while":    KwWhile,
	"do":       KwDo,
	"for":      KwFor,
	"to":       KwTo,
	"read":     KwRead,
	"print":    KwPrint,
	"return":   KwReturn,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"true":     KwTrue,
	"false":    KwFalse,
	"integer":  KwInteger,
	"boolean":  KwBoolean,
	"mod":      KwMod,
}

// TypeStrings gives a human-readable name for diagnostics.
var TypeStrings = map[Type]string{
	EOF:        "EOF",
	Ident:      "identifier",
	IntLiteral: "integer literal",
	Assign:     ":=",
	Colon:      ":",
	Semi:       ";",
	Comma:      ",",
	Dot:        ".",
	LParen:     "(",
	RParen:     ")",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Lt:         "<",
	Lte:        "<=",
	Gt:         ">",
	Gte:        ">=",
	Eq:         "=",
	Neq:        "<>",
}

func init() {
	for str, typ := range KeywordMap {
		if _, ok := TypeStrings[typ]; !ok {
			TypeStrings[typ] = str
		}
	}
}

// Token is a single lexical unit with its source position.
type Token struct {
	Type      Type
	Value     string
	FileIndex int
	Line      int
	Column    int
	Len       int
}
