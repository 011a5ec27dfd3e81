// Package lexer turns Pascal-like source text into a token stream for the
// parser.
package lexer

import (
	"strconv"
	"unicode"

	"github.com/vela-lang/pscc/pkg/token"
	"github.com/vela-lang/pscc/pkg/util"
)

type Lexer struct {
	source    []rune
	fileIndex int
	pos       int
	line      int
	column    int
}

func NewLexer(source []rune, fileIndex int) *Lexer {
	return &Lexer{source: source, fileIndex: fileIndex, line: 1, column: 1}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '{':
			for !l.isAtEnd() && l.peek() != '}' {
				l.advance()
			}
			if !l.isAtEnd() {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) makeToken(t token.Type, value string, startPos, startCol, startLine int) token.Token {
	return token.Token{
		Type:      t,
		Value:     value,
		FileIndex: l.fileIndex,
		Line:      startLine,
		Column:    startCol,
		Len:       l.pos - startPos,
	}
}

// Next returns the next token in the stream, or an EOF token once the
// source is exhausted.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	startPos, startCol, startLine := l.pos, l.column, l.line

	if l.isAtEnd() {
		return l.makeToken(token.EOF, "", startPos, startCol, startLine)
	}

	ch := l.peek()

	if unicode.IsLetter(ch) || ch == '_' {
		return l.identifierOrKeyword(startPos, startCol, startLine)
	}
	if unicode.IsDigit(ch) {
		return l.numberLiteral(startPos, startCol, startLine)
	}

	l.advance()
	switch ch {
	case '(':
		return l.makeToken(token.LParen, "", startPos, startCol, startLine)
	case ')':
		return l.makeToken(token.RParen, "", startPos, startCol, startLine)
	case ';':
		return l.makeToken(token.Semi, "", startPos, startCol, startLine)
	case ',':
		return l.makeToken(token.Comma, "", startPos, startCol, startLine)
	case '.':
		return l.makeToken(token.Dot, "", startPos, startCol, startLine)
	case '+':
		return l.makeToken(token.Plus, "", startPos, startCol, startLine)
	case '-':
		return l.makeToken(token.Minus, "", startPos, startCol, startLine)
	case '*':
		return l.makeToken(token.Star, "", startPos, startCol, startLine)
	case '/':
		return l.makeToken(token.Slash, "", startPos, startCol, startLine)
	case ':':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.Assign, "", startPos, startCol, startLine)
		}
		return l.makeToken(token.Colon, "", startPos, startCol, startLine)
	case '<':
		switch l.peek() {
		case '=':
			l.advance()
			return l.makeToken(token.Lte, "", startPos, startCol, startLine)
		case '>':
			l.advance()
			return l.makeToken(token.Neq, "", startPos, startCol, startLine)
		default:
			return l.makeToken(token.Lt, "", startPos, startCol, startLine)
		}
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(token.Gte, "", startPos, startCol, startLine)
		}
		return l.makeToken(token.Gt, "", startPos, startCol, startLine)
	case '=':
		return l.makeToken(token.Eq, "", startPos, startCol, startLine)
	default:
		return l.makeToken(token.EOF, "", startPos, startCol, startLine)
	}
}

func (l *Lexer) identifierOrKeyword(startPos, startCol, startLine int) token.Token {
	for !l.isAtEnd() && (unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
	text := string(l.source[startPos:l.pos])
	if kw, ok := token.KeywordMap[text]; ok {
		return l.makeToken(kw, text, startPos, startCol, startLine)
	}
	return l.makeToken(token.Ident, text, startPos, startCol, startLine)
}

func (l *Lexer) numberLiteral(startPos, startCol, startLine int) token.Token {
	for !l.isAtEnd() && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	text := string(l.source[startPos:l.pos])
	tok := l.makeToken(token.IntLiteral, text, startPos, startCol, startLine)
	if _, err := strconv.Atoi(text); err != nil {
		util.Error(tok, "integer literal '%s' out of range", text)
	}
	return tok
}
