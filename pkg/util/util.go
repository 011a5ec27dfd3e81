// Package util provides source-position-aware diagnostics for the rest of
// the compiler.
package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/vela-lang/pscc/pkg/token"
)

// SourceFileRecord tracks the name and content of a single source file so
// that diagnostics can quote the offending line.
type SourceFileRecord struct {
	Name    string
	Content []rune
}

var sourceFiles []SourceFileRecord

// SetSourceFiles stores the source code for all input files for rich error
// messages.
func SetSourceFiles(files []SourceFileRecord) {
	sourceFiles = files
}

// colorEnabled reports whether stderr is a real terminal that understands
// ANSI escapes; used to avoid polluting piped/redirected output with color
// codes.
func colorEnabled() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func paint(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func findFileAndLine(tok token.Token) (filename string, line, col int) {
	if tok.FileIndex < 0 || tok.FileIndex >= len(sourceFiles) {
		return "unknown", tok.Line, tok.Column
	}
	return sourceFiles[tok.FileIndex].Name, tok.Line, tok.Column
}

func printErrorLine(stream *os.File, tok token.Token) {
	if tok.FileIndex < 0 || tok.FileIndex >= len(sourceFiles) || tok.Line == 0 {
		return
	}

	content := sourceFiles[tok.FileIndex].Content
	lineNum := tok.Line
	lineStart := 0
	for i, r := range content {
		if lineNum <= 1 {
			break
		}
		if r == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}

	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	fmt.Fprintf(stream, "  %s\n", string(content[lineStart:lineEnd]))

	caret := strings.Repeat(" ", max(tok.Column-1, 0)) + "^"
	if tok.Len > 1 {
		caret += strings.Repeat("~", tok.Len-1)
	}
	fmt.Fprintln(stream, "  "+paint("32", caret))
}

// Error prints a formatted, source-located error message and terminates the
// process. Diagnosed fatal conditions route through here; the code
// generator's internal bookkeeping check in offsetOf panics instead.
func Error(tok token.Token, format string, args ...interface{}) {
	filename, line, col := findFileAndLine(tok)
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s ", filename, line, col, paint("31", "error:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	printErrorLine(os.Stderr, tok)
	os.Exit(1)
}

// Warn prints a non-fatal, source-located warning.
func Warn(tok token.Token, format string, args ...interface{}) {
	filename, line, col := findFileAndLine(tok)
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s ", filename, line, col, paint("33", "warning:"))
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	printErrorLine(os.Stderr, tok)
}
