package codegen

import (
	"bytes"
	"strings"

	"github.com/vela-lang/pscc/pkg/config"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
)

// newTestContext builds a Context wired to an in-memory buffer so tests can
// inspect the emitted assembly text directly.
func newTestContext() (*Context, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := config.NewConfig()
	mgr := sema.NewManager()
	w := NewAsmWriter(&buf)
	return NewContext(cfg, mgr, w), &buf
}

// flushLines closes the writer and splits its buffered output into lines,
// dropping the trailing blank line bufio leaves after the final newline.
func flushLines(w *AsmWriter, buf *bytes.Buffer) []string {
	w.Close()
	text := strings.TrimRight(buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func tok(typ token.Type) token.Token {
	return token.Token{Type: typ}
}
