package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goforj/godump"
	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"
	"golang.org/x/exp/maps"

	"github.com/vela-lang/pscc/pkg/ast"
	"github.com/vela-lang/pscc/pkg/cli"
	"github.com/vela-lang/pscc/pkg/codegen"
	"github.com/vela-lang/pscc/pkg/config"
	"github.com/vela-lang/pscc/pkg/lexer"
	"github.com/vela-lang/pscc/pkg/parser"
	"github.com/vela-lang/pscc/pkg/sema"
	"github.com/vela-lang/pscc/pkg/token"
	"github.com/vela-lang/pscc/pkg/util"
)

func main() {
	app := cli.NewApp("pscc")
	app.Synopsis = "[options] <input.pas>"
	app.Description = "A code generator for a small Pascal-like language, targeting 32-bit RISC-V (RV32I + M)."

	var (
		outFile string
		dumpAST bool
		verbose bool
		buildID bool
	)

	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "", "Place the generated assembly into <file> (default: input with .S suffix).")
	fs.Bool(&dumpAST, "dump-ast", "d", false, "Dump the parsed AST and exit without generating code.")
	fs.Bool(&verbose, "verbose", "v", false, "After emission, report the output file, frame and word size, and global names.")
	fs.Bool(&buildID, "build-id", "", false, "Stamp a build-identifying comment at the top of the emitted file.")

	app.Action = func(inputFiles []string) error {
		if len(inputFiles) == 0 {
			util.Error(token.Token{}, "no input file specified")
		}
		if len(inputFiles) > 1 {
			util.Error(token.Token{}, "exactly one input file is supported, got %d", len(inputFiles))
		}
		inputFile := inputFiles[0]

		cfg := config.NewConfig()

		content, err := os.ReadFile(inputFile)
		if err != nil {
			util.Error(token.Token{FileIndex: -1}, "could not read file '%s': %v", inputFile, err)
		}
		runeContent := []rune(string(content))
		util.SetSourceFiles([]util.SourceFileRecord{{Name: inputFile, Content: runeContent}})

		l := lexer.NewLexer(runeContent, 0)
		var tokens []token.Token
		for {
			tok := l.Next()
			tokens = append(tokens, tok)
			if tok.Type == token.EOF {
				break
			}
		}

		p := parser.NewParser(tokens)
		root := p.Parse()

		if dumpAST {
			godump.Dump(root)
			return nil
		}

		mgr := sema.NewManager()

		if outFile == "" {
			outFile = deriveOutputPath(inputFile)
		}
		out, err := os.Create(outFile)
		if err != nil {
			util.Error(token.Token{}, "could not create output file '%s': %v", outFile, err)
		}
		defer out.Close()

		w := codegen.NewAsmWriter(out)
		emitSourceHeader(w, inputFile)
		if buildID {
			emitBuildID(w)
		}
		cg := codegen.NewContext(cfg, mgr, w)
		cg.SetSourceFile(inputFile)
		cg.EmitProgram(root)
		if err := w.Close(); err != nil {
			util.Error(token.Token{}, "could not flush output file '%s': %v", outFile, err)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "pscc: wrote %s (frame: %s, word: %s)\n",
				outFile, humanize.Bytes(uint64(cfg.FrameSize)), humanize.Bytes(uint64(cfg.WordSize)))
			printGlobalSummary(root)
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// deriveOutputPath strips the input file's directory and final extension
// and appends .S, the convention a hand-invoked assembler expects.
func deriveOutputPath(inputFile string) string {
	base := filepath.Base(inputFile)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".S"
}

func emitSourceHeader(w *codegen.AsmWriter, inputFile string) {
	w.Directive("# generated from %s", filepath.Base(inputFile))
}

// emitBuildID stamps a comment line identifying this build. It is inert
// to the assembler and exists purely so two builds of the same source
// can be told apart.
func emitBuildID(w *codegen.AsmWriter) {
	stamp := strftime.Format("%Y-%m-%dT%H:%M:%S", time.Now())
	w.Directive("# build %s %s", uuid.NewString(), stamp)
}

// printGlobalSummary reports the program's global declarations in
// deterministic, sorted order, regardless of declaration order.
func printGlobalSummary(root *ast.Node) {
	p := root.Data.(ast.ProgramNode)
	names := make(map[string]struct{}, len(p.Decls))
	for _, d := range p.Decls {
		decl := d.Data.(ast.DeclNode)
		v := decl.Inner.Data.(ast.VariableNode)
		names[v.Name] = struct{}{}
	}
	sorted := maps.Keys(names)
	sort.Strings(sorted)
	for _, name := range sorted {
		fmt.Fprintf(os.Stderr, "pscc: global %s\n", name)
	}
}
