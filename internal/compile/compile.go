// Package compile stitches the pipeline of spec.md §1's overview —
// preprocessor → lexer → parser → sema → codegen — into the one call a
// driver (cmd/c99js) needs: source text in, generated JavaScript and
// diagnostics out.
//
// Grounded on the teacher's own api.go/bundler.go split: esbuild's public
// Build/Transform entry points construct one Bundle per call and run every
// later stage off the options and log it captures up front, rather than
// letting each stage reach for ambient state. Compile plays the same role
// here, built around one internal/config.CompilationContext per call.
package compile

import (
	"fmt"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/codegen"
	"github.com/c99js/c99js/internal/config"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/parser"
	"github.com/c99js/c99js/internal/preprocessor"
	"github.com/c99js/c99js/internal/sema"
)

// Result is everything one Compile call produces: the preprocessed source
// (meaningful on its own when Options.PreprocessOnly is set), the parsed
// program (useful to a future AST-dumping driver even though --dump-ast is
// a no-op per spec.md §6.1), the generated JavaScript, and the full
// diagnostic list.
type Result struct {
	Preprocessed string
	Program      *ast.Program
	JS           string
	Diagnostics  []logger.Msg
}

// Compile runs one translation unit end to end. files resolves #include
// directives (spec.md §1's "file I/O is out of scope, specified only by
// interface" — internal/fs.Reader is the concrete implementation a driver
// wires in); filename is the name reported in diagnostics and embedded in
// the preprocessor's `# 1 "filename"` line markers.
func Compile(ctx *config.CompilationContext, files preprocessor.FileReader, src, filename string) Result {
	pp := preprocessor.New(ctx.Log, files, ctx.Options.IncludePaths)
	for _, d := range ctx.Options.Defines {
		if d.Value == "" {
			pp.Macros.Define(d.Name, "1")
		} else {
			pp.Macros.Define(d.Name, d.Value)
		}
	}
	preprocessed := pp.Run(src, filename)

	result := Result{Preprocessed: preprocessed}
	if ctx.Options.PreprocessOnly {
		result.Diagnostics = ctx.Log.Done()
		return result
	}

	lex := lexer.New(ctx.Log, ctx.Interner, preprocessed, filename)
	p := parser.New(lex, ctx.Log, ctx.Symbols)
	prog := p.Parse()
	result.Program = prog

	if ctx.Log.HasErrors() {
		result.Diagnostics = ctx.Log.Done()
		return result
	}

	sema.New(ctx.Log).Check(prog)
	if ctx.Log.HasErrors() {
		result.Diagnostics = ctx.Log.Done()
		return result
	}

	result.JS = fmt.Sprintf("// c99js build %s\n", ctx.BuildID) + codegen.New(ctx.Log).Generate(prog)
	result.Diagnostics = ctx.Log.Done()
	return result
}
