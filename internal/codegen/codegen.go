// Package codegen implements spec.md §4.I: the code generator that turns a
// semantically-checked AST into a JavaScript program targeting the fixed
// `rt` runtime object of spec.md §4.I/§6.2 — a byte-addressable linear
// memory with typed read/write pairs, a downward-growing stack, a
// function-pointer registry, and the handful of C-library shims the
// front end's built-in symbol table promises callers.
//
// Grounded throughout on the original implementation's codegen.c, the
// largest single component of the reference implementation: its buffer/
// emit helpers map onto internal/buffer.Buf, its CGVar local/global table
// maps onto symtab.Symbol's Addr/IsLocal fields (populated here rather
// than in a parallel table, since the symbol table already survives from
// parsing through semantic analysis), its gen_addr/gen_expr/gen_stmt
// switches map onto genAddr/genExpr/genStmt below kind-for-kind, and its
// six-part codegen_generate emission order is Generate's structure.
//
// One deliberate departure from codegen.c: the original computes a
// function's frame size by emitting a placeholder, generating the whole
// body, and then patching the placeholder by searching the output text
// for it (gen_func's "frame-size-patch-via-strstr" step) — a trick C
// needs because it has no growable string builder to defer the write
// into. Go's buffer.Buf has no such restriction, so this port generates
// each function's body into its own buffer first (during which every
// local and compound-literal temporary is allocated and the final frame
// size becomes known) and only then writes the prologue, with the real
// number, ahead of it — same two-phase shape, without the text search.
package codegen

import (
	"fmt"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/buffer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/types"
)

// Generator holds the state of one program's code generation: the bump
// allocators for global and (per-function) stack addresses, the
// deduplicated string-literal table, the list of defined functions that
// need a function-pointer registration, and the output buffers for the
// function-body and data sections of spec.md §4.I.6's six emitted
// sections (Generate writes the other four directly).
type Generator struct {
	log logger.Log

	globalAddr int // bump allocator for global storage, starts at 4096

	// Per-function state, reset at the start of each genFunc.
	frameSize int
	curFunc   *ast.DFunc
	curRetPtr bool // true if the current function has a hidden p___retptr param
	labelSeq  int
	tempSeq   int

	mainTakesArgs bool // set once, if/when a `main` with parameters is seen

	fpNames  []string // defined function names, in declaration order
	fpSeen   map[string]bool
	strLits  []strLitEntry
	strIndex map[string]string // "wide\x00value" -> __strN name

	funcBodies  *buffer.Buf // section 3
	dataSection *buffer.Buf // section 5
	cur         *buffer.Buf // whichever buffer genStmt/genInit is currently writing to

	hadErrors bool
}

type strLitEntry struct {
	name  string
	value string
	wide  bool
}

func New(log logger.Log) *Generator {
	return &Generator{
		log:         log,
		globalAddr:  4096,
		fpSeen:      map[string]bool{},
		strIndex:    map[string]string{},
		funcBodies:  buffer.New(),
		dataSection: buffer.New(),
	}
}

func (g *Generator) errorf(loc logger.Loc, format string, args ...interface{}) {
	logger.Errorf(g.log, loc, format, args...)
	g.hadErrors = true
}

// Generate implements codegen_generate / spec.md §4.I.6: the program is
// emitted in a fixed order so that the fp registrations (section 4) and
// the data section (section 5) can both assume every function body
// (section 3) has already been generated and therefore every symbol's
// address or __fp_ id is already known.
func (g *Generator) Generate(prog *ast.Program) string {
	g.allocGlobals(prog)

	for i := range prog.Decls {
		if fn, ok := prog.Decls[i].Data.(*ast.DFunc); ok && fn.Body != nil {
			g.genFunc(fn)
		}
	}

	for i := range prog.Decls {
		if v, ok := prog.Decls[i].Data.(*ast.DVar); ok && v.Sym != nil && v.Init != nil {
			addr := fmt.Sprintf("%d", v.Sym.Addr)
			g.cur = g.dataSection
			g.genInit(addr, v.Type, v.Init)
		}
	}

	out := buffer.New()
	out.AppendString("\"use strict\";\n")
	out.AppendString("const rt = new Runtime();\n")
	out.Printf("rt.mem.reserveGlobals(%d);\n", g.globalAddr)
	out.AppendBytes([]byte(g.funcBodies.String()))
	for _, name := range g.fpNames {
		out.Printf("const __fp_%s = rt.registerFunction(_%s);\n", name, name)
	}
	out.AppendBytes([]byte(g.dataSection.String()))
	g.genEntryTrailer(out)
	return out.String()
}

// allocGlobals assigns every file-scope variable its address up front
// (spec.md §4.I.2's bump allocator with per-type alignment), before any
// function body is generated, so a forward reference from an earlier
// function to a later global still resolves to the right address.
func (g *Generator) allocGlobals(prog *ast.Program) {
	for i := range prog.Decls {
		v, ok := prog.Decls[i].Data.(*ast.DVar)
		if !ok || v.Sym == nil || v.Type.Kind == types.Func {
			continue
		}
		v.Sym.Addr = g.allocGlobal(v.Type)
		v.Sym.IsLocal = false
	}
}

// genEntryTrailer implements the sixth emission part: invoke main (if
// present), marshaling process.argv into a C-style argv when main takes
// parameters, and translate a thrown ExitException into process.exit.
func (g *Generator) genEntryTrailer(out *buffer.Buf) {
	if !g.fpSeen["main"] {
		return
	}
	out.AppendString("try {\n")
	if g.mainTakesArgs {
		out.AppendString("  const __argv = rt.mem.allocArgv(process.argv.slice(1));\n")
		out.AppendString("  const __rc = _main(__argv.argc, __argv.argv);\n")
	} else {
		out.AppendString("  const __rc = _main();\n")
	}
	out.AppendString("  process.exitCode = typeof __rc === \"bigint\" ? Number(__rc) : (__rc | 0);\n")
	out.AppendString("} catch (e) {\n")
	out.AppendString("  if (e && e.name === \"ExitException\") {\n")
	out.AppendString("    process.exit(e.code);\n")
	out.AppendString("  }\n")
	out.AppendString("  throw e;\n")
	out.AppendString("}\n")
}
