package codegen

import (
	"fmt"
	"strings"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

// genCall implements gen_call / spec.md §4.I.3 and §4.I.2's calling
// convention: a direct call to a function name defined in this
// translation unit becomes a plain JS call; a recognized math.h name
// becomes a Math.* call; every other recognized builtin becomes a call to
// the matching rt method (the runtime's libc shims, spec.md §6.2); and
// anything else — a function pointer value, or an indirect call through a
// variable — goes through rt.callFunction(id, args). Aggregate-returning
// calls get a hidden first argument: the address of a caller-allocated
// stack temporary the callee writes its result into.
func (g *Generator) genCall(e *ast.Expr, n *ast.ECall) string {
	name, sym := calleeName(n.Callee)

	if name != "" {
		if rejectedBuiltins[name] {
			g.errorf(e.Loc, "%s is not supported by this code generator (no sound lowering onto structured control flow)", name)
			return "0"
		}
		if jsName, ok := mathFuncNames[name]; ok {
			return g.genMathCall(e, jsName, n.Args)
		}
		switch name {
		case "va_start":
			return g.genVaStart(n.Args)
		case "va_end":
			return fmt.Sprintf("rt.vaEnd(%s)", g.genExpr(&n.Args[0]))
		case "va_copy":
			return g.genVaCopy(n.Args)
		}
		if sym != nil && sym.IsDefined {
			return g.genDirectCall(e, "_"+name, n.Args)
		}
		if runtimeFuncNames[name] {
			return g.genRuntimeCall(e, name, n.Args)
		}
		// Forward/extern declaration this translation unit never defines:
		// best-effort direct call, consistent with the single-translation-
		// unit scope the rest of codegen assumes.
		return g.genDirectCall(e, "_"+name, n.Args)
	}

	fp := g.genExpr(&n.Callee)
	args := g.genArgs(n.Args)
	if types.IsAggregate(e.Type) {
		off := g.allocLocal(e.Type)
		addr := fmt.Sprintf("(bp + (%d))", off)
		args = append([]string{addr}, args...)
		call := fmt.Sprintf("rt.callFunction(%s%s)", fp, prependComma(args))
		return fmt.Sprintf("(%s, %s)", call, addr)
	}
	return fmt.Sprintf("rt.callFunction(%s%s)", fp, prependComma(args))
}

func calleeName(callee ast.Expr) (string, *symtab.Symbol) {
	if id, ok := callee.Data.(*ast.EIdent); ok {
		return id.Name, id.Sym
	}
	return "", nil
}

func prependComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

func (g *Generator) genArgs(args []ast.Expr) []string {
	out := make([]string, len(args))
	for i := range args {
		out[i] = g.genExpr(&args[i])
	}
	return out
}

func (g *Generator) genDirectCall(e *ast.Expr, jsName string, args []ast.Expr) string {
	parts := g.genArgs(args)
	call := fmt.Sprintf("%s(%s)", jsName, strings.Join(parts, ", "))
	return g.wrapAggregateReturn(e.Type, call)
}

func (g *Generator) genRuntimeCall(e *ast.Expr, name string, args []ast.Expr) string {
	parts := g.genArgs(args)
	call := fmt.Sprintf("rt.%s(%s)", name, strings.Join(parts, ", "))
	return g.wrapAggregateReturn(e.Type, call)
}

// genMathCall lowers a math.h call to Math.*, unwrapping any double
// arguments to plain JS numbers first and rewrapping a double result back
// to its bits representation, per spec.md §4.I.3.
func (g *Generator) genMathCall(e *ast.Expr, jsName string, args []ast.Expr) string {
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = toNumber(args[i].Type, g.genExpr(&args[i]))
	}
	call := fmt.Sprintf("Math.%s(%s)", jsName, strings.Join(parts, ", "))
	if isF64Repr(e.Type) {
		return fmt.Sprintf("rt.f64bits(%s)", call)
	}
	if e.Type != nil && e.Type.Kind == types.Float {
		return fmt.Sprintf("Math.fround(%s)", call)
	}
	return call
}

// genVaStart lowers `va_start(ap, last)`: ap is a va_list lvalue that gets
// rt.vaStart's opaque cursor id stored into it; the named last parameter
// is only needed in C to validate placement against the hidden
// rest-parameter, which the generator doesn't need to re-derive since the
// enclosing function already carries p___va as its own parameter name.
func (g *Generator) genVaStart(args []ast.Expr) string {
	if len(args) == 0 {
		return "0"
	}
	addr := g.genAddr(&args[0])
	return fmt.Sprintf("(() => { const __v = rt.vaStart(p___va); %s; return __v; })()", setterCall(args[0].Type, addr, "__v"))
}

func (g *Generator) genVaCopy(args []ast.Expr) string {
	if len(args) < 2 {
		return "0"
	}
	dstAddr := g.genAddr(&args[0])
	src := loadExpr(args[1].Type, g.genAddr(&args[1]))
	return fmt.Sprintf("(() => { const __v = rt.vaCopy(%s); %s; return __v; })()", src, setterCall(args[0].Type, dstAddr, "__v"))
}

// wrapAggregateReturn gives an aggregate-returning direct/runtime call its
// hidden return-pointer argument (spec.md §4.I.2): a fresh stack temporary
// is allocated, its address spliced in as the call's first argument, and
// the call expression's overall value becomes that address (matching
// genExpr's "an aggregate expression's value is its address" contract).
// The indirect rt.callFunction case builds its argument list itself in
// genCall, since there the hidden pointer has to land after the function
// id, not as the very first argument.
func (g *Generator) wrapAggregateReturn(ty *types.Type, callJS string) string {
	if ty == nil || !types.IsAggregate(ty) {
		return callJS
	}
	off := g.allocLocal(ty)
	addr := fmt.Sprintf("(bp + (%d))", off)
	injected := injectFirstArg(callJS, addr)
	return fmt.Sprintf("(%s, %s)", injected, addr)
}

// injectFirstArg splices an extra leading argument into a already-rendered
// `name(args...)` call text.
func injectFirstArg(callJS, firstArg string) string {
	i := strings.Index(callJS, "(")
	if i < 0 {
		return callJS
	}
	rest := callJS[i+1:]
	if strings.HasPrefix(rest, ")") {
		return callJS[:i+1] + firstArg + rest
	}
	return callJS[:i+1] + firstArg + ", " + rest
}
