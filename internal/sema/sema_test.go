package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/intern"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/parser"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

func checkProgram(t *testing.T, src string) (*ast.Program, logger.Log) {
	t.Helper()
	log := logger.NewDeferredLog()
	in := intern.NewTable()
	lex := lexer.New(log, in, src, "t.c")
	st := symtab.New(log)
	prog := parser.New(lex, log, st).Parse()
	New(log).Check(prog)
	return prog, log
}

func TestAssignmentInsertsImplicitCast(t *testing.T) {
	prog, log := checkProgram(t, `
void f(void) {
	double d;
	int x;
	d = x;
}
`)
	require.False(t, log.HasErrors())
	fn := prog.Decls[0].Data.(*ast.DFunc)
	assignStmt := fn.Body.Stmts[2].Data.(*ast.SExpr)
	assign := assignStmt.Value.Data.(*ast.EAssign)

	cast, ok := assign.Value.Data.(*ast.ECast)
	require.True(t, ok, "expected the int rvalue to be wrapped in a cast toward double")
	require.Equal(t, types.TyDouble, cast.To)
	require.Equal(t, types.TyDouble, assign.Value.Type)
}

func TestReturnCastsTowardFunctionReturnType(t *testing.T) {
	prog, log := checkProgram(t, `
double half(int n) {
	return n;
}
`)
	require.False(t, log.HasErrors())
	fn := prog.Decls[0].Data.(*ast.DFunc)
	ret := fn.Body.Stmts[0].Data.(*ast.SReturn)

	cast, ok := ret.Value.Data.(*ast.ECast)
	require.True(t, ok)
	require.Equal(t, types.TyDouble, cast.To)
}

func TestPointerDifferenceYieldsInteger(t *testing.T) {
	prog, log := checkProgram(t, `
int f(int *a, int *b) {
	return a - b;
}
`)
	require.False(t, log.HasErrors())
	fn := prog.Decls[0].Data.(*ast.DFunc)
	ret := fn.Body.Stmts[0].Data.(*ast.SReturn)

	// return's value is itself cast toward int (the function's return
	// type), so the pointer subtraction is one level further in.
	cast := ret.Value.Data.(*ast.ECast)
	bin := cast.From.Data.(*ast.EBinary)
	require.Equal(t, ast.BinSub, bin.Op)
	require.Equal(t, types.TyLong, cast.From.Type)
}

func TestArrayDecaysToPointerWhenPassedAsArgument(t *testing.T) {
	prog, log := checkProgram(t, `
int sum(int *p, int n);
int f(void) {
	int nums[4];
	return sum(nums, 4);
}
`)
	require.False(t, log.HasErrors())
	fn := prog.Decls[1].Data.(*ast.DFunc)
	ret := fn.Body.Stmts[1].Data.(*ast.SReturn)
	// sum's declared return type is the same int singleton as f's, so no
	// extra cast wraps the call itself here.
	call := ret.Value.Data.(*ast.ECall)

	require.Equal(t, types.Ptr, call.Args[0].Type.Kind)
	require.Equal(t, types.Int, call.Args[0].Type.Base.Kind)
}

func TestCharArrayFromStringLiteralSkipsCast(t *testing.T) {
	prog, log := checkProgram(t, `char msg[] = "hi";`)
	require.False(t, log.HasErrors())
	v := prog.Decls[0].Data.(*ast.DVar)

	_, isCast := v.Init.Elems[0].Value.Data.(*ast.ECast)
	require.False(t, isCast, "a char array initialized from a string literal is copied byte-wise, not cast")
	_, isString := v.Init.Elems[0].Value.Data.(*ast.EStringLit)
	require.True(t, isString)
}
