package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/intern"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

func newParser(t *testing.T, src string) (*Parser, logger.Log) {
	t.Helper()
	log := logger.NewDeferredLog()
	in := intern.NewTable()
	lex := lexer.New(log, in, src, "t.c")
	st := symtab.New(log)
	return New(lex, log, st), log
}

func TestParseGlobalVarDecl(t *testing.T) {
	p, log := newParser(t, "int x = 42;\n")
	prog := p.Parse()
	require.False(t, log.HasErrors())
	require.Len(t, prog.Decls, 1)

	v, ok := prog.Decls[0].Data.(*ast.DVar)
	require.True(t, ok)
	require.Equal(t, "x", v.Name)
	require.NotNil(t, v.Init)
	require.Len(t, v.Init.Elems, 1)

	lit, ok := v.Init.Elems[0].Value.Data.(*ast.EIntLit)
	require.True(t, ok)
	require.EqualValues(t, 42, lit.Value)
}

func TestParseFunctionDefinition(t *testing.T) {
	src := `
int add(int a, int b) {
	return a + b;
}
`
	p, log := newParser(t, src)
	prog := p.Parse()
	require.False(t, log.HasErrors())
	require.Len(t, prog.Decls, 1)

	fn, ok := prog.Decls[0].Data.(*ast.DFunc)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "a", fn.Params[0].Name)
	require.Equal(t, "b", fn.Params[1].Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)

	ret, ok := fn.Body.Stmts[0].Data.(*ast.SReturn)
	require.True(t, ok)
	require.NotNil(t, ret.Value)

	bin, ok := ret.Value.Data.(*ast.EBinary)
	require.True(t, ok)
	require.Equal(t, ast.BinAdd, bin.Op)
}

func TestParseIfWhileForSwitch(t *testing.T) {
	src := `
int f(int n) {
	int total = 0;
	for (int i = 0; i < n; i++) {
		if (i % 2 == 0) {
			total += i;
		} else {
			continue;
		}
	}
	while (n > 0) {
		n--;
	}
	switch (n) {
	case 0:
		break;
	default:
		break;
	}
	return total;
}
`
	p, log := newParser(t, src)
	prog := p.Parse()
	require.False(t, log.HasErrors())
	require.Len(t, prog.Decls, 1)

	fn := prog.Decls[0].Data.(*ast.DFunc)
	require.Len(t, fn.Body.Stmts, 5)

	forStmt, ok := fn.Body.Stmts[1].Data.(*ast.SFor)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Inc)

	whileStmt, ok := fn.Body.Stmts[2].Data.(*ast.SWhile)
	require.True(t, ok)
	require.NotNil(t, whileStmt.Body)

	swStmt, ok := fn.Body.Stmts[3].Data.(*ast.SSwitch)
	require.True(t, ok)
	require.Len(t, swStmt.Cases, 1)
	require.EqualValues(t, 0, swStmt.Cases[0].Value)
	require.NotNil(t, swStmt.Default)
}

func TestParseStructDeclaration(t *testing.T) {
	src := `
struct point {
	int x;
	int y;
};
struct point origin;
`
	p, log := newParser(t, src)
	prog := p.Parse()
	require.False(t, log.HasErrors())
	require.Len(t, prog.Decls, 1)

	v := prog.Decls[0].Data.(*ast.DVar)
	require.Equal(t, "origin", v.Name)
	require.Equal(t, types.Struct, v.Type.Kind)
	require.NotNil(t, types.FindMember(v.Type, "x"))
	require.NotNil(t, types.FindMember(v.Type, "y"))
}

func TestParseTypedef(t *testing.T) {
	p, log := newParser(t, "typedef unsigned long size_t_alias;\nsize_t_alias n;\n")
	prog := p.Parse()
	require.False(t, log.HasErrors())
	require.Len(t, prog.Decls, 2)

	td, ok := prog.Decls[0].Data.(*ast.DTypedef)
	require.True(t, ok)
	require.Equal(t, "size_t_alias", td.Name)

	v, ok := prog.Decls[1].Data.(*ast.DVar)
	require.True(t, ok)
	require.Equal(t, types.TyULong, v.Type)
}

func TestParseArrayInitializerBackfillsLength(t *testing.T) {
	p, log := newParser(t, "int nums[] = {1, 2, 3};\n")
	prog := p.Parse()
	require.False(t, log.HasErrors())

	v := prog.Decls[0].Data.(*ast.DVar)
	require.Equal(t, types.Array, v.Type.Kind)
	require.Equal(t, 3, v.Type.ArrayLen)
}

func TestParseSyntaxErrorRecoversAtNextStatement(t *testing.T) {
	p, log := newParser(t, "int x = ;\nint y = 1;\n")
	prog := p.Parse()
	require.True(t, log.HasErrors())
	// The malformed declaration is dropped, but parsing continues and
	// still recovers the well-formed one after it.
	var names []string
	for _, d := range prog.Decls {
		if v, ok := d.Data.(*ast.DVar); ok {
			names = append(names, v.Name)
		}
	}
	require.Contains(t, names, "y")
}
