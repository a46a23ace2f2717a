package preprocessor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c99js/c99js/internal/logger"
)

type fakeFiles struct {
	files map[string]string
}

func (f *fakeFiles) ReadFile(path string) (string, bool) {
	c, ok := f.files[path]
	return c, ok
}

func newPP(files map[string]string) *Preprocessor {
	log := logger.NewDeferredLog()
	return New(log, &fakeFiles{files: files}, nil)
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define WIDTH 80\nint x = WIDTH;\n", "t.c")
	require.Contains(t, out, "int x = 80;")
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define MAX(a, b) ((a) > (b) ? (a) : (b))\nint x = MAX(1, 2);\n", "t.c")
	require.Contains(t, out, "((1) > (2) ? (1) : (2))")
}

func TestMacroUndef(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define FOO 1\n#undef FOO\nint FOO;\n", "t.c")
	require.Contains(t, out, "int FOO;")
}

func TestIfdefSkipsBody(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#ifdef NOTDEFINED\nshould_not_appear();\n#endif\nkept();\n", "t.c")
	require.NotContains(t, out, "should_not_appear")
	require.Contains(t, out, "kept();")
}

func TestIfElseBranches(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#if 0\na();\n#else\nb();\n#endif\n", "t.c")
	require.NotContains(t, out, "a();")
	require.Contains(t, out, "b();")
}

func TestElifChain(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#if 0\na();\n#elif 1\nb();\n#else\nc();\n#endif\n", "t.c")
	require.Contains(t, out, "b();")
	require.NotContains(t, out, "a();")
	require.NotContains(t, out, "c();")
}

func TestDefinedOperator(t *testing.T) {
	pp := newPP(nil)
	pp.Macros.Define("FOO", "1")
	out := pp.Run("#if defined(FOO)\nyes();\n#endif\n#if defined BAR\nno();\n#endif\n", "t.c")
	require.Contains(t, out, "yes();")
	require.NotContains(t, out, "no();")
}

func TestStringifyOperator(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define STR(x) #x\nchar *s = STR(hello);\n", "t.c")
	require.Contains(t, out, `"hello"`)
}

func TestTokenPasteOperator(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define CAT(a, b) a ## b\nint CAT(fo, o);\n", "t.c")
	require.Contains(t, out, "int foo;")
}

func TestVariadicMacro(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define LOG(fmt, ...) printf(fmt, __VA_ARGS__)\nLOG(\"%d\", 1, 2);\n", "t.c")
	require.Contains(t, out, `printf("%d", 1, 2);`)
}

func TestIncludeFromProvidedFile(t *testing.T) {
	pp := newPP(map[string]string{
		"a.h": "#define FROM_HEADER 42\n",
	})
	out := pp.Run("#include \"a.h\"\nint x = FROM_HEADER;\n", "main.c")
	require.Contains(t, out, "int x = 42;")
}

func TestIncludeRecognizedStandardHeader(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#include <stdio.h>\nmain();\n", "main.c")
	require.Contains(t, out, "provided by runtime")
	require.Contains(t, out, "main();")
}

func TestLineDirectiveUpdatesLineCount(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#line 100 \"other.c\"\nx = __LINE__;\n", "main.c")
	require.True(t, strings.Contains(out, "x = 100;"))
}

func TestBuiltinLineMacro(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("a();\nb();\nx = __LINE__;\n", "main.c")
	require.Contains(t, out, "x = 3;")
}

func TestMacroNotExpandedInsideStringLiteral(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#define FOO 1\nchar *s = \"FOO\";\n", "t.c")
	require.Contains(t, out, `"FOO"`)
}

func TestConditionalArithmetic(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#if (2 + 2) == 4\nok();\n#endif\n", "t.c")
	require.Contains(t, out, "ok();")
}

func TestNestedConditionalSkipDepth(t *testing.T) {
	pp := newPP(nil)
	out := pp.Run("#if 0\n#if 1\ninner();\n#endif\nouter();\n#endif\nafter();\n", "t.c")
	require.NotContains(t, out, "inner();")
	require.NotContains(t, out, "outer();")
	require.Contains(t, out, "after();")
}
