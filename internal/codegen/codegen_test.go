package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c99js/c99js/internal/intern"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/parser"
	"github.com/c99js/c99js/internal/sema"
	"github.com/c99js/c99js/internal/symtab"
)

func generate(t *testing.T, src string) (string, logger.Log) {
	t.Helper()
	log := logger.NewDeferredLog()
	in := intern.NewTable()
	lex := lexer.New(log, in, src, "t.c")
	st := symtab.New(log)
	symtab.RegisterBuiltins(st)
	prog := parser.New(lex, log, st).Parse()
	sema.New(log).Check(prog)
	require.False(t, log.HasErrors())
	return New(log).Generate(prog), log
}

func TestEmissionOrderPlacesSectionsInSequence(t *testing.T) {
	js, _ := generate(t, `
int main(void) {
	return 0;
}
`)
	strictIdx := indexOf(js, "\"use strict\"")
	rtIdx := indexOf(js, "const rt = new Runtime()")
	reserveIdx := indexOf(js, "rt.mem.reserveGlobals")
	funcIdx := indexOf(js, "function _main")
	fpIdx := indexOf(js, "const __fp_main = rt.registerFunction(_main)")
	tryIdx := indexOf(js, "try {")

	require.True(t, strictIdx < rtIdx)
	require.True(t, rtIdx < reserveIdx)
	require.True(t, reserveIdx < funcIdx)
	require.True(t, funcIdx < fpIdx)
	require.True(t, fpIdx < tryIdx)
}

func TestPointerArithmeticScalesByElementSize(t *testing.T) {
	js, _ := generate(t, `
int f(int *p) {
	return *(p + 3);
}
`)
	require.Contains(t, js, "+ (3)*4")
}

func TestPointerDifferenceDividesByElementSizeAndTruncates(t *testing.T) {
	js, _ := generate(t, `
int f(int *a, int *b) {
	return a - b;
}
`)
	require.Contains(t, js, "/ 4 | 0")
}

func TestDoubleArithmeticRoundTripsThroughF64(t *testing.T) {
	js, _ := generate(t, `
double f(double a, double b) {
	return a + b;
}
`)
	require.Contains(t, js, "rt.f64bits(")
	require.Contains(t, js, "rt.f64(")
}

func TestLongLongArithmeticUsesBigInt(t *testing.T) {
	js, _ := generate(t, `
long long f(long long a, long long b) {
	return a + b;
}
`)
	require.Contains(t, js, "readBigInt64")
	require.Contains(t, js, "writeBigInt64")
}

func TestStaticLocalIsPromotedToGlobalAndInitializedOnce(t *testing.T) {
	js, _ := generate(t, `
int counter(void) {
	static int n = 0;
	return n;
}
`)
	require.Contains(t, js, "rt.mem.reserveGlobals")
	// the static's initializer lands in the data section after the fp
	// registrations, not inline in the function body where it would
	// re-run on every call.
	dataIdx := indexOf(js, "rt.mem.writeInt32(4096, 0)")
	funcIdx := indexOf(js, "function _counter")
	fpIdx := indexOf(js, "const __fp_counter")
	require.True(t, dataIdx >= 0, "expected the static's initializer in the data section")
	require.True(t, funcIdx < fpIdx)
	require.True(t, fpIdx < dataIdx)
	require.NotContains(t, js, "function _counter() {\n  const sp = rt.mem.sp;\n  rt.mem.sp -= 0;\n  const bp = rt.mem.sp;\nrt.mem.writeInt32")
}

func TestCharArrayFromStringLiteralZeroFillsAndStrcpys(t *testing.T) {
	js, _ := generate(t, `
void f(void) {
	char buf[8] = "hi";
}
`)
	require.Contains(t, js, "rt.memset(")
	require.Contains(t, js, "rt.strcpy(")
	require.Contains(t, js, "rt.mem.allocString(")
}

func TestSetjmpIsRejected(t *testing.T) {
	log := logger.NewDeferredLog()
	in := intern.NewTable()
	lex := lexer.New(log, in, `
int setjmp(int env);
int f(void) {
	setjmp(0);
	return 0;
}
`, "t.c")
	st := symtab.New(log)
	symtab.RegisterBuiltins(st)
	prog := parser.New(lex, log, st).Parse()
	sema.New(log).Check(prog)
	New(log).Generate(prog)
	require.True(t, log.HasErrors())
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
