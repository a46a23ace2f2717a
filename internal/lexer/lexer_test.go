package lexer_test

import (
	"testing"

	"github.com/c99js/c99js/internal/intern"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/token"
	"github.com/stretchr/testify/require"
)

func newLexer(t *testing.T, src string) *lexer.Lexer {
	t.Helper()
	log := logger.NewDeferredLog()
	l := lexer.New(log, intern.NewTable(), src, "test.c")
	require.False(t, log.HasErrors())
	return l
}

func kinds(t *testing.T, src string) []token.T {
	t.Helper()
	l := newLexer(t, src)
	var out []token.T
	for l.Cur.Kind != token.EndOfFile {
		out = append(out, l.Cur.Kind)
		l.Next()
	}
	return out
}

func TestPunctuators(t *testing.T) {
	require.Equal(t, []token.T{token.LShiftAssign, token.Arrow, token.Ellipsis, token.HashHash},
		kinds(t, "<<= -> ... ##"))
}

func TestKeywordVsIdentifier(t *testing.T) {
	require.Equal(t, []token.T{token.Int, token.Identifier, token.Semicolon},
		kinds(t, "int intx;"))
}

func TestIntegerSuffix(t *testing.T) {
	l := newLexer(t, "123ULL")
	require.Equal(t, token.IntLiteral, l.Cur.Kind)
	require.Equal(t, uint64(123), l.Cur.IVal)
	require.Equal(t, token.SuffixUnsigned|token.SuffixLongLong, l.Cur.Suffix)
}

func TestHexAndFloat(t *testing.T) {
	l := newLexer(t, "0x1F")
	require.Equal(t, uint64(0x1F), l.Cur.IVal)

	l = newLexer(t, "3.5e2f")
	require.Equal(t, token.FloatLiteral, l.Cur.Kind)
	require.InDelta(t, 350.0, l.Cur.FVal, 0.0001)
}

func TestStringEscape(t *testing.T) {
	l := newLexer(t, `"a\nb\x41"`)
	require.Equal(t, "a\nbA", l.Cur.Lexeme)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := newLexer(t, "a b")
	require.Equal(t, token.Identifier, l.Cur.Kind)
	p := l.Peek()
	require.Equal(t, token.Identifier, p.Kind)
	require.Equal(t, "a", l.Cur.Lexeme, "Peek must not advance Cur")
	l.Next()
	require.Equal(t, "b", l.Cur.Lexeme)
}

func TestLineMarkerUpdatesLocation(t *testing.T) {
	l := newLexer(t, "\n# 42 \"foo.h\"\nx")
	require.Equal(t, "foo.h", l.Cur.Loc.File)
	require.Equal(t, 42, l.Cur.Loc.Line)
}
