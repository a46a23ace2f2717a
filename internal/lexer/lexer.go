// Package lexer implements the C99 token stream of spec.md §4.D, grounded
// on the original implementation's lexer.c/lexer.h and shaped into the
// teacher's single-token-lookahead idiom (internal/js_lexer's
// Lexer.Next/raw scanning over a byte slice, tracking line/column as it
// goes rather than esbuild's UTF-16-oriented approach, since C99 source is
// byte-oriented).
package lexer

import (
	"strconv"
	"strings"

	"github.com/c99js/c99js/internal/buffer"
	"github.com/c99js/c99js/internal/intern"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/token"
)

// Token is spec.md §4.D: "kind, location, interned lexeme, parsed numeric
// value, literal suffix flags, wide-literal flag, beginning-of-line flag,
// preceded-by-whitespace flag."
type Token struct {
	Kind     token.T
	Loc      logger.Loc
	Lexeme   string // interned identifier/string/numeric text
	IVal     uint64
	FVal     float64
	Suffix   token.LitSuffix
	IsWide   bool
	AtBOL    bool
	HasSpace bool
}

// Lexer holds the scanning position over preprocessed text, plus the
// single-token lookahead of spec.md §4.D ("driven by next, peek, match,
// expect").
type Lexer struct {
	log      logger.Log
	interner *intern.Table
	src      string
	pos      int
	filename string
	line     int
	col      int
	atBOL    bool

	Cur     Token
	peek    *Token
	atEOF   bool
}

func New(log logger.Log, interner *intern.Table, src string, filename string) *Lexer {
	l := &Lexer{
		log:      log,
		interner: interner,
		src:      src,
		filename: interner.Intern(filename),
		line:     1,
		col:      1,
		atBOL:    true,
	}
	l.Next()
	return l
}

func (l *Lexer) loc() logger.Loc {
	return logger.Loc{File: l.filename, Line: l.line, Col: l.col}
}

func (l *Lexer) current() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) at(offset int) byte {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance() byte {
	c := l.current()
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
	return c
}

func (l *Lexer) matchChar(c byte) bool {
	if l.current() == c {
		l.advance()
		return true
	}
	return false
}

// skipWhitespace implements spec.md §4.D's whitespace/comment skip,
// including the embedded "# linenum \"file\"" line-marker recognition the
// preprocessor emits on entering every file.
func (l *Lexer) skipWhitespace() (atBOL, hasSpace bool) {
	atBOL = l.atBOL
	for {
		if l.current() == '\\' && l.at(1) == '\n' {
			l.advance()
			l.advance()
			hasSpace = true
			continue
		}
		switch l.current() {
		case ' ', '\t', '\f', '\v':
			l.advance()
			hasSpace = true
			continue
		case '\r':
			l.advance()
			if l.current() == '\n' {
				l.advance()
			}
			atBOL, hasSpace = true, true
			l.atBOL = true
			continue
		case '\n':
			l.advance()
			atBOL, hasSpace = true, true
			l.atBOL = true
			continue
		}
		if l.current() == '#' && atBOL {
			if l.tryLineMarker() {
				hasSpace, atBOL = true, true
				continue
			}
		}
		if l.current() == '/' && l.at(1) == '*' {
			l.advance()
			l.advance()
			for l.current() != 0 {
				if l.current() == '*' && l.at(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
			hasSpace = true
			continue
		}
		if l.current() == '/' && l.at(1) == '/' {
			l.advance()
			l.advance()
			for l.current() != 0 && l.current() != '\n' {
				l.advance()
			}
			hasSpace = true
			continue
		}
		break
	}
	return atBOL, hasSpace
}

// tryLineMarker recognizes "# linenum \"file\"" at the start of a logical
// line and applies it to the lexer's idea of line/filename, per spec.md
// §4.D. Returns false (and rewinds) if the '#' does not introduce one.
func (l *Lexer) tryLineMarker() bool {
	savePos, saveLine, saveCol := l.pos, l.line, l.col
	l.advance() // '#'
	for l.current() == ' ' || l.current() == '\t' {
		l.advance()
	}
	if !isDigit(l.current()) {
		l.pos, l.line, l.col = savePos, saveLine, saveCol
		return false
	}
	newLine := 0
	for isDigit(l.current()) {
		newLine = newLine*10 + int(l.advance()-'0')
	}
	for l.current() == ' ' || l.current() == '\t' {
		l.advance()
	}
	if l.current() == '"' {
		l.advance()
		start := l.pos
		for l.current() != 0 && l.current() != '"' {
			l.advance()
		}
		if l.pos > start {
			l.filename = l.interner.InternRange(l.src, start, l.pos)
		}
		if l.current() == '"' {
			l.advance()
		}
	}
	for l.current() != 0 && l.current() != '\n' {
		l.advance()
	}
	// The marker names the line that follows it; the marker's own newline
	// is still unconsumed and advances line by one when skipped.
	l.line = newLine - 1
	return true
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isAlpha(c byte) bool      { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlnum(c byte) bool      { return isAlpha(c) || isDigit(c) }

// Next advances Cur to the next token, consuming the lookahead buffer if
// Peek has already primed it (spec.md §4.D).
func (l *Lexer) Next() {
	if l.peek != nil {
		l.Cur = *l.peek
		l.peek = nil
		return
	}
	l.Cur = l.scan()
}

// Peek returns, without consuming, the token after Cur.
func (l *Lexer) Peek() Token {
	if l.peek == nil {
		t := l.scan()
		l.peek = &t
	}
	return *l.peek
}

// Match consumes Cur and returns true if it has kind k.
func (l *Lexer) Match(k token.T) bool {
	if l.Cur.Kind == k {
		l.Next()
		return true
	}
	return false
}

// Expect reports a diagnostic if Cur does not have kind k, then advances
// regardless (spec.md §7's "processing continues at the next
// synchronization point").
func (l *Lexer) Expect(k token.T) {
	if l.Cur.Kind != k {
		logger.Errorf(l.log, l.Cur.Loc, "expected %q, got %q", k.String(), l.Cur.Kind.String())
	}
	l.Next()
}

func (l *Lexer) scan() Token {
	atBOL, hasSpace := l.skipWhitespace()
	l.atBOL = false
	loc := l.loc()

	c := l.current()
	if c == 0 {
		return Token{Kind: token.EndOfFile, Loc: loc, AtBOL: atBOL, HasSpace: hasSpace}
	}

	// Wide char/string: L'...' / L"...".
	if c == 'L' && (l.at(1) == '\'' || l.at(1) == '"') {
		if l.at(1) == '\'' {
			return l.scanCharLit(loc, atBOL, hasSpace, true)
		}
		return l.scanStringLit(loc, atBOL, hasSpace, true)
	}

	if isAlpha(c) {
		start := l.pos
		for isAlnum(l.current()) {
			l.advance()
		}
		text := l.src[start:l.pos]
		kind, isKeyword := token.Keywords[text]
		if !isKeyword {
			kind = token.Identifier
		}
		return Token{Kind: kind, Loc: loc, Lexeme: l.interner.Intern(text), AtBOL: atBOL, HasSpace: hasSpace}
	}

	if isDigit(c) || (c == '.' && isDigit(l.at(1))) {
		return l.scanNumber(loc, atBOL, hasSpace)
	}

	if c == '\'' {
		return l.scanCharLit(loc, atBOL, hasSpace, false)
	}
	if c == '"' {
		return l.scanStringLit(loc, atBOL, hasSpace, false)
	}

	return l.scanPunctuator(loc, atBOL, hasSpace)
}

// scanNumber implements spec.md §4.D's number parsing: hex/octal/decimal
// prefixes, a '.' or exponent switching to float, and suffix flags.
func (l *Lexer) scanNumber(loc logger.Loc, atBOL, hasSpace bool) Token {
	start := l.pos
	isFloat := false
	base := 10

	if l.current() == '0' {
		switch {
		case l.at(1) == 'x' || l.at(1) == 'X':
			base = 16
			l.advance()
			l.advance()
			for isHexDigit(l.current()) {
				l.advance()
			}
		case l.at(1) == '.' || l.at(1) == 'e' || l.at(1) == 'E':
			l.advance()
		case isDigit(l.at(1)):
			base = 8
			l.advance()
			for l.current() >= '0' && l.current() <= '7' {
				l.advance()
			}
		default:
			l.advance()
		}
	}

	if base == 10 {
		for isDigit(l.current()) {
			l.advance()
		}
	}

	if l.current() == '.' && base != 8 {
		isFloat = true
		l.advance()
		if base == 16 {
			for isHexDigit(l.current()) {
				l.advance()
			}
		} else {
			for isDigit(l.current()) {
				l.advance()
			}
		}
	}

	if base == 16 && (l.current() == 'p' || l.current() == 'P') {
		isFloat = true
		l.advance()
		if l.current() == '+' || l.current() == '-' {
			l.advance()
		}
		for isDigit(l.current()) {
			l.advance()
		}
	} else if base != 16 && (l.current() == 'e' || l.current() == 'E') {
		isFloat = true
		l.advance()
		if l.current() == '+' || l.current() == '-' {
			l.advance()
		}
		for isDigit(l.current()) {
			l.advance()
		}
	}

	t := Token{Loc: loc, AtBOL: atBOL, HasSpace: hasSpace}
	if isFloat {
		if l.current() == 'f' || l.current() == 'F' {
			l.advance()
		} else if l.current() == 'l' || l.current() == 'L' {
			l.advance()
			t.Suffix |= token.SuffixLong
		}
		t.Kind = token.FloatLiteral
		raw := l.src[start:l.pos]
		raw = strings.TrimRight(raw, "fFlL")
		fval, _ := strconv.ParseFloat(raw, 64)
		t.FVal = fval
	} else {
		for {
			if (l.current() == 'u' || l.current() == 'U') && t.Suffix&token.SuffixUnsigned == 0 {
				t.Suffix |= token.SuffixUnsigned
				l.advance()
			} else if (l.current() == 'l' || l.current() == 'L') && t.Suffix&token.SuffixLongLong == 0 {
				if t.Suffix&token.SuffixLong != 0 {
					t.Suffix = (t.Suffix &^ token.SuffixLong) | token.SuffixLongLong
				} else {
					t.Suffix |= token.SuffixLong
				}
				l.advance()
			} else {
				break
			}
		}
		t.Kind = token.IntLiteral
		raw := l.src[start:l.pos]
		raw = strings.TrimRight(raw, "uUlL")
		ival, err := parseCInteger(raw, base)
		if err != nil {
			logger.Errorf(l.log, loc, "invalid integer literal %q", raw)
		}
		t.IVal = ival
	}
	t.Lexeme = l.interner.InternRange(l.src, start, l.pos)
	return t
}

func parseCInteger(raw string, base int) (uint64, error) {
	switch base {
	case 16:
		return strconv.ParseUint(raw[2:], 16, 64)
	case 8:
		if raw == "0" {
			return 0, nil
		}
		return strconv.ParseUint(raw[1:], 8, 64)
	default:
		return strconv.ParseUint(raw, 10, 64)
	}
}

// scanEscape implements spec.md §4.D's string/char escape table: standard C
// escapes, octal \NNN (<=3 digits), hex \xHH….
func (l *Lexer) scanEscape() byte {
	l.advance() // backslash
	c := l.advance()
	switch c {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	case '\\', '\'', '"', '?':
		return c
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(c - '0')
		if l.current() >= '0' && l.current() <= '7' {
			val = val*8 + int(l.advance()-'0')
			if l.current() >= '0' && l.current() <= '7' {
				val = val*8 + int(l.advance()-'0')
			}
		}
		return byte(val)
	case 'x':
		val := 0
		for isHexDigit(l.current()) {
			d := l.advance()
			switch {
			case d >= '0' && d <= '9':
				val = val*16 + int(d-'0')
			case d >= 'a' && d <= 'f':
				val = val*16 + int(d-'a') + 10
			default:
				val = val*16 + int(d-'A') + 10
			}
		}
		return byte(val)
	default:
		return c
	}
}

func (l *Lexer) scanCharLit(loc logger.Loc, atBOL, hasSpace, wide bool) Token {
	if wide {
		l.advance() // 'L'
	}
	l.advance() // opening quote
	var c byte
	if l.current() == '\\' {
		c = l.scanEscape()
	} else {
		c = l.advance()
	}
	if l.current() == '\'' {
		l.advance()
	}
	return Token{Kind: token.CharLiteral, Loc: loc, IVal: uint64(c), IsWide: wide, AtBOL: atBOL, HasSpace: hasSpace}
}

func (l *Lexer) scanStringLit(loc logger.Loc, atBOL, hasSpace, wide bool) Token {
	if wide {
		l.advance() // 'L'
	}
	l.advance() // opening quote
	buf := buffer.New()
	for l.current() != 0 && l.current() != '"' {
		if l.current() == '\\' {
			buf.PushByte(l.scanEscape())
		} else {
			buf.PushByte(l.advance())
		}
	}
	if l.current() == '"' {
		l.advance()
	}
	return Token{
		Kind:     token.StringLiteral,
		Loc:      loc,
		Lexeme:   l.interner.Intern(buf.String()),
		IsWide:   wide,
		AtBOL:    atBOL,
		HasSpace: hasSpace,
	}
}

// scanPunctuator implements spec.md §4.D's punctuator table, including
// compound assignments, ..., ->, ##.
func (l *Lexer) scanPunctuator(loc logger.Loc, atBOL, hasSpace bool) Token {
	c := l.advance()
	kind := token.Invalid
	switch c {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '~':
		kind = token.Tilde
	case '?':
		kind = token.Question
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '.':
		if l.current() == '.' && l.at(1) == '.' {
			l.advance()
			l.advance()
			kind = token.Ellipsis
		} else {
			kind = token.Dot
		}
	case '#':
		if l.matchChar('#') {
			kind = token.HashHash
		} else {
			kind = token.Hash
		}
	case '+':
		switch {
		case l.matchChar('+'):
			kind = token.Inc
		case l.matchChar('='):
			kind = token.AddAssign
		default:
			kind = token.Plus
		}
	case '-':
		switch {
		case l.matchChar('-'):
			kind = token.Dec
		case l.matchChar('>'):
			kind = token.Arrow
		case l.matchChar('='):
			kind = token.SubAssign
		default:
			kind = token.Minus
		}
	case '*':
		if l.matchChar('=') {
			kind = token.MulAssign
		} else {
			kind = token.Star
		}
	case '/':
		if l.matchChar('=') {
			kind = token.DivAssign
		} else {
			kind = token.Slash
		}
	case '%':
		if l.matchChar('=') {
			kind = token.ModAssign
		} else {
			kind = token.Percent
		}
	case '&':
		switch {
		case l.matchChar('&'):
			kind = token.AmpAmp
		case l.matchChar('='):
			kind = token.AndAssign
		default:
			kind = token.Amp
		}
	case '|':
		switch {
		case l.matchChar('|'):
			kind = token.PipePipe
		case l.matchChar('='):
			kind = token.OrAssign
		default:
			kind = token.Pipe
		}
	case '^':
		if l.matchChar('=') {
			kind = token.XorAssign
		} else {
			kind = token.Caret
		}
	case '=':
		if l.matchChar('=') {
			kind = token.EqEq
		} else {
			kind = token.Assign
		}
	case '!':
		if l.matchChar('=') {
			kind = token.NotEq
		} else {
			kind = token.Bang
		}
	case '<':
		switch {
		case l.matchChar('<'):
			if l.matchChar('=') {
				kind = token.LShiftAssign
			} else {
				kind = token.LShift
			}
		case l.matchChar('='):
			kind = token.Le
		default:
			kind = token.Lt
		}
	case '>':
		switch {
		case l.matchChar('>'):
			if l.matchChar('=') {
				kind = token.RShiftAssign
			} else {
				kind = token.RShift
			}
		case l.matchChar('='):
			kind = token.Ge
		default:
			kind = token.Gt
		}
	default:
		logger.Errorf(l.log, loc, "invalid character %q", string(c))
		kind = token.Invalid
	}
	return Token{Kind: kind, Loc: loc, AtBOL: atBOL, HasSpace: hasSpace}
}
