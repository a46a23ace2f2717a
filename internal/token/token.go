// Package token defines the lexical token kinds of spec.md §4.D, grounded
// on the original implementation's lexer.h TokenKind enum and reshaped into
// the teacher's T-enum idiom (internal/js_lexer's T type and Keywords map).
package token

type T uint8

const (
	EndOfFile T = iota
	Invalid

	// Literals.
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral

	Identifier

	// Keywords (C99 §6.4.1), including _Bool/_Complex/_Imaginary.
	Auto
	Break
	Case
	Char
	Const
	Continue
	Default
	Do
	Double
	Else
	Enum
	Extern
	Float
	For
	Goto
	If
	Inline
	Int
	Long
	Register
	Restrict
	Return
	Short
	Signed
	Sizeof
	Static
	Struct
	Switch
	Typedef
	Union
	Unsigned
	Void
	Volatile
	While
	Bool
	Complex
	Imaginary

	// Punctuators.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Dot
	Arrow
	Inc
	Dec
	Amp
	Star
	Plus
	Minus
	Tilde
	Bang
	Slash
	Percent
	LShift
	RShift
	Lt
	Gt
	Le
	Ge
	EqEq
	NotEq
	Caret
	Pipe
	AmpAmp
	PipePipe
	Question
	Colon
	Semicolon
	Ellipsis
	Assign
	MulAssign
	DivAssign
	ModAssign
	AddAssign
	SubAssign
	LShiftAssign
	RShiftAssign
	AndAssign
	XorAssign
	OrAssign
	Comma
	Hash
	HashHash
)

// LitSuffix is the bitset of integer-literal suffix flags from spec.md
// §4.D: "u, l, ll (any case/order) set the appropriate flags."
type LitSuffix uint8

const (
	SuffixUnsigned LitSuffix = 1 << iota
	SuffixLong
	SuffixLongLong
)

// Keywords is the fixed keyword table of spec.md §4.D: "match against a
// fixed keyword table; fall back to identifier."
var Keywords = map[string]T{
	"auto":       Auto,
	"break":      Break,
	"case":       Case,
	"char":       Char,
	"const":      Const,
	"continue":   Continue,
	"default":    Default,
	"do":         Do,
	"double":     Double,
	"else":       Else,
	"enum":       Enum,
	"extern":     Extern,
	"float":      Float,
	"for":        For,
	"goto":       Goto,
	"if":         If,
	"inline":     Inline,
	"int":        Int,
	"long":       Long,
	"register":   Register,
	"restrict":   Restrict,
	"return":     Return,
	"short":      Short,
	"signed":     Signed,
	"sizeof":     Sizeof,
	"static":     Static,
	"struct":     Struct,
	"switch":     Switch,
	"typedef":    Typedef,
	"union":      Union,
	"unsigned":   Unsigned,
	"void":       Void,
	"volatile":   Volatile,
	"while":      While,
	"_Bool":      Bool,
	"_Complex":   Complex,
	"_Imaginary": Imaginary,
}

var tokenToString = map[T]string{
	EndOfFile:     "end of file",
	Invalid:       "invalid token",
	IntLiteral:    "integer literal",
	FloatLiteral:  "floating literal",
	CharLiteral:   "character literal",
	StringLiteral: "string literal",
	Identifier:    "identifier",
	LParen:        "(",
	RParen:        ")",
	LBracket:      "[",
	RBracket:      "]",
	LBrace:        "{",
	RBrace:        "}",
	Dot:           ".",
	Arrow:         "->",
	Inc:           "++",
	Dec:           "--",
	Amp:           "&",
	Star:          "*",
	Plus:          "+",
	Minus:         "-",
	Tilde:         "~",
	Bang:          "!",
	Slash:         "/",
	Percent:       "%",
	LShift:        "<<",
	RShift:        ">>",
	Lt:            "<",
	Gt:            ">",
	Le:            "<=",
	Ge:            ">=",
	EqEq:          "==",
	NotEq:         "!=",
	Caret:         "^",
	Pipe:          "|",
	AmpAmp:        "&&",
	PipePipe:      "||",
	Question:      "?",
	Colon:         ":",
	Semicolon:     ";",
	Ellipsis:      "...",
	Assign:        "=",
	MulAssign:     "*=",
	DivAssign:     "/=",
	ModAssign:     "%=",
	AddAssign:     "+=",
	SubAssign:     "-=",
	LShiftAssign:  "<<=",
	RShiftAssign:  ">>=",
	AndAssign:     "&=",
	XorAssign:     "^=",
	OrAssign:      "|=",
	Comma:         ",",
	Hash:          "#",
	HashHash:      "##",
}

func init() {
	for word, t := range Keywords {
		tokenToString[t] = word
	}
}

func (t T) String() string {
	if s, ok := tokenToString[t]; ok {
		return s
	}
	return "<unknown token>"
}

// IsTypeKeyword reports whether t is a type specifier or qualifier keyword
// usable at the start of a declaration-specifier list (spec.md §4.G).
func (t T) IsTypeKeyword() bool {
	switch t {
	case Void, Bool, Char, Short, Int, Long, Float, Double, Signed, Unsigned, Complex,
		Struct, Union, Enum, Const, Volatile, Restrict, Inline,
		Typedef, Extern, Static, Auto, Register:
		return true
	}
	return false
}
