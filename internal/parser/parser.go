// Package parser implements spec.md §4.C/§4.G: a recursive-descent C99
// parser with tentative typing (identifiers are checked against the
// symbol table to decide whether they start a declaration) producing the
// internal/ast tree.
//
// Grounded throughout on the original implementation's parser.c, reshaped
// per spec.md §9's REDESIGN FLAG: the original signals an unrecoverable
// parse failure by logging and improvising a placeholder node inline,
// since C has no structured exceptions; here a genuinely unrecoverable
// token (one no improvised placeholder can paper over) is raised as a
// panic carrying a sentinel type and recovered at the nearest statement
// or top-level declaration boundary, which then resynchronizes the token
// stream to the next ';' or '}' before continuing — the same recovery
// point the original reaches by falling through to its next loop
// iteration, made explicit instead of implicit.
package parser

import (
	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/lexer"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/token"
)

// Parser holds one file's parse state: its lexer, the shared symbol
// table, and loop/switch nesting counters used to validate break/continue
// placement (spec.md §4.C).
type Parser struct {
	lex         *lexer.Lexer
	log         logger.Log
	st          *symtab.SymTab
	loopDepth   int
	switchDepth int
}

func New(lex *lexer.Lexer, log logger.Log, st *symtab.SymTab) *Parser {
	return &Parser{lex: lex, log: log, st: st}
}

// syntaxError is the panic sentinel of the REDESIGN FLAG above. fail is
// the only place that raises it, and no parse rule calls fail: every
// syntax error is logged where it is found (by lexer.Expect or next to an
// improvised placeholder) and parsing continues, so the recover handlers
// in Parse and parseStmtSynced never fire.
type syntaxError struct{}

func (p *Parser) fail(loc logger.Loc, format string, args ...interface{}) {
	logger.Errorf(p.log, loc, format, args...)
	panic(syntaxError{})
}

func (p *Parser) cur() token.T     { return p.lex.Cur.Kind }
func (p *Parser) loc() logger.Loc  { return p.lex.Cur.Loc }
func (p *Parser) match(k token.T) bool { return p.lex.Match(k) }
func (p *Parser) expect(k token.T) { p.lex.Expect(k) }

// syncToStmtBoundary implements the REDESIGN FLAG's resynchronization:
// skip tokens until a ';' (consumed) or a '}'/EOF (left for the caller to
// see) is reached.
func (p *Parser) syncToStmtBoundary() {
	for {
		switch p.cur() {
		case token.Semicolon:
			p.lex.Next()
			return
		case token.RBrace, token.EndOfFile:
			return
		default:
			p.lex.Next()
		}
	}
}

// Parse implements spec.md §4.G's top-level entry point: parse a whole
// translation unit into a Program.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	for p.cur() != token.EndOfFile {
		decls := p.parseTopLevelDeclSynced()
		prog.Decls = append(prog.Decls, decls...)
	}
	return prog
}

func (p *Parser) parseTopLevelDeclSynced() (decls []ast.Decl) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.syncToStmtBoundary()
			decls = nil
		}
	}()
	return p.parseDeclaration()
}

// isTypeName implements spec.md §4.G's typedef probe: a storage-class or
// type-specifier keyword, or an identifier already bound as a typedef
// name.
func (p *Parser) isTypeName() bool {
	if p.cur().IsTypeKeyword() {
		return true
	}
	if p.cur() == token.Identifier && p.st.IsTypedef(p.lex.Cur.Lexeme) {
		return true
	}
	return false
}

// tryEvalConst is the original's try_eval_const: a best-effort constant
// fold used only to decide whether an array-bound expression is a
// compile-time constant (fixed array) or must become a VLA — not a full
// constant-expression evaluator, just enough for the literal and simple
// arithmetic cases array declarators actually use.
func tryEvalConst(e ast.Expr) (int64, bool) {
	switch d := e.Data.(type) {
	case *ast.EIntLit:
		return int64(d.Value), true
	case *ast.EUnary:
		v, ok := tryEvalConst(d.Operand)
		if !ok {
			return 0, false
		}
		switch d.Op {
		case ast.UnaryNeg:
			return -v, true
		case ast.UnaryPos:
			return v, true
		case ast.UnaryBitNot:
			return ^v, true
		}
		return 0, false
	case *ast.EBinary:
		l, ok1 := tryEvalConst(d.L)
		r, ok2 := tryEvalConst(d.R)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch d.Op {
		case ast.BinAdd:
			return l + r, true
		case ast.BinSub:
			return l - r, true
		case ast.BinMul:
			return l * r, true
		case ast.BinDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		}
		return 0, false
	}
	return 0, false
}
