package parser

import (
	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/token"
	"github.com/c99js/c99js/internal/types"
)

func litTypeForInt(suffix token.LitSuffix) *types.Type {
	unsigned := suffix&token.SuffixUnsigned != 0
	switch {
	case suffix&token.SuffixLongLong != 0:
		if unsigned {
			return types.TyULLong
		}
		return types.TyLLong
	case suffix&token.SuffixLong != 0:
		if unsigned {
			return types.TyULong
		}
		return types.TyLong
	default:
		if unsigned {
			return types.TyUInt
		}
		return types.TyInt
	}
}

// parsePrimaryExpr implements parse_primary_expr: literals, identifiers
// (resolved against the symbol table for type and enum-constant folding),
// parenthesized expressions, casts, and compound literals.
func (p *Parser) parsePrimaryExpr() ast.Expr {
	loc := p.loc()

	switch p.cur() {
	case token.IntLiteral:
		ty := litTypeForInt(p.lex.Cur.Suffix)
		val := p.lex.Cur.IVal
		p.lex.Next()
		return ast.Expr{Data: &ast.EIntLit{Value: val}, Type: ty, Loc: loc}

	case token.FloatLiteral:
		ty := types.TyDouble
		if p.lex.Cur.Suffix&token.SuffixLong != 0 {
			ty = types.TyLDouble
		}
		val := p.lex.Cur.FVal
		p.lex.Next()
		return ast.Expr{Data: &ast.EFloatLit{Value: val}, Type: ty, Loc: loc}

	case token.CharLiteral:
		val := int32(p.lex.Cur.IVal)
		p.lex.Next()
		return ast.Expr{Data: &ast.ECharLit{Value: val}, Type: types.TyInt, Loc: loc}

	case token.StringLiteral:
		s := p.lex.Cur.Lexeme
		wide := p.lex.Cur.IsWide
		p.lex.Next()
		// Adjacent string literal concatenation (C99 §6.4.5).
		for p.cur() == token.StringLiteral {
			s += p.lex.Cur.Lexeme
			wide = wide || p.lex.Cur.IsWide
			p.lex.Next()
		}
		elemTy := types.TyChar
		return ast.Expr{
			Data: &ast.EStringLit{Value: s, Wide: wide},
			Type: types.NewArray(elemTy, len(s)+1),
			Loc:  loc,
		}

	case token.Identifier:
		name := p.lex.Cur.Lexeme
		p.lex.Next()
		sym := p.st.Lookup(name)
		if sym != nil && sym.Kind == symtab.SymEnumConst {
			return ast.Expr{Data: &ast.EIntLit{Value: uint64(sym.EnumVal)}, Type: types.TyInt, Loc: loc}
		}
		e := ast.Expr{Data: &ast.EIdent{Name: name, Sym: sym}, Loc: loc}
		if sym != nil {
			e.Type = sym.Type
		}
		return e

	case token.LParen:
		p.lex.Next()
		if p.isTypeName() {
			ty := p.parseTypeName()
			p.expect(token.RParen)
			if p.cur() == token.LBrace {
				init := p.parseInitList()
				return ast.Expr{Data: &ast.ECompoundLit{Type: ty, Init: init}, Type: ty, Loc: loc}
			}
			operand := p.parseCastExpr()
			return ast.Expr{Data: &ast.ECast{To: ty, From: operand}, Type: ty, Loc: loc}
		}
		e := p.parseExpr()
		p.expect(token.RParen)
		return e

	default:
		logger.Errorf(p.log, loc, "expected expression, got %s", p.cur().String())
		p.lex.Next()
		return ast.Expr{Data: &ast.EIntLit{Value: 0}, Type: types.TyInt, Loc: loc}
	}
}

// parsePostfixExpr implements parse_postfix_expr: subscript, call, member
// access (. and ->), and postfix ++/--.
func (p *Parser) parsePostfixExpr() ast.Expr {
	n := p.parsePrimaryExpr()

	for {
		loc := p.loc()
		switch {
		case p.match(token.LBracket):
			idx := p.parseExpr()
			p.expect(token.RBracket)
			var elemTy *types.Type
			if n.Type != nil && (n.Type.Kind == types.Ptr || n.Type.Kind == types.Array) {
				elemTy = n.Type.Base
			}
			n = ast.Expr{Data: &ast.ESubscript{Base: n, Index: idx}, Type: elemTy, Loc: loc}

		case p.cur() == token.LParen:
			p.lex.Next()
			var args []ast.Expr
			if p.cur() != token.RParen {
				for {
					args = append(args, p.parseAssignExpr())
					if !p.match(token.Comma) {
						break
					}
				}
			}
			p.expect(token.RParen)
			retTy := types.TyInt
			if n.Type != nil {
				ft := n.Type
				if ft.Kind == types.Ptr {
					ft = ft.Base
				}
				if ft != nil && ft.Kind == types.Func && ft.ReturnType != nil {
					retTy = ft.ReturnType
				}
			}
			n = ast.Expr{Data: &ast.ECall{Callee: n, Args: args}, Type: retTy, Loc: loc}

		case p.match(token.Dot):
			name := p.lex.Cur.Lexeme
			p.expect(token.Identifier)
			var fieldTy *types.Type
			if n.Type != nil {
				if m := types.FindMember(n.Type, name); m != nil {
					fieldTy = m.Type
				}
			}
			n = ast.Expr{Data: &ast.EMember{Base: n, Field: name}, Type: fieldTy, Loc: loc}

		case p.match(token.Arrow):
			name := p.lex.Cur.Lexeme
			p.expect(token.Identifier)
			var fieldTy *types.Type
			if n.Type != nil && n.Type.Kind == types.Ptr && n.Type.Base != nil {
				if m := types.FindMember(n.Type.Base, name); m != nil {
					fieldTy = m.Type
				}
			}
			n = ast.Expr{Data: &ast.EMember{Base: n, Field: name, Arrow: true}, Type: fieldTy, Loc: loc}

		case p.match(token.Inc):
			n = ast.Expr{Data: &ast.EPostIncDec{Operand: n}, Type: n.Type, Loc: loc}

		case p.match(token.Dec):
			n = ast.Expr{Data: &ast.EPostIncDec{Operand: n, Dec: true}, Type: n.Type, Loc: loc}

		default:
			return n
		}
	}
}

// parseUnaryExpr implements parse_unary_expr: prefix ++/--, &, *, +, -, ~,
// !, and sizeof (of an expression or, via one token of lookahead, a
// parenthesized type name).
func (p *Parser) parseUnaryExpr() ast.Expr {
	loc := p.loc()

	switch {
	case p.match(token.Inc):
		operand := p.parseUnaryExpr()
		return ast.Expr{Data: &ast.EPreIncDec{Operand: operand}, Type: operand.Type, Loc: loc}
	case p.match(token.Dec):
		operand := p.parseUnaryExpr()
		return ast.Expr{Data: &ast.EPreIncDec{Operand: operand, Dec: true}, Type: operand.Type, Loc: loc}
	case p.match(token.Amp):
		operand := p.parseCastExpr()
		var ty *types.Type
		if operand.Type != nil {
			ty = types.NewPtr(operand.Type)
		}
		return ast.Expr{Data: &ast.EAddr{Operand: operand}, Type: ty, Loc: loc}
	case p.match(token.Star):
		operand := p.parseCastExpr()
		var ty *types.Type
		if operand.Type != nil && operand.Type.Kind == types.Ptr {
			ty = operand.Type.Base
		}
		return ast.Expr{Data: &ast.EDeref{Operand: operand}, Type: ty, Loc: loc}
	case p.match(token.Plus):
		operand := p.parseCastExpr()
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnaryPos, Operand: operand}, Type: operand.Type, Loc: loc}
	case p.match(token.Minus):
		operand := p.parseCastExpr()
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnaryNeg, Operand: operand}, Type: operand.Type, Loc: loc}
	case p.match(token.Tilde):
		operand := p.parseCastExpr()
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnaryBitNot, Operand: operand}, Type: operand.Type, Loc: loc}
	case p.match(token.Bang):
		operand := p.parseCastExpr()
		return ast.Expr{Data: &ast.EUnary{Op: ast.UnaryNot, Operand: operand}, Type: types.TyInt, Loc: loc}
	case p.cur() == token.Sizeof:
		p.lex.Next()
		if p.cur() == token.LParen {
			peeked := p.lex.Peek()
			if peeked.Kind.IsTypeKeyword() || (peeked.Kind == token.Identifier && p.st.IsTypedef(peeked.Lexeme)) {
				p.lex.Next() // '('
				ty := p.parseTypeName()
				p.expect(token.RParen)
				return ast.Expr{Data: &ast.ESizeofType{Of: ty}, Type: types.TyUInt, Loc: loc}
			}
		}
		operand := p.parseUnaryExpr()
		return ast.Expr{Data: &ast.ESizeofExpr{Operand: operand}, Type: types.TyUInt, Loc: loc}
	default:
		return p.parsePostfixExpr()
	}
}

// parseCastExpr implements parse_cast_expr: the cast itself is recognized
// inside parsePrimaryExpr's '(' handling (a parenthesized type name
// followed by something other than '{'), so this is just a pass-through,
// matching the original's own structure.
func (p *Parser) parseCastExpr() ast.Expr {
	return p.parseUnaryExpr()
}

// precedence implements get_precedence: binary-operator precedence
// climbing, ternary/assignment handled one level up.
func precedence(k token.T) int {
	switch k {
	case token.Star, token.Slash, token.Percent:
		return 13
	case token.Plus, token.Minus:
		return 12
	case token.LShift, token.RShift:
		return 11
	case token.Lt, token.Le, token.Gt, token.Ge:
		return 10
	case token.EqEq, token.NotEq:
		return 9
	case token.Amp:
		return 8
	case token.Caret:
		return 7
	case token.Pipe:
		return 6
	case token.AmpAmp:
		return 5
	case token.PipePipe:
		return 4
	default:
		return -1
	}
}

func binOpFor(k token.T) ast.BinaryOp {
	switch k {
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinMod
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.LShift:
		return ast.BinLShift
	case token.RShift:
		return ast.BinRShift
	case token.Lt:
		return ast.BinLt
	case token.Le:
		return ast.BinLe
	case token.Gt:
		return ast.BinGt
	case token.Ge:
		return ast.BinGe
	case token.EqEq:
		return ast.BinEq
	case token.NotEq:
		return ast.BinNe
	case token.Amp:
		return ast.BinBitAnd
	case token.Caret:
		return ast.BinBitXor
	case token.Pipe:
		return ast.BinBitOr
	case token.AmpAmp:
		return ast.BinLogicalAnd
	case token.PipePipe:
		return ast.BinLogicalOr
	default:
		return ast.BinAdd
	}
}

func isRelOrEq(op ast.BinaryOp) bool {
	switch op {
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinEq, ast.BinNe:
		return true
	}
	return false
}

// parseBinaryExpr implements parse_binary_expr: precedence-climbing over
// every binary operator, && and || included, folding each result's type via the
// usual arithmetic conversions (spec.md §4.B), except that pointer
// arithmetic keeps the pointer's own type.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	lhs := p.parseCastExpr()

	for {
		prec := precedence(p.cur())
		if prec < minPrec {
			break
		}
		loc := p.loc()
		op := p.cur()
		p.lex.Next()
		rhs := p.parseBinaryExpr(prec + 1)

		binOp := binOpFor(op)
		var ty *types.Type
		if lhs.Type != nil && rhs.Type != nil {
			switch {
			case isRelOrEq(binOp), binOp == ast.BinLogicalAnd, binOp == ast.BinLogicalOr:
				ty = types.TyInt
			case lhs.Type.Kind == types.Ptr:
				ty = lhs.Type
			case rhs.Type.Kind == types.Ptr:
				ty = rhs.Type
			default:
				ty = types.UsualArith(lhs.Type, rhs.Type)
			}
		}
		lhs = ast.Expr{Data: &ast.EBinary{Op: binOp, L: lhs, R: rhs}, Type: ty, Loc: loc}
	}
	return lhs
}

// parseCondExpr implements parse_cond_expr: || is re-checked at this
// level, matching the original's own quirk of handling it both in
// parse_binary_expr's precedence table and again here (parseBinaryExpr(4)
// already consumes every || and &&, so this loop never finds one), then
// the ternary.
func (p *Parser) parseCondExpr() ast.Expr {
	cond := p.parseBinaryExpr(4)

	for p.cur() == token.PipePipe {
		loc := p.loc()
		p.lex.Next()
		rhs := p.parseBinaryExpr(4)
		cond = ast.Expr{Data: &ast.EBinary{Op: ast.BinLogicalOr, L: cond, R: rhs}, Type: types.TyInt, Loc: loc}
	}

	if p.cur() != token.Question {
		return cond
	}
	loc := p.loc()
	p.lex.Next()
	thenExpr := p.parseExpr()
	p.expect(token.Colon)
	elseExpr := p.parseCondExpr()
	return ast.Expr{Data: &ast.ETernary{Cond: cond, Then: thenExpr, Else: elseExpr}, Type: thenExpr.Type, Loc: loc}
}

func assignOpFor(k token.T) (ast.AssignOp, bool) {
	switch k {
	case token.Assign:
		return ast.AssignNone, true
	case token.AddAssign:
		return ast.AssignAdd, true
	case token.SubAssign:
		return ast.AssignSub, true
	case token.MulAssign:
		return ast.AssignMul, true
	case token.DivAssign:
		return ast.AssignDiv, true
	case token.ModAssign:
		return ast.AssignMod, true
	case token.LShiftAssign:
		return ast.AssignLShift, true
	case token.RShiftAssign:
		return ast.AssignRShift, true
	case token.AndAssign:
		return ast.AssignBitAnd, true
	case token.OrAssign:
		return ast.AssignBitOr, true
	case token.XorAssign:
		return ast.AssignBitXor, true
	default:
		return ast.AssignNone, false
	}
}

// parseAssignExpr implements parse_assign_expr.
func (p *Parser) parseAssignExpr() ast.Expr {
	lhs := p.parseCondExpr()
	if op, ok := assignOpFor(p.cur()); ok {
		loc := p.loc()
		p.lex.Next()
		rhs := p.parseAssignExpr()
		return ast.Expr{Data: &ast.EAssign{Target: lhs, Value: rhs, CompoundOp: op}, Type: lhs.Type, Loc: loc}
	}
	return lhs
}

// parseExpr implements parse_expr: the comma operator.
func (p *Parser) parseExpr() ast.Expr {
	n := p.parseAssignExpr()
	for p.match(token.Comma) {
		loc := p.loc()
		rhs := p.parseAssignExpr()
		n = ast.Expr{Data: &ast.EComma{L: n, R: rhs}, Type: rhs.Type, Loc: loc}
	}
	return n
}

// parseInitList implements parse_initializer's brace-initializer branch,
// including designators (`.field =` / `[index] =`), spec.md §4.G.
func (p *Parser) parseInitList() *ast.EInitList {
	p.expect(token.LBrace)
	list := &ast.EInitList{Braced: true}
	for p.cur() != token.RBrace && p.cur() != token.EndOfFile {
		var elem ast.InitElem
		switch {
		case p.match(token.Dot):
			elem.Field = p.lex.Cur.Lexeme
			p.expect(token.Identifier)
			p.expect(token.Assign)
			elem.Value = p.parseInitializer()
		case p.match(token.LBracket):
			elem.Index = p.parseCondExpr()
			p.expect(token.RBracket)
			p.expect(token.Assign)
			elem.Value = p.parseInitializer()
		default:
			elem.Value = p.parseInitializer()
		}
		list.Elems = append(list.Elems, elem)
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return list
}

// parseInitializer implements parse_initializer: either a nested brace
// list or a plain assignment expression, wrapped as a compound-literal-
// like Expr so both shapes can live in the same field.
func (p *Parser) parseInitializer() ast.Expr {
	if p.cur() == token.LBrace {
		loc := p.loc()
		list := p.parseInitList()
		return ast.Expr{Data: &ast.ECompoundLit{Init: list}, Loc: loc}
	}
	return p.parseAssignExpr()
}
