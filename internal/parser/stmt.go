package parser

import (
	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/token"
)

// parseStmtSynced wraps parseStmt with the REDESIGN FLAG's recovery: a
// panic from deep inside an expression or declaration unwinds to here,
// where the token stream is resynchronized to the next statement
// boundary and an empty statement is substituted so the enclosing block
// still produces a well-formed AST.
func (p *Parser) parseStmtSynced() (s ast.Stmt) {
	loc := p.loc()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(syntaxError); !ok {
				panic(r)
			}
			p.syncToStmtBoundary()
			s = ast.Stmt{Data: &ast.SEmpty{}, Loc: loc}
		}
	}()
	return p.parseStmt()
}

// parseStmt implements parse_stmt.
func (p *Parser) parseStmt() ast.Stmt {
	loc := p.loc()

	if p.cur() == token.Identifier && p.lex.Peek().Kind == token.Colon {
		name := p.lex.Cur.Lexeme
		p.lex.Next()
		p.lex.Next()
		p.st.DefineLabel(name, loc)
		inner := p.parseStmt()
		return ast.Stmt{Data: &ast.SLabel{Name: name, Stmt: inner}, Loc: loc}
	}

	if p.match(token.LBrace) {
		return p.parseCompoundStmtBody(loc)
	}

	switch p.cur() {
	case token.If:
		p.lex.Next()
		p.expect(token.LParen)
		cond := p.parseExpr()
		p.expect(token.RParen)
		then := p.parseStmtSynced()
		var elseStmt *ast.Stmt
		if p.match(token.Else) {
			e := p.parseStmtSynced()
			elseStmt = &e
		}
		return ast.Stmt{Data: &ast.SIf{Cond: cond, Then: then, Else: elseStmt}, Loc: loc}

	case token.While:
		p.lex.Next()
		p.expect(token.LParen)
		cond := p.parseExpr()
		p.expect(token.RParen)
		p.loopDepth++
		body := p.parseStmtSynced()
		p.loopDepth--
		return ast.Stmt{Data: &ast.SWhile{Cond: cond, Body: body}, Loc: loc}

	case token.Do:
		p.lex.Next()
		p.loopDepth++
		body := p.parseStmtSynced()
		p.loopDepth--
		p.expect(token.While)
		p.expect(token.LParen)
		cond := p.parseExpr()
		p.expect(token.RParen)
		p.expect(token.Semicolon)
		return ast.Stmt{Data: &ast.SDoWhile{Body: body, Cond: cond}, Loc: loc}

	case token.For:
		return p.parseForStmt(loc)

	case token.Switch:
		p.lex.Next()
		p.expect(token.LParen)
		tag := p.parseExpr()
		p.expect(token.RParen)
		p.switchDepth++
		sw := p.parseSwitchBody(loc, tag)
		p.switchDepth--
		return sw

	case token.Break:
		p.lex.Next()
		if p.loopDepth == 0 && p.switchDepth == 0 {
			logger.Errorf(p.log, loc, "break statement not within a loop or switch")
		}
		p.expect(token.Semicolon)
		return ast.Stmt{Data: &ast.SBreak{}, Loc: loc}

	case token.Continue:
		p.lex.Next()
		if p.loopDepth == 0 {
			logger.Errorf(p.log, loc, "continue statement not within a loop")
		}
		p.expect(token.Semicolon)
		return ast.Stmt{Data: &ast.SContinue{}, Loc: loc}

	case token.Return:
		p.lex.Next()
		var value *ast.Expr
		if p.cur() != token.Semicolon {
			e := p.parseExpr()
			value = &e
		}
		p.expect(token.Semicolon)
		return ast.Stmt{Data: &ast.SReturn{Value: value}, Loc: loc}

	case token.Goto:
		p.lex.Next()
		label := p.lex.Cur.Lexeme
		p.expect(token.Identifier)
		p.expect(token.Semicolon)
		return ast.Stmt{Data: &ast.SGoto{Label: label}, Loc: loc}

	case token.Semicolon:
		p.lex.Next()
		return ast.Stmt{Data: &ast.SEmpty{}, Loc: loc}
	}

	if p.isTypeName() {
		decls := p.parseDeclaration()
		if len(decls) == 0 {
			return ast.Stmt{Data: &ast.SEmpty{}, Loc: loc}
		}
		var vars []*ast.VarDecl
		for _, d := range decls {
			if fn, ok := d.Data.(*ast.DFunc); ok {
				logger.Errorf(p.log, loc, "function definition %q not allowed in block scope", fn.Name)
				continue
			}
			if v, ok := d.Data.(*ast.DVar); ok {
				vars = append(vars, &ast.VarDecl{Name: v.Name, Type: v.Type, SC: v.SC, Init: v.Init, Sym: v.Sym, Loc: d.Loc})
			}
		}
		return ast.Stmt{Data: &ast.SDecl{Decls: vars}, Loc: loc}
	}

	expr := p.parseExpr()
	p.expect(token.Semicolon)
	return ast.Stmt{Data: &ast.SExpr{Value: expr}, Loc: loc}
}

func (p *Parser) parseForStmt(loc logger.Loc) ast.Stmt {
	p.lex.Next()
	p.expect(token.LParen)
	p.st.EnterScope()

	var init *ast.Stmt
	switch {
	case p.cur() == token.Semicolon:
		p.lex.Next()
	case p.isTypeName():
		decls := p.parseDeclaration()
		var vars []*ast.VarDecl
		for _, d := range decls {
			if v, ok := d.Data.(*ast.DVar); ok {
				vars = append(vars, &ast.VarDecl{Name: v.Name, Type: v.Type, SC: v.SC, Init: v.Init, Sym: v.Sym, Loc: d.Loc})
			}
		}
		s := ast.Stmt{Data: &ast.SDecl{Decls: vars}, Loc: loc}
		init = &s
	default:
		e := p.parseExpr()
		p.expect(token.Semicolon)
		s := ast.Stmt{Data: &ast.SExpr{Value: e}, Loc: loc}
		init = &s
	}

	var cond *ast.Expr
	if p.cur() != token.Semicolon {
		c := p.parseExpr()
		cond = &c
	}
	p.expect(token.Semicolon)

	var inc *ast.Expr
	if p.cur() != token.RParen {
		i := p.parseExpr()
		inc = &i
	}
	p.expect(token.RParen)

	p.loopDepth++
	body := p.parseStmtSynced()
	p.loopDepth--
	p.st.LeaveScope()

	return ast.Stmt{Data: &ast.SFor{Init: init, Cond: cond, Inc: inc, Body: body}, Loc: loc}
}

// parseSwitchBody implements parse_stmt's TK_SWITCH/TK_CASE/TK_DEFAULT
// trio, collapsed here into one pass over the switch's compound statement
// that groups consecutive statements under their nearest preceding case
// label, matching the shape SSwitch expects (spec.md §5's ND_SWITCH).
func (p *Parser) parseSwitchBody(loc logger.Loc, tag ast.Expr) ast.Stmt {
	sw := &ast.SSwitch{Tag: tag}
	p.expect(token.LBrace)
	var curCase *ast.SwitchCase
	var curDefault *[]ast.Stmt

	for p.cur() != token.RBrace && p.cur() != token.EndOfFile {
		switch p.cur() {
		case token.Case:
			caseLoc := p.loc()
			p.lex.Next()
			expr := p.parseCondExpr()
			p.expect(token.Colon)
			val, _ := tryEvalConst(expr)
			sw.Cases = append(sw.Cases, ast.SwitchCase{Expr: expr, Value: val})
			curCase = &sw.Cases[len(sw.Cases)-1]
			curDefault = nil
			_ = caseLoc
		case token.Default:
			p.lex.Next()
			p.expect(token.Colon)
			sw.Default = []ast.Stmt{}
			curDefault = &sw.Default
			curCase = nil
		default:
			s := p.parseStmtSynced()
			switch {
			case curCase != nil:
				curCase.Body = append(curCase.Body, s)
			case curDefault != nil:
				*curDefault = append(*curDefault, s)
			default:
				logger.Errorf(p.log, s.Loc, "statement not reachable from a case label")
			}
		}
	}
	p.expect(token.RBrace)
	return ast.Stmt{Data: sw, Loc: loc}
}

// parseCompoundStmtBody implements parse_compound_stmt once the opening
// '{' has already been consumed.
func (p *Parser) parseCompoundStmtBody(loc logger.Loc) ast.Stmt {
	p.st.EnterScope()
	block := &ast.SBlock{}
	for p.cur() != token.RBrace && p.cur() != token.EndOfFile {
		block.Stmts = append(block.Stmts, p.parseStmtSynced())
	}
	p.expect(token.RBrace)
	p.st.LeaveScope()
	return ast.Stmt{Data: block, Loc: loc}
}
