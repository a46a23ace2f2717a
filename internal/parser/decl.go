package parser

import (
	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/token"
	"github.com/c99js/c99js/internal/types"
)

// initListFromExpr unwraps parseInitializer's result: a brace list comes
// back as an ECompoundLit wrapping the real EInitList, a plain scalar
// initializer comes back as a bare expression and is wrapped as a
// one-element list so DVar/VarDecl only ever carry the list shape.
func initListFromExpr(e ast.Expr) *ast.EInitList {
	if lit, ok := e.Data.(*ast.ECompoundLit); ok && lit.Init != nil {
		return lit.Init
	}
	return &ast.EInitList{Elems: []ast.InitElem{{Value: e}}}
}

// fixupIncompleteArray implements the original's array-length backfill:
// `int a[] = {1,2,3}` and `char s[] = "hi"` both leave the array's bound
// unresolved until the initializer is known.
func fixupIncompleteArray(ty *types.Type, init *ast.EInitList) {
	if ty == nil || ty.Kind != types.Array || ty.ArrayLen >= 0 || init == nil {
		return
	}
	if len(init.Elems) == 1 && init.Elems[0].Field == "" && init.Elems[0].Index.Data == nil {
		if s, ok := init.Elems[0].Value.Data.(*ast.EStringLit); ok {
			ty.ArrayLen = len(s.Value) + 1
			ty.Size = ty.ArrayLen * ty.Base.Size
			return
		}
	}
	ty.ArrayLen = len(init.Elems)
	ty.Size = ty.ArrayLen * ty.Base.Size
}

// paramsFromFuncType walks the Params linked list of a function type in
// declaration order, producing both the AST's named Param slice and the
// SYM_PARAM symbols a function definition's body can reference.
func (p *Parser) paramsFromFuncType(ty *types.Type, loc logger.Loc) []ast.Param {
	var params []ast.Param
	for pp := ty.Params; pp != nil; pp = pp.Next {
		param := ast.Param{Name: pp.Name, Type: pp.Type}
		if pp.Name != "" {
			param.Sym = p.st.Define(pp.Name, symtab.SymParam, pp.Type, loc)
		}
		params = append(params, param)
	}
	return params
}

// parseDeclaration implements parse_declaration: a declaration-specifier
// list followed by one or more declarators, each either a typedef name, a
// function definition/prototype, or a variable declaration with an
// optional initializer (spec.md §4.G).
func (p *Parser) parseDeclaration() []ast.Decl {
	loc := p.loc()
	base, sc := p.parseTypeSpecifier()

	if sc == types.SCTypedef {
		var decls []ast.Decl
		for {
			var name string
			ty := p.parseDeclarator(base, &name)
			if name != "" {
				p.st.Define(name, symtab.SymTypedef, ty, loc)
				decls = append(decls, ast.Decl{Data: &ast.DTypedef{Name: name, Type: ty}, Loc: loc})
			}
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Semicolon)
		return decls
	}

	if p.match(token.Semicolon) {
		// struct/union/enum-only declaration: the tag/type was already
		// registered in the symbol table by parseTypeSpecifier.
		return nil
	}

	var decls []ast.Decl
	for {
		var name string
		ty := p.parseDeclarator(base, &name)

		if ty.Kind == types.Func && p.cur() == token.LBrace {
			sym := p.st.Define(name, symtab.SymFunc, ty, loc)
			sym.IsDefined = true
			sym.SC = sc

			p.st.EnterFuncScope()
			params := p.paramsFromFuncType(ty, loc)

			p.lex.Next() // consume '{'
			bodyStmt := p.parseCompoundStmtBody(p.loc())
			p.st.LeaveScope()

			body := bodyStmt.Data.(*ast.SBlock)
			decls = append(decls, ast.Decl{
				Data: &ast.DFunc{Name: name, Type: ty, SC: sc, IsInline: ty.IsInline, Params: params, Body: body},
				Loc:  loc,
			})
			return decls
		}

		sk := symtab.SymVar
		if ty.Kind == types.Func {
			sk = symtab.SymFunc
		}
		sym := p.st.Define(name, sk, ty, loc)
		sym.SC = sc

		var init *ast.EInitList
		if p.match(token.Assign) {
			initExpr := p.parseInitializer()
			init = initListFromExpr(initExpr)
			sym.IsDefined = true
			fixupIncompleteArray(ty, init)
		}

		decls = append(decls, ast.Decl{Data: &ast.DVar{Name: name, Type: ty, SC: sc, Init: init, Sym: sym}, Loc: loc})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Semicolon)
	return decls
}
