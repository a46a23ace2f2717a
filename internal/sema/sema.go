// Package sema implements the semantic analyzer of spec.md §4.H: the pass
// that runs after parsing to give every expression its final, authoritative
// type and to make every implicit conversion the code generator will need
// explicit as an ECast node.
//
// The parser already resolves identifiers against the symbol table and
// assigns a provisional type to most expressions as it builds them (it has
// to, if only to decide whether a parenthesized name starts a cast or a
// struct member lookup needs a tag's layout). This pass re-derives those
// types from scratch instead of trusting the parser's provisional ones,
// exactly as the original implementation's sema_check runs as a fully
// separate pass over check_node/check_expr after parse_program returns —
// and, unlike the parser, it is the one place array-to-pointer and
// function-to-pointer decay happen, and the one place an implicit cast is
// actually inserted into the tree rather than just implied.
//
// Grounded on the original implementation's sema.c throughout:
// ensure_type/decay_array/implicit_cast map onto decay/implicitCast below,
// and check_expr/check_node map onto checkExpr/checkStmt's case-by-case
// switches, kept in the same order and covering the same node kinds.
package sema

import (
	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/types"
)

// Analyzer walks one translation unit, tracking the return type of the
// function currently being checked so `return` statements know what to
// cast their value toward.
type Analyzer struct {
	log     logger.Log
	retType *types.Type
}

func New(log logger.Log) *Analyzer {
	return &Analyzer{log: log}
}

// Check implements spec.md §4.H's entry point, sema_check: visit every
// top-level declaration, checking function bodies and file-scope
// initializers.
func (a *Analyzer) Check(prog *ast.Program) {
	for i := range prog.Decls {
		a.checkDecl(&prog.Decls[i])
	}
}

func (a *Analyzer) checkDecl(d *ast.Decl) {
	switch n := d.Data.(type) {
	case *ast.DFunc:
		if n.Body == nil {
			return
		}
		prevRet := a.retType
		a.retType = n.Type.ReturnType
		a.checkBlock(n.Body)
		a.retType = prevRet
	case *ast.DVar:
		if n.Init != nil {
			a.checkInitList(n.Type, n.Init)
		}
	case *ast.DTypedef:
		// A typedef introduces no executable code; nothing to check.
	}
}

func (a *Analyzer) checkBlock(b *ast.SBlock) {
	for i := range b.Stmts {
		a.checkStmt(&b.Stmts[i])
	}
}

// checkStmt implements check_node's statement-kind switch.
func (a *Analyzer) checkStmt(s *ast.Stmt) {
	switch n := s.Data.(type) {
	case *ast.SBlock:
		a.checkBlock(n)
	case *ast.SExpr:
		a.checkExpr(&n.Value)
	case *ast.SIf:
		a.checkExpr(&n.Cond)
		a.checkStmt(&n.Then)
		if n.Else != nil {
			a.checkStmt(n.Else)
		}
	case *ast.SWhile:
		a.checkExpr(&n.Cond)
		a.checkStmt(&n.Body)
	case *ast.SDoWhile:
		a.checkStmt(&n.Body)
		a.checkExpr(&n.Cond)
	case *ast.SFor:
		if n.Init != nil {
			a.checkStmt(n.Init)
		}
		if n.Cond != nil {
			a.checkExpr(n.Cond)
		}
		if n.Inc != nil {
			a.checkExpr(n.Inc)
		}
		a.checkStmt(&n.Body)
	case *ast.SSwitch:
		a.checkExpr(&n.Tag)
		for i := range n.Cases {
			for j := range n.Cases[i].Body {
				a.checkStmt(&n.Cases[i].Body[j])
			}
		}
		for j := range n.Default {
			a.checkStmt(&n.Default[j])
		}
	case *ast.SReturn:
		if n.Value != nil {
			a.checkExpr(n.Value)
			if a.retType != nil && !types.IsVoid(a.retType) {
				a.implicitCast(n.Value, a.retType)
			}
		}
	case *ast.SLabel:
		a.checkStmt(&n.Stmt)
	case *ast.SDecl:
		for _, vd := range n.Decls {
			if vd.Init != nil {
				a.checkInitList(vd.Type, vd.Init)
			}
		}
	case *ast.SBreak, *ast.SContinue, *ast.SGoto, *ast.SEmpty, *ast.SCase, *ast.SDefault:
		// No sub-expressions to check.
	}
}

// checkInitList implements the ND_INIT_LIST branch of check_node: a
// synthetic one-element wrap (Braced == false) is just the scalar
// initializer cast toward the declared type, except that a char array
// initialized from a string literal is left alone — the elements are
// copied byte-for-byte, not converted. A genuine brace list is walked
// member-by-member (struct/union) or element-by-element (array), each one
// cast toward its slot's type; a brace list against a bare scalar type
// (`int x = {1};`) takes its single element.
func (a *Analyzer) checkInitList(ty *types.Type, init *ast.EInitList) {
	if ty == nil || init == nil {
		return
	}
	if !init.Braced {
		e := &init.Elems[0].Value
		a.checkExpr(e)
		if ty.Kind == types.Array && ty.Base != nil && ty.Base.Kind == types.Char {
			if _, ok := e.Data.(*ast.EStringLit); ok {
				return
			}
		}
		a.implicitCast(e, ty)
		return
	}

	switch ty.Kind {
	case types.Array, types.VLA:
		for i := range init.Elems {
			el := &init.Elems[i]
			if sub, ok := el.Value.Data.(*ast.ECompoundLit); ok && sub.Init != nil {
				a.checkInitList(ty.Base, sub.Init)
				continue
			}
			a.checkExpr(&el.Value)
			a.implicitCast(&el.Value, ty.Base)
		}
	case types.Struct, types.Union:
		m := ty.Members
		for i := range init.Elems {
			el := &init.Elems[i]
			if el.Field != "" {
				if found := types.FindMember(ty, el.Field); found != nil {
					m = found
				}
			}
			if m == nil {
				a.checkExpr(&el.Value)
				continue
			}
			if sub, ok := el.Value.Data.(*ast.ECompoundLit); ok && sub.Init != nil {
				a.checkInitList(m.Type, sub.Init)
			} else {
				a.checkExpr(&el.Value)
				a.implicitCast(&el.Value, m.Type)
			}
			if ty.Kind == types.Union {
				break
			}
			m = m.Next
		}
	default:
		if len(init.Elems) > 0 {
			a.checkExpr(&init.Elems[0].Value)
			a.implicitCast(&init.Elems[0].Value, ty)
		}
	}
}

// decay implements decay_array, generalized to function designators: an
// array yields a pointer to its element type, and a bare function type
// (an identifier naming a function, not a call) yields a pointer to that
// function, matching C99 §6.3.2.1's array/function decay rules.
func decay(t *types.Type) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.Array, types.VLA:
		return types.NewPtr(t.Base)
	case types.Func:
		return types.NewPtr(t)
	default:
		return t
	}
}

// implicitCast implements implicit_cast: wrap e in an ECast toward target
// unless no conversion is needed or target is void (a cast to void is a
// discard, not a coercion — spec.md's "(void)expr;" idiom for suppressing
// an unused-value diagnostic, not a representation change).
func (a *Analyzer) implicitCast(e *ast.Expr, target *types.Type) {
	if target == nil || e.Type == nil || types.IsVoid(target) {
		return
	}
	if e.Type == target {
		return
	}
	if e.Type.Kind == target.Kind && e.Type.IsUnsigned == target.IsUnsigned {
		if !types.IsPtr(target) || types.IsCompatible(e.Type, target) {
			return
		}
	}
	old := *e
	*e = ast.Expr{Data: &ast.ECast{To: target, From: old}, Type: target, Loc: old.Loc}
}

// commonType implements the ternary operator's result-type rule: if either
// side is a pointer that side's type wins (spec.md leaves null-pointer-
// constant special-casing out of scope, per its Non-goals on exotic
// compatible-pointer-type rules); otherwise the usual arithmetic
// conversions apply.
func commonType(a, b *types.Type) *types.Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Kind == types.Ptr {
		return a
	}
	if b.Kind == types.Ptr {
		return b
	}
	if types.IsArithmetic(a) && types.IsArithmetic(b) {
		return types.UsualArith(a, b)
	}
	return a
}

func isRelOrEq(op ast.BinaryOp) bool {
	switch op {
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinEq, ast.BinNe:
		return true
	}
	return false
}

// ptrCompoundOp reports whether a compound-assignment operator keeps its
// pointer target's type unconverted (`p += 1`, `p -= 1`) rather than
// forcing the usual arithmetic conversions the way `p *= 1` would (which
// is never valid on a pointer and is left for the caller to have already
// rejected at grammar level — spec.md scopes type-error reporting to the
// cases that arise from legitimate C, not exhaustive ill-formed input).
func ptrCompoundOp(op ast.AssignOp) bool {
	return op == ast.AssignAdd || op == ast.AssignSub
}

// checkExpr implements check_expr: the full expression-kind switch,
// re-deriving e.Type from its already-checked children and inserting any
// implicit casts the node's kind requires.
func (a *Analyzer) checkExpr(e *ast.Expr) {
	switch n := e.Data.(type) {
	case *ast.EIntLit, *ast.EFloatLit, *ast.EStringLit, *ast.ECharLit:
		// Literal types are final as the lexer/parser produced them.

	case *ast.EIdent:
		if n.Sym == nil {
			logger.Errorf(a.log, e.Loc, "undeclared identifier %q", n.Name)
			return
		}
		e.Type = decay(n.Sym.Type)

	case *ast.EUnary:
		a.checkExpr(&n.Operand)
		switch n.Op {
		case ast.UnaryNot:
			e.Type = types.TyInt
		case ast.UnaryBitNot:
			if n.Operand.Type != nil {
				e.Type = types.IntPromote(n.Operand.Type)
			}
		default: // UnaryNeg, UnaryPos
			if n.Operand.Type != nil && types.IsFloat(n.Operand.Type) {
				e.Type = n.Operand.Type
			} else if n.Operand.Type != nil {
				e.Type = types.IntPromote(n.Operand.Type)
			}
		}

	case *ast.EBinary:
		a.checkExpr(&n.L)
		a.checkExpr(&n.R)
		lt, rt := n.L.Type, n.R.Type
		switch {
		case n.Op == ast.BinLogicalAnd || n.Op == ast.BinLogicalOr:
			e.Type = types.TyInt
		case isRelOrEq(n.Op):
			e.Type = types.TyInt
			if lt != nil && rt != nil && lt.Kind != types.Ptr && rt.Kind != types.Ptr {
				common := types.UsualArith(lt, rt)
				a.implicitCast(&n.L, common)
				a.implicitCast(&n.R, common)
			}
		case n.Op == ast.BinLShift || n.Op == ast.BinRShift:
			if lt != nil {
				e.Type = types.IntPromote(lt)
				a.implicitCast(&n.L, e.Type)
			}
			if rt != nil {
				a.implicitCast(&n.R, types.IntPromote(rt))
			}
		case lt != nil && lt.Kind == types.Ptr && rt != nil && rt.Kind == types.Ptr && n.Op == ast.BinSub:
			// Pointer difference yields an integer, not another pointer
			// (spec.md §4.I's "pointer arithmetic special-casing").
			e.Type = types.TyLong
		case lt != nil && lt.Kind == types.Ptr:
			e.Type = lt
		case rt != nil && rt.Kind == types.Ptr:
			e.Type = rt
		default:
			if lt != nil && rt != nil {
				common := types.UsualArith(lt, rt)
				a.implicitCast(&n.L, common)
				a.implicitCast(&n.R, common)
				e.Type = common
			}
		}

	case *ast.EAssign:
		a.checkExpr(&n.Target)
		a.checkExpr(&n.Value)
		target := n.Target.Type
		if n.CompoundOp != ast.AssignNone && target != nil && n.Value.Type != nil {
			if target.Kind == types.Ptr && ptrCompoundOp(n.CompoundOp) {
				// p += n / p -= n: the right side stays an integer; the
				// code generator scales it by the pointee size.
			} else {
				common := types.UsualArith(target, n.Value.Type)
				a.implicitCast(&n.Value, common)
			}
		}
		if target != nil {
			a.implicitCast(&n.Value, target)
		}
		e.Type = target

	case *ast.ETernary:
		a.checkExpr(&n.Cond)
		a.checkExpr(&n.Then)
		a.checkExpr(&n.Else)
		common := commonType(n.Then.Type, n.Else.Type)
		if common != nil {
			a.implicitCast(&n.Then, common)
			a.implicitCast(&n.Else, common)
		}
		e.Type = common

	case *ast.EComma:
		a.checkExpr(&n.L)
		a.checkExpr(&n.R)
		e.Type = n.R.Type

	case *ast.ECall:
		// An undeclared callee name is left to the code generator, which
		// lowers va_start/va_end/va_copy and other by-name calls itself.
		if id, ok := n.Callee.Data.(*ast.EIdent); !ok || id.Sym != nil {
			a.checkExpr(&n.Callee)
		}
		ft := n.Callee.Type
		if ft != nil && ft.Kind == types.Ptr {
			ft = ft.Base
		}
		var params *types.Param
		if ft != nil && ft.Kind == types.Func {
			params = ft.Params
			if ft.ReturnType != nil {
				e.Type = ft.ReturnType
			} else {
				e.Type = types.TyInt
			}
		} else {
			e.Type = types.TyInt
		}
		p := params
		for i := range n.Args {
			a.checkExpr(&n.Args[i])
			if p != nil {
				a.implicitCast(&n.Args[i], p.Type)
				p = p.Next
			} else if n.Args[i].Type != nil {
				n.Args[i].Type = types.DefaultArgPromote(n.Args[i].Type)
			}
		}

	case *ast.EMember:
		a.checkExpr(&n.Base)
		base := n.Base.Type
		if n.Arrow {
			if base != nil && base.Kind == types.Ptr {
				base = base.Base
			}
		}
		if base != nil {
			if m := types.FindMember(base, n.Field); m != nil {
				e.Type = m.Type
			}
		}

	case *ast.ESubscript:
		a.checkExpr(&n.Base)
		a.checkExpr(&n.Index)
		bt := decay(n.Base.Type)
		if bt != nil && bt.Kind == types.Ptr {
			e.Type = bt.Base
		}

	case *ast.ECast:
		a.checkExpr(&n.From)
		e.Type = n.To

	case *ast.ECompoundLit:
		if n.Init != nil {
			a.checkInitList(n.Type, n.Init)
		}
		e.Type = n.Type

	case *ast.ESizeofExpr:
		a.checkExpr(&n.Operand)
		e.Type = types.TyUInt

	case *ast.ESizeofType:
		e.Type = types.TyUInt

	case *ast.EPreIncDec:
		a.checkExpr(&n.Operand)
		e.Type = decay(n.Operand.Type)

	case *ast.EPostIncDec:
		a.checkExpr(&n.Operand)
		e.Type = decay(n.Operand.Type)

	case *ast.EAddr:
		a.checkExpr(&n.Operand)
		if n.Operand.Type != nil {
			e.Type = types.NewPtr(n.Operand.Type)
		}

	case *ast.EDeref:
		a.checkExpr(&n.Operand)
		base := decay(n.Operand.Type)
		if base != nil && base.Kind == types.Ptr {
			e.Type = base.Base
		}
	}
}
