package codegen

import (
	"fmt"
	"strings"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/buffer"
	"github.com/c99js/c99js/internal/types"
)

// genFunc implements gen_func / spec.md §4.I.2 and §4.I.5: a function's
// body is generated into its own buffer first (allocating every local's
// and temporary's stack slot along the way), so the final frame size is
// known before the prologue — carrying `rt.mem.sp -= FRAME` — is written
// ahead of it. See codegen.go's package doc for why this replaces the
// original's frame-size text-patching step instead of porting it.
func (g *Generator) genFunc(fn *ast.DFunc) {
	g.frameSize = 0
	g.curFunc = fn
	g.curRetPtr = types.IsAggregate(fn.Type.ReturnType)
	savedCur := g.cur
	body := buffer.New()
	g.cur = body

	var paramNames []string
	if g.curRetPtr {
		paramNames = append(paramNames, "p___retptr")
	}
	for i := range fn.Params {
		p := &fn.Params[i]
		jsName := paramJSName(p.Name, i)
		paramNames = append(paramNames, jsName)
		if p.Sym == nil {
			continue
		}
		off := g.allocLocal(p.Type)
		p.Sym.Addr = off
		p.Sym.IsLocal = true
		addr := fmt.Sprintf("(bp + (%d))", off)
		if types.IsAggregate(p.Type) {
			body.Printf("rt.memcpy(%s, %s, %d);\n", addr, jsName, p.Type.Size)
		} else {
			body.AppendString(setterCall(p.Type, addr, jsName) + ";\n")
		}
	}
	if fn.Type.IsVariadic {
		paramNames = append(paramNames, "...p___va")
	}
	if fn.Name == "main" && len(fn.Params) > 0 {
		g.mainTakesArgs = true
	}

	g.genBlockStmts(fn.Body.Stmts)
	body.AppendString("rt.mem.sp = sp;\n")
	if fn.Name == "main" {
		body.AppendString("return 0;\n")
	}

	g.cur = savedCur
	if !g.fpSeen[fn.Name] {
		g.fpSeen[fn.Name] = true
		g.fpNames = append(g.fpNames, fn.Name)
	}

	g.funcBodies.Printf("function _%s(%s) {\n", fn.Name, strings.Join(paramNames, ", "))
	g.funcBodies.AppendString("  const sp = rt.mem.sp;\n")
	g.funcBodies.Printf("  rt.mem.sp -= %d;\n", g.frameSize)
	g.funcBodies.AppendString("  const bp = sp;\n")
	g.funcBodies.AppendBytes([]byte(body.String()))
	g.funcBodies.AppendString("}\n")
}

func paramJSName(name string, i int) string {
	if name == "" {
		return fmt.Sprintf("p___unnamed%d", i)
	}
	return "p_" + name
}

func (g *Generator) genBlockStmts(stmts []ast.Stmt) {
	for i := range stmts {
		g.genStmt(&stmts[i])
	}
}

// genCondText renders an expression for use as a JS `if`/`while`/`for`
// condition: a plain value works directly except a double, whose bits
// representation must be unwrapped first so JS's own truthiness test
// (crucially, -0.0's all-zero-but-sign-bit pattern) matches C's "nonzero
// compares true" rule on the actual numeric value.
func (g *Generator) genCondText(e *ast.Expr) string {
	v := g.genExpr(e)
	if isF64Repr(e.Type) {
		return fmt.Sprintf("rt.f64(%s)", v)
	}
	return v
}

// genStmt implements gen_stmt / spec.md §4.I.5.
func (g *Generator) genStmt(s *ast.Stmt) {
	switch n := s.Data.(type) {
	case *ast.SBlock:
		g.cur.AppendString("{\n")
		g.genBlockStmts(n.Stmts)
		g.cur.AppendString("}\n")
	case *ast.SExpr:
		g.cur.Printf("%s;\n", g.genExpr(&n.Value))
	case *ast.SIf:
		g.cur.Printf("if (%s) {\n", g.genCondText(&n.Cond))
		g.genStmt(&n.Then)
		g.cur.AppendString("}")
		if n.Else != nil {
			g.cur.AppendString(" else {\n")
			g.genStmt(n.Else)
			g.cur.AppendString("}")
		}
		g.cur.AppendString("\n")
	case *ast.SWhile:
		g.cur.Printf("while (%s) {\n", g.genCondText(&n.Cond))
		g.genStmt(&n.Body)
		g.cur.AppendString("}\n")
	case *ast.SDoWhile:
		g.cur.AppendString("do {\n")
		g.genStmt(&n.Body)
		g.cur.Printf("} while (%s);\n", g.genCondText(&n.Cond))
	case *ast.SFor:
		g.genFor(n)
	case *ast.SSwitch:
		g.genSwitch(n)
	case *ast.SBreak:
		g.cur.AppendString("break;\n")
	case *ast.SContinue:
		g.cur.AppendString("continue;\n")
	case *ast.SReturn:
		g.genReturn(n)
	case *ast.SGoto:
		g.errorf(s.Loc, "goto is not supported by this code generator (no sound lowering onto structured control flow)")
	case *ast.SLabel:
		g.genStmt(&n.Stmt)
	case *ast.SEmpty:
		// nothing to emit.
	case *ast.SDecl:
		g.genDeclStmt(n)
	default:
		g.errorf(s.Loc, "internal error: %T not handled by codegen", n)
	}
}

func (g *Generator) genFor(n *ast.SFor) {
	init := ""
	if n.Init != nil {
		if decl, ok := n.Init.Data.(*ast.SDecl); ok {
			// A for-init declaration can't be spliced into a JS `for(...)`
			// head as a statement, so it's hoisted immediately before the
			// loop; C99 scopes it to the loop already, and the only
			// nested scope that matters to codegen (stack slot lifetime)
			// doesn't care whether the slot is claimed one line earlier.
			g.genDeclStmt(decl)
		} else if e, ok := n.Init.Data.(*ast.SExpr); ok {
			init = g.genExpr(&e.Value)
		}
	}
	cond := ""
	if n.Cond != nil {
		cond = g.genCondText(n.Cond)
	}
	inc := ""
	if n.Inc != nil {
		inc = g.genExpr(n.Inc)
	}
	g.cur.Printf("for (%s; %s; %s) {\n", init, cond, inc)
	g.genStmt(&n.Body)
	g.cur.AppendString("}\n")
}

func (g *Generator) genSwitch(n *ast.SSwitch) {
	tag := g.genExpr(&n.Tag)
	// JS `switch` compares with ===, so a BigInt-represented tag (long
	// long) needs its case labels suffixed to match; anything else is a
	// plain JS number on both sides already.
	suffix := ""
	if isU64Repr(n.Tag.Type) {
		suffix = "n"
	}
	g.cur.Printf("switch (%s) {\n", tag)
	for _, c := range n.Cases {
		g.cur.Printf("case %d%s:\n", c.Value, suffix)
		g.genBlockStmts(c.Body)
	}
	if n.Default != nil {
		g.cur.AppendString("default:\n")
		g.genBlockStmts(n.Default)
	}
	g.cur.AppendString("}\n")
}

// genReturn implements the critical ordering spec.md §4.I.5 calls out:
// the return expression (and, for an aggregate, the memcpy into the
// caller's return slot) is evaluated while bp/sp still point at this
// frame, and only afterward is sp restored and control handed back.
func (g *Generator) genReturn(n *ast.SReturn) {
	if n.Value == nil {
		g.cur.AppendString("rt.mem.sp = sp;\n")
		g.cur.AppendString("return;\n")
		return
	}
	if g.curRetPtr {
		src := g.genExpr(n.Value)
		g.cur.Printf("rt.memcpy(p___retptr, %s, %d);\n", src, g.curFunc.Type.ReturnType.Size)
		g.cur.AppendString("rt.mem.sp = sp;\n")
		g.cur.AppendString("return p___retptr;\n")
		return
	}
	val := g.genExpr(n.Value)
	g.cur.Printf("const __ret%d = %s;\n", g.tempSeq, val)
	g.cur.AppendString("rt.mem.sp = sp;\n")
	g.cur.Printf("return __ret%d;\n", g.tempSeq)
	g.tempSeq++
}

func (g *Generator) genDeclStmt(n *ast.SDecl) {
	for _, vd := range n.Decls {
		if vd.Sym == nil {
			continue
		}
		if vd.SC == types.SCStatic {
			addr := g.allocGlobal(vd.Type)
			vd.Sym.Addr = addr
			vd.Sym.IsLocal = false
			if vd.Init != nil {
				saved := g.cur
				g.cur = g.dataSection
				g.genInit(fmt.Sprintf("%d", addr), vd.Type, vd.Init)
				g.cur = saved
			}
			continue
		}
		off := g.allocLocal(vd.Type)
		vd.Sym.Addr = off
		vd.Sym.IsLocal = true
		g.genInit(fmt.Sprintf("(bp + (%d))", off), vd.Type, vd.Init)
	}
}

// genInit implements gen_init_list / spec.md §4.I's initializer rules,
// unified across locals, globals, and aggregate members by taking the
// destination's address as already-rendered JS text: a scalar initializer
// is cast and stored directly; a char array initialized from a string
// literal zero-fills and rt.strcpys; any other brace list zero-fills and
// recursively lowers each positional or designated element.
func (g *Generator) genInit(addr string, ty *types.Type, init *ast.EInitList) {
	if init == nil {
		return
	}
	if !init.Braced {
		g.genScalarOrStringInit(addr, ty, &init.Elems[0].Value)
		return
	}

	g.cur.Printf("rt.memset(%s, 0, %d);\n", addr, ty.Size)
	switch ty.Kind {
	case types.Array, types.VLA:
		g.genArrayBraceInit(addr, ty, init)
	case types.Struct, types.Union:
		g.genAggregateBraceInit(addr, ty, init)
	default:
		if len(init.Elems) > 0 {
			g.genScalarOrStringInit(addr, ty, &init.Elems[0].Value)
		}
	}
}

func (g *Generator) genScalarOrStringInit(addr string, ty *types.Type, value *ast.Expr) {
	if ty.Kind == types.Array && ty.Base != nil && ty.Base.Kind == types.Char {
		if s, ok := unwrapStringLit(value); ok {
			g.cur.Printf("rt.memset(%s, 0, %d);\n", addr, ty.Size)
			strRef := g.internString(s.Value, s.Wide)
			g.cur.Printf("rt.strcpy(%s, %s);\n", addr, strRef)
			return
		}
	}
	val := g.genExpr(value)
	g.cur.AppendString(setterCall(ty, addr, val) + ";\n")
}

func unwrapStringLit(e *ast.Expr) (*ast.EStringLit, bool) {
	cur := e
	for {
		if s, ok := cur.Data.(*ast.EStringLit); ok {
			return s, true
		}
		c, ok := cur.Data.(*ast.ECast)
		if !ok {
			return nil, false
		}
		cur = &c.From
	}
}

func (g *Generator) genArrayBraceInit(addr string, ty *types.Type, init *ast.EInitList) {
	elemTy := ty.Base
	idx := 0
	for _, el := range init.Elems {
		if el.Index.Data != nil {
			if v, ok := evalConstInt(&el.Index); ok {
				idx = int(v)
			}
		}
		elemAddr := fmt.Sprintf("(%s + %d)", addr, idx*elemTy.Size)
		g.genInitElem(elemAddr, elemTy, el.Value)
		idx++
	}
}

func (g *Generator) genAggregateBraceInit(addr string, ty *types.Type, init *ast.EInitList) {
	m := ty.Members
	for _, el := range init.Elems {
		if el.Field != "" {
			if found := types.FindMember(ty, el.Field); found != nil {
				m = found
			}
		}
		if m == nil {
			continue
		}
		memberAddr := fmt.Sprintf("(%s + %d)", addr, m.Offset)
		g.genInitElem(memberAddr, m.Type, el.Value)
		if ty.Kind == types.Union {
			return
		}
		m = m.Next
	}
}

func (g *Generator) genInitElem(addr string, ty *types.Type, value ast.Expr) {
	if sub, ok := value.Data.(*ast.ECompoundLit); ok && sub.Init != nil {
		g.genInit(addr, ty, sub.Init)
		return
	}
	g.genScalarOrStringInit(addr, ty, &value)
}

// evalConstInt evaluates the narrow set of constant-expression shapes a
// C99 designator's index can take after parsing/sema (an integer literal,
// optionally negated or cast) — enough for the designated-initializer
// syntax the front end accepts, without pulling in a general constant
// folder codegen otherwise has no use for.
func evalConstInt(e *ast.Expr) (int64, bool) {
	switch n := e.Data.(type) {
	case *ast.EIntLit:
		return int64(n.Value), true
	case *ast.ECharLit:
		return int64(n.Value), true
	case *ast.EUnary:
		if n.Op == ast.UnaryNeg {
			if v, ok := evalConstInt(&n.Operand); ok {
				return -v, true
			}
		}
		return 0, false
	case *ast.ECast:
		return evalConstInt(&n.From)
	default:
		return 0, false
	}
}
