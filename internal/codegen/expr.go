package codegen

import (
	"fmt"
	"strings"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

// genExpr implements gen_expr / spec.md §4.I.3: lowers one typed
// expression to a JS expression string. Scalars come back as the value
// itself (a JS number, or a BigInt for long long / double-bits); an
// aggregate expression comes back as its address, matching genAddr's
// contract so callers that need a copy can always reach for rt.memcpy.
func (g *Generator) genExpr(e *ast.Expr) string {
	switch n := e.Data.(type) {
	case *ast.EIntLit:
		if isU64Repr(e.Type) {
			return fmt.Sprintf("%dn", int64(n.Value))
		}
		return fmt.Sprintf("%d", int64(n.Value))
	case *ast.EFloatLit:
		if isF64Repr(e.Type) {
			return fmt.Sprintf("rt.f64bits(%s)", formatJSFloat(n.Value))
		}
		return fmt.Sprintf("Math.fround(%s)", formatJSFloat(n.Value))
	case *ast.ECharLit:
		return fmt.Sprintf("%d", n.Value)
	case *ast.EStringLit:
		return g.internString(n.Value, n.Wide)
	case *ast.EIdent:
		return g.genIdentValue(e, n)
	case *ast.EUnary:
		return g.genUnary(e, n)
	case *ast.EBinary:
		return g.genBinary(e, n)
	case *ast.EAssign:
		return g.genAssign(e, n)
	case *ast.ETernary:
		cond := g.genExpr(&n.Cond)
		then := g.genExpr(&n.Then)
		els := g.genExpr(&n.Else)
		return fmt.Sprintf("((%s) ? (%s) : (%s))", cond, then, els)
	case *ast.EComma:
		l := g.genExpr(&n.L)
		r := g.genExpr(&n.R)
		return fmt.Sprintf("(%s, %s)", l, r)
	case *ast.ECall:
		return g.genCall(e, n)
	case *ast.EMember, *ast.ESubscript, *ast.EDeref:
		if types.IsAggregate(e.Type) {
			return g.genAddr(e)
		}
		return loadExpr(e.Type, g.genAddr(e))
	case *ast.ECast:
		return g.genCast(e.Type, n)
	case *ast.ECompoundLit:
		addr := g.genCompoundLitAddr(e.Type, n)
		if types.IsAggregate(e.Type) {
			return addr
		}
		return loadExpr(e.Type, addr)
	case *ast.ESizeofExpr:
		return fmt.Sprintf("%d", n.Operand.Type.Size)
	case *ast.ESizeofType:
		return fmt.Sprintf("%d", n.Of.Size)
	case *ast.EPreIncDec:
		return g.genIncDec(e, n.Operand, n.Dec, true)
	case *ast.EPostIncDec:
		return g.genIncDec(e, n.Operand, n.Dec, false)
	case *ast.EAddr:
		return g.genAddr(&n.Operand)
	default:
		g.errorf(e.Loc, "internal error: %T not handled by codegen", n)
		return "0"
	}
}

func formatJSFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (g *Generator) genIdentValue(e *ast.Expr, n *ast.EIdent) string {
	if n.Sym != nil && n.Sym.Kind == symtab.SymFunc {
		return fmt.Sprintf("__fp_%s", n.Name)
	}
	addr := g.symAddr(n)
	if types.IsAggregate(e.Type) {
		return addr
	}
	return loadExpr(e.Type, addr)
}

func (g *Generator) genUnary(e *ast.Expr, n *ast.EUnary) string {
	v := g.genExpr(&n.Operand)
	switch n.Op {
	case ast.UnaryNeg:
		if isF64Repr(n.Operand.Type) {
			return fmt.Sprintf("rt.f64bits(-rt.f64(%s))", v)
		}
		if isU64Repr(n.Operand.Type) {
			return fmt.Sprintf("(-(%s))", v)
		}
		return fmt.Sprintf("(-(%s))", v)
	case ast.UnaryPos:
		return v
	case ast.UnaryNot:
		if isF64Repr(n.Operand.Type) {
			return fmt.Sprintf("(rt.f64(%s) === 0 ? 1 : 0)", v)
		}
		return fmt.Sprintf("((%s) ? 0 : 1)", v)
	case ast.UnaryBitNot:
		if isU64Repr(n.Operand.Type) {
			return fmt.Sprintf("(~(%s))", v)
		}
		return fmt.Sprintf("(~(%s))", v)
	default:
		return v
	}
}

// genBinary implements spec.md §4.I.3's three-mode lowering, checked in
// priority order (f64, then u64, then scalar), plus the pointer-arithmetic
// special cases that take precedence within scalar mode: ptr+-int scales
// by the pointee size, and ptr-ptr divides the byte difference by it.
func (g *Generator) genBinary(e *ast.Expr, n *ast.EBinary) string {
	lt, rt := n.L.Type, n.R.Type

	if lt != nil && lt.Kind == types.Ptr && (n.Op == ast.BinAdd || n.Op == ast.BinSub) && !(rt != nil && rt.Kind == types.Ptr) {
		base := g.genExpr(&n.L)
		idx := g.genExpr(&n.R)
		sign := "+"
		if n.Op == ast.BinSub {
			sign = "-"
		}
		return fmt.Sprintf("(%s %s (%s)*%d)", base, sign, idx, elemSize(lt))
	}
	if n.Op == ast.BinSub && lt != nil && lt.Kind == types.Ptr && rt != nil && rt.Kind == types.Ptr {
		l := g.genExpr(&n.L)
		r := g.genExpr(&n.R)
		return fmt.Sprintf("(((%s) - (%s)) / %d | 0)", l, r, elemSize(lt))
	}

	switch {
	case isF64Repr(lt) || isF64Repr(rt) || isF64Repr(e.Type):
		return g.genBinaryF64(e, n)
	case isU64Repr(lt) || isU64Repr(rt) || isU64Repr(e.Type):
		return g.genBinaryU64(e, n)
	default:
		return g.genBinaryScalar(e, n)
	}
}

func (g *Generator) genBinaryF64(e *ast.Expr, n *ast.EBinary) string {
	l := toNumber(n.L.Type, g.genExpr(&n.L))
	r := toNumber(n.R.Type, g.genExpr(&n.R))
	op := jsOperatorFor(n.Op, false)
	if isRelOrEq(n.Op) || isLogical(n.Op) {
		return fmt.Sprintf("((%s %s %s) ? 1 : 0)", l, op, r)
	}
	return fmt.Sprintf("rt.f64bits((%s) %s (%s))", l, op, r)
}

func (g *Generator) genBinaryU64(e *ast.Expr, n *ast.EBinary) string {
	l := toBigInt(n.L.Type, g.genExpr(&n.L))
	r := toBigInt(n.R.Type, g.genExpr(&n.R))
	op := jsOperatorFor(n.Op, e.Type != nil && e.Type.IsUnsigned)
	if isRelOrEq(n.Op) || isLogical(n.Op) {
		return fmt.Sprintf("((%s %s %s) ? 1 : 0)", l, op, r)
	}
	return fmt.Sprintf("((%s) %s (%s))", l, op, r)
}

func (g *Generator) genBinaryScalar(e *ast.Expr, n *ast.EBinary) string {
	l := g.genExpr(&n.L)
	r := g.genExpr(&n.R)
	unsigned := (n.L.Type != nil && n.L.Type.IsUnsigned) || (n.R.Type != nil && n.R.Type.IsUnsigned)
	op := jsOperatorFor(n.Op, unsigned)

	if isLogical(n.Op) {
		return fmt.Sprintf("(((%s) %s (%s)) ? 1 : 0)", l, op, r)
	}
	if isRelOrEq(n.Op) {
		return fmt.Sprintf("(((%s) %s (%s)) ? 1 : 0)", l, op, r)
	}
	if n.Op == ast.BinDiv && e.Type != nil && e.Type.Kind != types.Float {
		return fmt.Sprintf("(((%s) / (%s)) | 0)", l, r)
	}
	if e.Type != nil && e.Type.Kind == types.Float {
		return fmt.Sprintf("Math.fround((%s) %s (%s))", l, op, r)
	}
	return fmt.Sprintf("((%s) %s (%s))", l, op, r)
}

// genAssign implements spec.md §4.I.3's "capture address, evaluate right
// operand, write via setter; expression's value is the written value",
// wrapped in an arrow-function IIFE so the address and the stored value
// are each computed exactly once even though the generated text needs
// both the write call and the result value.
func (g *Generator) genAssign(e *ast.Expr, n *ast.EAssign) string {
	addr := g.genAddr(&n.Target)
	ty := n.Target.Type

	if types.IsAggregate(ty) {
		src := g.genExpr(&n.Value)
		return fmt.Sprintf("(() => { const __a = %s, __s = %s; rt.memcpy(__a, __s, %d); return __a; })()", addr, src, ty.Size)
	}

	if n.CompoundOp == ast.AssignNone {
		val := g.genExpr(&n.Value)
		return fmt.Sprintf("(() => { const __a = %s, __v = %s; %s; return __v; })()", addr, val, setterCall(ty, "__a", "__v"))
	}

	binOp, ok := compoundToBinary(n.CompoundOp)
	if !ok {
		g.errorf(e.Loc, "internal error: unrecognized compound assignment operator")
		return "0"
	}
	rhs := g.genExpr(&n.Value)
	if ty.Kind == types.Ptr && (binOp == ast.BinAdd || binOp == ast.BinSub) {
		sign := "+"
		if binOp == ast.BinSub {
			sign = "-"
		}
		newVal := fmt.Sprintf("(__old %s (__rhs)*%d)", sign, elemSize(ty))
		return fmt.Sprintf("(() => { const __a = %s, __rhs = %s; const __old = %s; const __v = %s; %s; return __v; })()",
			addr, rhs, loadExpr(ty, "__a"), newVal, setterCall(ty, "__a", "__v"))
	}

	old := loadExpr(ty, "__a")
	newVal := g.combineScalarOp(ty, binOp, "__old", "__rhs")
	return fmt.Sprintf("(() => { const __a = %s, __rhs = %s; const __old = %s; const __v = %s; %s; return __v; })()",
		addr, rhs, old, newVal, setterCall(ty, "__a", "__v"))
}

// combineScalarOp renders the JS text for "apply binOp to two
// already-evaluated JS sub-expressions lText/rText", following the same
// f64/u64/scalar mode selection genBinary uses, for use inside compound
// assignment's read-modify-write IIFE.
func (g *Generator) combineScalarOp(ty *types.Type, binOp ast.BinaryOp, lText, rText string) string {
	switch {
	case isF64Repr(ty):
		op := jsOperatorFor(binOp, false)
		return fmt.Sprintf("rt.f64bits((rt.f64(%s)) %s (rt.f64(%s)))", lText, op, rText)
	case isU64Repr(ty):
		op := jsOperatorFor(binOp, ty.IsUnsigned)
		return fmt.Sprintf("((BigInt(%s)) %s (BigInt(%s)))", lText, op, rText)
	default:
		op := jsOperatorFor(binOp, ty.IsUnsigned)
		if binOp == ast.BinDiv && ty.Kind != types.Float {
			return fmt.Sprintf("(((%s) / (%s)) | 0)", lText, rText)
		}
		if ty.Kind == types.Float {
			return fmt.Sprintf("Math.fround((%s) %s (%s))", lText, op, rText)
		}
		return fmt.Sprintf("((%s) %s (%s))", lText, op, rText)
	}
}

// genIncDec implements `++x`/`x++`/`--x`/`x--`, via an IIFE that reads the
// operand exactly once, computes the stepped value, stores it, and
// returns either the old value (post) or the new one (pre).
func (g *Generator) genIncDec(e *ast.Expr, operand ast.Expr, dec, pre bool) string {
	addr := g.genAddr(&operand)
	ty := operand.Type
	step := "1"
	if ty.Kind == types.Ptr {
		step = fmt.Sprintf("%d", elemSize(ty))
	}
	sign := "+"
	if dec {
		sign = "-"
	}
	old := loadExpr(ty, "__a")
	var newVal string
	switch {
	case isF64Repr(ty):
		newVal = fmt.Sprintf("rt.f64bits(rt.f64(__old) %s 1)", sign)
	case isU64Repr(ty):
		newVal = fmt.Sprintf("(__old %s 1n)", sign)
	default:
		newVal = fmt.Sprintf("(__old %s %s)", sign, step)
	}
	result := "__v"
	if !pre {
		result = "__old"
	}
	return fmt.Sprintf("(() => { const __a = %s; const __old = %s; const __v = %s; %s; return %s; })()",
		addr, old, newVal, setterCall(ty, "__a", "__v"), result)
}

func (g *Generator) genCast(to *types.Type, n *ast.ECast) string {
	fromTy := n.From.Type
	v := g.genExpr(&n.From)

	if to == nil || fromTy == nil {
		return v
	}
	switch {
	case isF64Repr(to) && isF64Repr(fromTy):
		return v
	case isF64Repr(to):
		return fmt.Sprintf("rt.f64bits(%s)", toNumber(fromTy, v))
	case isF64Repr(fromTy):
		// narrowing a double down to an integer/float truncates toward zero.
		n := fmt.Sprintf("rt.f64(%s)", v)
		if to.Kind == types.Float {
			return fmt.Sprintf("Math.fround(%s)", n)
		}
		return g.maskInt(to, fmt.Sprintf("Math.trunc(%s)", n))
	case isU64Repr(to) && isU64Repr(fromTy):
		return v
	case isU64Repr(to):
		return toBigInt(fromTy, v)
	case isU64Repr(fromTy):
		return g.maskInt(to, fmt.Sprintf("Number(%s)", v))
	case to.Kind == types.Float:
		return fmt.Sprintf("Math.fround(%s)", v)
	default:
		return g.maskInt(to, v)
	}
}

// maskInt narrows a plain-number value to an integer type's declared
// width/signedness, used where a cast genuinely needs to truncate (coming
// down from a wider or floating representation) rather than just relabel.
func (g *Generator) maskInt(to *types.Type, v string) string {
	switch to.Size {
	case 1:
		if to.IsUnsigned {
			return fmt.Sprintf("((%s) & 0xff)", v)
		}
		return fmt.Sprintf("(((%s) << 24) >> 24)", v)
	case 2:
		if to.IsUnsigned {
			return fmt.Sprintf("((%s) & 0xffff)", v)
		}
		return fmt.Sprintf("(((%s) << 16) >> 16)", v)
	default:
		if to.IsUnsigned {
			return fmt.Sprintf("((%s) >>> 0)", v)
		}
		return fmt.Sprintf("((%s) | 0)", v)
	}
}

func (g *Generator) genCompoundLitAddr(ty *types.Type, n *ast.ECompoundLit) string {
	addr := g.allocCompoundLitSlot(ty)
	if n.Init != nil {
		g.genInit(addr, ty, n.Init)
	}
	return addr
}

// allocCompoundLitSlot gives a `(type){...}` compound literal its own
// stack temporary, the same storage strategy a block-scope local gets,
// since the front end carries full type information for the literal and
// there's no reason to leave it as the original's unimplemented stub.
func (g *Generator) allocCompoundLitSlot(ty *types.Type) string {
	off := g.allocLocal(ty)
	return fmt.Sprintf("(bp + (%d))", off)
}
