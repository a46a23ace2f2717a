package codegen

import (
	"fmt"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

// genAddr implements gen_addr / spec.md §4.I.4: the JS expression that
// computes an lvalue's address. Every case here must agree with genExpr's
// EIdent/EMember/ESubscript/EDeref cases about what "the value" of each
// sub-expression means (an address for aggregates, a loaded scalar
// otherwise), since this function and genExpr recurse into each other.
func (g *Generator) genAddr(e *ast.Expr) string {
	switch n := e.Data.(type) {
	case *ast.EIdent:
		return g.symAddr(n)
	case *ast.EDeref:
		return g.genExpr(&n.Operand)
	case *ast.EMember:
		baseAddr := g.memberBaseAddr(n)
		m := types.FindMember(baseType(n.Base.Type, n.Arrow), n.Field)
		if m == nil {
			g.errorf(e.Loc, "internal error: unresolved member %q in codegen", n.Field)
			return baseAddr
		}
		return fmt.Sprintf("(%s + %d)", baseAddr, m.Offset)
	case *ast.ESubscript:
		baseAddr := g.arrayBaseAddr(n.Base)
		idx := g.genExpr(&n.Index)
		elem := elementType(n.Base.Type)
		return fmt.Sprintf("(%s + (%s)*%d)", baseAddr, idx, elemSizeOf(elem))
	case *ast.ECompoundLit:
		return g.genCompoundLitAddr(e.Type, n)
	default:
		g.errorf(e.Loc, "internal error: %T is not an lvalue in codegen", n)
		return "0"
	}
}

// symAddr renders an identifier's address per spec.md §4.I.4: a function
// name is its registered __fp_ constant; anything else is either a
// `(bp + offset)` local or the plain absolute global address, both already
// computed into Sym.Addr by allocLocal/allocGlobal.
func (g *Generator) symAddr(n *ast.EIdent) string {
	if n.Sym == nil {
		return "0"
	}
	if n.Sym.Kind == symtab.SymFunc {
		return fmt.Sprintf("__fp_%s", n.Name)
	}
	if n.Sym.IsLocal {
		return fmt.Sprintf("(bp + (%d))", n.Sym.Addr)
	}
	return fmt.Sprintf("%d", n.Sym.Addr)
}

// memberBaseAddr resolves `a.b`'s base to a's own address, and `p->b`'s
// base to p's pointer value — the two cases EMember.Arrow distinguishes.
func (g *Generator) memberBaseAddr(n *ast.EMember) string {
	if n.Arrow {
		return g.genExpr(&n.Base)
	}
	return g.genAddr(&n.Base)
}

// arrayBaseAddr resolves `a[i]`'s base address: an array decays to its own
// address (no load), a pointer is loaded to get the address it points at.
func (g *Generator) arrayBaseAddr(base ast.Expr) string {
	if base.Type != nil && types.IsArray(base.Type) {
		return g.genAddr(&base)
	}
	return g.genExpr(&base)
}

func baseType(t *types.Type, arrow bool) *types.Type {
	if arrow && t != nil && t.Kind == types.Ptr {
		return t.Base
	}
	return t
}

func elementType(t *types.Type) *types.Type {
	if t == nil {
		return types.TyChar
	}
	if types.IsArray(t) || t.Kind == types.Ptr {
		return t.Base
	}
	return t
}

func elemSizeOf(t *types.Type) int {
	if t == nil || t.Size <= 0 {
		return 1
	}
	return t.Size
}
