package codegen

import "github.com/c99js/c99js/internal/types"

func alignUp(n, align int) int {
	if align <= 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// allocGlobal bump-allocates a global's storage above the reserved
// [0,4096) low page (spec.md §4.I.2), rounding up to the type's own
// alignment first.
func (g *Generator) allocGlobal(t *types.Type) int {
	align := t.Align
	if align <= 0 {
		align = 1
	}
	g.globalAddr = alignUp(g.globalAddr, align)
	addr := g.globalAddr
	g.globalAddr += t.Size
	return addr
}

// allocLocal bump-allocates a stack slot within the current function's
// frame, growing downward from bp: the frame's running size is tracked
// positive and negated on return so the slot's offset is always bp plus a
// non-positive number, matching spec.md §4.I.2's "locals live at negative
// bp offsets".
func (g *Generator) allocLocal(t *types.Type) int {
	align := t.Align
	if align <= 0 {
		align = 1
	}
	g.frameSize = alignUp(g.frameSize, align)
	g.frameSize += t.Size
	return -g.frameSize
}

func elemSize(ptrType *types.Type) int {
	if ptrType.Base == nil || ptrType.Base.Size <= 0 {
		return 1
	}
	return ptrType.Base.Size
}
