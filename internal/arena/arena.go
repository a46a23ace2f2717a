// Package arena implements the bump allocator of spec.md §4.A: all types,
// AST nodes, and symbols allocated during one compilation are released
// together when the compilation ends (spec.md §3.2's "Lifecycle" and §9's
// "cyclic type references" note, which asks for types identified by a
// stable handle rather than unsafe pointer rewiring).
//
// The teacher has no direct equivalent — Go's garbage collector makes a
// classic malloc'd-block bump allocator unnecessary — so rather than port
// util.c's byte-slab arena_alloc/arena_calloc verbatim (which would force
// every Type/Node/Symbol allocation through an unsafe byte-to-struct cast,
// the opposite of idiomatic Go), this package keeps only what the GC
// doesn't already give us for free: a single per-compilation owner that
// batches same-type allocations to cut down on individual heap allocations,
// using Go generics (Pool[T]) instead of the original's raw block list. The
// "freed all-or-nothing" invariant becomes "the whole Arena, and everything
// it produced, becomes garbage together when the CompilationContext that
// owns it is dropped" — no explicit Free is needed or provided.
package arena

const chunkSize = 256

// Pool allocates T values in chunkSize batches so that N allocations cost a
// small number of slice grows instead of N separate heap allocations, the
// same amortization util.c's block list gets from growing in
// default_block_size-sized steps.
type Pool[T any] struct {
	chunk []T
	used  int
}

// New returns a pointer to a fresh zero-valued T, batch-allocated.
func New[T any](p *Pool[T]) *T {
	if p.chunk == nil || p.used == len(p.chunk) {
		p.chunk = make([]T, chunkSize)
		p.used = 0
	}
	v := &p.chunk[p.used]
	p.used++
	return v
}
