// Package types implements the type graph of spec.md §3.2 and the
// operations of §4.B: the predefined scalar singletons, pointer/array/
// function/struct/union/enum construction, qualifiers, member layout, and
// the usual arithmetic conversions.
//
// Grounded on the original implementation's type.c/type.h. The teacher
// (esbuild) has no C type system to borrow from, so the shape here follows
// type.h directly: a single tagged Type struct carrying every kind's fields
// (exactly as the original's "tagged variant" union does, just as named Go
// fields instead of a C union — spec.md §3.2 describes one variant type,
// not per-kind structs, so this is not the "polymorphic AST nodes with
// overlapping fields" REDESIGN FLAG; that flag is about ast.Node's
// overloaded lhs/rhs/third slots, addressed in internal/ast instead).
package types

// Kind is the tag of the type-graph's variant, spec.md §3.2.
type Kind uint8

const (
	Void Kind = iota
	Bool
	Char
	Short
	Int
	Long
	LLong // long long
	Float
	Double
	LDouble // long double
	Enum
	Ptr
	Array
	VLA // variable-length array
	Struct
	Union
	Func
	Complex
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "_Bool"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case LLong:
		return "long long"
	case Float:
		return "float"
	case Double:
		return "double"
	case LDouble:
		return "long double"
	case Enum:
		return "enum"
	case Ptr:
		return "pointer"
	case Array:
		return "array"
	case VLA:
		return "variable-length array"
	case Struct:
		return "struct"
	case Union:
		return "union"
	case Func:
		return "function"
	case Complex:
		return "_Complex"
	default:
		return "<unknown type>"
	}
}

// Qualifier is the bitset of spec.md §3.2: const/volatile/restrict.
type Qualifier uint8

const (
	QualConst Qualifier = 1 << iota
	QualVolatile
	QualRestrict
)

func (q Qualifier) Has(bit Qualifier) bool { return q&bit != 0 }

// StorageClass classifies a declaration, not a type, but is threaded
// through type_copy/type_qualified call sites in the original closely
// enough that it's defined here for both internal/symtab and internal/ast
// to share without an import cycle.
type StorageClass uint8

const (
	SCNone StorageClass = iota
	SCTypedef
	SCExtern
	SCStatic
	SCAuto
	SCRegister
)

// Member is a struct/union member, spec.md §3.2: "Members form a singly
// linked list in declaration order."
type Member struct {
	Next     *Member
	Name     string // "" for an anonymous member
	Type     *Type
	Offset   int
	BitWidth int // -1 if not a bitfield (spec.md §9: advisory only)
	Index    int
}

// Param is a function parameter, linked in declaration order like Member.
type Param struct {
	Next *Param
	Name string
	Type *Type
}

// Type is the tagged variant of spec.md §3.2.
type Type struct {
	Kind       Kind
	Size       int
	Align      int
	IsUnsigned bool
	Qual       Qualifier
	IsInline   bool

	// Ptr
	Base *Type

	// Array / VLA
	ArrayLen int         // -1 for incomplete
	VLASize  interface{} // *ast.Expr; kept opaque here to avoid an ast<->types import cycle

	// Struct / Union / Enum
	Tag         string
	Members     *Member
	IsFlexible  bool
	IsPacked    bool
	memberTail  *Member
	enumDefined bool

	// Func
	ReturnType  *Type
	Params      *Param
	IsVariadic  bool
	IsOldStyle  bool

	// Complex
	ComplexBase *Type
}

// Predefined scalar singletons, spec.md §3.2's invariant that "the
// predefined scalar types are singletons shared across the whole
// compilation". Fixed widths per spec.md §3.2: bool=1, char=1, short=2,
// int=4, long=4 (32-bit ABI), long long=8, float=4, double=8,
// long double=8, any pointer=4.
var (
	TyVoid    = &Type{Kind: Void, Size: 0, Align: 1}
	TyBool    = &Type{Kind: Bool, Size: 1, Align: 1, IsUnsigned: true}
	TyChar    = &Type{Kind: Char, Size: 1, Align: 1}
	TySChar   = &Type{Kind: Char, Size: 1, Align: 1}
	TyUChar   = &Type{Kind: Char, Size: 1, Align: 1, IsUnsigned: true}
	TyShort   = &Type{Kind: Short, Size: 2, Align: 2}
	TyUShort  = &Type{Kind: Short, Size: 2, Align: 2, IsUnsigned: true}
	TyInt     = &Type{Kind: Int, Size: 4, Align: 4}
	TyUInt    = &Type{Kind: Int, Size: 4, Align: 4, IsUnsigned: true}
	TyLong    = &Type{Kind: Long, Size: 4, Align: 4}
	TyULong   = &Type{Kind: Long, Size: 4, Align: 4, IsUnsigned: true}
	TyLLong   = &Type{Kind: LLong, Size: 8, Align: 8}
	TyULLong  = &Type{Kind: LLong, Size: 8, Align: 8, IsUnsigned: true}
	TyFloat   = &Type{Kind: Float, Size: 4, Align: 4}
	TyDouble  = &Type{Kind: Double, Size: 8, Align: 8}
	TyLDouble = &Type{Kind: LDouble, Size: 8, Align: 8}
)

const PointerSize = 4

// ---- Constructors (spec.md §4.B) ----

func NewPtr(base *Type) *Type {
	return &Type{Kind: Ptr, Size: PointerSize, Align: PointerSize, Base: base}
}

// NewArray constructs a fixed-length array; pass len < 0 for an incomplete
// array (spec.md §3.2).
func NewArray(base *Type, length int) *Type {
	t := &Type{Kind: Array, Base: base, ArrayLen: length}
	if length >= 0 && base != nil {
		t.Size = base.Size * length
		t.Align = base.Align
	} else {
		t.Align = 1
		if base != nil {
			t.Align = base.Align
		}
	}
	return t
}

// NewVLA constructs a variable-length array whose size is only known at
// run time; sizeExpr is opaque (an *ast.Expr) per the VLASize field comment.
func NewVLA(base *Type, sizeExpr interface{}) *Type {
	return &Type{Kind: VLA, Base: base, ArrayLen: -1, VLASize: sizeExpr, Align: base.Align}
}

func NewFunc(ret *Type) *Type {
	return &Type{Kind: Func, ReturnType: ret, Size: 0, Align: 1}
}

func NewEnum(tag string) *Type {
	return &Type{Kind: Enum, Tag: tag, Size: TyInt.Size, Align: TyInt.Align}
}

func NewStruct(tag string) *Type {
	return &Type{Kind: Struct, Tag: tag, Align: 1}
}

func NewUnion(tag string) *Type {
	return &Type{Kind: Union, Tag: tag, Align: 1}
}

func NewComplex(base *Type) *Type {
	return &Type{Kind: Complex, ComplexBase: base, Size: base.Size * 2, Align: base.Align}
}

// Copy returns a shallow copy of t, used when a qualifier or storage
// variation needs its own Type object without disturbing the shared
// original (spec.md §4.B type_copy).
func Copy(t *Type) *Type {
	cp := *t
	return &cp
}

// Qualified returns a copy of t with qual merged into its qualifier set.
func Qualified(t *Type, qual Qualifier) *Type {
	cp := Copy(t)
	cp.Qual |= qual
	return cp
}

// Unqualified returns a copy of t with all qualifiers stripped.
func Unqualified(t *Type) *Type {
	cp := Copy(t)
	cp.Qual = 0
	return cp
}

// ---- Member layout (spec.md §3.2's struct/union layout invariants) ----

func alignUp(n, align int) int {
	if align <= 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// AddMember appends a member to a struct or union type, updating the
// running offset/size/alignment exactly as spec.md §3.2 describes: "field
// offset is rounded up to the member's alignment; total struct size is
// rounded up to the struct's alignment. Union size is the maximum member
// size, rounded to max alignment."
//
// Anonymous struct/union members are flattened by the parser calling
// FlattenAnonymous after AddMember, per spec.md §3.2 and §4.G.
func AddMember(structOrUnion *Type, name string, memberType *Type, bitWidth int) *Member {
	m := &Member{Name: name, Type: memberType, BitWidth: bitWidth}
	switch structOrUnion.Kind {
	case Struct:
		offset := alignUp(structOrUnion.Size, memberType.Align)
		m.Offset = offset
		structOrUnion.Size = offset + memberType.Size
	case Union:
		m.Offset = 0
		if memberType.Size > structOrUnion.Size {
			structOrUnion.Size = memberType.Size
		}
	default:
		panic("AddMember called on a non-struct/union type")
	}
	if memberType.Align > structOrUnion.Align {
		structOrUnion.Align = memberType.Align
	}
	m.Index = memberCount(structOrUnion)
	if structOrUnion.memberTail == nil {
		structOrUnion.Members = m
	} else {
		structOrUnion.memberTail.Next = m
	}
	structOrUnion.memberTail = m
	return m
}

func memberCount(t *Type) int {
	n := 0
	for m := t.Members; m != nil; m = m.Next {
		n++
	}
	return n
}

// FinishLayout rounds the struct/union's total size up to its own
// alignment, per spec.md §3.2. Call once all members have been added
// (the parser calls this at the closing '}' of the aggregate declaration).
func FinishLayout(structOrUnion *Type) {
	if structOrUnion.Align > 0 {
		structOrUnion.Size = alignUp(structOrUnion.Size, structOrUnion.Align)
	}
}

// FlattenAnonymous splices an anonymous member's own members into the
// enclosing struct/union at a patched offset, so "outer.field" resolves to
// the nested field directly (spec.md §3.2).
func FlattenAnonymous(outer *Type, anonMember *Member) {
	base := anonMember.Type
	for m := base.Members; m != nil; m = m.Next {
		patched := &Member{
			Name:     m.Name,
			Type:     m.Type,
			Offset:   anonMember.Offset + m.Offset,
			BitWidth: m.BitWidth,
			Index:    memberCount(outer),
		}
		if outer.memberTail == nil {
			outer.Members = patched
		} else {
			outer.memberTail.Next = patched
		}
		outer.memberTail = patched
	}
}

// AddParam appends a parameter to a function type's declaration-order list.
func AddParam(fn *Type, name string, paramType *Type) *Param {
	p := &Param{Name: name, Type: paramType}
	if fn.Params == nil {
		fn.Params = p
		return p
	}
	tail := fn.Params
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = p
	return p
}

// FindMember performs spec.md §4.B's find_member: a linear search,
// recursing into anonymous members, returning nil if not found. Because
// FlattenAnonymous already splices anonymous sub-members into the
// enclosing type's list at parse time, the recursive case below only fires
// for callers that kept an un-flattened member list (e.g. a member whose
// own type is an anonymous struct reached before flattening runs).
func FindMember(structOrUnion *Type, name string) *Member {
	for m := structOrUnion.Members; m != nil; m = m.Next {
		if m.Name == name {
			return m
		}
	}
	for m := structOrUnion.Members; m != nil; m = m.Next {
		if m.Name == "" && m.Type != nil && (m.Type.Kind == Struct || m.Type.Kind == Union) {
			if found := FindMember(m.Type, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// ---- Predicates (spec.md §4.B) ----

func IsInteger(t *Type) bool {
	switch t.Kind {
	case Bool, Char, Short, Int, Long, LLong, Enum:
		return true
	}
	return false
}

func IsFloat(t *Type) bool {
	switch t.Kind {
	case Float, Double, LDouble:
		return true
	}
	return false
}

func IsArithmetic(t *Type) bool { return IsInteger(t) || IsFloat(t) || t.Kind == Complex }

func IsScalar(t *Type) bool { return IsArithmetic(t) || t.Kind == Ptr }

func IsAggregate(t *Type) bool { return t.Kind == Struct || t.Kind == Union || t.Kind == Array || t.Kind == VLA }

func IsVoid(t *Type) bool { return t.Kind == Void }

func IsPtr(t *Type) bool { return t.Kind == Ptr }

func IsArray(t *Type) bool { return t.Kind == Array || t.Kind == VLA }

func IsFunc(t *Type) bool { return t.Kind == Func }

func IsStruct(t *Type) bool { return t.Kind == Struct }

func IsUnion(t *Type) bool { return t.Kind == Union }

func IsComplete(t *Type) bool {
	switch t.Kind {
	case Void:
		return false
	case Array:
		return t.ArrayLen >= 0
	case Struct, Union:
		return t.Size > 0 || t.Members != nil
	case Func:
		return false
	default:
		return true
	}
}

// IsCompatible is a practical compatibility test: same kind and, for
// derived types, compatible bases/members. C99's full compatible-type rule
// (6.2.7) is richer than a transpiler's code generator needs; this matches
// the level of rigor spec.md's semantic analyzer actually exercises
// (assignment/parameter checking, not cross-TU linkage).
func IsCompatible(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		// Enum and int are interchangeable at the ABI level.
		if (a.Kind == Enum && b.Kind == Int) || (a.Kind == Int && b.Kind == Enum) {
			return true
		}
		return false
	}
	switch a.Kind {
	case Ptr:
		return IsCompatible(a.Base, b.Base)
	case Array, VLA:
		return IsCompatible(a.Base, b.Base)
	case Struct, Union, Enum:
		return a.Tag != "" && a.Tag == b.Tag
	case Func:
		if !IsCompatible(a.ReturnType, b.ReturnType) {
			return false
		}
		pa, pb := a.Params, b.Params
		for pa != nil && pb != nil {
			if !IsCompatible(pa.Type, pb.Type) {
				return false
			}
			pa, pb = pa.Next, pb.Next
		}
		return pa == nil && pb == nil
	default:
		return a.IsUnsigned == b.IsUnsigned
	}
}

// ---- Conversions (spec.md §4.B, C99 §6.3.1) ----

// rank implements the integer conversion rank of spec.md §4.B:
// bool < char < short < int = enum < long < long long.
func rank(t *Type) int {
	switch t.Kind {
	case Bool:
		return 0
	case Char:
		return 1
	case Short:
		return 2
	case Int, Enum:
		return 3
	case Long:
		return 4
	case LLong:
		return 5
	default:
		return 3
	}
}

// IntPromote implements integer promotion (C99 §6.3.1.1): any integer of
// rank < int becomes int (unsigned int if the source doesn't fit in int,
// which never happens at these widths since char/short always fit).
func IntPromote(t *Type) *Type {
	if IsInteger(t) && rank(t) < rank(TyInt) {
		return TyInt
	}
	return t
}

// DefaultArgPromote implements spec.md §4.B's default_arg_promote: integer
// promotions, plus float -> double for a value passed through a variadic
// or unprototyped parameter slot.
func DefaultArgPromote(t *Type) *Type {
	if t.Kind == Float {
		return TyDouble
	}
	return IntPromote(t)
}

// UsualArith implements the usual arithmetic conversions of spec.md §4.B
// (C99 §6.3.1.8).
func UsualArith(a, b *Type) *Type {
	if a.Kind == LDouble || b.Kind == LDouble {
		return TyLDouble
	}
	if a.Kind == Double || b.Kind == Double {
		return TyDouble
	}
	if a.Kind == Float || b.Kind == Float {
		return TyFloat
	}
	pa, pb := IntPromote(a), IntPromote(b)
	if pa.IsUnsigned == pb.IsUnsigned {
		if rank(pa) >= rank(pb) {
			return pa
		}
		return pb
	}
	// Mixed signedness: the unsigned operand wins if its rank is >= the
	// signed operand's rank; otherwise, since every unsigned type at these
	// widths fits in the next-wider signed type, the signed type wins but
	// becomes the wider of the two.
	var signed, unsigned *Type
	if pa.IsUnsigned {
		unsigned, signed = pa, pb
	} else {
		unsigned, signed = pb, pa
	}
	if rank(unsigned) >= rank(signed) {
		return unsigned
	}
	if signed.Size > unsigned.Size {
		return signed
	}
	cp := Copy(signed)
	cp.IsUnsigned = true
	return cp
}
