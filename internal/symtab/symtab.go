// Package symtab implements the symbol table of spec.md §3.4 and the
// operations of §4.C: lexically nested scopes with separate namespaces for
// ordinary identifiers, tags, and labels, plus function-scope label
// hoisting.
//
// Grounded on the original implementation's symtab.c/symtab.h. Its 64-bucket
// chained hash table per scope is reexpressed here as Go's native map —
// same open-hashing behavior, without manually computing a djb2-style hash
// and indexing a fixed-size bucket array, which spec.md §4.C asks for only
// because C has no hash map in its standard library.
package symtab

import (
	"fmt"

	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/types"
)

type SymKind uint8

const (
	SymVar SymKind = iota
	SymFunc
	SymTypedef
	SymEnumConst
	SymParam
)

// Symbol is spec.md §3.4: name, kind, type, storage class, memory address
// (filled during code generation), enum value, defined flag, local flag,
// and source location.
type Symbol struct {
	Name      string
	Kind      SymKind
	Type      *types.Type
	SC        types.StorageClass
	Addr      int
	EnumVal   int64
	IsDefined bool
	IsLocal   bool
	Loc       logger.Loc
}

// Tag is a struct/union/enum tag, living in its own namespace per scope.
type Tag struct {
	Name string
	Type *types.Type
}

// Label is a goto target, hoisted to the nearest enclosing function scope
// (spec.md §3.4: "Label lookup climbs to the enclosing function scope").
type Label struct {
	Name     string
	Defined  bool
	Loc      logger.Loc
}

// Scope is one lexical nesting level. Only function-body scopes carry a
// non-nil labels map (spec.md §3.4).
type Scope struct {
	syms        map[string]*Symbol
	tags        map[string]*Tag
	labels      map[string]*Label
	parent      *Scope
	depth       int
	isFuncScope bool
}

func newScope(parent *Scope) *Scope {
	s := &Scope{
		syms: make(map[string]*Symbol),
		tags: make(map[string]*Tag),
	}
	if parent != nil {
		s.parent = parent
		s.depth = parent.depth + 1
	}
	return s
}

// SymTab is the symbol table of spec.md §3.4: "A file-scope symbol table
// persists for the whole program", owned by one CompilationContext rather
// than a process-wide global (spec.md §9).
type SymTab struct {
	log       logger.Log
	current   *Scope
	fileScope *Scope
}

func New(log logger.Log) *SymTab {
	file := newScope(nil)
	return &SymTab{log: log, current: file, fileScope: file}
}

func (st *SymTab) EnterScope() {
	st.current = newScope(st.current)
}

func (st *SymTab) LeaveScope() {
	if st.current.parent != nil {
		st.current = st.current.parent
	}
}

// EnterFuncScope enters a new scope and marks it as the label-capturing
// boundary for the function it opens (spec.md §4.C).
func (st *SymTab) EnterFuncScope() {
	st.EnterScope()
	st.current.isFuncScope = true
}

// Define implements spec.md §4.C's define, including the redefinition
// rules of §3.4: "Redefinition of a symbol in the same scope is an error,
// except: (a) re-declaration of a function whose previous entry had no
// body; (b) redeclaration at extern linkage."
func (st *SymTab) Define(name string, kind SymKind, t *types.Type, loc logger.Loc) *Symbol {
	if existing, ok := st.current.syms[name]; ok {
		if existing.Kind == SymFunc && kind == SymFunc && !existing.IsDefined {
			existing.Type = t
			return existing
		}
		if existing.SC == types.SCExtern {
			existing.Type = t
			return existing
		}
		logger.Errorf(st.log, loc, "redefinition of %q", name)
		return existing
	}
	s := &Symbol{
		Name:    name,
		Kind:    kind,
		Type:    t,
		Loc:     loc,
		IsLocal: st.current != st.fileScope,
	}
	st.current.syms[name] = s
	return s
}

// Lookup climbs all scopes (spec.md §4.C).
func (st *SymTab) Lookup(name string) *Symbol {
	for sc := st.current; sc != nil; sc = sc.parent {
		if s, ok := sc.syms[name]; ok {
			return s
		}
	}
	return nil
}

// LookupCurrent only looks in the innermost scope.
func (st *SymTab) LookupCurrent(name string) *Symbol {
	return st.current.syms[name]
}

// DefineTag implements spec.md §3.2's "forward references resolve by
// looking up the tag, mutating the same object when the definition is
// later parsed": redefining a tag in the same scope reuses the Tag record
// (and, at the parser's discretion, the same *types.Type), it does not
// error the way ordinary symbol redefinition does.
func (st *SymTab) DefineTag(name string, t *types.Type) *Tag {
	if existing, ok := st.current.tags[name]; ok {
		existing.Type = t
		return existing
	}
	tag := &Tag{Name: name, Type: t}
	st.current.tags[name] = tag
	return tag
}

func (st *SymTab) LookupTag(name string) *Tag {
	for sc := st.current; sc != nil; sc = sc.parent {
		if t, ok := sc.tags[name]; ok {
			return t
		}
	}
	return nil
}

func (st *SymTab) LookupTagCurrent(name string) *Tag {
	return st.current.tags[name]
}

func (st *SymTab) funcScope() *Scope {
	for sc := st.current; sc != nil; sc = sc.parent {
		if sc.isFuncScope {
			return sc
		}
	}
	return st.current
}

// DefineLabel always lands in the nearest function scope (spec.md §4.C),
// regardless of how many block scopes are nested beneath it.
func (st *SymTab) DefineLabel(name string, loc logger.Loc) *Label {
	fsc := st.funcScope()
	if fsc.labels == nil {
		fsc.labels = make(map[string]*Label)
	}
	if existing, ok := fsc.labels[name]; ok {
		if existing.Defined {
			logger.Errorf(st.log, loc, "duplicate label %q", name)
		}
		existing.Defined = true
		existing.Loc = loc
		return existing
	}
	l := &Label{Name: name, Defined: true, Loc: loc}
	fsc.labels[name] = l
	return l
}

func (st *SymTab) LookupLabel(name string) *Label {
	fsc := st.funcScope()
	if fsc.labels == nil {
		return nil
	}
	return fsc.labels[name]
}

// IsTypedef implements spec.md §4.G's typedef probe: "Whenever an
// identifier appears in a context where a type might begin, the parser
// probes the symbol table with is_typedef."
func (st *SymTab) IsTypedef(name string) bool {
	s := st.Lookup(name)
	return s != nil && s.Kind == SymTypedef
}

func (k SymKind) String() string {
	switch k {
	case SymVar:
		return "variable"
	case SymFunc:
		return "function"
	case SymTypedef:
		return "typedef"
	case SymEnumConst:
		return "enum constant"
	case SymParam:
		return "parameter"
	default:
		return fmt.Sprintf("SymKind(%d)", k)
	}
}
