package ast

import (
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/types"
)

// Decl is a top-level declaration: a function definition, a file-scope
// variable, or a typedef (ND_FUNC_DEF / ND_VAR_DECL / ND_TYPEDEF at
// ND_PROGRAM's top level).
type Decl struct {
	Data D
	Loc  logger.Loc
}

type D interface{ isDecl() }

func (*DFunc) isDecl()    {}
func (*DVar) isDecl()     {}
func (*DTypedef) isDecl() {}

// DFunc is ND_FUNC_DEF. Body is nil for a declaration-only prototype
// (`int f(int);`), matching the original's func_body == NULL case.
type DFunc struct {
	Name     string
	Type     *types.Type // function type, including parameter/return types
	SC       types.StorageClass
	IsInline bool
	Params   []Param
	Body     *SBlock
}

// Param is one function parameter, kept separate from types.Param so the
// AST can carry the parameter's declared name (types.Param only needs
// the type, for compatibility checks). Sym is the symbol table entry
// created for this parameter at parse time, the same object any EIdent
// referencing it inside the body points to — the code generator needs
// this to bind a stack slot even for a parameter the body never reads.
type Param struct {
	Name string
	Type *types.Type
	Sym  *symtab.Symbol
}

// DVar is a file-scope variable declaration.
type DVar struct {
	Name string
	Type *types.Type
	SC   types.StorageClass
	Init *EInitList
	Sym  *symtab.Symbol
}

// DTypedef is ND_TYPEDEF.
type DTypedef struct {
	Name string
	Type *types.Type
}

// Program is the translation unit: the root of one compiled file
// (ND_PROGRAM), in source order.
type Program struct {
	Decls []Decl
}
