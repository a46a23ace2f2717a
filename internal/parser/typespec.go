package parser

import (
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/symtab"
	"github.com/c99js/c99js/internal/token"
	"github.com/c99js/c99js/internal/types"
)

// typeFlags mirrors the original's TF_* bitset: parse_type_specifier
// accumulates which specifier keywords appeared, then resolves the final
// type once the specifier list ends, exactly reproducing C99's "any order,
// fixed combinations" declaration-specifier grammar.
type typeFlags uint16

const (
	tfVoid typeFlags = 1 << iota
	tfBool
	tfChar
	tfShort
	tfInt
	tfLong
	tfLLong
	tfFloat
	tfDouble
	tfSigned
	tfUnsigned
	tfComplex
	tfOther
)

// parseTypeSpecifier implements parse_type_specifier: storage class,
// qualifiers, and the declaration-specifier accumulation described above,
// plus inline struct/union/enum and typedef-name resolution.
func (p *Parser) parseTypeSpecifier() (*types.Type, types.StorageClass) {
	sc := types.SCNone
	var flags typeFlags
	var qual types.Qualifier
	isInline := false
	var custom *types.Type

loop:
	for {
		k := p.cur()
		switch k {
		case token.Typedef:
			sc = types.SCTypedef
			p.lex.Next()
		case token.Extern:
			sc = types.SCExtern
			p.lex.Next()
		case token.Static:
			sc = types.SCStatic
			p.lex.Next()
		case token.Auto:
			sc = types.SCAuto
			p.lex.Next()
		case token.Register:
			sc = types.SCRegister
			p.lex.Next()

		case token.Const:
			qual |= types.QualConst
			p.lex.Next()
		case token.Volatile:
			qual |= types.QualVolatile
			p.lex.Next()
		case token.Restrict:
			qual |= types.QualRestrict
			p.lex.Next()
		case token.Inline:
			isInline = true
			p.lex.Next()

		case token.Void:
			flags |= tfVoid
			p.lex.Next()
		case token.Bool:
			flags |= tfBool
			p.lex.Next()
		case token.Char:
			flags |= tfChar
			p.lex.Next()
		case token.Short:
			flags |= tfShort
			p.lex.Next()
		case token.Int:
			flags |= tfInt
			p.lex.Next()
		case token.Float:
			flags |= tfFloat
			p.lex.Next()
		case token.Double:
			flags |= tfDouble
			p.lex.Next()
		case token.Signed:
			flags |= tfSigned
			p.lex.Next()
		case token.Unsigned:
			flags |= tfUnsigned
			p.lex.Next()
		case token.Complex:
			flags |= tfComplex
			p.lex.Next()
		case token.Long:
			if flags&tfLong != 0 {
				flags = (flags &^ tfLong) | tfLLong
			} else {
				flags |= tfLong
			}
			p.lex.Next()

		case token.Struct, token.Union:
			custom = p.parseStructOrUnion(k == token.Struct)
			flags |= tfOther

		case token.Enum:
			custom = p.parseEnum()
			flags |= tfOther

		case token.Identifier:
			if p.st.IsTypedef(p.lex.Cur.Lexeme) && flags&^(tfSigned|tfUnsigned) == 0 {
				sym := p.st.Lookup(p.lex.Cur.Lexeme)
				custom = sym.Type
				flags |= tfOther
				p.lex.Next()
				continue loop
			}
			break loop

		default:
			break loop
		}
	}

	result := resolveTypeFlags(flags, custom)
	if qual != 0 {
		result = types.Qualified(result, qual)
	}
	if isInline {
		result = types.Copy(result)
		result.IsInline = true
	}
	return result, sc
}

func resolveTypeFlags(flags typeFlags, custom *types.Type) *types.Type {
	switch {
	case flags&tfOther != 0:
		return custom
	case flags == 0 || flags == tfSigned || flags == tfInt || flags == tfSigned|tfInt:
		return types.TyInt
	case flags&tfVoid != 0:
		return types.TyVoid
	case flags&tfBool != 0:
		return types.TyBool
	case flags&tfFloat != 0:
		if flags&tfComplex != 0 {
			return types.NewComplex(types.TyFloat)
		}
		return types.TyFloat
	case flags&tfDouble != 0:
		if flags&tfLong != 0 {
			if flags&tfComplex != 0 {
				return types.NewComplex(types.TyLDouble)
			}
			return types.TyLDouble
		}
		if flags&tfComplex != 0 {
			return types.NewComplex(types.TyDouble)
		}
		return types.TyDouble
	case flags&tfChar != 0:
		if flags&tfUnsigned != 0 {
			return types.TyUChar
		}
		return types.TyChar
	case flags&tfShort != 0:
		if flags&tfUnsigned != 0 {
			return types.TyUShort
		}
		return types.TyShort
	case flags&tfLLong != 0:
		if flags&tfUnsigned != 0 {
			return types.TyULLong
		}
		return types.TyLLong
	case flags&tfLong != 0:
		if flags&tfUnsigned != 0 {
			return types.TyULong
		}
		return types.TyLong
	case flags&tfUnsigned != 0:
		return types.TyUInt
	default:
		return types.TyInt
	}
}

// parseStructOrUnion implements the struct/union branch of
// parse_type_specifier: tag lookup/definition, member list parsing with
// running offset/alignment (delegated to types.AddMember/FinishLayout),
// and anonymous-member flattening.
func (p *Parser) parseStructOrUnion(isStruct bool) *types.Type {
	tagLoc := p.loc()
	p.lex.Next() // 'struct' / 'union'

	var tag string
	if p.cur() == token.Identifier {
		tag = p.lex.Cur.Lexeme
		p.lex.Next()
	}

	if p.cur() != token.LBrace {
		if tag == "" {
			logger.Errorf(p.log, tagLoc, "expected struct/union tag or definition")
			if isStruct {
				return types.NewStruct("")
			}
			return types.NewUnion("")
		}
		if existing := p.st.LookupTag(tag); existing != nil {
			return existing.Type
		}
		var ty *types.Type
		if isStruct {
			ty = types.NewStruct(tag)
		} else {
			ty = types.NewUnion(tag)
		}
		p.st.DefineTag(tag, ty)
		return ty
	}

	p.lex.Next() // '{'
	var ty *types.Type
	if tag != "" {
		if existing := p.st.LookupTagCurrent(tag); existing != nil {
			ty = existing.Type
		} else {
			if isStruct {
				ty = types.NewStruct(tag)
			} else {
				ty = types.NewUnion(tag)
			}
			p.st.DefineTag(tag, ty)
		}
	} else {
		if isStruct {
			ty = types.NewStruct("")
		} else {
			ty = types.NewUnion("")
		}
	}

	var anonMembers []*types.Member
	for p.cur() != token.RBrace && p.cur() != token.EndOfFile {
		memberBase, _ := p.parseTypeSpecifier()
		for {
			var mname string
			var mtype *types.Type
			switch p.cur() {
			case token.Colon, token.Semicolon:
				mtype = memberBase
			default:
				mtype = p.parseDeclarator(memberBase, &mname)
			}

			bitWidth := -1
			if p.match(token.Colon) {
				bw := p.parseCondExpr()
				if v, ok := tryEvalConst(bw); ok {
					bitWidth = int(v)
				} else {
					bitWidth = 1
				}
			}

			m := types.AddMember(ty, mname, mtype, bitWidth)
			if mname == "" && mtype != nil && (mtype.Kind == types.Struct || mtype.Kind == types.Union) {
				anonMembers = append(anonMembers, m)
			}
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Semicolon)
	}
	p.expect(token.RBrace)

	for _, anon := range anonMembers {
		types.FlattenAnonymous(ty, anon)
	}
	types.FinishLayout(ty)
	return ty
}

// parseEnum implements the enum branch of parse_type_specifier: each
// enumerator becomes a SYM_ENUM_CONST symbol whose value is either an
// explicit constant expression or one more than the previous enumerator.
func (p *Parser) parseEnum() *types.Type {
	tagLoc := p.loc()
	p.lex.Next() // 'enum'

	var tag string
	if p.cur() == token.Identifier {
		tag = p.lex.Cur.Lexeme
		p.lex.Next()
	}

	if p.cur() != token.LBrace {
		if tag == "" {
			logger.Errorf(p.log, tagLoc, "expected enum tag or definition")
			return types.NewEnum("")
		}
		if existing := p.st.LookupTag(tag); existing != nil {
			return existing.Type
		}
		ty := types.NewEnum(tag)
		p.st.DefineTag(tag, ty)
		return ty
	}

	p.lex.Next() // '{'
	ty := types.NewEnum(tag)
	if tag != "" {
		p.st.DefineTag(tag, ty)
	}

	var val int64
	for p.cur() != token.RBrace && p.cur() != token.EndOfFile {
		if p.cur() != token.Identifier {
			logger.Errorf(p.log, p.loc(), "expected identifier in enum")
			break
		}
		name := p.lex.Cur.Lexeme
		eloc := p.loc()
		p.lex.Next()
		if p.match(token.Assign) {
			e := p.parseCondExpr()
			if v, ok := tryEvalConst(e); ok {
				val = v
			}
		}
		sym := p.st.Define(name, symtab.SymEnumConst, types.TyInt, eloc)
		sym.EnumVal = val
		val++
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return ty
}

// parseTypeName implements parse_type_name: a declaration-specifier list
// followed by an abstract declarator, used by sizeof/casts/compound
// literals.
func (p *Parser) parseTypeName() *types.Type {
	base, _ := p.parseTypeSpecifier()
	return p.parseAbstractDeclarator(base)
}

func (p *Parser) parseAbstractDeclarator(base *types.Type) *types.Type {
	return p.parseDeclarator(base, nil)
}

// parseDeclarator implements parse_declarator: pointer prefixes, an
// optional grouped "(" declarator ")" (for function-pointer declarators
// like `int (*f)(int)`), then array/function suffixes applied to the
// base type built up so far.
func (p *Parser) parseDeclarator(base *types.Type, name *string) *types.Type {
	for p.cur() == token.Star {
		p.lex.Next()
		var qual types.Qualifier
		for p.cur() == token.Const || p.cur() == token.Volatile || p.cur() == token.Restrict {
			switch p.cur() {
			case token.Const:
				qual |= types.QualConst
			case token.Volatile:
				qual |= types.QualVolatile
			case token.Restrict:
				qual |= types.QualRestrict
			}
			p.lex.Next()
		}
		base = types.NewPtr(base)
		if qual != 0 {
			base.Qual = qual
		}
	}

	var grouped *types.Type
	if p.cur() == token.LParen && !p.isDeclSpecStart() {
		peeked := p.lex.Peek()
		if peeked.Kind == token.Star || peeked.Kind == token.LParen ||
			(peeked.Kind == token.Identifier && !p.st.IsTypedef(peeked.Lexeme)) {
			p.lex.Next() // '('
			placeholder := &types.Type{}
			grouped = p.parseDeclarator(placeholder, name)
			p.expect(token.RParen)
			base = p.parseDeclaratorSuffix(base)
			*placeholder = *base
			return grouped
		}
	}

	if name != nil {
		if p.cur() == token.Identifier {
			*name = p.lex.Cur.Lexeme
			p.lex.Next()
		} else {
			*name = ""
		}
	}

	return p.parseDeclaratorSuffix(base)
}

// isDeclSpecStart reports whether Cur can only begin a declaration
// specifier (used to disambiguate a grouped declarator's '(' from a
// parameter list's '(').
func (p *Parser) isDeclSpecStart() bool {
	return p.isTypeName()
}

// parseDeclaratorSuffix implements the array/function suffix loop shared
// by parse_declarator's direct and grouped-declarator branches.
func (p *Parser) parseDeclaratorSuffix(base *types.Type) *types.Type {
	for {
		switch p.cur() {
		case token.LBracket:
			p.lex.Next()
			base = p.parseArraySuffix(base)
		case token.LParen:
			p.lex.Next()
			base = p.parseFuncSuffix(base)
		default:
			return base
		}
	}
}

func (p *Parser) parseArraySuffix(base *types.Type) *types.Type {
	if p.cur() == token.RBracket {
		p.lex.Next()
		return types.NewArray(base, -1)
	}
	if p.cur() == token.Star && p.lex.Peek().Kind == token.RBracket {
		p.lex.Next()
		p.lex.Next()
		return types.NewVLA(base, nil)
	}
	for p.cur() == token.Static || p.cur() == token.Const || p.cur() == token.Volatile || p.cur() == token.Restrict {
		p.lex.Next()
	}
	if p.cur() == token.RBracket {
		p.lex.Next()
		return types.NewArray(base, -1)
	}
	size := p.parseAssignExpr()
	p.expect(token.RBracket)
	if v, ok := tryEvalConst(size); ok {
		return types.NewArray(base, int(v))
	}
	return types.NewVLA(base, size)
}

func (p *Parser) parseFuncSuffix(base *types.Type) *types.Type {
	fn := types.NewFunc(base)

	if p.cur() == token.RParen {
		fn.IsOldStyle = true
		p.lex.Next()
		return fn
	}
	if p.cur() == token.Void && p.lex.Peek().Kind == token.RParen {
		p.lex.Next()
		p.lex.Next()
		return fn
	}

	for {
		if p.cur() == token.Ellipsis {
			fn.IsVariadic = true
			p.lex.Next()
			break
		}
		pbase, _ := p.parseTypeSpecifier()
		var pname string
		var ptype *types.Type
		if p.cur() == token.Comma || p.cur() == token.RParen {
			ptype = pbase
		} else {
			ptype = p.parseDeclarator(pbase, &pname)
		}
		if ptype.Kind == types.Array || ptype.Kind == types.VLA {
			ptype = types.NewPtr(ptype.Base)
		}
		if ptype.Kind == types.Func {
			ptype = types.NewPtr(ptype)
		}
		types.AddParam(fn, pname, ptype)
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return fn
}
