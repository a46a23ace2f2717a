package symtab

import (
	"github.com/c99js/c99js/internal/logger"
	"github.com/c99js/c99js/internal/types"
)

var builtinLoc = logger.Loc{File: "<builtin>"}

func fn(ret *types.Type, variadic bool) *types.Type {
	t := types.NewFunc(ret)
	t.IsVariadic = variadic
	return t
}

func ptr(base *types.Type) *types.Type { return types.NewPtr(base) }

// RegisterBuiltins pre-declares the fixed roster of libc functions that
// spec.md's SPEC_FULL "Supplemented features" section carries forward from
// the original's main.c register_builtins: calling printf/malloc/str*/
// math.h functions without an in-scope declaration still type-checks,
// because a hosted C program never actually sees the synthesized-empty
// header stubs the preprocessor substitutes for <stdio.h> etc. (spec.md
// §4.E) — the real signatures live here instead.
func RegisterBuiltins(st *SymTab) {
	def := func(name string, t *types.Type) *Symbol {
		s := st.Define(name, SymFunc, t, builtinLoc)
		s.SC = types.SCExtern
		return s
	}

	// printf family.
	printfTy := fn(types.TyInt, true)
	types.AddParam(printfTy, "fmt", ptr(types.TyChar))
	for _, name := range []string{"printf", "fprintf", "sprintf", "snprintf", "scanf"} {
		def(name, printfTy)
	}

	// Allocation.
	mallocTy := fn(ptr(types.TyVoid), false)
	types.AddParam(mallocTy, "size", types.TyUInt)
	def("malloc", mallocTy)

	callocTy := fn(ptr(types.TyVoid), false)
	types.AddParam(callocTy, "nmemb", types.TyUInt)
	types.AddParam(callocTy, "size", types.TyUInt)
	def("calloc", callocTy)
	def("realloc", callocTy)

	freeTy := fn(types.TyVoid, false)
	types.AddParam(freeTy, "ptr", ptr(types.TyVoid))
	def("free", freeTy)

	// string.h.
	strIntTy := fn(types.TyUInt, false)
	types.AddParam(strIntTy, "s", ptr(types.TyChar))
	def("strlen", strIntTy)

	strPtrTy := fn(ptr(types.TyChar), true)
	types.AddParam(strPtrTy, "s", ptr(types.TyChar))
	for _, name := range []string{"strcpy", "strncpy", "strcat", "strncat", "strchr", "strrchr", "strstr"} {
		def(name, strPtrTy)
	}
	def("strdup", fn(ptr(types.TyChar), true))

	cmpTy := fn(types.TyInt, true)
	for _, name := range []string{"strcmp", "strncmp", "memcmp"} {
		def(name, cmpTy)
	}

	memFnTy := fn(ptr(types.TyVoid), true)
	for _, name := range []string{"memcpy", "memmove", "memset", "memchr"} {
		def(name, memFnTy)
	}

	// stdlib.h.
	atoiTy := fn(types.TyInt, false)
	types.AddParam(atoiTy, "s", ptr(types.TyChar))
	def("atoi", atoiTy)
	def("atof", fn(types.TyDouble, false))
	def("abs", atoiTy)
	def("labs", fn(types.TyLong, false))
	def("rand", fn(types.TyInt, false))
	def("srand", fn(types.TyVoid, false))
	def("exit", fn(types.TyVoid, false))
	def("abort", fn(types.TyVoid, false))
	def("qsort", fn(types.TyVoid, false))
	def("strtol", fn(types.TyLong, true))
	def("strtoll", fn(types.TyLLong, true))
	def("strtoul", fn(types.TyULong, true))
	def("strtod", fn(types.TyDouble, true))

	def("__errno_ptr", fn(ptr(types.TyInt), false))

	// math.h.
	mathTy := fn(types.TyDouble, true)
	for _, name := range []string{
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"sqrt", "pow", "fabs", "ceil", "floor", "fmod", "log", "log10", "exp",
		"ldexp", "frexp",
	} {
		def(name, mathTy)
	}

	// ctype.h.
	ctypeTy := fn(types.TyInt, true)
	for _, name := range []string{
		"isalpha", "isdigit", "isalnum", "isspace", "isupper", "islower",
		"ispunct", "isprint", "iscntrl", "isxdigit", "toupper", "tolower",
	} {
		def(name, ctypeTy)
	}

	// stdio.h I/O.
	def("puts", atoiTy)
	def("putchar", atoiTy)
	def("getchar", fn(types.TyInt, false))
	def("fopen", fn(ptr(types.TyVoid), false))
	def("fclose", fn(types.TyInt, false))
	def("fread", fn(types.TyUInt, false))
	def("fwrite", fn(types.TyUInt, false))
	def("fgets", fn(ptr(types.TyChar), false))
	def("fputs", fn(types.TyInt, false))
	def("feof", fn(types.TyInt, false))
	def("fgetc", fn(types.TyInt, false))
	def("fputc", fn(types.TyInt, false))
	def("fseek", fn(types.TyInt, false))
	def("ftell", fn(types.TyLong, false))
	def("rewind", fn(types.TyVoid, false))
	def("assert", fn(types.TyVoid, false))

	// FILE* stubs and the three standard streams.
	fileTy := ptr(types.TyVoid)
	for _, name := range []string{"stdin", "stdout", "stderr"} {
		s := st.Define(name, SymVar, fileTy, builtinLoc)
		s.SC = types.SCExtern
	}
	s := st.Define("FILE", SymTypedef, fileTy, builtinLoc)
	s.SC = types.SCTypedef
	s = st.Define("va_list", SymTypedef, ptr(types.TyVoid), builtinLoc)
	s.SC = types.SCTypedef

	// struct tm (opaque for time.h), and the handful of functions that use it.
	tmStruct := types.NewStruct("tm")
	tmStruct.Size, tmStruct.Align = 36, 4
	st.DefineTag("tm", tmStruct)
	def("localtime", fn(ptr(tmStruct), true))
	def("strftime", fn(types.TyUInt, true))
	def("difftime", fn(types.TyDouble, true))
}
