package preprocessor

// Macro is spec.md §3.5: "name, replacement-token string, parameter list
// (NULL = object-like), variadic flag."
type Macro struct {
	Name       string
	Body       string
	Params     []string
	IsFunc     bool
	IsVariadic bool
}

// Table is the per-compilation macro table of spec.md §3.5/§9: "Macros
// share a single global table keyed by name" in the original, rearchitected
// here (per §9's "global mutable state" REDESIGN FLAG) as a value owned by
// one Preprocessor (internal/compile builds one per compilation) instead
// of a package-level global, so two
// compilations in the same process never see each other's #defines.
type Table struct {
	m map[string]*Macro
}

func NewTable() *Table {
	t := &Table{m: make(map[string]*Macro, 128)}
	registerBuiltinMacros(t)
	return t
}

func (t *Table) Define(name, body string) {
	t.m[name] = &Macro{Name: name, Body: body}
}

func (t *Table) DefineFunc(name, body string, params []string, variadic bool) {
	t.m[name] = &Macro{Name: name, Body: body, Params: params, IsFunc: true, IsVariadic: variadic}
}

func (t *Table) Undef(name string) {
	delete(t.m, name)
}

func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.m[name]
	return m, ok
}

func (t *Table) IsDefined(name string) bool {
	_, ok := t.m[name]
	return ok
}

// registerBuiltinMacros implements spec.md §4.E's "Built-in macros": a
// fixed set registered before any user file is read.
func registerBuiltinMacros(t *Table) {
	simple := map[string]string{
		"__STDC__":         "1",
		"__STDC_VERSION__": "199901L",
		"__STDC_HOSTED__":  "1",
		"NULL":             "((void*)0)",
		"true":             "1",
		"false":            "0",
		"bool":             "_Bool",
		"EOF":              "(-1)",

		// stdint aliases.
		"int8_t":    "signed char",
		"uint8_t":   "unsigned char",
		"int16_t":   "short",
		"uint16_t":  "unsigned short",
		"int32_t":   "int",
		"uint32_t":  "unsigned int",
		"int64_t":   "long long",
		"uint64_t":  "unsigned long long",
		"size_t":    "unsigned int",
		"ptrdiff_t": "int",
		"intptr_t":  "int",
		"uintptr_t": "unsigned int",

		// Integer limits.
		"INT_MIN":   "(-2147483647-1)",
		"INT_MAX":   "2147483647",
		"UINT_MAX":  "4294967295u",
		"LONG_MIN":  "(-2147483647L-1)",
		"LONG_MAX":  "2147483647L",
		"CHAR_BIT":  "8",
		"SCHAR_MIN": "(-128)",
		"SCHAR_MAX": "127",
		"UCHAR_MAX": "255",
		"SHRT_MIN":  "(-32768)",
		"SHRT_MAX":  "32767",
		"USHRT_MAX": "65535",

		// errno.
		"errno":  "(*__errno_ptr())",
		"EINVAL": "22",
		"ERANGE": "34",

		// stdio seek constants / BUFSIZ.
		"SEEK_SET": "0",
		"SEEK_CUR": "1",
		"SEEK_END": "2",
		"BUFSIZ":   "8192",

		// time.h.
		"time_t":         "long",
		"clock_t":        "long",
		"CLOCKS_PER_SEC": "1000",

		// signal.h.
		"sig_atomic_t": "int",
		"SIGINT":       "2",
		"SIGTERM":      "15",
		"SIG_DFL":      "((void(*)(int))0)",
		"SIG_IGN":      "((void(*)(int))1)",

		"EXIT_SUCCESS": "0",
		"EXIT_FAILURE": "1",
	}
	for name, body := range simple {
		t.Define(name, body)
	}
}
