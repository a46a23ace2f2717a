package codegen

import "fmt"

// internString dedupes a string literal's backing storage and returns the
// JS identifier holding its address, appending a fresh `rt.mem.allocString`
// declaration to the data section the first time a given (value, wide)
// pair is seen (spec.md §4.I.6's fifth emission part).
func (g *Generator) internString(value string, wide bool) string {
	key := fmt.Sprintf("%v\x00%s", wide, value)
	if name, ok := g.strIndex[key]; ok {
		return name
	}
	name := fmt.Sprintf("__str%d", len(g.strLits))
	g.strLits = append(g.strLits, strLitEntry{name: name, value: value, wide: wide})
	g.strIndex[key] = name
	g.dataSection.Printf("const %s = rt.mem.allocString(%s);\n", name, jsStringLiteral(value))
	return name
}

// jsStringLiteral renders a Go string as a double-quoted JS string
// literal, escaping the handful of characters that would otherwise break
// out of the quotes or be misread by the runtime's decoder. Wide and
// narrow literals are rendered the same way; the wide flag only keeps
// their internString table entries apart.
func jsStringLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		case 0:
			out = append(out, '\\', '0')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}
