package preprocessor

import "github.com/bmatcuk/doublestar/v4"

// standardHeaderPatterns is spec.md §4.E's "recognized standard header"
// list (stdio.h, stdlib.h, string.h, math.h, etc.), expressed as glob
// patterns so a handful of less common but still-standard headers (the
// sys/*.h family a hosted libc often splits out) are recognized without
// enumerating every spelling by hand.
var standardHeaderPatterns = []string{
	"stdio.h", "stdlib.h", "string.h", "math.h", "ctype.h",
	"assert.h", "stdarg.h", "stddef.h", "stdbool.h", "stdint.h",
	"limits.h", "float.h", "errno.h", "time.h", "signal.h", "setjmp.h",
	"sys/*.h",
}

// isRecognizedStandardHeader implements spec.md §4.E: "if not found and the
// name is a recognized standard header ... substitute an empty placeholder
// and emit a line marker indicating the runtime will supply semantics."
func isRecognizedStandardHeader(path string) bool {
	for _, pattern := range standardHeaderPatterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
