package codegen

import (
	"fmt"

	"github.com/c99js/c99js/internal/ast"
	"github.com/c99js/c99js/internal/types"
)

// isF64Repr/isU64Repr classify spec.md §4.I.1's two non-plain-number
// value representations: double/long double carry their raw bits as a
// BigInt between rt.f64/rt.f64bits conversions, and long long is a BigInt
// throughout. Every other scalar (bool/char/short/int/long/enum/pointer/
// float) is a plain JS number.
func isF64Repr(t *types.Type) bool {
	return t != nil && (t.Kind == types.Double || t.Kind == types.LDouble)
}

func isU64Repr(t *types.Type) bool {
	return t != nil && t.Kind == types.LLong
}

// readerFor/writerFor pick the rt.mem typed accessor pair for a scalar
// type, per spec.md §4.I.1's value-representation table. Aggregates never
// reach here: their "value" is their address, handled directly by callers.
func readerFor(t *types.Type) string {
	switch t.Kind {
	case types.Bool:
		return "readUint8"
	case types.Char:
		if t.IsUnsigned {
			return "readUint8"
		}
		return "readInt8"
	case types.Short:
		if t.IsUnsigned {
			return "readUint16"
		}
		return "readInt16"
	case types.Int, types.Long, types.Enum:
		if t.IsUnsigned {
			return "readUint32"
		}
		return "readInt32"
	case types.Ptr:
		return "readUint32"
	case types.Float:
		return "readFloat32"
	case types.Double, types.LDouble:
		return "readBigUint64"
	case types.LLong:
		if t.IsUnsigned {
			return "readBigUint64"
		}
		return "readBigInt64"
	default:
		return "readInt32"
	}
}

func writerFor(t *types.Type) string {
	switch t.Kind {
	case types.Bool:
		return "writeUint8"
	case types.Char:
		if t.IsUnsigned {
			return "writeUint8"
		}
		return "writeInt8"
	case types.Short:
		if t.IsUnsigned {
			return "writeUint16"
		}
		return "writeInt16"
	case types.Int, types.Long, types.Enum:
		if t.IsUnsigned {
			return "writeUint32"
		}
		return "writeInt32"
	case types.Ptr:
		return "writeUint32"
	case types.Float:
		return "writeFloat32"
	case types.Double, types.LDouble:
		return "writeBigUint64"
	case types.LLong:
		if t.IsUnsigned {
			return "writeBigUint64"
		}
		return "writeBigInt64"
	default:
		return "writeInt32"
	}
}

// loadExpr renders the JS expression that reads a value of type t from
// address addr: a typed rt.mem read for a scalar, or the bare address for
// an aggregate, whose "value" per spec.md §4.I.1 is its own address.
func loadExpr(t *types.Type, addr string) string {
	if types.IsAggregate(t) {
		return addr
	}
	return fmt.Sprintf("rt.mem.%s(%s)", readerFor(t), addr)
}

// setterCall renders a bare (no trailing semicolon) rt.mem write call,
// usable either as its own statement or as the first operand of a JS
// comma/IIFE expression.
func setterCall(t *types.Type, addr, value string) string {
	return fmt.Sprintf("rt.mem.%s(%s, %s)", writerFor(t), addr, value)
}

// toNumber/toBigInt unwrap an already-generated expression's text to the
// representation spec.md §4.I.3's f64/u64 modes need before applying a
// plain JS operator, per the "unwrap via rt.f64/Number(BigInt)" and "wrap
// non-BigInt operands with BigInt()" rules.
func toNumber(t *types.Type, expr string) string {
	switch {
	case isF64Repr(t):
		return fmt.Sprintf("rt.f64(%s)", expr)
	case isU64Repr(t):
		return fmt.Sprintf("Number(%s)", expr)
	default:
		return expr
	}
}

func toBigInt(t *types.Type, expr string) string {
	switch {
	case isU64Repr(t):
		return expr
	case isF64Repr(t):
		return fmt.Sprintf("BigInt(Math.trunc(rt.f64(%s)))", expr)
	default:
		return fmt.Sprintf("BigInt(%s)", expr)
	}
}

func isRelOrEq(op ast.BinaryOp) bool {
	switch op {
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinEq, ast.BinNe:
		return true
	}
	return false
}

func isLogical(op ast.BinaryOp) bool {
	return op == ast.BinLogicalAnd || op == ast.BinLogicalOr
}

// jsOperatorFor maps a BinaryOp to its JS spelling; unsigned selects
// the arithmetic (">>") vs logical (">>>") right-shift per the operand's
// signedness, since C's >> is implementation-defined-but-arithmetic for
// signed operands and spec.md treats it as a logical shift for unsigned
// ones.
func jsOperatorFor(op ast.BinaryOp, unsigned bool) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	case ast.BinLShift:
		return "<<"
	case ast.BinRShift:
		if unsigned {
			return ">>>"
		}
		return ">>"
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinEq:
		return "=="
	case ast.BinNe:
		return "!="
	case ast.BinBitAnd:
		return "&"
	case ast.BinBitOr:
		return "|"
	case ast.BinBitXor:
		return "^"
	case ast.BinLogicalAnd:
		return "&&"
	case ast.BinLogicalOr:
		return "||"
	default:
		return "+"
	}
}

// compoundToBinary maps a compound assignment's operator to the binary op
// it expands into (`x += y` lowers the same way `x + y` does, aside from
// storing the result back through x's address).
func compoundToBinary(op ast.AssignOp) (ast.BinaryOp, bool) {
	switch op {
	case ast.AssignAdd:
		return ast.BinAdd, true
	case ast.AssignSub:
		return ast.BinSub, true
	case ast.AssignMul:
		return ast.BinMul, true
	case ast.AssignDiv:
		return ast.BinDiv, true
	case ast.AssignMod:
		return ast.BinMod, true
	case ast.AssignLShift:
		return ast.BinLShift, true
	case ast.AssignRShift:
		return ast.BinRShift, true
	case ast.AssignBitAnd:
		return ast.BinBitAnd, true
	case ast.AssignBitOr:
		return ast.BinBitOr, true
	case ast.AssignBitXor:
		return ast.BinBitXor, true
	default:
		return 0, false
	}
}

// mathFuncNames is the subset of internal/symtab/builtins.go's roster that
// spec.md §4.I.3 lowers to JS's Math object rather than to a same-named rt
// method, since Math.* already implements the libm semantics C expects.
var mathFuncNames = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"asin": "asin", "acos": "acos", "atan": "atan", "atan2": "atan2",
	"sqrt": "sqrt", "pow": "pow", "fabs": "abs",
	"ceil": "ceil", "floor": "floor",
	"log": "log", "log10": "log10", "exp": "exp",
}

// runtimeFuncNames lists the builtins of builtins.go's roster outside
// mathFuncNames that lower to a same-named method on rt, which spec.md
// §6.2 requires the runtime to implement directly (the libc shims
// printf/malloc/strlen/...), plus vprintf, which the roster does not
// declare. The roster's scanf, ispunct, isprint, iscntrl and isxdigit are
// not listed, so genCall lowers a call to one as a direct call.
var runtimeFuncNames = map[string]bool{
	"printf": true, "fprintf": true, "sprintf": true, "snprintf": true, "vprintf": true,
	"malloc": true, "calloc": true, "realloc": true, "free": true,
	"strlen": true, "strcpy": true, "strncpy": true, "strcat": true, "strncat": true,
	"strchr": true, "strrchr": true, "strstr": true, "strdup": true,
	"strcmp": true, "strncmp": true, "memcmp": true,
	"memcpy": true, "memmove": true, "memset": true, "memchr": true,
	"atoi": true, "atof": true, "abs": true, "labs": true,
	"rand": true, "srand": true, "exit": true, "abort": true, "qsort": true,
	"strtol": true, "strtoll": true, "strtoul": true, "strtod": true,
	"__errno_ptr": true,
	"fmod":        true, "ldexp": true, "frexp": true,
	"isalpha": true, "isdigit": true, "isalnum": true, "isspace": true,
	"isupper": true, "islower": true, "toupper": true, "tolower": true,
	"puts": true, "putchar": true, "getchar": true,
	"fopen": true, "fclose": true, "fread": true, "fwrite": true,
	"fgets": true, "fputs": true, "feof": true, "fgetc": true, "fputc": true,
	"fseek": true, "ftell": true, "rewind": true, "assert": true,
	"localtime": true, "strftime": true, "difftime": true,
}

// rejectedBuiltins names the calls codegen refuses outright: setjmp/
// longjmp's non-local control transfer has no sound lowering onto a
// structured try/catch target, the "safer of the three options" this
// port settled on rather than silently miscompiling them.
var rejectedBuiltins = map[string]bool{
	"setjmp":  true,
	"longjmp": true,
}
