package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// numericHelpers are the two bridging functions used for the ts-num
// profile: identity in one direction (values returned to the JS caller
// are already JS numbers), numeric coercion in the other (values
// flowing into the wrapped function are coerced with Number()).
const numericHelpers = `function __tsbindgenToNumber(x) { return Number(x); }
function __tsbindgenFromNumber(x) { return x; }
`

// JSOptions controls shim generation.
type JSOptions struct {
	ConstructorWrappers bool
	WrapTopLevelVars    bool
	NumericBridge       bool
}

type valueExport struct {
	name string
	typ  typeconv.Type
}

// JSEmitter implements the JsEmitter interface: HandleValue/HandleType
// accumulate exported values; Finalize renders the `<stem>.arr.js` shim
// text.
type JSEmitter struct {
	opts   JSOptions
	values []valueExport
}

// NewJSEmitter builds a JSEmitter with the given generation options.
func NewJSEmitter(opts JSOptions) *JSEmitter {
	return &JSEmitter{opts: opts}
}

// HandleValue records one exported value for shim generation.
func (e *JSEmitter) HandleValue(name string, t typeconv.Type) error {
	e.values = append(e.values, valueExport{name: name, typ: t})
	return nil
}

// HandleType is a no-op: the JS shim only re-exports values, never bare
// type definitions (the target host's JSON artifact carries those).
func (e *JSEmitter) HandleType(name string, t typeconv.Type) error {
	return nil
}

// Finalize renders the shim: `const root = require(requirePath); ...`
// followed by one `module.exports[key] = …;` override per wrapped
// export, in the order values were handled.
func (e *JSEmitter) Finalize(root canon.Path, requirePath string) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "const root = require(%s);\n", jsStringLiteral(requirePath))
	b.WriteString("module.exports = Object.assign({}, root);\n")

	if e.opts.NumericBridge && e.usesNumericBridge() {
		b.WriteString(numericHelpers)
	}

	for _, v := range e.values {
		switch v.typ.Kind {
		case typeconv.KindClass:
			if e.opts.ConstructorWrappers && v.typ.Class != nil {
				e.emitConstructorWrappers(&b, v.name, v.typ.Class)
			}
		case typeconv.KindFn:
			if e.opts.NumericBridge && fnUsesNumber(v.typ.Fn) {
				e.emitBridgedFunction(&b, v.name, v.typ.Fn)
			}
		default:
			if e.opts.WrapTopLevelVars && isScalar(v.typ.Kind) {
				fmt.Fprintf(&b, "module.exports[%s] = function() { return root[%s]; };\n",
					jsStringLiteral(v.name), jsStringLiteral(v.name))
			}
		}
	}

	return []byte(b.String()), nil
}

// emitConstructorWrappers emits one wrapper per constructor, named by a
// stable index-based scheme: the first constructor keeps the class name,
// each subsequent one appends its index (`C`, `C1`, `C2`, …).
func (e *JSEmitter) emitConstructorWrappers(b *strings.Builder, name string, cls *typeconv.ClassType) {
	for i, ctor := range cls.Constructors {
		wrapperName := name
		if i > 0 {
			wrapperName = fmt.Sprintf("%s%d", name, i)
		}

		params := make([]string, len(ctor.Params))
		for j := range ctor.Params {
			params[j] = fmt.Sprintf("a%d", j)
		}
		argList := strings.Join(params, ", ")

		callArgs := argList
		if e.opts.NumericBridge {
			callArgs = bridgeCallArgs(params, ctor.Params)
		}

		fmt.Fprintf(b, "module.exports[%s] = function(%s) { return new root[%s](%s); };\n",
			jsStringLiteral(wrapperName), argList, jsStringLiteral(name), callArgs)
	}
}

// emitBridgedFunction wraps a plain exported function whose signature
// uses Number in parameter or return position, applying the ts-num
// bridging helpers structurally through those positions.
func (e *JSEmitter) emitBridgedFunction(b *strings.Builder, name string, fn *typeconv.FnType) {
	params := make([]string, len(fn.Params))
	for i := range fn.Params {
		params[i] = fmt.Sprintf("a%d", i)
	}
	argList := strings.Join(params, ", ")
	callArgs := bridgeCallArgs(params, fn.Params)

	call := fmt.Sprintf("root[%s](%s)", jsStringLiteral(name), callArgs)
	if fn.Return.Kind == typeconv.KindNumber {
		call = fmt.Sprintf("__tsbindgenFromNumber(%s)", call)
	}

	fmt.Fprintf(b, "module.exports[%s] = function(%s) { return %s; };\n", jsStringLiteral(name), argList, call)
}

// bridgeCallArgs wraps each Number-typed positional argument with the
// target->JS coercion helper, leaving every other argument untouched.
func bridgeCallArgs(paramNames []string, paramTypes []typeconv.Type) string {
	parts := make([]string, len(paramNames))
	for i, pn := range paramNames {
		if i < len(paramTypes) && paramTypes[i].Kind == typeconv.KindNumber {
			parts[i] = fmt.Sprintf("__tsbindgenToNumber(%s)", pn)
		} else {
			parts[i] = pn
		}
	}
	return strings.Join(parts, ", ")
}

func (e *JSEmitter) usesNumericBridge() bool {
	for _, v := range e.values {
		if v.typ.Kind == typeconv.KindFn && fnUsesNumber(v.typ.Fn) {
			return true
		}
		if v.typ.Kind == typeconv.KindClass && v.typ.Class != nil && e.opts.ConstructorWrappers {
			for _, ctor := range v.typ.Class.Constructors {
				if fnUsesNumber(&ctor) {
					return true
				}
			}
		}
	}
	return false
}

func fnUsesNumber(fn *typeconv.FnType) bool {
	if fn == nil {
		return false
	}
	if fn.Return.Kind == typeconv.KindNumber {
		return true
	}
	for _, p := range fn.Params {
		if p.Kind == typeconv.KindNumber {
			return true
		}
	}
	return false
}

// isScalar reports whether k is a bare value worth wrapping in a
// zero-argument getter (`wrap-top-level-vars`) rather than re-exported
// as-is: anything that is not itself callable or a structured shape.
func isScalar(k typeconv.Kind) bool {
	switch k {
	case typeconv.KindBoolean, typeconv.KindNumber, typeconv.KindString,
		typeconv.KindAny, typeconv.KindObject, typeconv.KindUnion,
		typeconv.KindUndefined, typeconv.KindNull, typeconv.KindVoid, typeconv.KindNever:
		return true
	default:
		return false
	}
}

// jsStringLiteral renders s as a double-quoted JS string literal. Go and
// JS share escaping rules for the ASCII identifier-like strings this
// emitter ever produces (export names, require paths), so strconv.Quote
// is sufficient.
func jsStringLiteral(s string) string {
	return strconv.Quote(s)
}
