// Package typeconv implements the type constructor (C6): building
// structured Type values from TypeScript AST type nodes, resolving every
// referenced name through a module's scope (pkg/scope).
//
// Go has no algebraic sum type, so Type is modeled as a flattened
// tagged struct — one Kind tag plus the fields relevant to that kind
// (Named, Fn, Class, Interface, Literal, Alias, Opaque, UnsizedArray,
// Array, Union, and the bare primitives).
package typeconv

import "github.com/tsbindgen/tsbindgen/pkg/canon"

// Kind tags which Type variant a value holds.
type Kind int

const (
	KindNamed Kind = iota
	KindFn
	KindClass
	KindInterface
	KindLiteral
	KindAlias
	KindOpaque
	KindUnsizedArray
	KindArray
	KindUnion
	KindBoolean
	KindNumber
	KindString
	KindVoid
	KindObject
	KindAny
	KindNever
	KindUndefined
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "Named"
	case KindFn:
		return "Fn"
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindLiteral:
		return "Literal"
	case KindAlias:
		return "Alias"
	case KindOpaque:
		return "Opaque"
	case KindUnsizedArray:
		return "UnsizedArray"
	case KindArray:
		return "Array"
	case KindUnion:
		return "Union"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindVoid:
		return "Void"
	case KindObject:
		return "Object"
	case KindAny:
		return "Any"
	case KindNever:
		return "Never"
	case KindUndefined:
		return "Undefined"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// Type is the structured type sum built by C6.
type Type struct {
	Kind Kind

	// Named / Class / Interface / Alias / Opaque
	Name   string
	Source canon.Path

	// Fn
	Fn *FnType

	// Class
	Class *ClassType

	// Interface / Literal
	Fields map[string]Type

	// Alias
	Aliased *Type

	// UnsizedArray / Array
	Elem     *Type
	ArrayLen int
}

// FnType is a function or method signature.
type FnType struct {
	Params []Type
	Return Type
}

// ClassType is a class's constructed shape.
type ClassType struct {
	Name         string
	Origin       canon.Path
	Constructors []FnType
	Members      map[string]Type
}

// Primitive constructs a bare-primitive Type value.
func Primitive(k Kind) Type { return Type{Kind: k} }

// Named constructs a Named { name, source } value.
func Named(name string, source canon.Path) Type {
	return Type{Kind: KindNamed, Name: name, Source: source}
}
