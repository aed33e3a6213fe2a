// Package features implements the feature detector (C9): summarizing
// which TypeScript features a reduced typed graph actually uses, as a
// fixed bitset, so the compatibility gate can reject a target profile
// too weak to express them.
package features

import (
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/graph"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// Set is a bitset of detected or accepted TypeScript features.
//
// This enumerates a richer set than the primitive/array/fn/interface/
// literal/union/opaque formers alone: explicit enum type, class-type-
// as-value, type alias, and recursive type each get their own bit too,
// since "accepts every feature" is only meaningful if it means
// everything the detector can actually recognize.
type Set uint32

const (
	Boolean Set = 1 << iota
	Number
	String
	Void
	Object
	Any
	Never
	Undefined
	Null
	Array
	Fn
	Interface
	Literal
	Union
	Opaque
	Class
	Alias
	Named
	RecursiveType
)

var names = []struct {
	bit  Set
	name string
}{
	{Boolean, "BooleanType"},
	{Number, "NumberType"},
	{String, "StringType"},
	{Void, "VoidType"},
	{Object, "ObjectType"},
	{Any, "AnyType"},
	{Never, "NeverType"},
	{Undefined, "UndefinedType"},
	{Null, "NullType"},
	{Array, "ArrayType"},
	{Fn, "FunctionType"},
	{Interface, "InterfaceType"},
	{Literal, "LiteralType"},
	{Union, "UnionType"},
	{Opaque, "EnumType"},
	{Class, "ClassType"},
	{Alias, "TypeAlias"},
	{Named, "NamedReference"},
	{RecursiveType, "RecursiveType"},
}

// All is the union of every bit the detector recognizes — the feature
// set the ts-full profile accepts.
func All() Set {
	var s Set
	for _, n := range names {
		s |= n.bit
	}
	return s
}

// Has reports whether bit is set in s.
func (s Set) Has(bit Set) bool { return s&bit != 0 }

// Names returns the human-readable names of every bit set in s, in a
// fixed order, for error reporting.
func (s Set) Names() []string {
	var out []string
	for _, n := range names {
		if s.Has(n.bit) {
			out = append(out, n.name)
		}
	}
	return out
}

type frame struct {
	name   string
	origin canon.Path
}

// Detect walks every rooted type — values and types — in every node of
// g and summarizes which features appear. Recursion is detected by
// keeping a stack of (name, origin) pairs while descending Interface
// bodies; a Named whose (name, source) already appears on the stack
// flips RecursiveType.
func Detect(g *graph.Graph) Set {
	var s Set
	for _, node := range g.Nodes {
		for _, t := range node.RootedExportTypes {
			walk(t, nil, &s)
		}
		for _, t := range node.RootedExportValues {
			walk(t, nil, &s)
		}
	}
	return s
}

func walk(t typeconv.Type, stack []frame, s *Set) {
	switch t.Kind {
	case typeconv.KindBoolean:
		*s |= Boolean
	case typeconv.KindNumber:
		*s |= Number
	case typeconv.KindString:
		*s |= String
	case typeconv.KindVoid:
		*s |= Void
	case typeconv.KindObject:
		*s |= Object
	case typeconv.KindAny:
		*s |= Any
	case typeconv.KindNever:
		*s |= Never
	case typeconv.KindUndefined:
		*s |= Undefined
	case typeconv.KindNull:
		*s |= Null

	case typeconv.KindUnsizedArray, typeconv.KindArray:
		*s |= Array
		if t.Elem != nil {
			walk(*t.Elem, stack, s)
		}

	case typeconv.KindFn:
		*s |= Fn
		if t.Fn != nil {
			for _, p := range t.Fn.Params {
				walk(p, stack, s)
			}
			walk(t.Fn.Return, stack, s)
		}

	case typeconv.KindInterface:
		*s |= Interface
		frames := append(append([]frame{}, stack...), frame{name: t.Name, origin: t.Source})
		for _, f := range t.Fields {
			walk(f, frames, s)
		}

	case typeconv.KindLiteral:
		*s |= Literal
		for _, f := range t.Fields {
			walk(f, stack, s)
		}

	case typeconv.KindUnion:
		*s |= Union

	case typeconv.KindOpaque:
		*s |= Opaque

	case typeconv.KindClass:
		*s |= Class
		if t.Class != nil {
			for _, ctor := range t.Class.Constructors {
				for _, p := range ctor.Params {
					walk(p, stack, s)
				}
				walk(ctor.Return, stack, s)
			}
			for _, m := range t.Class.Members {
				walk(m, stack, s)
			}
		}

	case typeconv.KindAlias:
		*s |= Alias
		if t.Aliased != nil {
			walk(*t.Aliased, stack, s)
		}

	case typeconv.KindNamed:
		*s |= Named
		for _, fr := range stack {
			if fr.name == t.Name && fr.origin == t.Source {
				*s |= RecursiveType
				break
			}
		}
	}
}
