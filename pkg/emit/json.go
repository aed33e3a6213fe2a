// Package emit implements the emitter interfaces (C10): traversing the
// reduced typed graph to produce the two output artifacts — a JSON
// type-description document for the target host's compiler, and a
// JavaScript re-export shim.
//
// The concrete tagged-array JSON encoding below is a documented choice
// where the outer interface leaves specifics open (array types, inline
// object literals, cross-module references) rather than a guess at any
// particular target host's real compiler internals — see DESIGN.md.
package emit

import (
	"encoding/json"
	"sort"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// ArrJSON is the top-level shape of the `<stem>.arr.json` artifact.
type ArrJSON struct {
	Requires []string `json:"requires"`
	Provides Provides `json:"provides"`
}

// Provides holds the four named maps the JSON artifact's shape specifies.
type Provides struct {
	Shorthands map[string]any `json:"shorthands"`
	Values     map[string]any `json:"values"`
	Aliases    map[string]any `json:"aliases"`
	Datatypes  map[string]any `json:"datatypes"`
}

// JSONEmitter implements the JsonEmitter interface: ExportValue/
// ExportType accumulate into Provides; Finalize serializes.
type JSONEmitter struct {
	opaqueInterfaces bool
	doc              ArrJSON
}

// NewJSONEmitter builds a JSONEmitter. opaqueInterfaces mirrors the
// `opaque-interfaces` generation option: when true, interfaces are
// emitted as opaque data types rather than structural records.
func NewJSONEmitter(opaqueInterfaces bool) *JSONEmitter {
	return &JSONEmitter{
		opaqueInterfaces: opaqueInterfaces,
		doc: ArrJSON{
			Requires: []string{},
			Provides: Provides{
				Shorthands: map[string]any{},
				Values:     map[string]any{},
				Aliases:    map[string]any{},
				Datatypes:  map[string]any{},
			},
		},
	}
}

// ExportValue records one exported value's (function, variable, class
// constructor set) encoded type.
func (e *JSONEmitter) ExportValue(name string, t typeconv.Type) error {
	e.doc.Provides.Values[name] = encodeType(t, name, t.Source)
	return nil
}

// ExportType records one exported type: interfaces and classes become
// datatype definitions; aliases become alias entries; anything else
// (a bare Named or primitive re-exported as a type) is recorded as an
// alias of its encoded form.
func (e *JSONEmitter) ExportType(name string, t typeconv.Type) error {
	switch t.Kind {
	case typeconv.KindAlias:
		aliased := typeconv.Type{Kind: typeconv.KindVoid}
		if t.Aliased != nil {
			aliased = *t.Aliased
		}
		e.doc.Provides.Aliases[name] = encodeType(aliased, name, t.Source)
	case typeconv.KindInterface:
		if e.opaqueInterfaces {
			e.doc.Provides.Datatypes[name] = opaqueDatatype(name)
		} else {
			e.doc.Provides.Datatypes[name] = recordDatatype(t, name)
		}
	case typeconv.KindClass, typeconv.KindOpaque:
		e.doc.Provides.Datatypes[name] = opaqueDatatype(name)
	default:
		e.doc.Provides.Aliases[name] = encodeType(t, name, t.Source)
	}
	return nil
}

// Finalize serializes the accumulated document. root is accepted to
// satisfy the emitter interface but unused by this encoding (the
// document carries no root-relative paths).
func (e *JSONEmitter) Finalize(root canon.Path) ([]byte, error) {
	return json.MarshalIndent(e.doc, "", "  ")
}

// opaqueDatatype builds the `["data", name, [], [], {}]` form used for
// an opaque datatype definition (classes, enums, and opaque-profile
// interfaces).
func opaqueDatatype(name string) []any {
	return []any{"data", name, []any{}, []any{}, map[string]any{}}
}

// recordDatatype builds the `["record", { field: type, … }]` form for a
// non-opaque interface.
func recordDatatype(t typeconv.Type, name string) []any {
	return []any{"record", encodeFields(t.Fields, name, t.Source)}
}

func encodeFields(fields map[string]typeconv.Type, selfName string, selfSource canon.Path) map[string]any {
	out := make(map[string]any, len(fields))
	for k, f := range fields {
		out[k] = encodeType(f, selfName, selfSource)
	}
	return out
}

// encodeType lowers a structured Type to the tagged-array/primitive-
// string JSON encoding. selfName/selfSource identify the enclosing named
// definition currently being encoded, so a Named field that refers back
// to it (recursive types) encodes as `["local", name]`; every other
// Named reference encodes as a `tyapp` pointing at its origin module
// (this emitter's choice of origin-descriptor: the referenced module's
// canonical path string — the real target-host module-reference syntax
// is outside what this interface fixes).
func encodeType(t typeconv.Type, selfName string, selfSource canon.Path) any {
	switch t.Kind {
	case typeconv.KindBoolean:
		return "Boolean"
	case typeconv.KindNumber:
		return "Number"
	case typeconv.KindString:
		return "String"
	case typeconv.KindVoid:
		return "Nothing"
	case typeconv.KindAny:
		return "Any"
	case typeconv.KindNever:
		return "tbot"
	case typeconv.KindObject, typeconv.KindUnion:
		return "tany"
	case typeconv.KindUndefined, typeconv.KindNull:
		// Neither the primitive-name list nor the target host's nominal
		// datatype system distinguishes these from Any.
		return "Any"

	case typeconv.KindFn:
		params := []any{}
		ret := any("Nothing")
		if t.Fn != nil {
			for _, p := range t.Fn.Params {
				params = append(params, encodeType(p, selfName, selfSource))
			}
			ret = encodeType(t.Fn.Return, selfName, selfSource)
		}
		return []any{"arrow", params, ret}

	case typeconv.KindUnsizedArray:
		elem := any("Any")
		if t.Elem != nil {
			elem = encodeType(*t.Elem, selfName, selfSource)
		}
		return []any{"tyapp", "Array", []any{elem}}

	case typeconv.KindArray:
		elem := any("Any")
		if t.Elem != nil {
			elem = encodeType(*t.Elem, selfName, selfSource)
		}
		return []any{"tyapp", "Array", []any{elem, t.ArrayLen}}

	case typeconv.KindNamed:
		if t.Name == selfName && t.Source == selfSource {
			return []any{"local", t.Name}
		}
		return []any{"tyapp", t.Source.String() + "#" + t.Name, []any{}}

	case typeconv.KindInterface, typeconv.KindLiteral:
		return []any{"record", encodeFields(t.Fields, selfName, selfSource)}

	case typeconv.KindClass, typeconv.KindOpaque:
		return []any{"tyapp", t.Source.String() + "#" + t.Name, []any{}}

	case typeconv.KindAlias:
		if t.Aliased != nil {
			return encodeType(*t.Aliased, selfName, selfSource)
		}
		return "Any"

	default:
		return "Any"
	}
}

// sortedKeys returns m's keys sorted, for deterministic emission order
// over a Go map.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
