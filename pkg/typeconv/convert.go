package typeconv

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tsbindgen/tsbindgen/pkg/bgerr"
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/scope"
)

// Converter builds structured Type values from tree-sitter type nodes for
// one module, resolving referenced names through that module's Scope.
// Dispatch runs over tree-sitter CST node kinds rather than a typed AST
// match, since no typed TypeScript AST library exists in the Go
// ecosystem.
//
// A Converter is pure with respect to Scope: Convert never mutates it.
type Converter struct {
	Path   canon.Path
	Scope  scope.Scope
	Source []byte

	// current is the name of the declaration currently being built, so a
	// self-referencing TsTypeRef inside it can be treated as Rooted even
	// before the declaration has been added to Scope (recursive types).
	current string
}

// New builds a Converter for path, resolving type references through sc.
func New(path canon.Path, sc scope.Scope, source []byte) *Converter {
	return &Converter{Path: path, Scope: sc, Source: source}
}

// ConvertDeclaration builds the Type for a top-level or exported
// declaration node (class, interface, type alias, enum, function). name
// is the declared symbol, used for self-reference handling while
// descending the declaration's own body.
func (c *Converter) ConvertDeclaration(name string, n ts.Node) (Type, error) {
	prev := c.current
	c.current = name
	defer func() { c.current = prev }()

	switch n.Kind() {
	case "class_declaration":
		return c.convertClass(name, n)
	case "interface_declaration":
		return c.convertInterface(name, n)
	case "type_alias_declaration":
		return c.convertAlias(name, n)
	case "enum_declaration":
		return Type{Kind: KindOpaque, Name: name, Source: c.Path}, nil
	case "function_declaration", "function_signature":
		return c.convertFunctionDecl(n)
	case "lexical_declaration", "variable_declaration":
		return c.convertVariable(name, n)
	default:
		return Type{}, bgerr.Typingf(c.Path, spanOf(n), "unrecognized declaration kind %q", n.Kind())
	}
}

func (c *Converter) convertAlias(name string, n ts.Node) (Type, error) {
	valueNode := n.ChildByFieldName("value")
	if valueNode == nil {
		return Type{}, bgerr.Typingf(c.Path, spanOf(n), "type alias %q has no aliased type", name)
	}
	aliased, err := c.Convert(*valueNode)
	if err != nil {
		return Type{}, err
	}
	return Type{Kind: KindAlias, Name: name, Aliased: &aliased}, nil
}

// convertVariable picks out the declarator matching name — a lexical
// declaration may bind several names in one statement (`const a, b: T;`)
// and each resolves to its own annotation independently.
func (c *Converter) convertVariable(name string, n ts.Node) (Type, error) {
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || c.text(*nameNode) != name {
			continue
		}
		typeNode := decl.ChildByFieldName("type")
		if typeNode == nil {
			return Type{Kind: KindAny}, nil
		}
		return c.convertTypeAnnotation(*typeNode)
	}
	return Type{Kind: KindAny}, nil
}

func (c *Converter) convertFunctionDecl(n ts.Node) (Type, error) {
	params, err := c.convertParams(n.ChildByFieldName("parameters"))
	if err != nil {
		return Type{}, err
	}
	ret, err := c.returnType(n)
	if err != nil {
		return Type{}, err
	}
	return Type{Kind: KindFn, Fn: &FnType{Params: params, Return: ret}}, nil
}

func (c *Converter) convertInterface(name string, n ts.Node) (Type, error) {
	fields := make(map[string]Type)
	body := n.ChildByFieldName("body")
	if body != nil {
		if err := c.convertMembersInto(*body, fields); err != nil {
			return Type{}, err
		}
	}
	return Type{Kind: KindInterface, Name: name, Source: c.Path, Fields: fields}, nil
}

func (c *Converter) convertClass(name string, n ts.Node) (Type, error) {
	members := make(map[string]Type)
	var constructors []FnType

	body := n.ChildByFieldName("body")
	if body == nil {
		return Type{Kind: KindClass, Name: name, Source: c.Path,
			Class: &ClassType{Name: name, Origin: c.Path, Members: members}}, nil
	}

	count := body.NamedChildCount()
	for i := uint(0); i < count; i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "public_field_definition", "field_definition":
			prop := member.ChildByFieldName("name")
			if prop == nil {
				continue
			}
			key := c.text(*prop)
			typeNode := member.ChildByFieldName("type")
			typ := Type{Kind: KindAny}
			if typeNode != nil {
				t, err := c.convertTypeAnnotation(*typeNode)
				if err != nil {
					return Type{}, err
				}
				typ = t
			}
			members[key] = typ

		case "method_definition", "method_signature":
			nameNode := member.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			key := c.text(*nameNode)
			params, err := c.convertParams(member.ChildByFieldName("parameters"))
			if err != nil {
				return Type{}, err
			}
			if key == "constructor" {
				constructors = append(constructors, FnType{Params: params, Return: Type{Kind: KindAny}})
				continue
			}
			ret, err := c.returnType(*member)
			if err != nil {
				return Type{}, err
			}
			members[key] = Type{Kind: KindFn, Fn: &FnType{Params: params, Return: ret}}
		}
	}

	return Type{
		Kind:   KindClass,
		Name:   name,
		Source: c.Path,
		Class:  &ClassType{Name: name, Origin: c.Path, Constructors: constructors, Members: members},
	}, nil
}

// convertMembersInto lowers an interface_body's property/method signatures
// into fields, dropping index signatures with a debug-only note.
func (c *Converter) convertMembersInto(body ts.Node, fields map[string]Type) error {
	count := body.NamedChildCount()
	for i := uint(0); i < count; i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		switch member.Kind() {
		case "property_signature":
			nameNode := member.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			key := c.text(*nameNode)
			typeNode := member.ChildByFieldName("type")
			typ := Type{Kind: KindAny}
			if typeNode != nil {
				t, err := c.convertTypeAnnotation(*typeNode)
				if err != nil {
					return err
				}
				typ = t
			}
			fields[key] = typ

		case "method_signature":
			nameNode := member.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			key := c.text(*nameNode)
			params, err := c.convertParams(member.ChildByFieldName("parameters"))
			if err != nil {
				return err
			}
			ret, err := c.returnType(*member)
			if err != nil {
				return err
			}
			fields[key] = Type{Kind: KindFn, Fn: &FnType{Params: params, Return: ret}}

		case "index_signature":
			// dropped intentionally; target host has no structural index types
			slog.Debug("dropping index signature", "module", c.Path.String(), "span", spanOf(*member))
		}
	}
	return nil
}

func (c *Converter) convertParams(params *ts.Node) ([]Type, error) {
	if params == nil {
		return nil, nil
	}
	var out []Type
	count := params.NamedChildCount()
	for i := uint(0); i < count; i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			out = append(out, Type{Kind: KindAny})
			continue
		}
		t, err := c.convertTypeAnnotation(*typeNode)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Converter) returnType(n ts.Node) (Type, error) {
	ann := n.ChildByFieldName("return_type")
	if ann == nil {
		return Type{Kind: KindAny}, nil
	}
	return c.convertTypeAnnotation(*ann)
}

// convertTypeAnnotation unwraps a `type_annotation` node (": T") to its
// inner type node, falling back to converting n itself if it is already a
// bare type node.
func (c *Converter) convertTypeAnnotation(n ts.Node) (Type, error) {
	if n.Kind() == "type_annotation" {
		inner := firstNamedChild(n)
		if inner == nil {
			return Type{Kind: KindAny}, nil
		}
		return c.Convert(*inner)
	}
	return c.Convert(n)
}

// Convert builds the structured Type for a bare type node. Unsupported
// type formers raise a fatal bgerr.Typing error carrying the node's span.
func (c *Converter) Convert(n ts.Node) (Type, error) {
	switch n.Kind() {
	case "predefined_type":
		return c.convertPredefined(n)

	case "this_type":
		// TypeScript's `this` type resolves to Any (open question #3,
		// matching the reference source).
		return Type{Kind: KindAny}, nil

	case "type_identifier", "identifier":
		return c.convertTypeRef(c.text(n), n)

	case "generic_type":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return Type{}, bgerr.Typingf(c.Path, spanOf(n), "generic type with no name")
		}
		// Type arguments are not modeled as separate Type parameters in
		// the target's nominal datatype system; resolve to the base name.
		return c.convertTypeRef(c.text(*nameNode), n)

	case "function_type":
		params, err := c.convertParams(n.ChildByFieldName("parameters"))
		if err != nil {
			return Type{}, err
		}
		ret, err := c.returnType(n)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindFn, Fn: &FnType{Params: params, Return: ret}}, nil

	case "object_type":
		fields := make(map[string]Type)
		if err := c.convertMembersInto(n, fields); err != nil {
			return Type{}, err
		}
		return Type{Kind: KindLiteral, Fields: fields}, nil

	case "array_type":
		elemNode := firstNamedChild(n)
		if elemNode == nil {
			return Type{}, bgerr.Typingf(c.Path, spanOf(n), "array type with no element type")
		}
		elem, err := c.Convert(*elemNode)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindUnsizedArray, Elem: &elem}, nil

	case "union_type":
		return Type{Kind: KindUnion}, nil

	case "parenthesized_type":
		inner := firstNamedChild(n)
		if inner == nil {
			return Type{}, bgerr.Typingf(c.Path, spanOf(n), "empty parenthesized type")
		}
		return c.Convert(*inner)

	default:
		return Type{}, bgerr.Unsupportedf(c.Path, spanOf(n), unsupportedFeatureName(n.Kind()),
			"unsupported type former %q", n.Kind())
	}
}

func unsupportedFeatureName(kind string) string {
	switch kind {
	case "tuple_type":
		return "TupleType"
	case "intersection_type":
		return "IntersectionType"
	case "conditional_type":
		return "ConditionalType"
	case "infer_type":
		return "InferType"
	case "type_operator":
		return "TypeOperator"
	case "indexed_access_type":
		return "IndexedAccessType"
	case "mapped_type":
		return "MappedType"
	case "literal_type":
		return "LiteralType"
	case "predicate_type":
		return "TypePredicate"
	case "import_type":
		return "ImportType"
	default:
		return kind
	}
}

func (c *Converter) convertPredefined(n ts.Node) (Type, error) {
	text := c.text(n)
	switch text {
	case "number":
		return Type{Kind: KindNumber}, nil
	case "boolean":
		return Type{Kind: KindBoolean}, nil
	case "string":
		return Type{Kind: KindString}, nil
	case "void":
		return Type{Kind: KindVoid}, nil
	case "any":
		return Type{Kind: KindAny}, nil
	case "never":
		return Type{Kind: KindNever}, nil
	case "undefined":
		return Type{Kind: KindUndefined}, nil
	case "null":
		return Type{Kind: KindNull}, nil
	case "object":
		return Type{Kind: KindObject}, nil
	case "unknown":
		return Type{}, bgerr.Unsupportedf(c.Path, spanOf(n), "UnknownType", "unknown keyword type is unsupported")
	case "bigint":
		return Type{}, bgerr.Unsupportedf(c.Path, spanOf(n), "BigIntType", "bigint keyword type is unsupported")
	case "symbol":
		return Type{}, bgerr.Unsupportedf(c.Path, spanOf(n), "SymbolType", "symbol keyword type is unsupported")
	default:
		return Type{}, bgerr.Typingf(c.Path, spanOf(n), "unrecognized predefined type %q", text)
	}
}

// convertTypeRef resolves a type-reference name through scope, handling
// self-reference for recursive types.
func (c *Converter) convertTypeRef(name string, n ts.Node) (Type, error) {
	if state, ok := c.Scope.Type[name]; ok {
		if state.Rooted() {
			return Named(name, c.Path), nil
		}
		return Named(state.SrcKey, state.Source), nil
	}

	if name == c.current {
		return Named(name, c.Path), nil
	}

	return Type{}, bgerr.Typingf(c.Path, spanOf(n), "type %q not in scope", name)
}

func (c *Converter) text(n ts.Node) string {
	return strings.TrimSpace(n.Utf8Text(c.Source))
}

func firstNamedChild(n ts.Node) *ts.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

func spanOf(n ts.Node) bgerr.Span {
	return bgerr.Span{Start: uint32(n.StartByte()), End: uint32(n.EndByte())}
}
