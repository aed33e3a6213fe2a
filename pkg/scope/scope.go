// Package scope implements the type-scope seeder (C5): the per-module
// symbol table classifying each name as imported or locally rooted,
// computed once a module is available and before any type is constructed.
package scope

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

// ItemState is a scope entry: either imported from elsewhere, or rooted in
// the current module. An entry carries no type: scope seeding never
// builds types, and the type constructor only reads the table.
type ItemState struct {
	Imported bool
	Source   canon.Path
	SrcKey   string
	AsKey    string
}

// Rooted reports whether the state is a locally-rooted definition.
func (s ItemState) Rooted() bool { return !s.Imported }

// Scope is the combined name table for one module: a type lane and a
// value lane. Classes populate both.
type Scope struct {
	Type  map[string]ItemState
	Value map[string]ItemState
}

func newScope() Scope {
	return Scope{Type: make(map[string]ItemState), Value: make(map[string]ItemState)}
}

// Seed builds the combined scope for one module, given its hoisted body
// and its dependency map (specifier -> canonical path). Imports are
// inserted first since they precede all other top-level items after
// hoisting; rooted declarations dominate — once a name is rooted, a later
// import of the same name is ignored. Within the hoisted body imports
// always precede declarations, so in practice a rooted entry only ever
// overwrites an imported one, never the reverse.
func Seed(path canon.Path, mod *tsparse.Module, deps map[string]canon.Path) Scope {
	sc := newScope()

	for _, item := range mod.Body {
		if item.Kind() != "import_statement" {
			continue
		}
		seedImport(&sc, mod.Source, deps, item)
	}

	for _, item := range mod.Body {
		if item.Kind() == "import_statement" {
			continue
		}
		seedDeclaration(&sc, mod.Source, item)
	}

	return sc
}

func seedImport(sc *Scope, source []byte, deps map[string]canon.Path, n ts.Node) {
	clause := firstNamedChildOfKind(&n, "import_clause")
	srcSpecifier := importSpecifierText(source, &n)
	depPath, ok := deps[srcSpecifier]
	if clause == nil || !ok {
		return
	}

	named := findNamedImports(clause)
	if named == nil {
		return
	}

	count := named.NamedChildCount()
	for i := uint(0); i < count; i++ {
		spec := named.NamedChild(i)
		if spec == nil || spec.Kind() != "import_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		aliasNode := spec.ChildByFieldName("alias")

		srcKey := sourceText(source, nameNode)
		asKey := srcKey
		if aliasNode != nil {
			asKey = sourceText(source, aliasNode)
		}
		if srcKey == "" {
			continue
		}

		state := ItemState{Imported: true, Source: depPath, SrcKey: srcKey, AsKey: asKey}
		insertIfNotRooted(sc.Type, asKey, state)
		insertIfNotRooted(sc.Value, asKey, state)
	}
}

func seedDeclaration(sc *Scope, source []byte, n ts.Node) {
	switch n.Kind() {
	case "class_declaration":
		name := declName(source, n, "type_identifier", "identifier")
		if name != "" {
			sc.Type[name] = ItemState{}
			sc.Value[name] = ItemState{}
		}
	case "function_declaration", "function_signature":
		name := declName(source, n, "identifier")
		if name != "" {
			sc.Value[name] = ItemState{}
		}
	case "interface_declaration":
		name := declName(source, n, "type_identifier")
		if name != "" {
			sc.Type[name] = ItemState{}
		}
	case "type_alias_declaration":
		name := declName(source, n, "type_identifier")
		if name != "" {
			sc.Type[name] = ItemState{}
		}
	case "enum_declaration":
		name := declName(source, n, "identifier")
		if name != "" {
			sc.Type[name] = ItemState{}
		}
	case "lexical_declaration", "variable_declaration":
		for _, name := range variableNames(source, n) {
			sc.Value[name] = ItemState{}
		}
	case "export_statement":
		decl := firstExportedDeclaration(&n)
		if decl != nil {
			seedDeclaration(sc, source, *decl)
		}
	}
}

func insertIfNotRooted(m map[string]ItemState, key string, state ItemState) {
	if existing, ok := m[key]; ok && existing.Rooted() {
		return
	}
	m[key] = state
}

func declName(source []byte, n ts.Node, kinds ...string) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	for _, k := range kinds {
		if nameNode.Kind() == k {
			return sourceText(source, nameNode)
		}
	}
	return sourceText(source, nameNode)
}

func variableNames(source []byte, n ts.Node) []string {
	var names []string
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode != nil && nameNode.Kind() == "identifier" {
			names = append(names, sourceText(source, nameNode))
		}
	}
	return names
}

func firstExportedDeclaration(n *ts.Node) *ts.Node {
	decl := n.ChildByFieldName("declaration")
	return decl
}

func findNamedImports(clause *ts.Node) *ts.Node {
	return firstNamedChildOfKind(clause, "named_imports")
}

func importSpecifierText(source []byte, n *ts.Node) string {
	strNode := firstNamedChildOfKind(n, "string")
	if strNode == nil {
		return ""
	}
	frag := firstNamedChildOfKind(strNode, "string_fragment")
	return sourceText(source, frag)
}

func firstNamedChildOfKind(n *ts.Node, kind string) *ts.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func sourceText(source []byte, n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}
