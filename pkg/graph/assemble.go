package graph

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tsbindgen/tsbindgen/pkg/bgerr"
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/modcache"
	"github.com/tsbindgen/tsbindgen/pkg/scope"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// Assemble builds the unresolved module graph (C7) from a closed module
// cache: one Node per module holding its locally-rooted exported symbols,
// plus ordered import/export edge lists carrying the ambiguous Named form
// that C8 later resolves.
func Assemble(cache *modcache.Cache) (*Graph, error) {
	g := newGraph()

	for _, path := range cache.Paths() {
		data, _ := cache.Get(path)
		sc := scope.Seed(path, data.Module, data.Dependencies)
		node := newNode(path)
		g.Nodes[path] = node

		builder := &moduleBuilder{
			path:   path,
			deps:   data.Dependencies,
			scope:  sc,
			mod:    data.Module,
			node:   node,
			conv:   typeconv.New(path, sc, data.Module.Source),
			cached: make(map[string]*typeconv.Type),
		}
		if err := builder.run(); err != nil {
			return nil, err
		}
		g.ImportEdges[path] = builder.imports
		g.ExportEdges[path] = builder.exports
	}

	return g, nil
}

type moduleBuilder struct {
	path  canon.Path
	deps  map[string]canon.Path
	scope scope.Scope
	mod   *tsparse.Module
	node  *Node
	conv  *typeconv.Converter

	cached  map[string]*typeconv.Type
	imports []ImportEdge
	exports []ExportEdge
}

func (b *moduleBuilder) run() error {
	for _, item := range b.mod.Body {
		switch item.Kind() {
		case "import_statement":
			if err := b.processImport(item); err != nil {
				return err
			}
		case "export_statement":
			if err := b.processExport(item); err != nil {
				return err
			}
		default:
			// bare, non-exported top-level declarations don't need a
			// Type built eagerly; typeFor builds them on demand if
			// a later `export { a }` clause references one by name.
		}
	}
	return nil
}

func (b *moduleBuilder) processImport(n ts.Node) error {
	clause := firstNamedChildOfKind(&n, "import_clause")
	specifier := importSpecifierText(b.mod.Source, n)
	depPath, ok := b.deps[specifier]
	if clause == nil || !ok {
		return nil
	}
	named := firstNamedChildOfKind(clause, "named_imports")
	if named == nil {
		return nil
	}
	count := named.NamedChildCount()
	for i := uint(0); i < count; i++ {
		spec := named.NamedChild(i)
		if spec == nil || spec.Kind() != "import_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		aliasNode := spec.ChildByFieldName("alias")
		srcKey := text(b.mod.Source, nameNode)
		asKey := srcKey
		if aliasNode != nil {
			asKey = text(b.mod.Source, aliasNode)
		}
		if srcKey == "" {
			continue
		}
		b.imports = append(b.imports, ImportEdge{
			Kind: KindNamed, Source: depPath, SrcKey: srcKey, ModuleKey: asKey,
		})
	}
	return nil
}

func (b *moduleBuilder) processExport(n ts.Node) error {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		return b.processExportedDeclaration(*decl)
	}

	sourceNode := firstNamedChildOfKind(&n, "string")
	var sourcePath canon.Path
	var hasSource bool
	if sourceNode != nil {
		specifier := importSpecifierText(b.mod.Source, n)
		if p, ok := b.deps[specifier]; ok {
			sourcePath, hasSource = p, true
		}
	}

	clause := firstNamedChildOfKind(&n, "export_clause")
	if clause != nil {
		return b.processExportClause(*clause, sourcePath, hasSource)
	}

	if hasSource && clause == nil && sourceNode != nil && isStarExport(n) {
		b.exports = append(b.exports, ExportEdge{Kind: KindAll, Source: sourcePath})
	}
	return nil
}

func isStarExport(n ts.Node) bool {
	return firstNamedChildOfKind(&n, "export_clause") == nil && firstNamedChildOfKind(&n, "string") != nil &&
		firstNamedChildOfKind(&n, "namespace_export") == nil
}

func (b *moduleBuilder) processExportClause(clause ts.Node, sourcePath canon.Path, hasSource bool) error {
	count := clause.NamedChildCount()
	for i := uint(0); i < count; i++ {
		spec := clause.NamedChild(i)
		if spec == nil || spec.Kind() != "export_specifier" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		aliasNode := spec.ChildByFieldName("alias")
		srcKey := text(b.mod.Source, nameNode)
		exportKey := srcKey
		if aliasNode != nil {
			exportKey = text(b.mod.Source, aliasNode)
		}
		if srcKey == "" {
			continue
		}

		if hasSource {
			b.exports = append(b.exports, ExportEdge{
				Kind: KindNamed, Source: sourcePath, SrcKey: srcKey, ExportKey: exportKey,
			})
			continue
		}

		if err := b.promoteLocalExport(srcKey, exportKey); err != nil {
			return err
		}
	}
	return nil
}

// promoteLocalExport handles `export { a as b }` with no source: a must
// resolve in the current scope, either as a rooted local declaration
// (promoted directly into the node's rooted maps) or as an import (turned
// into an equivalent Export::Named re-export edge).
func (b *moduleBuilder) promoteLocalExport(srcKey, exportKey string) error {
	typeState, hasType := b.scope.Type[srcKey]
	valueState, hasValue := b.scope.Value[srcKey]

	promotedAny := false

	if hasType && typeState.Rooted() {
		typ, err := b.typeFor(srcKey)
		if err != nil {
			return err
		}
		b.node.RootedExportTypes[exportKey] = typ
		promotedAny = true
	} else if hasType && typeState.Imported {
		b.exports = append(b.exports, ExportEdge{
			Kind: KindNamed, Source: typeState.Source, SrcKey: typeState.SrcKey, ExportKey: exportKey,
		})
		promotedAny = true
	}

	if hasValue && valueState.Rooted() {
		typ, err := b.typeFor(srcKey)
		if err != nil {
			return err
		}
		b.node.RootedExportValues[exportKey] = typ
		promotedAny = true
	} else if hasValue && valueState.Imported && !(hasType && typeState.Imported) {
		// An import seeds both lanes with the same state; the type lane
		// above has already emitted its one re-export edge in that case.
		b.exports = append(b.exports, ExportEdge{
			Kind: KindNamed, Source: valueState.Source, SrcKey: valueState.SrcKey, ExportKey: exportKey,
		})
		promotedAny = true
	}

	if !promotedAny {
		return fmt.Errorf("%w", bgerr.Typingf(b.path, bgerr.Span{}, "export %q does not resolve in scope", srcKey))
	}
	return nil
}

func (b *moduleBuilder) processExportedDeclaration(decl ts.Node) error {
	for _, name := range declaredNames(b.mod.Source, decl) {
		typ, err := b.buildType(name, decl)
		if err != nil {
			return err
		}
		switch decl.Kind() {
		case "class_declaration":
			b.node.RootedExportTypes[name] = typ
			b.node.RootedExportValues[name] = typ
		case "interface_declaration", "type_alias_declaration", "enum_declaration":
			b.node.RootedExportTypes[name] = typ
		case "function_declaration", "function_signature", "lexical_declaration", "variable_declaration":
			b.node.RootedExportValues[name] = typ
		}
	}
	return nil
}

// declaredNames returns every symbol a declaration node introduces: one
// name for class/interface/alias/enum/function, possibly several for a
// lexical or var declaration binding multiple names in one statement.
func declaredNames(source []byte, n ts.Node) []string {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		return variableDeclaredNames(source, n)
	default:
		if name := declaredName(source, n); name != "" {
			return []string{name}
		}
		return nil
	}
}

func variableDeclaredNames(source []byte, n ts.Node) []string {
	var names []string
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode != nil && nameNode.Kind() == "identifier" {
			names = append(names, text(source, nameNode))
		}
	}
	return names
}

// typeFor builds (and memoizes) the Type for a locally rooted declaration
// by name, searching the module body for its declaration node. Used when
// a bare `export { a }` clause references a declaration that was not
// itself directly prefixed with `export`.
func (b *moduleBuilder) typeFor(name string) (typeconv.Type, error) {
	if cached, ok := b.cached[name]; ok {
		return *cached, nil
	}
	for _, item := range b.mod.Body {
		decl := item
		if item.Kind() == "export_statement" {
			if d := item.ChildByFieldName("declaration"); d != nil {
				decl = *d
			} else {
				continue
			}
		}
		for _, n := range declaredNames(b.mod.Source, decl) {
			if n == name {
				return b.buildType(name, decl)
			}
		}
	}
	return typeconv.Type{}, bgerr.Typingf(b.path, bgerr.Span{}, "export %q has no matching declaration", name)
}

func (b *moduleBuilder) buildType(name string, decl ts.Node) (typeconv.Type, error) {
	typ, err := b.conv.ConvertDeclaration(name, decl)
	if err != nil {
		return typeconv.Type{}, err
	}
	b.cached[name] = &typ
	return typ, nil
}

func declaredName(source []byte, n ts.Node) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return text(source, nameNode)
}

func importSpecifierText(source []byte, n ts.Node) string {
	strNode := firstNamedChildOfKind(&n, "string")
	if strNode == nil {
		return ""
	}
	frag := firstNamedChildOfKind(strNode, "string_fragment")
	return text(source, frag)
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

func text(source []byte, n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}
