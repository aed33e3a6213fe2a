package modcache

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tsbindgen/tsbindgen/pkg/bgerr"
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

// scanDeclarations walks a module's hoisted top-level items and returns
// every textual module specifier used by an import or re-export, in
// source order. Fails fast on unsupported top-level constructs: default
// export/import, namespace import/export, `import =`, `export =`.
func scanDeclarations(path canon.Path, mod *tsparse.Module) ([]string, error) {
	var specifiers []string

	for _, item := range mod.Body {
		switch item.Kind() {
		case "import_statement":
			spec, err := checkImport(path, mod.Source, item)
			if err != nil {
				return nil, err
			}
			if spec != "" {
				specifiers = append(specifiers, spec)
			}

		case "import_alias":
			return nil, bgerr.Unsupportedf(path, spanOf(item), "ImportEquals", "import = is unsupported")

		case "export_statement":
			specs, err := checkExport(path, mod.Source, item)
			if err != nil {
				return nil, err
			}
			specifiers = append(specifiers, specs...)
		}
	}

	return specifiers, nil
}

func spanOf(n ts.Node) bgerr.Span {
	return bgerr.Span{Start: uint32(n.StartByte()), End: uint32(n.EndByte())}
}

func sourceText(source []byte, n *ts.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

// checkImport rejects default/namespace imports and returns the import's
// module specifier (empty if the import has no source, which does not
// occur for relative-only resolution but is handled defensively).
func checkImport(path canon.Path, source []byte, n ts.Node) (string, error) {
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import_clause":
			if hasDefaultOrNamespace(child) {
				return "", bgerr.Unsupportedf(path, spanOf(n), "NamespaceOrDefaultImport", "default and namespace imports are unsupported")
			}
		case "string":
			frag := firstNamedChildOfKind(child, "string_fragment")
			return sourceText(source, frag), nil
		}
	}
	return "", nil
}

// hasDefaultOrNamespace reports whether an import_clause has a bare
// identifier (default import) or a namespace_import child.
func hasDefaultOrNamespace(clause *ts.Node) bool {
	count := clause.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "namespace_import":
			return true
		}
	}
	return false
}

// checkExport classifies an export_statement and returns any source
// specifiers it references (re-exports / export-all). Rejects default
// exports, namespace exports ("export * as ns from ..."), and
// `export =` / TS namespace exports (ambient_declaration / module
// declarations surfaced as exports).
func checkExport(path canon.Path, source []byte, n ts.Node) ([]string, error) {
	var specifiers []string

	if hasToken(n, "default") {
		return nil, bgerr.Unsupportedf(path, spanOf(n), "DefaultExport", "default exports are unsupported")
	}
	if hasToken(n, "=") {
		return nil, bgerr.Unsupportedf(path, spanOf(n), "ExportAssignment", "export = is unsupported")
	}

	count := n.NamedChildCount()
	var src string
	hasSource := false
	hasDeclaration := false
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "namespace_export":
			return nil, bgerr.Unsupportedf(path, spanOf(n), "NamespaceExport", "export * as ns is unsupported")
		case "string":
			hasSource = true
			frag := firstNamedChildOfKind(child, "string_fragment")
			src = sourceText(source, frag)
		case "class_declaration", "function_declaration", "interface_declaration",
			"type_alias_declaration", "enum_declaration", "lexical_declaration", "variable_declaration":
			hasDeclaration = true
		case "internal_module", "module_declaration", "ambient_declaration":
			return nil, bgerr.Unsupportedf(path, spanOf(n), "NamespaceDeclaration", "TypeScript namespace exports are unsupported")
		}
	}

	if hasSource && !hasDeclaration {
		specifiers = append(specifiers, src)
	}

	return specifiers, nil
}

func hasToken(n ts.Node, token string) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == token {
			return true
		}
	}
	return false
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
