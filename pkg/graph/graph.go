// Package graph implements the unresolved export/import graph assembly
// (C7) and the graph reducer (C8): rewriting transitive re-exports into
// direct edges onto the module where each symbol is actually rooted.
package graph

import (
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// EdgeKind tags an import or export edge's resolution state. Named is the
// ambiguous form produced by C7; NamedType/NamedValue are the disjoint
// forms C8 resolves it into. All only ever appears on export edges.
type EdgeKind int

const (
	KindNamed EdgeKind = iota
	KindNamedType
	KindNamedValue
	KindAll
)

// ImportEdge is one named import into a module, before or after C8.
type ImportEdge struct {
	Kind      EdgeKind
	Source    canon.Path
	SrcKey    string
	ModuleKey string // the local alias the import is bound to
}

// ExportEdge is one export statement's edge, before or after C8.
type ExportEdge struct {
	Kind      EdgeKind
	Source    canon.Path // the module the edge points at; always set
	SrcKey    string
	ExportKey string
}

// Node is a module's rooted surface: every locally-defined, exported
// symbol and its constructed Type, keyed by declared name. Never holds
// re-exports — those live only on the edge lists.
type Node struct {
	Path               canon.Path
	RootedExportTypes  map[string]typeconv.Type
	RootedExportValues map[string]typeconv.Type
}

func newNode(path canon.Path) *Node {
	return &Node{
		Path:               path,
		RootedExportTypes:  make(map[string]typeconv.Type),
		RootedExportValues: make(map[string]typeconv.Type),
	}
}

// IsRootedType reports whether key is a locally rooted exported type.
func (n *Node) IsRootedType(key string) bool {
	_, ok := n.RootedExportTypes[key]
	return ok
}

// IsRootedValue reports whether key is a locally rooted exported value.
func (n *Node) IsRootedValue(key string) bool {
	_, ok := n.RootedExportValues[key]
	return ok
}

// Graph is the full module graph: nodes plus ordered edge lists.
// ORDER OF EXPORTS AND IMPORTS MATTERS — both lists preserve AST source
// order.
type Graph struct {
	Nodes       map[canon.Path]*Node
	ExportEdges map[canon.Path][]ExportEdge
	ImportEdges map[canon.Path][]ImportEdge
}

func newGraph() *Graph {
	return &Graph{
		Nodes:       make(map[canon.Path]*Node),
		ExportEdges: make(map[canon.Path][]ExportEdge),
		ImportEdges: make(map[canon.Path][]ImportEdge),
	}
}
