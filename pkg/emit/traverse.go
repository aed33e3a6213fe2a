package emit

import (
	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/graph"
	"github.com/tsbindgen/tsbindgen/pkg/typeconv"
)

// JSONEmitterIface is the interface a JSON-document emitter satisfies.
type JSONEmitterIface interface {
	ExportValue(name string, t typeconv.Type) error
	ExportType(name string, t typeconv.Type) error
	Finalize(root canon.Path) ([]byte, error)
}

// JSEmitterIface is the interface a JavaScript-shim emitter satisfies.
type JSEmitterIface interface {
	HandleValue(name string, t typeconv.Type) error
	HandleType(name string, t typeconv.Type) error
	Finalize(root canon.Path, requirePath string) ([]byte, error)
}

// Traverse walks the reduced graph depth-first from root, visiting each
// canonical path at most once; at each node, every rooted export is fed
// to both emitters, then every out-edge's source is enqueued (following
// both NamedType/NamedValue and All). Export order at each node is
// sorted by name for deterministic output over Go's unordered maps; the
// edge lists themselves keep their original source order.
func Traverse(g *graph.Graph, root canon.Path, jsonEmitter JSONEmitterIface, jsEmitter JSEmitterIface) error {
	visited := map[canon.Path]bool{}
	queue := []canon.Path{root}

	for len(queue) > 0 {
		path := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if visited[path] {
			continue
		}
		visited[path] = true

		node, ok := g.Nodes[path]
		if !ok {
			continue
		}

		for _, name := range sortedKeys(node.RootedExportValues) {
			t := node.RootedExportValues[name]
			if err := jsonEmitter.ExportValue(name, t); err != nil {
				return err
			}
			if err := jsEmitter.HandleValue(name, t); err != nil {
				return err
			}
		}

		for _, name := range sortedKeys(node.RootedExportTypes) {
			t := node.RootedExportTypes[name]
			if err := jsonEmitter.ExportType(name, t); err != nil {
				return err
			}
			if err := jsEmitter.HandleType(name, t); err != nil {
				return err
			}
		}

		for _, exp := range g.ExportEdges[path] {
			switch exp.Kind {
			case graph.KindNamedType, graph.KindNamedValue, graph.KindAll:
				if !visited[exp.Source] {
					queue = append(queue, exp.Source)
				}
			}
		}
	}

	return nil
}
