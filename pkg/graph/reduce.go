package graph

import (
	"fmt"

	"github.com/tsbindgen/tsbindgen/pkg/bgerr"
	"github.com/tsbindgen/tsbindgen/pkg/canon"
)

// resolutionKind selects which rooted-export lane traverse consults.
type resolutionKind int

const (
	resolveType resolutionKind = iota
	resolveValue
)

type resolution struct {
	path canon.Path
	key  string
	ok   bool
}

type workItem struct {
	path canon.Path
	key  string
}

// Reduce eliminates ambiguous Named edges, rewriting every import and
// export edge so it lands directly on the module where the symbol is
// rooted. Export::All edges are preserved, not flattened. Idempotent:
// re-running Reduce on its own output is a no-op, since every edge is
// already NamedType/NamedValue/All.
func Reduce(g *Graph) (*Graph, error) {
	out := &Graph{
		Nodes:       g.Nodes,
		ExportEdges: make(map[canon.Path][]ExportEdge, len(g.ExportEdges)),
		ImportEdges: make(map[canon.Path][]ImportEdge, len(g.ImportEdges)),
	}

	for path, imports := range g.ImportEdges {
		resolved, err := reduceImports(g, imports)
		if err != nil {
			return nil, fmt.Errorf("graph: %s: %w", path, err)
		}
		out.ImportEdges[path] = resolved
	}

	for path, exports := range g.ExportEdges {
		resolved, err := reduceExports(g, exports)
		if err != nil {
			return nil, fmt.Errorf("graph: %s: %w", path, err)
		}
		out.ExportEdges[path] = resolved
	}

	return out, nil
}

func reduceImports(g *Graph, imports []ImportEdge) ([]ImportEdge, error) {
	var out []ImportEdge
	for _, imp := range imports {
		switch imp.Kind {
		case KindNamedType, KindNamedValue:
			out = append(out, imp)
			continue
		}

		typeRes := traverse(g, imp.Source, imp.SrcKey, resolveType)
		valueRes := traverse(g, imp.Source, imp.SrcKey, resolveValue)

		if !typeRes.ok && !valueRes.ok {
			return nil, &bgerr.Error{Kind: bgerr.Resolution, Module: imp.Source,
				Cause: fmt.Errorf("import %q not resolved", imp.SrcKey)}
		}
		if typeRes.ok {
			out = append(out, ImportEdge{Kind: KindNamedType, Source: typeRes.path, SrcKey: typeRes.key, ModuleKey: imp.ModuleKey})
		}
		if valueRes.ok {
			out = append(out, ImportEdge{Kind: KindNamedValue, Source: valueRes.path, SrcKey: valueRes.key, ModuleKey: imp.ModuleKey})
		}
	}
	return out, nil
}

func reduceExports(g *Graph, exports []ExportEdge) ([]ExportEdge, error) {
	var out []ExportEdge
	for _, exp := range exports {
		switch exp.Kind {
		case KindNamedType, KindNamedValue, KindAll:
			out = append(out, exp)
			continue
		}

		typeRes := traverse(g, exp.Source, exp.SrcKey, resolveType)
		valueRes := traverse(g, exp.Source, exp.SrcKey, resolveValue)

		if !typeRes.ok && !valueRes.ok {
			return nil, &bgerr.Error{Kind: bgerr.Resolution, Module: exp.Source,
				Cause: fmt.Errorf("export %q not resolved", exp.SrcKey)}
		}
		if typeRes.ok {
			out = append(out, ExportEdge{Kind: KindNamedType, Source: typeRes.path, SrcKey: typeRes.key, ExportKey: exp.ExportKey})
		}
		if valueRes.ok {
			out = append(out, ExportEdge{Kind: KindNamedValue, Source: valueRes.path, SrcKey: valueRes.key, ExportKey: exp.ExportKey})
		}
	}
	return out, nil
}

// traverse is the central reducer algorithm: a worklist walk over
// canonical-path/key pairs, following re-export edges with a
// matching export key until a module where the key is actually rooted is
// found. The visited set is keyed on canonical path alone, so two modules
// re-exporting each other's same key terminate without resolving.
//
// The walk is depth-first and explores a module's export edges in source
// order; the first rooted definition reached wins. When several `export *`
// edges could provide the same key, the earliest one in source order is
// therefore the one chosen.
func traverse(g *Graph, start canon.Path, key string, kind resolutionKind) resolution {
	visited := make(map[canon.Path]bool)
	worklist := []workItem{{path: start, key: key}}

	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if visited[item.path] {
			continue
		}
		visited[item.path] = true

		node, ok := g.Nodes[item.path]
		if !ok {
			continue
		}

		switch kind {
		case resolveType:
			if node.IsRootedType(item.key) {
				return resolution{path: item.path, key: item.key, ok: true}
			}
		case resolveValue:
			if node.IsRootedValue(item.key) {
				return resolution{path: item.path, key: item.key, ok: true}
			}
		}

		// Push in reverse so the LIFO worklist pops edges in source order.
		edges := g.ExportEdges[item.path]
		for i := len(edges) - 1; i >= 0; i-- {
			exp := edges[i]
			switch exp.Kind {
			case KindNamedType:
				if kind == resolveType && exp.ExportKey == item.key {
					worklist = append(worklist, workItem{path: exp.Source, key: exp.SrcKey})
				}
			case KindNamedValue:
				if kind == resolveValue && exp.ExportKey == item.key {
					worklist = append(worklist, workItem{path: exp.Source, key: exp.SrcKey})
				}
			case KindNamed:
				if exp.ExportKey == item.key {
					worklist = append(worklist, workItem{path: exp.Source, key: exp.SrcKey})
				}
			case KindAll:
				worklist = append(worklist, workItem{path: exp.Source, key: item.key})
			}
		}
	}

	return resolution{}
}
