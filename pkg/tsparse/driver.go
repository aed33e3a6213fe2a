package tsparse

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/tsbindgen/tsbindgen/pkg/util"
)

// Module is the result of loading and parsing one declaration file: its raw
// tree-sitter tree, the source bytes backing it (owned by the file cache,
// never mutated), and the import-hoisted top-level item order.
//
// Loading and import-hoisting run over tree-sitter's CST instead of a
// typed AST: with no typed enum to pattern-match, "hoisting" here means
// recording a stable-partitioned *index* over the root node's named
// children rather than physically reordering an AST.
type Module struct {
	Tree   *ts.Tree
	Source []byte
	// Body is the root node's named children, stably partitioned so every
	// import_statement appears before every other top-level item, each
	// group preserving source order.
	Body []ts.Node
}

// Driver loads and parses TypeScript declaration files.
type Driver struct {
	parsers *ParserManager
	cache   util.FileCache
	logger  *slog.Logger
}

// NewDriver builds a Driver. Pass nil for cache to use a default mmap-backed
// util.FileCache; pass nil for logger to use slog.Default().
func NewDriver(cache util.FileCache, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = util.NewFileCache(util.DefaultFileCacheConfig())
	}
	return &Driver{
		parsers: NewParserManager(logger),
		cache:   cache,
		logger:  logger,
	}
}

// Close releases parser pool resources. The underlying file cache is owned
// by the caller and is not closed here.
func (d *Driver) Close() error {
	return d.parsers.Close()
}

// Load reads filePath, parses it as a TypeScript declaration file, and
// returns its import-hoisted body. The returned Module's Tree must be
// closed by the caller.
func (d *Driver) Load(filePath string) (*Module, error) {
	mapped, err := d.cache.Get(filePath)
	if err != nil {
		return nil, fmt.Errorf("tsparse: read %s: %w", filePath, err)
	}

	source := fileBytes(mapped)
	tree, err := d.parsers.Parse(source, LanguageTypeScript, false)
	if err != nil {
		return nil, fmt.Errorf("tsparse: parse %s: %w", filePath, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		d.logger.Warn("declaration file has syntax errors", "file", filePath)
	}

	return &Module{
		Tree:   tree,
		Source: source,
		Body:   hoistImports(root),
	}, nil
}

// hoistImports stably partitions root's named children into import
// statements first, then everything else, each group in source order.
func hoistImports(root ts.Node) []ts.Node {
	n := root.NamedChildCount()
	body := make([]ts.Node, 0, n)
	rest := make([]ts.Node, 0, n)
	for i := uint(0); i < n; i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "import_statement" {
			body = append(body, *child)
		} else {
			rest = append(rest, *child)
		}
	}
	return append(body, rest...)
}

func fileBytes(mapped *util.MappedFile) []byte {
	if mapped.Data != nil {
		return []byte(mapped.Data)
	}
	return nil
}
