// Package modcache implements the module cache (C4): the depth-first
// reachability closure of every declaration file reachable from a root,
// each parsed exactly once and never touched by I/O again afterward.
package modcache

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/resolve"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

// Data is one module's parsed form plus its resolved dependency map: for
// every textual specifier appearing in an import or re-export, the
// canonical path it resolves to.
type Data struct {
	Path         canon.Path
	Module       *tsparse.Module
	Dependencies map[string]canon.Path
}

// Cache is the reachability closure of every declaration file reachable
// from Root, keyed by canonical path. Invariant: for every module m in
// the cache and every specifier s in m.Dependencies, Dependencies[s] is
// itself a key of the cache.
//
// Backed by an LRU store with a fixed capacity of 4096 entries (see
// Build), the same "build once, bounded, read many" shape as a
// module-scoped symbol table.
type Cache struct {
	Root    canon.Path
	entries *lru.Cache[canon.Path, *Data]
}

// workItem is one entry on C4's work-stack: the canonical path to process.
// It does not record which specifier or span referenced the path.
type workItem struct {
	path canon.Path
}

// Build performs the depth-first closure walk from rootPath.
func Build(rootPath string, driver *tsparse.Driver, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	root, err := canon.New(rootPath)
	if err != nil {
		return nil, fmt.Errorf("modcache: root: %w", err)
	}

	// A closure of N reachable modules never needs more than N cache slots;
	// 4096 is a generous ceiling chosen so typical dependency trees never
	// evict, matching the indexer's "effectively unbounded" sizing.
	entries, err := lru.New[canon.Path, *Data](4096)
	if err != nil {
		return nil, fmt.Errorf("modcache: %w", err)
	}

	c := &Cache{Root: root, entries: entries}

	stack := []workItem{{path: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := c.entries.Get(item.path); ok {
			continue
		}

		mod, err := driver.Load(item.path.String())
		if err != nil {
			return nil, fmt.Errorf("modcache: %s: %w", item.path, err)
		}

		specifiers, err := scanDeclarations(item.path, mod)
		if err != nil {
			return nil, fmt.Errorf("modcache: %s: %w", item.path, err)
		}

		deps := make(map[string]canon.Path, len(specifiers))
		for _, spec := range specifiers {
			depPath, err := resolve.Dependency(item.path, spec)
			if err != nil {
				return nil, fmt.Errorf("modcache: %s: %w", item.path, err)
			}
			deps[spec] = depPath
			stack = append(stack, workItem{path: depPath})
		}

		c.entries.Add(item.path, &Data{Path: item.path, Module: mod, Dependencies: deps})
		logger.Debug("modcache: loaded module", "path", item.path.String(), "deps", len(deps))
	}

	logger.Info("modcache: closure built", "root", root.String(), "modules", c.entries.Len())
	return c, nil
}

// Get returns the cached data for p, or false if p is not reachable.
func (c *Cache) Get(p canon.Path) (*Data, bool) {
	return c.entries.Get(p)
}

// Paths returns every canonical path in the cache, in no particular order.
func (c *Cache) Paths() []canon.Path {
	return c.entries.Keys()
}

// Len returns the number of modules in the closure.
func (c *Cache) Len() int {
	return c.entries.Len()
}
