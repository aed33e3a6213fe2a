package bindgen

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverSiblings finds every .d.ts file under rootDir matching cfg's
// include/exclude glob patterns, for the --also-scan batch-generate
// mode: validate patterns, then WalkDir with doublestar matching,
// sorted for deterministic batch order.
func DiscoverSiblings(rootDir string, include, exclude []string) ([]string, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("bindgen: invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("bindgen: invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("bindgen: resolve root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".d.ts") {
			return nil
		}

		if len(include) > 0 {
			matched := false
			for _, pattern := range include {
				if m, _ := doublestar.PathMatch(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// RunBatch runs Run once per discovered sibling declaration file, using
// base as the template for every other field (OutDir, profile, generation
// options); RootPath and Stem/RequirePath defaults are recomputed per
// file. Stops at the first failing file and reports its path.
func RunBatch(base Config, rootDir string) ([]*Result, error) {
	files, err := DiscoverSiblings(rootDir, base.ScanInclude, base.ScanExclude)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(files))
	for _, f := range files {
		cfg := base
		cfg.RootPath = f
		cfg.Stem = ""
		cfg.RequirePath = ""

		result, err := Run(cfg)
		if err != nil {
			return results, fmt.Errorf("bindgen: batch: %s: %w", f, err)
		}
		results = append(results, result)
	}
	return results, nil
}
