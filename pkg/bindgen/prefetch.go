package bindgen

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tsbindgen/tsbindgen/pkg/util"
)

// prefetch concurrently pre-warms the mmap file cache for every .d.ts
// file under root's directory tree, sized the same way
// util.GetOptimalPoolSize sizes the parser/worker pools elsewhere in
// this codebase. This is the one place concurrency touches this repo's
// file I/O: C4's own closure walk must stay single-threaded and
// sequential, so the actual Build call below never sees this pool — it
// only benefits from pages already being resident once the walk's
// synchronous reads happen.
func prefetch(rootPath string, logger *slog.Logger) error {
	dir := filepath.Dir(rootPath)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || (d.Name() != "." && d.Name()[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".d.ts") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache := util.NewFileCache(util.DefaultFileCacheConfig())
	defer cache.Close()

	poolSize := util.GetOptimalPoolSizeWithOverride(0)
	sem := make(chan struct{}, poolSize)
	var wg sync.WaitGroup

	for _, f := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := cache.Get(path); err != nil {
				logger.Debug("bindgen: prefetch skipped file", "path", path, "error", err)
			}
		}(f)
	}
	wg.Wait()

	logger.Info("bindgen: prefetch complete", "files", len(files), "workers", poolSize)
	return nil
}
