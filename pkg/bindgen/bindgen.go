package bindgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
	"github.com/tsbindgen/tsbindgen/pkg/emit"
	"github.com/tsbindgen/tsbindgen/pkg/features"
	"github.com/tsbindgen/tsbindgen/pkg/graph"
	"github.com/tsbindgen/tsbindgen/pkg/modcache"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

// Result is what one Run produces: the output file paths actually
// written and the feature set the input was found to use.
type Result struct {
	Root        canon.Path
	JSONPath    string
	JSPath      string
	Detected    features.Set
	ModuleCount int
}

// Run sequences C4→C5+C6→C7→C8→C9→C10 for one root module: any fatal
// error short-circuits immediately. Logging is one Info line per phase
// transition, Debug for per-item detail left to the phases themselves.
func Run(cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Prefetch {
		if err := prefetch(cfg.RootPath, logger); err != nil {
			logger.Warn("bindgen: prefetch failed, continuing sequentially", "error", err)
		}
	}

	driver := tsparse.NewDriver(nil, logger)
	defer driver.Close()

	logger.Info("bindgen: phase start", "phase", "C4")
	cache, err := modcache.Build(cfg.RootPath, driver, logger)
	if err != nil {
		return nil, fmt.Errorf("bindgen: %w", err)
	}
	logger.Info("bindgen: phase done", "phase", "C4", "modules", cache.Len())

	logger.Info("bindgen: phase start", "phase", "C5-C7")
	g, err := graph.Assemble(cache)
	if err != nil {
		return nil, fmt.Errorf("bindgen: %w", err)
	}
	logger.Info("bindgen: phase done", "phase", "C7")

	logger.Info("bindgen: phase start", "phase", "C8")
	reduced, err := graph.Reduce(g)
	if err != nil {
		return nil, fmt.Errorf("bindgen: %w", err)
	}
	logger.Info("bindgen: phase done", "phase", "C8")

	logger.Info("bindgen: phase start", "phase", "C9")
	detected := features.Detect(reduced)
	target := cfg.Profile()
	if err := features.Gate(detected, target); err != nil {
		return nil, fmt.Errorf("bindgen: %w", err)
	}
	logger.Info("bindgen: phase done", "phase", "C9", "detected", detected.Names())

	logger.Info("bindgen: phase start", "phase", "C10")
	result, err := emitArtifacts(cfg, cache.Root, reduced, target, detected, logger)
	if err != nil {
		return nil, fmt.Errorf("bindgen: %w", err)
	}
	result.ModuleCount = cache.Len()
	logger.Info("bindgen: phase done", "phase", "C10", "json", result.JSONPath, "js", result.JSPath)

	return result, nil
}

func emitArtifacts(cfg Config, root canon.Path, g *graph.Graph, target features.Profile, detected features.Set, logger *slog.Logger) (*Result, error) {
	jsonEmitter := emit.NewJSONEmitter(cfg.OpaqueInterfaces)
	jsEmitter := emit.NewJSEmitter(emit.JSOptions{
		ConstructorWrappers: cfg.ConstructorWrappers,
		WrapTopLevelVars:    cfg.WrapTopLevelVars,
		NumericBridge:       target.Name == string(ProfileNum),
	})

	if err := emit.Traverse(g, root, jsonEmitter, jsEmitter); err != nil {
		return nil, err
	}

	result := &Result{Root: root, Detected: detected}
	stem := cfg.stem()

	if cfg.EmitJSON {
		b, err := jsonEmitter.Finalize(root)
		if err != nil {
			return nil, fmt.Errorf("json emission: %w", err)
		}
		path := filepath.Join(cfg.OutDir, stem+".arr.json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		result.JSONPath = path
	}

	if cfg.EmitJS {
		b, err := jsEmitter.Finalize(root, cfg.requirePath())
		if err != nil {
			return nil, fmt.Errorf("js emission: %w", err)
		}
		path := filepath.Join(cfg.OutDir, stem+".arr.js")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		result.JSPath = path
	}

	logger.Debug("bindgen: emission complete", "stem", stem)
	return result, nil
}
