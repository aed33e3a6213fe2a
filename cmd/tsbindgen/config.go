package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tsbindgen/tsbindgen/pkg/bindgen"
)

// commonFlags holds the CLI's flag surface, registered by
// bindCommonFlags: a plain struct assembled by stdlib `flag` parsing
// rather than a third-party flag library.
type commonFlags struct {
	root               string
	outDir             string
	requirePath        string
	stem               string
	profile            string
	customFeatures     string
	noCtorWrappers     bool
	noOpaqueInterfaces bool
	noWrapVars         bool
	noJSON             bool
	noJS               bool
	prefetch           bool
	alsoScan           bool
	include            stringList
	exclude            stringList
}

// stringList implements flag.Value to accept a repeatable flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func bindCommonFlags(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.root, "root", "", "path to the root .d.ts file (required)")
	fs.StringVar(&cf.outDir, "out-dir", ".", "output directory (must exist and be writable)")
	fs.StringVar(&cf.requirePath, "require-path", "", "override the JS shim's require() path")
	fs.StringVar(&cf.stem, "stem", "", "override the output artifact basename")
	fs.StringVar(&cf.profile, "profile", "full", "target feature profile: num | full | custom")
	fs.StringVar(&cf.customFeatures, "custom-features", "", "explicit feature bitset (decimal or 0x-hex), used with --profile custom")
	fs.BoolVar(&cf.noCtorWrappers, "no-ctor-wrappers", false, "disable per-constructor JS wrappers")
	fs.BoolVar(&cf.noOpaqueInterfaces, "no-opaque-interfaces", false, "emit interfaces as structural records instead of opaque datatypes")
	fs.BoolVar(&cf.noWrapVars, "no-wrap-vars", false, "disable zero-arg getter wrapping for exported scalar vars")
	fs.BoolVar(&cf.noJSON, "no-json", false, "skip JSON artifact emission")
	fs.BoolVar(&cf.noJS, "no-js", false, "skip JS shim emission")
	fs.BoolVar(&cf.prefetch, "prefetch", false, "pre-warm the file cache with a worker pool before C4's sequential walk")
	fs.BoolVar(&cf.alsoScan, "also-scan", false, "discover and generate bindings for every sibling .d.ts under the root's directory")
	fs.Var(&cf.include, "include", "glob to include under --also-scan (repeatable)")
	fs.Var(&cf.exclude, "exclude", "glob to exclude under --also-scan (repeatable)")
	return cf
}

// toConfig turns parsed flags into a bindgen.Config, applying the
// default (every generation/emission bool on unless negated).
func (cf *commonFlags) toConfig() (bindgen.Config, error) {
	if cf.root == "" {
		return bindgen.Config{}, fmt.Errorf("--root is required")
	}

	cfg := bindgen.DefaultConfig()
	cfg.RootPath = cf.root
	cfg.OutDir = cf.outDir
	cfg.RequirePath = cf.requirePath
	cfg.Stem = cf.stem
	cfg.ConstructorWrappers = !cf.noCtorWrappers
	cfg.OpaqueInterfaces = !cf.noOpaqueInterfaces
	cfg.WrapTopLevelVars = !cf.noWrapVars
	cfg.EmitJSON = !cf.noJSON
	cfg.EmitJS = !cf.noJS
	cfg.Prefetch = cf.prefetch
	cfg.AlsoScan = cf.alsoScan
	cfg.ScanInclude = cf.include
	cfg.ScanExclude = cf.exclude

	switch cf.profile {
	case "num":
		cfg.ProfileKind = bindgen.ProfileNum
	case "full", "":
		cfg.ProfileKind = bindgen.ProfileFull
	case "custom":
		cfg.ProfileKind = bindgen.ProfileCustom
		bits, err := bindgen.ParseCustomFeatures(cf.customFeatures)
		if err != nil {
			return bindgen.Config{}, err
		}
		cfg.CustomFeatures = bits
	default:
		return bindgen.Config{}, fmt.Errorf("unknown --profile %q: want num, full, or custom", cf.profile)
	}

	return cfg, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
