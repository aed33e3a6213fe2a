package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/tsbindgen/tsbindgen/pkg/bindgen"
)

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cf := bindCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fatalf("generate: %v", err)
	}

	cfg, err := cf.toConfig()
	if err != nil {
		fatalf("generate: %v", err)
	}

	if cf.alsoScan {
		results, err := bindgen.RunBatch(cfg, filepath.Dir(cfg.RootPath))
		if err != nil {
			fatalf("generate: %v", err)
		}
		for _, r := range results {
			fmt.Printf("%s -> %s, %s (%d modules)\n", r.Root.String(), r.JSONPath, r.JSPath, r.ModuleCount)
		}
		return
	}

	result, err := bindgen.Run(cfg)
	if err != nil {
		fatalf("generate: %v", err)
	}
	fmt.Printf("%s -> %s, %s (%d modules)\n", result.Root.String(), result.JSONPath, result.JSPath, result.ModuleCount)
	fmt.Printf("features: %v\n", result.Detected.Names())
}
