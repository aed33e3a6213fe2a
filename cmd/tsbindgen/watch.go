package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsbindgen/tsbindgen/pkg/bindgen"
)

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cf := bindCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fatalf("watch: %v", err)
	}

	cfg, err := cf.toConfig()
	if err != nil {
		fatalf("watch: %v", err)
	}

	w, err := bindgen.NewWatcher(cfg)
	if err != nil {
		fatalf("watch: %v", err)
	}
	w.OnResult = func(r *bindgen.Result) {
		fmt.Printf("regenerated: %s, %s (%d modules)\n", r.JSONPath, r.JSPath, r.ModuleCount)
	}
	w.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "watch: regeneration failed: %v\n", err)
	}

	if err := w.Start(); err != nil {
		fatalf("watch: %v", err)
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
