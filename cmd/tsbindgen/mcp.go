package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tsbindgen/tsbindgen/pkg/mcplog"
	"github.com/tsbindgen/tsbindgen/pkg/mcpserver"
)

func runMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	logPath := fs.String("log-file", "", "JSONL audit log path for tool calls (disabled if empty)")
	if err := fs.Parse(args); err != nil {
		fatalf("mcp: %v", err)
	}

	logger, err := mcplog.NewLogger(*logPath)
	if err != nil {
		fatalf("mcp: %v", err)
	}

	srv := mcpserver.NewServer(logger, nil)
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp: server error: %v\n", err)
		os.Exit(1)
	}
}
