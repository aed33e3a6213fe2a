package main

import (
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate":
		runGenerate(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "mcp":
		runMCP(os.Args[2:])
	case "version":
		fmt.Printf("tsbindgen %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: tsbindgen <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate   Generate JSON + JS bindings from a .d.ts root")
	fmt.Println("  watch      Regenerate bindings on every source change")
	fmt.Println("  mcp        Start the MCP server")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
