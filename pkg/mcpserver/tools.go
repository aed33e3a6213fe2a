package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// generateBindingsTool describes the generate_bindings tool: run the
// full C4-C10 pipeline over a root .d.ts file and write JSON + JS
// artifacts, returning their paths and the detected feature set.
func generateBindingsTool() mcp.Tool {
	return mcp.NewTool("generate_bindings",
		mcp.WithDescription("Generate JSON and JS bindings for a TypeScript declaration file and its transitive re-export closure"),
		mcp.WithString("root", mcp.Required(), mcp.Description("path to the root .d.ts file")),
		mcp.WithString("out_dir", mcp.Description("output directory, defaults to the root file's directory")),
		mcp.WithString("profile", mcp.Description("target feature profile: num, full, or custom (default full)")),
		mcp.WithString("custom_features", mcp.Description("explicit feature bitset, decimal or 0x-hex, used with profile=custom")),
		mcp.WithString("require_path", mcp.Description("override the JS shim's require() path")),
		mcp.WithString("stem", mcp.Description("override the output artifact basename")),
		mcp.WithBoolean("no_ctor_wrappers", mcp.Description("disable per-constructor JS wrappers")),
		mcp.WithBoolean("no_opaque_interfaces", mcp.Description("emit interfaces as structural records instead of opaque datatypes")),
		mcp.WithBoolean("no_wrap_vars", mcp.Description("disable zero-arg getter wrapping for exported scalar vars")),
		mcp.WithBoolean("json_only", mcp.Description("skip JS shim emission")),
		mcp.WithBoolean("js_only", mcp.Description("skip JSON artifact emission")),
	)
}

// detectFeaturesTool describes the detect_features tool: run the pipeline
// under the ts-full profile (whose gate accepts every detected feature)
// with both artifact writes disabled, and report which TsFeatures bits
// the closure exercises.
func detectFeaturesTool() mcp.Tool {
	return mcp.NewTool("detect_features",
		mcp.WithDescription("Report the TsFeatures bitset a TypeScript declaration file's re-export closure exercises"),
		mcp.WithString("root", mcp.Required(), mcp.Description("path to the root .d.ts file")),
	)
}
