package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tsbindgen/tsbindgen/pkg/bindgen"
)

func (s *Server) handleGenerateBindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := bindgen.DefaultConfig()
	cfg.RootPath = root
	cfg.OutDir = req.GetString("out_dir", "")
	cfg.RequirePath = req.GetString("require_path", "")
	cfg.Stem = req.GetString("stem", "")
	cfg.Logger = s.slogger

	if cfg.OutDir == "" {
		cfg.OutDir = filepath.Dir(root)
	}

	switch profile := req.GetString("profile", "full"); profile {
	case "num":
		cfg.ProfileKind = bindgen.ProfileNum
	case "full", "":
		cfg.ProfileKind = bindgen.ProfileFull
	case "custom":
		cfg.ProfileKind = bindgen.ProfileCustom
		bits, err := bindgen.ParseCustomFeatures(req.GetString("custom_features", "0"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		cfg.CustomFeatures = bits
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown profile %q: want num, full, or custom", profile)), nil
	}

	cfg.ConstructorWrappers = !req.GetBool("no_ctor_wrappers", false)
	cfg.OpaqueInterfaces = !req.GetBool("no_opaque_interfaces", false)
	cfg.WrapTopLevelVars = !req.GetBool("no_wrap_vars", false)
	cfg.EmitJS = !req.GetBool("json_only", false)
	cfg.EmitJSON = !req.GetBool("js_only", false)

	result, err := bindgen.Run(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{
		"root":         result.Root.String(),
		"json_path":    result.JSONPath,
		"js_path":      result.JSPath,
		"module_count": result.ModuleCount,
		"features":     result.Detected.Names(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleDetectFeatures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := bindgen.DefaultConfig()
	cfg.RootPath = root
	cfg.OutDir = "."
	cfg.EmitJSON = false
	cfg.EmitJS = false
	cfg.Logger = s.slogger

	result, err := bindgen.Run(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := json.Marshal(map[string]any{
		"root":         result.Root.String(),
		"module_count": result.ModuleCount,
		"features":     result.Detected.Names(),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
