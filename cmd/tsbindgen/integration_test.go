package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "tsbindgen-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "tsbindgen")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

func startServer(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "mcp")
	require.NoError(t, err, "failed to start MCP server")

	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "tsbindgen-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "tsbindgen", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}

	assert.Contains(t, toolNames, "generate_bindings")
	assert.Contains(t, toolNames, "detect_features")
}

func TestIntegration_GenerateBindings(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.d.ts"), []byte(`export const x: number;`), 0o644))

	result := callToolHelper(t, c, "generate_bindings", map[string]any{
		"root":    filepath.Join(dir, "a.d.ts"),
		"out_dir": dir,
	})
	assert.False(t, result.IsError)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &payload))
	assert.Equal(t, float64(1), payload["module_count"])

	_, err := os.Stat(payload["json_path"].(string))
	require.NoError(t, err)
}

func TestIntegration_DetectFeatures(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.d.ts"), []byte(`export function f(): boolean;`), 0o644))

	result := callToolHelper(t, c, "detect_features", map[string]any{
		"root": filepath.Join(dir, "a.d.ts"),
	})
	assert.False(t, result.IsError)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &payload))
	names, ok := payload["features"].([]any)
	require.True(t, ok)
	assert.Contains(t, names, "BooleanType")
}
