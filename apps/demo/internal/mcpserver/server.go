// Package mcpserver exposes a MiniSDK instance over the Model Context
// Protocol so an assistant can drive the demo.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/push"
)

// Server wraps an MCP server exposing the SDK as tools and resources.
type Server struct {
	server *mcp.Server
	sdk    *minisdk.SDK
	bridge *push.Bridge
	store  minisdk.TokenStore
	logger *slog.Logger
}

// New creates a Server for sdk. store must be the TokenStore sdk writes to;
// it backs the status resource.
func New(sdk *minisdk.SDK, store minisdk.TokenStore, version string, logger *slog.Logger) *Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "minisdk-demo",
		Version: version,
	}, nil)

	m := &Server{
		server: s,
		sdk:    sdk,
		bridge: push.NewBridge(sdk, push.WithLogger(logger)),
		store:  store,
		logger: logger,
	}
	m.registerResources()
	m.registerTools()
	return m
}

// Run serves on stdio and blocks until done.
func (m *Server) Run(ctx context.Context) error {
	return m.server.Run(ctx, &mcp.StdioTransport{})
}

// RunWithTransport connects the server to a custom transport (for testing).
func (m *Server) RunWithTransport(ctx context.Context, t mcp.Transport) error {
	_, err := m.server.Connect(ctx, t, nil)
	return err
}

// jsonResult marshals v to JSON and returns it as a text CallToolResult.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

// errorResult returns a CallToolResult with IsError=true.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// jsonResource marshals v as a single JSON resource content.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
