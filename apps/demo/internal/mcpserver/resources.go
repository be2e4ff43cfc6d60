package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const statusURI = "minisdk://status"

func (m *Server) registerResources() {
	m.server.AddResource(&mcp.Resource{
		URI:         statusURI,
		Name:        "SDK Status",
		Description: "Current SDK configuration and stored push token",
		MIMEType:    "application/json",
	}, m.handleStatusResource)
}

func (m *Server) handleStatusResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cfg, err := m.sdk.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sdk config: %w", err)
	}
	status := map[string]any{
		"initialized":     cfg.Initialized,
		"api_key":         cfg.APIKey,
		"base64_encoding": cfg.Base64Encoding,
	}
	if token, ok := m.store.Token(); ok {
		status["push_token"] = token
	}
	return jsonResource(req.Params.URI, status)
}
