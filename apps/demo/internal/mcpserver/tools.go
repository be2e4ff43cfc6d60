package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/slush-dev/minisdk"
	"github.com/slush-dev/minisdk/push"
)

func (m *Server) registerTools() {
	m.server.AddTool(initializeTool(), m.handleInitialize)
	m.server.AddTool(trackEventTool(), m.handleTrackEvent)
	m.server.AddTool(sendPushTokenTool(), m.handleSendPushToken)
	m.server.AddTool(simulatePushTool(), m.handleSimulatePush)
}

// decodeArgs unmarshals tool arguments into v. Missing arguments leave v
// untouched.
func decodeArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

// awaited waits for op and reports success.
func awaited(ctx context.Context, op *minisdk.Op, result map[string]any) (*mcp.CallToolResult, error) {
	if err := op.Wait(ctx); err != nil {
		return errorResult(fmt.Sprintf("waiting for sdk: %v", err)), nil
	}
	return jsonResult(result)
}

func initializeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "initialize",
		Description: "Initialize (or reinitialize) the SDK with an API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"api_key": {"type": "string", "description": "API key to configure"},
				"base64_encoding": {"type": "boolean", "description": "Log push tokens base64-encoded (default: false)"}
			},
			"required": ["api_key"]
		}`),
	}
}

func (m *Server) handleInitialize(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		APIKey         string `json:"api_key"`
		Base64Encoding bool   `json:"base64_encoding"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	op := m.sdk.Initialize(args.APIKey, args.Base64Encoding)
	return awaited(ctx, op, map[string]any{"initialized": true})
}

func trackEventTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "track_event",
		Description: "Track a named event with an optional JSON object payload.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Event name, e.g. button_clicked"},
				"payload": {"type": "object", "description": "Optional event payload"}
			},
			"required": ["name"]
		}`),
	}
}

func (m *Server) handleTrackEvent(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Name    string         `json:"name"`
		Payload map[string]any `json:"payload"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	op := m.sdk.TrackEvent(args.Name, args.Payload)
	return awaited(ctx, op, map[string]any{"tracked": args.Name})
}

func sendPushTokenTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "send_push_token",
		Description: "Store and report a push registration token.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"token": {"type": "string", "description": "Push registration token"}
			},
			"required": ["token"]
		}`),
	}
}

func (m *Server) handleSendPushToken(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Token string `json:"token"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Token == "" {
		return errorResult("token is required"), nil
	}
	return awaited(ctx, m.bridge.HandleToken(args.Token), map[string]any{"sent": true})
}

func simulatePushTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "simulate_push",
		Description: "Feed a push notification through the SDK as if it had been delivered (and optionally opened).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"data": {"type": "object", "description": "Notification data payload"},
				"opened": {"type": "boolean", "description": "Also track the notification as opened (default: false)"}
			}
		}`),
	}
}

func (m *Server) handleSimulatePush(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Data   json.RawMessage `json:"data"`
		Opened bool            `json:"opened"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	raw := args.Data
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	n, err := push.ParseDataMessage(raw, nil)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	ops := []*minisdk.Op{m.bridge.Presented(n)}
	if args.Opened {
		ops = append(ops, m.bridge.Opened(n))
	}
	if err := minisdk.WaitAll(ctx, ops...); err != nil {
		return errorResult(fmt.Sprintf("waiting for sdk: %v", err)), nil
	}
	return jsonResult(map[string]any{"id": n.ID, "opened": args.Opened})
}
