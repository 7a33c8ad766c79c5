package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/flowforge"
	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, *flowforge.Flow) {
	t.Helper()
	b := dsl.New("tools")
	b.Add("B1").Echo("hello").Line("L1", "B2")
	b.Add("B2").Echo("unused").Param("prefix", "> ")
	loader, err := b.Build()
	require.NoError(t, err)

	flow, err := flowforge.New("", flowforge.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(flow), flow
}

func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	st := s.MCPServer().GetTool(tool)
	require.NotNil(t, st, "tool %s not registered", tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := st.Handler(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_Registered(t *testing.T) {
	s, _ := newServer(t)
	tools := s.MCPServer().ListTools()
	for _, name := range []string{"list_blocks", "get_block", "step_block", "control_block", "get_graph"} {
		assert.Contains(t, tools, name)
	}
}

func TestListBlocks(t *testing.T) {
	s, _ := newServer(t)
	res := call(t, s, "list_blocks", nil)
	require.False(t, res.IsError, text(t, res))

	var out BlocksResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, "tools", out.Name)
	require.Len(t, out.Blocks, 2)
	assert.Equal(t, "B1", out.Blocks[0].ID)
}

func TestStepBlock(t *testing.T) {
	s, _ := newServer(t)

	require.False(t, call(t, s, "step_block", map[string]any{"block_id": "B1"}).IsError)
	res := call(t, s, "step_block", map[string]any{"block_id": "B2"})
	require.False(t, res.IsError, text(t, res))

	var b flowforge.BlockSnapshot
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &b))
	assert.Equal(t, domain.NodeStateDone, b.State)
	assert.Equal(t, "> hello", b.Result)

	res = call(t, s, "step_block", map[string]any{"block_id": "ghost"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unknown block")
}

func TestControlBlock(t *testing.T) {
	s, flow := newServer(t)

	res := call(t, s, "control_block", map[string]any{"block_id": "B1", "action": "stop"})
	require.False(t, res.IsError, text(t, res))
	b, _ := flow.BlockSnapshot("B1")
	assert.Equal(t, domain.NodeStateStopped, b.State)

	res = call(t, s, "control_block", map[string]any{"block_id": "B1", "action": "explode"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "unknown action")
}

func TestGetGraphAndResource(t *testing.T) {
	s, _ := newServer(t)

	res := call(t, s, "get_graph", nil)
	assert.Contains(t, text(t, res), "B1 -->|L1| B2")

	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"`+GraphURI+`"}}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), GraphURI)
	assert.Contains(t, string(raw), `\"name\":\"tools\"`)
}
