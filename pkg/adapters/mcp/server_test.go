package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/delta/internal/demo"
	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	a, err := demo.AB1()
	require.NoError(t, err)
	return NewServer(a, opts...)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestCheck_AcceptAndStore(t *testing.T) {
	store := memory.NewStore()
	s := newTestServer(t, WithStore(store))

	run, err := s.handleCheck(context.Background(), callRequest("check", nil), CheckArgs{Input: "ab111ba"})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, demo.AB1Name, run.Automaton)
	assert.Equal(t, domain.Accept, run.Result.Verdict)
	assert.Equal(t, domain.StateID(4), run.Result.Final)
	assert.Len(t, run.Result.Trace, 7)

	stored, err := store.Load(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, "ab111ba", stored.Input)
}

func TestCheck_Reject(t *testing.T) {
	s := newTestServer(t)

	run, err := s.handleCheck(context.Background(), callRequest("check", nil), CheckArgs{Input: "1"})
	require.NoError(t, err)

	assert.Equal(t, domain.Reject, run.Result.Verdict)
	require.Len(t, run.Result.Trace, 1)
	assert.Equal(t, domain.OutcomeNoTransition, run.Result.Trace[0].Outcome)
}

func TestCheck_StructuredHandler(t *testing.T) {
	s := newTestServer(t)
	handler := mcp.NewStructuredToolHandler(s.handleCheck)

	res, err := handler(context.Background(), callRequest("check", map[string]any{"input": "ab"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &run))
	assert.Equal(t, domain.Accept, run.Result.Verdict)
	assert.Equal(t, 2, run.Result.Consumed)
}

func TestCheck_InputTooLarge(t *testing.T) {
	store := memory.NewStore()
	s := newTestServer(t, WithStore(store), WithMaxInputSize(3))

	_, err := s.handleCheck(context.Background(), callRequest("check", nil), CheckArgs{Input: "abab"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input rejected")

	res, err := mcp.NewStructuredToolHandler(s.handleCheck)(context.Background(),
		callRequest("check", map[string]any{"input": "abab"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "rejected input must not be stored")
}

func TestCheck_InvalidUTF8(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleCheck(context.Background(), callRequest("check", nil), CheckArgs{Input: "a\xffb"})
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	s := newTestServer(t)

	table, err := s.handleTable(context.Background(), callRequest("table", nil), struct{}{})
	require.NoError(t, err)

	assert.Equal(t, demo.AB1Name, table.Name)
	assert.Equal(t, domain.StateID(1), table.Start)
	assert.Len(t, table.States, 6)
	assert.Len(t, table.Sigma, 3)
}

func TestGraph(t *testing.T) {
	s := newTestServer(t)

	plain, err := s.handleGraph(context.Background(), callRequest("graph", nil), GraphArgs{})
	require.NoError(t, err)
	assert.Contains(t, plain.Mermaid, "graph LR")
	assert.NotContains(t, plain.Mermaid, "classDef")

	in := "ab"
	overlay, err := s.handleGraph(context.Background(), callRequest("graph", nil), GraphArgs{Input: &in})
	require.NoError(t, err)
	assert.Contains(t, overlay.Mermaid, "class q5 current;")

	bad := "a\xff"
	_, err = s.handleGraph(context.Background(), callRequest("graph", nil), GraphArgs{Input: &bad})
	assert.Error(t, err)
}

func TestReadTableResource(t *testing.T) {
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = TableURI
	contents, err := s.readTable(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var table domain.Table
	require.NoError(t, json.Unmarshal([]byte(text.Text), &table))
	assert.Equal(t, demo.AB1Name, table.Name)
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)

	msg := s.mcpServer.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"check", "table", "graph"}, names)
}
