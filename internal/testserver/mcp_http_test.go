package testserver_test

import (
	"encoding/json"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"github.com/torrejon/vecinored/internal/testserver"
)

type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.RoundTrip(req)
}

func connectMCP(t *testing.T, ts *testserver.TestServer, token string) *sdkmcp.ClientSession {
	t.Helper()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, next: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(t.Context(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestMCPOverHTTP_CreateThenBoard(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})
	cs := connectMCP(t, ts, ts.Login(t, "Vecina Admin"))

	res, err := cs.CallTool(t.Context(), &sdkmcp.CallToolParams{
		Name: "create_neighbor",
		Arguments: map[string]any{
			"name":    "Ana García",
			"address": "Calle Mayor 4, 2ºB",
			"phone":   "600111222",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = cs.CallTool(t.Context(), &sdkmcp.CallToolParams{Name: "get_board", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var board struct {
		Columns []struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(data, &board))
	require.Equal(t, "NEW", board.Columns[0].Status)
	require.Equal(t, 1, board.Columns[0].Count)

	// The HTTP API and MCP share one controller.
	require.Len(t, ts.Controller.Snapshot().Neighbors, 1)
}

func TestMCPOverHTTP_DeleteUnknownIsToolError(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})
	cs := connectMCP(t, ts, ts.Login(t, "Vecina Admin"))

	res, err := cs.CallTool(t.Context(), &sdkmcp.CallToolParams{
		Name:      "delete_neighbor",
		Arguments: map[string]any{"id": "ghost"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
}
