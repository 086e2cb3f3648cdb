package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
	"github.com/torrejon/vecinored/internal/repository/mocks"
)

type controllerStub struct {
	neighbors []neighbor.Neighbor
	loadFn    func(context.Context) error
	createFn  func(context.Context, neighbor.Fields) (*neighbor.Neighbor, error)
	editFn    func(context.Context, string, neighbor.Fields) (*neighbor.Neighbor, error)
	statusFn  func(context.Context, string, neighbor.Status) (*neighbor.Neighbor, error)
	deleteFn  func(context.Context, string) error
}

func (c *controllerStub) Load(ctx context.Context) error { return c.loadFn(ctx) }
func (c *controllerStub) Board() []registry.Bucket      { return registry.GroupByStatus(c.neighbors) }
func (c *controllerStub) List(q registry.ListQuery) []neighbor.Neighbor {
	return registry.FilterList(c.neighbors, q)
}
func (c *controllerStub) Create(ctx context.Context, f neighbor.Fields) (*neighbor.Neighbor, error) {
	return c.createFn(ctx, f)
}
func (c *controllerStub) Edit(ctx context.Context, id string, f neighbor.Fields) (*neighbor.Neighbor, error) {
	if c.editFn == nil {
		return nil, neighbor.ErrNeighborNotFound
	}
	return c.editFn(ctx, id, f)
}
func (c *controllerStub) UpdateStatus(ctx context.Context, id string, s neighbor.Status) (*neighbor.Neighbor, error) {
	return c.statusFn(ctx, id, s)
}
func (c *controllerStub) Delete(ctx context.Context, id string) error { return c.deleteFn(ctx, id) }

type activityStub struct {
	opts activity.ListOptions
}

func (a *activityStub) Recent(_ context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	a.opts = opts
	return []activity.Entry{{ID: 7, NeighborID: "n1", Type: activity.TypeNeighborCreated, Summary: "alta"}}, nil
}

var created = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

func newStub() *controllerStub {
	return &controllerStub{
		neighbors: []neighbor.Neighbor{
			{ID: "n1", Name: "Luis", Address: "Calle Hospital 2", Phone: "600", Status: neighbor.StatusActive, CreatedAt: created},
			{ID: "n2", Name: "Carmen", Address: "Plaza Mayor", Phone: "601", Status: neighbor.StatusNew, CreatedAt: created},
		},
	}
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})
	return cs
}

func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *sdkmcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %s", errorText(res))
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func errorText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestServer_ListsTools(t *testing.T) {
	cs := connect(t, Config{Controller: newStub(), Activity: &activityStub{}})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"list_neighbors", "get_board", "create_neighbor", "update_neighbor",
		"update_status", "delete_neighbor", "reload_neighbors", "recent_activity",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestTools_ListAndBoard(t *testing.T) {
	cs := connect(t, Config{Controller: newStub()})

	list := decode[ListNeighborsResult](t, call(t, cs, "list_neighbors", map[string]any{"query": "plaza"}))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "n2", list.Neighbors[0].ID)
	require.Equal(t, "2024-03-02T09:00:00Z", list.Neighbors[0].CreatedAt)

	board := decode[GetBoardResult](t, call(t, cs, "get_board", map[string]any{}))
	require.Len(t, board.Columns, 3)
	require.Equal(t, "NEW", board.Columns[0].Status)
	require.Equal(t, 1, board.Columns[0].Count)
	require.Equal(t, 1, board.Columns[1].Count)
	require.Equal(t, 0, board.Columns[2].Count)

	res := call(t, cs, "list_neighbors", map[string]any{"sort": "random"})
	require.True(t, res.IsError)
}

func TestTools_CreateNeighbor(t *testing.T) {
	stub := newStub()
	var submitted neighbor.Fields
	stub.createFn = func(_ context.Context, f neighbor.Fields) (*neighbor.Neighbor, error) {
		submitted = f
		return &neighbor.Neighbor{ID: "n3", Name: f.Name, Address: f.Address, Phone: f.Phone,
			Status: neighbor.StatusNew, CreatedAt: created, IntegrationPlan: []string{"Bienvenida"}}, nil
	}
	cs := connect(t, Config{Controller: stub})

	out := decode[NeighborResult](t, call(t, cs, "create_neighbor", map[string]any{
		"name": "  Ana ", "address": "Calle Mayor", "phone": "602",
	}))
	require.Equal(t, "n3", out.Neighbor.ID)
	require.Equal(t, "NEW", out.Neighbor.Status)
	require.Equal(t, []string{"Bienvenida"}, out.Neighbor.IntegrationPlan)
	require.Equal(t, "Ana", submitted.Name)
}

func TestTools_CreateNeighborPlanFailure(t *testing.T) {
	stub := newStub()
	stub.createFn = func(context.Context, neighbor.Fields) (*neighbor.Neighbor, error) {
		return nil, &registry.ActionError{Action: registry.ActionSave, Message: registry.MsgSaveFailed, Err: errors.New("model down")}
	}
	cs := connect(t, Config{Controller: stub})

	res := call(t, cs, "create_neighbor", map[string]any{"name": "Ana", "address": "Calle", "phone": "1"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), registry.MsgSaveFailed)
}

func TestTools_UpdateNeighborUnknownID(t *testing.T) {
	cs := connect(t, Config{Controller: newStub()})

	res := call(t, cs, "update_neighbor", map[string]any{"id": "ghost", "name": "A", "address": "B", "phone": "C"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "NEIGHBOR_NOT_FOUND")
}

func TestTools_UpdateStatus(t *testing.T) {
	stub := newStub()
	stub.statusFn = func(_ context.Context, id string, s neighbor.Status) (*neighbor.Neighbor, error) {
		n := stub.neighbors[0]
		n.Status = s
		return &n, nil
	}
	cs := connect(t, Config{Controller: stub})

	out := decode[NeighborResult](t, call(t, cs, "update_status", map[string]any{"id": "n1", "status": "AWAY"}))
	require.Equal(t, "AWAY", out.Neighbor.Status)

	res := call(t, cs, "update_status", map[string]any{"id": "n1", "status": "ARCHIVED"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "INVALID_STATUS")
}

func TestTools_DeleteAndReload(t *testing.T) {
	stub := newStub()
	stub.deleteFn = func(context.Context, string) error {
		return &registry.ActionError{Action: registry.ActionDelete, Message: registry.MsgDeleteFailed, Err: neighbor.ErrNeighborNotFound}
	}
	stub.loadFn = func(context.Context) error { return nil }
	cs := connect(t, Config{Controller: stub})

	res := call(t, cs, "delete_neighbor", map[string]any{"id": "n9"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), registry.MsgDeleteFailed)

	reload := decode[ReloadNeighborsResult](t, call(t, cs, "reload_neighbors", map[string]any{}))
	require.Equal(t, 2, reload.Count)
}

func TestTools_RecentActivity(t *testing.T) {
	act := &activityStub{}
	cs := connect(t, Config{Controller: newStub(), Activity: act})

	out := decode[RecentActivityResult](t, call(t, cs, "recent_activity", map[string]any{"neighbor_id": "n1", "limit": 5}))
	require.Len(t, out.Entries, 1)
	require.Equal(t, "neighbor_created", out.Entries[0].Type)
	require.Equal(t, 5, act.opts.Limit)
	require.Equal(t, "n1", *act.opts.NeighborID)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Equal(t, "INVALID_INPUT", MapError(neighbor.ErrInvalidInput).Code)
	aerr := &registry.ActionError{Action: registry.ActionStatus, Message: registry.MsgStatusFailed, Err: errors.New("io")}
	mapped := MapError(aerr)
	require.Equal(t, "ACTION_FAILED", mapped.Code)
	require.Equal(t, registry.MsgStatusFailed, mapped.Message)
}

func realController(t *testing.T) (*registry.Controller, *mocks.NeighborRepository, *mocks.PlanGenerator) {
	t.Helper()
	repo := &mocks.NeighborRepository{}
	plans := &mocks.PlanGenerator{}
	repo.On("ListAll", mock.Anything).Return(newStub().neighbors, nil).Once()

	c := registry.NewController(repo, plans, nil)
	require.NoError(t, c.Load(context.Background()))
	return c, repo, plans
}

func TestTools_CreateLeavesOpenEditFormAlone(t *testing.T) {
	c, repo, plans := realController(t)
	plans.On("GenerateWelcomePlan", mock.Anything, "Ana", "Calle Mayor").Return([]string{"Bienvenida"}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d neighbor.Draft) bool { return d.Name == "Ana" })).
		Return(&neighbor.Neighbor{ID: "n3", Name: "Ana", Address: "Calle Mayor", Phone: "602", Status: neighbor.StatusNew, CreatedAt: created}, nil)

	require.True(t, c.OpenEditForm("n1"))
	cs := connect(t, Config{Controller: c})

	out := decode[NeighborResult](t, call(t, cs, "create_neighbor", map[string]any{
		"name": "Ana", "address": "Calle Mayor", "phone": "602",
	}))
	require.Equal(t, "n3", out.Neighbor.ID)

	vs := c.Snapshot()
	require.True(t, vs.FormOpen)
	require.NotNil(t, vs.Editing)
	require.Equal(t, "n1", vs.Editing.ID)
	require.Len(t, vs.Neighbors, 3)
	require.Equal(t, "n3", vs.Neighbors[0].ID)
	require.Equal(t, "Luis", vs.Neighbors[1].Name)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTools_UpdateLeavesOpenCreateFormAlone(t *testing.T) {
	c, repo, plans := realController(t)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(n neighbor.Neighbor) bool { return n.ID == "n2" })).
		Return(&neighbor.Neighbor{ID: "n2", Name: "Carmen Ruiz", Address: "Plaza Mayor", Phone: "601", Status: neighbor.StatusNew, CreatedAt: created}, nil)

	c.OpenCreateForm()
	cs := connect(t, Config{Controller: c})

	out := decode[NeighborResult](t, call(t, cs, "update_neighbor", map[string]any{
		"id": "n2", "name": "Carmen Ruiz", "address": "Plaza Mayor", "phone": "601",
	}))
	require.Equal(t, "Carmen Ruiz", out.Neighbor.Name)

	vs := c.Snapshot()
	require.True(t, vs.FormOpen)
	require.Nil(t, vs.Editing)
	require.Len(t, vs.Neighbors, 2)
	plans.AssertNotCalled(t, "GenerateWelcomePlan", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
