package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

type tools struct {
	controller Controller
	activity   ActivityService
}

func registerTools(server *sdkmcp.Server, t *tools) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_neighbors",
		Description: "List registered neighbors, optionally filtered by text and sorted by name or registration date",
	}, t.listNeighbors)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get the census board: neighbors grouped into the NEW, ACTIVE and AWAY columns",
	}, t.getBoard)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_neighbor",
		Description: "Register a new neighbor. A welcome integration plan is generated first; if that fails nothing is saved",
	}, t.createNeighbor)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_neighbor",
		Description: "Edit the name, address and phone of an existing neighbor. Status, registration date and plan are kept",
	}, t.updateNeighbor)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_status",
		Description: "Move a neighbor to another board column (NEW, ACTIVE or AWAY)",
	}, t.updateStatus)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_neighbor",
		Description: "Remove a neighbor from the census",
	}, t.deleteNeighbor)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload_neighbors",
		Description: "Reload the census from storage, replacing the in-memory collection",
	}, t.reloadNeighbors)

	if t.activity != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "recent_activity",
			Description: "List recent census changes, newest first",
		}, t.recentActivity)
	}
}

func (t *tools) listNeighbors(_ context.Context, _ *sdkmcp.CallToolRequest, in ListNeighborsParams) (*sdkmcp.CallToolResult, ListNeighborsResult, error) {
	q := registry.ListQuery{Text: in.Query, Sort: registry.SortKey(in.Sort)}
	switch q.Sort {
	case registry.SortNone, registry.SortName, registry.SortCreated:
	default:
		return nil, ListNeighborsResult{}, &APIError{Code: "INVALID_INPUT", Message: "sort must be empty, name or created"}
	}
	list := t.controller.List(q)
	return nil, ListNeighborsResult{Neighbors: toNeighborViews(list), Count: len(list)}, nil
}

func (t *tools) getBoard(_ context.Context, _ *sdkmcp.CallToolRequest, _ GetBoardParams) (*sdkmcp.CallToolResult, GetBoardResult, error) {
	return nil, GetBoardResult{Columns: toBoardColumns(t.controller.Board())}, nil
}

func (t *tools) createNeighbor(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateNeighborParams) (*sdkmcp.CallToolResult, NeighborResult, error) {
	fields := neighbor.Fields{Name: in.Name, Address: in.Address, Phone: in.Phone}
	if err := neighbor.ValidateFields(fields); err != nil {
		return nil, NeighborResult{}, MapError(err)
	}

	created, err := t.controller.Create(ctx, fields.Normalize())
	if err != nil {
		return nil, NeighborResult{}, MapError(err)
	}
	return nil, NeighborResult{Neighbor: toNeighborView(*created)}, nil
}

func (t *tools) updateNeighbor(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateNeighborParams) (*sdkmcp.CallToolResult, NeighborResult, error) {
	fields := neighbor.Fields{Name: in.Name, Address: in.Address, Phone: in.Phone}
	if err := neighbor.ValidateFields(fields); err != nil {
		return nil, NeighborResult{}, MapError(err)
	}
	updated, err := t.controller.Edit(ctx, in.ID, fields.Normalize())
	if err != nil {
		return nil, NeighborResult{}, MapError(err)
	}
	return nil, NeighborResult{Neighbor: toNeighborView(*updated)}, nil
}

func (t *tools) updateStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateStatusParams) (*sdkmcp.CallToolResult, NeighborResult, error) {
	status, err := neighbor.ParseStatus(in.Status)
	if err != nil {
		return nil, NeighborResult{}, MapError(err)
	}
	updated, err := t.controller.UpdateStatus(ctx, in.ID, status)
	if err != nil {
		return nil, NeighborResult{}, MapError(err)
	}
	return nil, NeighborResult{Neighbor: toNeighborView(*updated)}, nil
}

func (t *tools) deleteNeighbor(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteNeighborParams) (*sdkmcp.CallToolResult, DeleteNeighborResult, error) {
	if err := t.controller.Delete(ctx, in.ID); err != nil {
		return nil, DeleteNeighborResult{}, MapError(err)
	}
	return nil, DeleteNeighborResult{ID: in.ID, Deleted: true}, nil
}

func (t *tools) reloadNeighbors(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ReloadNeighborsParams) (*sdkmcp.CallToolResult, ReloadNeighborsResult, error) {
	if err := t.controller.Load(ctx); err != nil {
		return nil, ReloadNeighborsResult{}, MapError(err)
	}
	return nil, ReloadNeighborsResult{Count: len(t.controller.List(registry.ListQuery{}))}, nil
}

func (t *tools) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
	opts := activity.ListOptions{Limit: in.Limit}
	if in.NeighborID != "" {
		opts.NeighborID = &in.NeighborID
	}
	entries, err := t.activity.Recent(ctx, opts)
	if err != nil {
		return nil, RecentActivityResult{}, MapError(err)
	}
	return nil, RecentActivityResult{Entries: toActivityViews(entries)}, nil
}
