package mcp

import (
	"time"

	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
)

type ListNeighborsParams struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive text matched against name, address and phone"`
	Sort  string `json:"sort,omitempty" jsonschema:"empty for insertion order, name, or created (newest first)"`
}

type GetBoardParams struct{}

type CreateNeighborParams struct {
	Name    string `json:"name" jsonschema:"full name of the neighbor"`
	Address string `json:"address" jsonschema:"street address in Torrejón"`
	Phone   string `json:"phone" jsonschema:"contact phone"`
}

type UpdateNeighborParams struct {
	ID      string `json:"id" jsonschema:"neighbor ID"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateStatusParams struct {
	ID     string `json:"id" jsonschema:"neighbor ID"`
	Status string `json:"status" jsonschema:"NEW, ACTIVE or AWAY"`
}

type DeleteNeighborParams struct {
	ID string `json:"id" jsonschema:"neighbor ID"`
}

type ReloadNeighborsParams struct{}

type RecentActivityParams struct {
	NeighborID string `json:"neighbor_id,omitempty" jsonschema:"restrict to one neighbor"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of entries, default 50"`
}

// NeighborView is the wire form of a neighbor. Timestamps are RFC3339.
type NeighborView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Phone           string   `json:"phone"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
	IntegrationPlan []string `json:"integration_plan,omitempty"`
}

type ListNeighborsResult struct {
	Neighbors []NeighborView `json:"neighbors"`
	Count     int            `json:"count"`
}

type BoardColumn struct {
	Status    string         `json:"status"`
	Label     string         `json:"label"`
	Icon      string         `json:"icon"`
	Count     int            `json:"count"`
	Neighbors []NeighborView `json:"neighbors"`
}

type GetBoardResult struct {
	Columns []BoardColumn `json:"columns"`
}

type NeighborResult struct {
	Neighbor NeighborView `json:"neighbor"`
}

type DeleteNeighborResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ReloadNeighborsResult struct {
	Count int `json:"count"`
}

type ActivityView struct {
	ID         int64  `json:"id"`
	NeighborID string `json:"neighbor_id"`
	Type       string `json:"type"`
	Summary    string `json:"summary"`
	CreatedAt  string `json:"created_at"`
}

type RecentActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

func toNeighborView(n neighbor.Neighbor) NeighborView {
	return NeighborView{
		ID:              n.ID,
		Name:            n.Name,
		Address:         n.Address,
		Phone:           n.Phone,
		Status:          string(n.Status),
		CreatedAt:       n.CreatedAt.UTC().Format(time.RFC3339),
		IntegrationPlan: n.IntegrationPlan,
	}
}

func toNeighborViews(list []neighbor.Neighbor) []NeighborView {
	views := make([]NeighborView, 0, len(list))
	for _, n := range list {
		views = append(views, toNeighborView(n))
	}
	return views
}

func toBoardColumns(buckets []registry.Bucket) []BoardColumn {
	cols := make([]BoardColumn, 0, len(buckets))
	for _, b := range buckets {
		cols = append(cols, BoardColumn{
			Status:    string(b.Status),
			Label:     b.Label,
			Icon:      b.Icon,
			Count:     b.Count,
			Neighbors: toNeighborViews(b.Neighbors),
		})
	}
	return cols
}

func toActivityViews(entries []activity.Entry) []ActivityView {
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ActivityView{
			ID:         e.ID,
			NeighborID: e.NeighborID,
			Type:       string(e.Type),
			Summary:    e.Summary,
			CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return views
}
