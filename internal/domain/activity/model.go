package activity

import "time"

// Type represents the kind of neighbor mutation recorded
type Type string

const (
	TypeNeighborCreated Type = "neighbor_created"
	TypeNeighborUpdated Type = "neighbor_updated"
	TypeStatusChanged   Type = "status_changed"
	TypeNeighborDeleted Type = "neighbor_deleted"
)

// Entry represents an event in the activity log
type Entry struct {
	ID         int64     `json:"id"`
	NeighborID string    `json:"neighbor_id"`
	Type       Type      `json:"type"`
	Summary    string    `json:"summary"`
	Details    string    `json:"details,omitempty"` // JSON string
	CreatedAt  time.Time `json:"created_at"`
}
