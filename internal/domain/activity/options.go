package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	NeighborID *string
	Type       *Type
	Limit      int
	Offset     int
}
