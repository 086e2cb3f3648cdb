package neighbor

import (
	"context"

	"github.com/torrejon/vecinored/internal/domain/activity"
)

// Store provides persistence for neighbors.
type Store interface {
	Create(ctx context.Context, n *Neighbor) error
	Get(ctx context.Context, id string) (*Neighbor, error)
	Update(ctx context.Context, n *Neighbor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Neighbor, error)
}

// ActivityRepository logs neighbor mutations.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
