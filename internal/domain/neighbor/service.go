package neighbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/repository"
)

// Service is the record repository behind the view-state controller.
// It assigns identity and creation time and keeps the activity log.
type Service struct {
	store      Store
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new neighbor service.
func NewService(store Store, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// ListAll returns every neighbor, most recently created first.
func (s *Service) ListAll(ctx context.Context) ([]Neighbor, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing neighbors: %w", err)
	}
	return list, nil
}

// Get returns a neighbor by ID.
func (s *Service) Get(ctx context.Context, id string) (*Neighbor, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNeighborNotFound
		}
		return nil, fmt.Errorf("getting neighbor: %w", err)
	}
	return n, nil
}

// Create registers a new neighbor with status NEW.
func (s *Service) Create(ctx context.Context, draft Draft) (*Neighbor, error) {
	if err := ValidateFields(draft.Fields); err != nil {
		return nil, err
	}
	fields := draft.Fields.Normalize()

	n := &Neighbor{
		ID:        uuid.NewString(),
		Name:      fields.Name,
		Address:   fields.Address,
		Phone:     fields.Phone,
		Status:    StatusNew,
		CreatedAt: s.now().UTC(),
	}
	if len(draft.IntegrationPlan) > 0 {
		n.IntegrationPlan = append([]string(nil), draft.IntegrationPlan...)
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating neighbor: %w", err)
	}

	s.logActivity(ctx, n.ID, activity.TypeNeighborCreated, fmt.Sprintf("registered %s", n.Name))
	return n, nil
}

// Update applies the editable fields of n onto the stored neighbor.
// Status, creation time and integration plan are kept from storage.
func (s *Service) Update(ctx context.Context, n Neighbor) (*Neighbor, error) {
	if n.ID == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateFields(n.Fields()); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, n.ID)
	if err != nil {
		return nil, err
	}

	updated := current.WithFields(n.Fields().Normalize())
	if err := s.store.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNeighborNotFound
		}
		return nil, fmt.Errorf("updating neighbor: %w", err)
	}

	s.logActivity(ctx, updated.ID, activity.TypeNeighborUpdated, fmt.Sprintf("updated %s", updated.Name))
	return &updated, nil
}

// UpdateStatus moves a neighbor to another census category.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Neighbor, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	from := updated.Status
	updated.Status = status
	if err := s.store.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNeighborNotFound
		}
		return nil, fmt.Errorf("updating neighbor status: %w", err)
	}

	s.logActivity(ctx, id, activity.TypeStatusChanged, fmt.Sprintf("%s -> %s", from, status))
	return &updated, nil
}

// Delete removes a neighbor. Deleting an absent id fails with ErrNeighborNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNeighborNotFound
		}
		return fmt.Errorf("deleting neighbor: %w", err)
	}

	s.logActivity(ctx, id, activity.TypeNeighborDeleted, "deleted")
	return nil
}

func (s *Service) logActivity(ctx context.Context, id string, typ activity.Type, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.Entry{
		NeighborID: id,
		Type:       typ,
		Summary:    summary,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("activity log failed", "neighbor_id", id, "type", typ, "error", err)
	}
}
