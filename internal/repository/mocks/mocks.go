package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
)

// NeighborStore is a mock for neighbor.Store.
type NeighborStore struct {
	mock.Mock
}

func (m *NeighborStore) Create(ctx context.Context, n *neighbor.Neighbor) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NeighborStore) Get(ctx context.Context, id string) (*neighbor.Neighbor, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*neighbor.Neighbor); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NeighborStore) Update(ctx context.Context, n *neighbor.Neighbor) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NeighborStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NeighborStore) List(ctx context.Context) ([]neighbor.Neighbor, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]neighbor.Neighbor); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// NeighborRepository is a mock for the controller's record repository.
type NeighborRepository struct {
	mock.Mock
}

func (m *NeighborRepository) ListAll(ctx context.Context) ([]neighbor.Neighbor, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]neighbor.Neighbor); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NeighborRepository) Create(ctx context.Context, draft neighbor.Draft) (*neighbor.Neighbor, error) {
	args := m.Called(ctx, draft)
	if n, ok := args.Get(0).(*neighbor.Neighbor); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NeighborRepository) Update(ctx context.Context, n neighbor.Neighbor) (*neighbor.Neighbor, error) {
	args := m.Called(ctx, n)
	if out, ok := args.Get(0).(*neighbor.Neighbor); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NeighborRepository) UpdateStatus(ctx context.Context, id string, status neighbor.Status) (*neighbor.Neighbor, error) {
	args := m.Called(ctx, id, status)
	if out, ok := args.Get(0).(*neighbor.Neighbor); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NeighborRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// PlanGenerator is a mock for the welcome plan generator.
type PlanGenerator struct {
	mock.Mock
}

func (m *PlanGenerator) GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error) {
	args := m.Called(ctx, name, address)
	if steps, ok := args.Get(0).([]string); ok {
		return steps, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionStorage is a mock for session.Storage.
type SessionStorage struct {
	mock.Mock
}

func (m *SessionStorage) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionStorage) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *SessionStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
