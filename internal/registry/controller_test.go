package registry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/torrejon/vecinored/internal/domain/neighbor"
	"github.com/torrejon/vecinored/internal/registry"
	"github.com/torrejon/vecinored/internal/repository/mocks"
)

func seed() []neighbor.Neighbor {
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	return []neighbor.Neighbor{
		{ID: "n1", Name: "Luis", Address: "Calle Hospital 2", Phone: "600000001", Status: neighbor.StatusActive, CreatedAt: base},
		{ID: "n2", Name: "Carmen", Address: "Avenida Constitución 9", Phone: "600000002", Status: neighbor.StatusNew, CreatedAt: base.Add(-time.Hour)},
		{ID: "n3", Name: "Pedro", Address: "Calle Madrid 15", Phone: "600000003", Status: neighbor.StatusAway, CreatedAt: base.Add(-2 * time.Hour)},
	}
}

func loaded(t *testing.T) (*registry.Controller, *mocks.NeighborRepository, *mocks.PlanGenerator) {
	t.Helper()
	ctx := context.Background()
	repo := &mocks.NeighborRepository{}
	plans := &mocks.PlanGenerator{}
	repo.On("ListAll", ctx).Return(seed(), nil).Once()

	c := registry.NewController(repo, plans, nil)
	require.NoError(t, c.Load(ctx))
	return c, repo, plans
}

func TestController_LoadReplacesCollection(t *testing.T) {
	c, _, _ := loaded(t)

	vs := c.Snapshot()
	require.Len(t, vs.Neighbors, 3)
	require.False(t, vs.Loading)
	require.Empty(t, vs.Error)
	require.Equal(t, registry.ModeBoard, vs.Mode)
}

func TestController_LoadFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NeighborRepository{}
	repo.On("ListAll", ctx).Return(nil, errors.New("io"))

	c := registry.NewController(repo, &mocks.PlanGenerator{}, nil)
	err := c.Load(ctx)

	var aerr *registry.ActionError
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, registry.ActionLoad, aerr.Action)

	vs := c.Snapshot()
	require.Empty(t, vs.Neighbors)
	require.False(t, vs.Loading)
	require.Equal(t, registry.MsgLoadFailed, vs.Error)
}

func TestController_CreatePrependsWithPlan(t *testing.T) {
	ctx := context.Background()
	c, repo, plans := loaded(t)

	fields := neighbor.Fields{Name: "Ana García", Address: "Calle Mayor 4, 2ºB", Phone: "600111222"}
	steps := []string{"Bienvenida", "Visita guiada"}
	created := &neighbor.Neighbor{
		ID: "n4", Name: fields.Name, Address: fields.Address, Phone: fields.Phone,
		Status: neighbor.StatusNew, CreatedAt: time.Now(), IntegrationPlan: steps,
	}
	plans.On("GenerateWelcomePlan", ctx, fields.Name, fields.Address).Return(steps, nil)
	repo.On("Create", ctx, neighbor.Draft{Fields: fields, IntegrationPlan: steps}).Return(created, nil)

	c.OpenCreateForm()
	got, err := c.Submit(ctx, fields)
	require.NoError(t, err)
	require.Equal(t, "n4", got.ID)

	vs := c.Snapshot()
	require.Len(t, vs.Neighbors, 4)
	require.Equal(t, "n4", vs.Neighbors[0].ID)
	require.Equal(t, neighbor.StatusNew, vs.Neighbors[0].Status)
	require.Equal(t, steps, vs.Neighbors[0].IntegrationPlan)
	require.False(t, vs.FormOpen)
}

func TestController_SequentialCreatesKeepMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	c, repo, plans := loaded(t)
	plans.On("GenerateWelcomePlan", ctx, mock.Anything, mock.Anything).Return([]string{"Paso"}, nil)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("new-%d", i)
		name := fmt.Sprintf("Vecino %d", i)
		repo.On("Create", ctx, mock.MatchedBy(func(d neighbor.Draft) bool { return d.Name == name })).
			Return(&neighbor.Neighbor{ID: id, Name: name, Status: neighbor.StatusNew}, nil).Once()

		_, err := c.Submit(ctx, neighbor.Fields{Name: name, Address: "Calle", Phone: "1"})
		require.NoError(t, err)
		require.Equal(t, id, c.Snapshot().Neighbors[0].ID)
	}
	require.Len(t, c.Snapshot().Neighbors, 8)
}

func TestController_PlanFailureAbortsCreate(t *testing.T) {
	ctx := context.Background()
	c, repo, plans := loaded(t)

	plans.On("GenerateWelcomePlan", ctx, "Ana", "Calle Mayor").Return(nil, errors.New("model unavailable"))

	c.OpenCreateForm()
	_, err := c.Submit(ctx, neighbor.Fields{Name: "Ana", Address: "Calle Mayor", Phone: "600"})
	require.Error(t, err)

	vs := c.Snapshot()
	require.Len(t, vs.Neighbors, 3)
	require.Equal(t, registry.MsgSaveFailed, vs.Error)
	require.True(t, vs.FormOpen)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestController_EditUsesRepositoryResult(t *testing.T) {
	ctx := context.Background()
	c, repo, plans := loaded(t)

	canonical := &neighbor.Neighbor{ID: "n2", Name: "Carmen Ruiz", Address: "Avenida Constitución 11", Phone: "600000002", Status: neighbor.StatusNew}
	repo.On("Update", ctx, mock.MatchedBy(func(n neighbor.Neighbor) bool {
		return n.ID == "n2" && n.Name == "carmen ruiz"
	})).Return(canonical, nil)

	require.True(t, c.OpenEditForm("n2"))
	_, err := c.Submit(ctx, neighbor.Fields{Name: "carmen ruiz", Address: "Avenida Constitución 11", Phone: "600000002"})
	require.NoError(t, err)

	vs := c.Snapshot()
	require.Len(t, vs.Neighbors, 3)
	require.Equal(t, *canonical, vs.Neighbors[1])
	require.Nil(t, vs.Editing)
	require.False(t, vs.FormOpen)
	plans.AssertNotCalled(t, "GenerateWelcomePlan", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_EditFailureKeepsTarget(t *testing.T) {
	ctx := context.Background()
	c, repo, _ := loaded(t)
	repo.On("Update", ctx, mock.Anything).Return(nil, neighbor.ErrNeighborNotFound)

	require.True(t, c.OpenEditForm("n1"))
	_, err := c.Submit(ctx, neighbor.Fields{Name: "Luis", Address: "Calle", Phone: "1"})
	require.ErrorIs(t, err, neighbor.ErrNeighborNotFound)

	vs := c.Snapshot()
	require.Equal(t, registry.MsgSaveFailed, vs.Error)
	require.NotNil(t, vs.Editing)
	require.Equal(t, seed(), vs.Neighbors)
}

func TestController_UpdateStatusChangesExactlyOne(t *testing.T) {
	ctx := context.Background()
	c, repo, _ := loaded(t)

	before := c.Snapshot().Neighbors
	moved := before[0]
	moved.Status = neighbor.StatusAway
	repo.On("UpdateStatus", ctx, "n1", neighbor.StatusAway).Return(&moved, nil)

	_, err := c.UpdateStatus(ctx, "n1", neighbor.StatusAway)
	require.NoError(t, err)

	after := c.Snapshot().Neighbors
	require.Len(t, after, len(before))
	require.Equal(t, neighbor.StatusAway, after[0].Status)
	require.Equal(t, before[0].Name, after[0].Name)
	require.Equal(t, before[1:], after[1:])

	board := c.Board()
	require.Equal(t, 0, board[1].Count)
	require.Equal(t, 2, board[2].Count)
	require.Equal(t, "Ausentes", board[2].Label)
}

func TestController_UpdateStatusFailureLeavesState(t *testing.T) {
	ctx := context.Background()
	c, repo, _ := loaded(t)
	repo.On("UpdateStatus", ctx, "n1", neighbor.StatusAway).Return(nil, errors.New("io"))

	_, err := c.UpdateStatus(ctx, "n1", neighbor.StatusAway)
	require.Error(t, err)

	vs := c.Snapshot()
	require.Equal(t, registry.MsgStatusFailed, vs.Error)
	require.Equal(t, neighbor.StatusActive, vs.Neighbors[0].Status)
}

func TestController_DeleteThenDeleteAgain(t *testing.T) {
	ctx := context.Background()
	c, repo, _ := loaded(t)
	repo.On("Delete", ctx, "n3").Return(nil).Once()
	repo.On("Delete", ctx, "n3").Return(neighbor.ErrNeighborNotFound).Once()

	require.True(t, c.ShowDetails("n3"))
	require.NoError(t, c.Delete(ctx, "n3"))

	vs := c.Snapshot()
	require.Len(t, vs.Neighbors, 2)
	_, found := c.Find("n3")
	require.False(t, found)
	require.Nil(t, vs.Selected)

	err := c.Delete(ctx, "n3")
	require.ErrorIs(t, err, neighbor.ErrNeighborNotFound)
	vs = c.Snapshot()
	require.Len(t, vs.Neighbors, 2)
	require.Equal(t, registry.MsgDeleteFailed, vs.Error)

	c.DismissError()
	require.Empty(t, c.Snapshot().Error)
}

func TestController_SetModeDoesNotRefetch(t *testing.T) {
	c, repo, _ := loaded(t)

	require.NoError(t, c.SetMode(registry.ModeList))
	require.Equal(t, registry.ModeList, c.Snapshot().Mode)
	require.ErrorIs(t, c.SetMode("grid"), registry.ErrInvalidViewMode)
	repo.AssertNumberOfCalls(t, "ListAll", 1)
}

type logoutFlag bool

func (l logoutFlag) LogoutPending() bool { return bool(l) }

type countingRecorder struct {
	actions map[string]int
	plans   int
}

func (r *countingRecorder) ActionCompleted(action string, err error) {
	key := action + ":ok"
	if err != nil {
		key = action + ":error"
	}
	r.actions[key]++
}

func (r *countingRecorder) PlanGenerated(time.Duration, error) { r.plans++ }

func TestController_OptionsReportOutcomes(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NeighborRepository{}
	plans := &mocks.PlanGenerator{}
	rec := &countingRecorder{actions: map[string]int{}}
	repo.On("ListAll", ctx).Return([]neighbor.Neighbor{}, nil)
	plans.On("GenerateWelcomePlan", ctx, "Ana", "Calle").Return(nil, errors.New("down"))

	c := registry.NewController(repo, plans, nil, registry.WithRecorder(rec), registry.WithLogoutIndicator(logoutFlag(true)))
	require.NoError(t, c.Load(ctx))
	_, err := c.Submit(ctx, neighbor.Fields{Name: "Ana", Address: "Calle", Phone: "1"})
	require.Error(t, err)

	require.Equal(t, 1, rec.actions["load:ok"])
	require.Equal(t, 1, rec.actions["save:error"])
	require.Equal(t, 1, rec.plans)
	require.True(t, c.Snapshot().LogoutPending)
}

func TestController_CreateAndEditLeaveFormAlone(t *testing.T) {
	ctx := context.Background()
	c, repo, plans := loaded(t)

	plans.On("GenerateWelcomePlan", ctx, "Ana", "Calle").Return([]string{"Paso"}, nil)
	repo.On("Create", ctx, mock.Anything).Return(&neighbor.Neighbor{ID: "n4", Name: "Ana", Status: neighbor.StatusNew}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(n neighbor.Neighbor) bool { return n.ID == "n3" })).
		Return(&neighbor.Neighbor{ID: "n3", Name: "Pedro Gil", Status: neighbor.StatusAway}, nil)

	require.True(t, c.OpenEditForm("n1"))
	_, err := c.Create(ctx, neighbor.Fields{Name: "Ana", Address: "Calle", Phone: "1"})
	require.NoError(t, err)
	_, err = c.Edit(ctx, "n3", neighbor.Fields{Name: "Pedro Gil", Address: "Calle Madrid 15", Phone: "600000003"})
	require.NoError(t, err)

	vs := c.Snapshot()
	require.True(t, vs.FormOpen)
	require.NotNil(t, vs.Editing)
	require.Equal(t, "n1", vs.Editing.ID)
	require.Len(t, vs.Neighbors, 4)
	require.Equal(t, "n4", vs.Neighbors[0].ID)
	require.Equal(t, "Pedro Gil", vs.Neighbors[3].Name)

	_, err = c.Edit(ctx, "ghost", neighbor.Fields{Name: "X", Address: "Y", Phone: "Z"})
	require.ErrorIs(t, err, neighbor.ErrNeighborNotFound)
	require.Empty(t, c.Snapshot().Error)
}
