package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/torrejon/vecinored/internal/domain/activity"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	entry1 := &activity.Entry{
		NeighborID: "n1",
		Type:       activity.TypeNeighborCreated,
		Summary:    "registered Ana",
		CreatedAt:  base,
	}
	entry2 := &activity.Entry{
		NeighborID: "n1",
		Type:       activity.TypeStatusChanged,
		Summary:    "NEW -> ACTIVE",
		Details:    `{"from":"NEW"}`,
		CreatedAt:  base.Add(time.Second),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.Type, entries[0].Type)
	require.Equal(t, entry1.Type, entries[1].Type)
	require.Equal(t, `{"from":"NEW"}`, entries[0].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	require.NoError(t, repo.Log(ctx, &activity.Entry{NeighborID: "n1", Type: activity.TypeNeighborCreated, Summary: "a"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{NeighborID: "n2", Type: activity.TypeNeighborCreated, Summary: "b"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{NeighborID: "n2", Type: activity.TypeNeighborDeleted, Summary: "c"}))

	neighborID := "n2"
	deleted := activity.TypeNeighborDeleted
	entries, err := repo.List(ctx, activity.ListOptions{NeighborID: &neighborID, Type: &deleted})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "c", entries[0].Summary)

	entries, err = repo.List(ctx, activity.ListOptions{NeighborID: &neighborID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
