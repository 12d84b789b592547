package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocuments() *MemoryDocuments {
	m := NewMemoryDocuments()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	n := 0
	m.NewKey = func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
	return m
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()

	stored, err := m.Create(ctx, CollBranches, Document{"name": "HQ", "createdAt": ServerTimestamp})
	require.NoError(t, err)
	assert.Equal(t, "k1", stored["_key"])
	assert.Equal(t, "2024-03-01T09:00:01.000Z", stored["createdAt"])

	got, err := m.Get(ctx, CollBranches, "k1")
	require.NoError(t, err)
	assert.Equal(t, "HQ", got["name"])

	got["name"] = "changed"
	again, _ := m.Get(ctx, CollBranches, "k1")
	assert.Equal(t, "HQ", again["name"])

	_, err = m.Get(ctx, CollBranches, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUnknownCollection(t *testing.T) {
	_, err := newTestDocuments().List(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestMemoryUpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()

	_, err := m.Create(ctx, CollBranches, Document{"name": "HQ", "address": "1 Main"})
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, CollBranches, "k1", Document{"name": "Head Office"}))
	got, _ := m.Get(ctx, CollBranches, "k1")
	assert.Equal(t, "Head Office", got["name"])
	assert.Equal(t, "1 Main", got["address"])

	assert.ErrorIs(t, m.Update(ctx, CollBranches, "k9", Document{"name": "x"}), ErrNotFound)

	require.NoError(t, m.Remove(ctx, CollBranches, "k1"))
	assert.ErrorIs(t, m.Remove(ctx, CollBranches, "k1"), ErrNotFound)
}

func TestMemoryListSortAndLimit(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()

	for i := 0; i < 4; i++ {
		_, err := m.Create(ctx, CollActivities, Document{"n": i, "timestamp": ServerTimestamp})
		require.NoError(t, err)
	}

	docs, err := m.List(ctx, CollActivities, &ListOptions{SortBy: "timestamp", Descending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, float64(3), docs[0]["n"])
	assert.Equal(t, float64(2), docs[1]["n"])

	all, err := m.List(ctx, CollActivities, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, float64(0), all[0]["n"])
}

func TestMemoryPut(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()

	require.NoError(t, m.Put(ctx, CollTerritories, "t1", Document{"name": "North"}))
	require.NoError(t, m.Put(ctx, CollTerritories, "t1", Document{"name": "North 2"}))

	docs, err := m.List(ctx, CollTerritories, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "North 2", docs[0]["name"])
	assert.Equal(t, "t1", docs[0]["_key"])
}

func TestMemoryBatch(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()

	require.NoError(t, m.Put(ctx, CollBranches, "b1", Document{"name": "HQ"}))
	require.NoError(t, m.Put(ctx, CollTerritories, "t1", Document{"branchId": "b1", "representativeId": "r1"}))
	require.NoError(t, m.Put(ctx, CollTerritories, "t2", Document{"branchId": "b2", "representativeId": "r1"}))
	require.NoError(t, m.Put(ctx, CollRepresentatives, "r1", Document{"branchId": "b1"}))

	err := m.Batch(ctx, []Op{
		RemoveOp(CollBranches, "b1"),
		RemoveWhereOp(CollRepresentatives, "branchId", "b1"),
		UpdateWhereOp(CollTerritories, "representativeId", "r1", Document{"representativeId": "", "updatedAt": ServerTimestamp}),
	})
	require.NoError(t, err)

	_, err = m.Get(ctx, CollBranches, "b1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, CollRepresentatives, "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, key := range []string{"t1", "t2"} {
		doc, err := m.Get(ctx, CollTerritories, key)
		require.NoError(t, err)
		assert.Equal(t, "", doc["representativeId"])
		assert.NotEmpty(t, doc["updatedAt"])
	}
}

func TestMemoryBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := newTestDocuments()
	require.NoError(t, m.Put(ctx, CollBranches, "b1", Document{"name": "HQ"}))

	err := m.Batch(ctx, []Op{
		RemoveOp(CollBranches, "b1"),
		RemoveWhereOp("unknown", "branchId", "b1"),
	})
	require.Error(t, err)

	_, err = m.Get(ctx, CollBranches, "b1")
	assert.NoError(t, err)

	err = m.Batch(ctx, []Op{RemoveOp(CollBranches, "b1"), RemoveWhereOp(CollBranches, "x", 1)})
	assert.Error(t, err)
}

func TestNeedsMigration(t *testing.T) {
	assert.True(t, NeedsMigration(""))
	assert.True(t, NeedsMigration("garbage"))
	assert.True(t, NeedsMigration("1.0.0"))
	assert.False(t, NeedsMigration(SchemaVersion))
	assert.False(t, NeedsMigration("9.0.0"))
}
