package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDocs() *database.MemoryDocuments {
	docs := database.NewMemoryDocuments()
	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	docs.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return docs
}

func TestBranchAddThenGetAll(t *testing.T) {
	ctx := context.Background()
	svc := NewBranchService(newDocs())

	added, err := svc.Add(ctx, model.BranchInput{
		Name:        "Denver",
		Address:     "1600 Broadway",
		Contact:     "303-555-0100",
		Coordinates: model.Coordinates{39.7392, -104.9903},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())
	assert.Equal(t, added.CreatedAt, added.UpdatedAt)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, added.ID, all[0].ID)
	assert.Equal(t, "Denver", all[0].Name)
	assert.InDelta(t, 39.7392, all[0].Coordinates.Lat(), 1e-9)
	assert.InDelta(t, -104.9903, all[0].Coordinates.Lng(), 1e-9)
}

func TestBranchUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewBranchService(newDocs())

	added, err := svc.Add(ctx, model.BranchInput{Name: "Denver", Address: "1600 Broadway"})
	require.NoError(t, err)

	name := "Denver HQ"
	require.NoError(t, svc.Update(ctx, added.ID, model.BranchPatch{Name: &name}))

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Denver HQ", all[0].Name)
	assert.Equal(t, "1600 Broadway", all[0].Address)
	assert.True(t, all[0].UpdatedAt.After(all[0].CreatedAt))

	err = svc.Update(ctx, "missing", model.BranchPatch{Name: &name})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBranchDeleteCascades(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	branches := NewBranchService(docs)
	reps := NewRepresentativeService(docs)
	territories := NewTerritoryService(docs)

	keep, err := branches.Add(ctx, model.BranchInput{Name: "Keep"})
	require.NoError(t, err)
	doomed, err := branches.Add(ctx, model.BranchInput{Name: "Doomed"})
	require.NoError(t, err)

	_, err = reps.Add(ctx, model.RepresentativeInput{Name: "Ann", BranchID: doomed.ID})
	require.NoError(t, err)
	bob, err := reps.Add(ctx, model.RepresentativeInput{Name: "Bob", BranchID: keep.ID})
	require.NoError(t, err)

	_, err = territories.Add(ctx, model.TerritoryInput{Name: "T1", BranchID: doomed.ID})
	require.NoError(t, err)
	kept, err := territories.Add(ctx, model.TerritoryInput{Name: "T2", BranchID: keep.ID})
	require.NoError(t, err)

	require.NoError(t, branches.Delete(ctx, doomed.ID))

	allBranches, _ := branches.GetAll(ctx)
	require.Len(t, allBranches, 1)
	assert.Equal(t, keep.ID, allBranches[0].ID)

	allReps, _ := reps.GetAll(ctx)
	require.Len(t, allReps, 1)
	assert.Equal(t, bob.ID, allReps[0].ID)

	allTerritories, _ := territories.GetAll(ctx)
	require.Len(t, allTerritories, 1)
	assert.Equal(t, kept.ID, allTerritories[0].ID)

	assert.ErrorIs(t, branches.Delete(ctx, doomed.ID), database.ErrNotFound)
}

func TestRepresentativeDeleteClearsTerritories(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	reps := NewRepresentativeService(docs)
	territories := NewTerritoryService(docs)

	rep, err := reps.Add(ctx, model.RepresentativeInput{Name: "Ann", BranchID: "b1"})
	require.NoError(t, err)

	assigned, err := territories.Add(ctx, model.TerritoryInput{
		Name:             "Ann's patch",
		Type:             model.TerritoryRepresentative,
		BranchID:         "b1",
		RepresentativeID: rep.ID,
		Coordinates:      []model.Coordinates{{1, 1}, {1, 2}, {2, 2}},
	})
	require.NoError(t, err)
	other, err := territories.Add(ctx, model.TerritoryInput{Name: "Other", RepresentativeID: "someone-else"})
	require.NoError(t, err)

	require.NoError(t, reps.Delete(ctx, rep.ID))

	allReps, _ := reps.GetAll(ctx)
	assert.Empty(t, allReps)

	all, err := territories.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byID := map[string]model.Territory{}
	for _, tr := range all {
		byID[tr.ID] = tr
	}
	assert.Equal(t, "", byID[assigned.ID].RepresentativeID)
	assert.Equal(t, "b1", byID[assigned.ID].BranchID)
	assert.Len(t, byID[assigned.ID].Coordinates, 3)
	assert.Equal(t, "someone-else", byID[other.ID].RepresentativeID)
}

func TestTerritoryPutKeepsID(t *testing.T) {
	ctx := context.Background()
	svc := NewTerritoryService(newDocs())
	created := time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)

	stored, err := svc.Put(ctx, model.Territory{
		ID:          "imported-1",
		Name:        "Imported",
		Type:        model.TerritoryBranch,
		Coordinates: []model.Coordinates{{1, 2}},
		CreatedAt:   created,
	})
	require.NoError(t, err)
	assert.Equal(t, "imported-1", stored.ID)
	assert.True(t, created.Equal(stored.CreatedAt))
	assert.Equal(t, model.DefaultTerritoryColor, stored.Color)

	noID, err := svc.Put(ctx, model.Territory{Name: "Fresh"})
	require.NoError(t, err)
	assert.NotEmpty(t, noID.ID)

	require.NoError(t, svc.Delete(ctx, "imported-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "imported-1"), database.ErrNotFound)
}

type recordingPublisher struct {
	published []model.Activity
	err       error
}

func (p *recordingPublisher) PublishActivityRecorded(_ context.Context, a model.Activity) error {
	p.published = append(p.published, a)
	return p.err
}

func TestActivityRecentOrdering(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	svc := NewActivityService(newDocs(), publisher, zap.NewNop())

	for i := 0; i < 12; i++ {
		_, err := svc.Add(ctx, model.Activity{
			Type:       model.ActivityCreate,
			EntityType: model.EntityBranch,
			EntityID:   fmt.Sprintf("b%d", i),
			EntityName: fmt.Sprintf("Branch %d", i),
			UserID:     "u1",
			UserEmail:  "u1@example.com",
		})
		require.NoError(t, err)
	}
	assert.Len(t, publisher.published, 12)

	recent, err := svc.GetRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentActivities)
	assert.Equal(t, "b11", recent[0].EntityID)
	assert.Equal(t, "b2", recent[9].EntityID)

	five, err := svc.GetRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, five, 5)
	for i := 1; i < len(five); i++ {
		assert.True(t, five[i-1].Timestamp.After(five[i].Timestamp))
	}
}

func TestActivityPublishFailureIsSwallowed(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := NewActivityService(newDocs(), publisher, zap.NewNop())

	recorded, err := svc.Add(context.Background(), model.Activity{Type: model.ActivityDelete, EntityType: model.EntityTerritory})
	require.NoError(t, err)
	assert.NotEmpty(t, recorded.ID)
	assert.False(t, recorded.Timestamp.IsZero())
}
