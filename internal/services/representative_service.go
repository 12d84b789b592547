package services

import (
	"context"
	"fmt"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/model"
)

// RepresentativeService reads and writes representatives
type RepresentativeService struct {
	docs database.Documents
	now  func() time.Time
}

// NewRepresentativeService creates a RepresentativeService backed by docs
func NewRepresentativeService(docs database.Documents) *RepresentativeService {
	return &RepresentativeService{docs: docs, now: time.Now}
}

// GetAll returns every representative
func (s *RepresentativeService) GetAll(ctx context.Context) ([]model.Representative, error) {
	docs, err := s.docs.List(ctx, database.CollRepresentatives, nil)
	if err != nil {
		return nil, fmt.Errorf("get representatives: %w", err)
	}

	now := s.now()
	reps := make([]model.Representative, 0, len(docs))
	for _, doc := range docs {
		reps = append(reps, model.DecodeRepresentative(doc, now))
	}
	return reps, nil
}

// Add stores a new representative and returns it with its generated id
func (s *RepresentativeService) Add(ctx context.Context, in model.RepresentativeInput) (model.Representative, error) {
	doc := in.Document()
	doc["createdAt"] = database.ServerTimestamp
	doc["updatedAt"] = database.ServerTimestamp

	stored, err := s.docs.Create(ctx, database.CollRepresentatives, doc)
	if err != nil {
		return model.Representative{}, fmt.Errorf("add representative: %w", err)
	}
	return model.DecodeRepresentative(stored, s.now()), nil
}

// Update applies a partial update to a representative
func (s *RepresentativeService) Update(ctx context.Context, id string, patch model.RepresentativePatch) error {
	doc := patch.Document()
	doc["updatedAt"] = database.ServerTimestamp

	if err := s.docs.Update(ctx, database.CollRepresentatives, id, doc); err != nil {
		return fmt.Errorf("update representative %s: %w", id, err)
	}
	return nil
}

// Delete removes a representative and, in the same batch, unassigns it from
// every territory that referenced it. The territories themselves are kept.
func (s *RepresentativeService) Delete(ctx context.Context, id string) error {
	if _, err := s.docs.Get(ctx, database.CollRepresentatives, id); err != nil {
		return fmt.Errorf("delete representative %s: %w", id, err)
	}

	err := s.docs.Batch(ctx, []database.Op{
		database.RemoveOp(database.CollRepresentatives, id),
		database.UpdateWhereOp(database.CollTerritories, "representativeId", id, database.Document{
			"representativeId": "",
			"updatedAt":        database.ServerTimestamp,
		}),
	})
	if err != nil {
		return fmt.Errorf("delete representative %s: %w", id, err)
	}
	return nil
}
