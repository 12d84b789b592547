package services

import (
	"context"
	"fmt"
	"time"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/model"
	"github.com/effiwise/effimappro/util"
)

// TerritoryService reads and writes territories
type TerritoryService struct {
	docs database.Documents
	now  func() time.Time
}

// NewTerritoryService creates a TerritoryService backed by docs
func NewTerritoryService(docs database.Documents) *TerritoryService {
	return &TerritoryService{docs: docs, now: time.Now}
}

// GetAll returns every territory
func (s *TerritoryService) GetAll(ctx context.Context) ([]model.Territory, error) {
	docs, err := s.docs.List(ctx, database.CollTerritories, nil)
	if err != nil {
		return nil, fmt.Errorf("get territories: %w", err)
	}

	now := s.now()
	territories := make([]model.Territory, 0, len(docs))
	for _, doc := range docs {
		territories = append(territories, model.DecodeTerritory(doc, now))
	}
	return territories, nil
}

// Add stores a new territory and returns it with its generated id
func (s *TerritoryService) Add(ctx context.Context, in model.TerritoryInput) (model.Territory, error) {
	doc := in.Document()
	doc["createdAt"] = database.ServerTimestamp
	doc["updatedAt"] = database.ServerTimestamp

	stored, err := s.docs.Create(ctx, database.CollTerritories, doc)
	if err != nil {
		return model.Territory{}, fmt.Errorf("add territory: %w", err)
	}
	return model.DecodeTerritory(stored, s.now()), nil
}

// Put stores a territory under its own id, replacing any existing document.
// The original creation time is kept when the territory has one.
func (s *TerritoryService) Put(ctx context.Context, t model.Territory) (model.Territory, error) {
	id := util.SanitizeKey(t.ID)
	if id == "" {
		return s.Add(ctx, t.Input())
	}

	doc := t.Input().Document()
	doc["createdAt"] = database.ServerTimestamp
	if !t.CreatedAt.IsZero() {
		doc["createdAt"] = t.CreatedAt.UTC().Format(database.TimestampLayout)
	}
	doc["updatedAt"] = database.ServerTimestamp

	if err := s.docs.Put(ctx, database.CollTerritories, id, doc); err != nil {
		return model.Territory{}, fmt.Errorf("put territory %s: %w", id, err)
	}

	stored, err := s.docs.Get(ctx, database.CollTerritories, id)
	if err != nil {
		return model.Territory{}, fmt.Errorf("put territory %s: %w", id, err)
	}
	return model.DecodeTerritory(stored, s.now()), nil
}

// Update applies a partial update to a territory
func (s *TerritoryService) Update(ctx context.Context, id string, patch model.TerritoryPatch) error {
	doc := patch.Document()
	doc["updatedAt"] = database.ServerTimestamp

	if err := s.docs.Update(ctx, database.CollTerritories, id, doc); err != nil {
		return fmt.Errorf("update territory %s: %w", id, err)
	}
	return nil
}

// Delete removes a territory
func (s *TerritoryService) Delete(ctx context.Context, id string) error {
	if err := s.docs.Remove(ctx, database.CollTerritories, id); err != nil {
		return fmt.Errorf("delete territory %s: %w", id, err)
	}
	return nil
}
